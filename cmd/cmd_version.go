package cmd

import (
	"fmt"

	"github.com/gaze-network/crc20-resolver/modules/crc20"
	"github.com/spf13/cobra"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show crc20-resolver version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), crc20.Version)
			return err
		},
	}
}
