package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common"
	"github.com/gaze-network/crc20-resolver/common/errs"
	"github.com/gaze-network/crc20-resolver/modules/crc20/usecase"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

type categoryCmdOptions struct {
	Output string
}

func NewCategoryCommand() *cobra.Command {
	opts := &categoryCmdOptions{}

	cmd := &cobra.Command{
		Use:   "category <CATEGORY>",
		Short: "Show the verified token of a token category, the txid of its commit transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return categoryHandler(opts, cmd, args)
		},
	}
	addOutputFlag(cmd, &opts.Output)
	return cmd
}

func categoryHandler(opts *categoryCmdOptions, cmd *cobra.Command, args []string) error {
	if err := validateOutput(opts.Output); err != nil {
		return errors.WithStack(err)
	}
	category, err := common.ParseTxId(args[0])
	if err != nil {
		return errors.Wrap(err, "invalid category")
	}

	injector, _ := newInjector(cmd.Context(), cmd)
	defer func() { _ = injector.Shutdown() }()

	uc, err := do.Invoke[*usecase.Usecase](injector)
	if err != nil {
		return errors.Wrap(err, "can't init resolver")
	}

	w := cmd.OutOrStdout()
	token, err := uc.ResolveByCategory(cmd.Context(), category)
	if errors.Is(err, errs.NotFound) {
		if opts.Output == outputJSON {
			return writeJSON(w, nil)
		}
		_, err := fmt.Fprintf(w, "%s is not a verified CRC20 token\n", category)
		return errors.WithStack(err)
	}
	if err != nil {
		return errors.Wrapf(err, "can't resolve category %s", category)
	}

	out := mapTokenOutput(token, nil)
	if opts.Output == outputJSON {
		return writeJSON(w, out)
	}
	return writeTokenTable(w, []tokenOutput{out})
}
