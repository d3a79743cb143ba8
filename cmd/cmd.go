package cmd

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common/errs"
	"github.com/gaze-network/crc20-resolver/internal/config"
	"github.com/gaze-network/crc20-resolver/modules/crc20"
	"github.com/gaze-network/crc20-resolver/pkg/logger"
	"github.com/gaze-network/crc20-resolver/pkg/logger/slogx"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:           "crc20",
		Long:          `Resolves CRC20 tokens on Bitcoin Cash by symbol or token category and verifies their genesis covenants.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			conf := config.Parse(configFile)
			if err := logger.Init(conf.Logger); err != nil {
				logger.Panic("Failed to initialize logger", slogx.Error(err), slog.Any("config", conf.Logger))
			}
			if !conf.Network.IsSupported() {
				return errors.Wrapf(errs.Unsupported, "%q network is not supported", conf.Network.String())
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file, E.g. `./config.yaml`")
	flags.String("network", "mainnet", "network to resolve on, E.g. `mainnet`, `testnet` or `chipnet`")
	flags.String("indexer", "electrum", "indexing service backend, `electrum` or `rest`")
	flags.String("indexer-url", "", "indexing service URL, overrides the configured URL of the selected backend")

	config.BindPFlag("network", flags.Lookup("network"))
	config.BindPFlag("indexer.backend", flags.Lookup("indexer"))

	cmd.AddCommand(
		NewVersionCommand(),
		NewServeCommand(),
		NewSymbolCommand(),
		NewCategoryCommand(),
		NewCovenantAddressCommand(),
	)
	return cmd
}

func Execute(ctx context.Context) {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		logger.Error("Failed to execute command", slogx.Error(err))
		os.Exit(1)
	}
}

// newInjector provides the config, ctx and the resolver module.
func newInjector(ctx context.Context, cmd *cobra.Command) (do.Injector, config.Config) {
	conf := config.Load()
	if url, _ := cmd.Flags().GetString("indexer-url"); url != "" {
		switch strings.ToLower(conf.Indexer.Backend) {
		case "rest", "bch-api":
			conf.Indexer.Rest.URL = url
		default:
			conf.Indexer.Electrum.URL = url
		}
	}

	injector := do.New(crc20.Package)
	do.ProvideValue(injector, conf)
	do.ProvideValue(injector, ctx)
	return injector, conf
}

const (
	outputText = "text"
	outputJSON = "json"
)

func addOutputFlag(cmd *cobra.Command, output *string) {
	cmd.Flags().StringVarP(output, "output", "o", outputText, "output format, `text` or `json`")
}

func validateOutput(output string) error {
	switch output {
	case outputText, outputJSON:
		return nil
	default:
		return errors.Wrapf(errs.InvalidArgument, "unknown output format %q", output)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.WithStack(enc.Encode(v))
}
