package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/modules/crc20/crc20"
	"github.com/gaze-network/crc20-resolver/modules/crc20/usecase"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

type symbolCmdOptions struct {
	Output string
}

func NewSymbolCommand() *cobra.Command {
	opts := &symbolCmdOptions{}

	cmd := &cobra.Command{
		Use:   "symbol <SYMBOL>",
		Short: "List every verified token claiming a symbol, with its trust color",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return symbolHandler(opts, cmd, args)
		},
	}
	addOutputFlag(cmd, &opts.Output)
	return cmd
}

type symbolOutput struct {
	Symbol  string        `json:"symbol"`
	Address string        `json:"address"`
	Tokens  []tokenOutput `json:"tokens"`
}

func symbolHandler(opts *symbolCmdOptions, cmd *cobra.Command, args []string) error {
	if err := validateOutput(opts.Output); err != nil {
		return errors.WithStack(err)
	}
	symbol := args[0]

	injector, conf := newInjector(cmd.Context(), cmd)
	defer func() { _ = injector.Shutdown() }()

	uc, err := do.Invoke[*usecase.Usecase](injector)
	if err != nil {
		return errors.Wrap(err, "can't init resolver")
	}
	address, err := crc20.SymbolAddress(symbol, conf.Network)
	if err != nil {
		return errors.WithStack(err)
	}
	tokens, err := uc.ResolveBySymbol(cmd.Context(), symbol)
	if err != nil {
		return errors.Wrapf(err, "can't resolve symbol %q", symbol)
	}
	trust := uc.ColorTrust(tokens)

	out := symbolOutput{
		Symbol:  symbol,
		Address: address.String(),
		Tokens:  make([]tokenOutput, 0, len(tokens)),
	}
	for _, t := range tokens {
		tokenTrust := trust[t.Category]
		out.Tokens = append(out.Tokens, mapTokenOutput(t, &tokenTrust))
	}

	w := cmd.OutOrStdout()
	if opts.Output == outputJSON {
		return writeJSON(w, out)
	}
	fmt.Fprintf(w, "Symbol address: %s\n", out.Address)
	if len(out.Tokens) == 0 {
		fmt.Fprintf(w, "No verified token claims %q\n", symbol)
		return nil
	}
	return writeTokenTable(w, out.Tokens)
}
