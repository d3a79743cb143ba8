package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common/errs"
	"github.com/gaze-network/crc20-resolver/internal/config"
	"github.com/gaze-network/crc20-resolver/modules/crc20/crc20"
	"github.com/spf13/cobra"
)

type covenantAddressCmdOptions struct {
	RecipientPublicKey string
	Symbol             string
	Name               string
	Decimals           uint8
	Output             string
}

func NewCovenantAddressCommand() *cobra.Command {
	opts := &covenantAddressCmdOptions{}

	cmd := &cobra.Command{
		Use:   "covenant-address",
		Short: "Derive the GenesisOutput covenant address a new token's commit transaction must pay to",
		RunE: func(cmd *cobra.Command, args []string) error {
			return covenantAddressHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.RecipientPublicKey, "pubkey", "", "hex public key of the recipient, compressed or uncompressed")
	flags.StringVar(&opts.Symbol, "symbol", "", "token symbol")
	flags.StringVar(&opts.Name, "name", "", "token name")
	flags.Uint8Var(&opts.Decimals, "decimals", 0, "token decimals")
	addOutputFlag(cmd, &opts.Output)
	_ = cmd.MarkFlagRequired("pubkey")
	_ = cmd.MarkFlagRequired("symbol")

	return cmd
}

type covenantAddressOutput struct {
	Address       string `json:"address"`
	LegacyAddress string `json:"legacyAddress"`
	ScriptHash    string `json:"scriptHash"`
	RedeemScript  string `json:"redeemScript"`
	SymbolAddress string `json:"symbolAddress"`
}

func covenantAddressHandler(opts *covenantAddressCmdOptions, cmd *cobra.Command, _ []string) error {
	if err := validateOutput(opts.Output); err != nil {
		return errors.WithStack(err)
	}
	conf := config.Load()

	rawPubKey, err := hex.DecodeString(opts.RecipientPublicKey)
	if err != nil {
		return errors.Wrapf(errs.InvalidArgument, "public key is not hex: %v", err)
	}
	pubKey, err := crc20.NormalizeRecipientPublicKey(rawPubKey)
	if err != nil {
		return errors.WithStack(err)
	}
	metaInfo, symbolLength, err := crc20.MetaInfo{
		Symbol:   opts.Symbol,
		Decimals: opts.Decimals,
		Name:     opts.Name,
	}.Encode()
	if err != nil {
		return errors.WithStack(err)
	}

	contract := crc20.GenesisOutputContract{
		RecipientPublicKey: pubKey,
		MetaInfo:           metaInfo,
		SymbolLength:       symbolLength,
	}
	redeemScript, err := contract.RedeemScript()
	if err != nil {
		return errors.WithStack(err)
	}
	address, err := contract.Address(conf.Network)
	if err != nil {
		return errors.WithStack(err)
	}
	symbolAddress, err := crc20.SymbolAddress(opts.Symbol, conf.Network)
	if err != nil {
		return errors.WithStack(err)
	}

	out := covenantAddressOutput{
		Address:       address.String(),
		LegacyAddress: address.Legacy(),
		ScriptHash:    address.HexHash160(),
		RedeemScript:  hex.EncodeToString(redeemScript),
		SymbolAddress: symbolAddress.String(),
	}

	w := cmd.OutOrStdout()
	if opts.Output == outputJSON {
		return writeJSON(w, out)
	}
	_, err = fmt.Fprintf(w, "Covenant address: %s\nLegacy address:   %s\nScript hash:      %s\nRedeem script:    %s\nSymbol address:   %s\n",
		out.Address, out.LegacyAddress, out.ScriptHash, out.RedeemScript, out.SymbolAddress)
	return errors.WithStack(err)
}
