package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/modules/crc20/crc20"
	"github.com/gaze-network/crc20-resolver/pkg/decimals"
)

type tokenOutput struct {
	Symbol              string       `json:"symbol"`
	Name                string       `json:"name"`
	Decimals            uint8        `json:"decimals"`
	Category            string       `json:"category"`
	TotalSupply         string       `json:"totalSupply"`
	MintAmount          *string      `json:"mintAmount,omitempty"`
	RevealTxId          string       `json:"revealTxId"`
	RevealHeight        uint32       `json:"revealHeight"`
	RevealConfirmations uint32       `json:"revealConfirmations"`
	Trust               *crc20.Trust `json:"trust,omitempty"`
}

func mapTokenOutput(t *crc20.Token, trust *crc20.Trust) tokenOutput {
	out := tokenOutput{
		Symbol:              t.Symbol,
		Name:                t.Name,
		Decimals:            t.Decimals,
		Category:            t.Category.String(),
		TotalSupply:         decimals.ToDecimal(t.TotalSupply, t.Decimals).String(),
		RevealTxId:          t.RevealTxId.String(),
		RevealHeight:        t.RevealHeight,
		RevealConfirmations: t.RevealConfirmations,
		Trust:               trust,
	}
	if t.MintAmount != nil {
		mintAmount := decimals.ToDecimal(*t.MintAmount, t.Decimals).String()
		out.MintAmount = &mintAmount
	}
	return out
}

func writeTokenTable(w io.Writer, tokens []tokenOutput) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TRUST\tSYMBOL\tNAME\tCATEGORY\tSUPPLY\tMINT\tHEIGHT\tCONFIRMATIONS")
	for _, t := range tokens {
		trust, mint := "-", "-"
		if t.Trust != nil {
			trust = t.Trust.Color()
		}
		if t.MintAmount != nil {
			mint = *t.MintAmount
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			trust, t.Symbol, t.Name, t.Category, t.TotalSupply, mint, t.RevealHeight, t.RevealConfirmations,
		)
	}
	return errors.WithStack(tw.Flush())
}
