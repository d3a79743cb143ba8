package httphandler

import (
	"net/url"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common"
	"github.com/gaze-network/crc20-resolver/modules/crc20/crc20"
	"github.com/gaze-network/crc20-resolver/modules/crc20/usecase"
	"github.com/gaze-network/crc20-resolver/pkg/decimals"
	"github.com/shopspring/decimal"
)

type HttpHandler struct {
	usecase *usecase.Usecase
	network common.Network
}

func New(usecase *usecase.Usecase) *HttpHandler {
	return &HttpHandler{
		usecase: usecase,
		network: usecase.Network(),
	}
}

type token struct {
	Symbol              string           `json:"symbol"`
	Name                string           `json:"name"`
	Decimals            uint8            `json:"decimals"`
	Category            string           `json:"category"`
	TotalSupply         string           `json:"totalSupply"` // raw amount
	DisplayTotalSupply  decimal.Decimal  `json:"displayTotalSupply"`
	MintAmount          *string          `json:"mintAmount"` // raw amount
	DisplayMintAmount   *decimal.Decimal `json:"displayMintAmount"`
	RevealTxId          string           `json:"revealTxId"`
	RevealHeight        uint32           `json:"revealHeight"`
	RevealConfirmations uint32           `json:"revealConfirmations"`
	Trust               *crc20.Trust     `json:"trust,omitempty"` // green, red or yellow
}

func mapToken(t *crc20.Token) *token {
	result := &token{
		Symbol:              t.Symbol,
		Name:                t.Name,
		Decimals:            t.Decimals,
		Category:            t.Category.String(),
		TotalSupply:         strconv.FormatUint(t.TotalSupply, 10),
		DisplayTotalSupply:  decimals.ToDecimal(t.TotalSupply, t.Decimals),
		RevealTxId:          t.RevealTxId.String(),
		RevealHeight:        t.RevealHeight,
		RevealConfirmations: t.RevealConfirmations,
	}
	if t.MintAmount != nil {
		raw := strconv.FormatUint(*t.MintAmount, 10)
		display := decimals.ToDecimal(*t.MintAmount, t.Decimals)
		result.MintAmount = &raw
		result.DisplayMintAmount = &display
	}
	return result
}

func unescapeParam(value string) (string, error) {
	unescaped, err := url.PathUnescape(value)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return unescaped, nil
}
