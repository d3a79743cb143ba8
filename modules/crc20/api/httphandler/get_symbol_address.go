package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common"
	"github.com/gaze-network/crc20-resolver/modules/crc20/crc20"
	"github.com/gofiber/fiber/v2"
)

type getSymbolAddressResult struct {
	Symbol     string `json:"symbol"`
	Address    string `json:"address"` // cashaddr
	Legacy     string `json:"legacyAddress"`
	Hash160    string `json:"hash160"`
	ScriptHash string `json:"scriptHash"` // electrum script hash
}

type getSymbolAddressResponse = common.HttpResponse[getSymbolAddressResult]

func (h *HttpHandler) GetSymbolAddress(ctx *fiber.Ctx) (err error) {
	var req getTokensBySymbolRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	address, err := crc20.SymbolAddress(req.Symbol, h.network)
	if err != nil {
		return errors.Wrap(err, "can't derive symbol address")
	}

	resp := getSymbolAddressResponse{
		Result: &getSymbolAddressResult{
			Symbol:     req.Symbol,
			Address:    address.String(),
			Legacy:     address.Legacy(),
			Hash160:    address.HexHash160(),
			ScriptHash: address.ElectrumScriptHash(),
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
