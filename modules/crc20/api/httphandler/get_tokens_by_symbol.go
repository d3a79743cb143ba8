package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common"
	"github.com/gaze-network/crc20-resolver/common/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type getTokensBySymbolRequest struct {
	Symbol string `params:"symbol"`
}

func (r *getTokensBySymbolRequest) Validate() error {
	var errList []error
	symbol, err := unescapeParam(r.Symbol)
	if err != nil {
		return errs.WithPublicMessage(err, "validation error")
	}
	r.Symbol = symbol
	if r.Symbol == "" {
		errList = append(errList, errors.New("symbol cannot be empty"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getTokensBySymbolResult struct {
	Symbol string   `json:"symbol"`
	List   []*token `json:"list"`
}

type getTokensBySymbolResponse = common.HttpResponse[getTokensBySymbolResult]

func (h *HttpHandler) GetTokensBySymbol(ctx *fiber.Ctx) (err error) {
	var req getTokensBySymbolRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	tokens, err := h.usecase.ResolveBySymbol(ctx.UserContext(), req.Symbol)
	if err != nil {
		return errors.Wrap(err, "error during ResolveBySymbol")
	}
	trust := h.usecase.ColorTrust(tokens)

	list := make([]*token, 0, len(tokens))
	for _, t := range tokens {
		item := mapToken(t)
		item.Trust = lo.ToPtr(trust[t.Category])
		list = append(list, item)
	}

	resp := getTokensBySymbolResponse{
		Result: &getTokensBySymbolResult{
			Symbol: req.Symbol,
			List:   list,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
