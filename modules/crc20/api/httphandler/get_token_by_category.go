package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common"
	"github.com/gaze-network/crc20-resolver/common/errs"
	"github.com/gofiber/fiber/v2"
)

type getTokenByCategoryRequest struct {
	Category string `params:"category"`
}

func (r *getTokenByCategoryRequest) Validate() error {
	if _, err := common.ParseTxId(r.Category); err != nil {
		return errs.WithPublicMessage(err, "validation error")
	}
	return nil
}

type getTokenByCategoryResponse = common.HttpResponse[token]

func (h *HttpHandler) GetTokenByCategory(ctx *fiber.Ctx) (err error) {
	var req getTokenByCategoryRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	category, _ := common.ParseTxId(req.Category)

	t, err := h.usecase.ResolveByCategory(ctx.UserContext(), category)
	if err != nil {
		return errors.Wrap(err, "error during ResolveByCategory")
	}

	resp := getTokenByCategoryResponse{
		Result: mapToken(t),
	}
	return errors.WithStack(ctx.JSON(resp))
}
