package httphandler

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/crc20-resolver/common"
	"github.com/gaze-network/crc20-resolver/common/errs"
	"github.com/gaze-network/crc20-resolver/modules/crc20/usecase"
	"github.com/gofiber/fiber/v2"
)

type getTokensByCategoryBatchRequest struct {
	Categories []string `json:"categories"`
}

func (r *getTokensByCategoryBatchRequest) Validate() error {
	var errList []error
	if len(r.Categories) == 0 {
		errList = append(errList, errors.New("categories cannot be empty"))
	}
	if len(r.Categories) > usecase.MaxBatchCategories {
		errList = append(errList, errors.Errorf("cannot query more than %d categories", usecase.MaxBatchCategories))
	}
	for i, category := range r.Categories {
		if _, err := common.ParseTxId(category); err != nil {
			errList = append(errList, errors.Errorf("categories[%d]: '%s' is not a valid transaction id", i, category))
		}
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getTokensByCategoryBatchResult struct {
	// List maps each requested category to its token, or null if it isn't one.
	List map[string]*token `json:"list"`
}

type getTokensByCategoryBatchResponse = common.HttpResponse[getTokensByCategoryBatchResult]

func (h *HttpHandler) GetTokensByCategoryBatch(ctx *fiber.Ctx) (err error) {
	var req getTokensByCategoryBatchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	categories := make([]chainhash.Hash, 0, len(req.Categories))
	for _, category := range req.Categories {
		hash, _ := common.ParseTxId(category)
		categories = append(categories, hash)
	}

	tokens, err := h.usecase.ResolveByCategories(ctx.UserContext(), categories)
	if err != nil {
		return errors.Wrap(err, "error during ResolveByCategories")
	}

	list := make(map[string]*token, len(categories))
	for _, category := range categories {
		if t, ok := tokens[category]; ok {
			list[category.String()] = mapToken(t)
		} else {
			list[category.String()] = nil
		}
	}

	resp := getTokensByCategoryBatchResponse{
		Result: &getTokensByCategoryBatchResult{
			List: list,
		},
	}
	return errors.WithStack(ctx.JSON(resp))
}
