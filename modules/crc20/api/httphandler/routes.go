package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/v1/crc20")

	r.Get("/symbols/:symbol", h.GetTokensBySymbol)
	r.Get("/symbols/:symbol/address", h.GetSymbolAddress)
	r.Get("/categories/:category", h.GetTokenByCategory)
	r.Post("/categories/batch", h.GetTokensByCategoryBatch)
	return nil
}
