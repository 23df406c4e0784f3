package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/railpay/railpay/internal/transfer"
)

// RegisterTransferRoutes wires internal and external transfer endpoints.
func RegisterTransferRoutes(r fiber.Router, h *transfer.Handler) {
	r.Post("/transfers/internal", h.Internal)
	r.Post("/transfers/external", h.External)
	r.Get("/accounts/:accountId/transfers/external", h.ListExternal)
	r.Get("/accounts/:accountId/transfers/external/:transferId", h.GetExternal)
}
