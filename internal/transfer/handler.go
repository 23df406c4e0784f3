package transfer

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/railpay/railpay/internal/account"
)

// Handler exposes transfer HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a transfer handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type internalRequest struct {
	SenderID   int64  `json:"sender_id"`
	ReceiverID int64  `json:"receiver_id"`
	Amount     string `json:"amount"`
}

type externalRequest struct {
	SenderID    int64  `json:"sender_id"`
	Destination string `json:"destination"`
	Amount      string `json:"amount"`
}

// Internal moves funds between two ledger accounts.
func (h *Handler) Internal(c *fiber.Ctx) error {
	var req internalRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid amount")
	}

	if err := h.service.Internal(c.UserContext(), req.SenderID, req.ReceiverID, amount); err != nil {
		return mapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// External initiates a transfer to an address on the external rail. The
// returned transfer id can be used to track the asynchronous settlement.
func (h *Handler) External(c *fiber.Ctx) error {
	var req externalRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid amount")
	}

	transferID, err := h.service.External(c.UserContext(), req.SenderID, req.Destination, amount)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{"transfer_id": transferID})
}

// ListExternal returns the account's external transfers.
func (h *Handler) ListExternal(c *fiber.Ctx) error {
	accountID, err := parseAccountID(c)
	if err != nil {
		return err
	}

	transfers, err := h.service.ListExternal(c.UserContext(), accountID)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(transfers)
}

// GetExternal returns one external transfer of the account.
func (h *Handler) GetExternal(c *fiber.Ctx) error {
	accountID, err := parseAccountID(c)
	if err != nil {
		return err
	}
	transferID, err := uuid.Parse(c.Params("transferId"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid transfer id")
	}

	tr, err := h.service.GetExternal(c.UserContext(), accountID, transferID)
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(tr)
}

func parseAccountID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("accountId"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(http.StatusBadRequest, "invalid account id")
	}
	return id, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrTransferNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, account.ErrInvalidAmount),
		errors.Is(err, account.ErrInsufficientFunds),
		errors.Is(err, ErrSameAccount):
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrGateway):
		return fiber.NewError(http.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
