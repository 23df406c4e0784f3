package account

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handler exposes account HTTP endpoints.
type Handler struct {
	ledger *Ledger
}

// NewHandler builds an account HTTP handler.
func NewHandler(ledger *Ledger) *Handler {
	return &Handler{ledger: ledger}
}

type createRequest struct {
	InitialBalance string `json:"initial_balance"`
}

// Create opens a new account, optionally seeded with an opening balance.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	balance := decimal.Zero
	if req.InitialBalance != "" {
		parsed, err := decimal.NewFromString(req.InitialBalance)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid initial_balance")
		}
		balance = parsed
	}

	acct, err := h.ledger.Create(balance)
	if err != nil {
		if errors.Is(err, ErrNegativeBalance) {
			return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"account_id": acct.ID()})
}

// Balance returns the current account balance.
func (h *Handler) Balance(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("accountId"), 10, 64)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid account id")
	}

	acct, ok := h.ledger.FindByID(id)
	if !ok {
		return fiber.NewError(http.StatusNotFound, "account not found")
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"account_id": acct.ID(),
		"balance":    acct.Balance(),
	})
}
