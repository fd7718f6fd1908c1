package handlers

import (
	"errors"

	apperrors "tally/internal/errors"
	"tally/internal/models"
	"tally/internal/services/account"
	"tally/internal/utils/response"
	"tally/internal/utils/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// AccountHandler exposes account creation and lookup endpoints.
type AccountHandler struct {
	service account.Service
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(s account.Service) *AccountHandler { return &AccountHandler{service: s} }

type createAccountRequest struct {
	AccountID string           `json:"accountId" validate:"required,max=64"`
	Balance   *decimal.Decimal `json:"balance" validate:"required"`
}

// Create handles POST /v1/accounts requests.
func (h *AccountHandler) Create(c *fiber.Ctx) error {
	var req createAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request")
	}
	if err := validation.Struct(req); err != nil {
		return response.ValidationError(c, err)
	}

	acc := &models.Account{ID: req.AccountID, Balance: *req.Balance}
	if err := h.service.CreateAccount(c.UserContext(), acc); err != nil {
		return response.DomainError(c, fiber.StatusBadRequest, err)
	}
	return response.Created(c, "account created", acc)
}

// Get handles GET /v1/accounts/:id requests.
func (h *AccountHandler) Get(c *fiber.Ctx) error {
	acc, err := h.service.GetAccount(c.UserContext(), c.Params("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			return response.DomainError(c, fiber.StatusNotFound, err)
		}
		return response.DomainError(c, fiber.StatusInternalServerError, err)
	}
	return response.Success(c, "account found", acc)
}
