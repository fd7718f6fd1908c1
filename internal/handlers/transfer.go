package handlers

import (
	"tally/internal/models"
	"tally/internal/services/transfer"
	"tally/internal/utils/response"
	"tally/internal/utils/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferHandler exposes the transfer endpoint.
type TransferHandler struct {
	service transfer.Service
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(s transfer.Service) *TransferHandler { return &TransferHandler{service: s} }

type transferRequest struct {
	AccountFromID string           `json:"accountFromId" validate:"required"`
	AccountToID   string           `json:"accountToId" validate:"required"`
	Amount        *decimal.Decimal `json:"amount" validate:"required"`
}

// Transfer handles POST /v1/accounts/transfer requests.
// Every domain failure of the engine is reported as 400 with its code.
func (h *TransferHandler) Transfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request")
	}
	if err := validation.Struct(req); err != nil {
		return response.ValidationError(c, err)
	}

	err := h.service.Transfer(c.UserContext(), models.TransferRequest{
		AccountFromID: req.AccountFromID,
		AccountToID:   req.AccountToID,
		Amount:        *req.Amount,
	})
	if err != nil {
		return response.DomainError(c, fiber.StatusBadRequest, err)
	}

	return response.Success(c, "transfer completed", models.TransferReceipt{
		Reference:     uuid.NewString(),
		AccountFromID: req.AccountFromID,
		AccountToID:   req.AccountToID,
		Amount:        req.Amount.StringFixed(2),
	})
}
