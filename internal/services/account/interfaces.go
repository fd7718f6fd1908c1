package account

import (
	"context"

	"tally/internal/models"
)

// Service creates and looks up accounts.
type Service interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, id string) (*models.Account, error)
}
