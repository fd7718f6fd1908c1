package repositories

import (
	"context"

	"tally/internal/models"
)

// AccountRepository defines the account store consumed by the services.
// Get returns a copy: callers never hold a live reference to a stored record.
type AccountRepository interface {
	Get(ctx context.Context, id string) (*models.Account, error)
	Create(ctx context.Context, account *models.Account) error
	Save(ctx context.Context, account *models.Account) error

	// ExecuteInTransaction runs fn against a transactional view of the store.
	// Writes made through that view are visible to others only if fn returns nil.
	ExecuteInTransaction(ctx context.Context, fn func(AccountRepository) error) error
}
