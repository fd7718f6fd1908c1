package models

import (
	"fmt"
	"time"

	apperrors "tally/internal/errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account is a balance-holding record identified by a unique string id.
type Account struct {
	ID        string          `gorm:"primaryKey;size:64" json:"accountId"`
	Balance   decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Validate checks the invariants every stored account must hold.
func (a *Account) Validate() error {
	if a == nil {
		return fmt.Errorf("%w: account is nil", apperrors.ErrInvalidAccount)
	}
	if a.ID == "" {
		return fmt.Errorf("%w: account id is required", apperrors.ErrInvalidAccount)
	}
	if a.Balance.IsNegative() {
		return fmt.Errorf("%w: balance must not be negative", apperrors.ErrInvalidAccount)
	}
	return nil
}

// BeforeSave keeps negative balances out of the database.
func (a *Account) BeforeSave(tx *gorm.DB) error {
	return a.Validate()
}
