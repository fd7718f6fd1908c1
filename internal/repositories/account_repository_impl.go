package repositories

import (
	"context"
	"errors"
	"fmt"

	apperrors "tally/internal/errors"
	"tally/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db   *gorm.DB
	inTx bool
}

// NewAccountRepository creates an account store backed by gorm.
// The *gorm.DB should be opened with TranslateError so duplicate keys map to gorm.ErrDuplicatedKey.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Get(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	q := r.db.WithContext(ctx)
	if r.inTx {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, id)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Create(account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateAccount, account.ID)
		}
		return fmt.Errorf("failed to create account: %w", result.Error)
	}
	return nil
}

func (r *accountRepository) Save(ctx context.Context, account *models.Account) error {
	result := r.db.WithContext(ctx).Save(account)
	if result.Error != nil {
		if errors.Is(result.Error, apperrors.ErrInvalidAccount) {
			return result.Error
		}
		return fmt.Errorf("failed to save account: %w", result.Error)
	}
	return nil
}

func (r *accountRepository) ExecuteInTransaction(ctx context.Context, fn func(AccountRepository) error) error {
	if r.inTx {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&accountRepository{db: tx, inTx: true})
	})
}
