package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "tally/internal/errors"
	"tally/internal/models"
)

type memoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]models.Account
	now      func() time.Time
}

// NewMemoryAccountRepository creates an account store backed by a map.
func NewMemoryAccountRepository() AccountRepository {
	return &memoryAccountRepository{
		accounts: make(map[string]models.Account),
		now:      time.Now,
	}
}

func (r *memoryAccountRepository) Get(ctx context.Context, id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, id)
	}
	return &account, nil
}

func (r *memoryAccountRepository) Create(ctx context.Context, account *models.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.accounts[account.ID]; exists {
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicateAccount, account.ID)
	}

	now := r.now()
	account.CreatedAt = now
	account.UpdatedAt = now
	r.accounts[account.ID] = *account
	return nil
}

func (r *memoryAccountRepository) Save(ctx context.Context, account *models.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.put(account, r.now())
	return nil
}

// put upserts the record stamped with now; callers hold r.mu.
func (r *memoryAccountRepository) put(account *models.Account, now time.Time) {
	if existing, ok := r.accounts[account.ID]; ok {
		account.CreatedAt = existing.CreatedAt
	} else if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now
	r.accounts[account.ID] = *account
}

func (r *memoryAccountRepository) ExecuteInTransaction(ctx context.Context, fn func(AccountRepository) error) error {
	tx := &memoryAccountTx{
		parent: r,
		staged: make(map[string]stagedAccount),
	}
	if err := fn(tx); err != nil {
		return err
	}
	return tx.commit()
}

type stagedAccount struct {
	account *models.Account
	created bool
}

// memoryAccountTx buffers writes until commit applies them under a single lock.
type memoryAccountTx struct {
	parent *memoryAccountRepository
	staged map[string]stagedAccount
	order  []string
}

func (tx *memoryAccountTx) Get(ctx context.Context, id string) (*models.Account, error) {
	if s, ok := tx.staged[id]; ok {
		account := *s.account
		return &account, nil
	}
	return tx.parent.Get(ctx, id)
}

func (tx *memoryAccountTx) Create(ctx context.Context, account *models.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}
	if _, ok := tx.staged[account.ID]; ok {
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicateAccount, account.ID)
	}
	if _, err := tx.parent.Get(ctx, account.ID); err == nil {
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicateAccount, account.ID)
	}
	tx.stage(account, true)
	return nil
}

func (tx *memoryAccountTx) Save(ctx context.Context, account *models.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}
	created := false
	if s, ok := tx.staged[account.ID]; ok {
		created = s.created
	}
	tx.stage(account, created)
	return nil
}

func (tx *memoryAccountTx) ExecuteInTransaction(ctx context.Context, fn func(AccountRepository) error) error {
	return fn(tx)
}

// stage buffers a copy of account. Timestamps are set here so callers see
// the values that commit will store.
func (tx *memoryAccountTx) stage(account *models.Account, created bool) {
	now := tx.parent.now()
	if created && account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	if _, ok := tx.staged[account.ID]; !ok {
		tx.order = append(tx.order, account.ID)
	}
	copied := *account
	tx.staged[account.ID] = stagedAccount{account: &copied, created: created}
}

func (tx *memoryAccountTx) commit() error {
	r := tx.parent
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range tx.order {
		if _, exists := r.accounts[id]; exists && tx.staged[id].created {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateAccount, id)
		}
	}
	for _, id := range tx.order {
		staged := tx.staged[id].account
		r.put(staged, staged.UpdatedAt)
	}
	return nil
}
