package repositories

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	apperrors "tally/internal/errors"
	"tally/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccount(id, balance string) *models.Account {
	return &models.Account{ID: id, Balance: decimal.RequireFromString(balance)}
}

func TestMemoryAccountRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()

	require.NoError(t, repo.Create(ctx, newAccount("A", "100.00")))

	got, err := repo.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "A", got.ID)
	assert.Equal(t, "100.00", got.Balance.StringFixed(2))
	assert.False(t, got.CreatedAt.IsZero())

	_, err = repo.Get(ctx, "missing")
	assert.True(t, errors.Is(err, apperrors.ErrAccountNotFound))

	err = repo.Create(ctx, newAccount("A", "1.00"))
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateAccount))

	err = repo.Create(ctx, newAccount("B", "-1.00"))
	assert.True(t, errors.Is(err, apperrors.ErrInvalidAccount))
}

func TestMemoryAccountRepository_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()
	require.NoError(t, repo.Create(ctx, newAccount("A", "100.00")))

	got, err := repo.Get(ctx, "A")
	require.NoError(t, err)
	got.Balance = decimal.Zero

	again, err := repo.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "100.00", again.Balance.StringFixed(2))
}

func TestMemoryAccountRepository_Save(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()
	require.NoError(t, repo.Create(ctx, newAccount("A", "100.00")))

	created, err := repo.Get(ctx, "A")
	require.NoError(t, err)

	created.Balance = decimal.RequireFromString("42.50")
	require.NoError(t, repo.Save(ctx, created))

	got, err := repo.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "42.50", got.Balance.StringFixed(2))
	assert.Equal(t, created.CreatedAt, got.CreatedAt)

	// Save upserts unknown ids.
	require.NoError(t, repo.Save(ctx, newAccount("B", "1.00")))
	_, err = repo.Get(ctx, "B")
	assert.NoError(t, err)
}

func TestMemoryAccountRepository_ExecuteInTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("commits staged writes", func(t *testing.T) {
		repo := NewMemoryAccountRepository()
		require.NoError(t, repo.Create(ctx, newAccount("A", "100.00")))

		err := repo.ExecuteInTransaction(ctx, func(tx AccountRepository) error {
			a, err := tx.Get(ctx, "A")
			if err != nil {
				return err
			}
			a.Balance = a.Balance.Sub(decimal.NewFromInt(30))
			if err := tx.Save(ctx, a); err != nil {
				return err
			}

			// Writes are invisible outside the transaction until commit.
			outside, err := repo.Get(ctx, "A")
			require.NoError(t, err)
			assert.Equal(t, "100.00", outside.Balance.StringFixed(2))

			inside, err := tx.Get(ctx, "A")
			require.NoError(t, err)
			assert.Equal(t, "70.00", inside.Balance.StringFixed(2))

			return tx.Create(ctx, newAccount("B", "5.00"))
		})
		require.NoError(t, err)

		a, err := repo.Get(ctx, "A")
		require.NoError(t, err)
		assert.Equal(t, "70.00", a.Balance.StringFixed(2))
		_, err = repo.Get(ctx, "B")
		assert.NoError(t, err)
	})

	t.Run("discards writes on error", func(t *testing.T) {
		repo := NewMemoryAccountRepository()
		require.NoError(t, repo.Create(ctx, newAccount("A", "100.00")))
		boom := errors.New("boom")

		err := repo.ExecuteInTransaction(ctx, func(tx AccountRepository) error {
			require.NoError(t, tx.Save(ctx, newAccount("A", "0.00")))
			return boom
		})
		assert.ErrorIs(t, err, boom)

		a, err := repo.Get(ctx, "A")
		require.NoError(t, err)
		assert.Equal(t, "100.00", a.Balance.StringFixed(2))
	})

	t.Run("rejects duplicate create at commit", func(t *testing.T) {
		repo := NewMemoryAccountRepository()

		err := repo.ExecuteInTransaction(ctx, func(tx AccountRepository) error {
			require.NoError(t, tx.Create(ctx, newAccount("A", "1.00")))
			return repo.Create(ctx, newAccount("A", "2.00"))
		})
		assert.True(t, errors.Is(err, apperrors.ErrDuplicateAccount))

		a, err := repo.Get(ctx, "A")
		require.NoError(t, err)
		assert.Equal(t, "2.00", a.Balance.StringFixed(2))
	})
}

func TestMemoryAccountRepository_TransactionTimestamps(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository().(*memoryAccountRepository)

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	saved := created.Add(time.Hour)
	repo.now = func() time.Time { return created }
	require.NoError(t, repo.Create(ctx, newAccount("A", "100.00")))

	repo.now = func() time.Time { return saved }
	var staged models.Account
	err := repo.ExecuteInTransaction(ctx, func(tx AccountRepository) error {
		a, err := tx.Get(ctx, "A")
		if err != nil {
			return err
		}
		a.Balance = decimal.RequireFromString("70.00")
		if err := tx.Save(ctx, a); err != nil {
			return err
		}
		staged = *a
		return nil
	})
	require.NoError(t, err)

	// The caller's copy already carries what commit stores.
	assert.Equal(t, saved, staged.UpdatedAt)
	assert.Equal(t, created, staged.CreatedAt)

	stored, err := repo.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, saved, stored.UpdatedAt)
	assert.Equal(t, created, stored.CreatedAt)
}

func TestMemoryAccountRepository_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAccountRepository()
	require.NoError(t, repo.Create(ctx, newAccount("A", "0.00")))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = repo.Save(ctx, newAccount("A", "1.00"))
		}()
		go func() {
			defer wg.Done()
			_, err := repo.Get(ctx, "A")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
