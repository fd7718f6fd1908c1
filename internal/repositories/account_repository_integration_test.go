//go:build integration

package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "tally/internal/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// setupPostgres starts a disposable PostgreSQL container and returns a migrated *gorm.DB.
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("tally"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, container.Terminate(ctx)) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := OpenPostgres(dsn, DBConfig{MaxOpenConns: 10})
	require.NoError(t, err)
	require.NoError(t, ResetDatabase(db))
	return db
}

func TestIntegration_AccountRepository(t *testing.T) {
	db := setupPostgres(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newAccount("A", "100.00")))
	require.NoError(t, repo.Create(ctx, newAccount("B", "50.00")))

	err := repo.Create(ctx, newAccount("A", "1.00"))
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateAccount))

	_, err = repo.Get(ctx, "missing")
	assert.True(t, errors.Is(err, apperrors.ErrAccountNotFound))

	amount := decimal.RequireFromString("30.00")
	err = repo.ExecuteInTransaction(ctx, func(tx AccountRepository) error {
		a, err := tx.Get(ctx, "A")
		if err != nil {
			return err
		}
		b, err := tx.Get(ctx, "B")
		if err != nil {
			return err
		}
		a.Balance = a.Balance.Sub(amount)
		b.Balance = b.Balance.Add(amount)
		if err := tx.Save(ctx, a); err != nil {
			return err
		}
		return tx.Save(ctx, b)
	})
	require.NoError(t, err)

	a, err := repo.Get(ctx, "A")
	require.NoError(t, err)
	b, err := repo.Get(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, "70.00", a.Balance.StringFixed(2))
	assert.Equal(t, "80.00", b.Balance.StringFixed(2))

	rollback := errors.New("rollback")
	err = repo.ExecuteInTransaction(ctx, func(tx AccountRepository) error {
		require.NoError(t, tx.Save(ctx, newAccount("A", "0.00")))
		return rollback
	})
	assert.ErrorIs(t, err, rollback)

	a, err = repo.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "70.00", a.Balance.StringFixed(2))

	err = repo.Save(ctx, newAccount("A", "-1.00"))
	assert.True(t, errors.Is(err, apperrors.ErrInvalidAccount))
}
