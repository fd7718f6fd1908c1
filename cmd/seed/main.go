// Command seed creates accounts in the configured PostgreSQL database.
//
//	seed ID=BALANCE [ID=BALANCE...]
//
// Accounts that already exist are left untouched.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"tally/internal/config"
	apperrors "tally/internal/errors"
	"tally/internal/logger"
	"tally/internal/models"
	"tally/internal/repositories"
	"tally/internal/services/account"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	_ = config.LoadEnv()

	log, err := logger.New(config.IsProduction(), config.GetEnv("LOG_LEVEL", "info"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	accounts, err := parseAccounts(os.Args[1:])
	if err != nil || len(accounts) == 0 {
		log.Fatal("usage: seed ID=BALANCE [ID=BALANCE...]", zap.Error(err))
	}

	db, err := repositories.NewPostgres(repositories.LoadDBConfig())
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Warn("failed to close database connection", zap.Error(err))
			}
		}
	}()

	svc := account.NewService(repositories.NewAccountRepository(db), log)
	ctx := context.Background()
	for _, acc := range accounts {
		err := svc.CreateAccount(ctx, acc)
		switch {
		case errors.Is(err, apperrors.ErrDuplicateAccount):
			log.Info("account already exists", zap.String("account_id", acc.ID))
		case err != nil:
			log.Fatal("failed to create account", zap.String("account_id", acc.ID), zap.Error(err))
		}
	}
}

func parseAccounts(args []string) ([]*models.Account, error) {
	accounts := make([]*models.Account, 0, len(args))
	for _, arg := range args {
		id, balance, ok := strings.Cut(arg, "=")
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid account argument %q (want ID=BALANCE)", arg)
		}
		amount, err := decimal.NewFromString(balance)
		if err != nil {
			return nil, fmt.Errorf("invalid balance in %q: %w", arg, err)
		}
		accounts = append(accounts, &models.Account{ID: id, Balance: amount})
	}
	return accounts, nil
}
