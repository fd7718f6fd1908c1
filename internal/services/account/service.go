package account

import (
	"context"

	"tally/internal/models"
	"tally/internal/repositories"

	"go.uber.org/zap"
)

type service struct {
	repo   repositories.AccountRepository
	logger *zap.Logger
}

// NewService creates a new account service
func NewService(repo repositories.AccountRepository, logger *zap.Logger) Service {
	if repo == nil {
		panic("repo is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{repo: repo, logger: logger}
}

func (s *service) CreateAccount(ctx context.Context, account *models.Account) error {
	if err := account.Validate(); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return err
	}

	s.logger.Info("account created",
		zap.String("account_id", account.ID),
		zap.String("balance", account.Balance.String()),
	)
	return nil
}

func (s *service) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	return s.repo.Get(ctx, id)
}
