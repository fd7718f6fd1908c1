package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "tally/internal/errors"
	"tally/internal/models"
	"tally/internal/repositories"

	"go.uber.org/zap"
)

// Config carries the optional collaborators of the transfer service.
type Config struct {
	Locker  Locker
	Metrics MetricsCollector
	Logger  *zap.Logger
}

// service implements the transfer Service interface.
type service struct {
	repo     repositories.AccountRepository
	notifier Notifier
	locker   Locker
	metrics  MetricsCollector
	logger   *zap.Logger
}

// NewService creates a new transfer service instance.
func NewService(repo repositories.AccountRepository, notifier Notifier, config Config) Service {
	if repo == nil {
		panic("repo is required")
	}
	if notifier == nil {
		panic("notifier is required")
	}

	if config.Locker == nil {
		config.Locker = NewGlobalLocker()
	}
	if config.Metrics == nil {
		config.Metrics = &NoopMetricsCollector{}
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	return &service{
		repo:     repo,
		notifier: notifier,
		locker:   config.Locker,
		metrics:  config.Metrics,
		logger:   config.Logger,
	}
}

// Transfer moves req.Amount from req.AccountFromID to req.AccountToID.
// Balances are read, checked, written and notified while the locker's guarantee is held.
func (s *service) Transfer(ctx context.Context, req models.TransferRequest) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.record(req, fmt.Errorf("panic: %v", r), time.Since(start))
			panic(r)
		}
		s.record(req, err, time.Since(start))
	}()

	if !req.Amount.IsPositive() {
		return apperrors.ErrInvalidAmount
	}

	unlock := s.locker.Lock(req.AccountFromID, req.AccountToID)
	defer unlock()

	var from, to *models.Account
	err = s.repo.ExecuteInTransaction(ctx, func(tx repositories.AccountRepository) error {
		var err error
		if from, err = tx.Get(ctx, req.AccountFromID); err != nil {
			return err
		}
		to = from
		if req.AccountToID != req.AccountFromID {
			if to, err = tx.Get(ctx, req.AccountToID); err != nil {
				return err
			}
		}

		if from.Balance.LessThan(req.Amount) {
			return apperrors.ErrInsufficientFunds
		}

		from.Balance = from.Balance.Sub(req.Amount)
		to.Balance = to.Balance.Add(req.Amount)

		if err := tx.Save(ctx, from); err != nil {
			return fmt.Errorf("failed to persist transfer: %w", err)
		}
		if err := tx.Save(ctx, to); err != nil {
			return fmt.Errorf("failed to persist transfer: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	amount := req.Amount.StringFixed(2)
	s.notifier.NotifyAboutTransfer(ctx, *from,
		fmt.Sprintf("Transferred %s to account %s", amount, req.AccountToID))
	s.notifier.NotifyAboutTransfer(ctx, *to,
		fmt.Sprintf("Received %s from account %s", amount, req.AccountFromID))

	return nil
}

func (s *service) record(req models.TransferRequest, err error, elapsed time.Duration) {
	result := resultOf(err)
	s.metrics.RecordTransfer(result, req.Amount, elapsed)

	fields := []zap.Field{
		zap.String("from", req.AccountFromID),
		zap.String("to", req.AccountToID),
		zap.String("amount", req.Amount.String()),
		zap.String("result", result),
		zap.Duration("elapsed", elapsed),
	}
	switch result {
	case ResultSuccess:
		s.logger.Info("transfer completed", fields...)
	case ResultError:
		s.logger.Error("transfer failed", append(fields, zap.Error(err))...)
	default:
		s.logger.Debug("transfer rejected", fields...)
	}
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, apperrors.ErrInvalidAmount):
		return ResultInvalidAmount
	case errors.Is(err, apperrors.ErrAccountNotFound):
		return ResultAccountNotFound
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		return ResultInsufficientFunds
	default:
		return ResultError
	}
}
