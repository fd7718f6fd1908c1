// Package notification delivers best-effort account notifications.
package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tally/internal/models"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a single delivery attempt.
const DefaultTimeout = 5 * time.Second

// Sink is the transport a notification is finally written to.
type Sink interface {
	Send(ctx context.Context, account models.Account, message string) error
}

// Service hands notifications to a Sink asynchronously.
// Sink errors and panics are logged, never returned to the caller.
type Service struct {
	sink    Sink
	logger  *zap.Logger
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewService creates a new notification service.
func NewService(sink Sink, logger *zap.Logger, timeout time.Duration) *Service {
	if sink == nil {
		panic("sink is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{sink: sink, logger: logger, timeout: timeout}
}

// NotifyAboutTransfer schedules delivery of message to account and returns immediately.
// Messages arriving after Close are dropped.
func (s *Service) NotifyAboutTransfer(ctx context.Context, account models.Account, message string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Warn("notification dropped, service closed",
			zap.String("account_id", account.ID),
			zap.String("message", message),
		)
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		if err := s.deliver(context.WithoutCancel(ctx), account, message); err != nil {
			s.logger.Warn("notification delivery failed",
				zap.String("account_id", account.ID),
				zap.String("message", message),
				zap.Error(err),
			)
		}
	}()
}

func (s *Service) deliver(ctx context.Context, account models.Account, message string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink panicked: %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.sink.Send(ctx, account, message)
}

// Close stops accepting notifications and waits for in-flight deliveries.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.wg.Wait()
}
