package notification

import (
	"context"

	"tally/internal/models"

	"go.uber.org/zap"
)

// LogSink writes notifications to the structured log.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Send(ctx context.Context, account models.Account, message string) error {
	s.logger.Info("account notification",
		zap.String("account_id", account.ID),
		zap.String("message", message),
	)
	return nil
}
