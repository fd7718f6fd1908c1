package transfer

import (
	"context"
	"time"

	"tally/internal/models"

	"github.com/shopspring/decimal"
)

// Notifier receives post-transfer messages. Delivery is best effort;
// nothing it does can fail a transfer.
type Notifier interface {
	NotifyAboutTransfer(ctx context.Context, account models.Account, message string)
}

// MetricsCollector observes transfer outcomes.
type MetricsCollector interface {
	RecordTransfer(result string, amount decimal.Decimal, duration time.Duration)
}

// Service moves funds between two accounts.
type Service interface {
	Transfer(ctx context.Context, req models.TransferRequest) error
}
