package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tally/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	// KeyPrefix prefixes the per-account notification list.
	KeyPrefix = "notifications:"
	// DefaultMaxLen caps how many notifications are kept per account.
	DefaultMaxLen = 100
)

// Message is the JSON payload pushed to Redis.
type Message struct {
	AccountID string    `json:"accountId"`
	Message   string    `json:"message"`
	SentAt    time.Time `json:"sentAt"`
}

// RedisSink appends notifications to a capped Redis list per account.
type RedisSink struct {
	client *redis.Client
	maxLen int64
	now    func() time.Time
}

func NewRedisSink(client *redis.Client, maxLen int64) *RedisSink {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	return &RedisSink{client: client, maxLen: maxLen, now: time.Now}
}

// Key returns the list holding notifications for accountID.
func Key(accountID string) string {
	return KeyPrefix + accountID
}

func (s *RedisSink) Send(ctx context.Context, account models.Account, message string) error {
	data, err := json.Marshal(Message{
		AccountID: account.ID,
		Message:   message,
		SentAt:    s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	key := Key(account.ID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, data)
		pipe.LTrim(ctx, key, -s.maxLen, -1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to push notification: %w", err)
	}
	return nil
}
