// Package notifier delivers one-time codes to users. Delivery is best-effort:
// callers hand a Message to a Dispatcher and never wait for the outcome.
package notifier

import (
	"context"
	"fmt"
	"time"

	"first-aid-backend/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Message is a single code delivery.
type Message struct {
	Destination string    `json:"destination"`
	Code        string    `json:"code"`
	Purpose     string    `json:"purpose"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Sender pushes a message to its channel.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender picks the channel configured for this process.
func NewSender(cfg *utils.Config, log *zap.Logger) (Sender, error) {
	switch cfg.Notifier.Driver {
	case "", "log":
		return NewLogSender(log), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       0,
		})
		return NewRedisSender(client, cfg.Redis.Queue, log), nil
	default:
		return nil, fmt.Errorf("unknown notifier driver %q", cfg.Notifier.Driver)
	}
}
