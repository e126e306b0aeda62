package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisSender enqueues messages on a Redis list consumed by the SMS worker.
type RedisSender struct {
	client redis.UniversalClient
	queue  string
	log    *zap.Logger
}

func NewRedisSender(client redis.UniversalClient, queue string, log *zap.Logger) *RedisSender {
	return &RedisSender{
		client: client,
		queue:  queue,
		log:    log.With(zap.String("sender", "redis"), zap.String("queue", queue)),
	}
}

func (s *RedisSender) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	if err := s.client.LPush(ctx, s.queue, body).Err(); err != nil {
		s.log.Warn("Failed to enqueue OTP", zap.Error(err), zap.String("destination", msg.Destination))
		return fmt.Errorf("enqueue OTP for %s: %w", msg.Destination, err)
	}

	return nil
}

// Close releases the underlying connection pool.
func (s *RedisSender) Close() error {
	return s.client.Close()
}
