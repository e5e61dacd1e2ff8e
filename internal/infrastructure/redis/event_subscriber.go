package redis

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"gamehub/internal/domain"
	"gamehub/pkg/logger"
)

type RedisEventSubscriber struct {
	client *redis.Client
	log    logger.Logger
}

func NewRedisEventSubscriber(client *redis.Client, log logger.Logger) *RedisEventSubscriber {
	return &RedisEventSubscriber{
		client: client,
		log:    log,
	}
}

// SubscribeToUserEvents blocks, feeding every relayed event to handler
// until the context is cancelled. Bad payloads and handler failures are
// logged and skipped.
func (r *RedisEventSubscriber) SubscribeToUserEvents(ctx context.Context, handler domain.UserEventHandler) error {
	pubsub := r.client.Subscribe(ctx, eventsChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	r.log.Info("Subscribed to user events")

	for {
		select {
		case msg := <-ch:
			var envelope userEventEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
				r.log.Error("Failed to parse event", "payload", msg.Payload, "error", err)
				continue
			}

			if err := handler(envelope.UserID, envelope.Payload); err != nil {
				r.log.Error("Failed to handle event", "user_id", envelope.UserID, "error", err)
			}

		case <-ctx.Done():
			r.log.Info("Event subscriber stopped")
			return ctx.Err()
		}
	}
}
