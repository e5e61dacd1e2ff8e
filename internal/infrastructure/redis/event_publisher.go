package redis

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"
)

const eventsChannel = "gamehub_events"

// userEventEnvelope is the wire form events travel in between instances.
type userEventEnvelope struct {
	UserID  string          `json:"user_id"`
	Payload json.RawMessage `json:"payload"`
}

// EventPublisherImpl relays user-targeted events through Redis pub/sub so
// every instance behind the load balancer can deliver to the connections
// it holds.
type EventPublisherImpl struct {
	client *redis.Client
}

func NewEventPublisher(client *redis.Client) *EventPublisherImpl {
	return &EventPublisherImpl{client: client}
}

func (r *EventPublisherImpl) PublishUserEvent(ctx context.Context, userID string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	data, err := json.Marshal(userEventEnvelope{UserID: userID, Payload: raw})
	if err != nil {
		return err
	}

	return r.client.Publish(ctx, eventsChannel, data).Err()
}
