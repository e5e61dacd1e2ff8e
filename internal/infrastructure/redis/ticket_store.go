package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrTicketNotFound = errors.New("ticket not found or already used")

// RedisTicketStore keeps websocket upgrade tickets alive for their TTL
// and hands each out at most once.
type RedisTicketStore struct {
	client *redis.Client
}

func NewRedisTicketStore(client *redis.Client) *RedisTicketStore {
	return &RedisTicketStore{client: client}
}

func (r *RedisTicketStore) StoreTicket(ctx context.Context, ticketID, userID string, ttl time.Duration) error {
	key := fmt.Sprintf("ws_ticket:%s", ticketID)
	return r.client.Set(ctx, key, userID, ttl).Err()
}

// ConsumeTicket atomically fetches and deletes a ticket so a replayed
// token can never open a second connection.
func (r *RedisTicketStore) ConsumeTicket(ctx context.Context, ticketID string) (string, error) {
	key := fmt.Sprintf("ws_ticket:%s", ticketID)

	userID, err := r.client.GetDel(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTicketNotFound
		}
		return "", err
	}

	return userID, nil
}
