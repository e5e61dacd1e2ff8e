package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RateLimiter is a fixed-window counter per key (typically client IP).
type RateLimiter struct {
	client *redis.Client
	max    int64
	window time.Duration
}

func NewRateLimiter(client *redis.Client, max int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		client: client,
		max:    max,
		window: window,
	}
}

// Allow increments the counter for key and reports whether the caller is
// still within the window's budget. Counter creation and expiry are atomic.
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	luaScript := `
        local current = redis.call('INCR', KEYS[1])
        if current == 1 then
            redis.call('PEXPIRE', KEYS[1], ARGV[1])
        end
        return current
    `

	result, err := r.client.Eval(ctx, luaScript,
		[]string{fmt.Sprintf("rate:%s", key)},
		r.window.Milliseconds()).Result()
	if err != nil {
		return false, err
	}

	return result.(int64) <= r.max, nil
}
