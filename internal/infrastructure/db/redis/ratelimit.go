package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter implements a fixed-window counter backed by Redis.
// Key format: ratelimit:<scope>:<caller>
type Limiter struct {
	client *redis.Client
}

// NewLimiter creates a Limiter wrapping the given Redis client.
func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{client: client}
}

// Allow increments the caller's counter for the scope and reports
// whether it is still within limit for the current window. The window
// starts on the first hit and expires after the given duration.
func (l *Limiter) Allow(ctx context.Context, scope, caller string, limit int64, window time.Duration) (bool, error) {
	key := l.key(scope, caller)

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("ratelimit incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("ratelimit expire: %w", err)
		}
	}

	return n <= limit, nil
}

func (l *Limiter) key(scope, caller string) string {
	return fmt.Sprintf("ratelimit:%s:%s", scope, caller)
}
