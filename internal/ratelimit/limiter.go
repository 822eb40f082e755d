package ratelimit

import (
	"context"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// Limiter decides whether one more request for key fits in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter is a fixed-window counter shared by every server instance that
// points at the same redis.
type RedisLimiter struct {
	client *redisv9.Client
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(client *redisv9.Client, limit int, window time.Duration) *RedisLimiter {
	if limit <= 0 {
		limit = 30
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow reports true when the caller is within its budget. INCR and the TTL
// are sent in one MULTI/EXEC so a window key never outlives its window. On
// redis errors it allows the request and returns the error for logging.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowKey := l.windowKey(key)

	var incr *redisv9.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redisv9.Pipeliner) error {
		incr = pipe.Incr(ctx, windowKey)
		pipe.ExpireNX(ctx, windowKey, l.window)
		return nil
	})
	if err != nil {
		return true, fmt.Errorf("redis incr rate limit failed: %w", err)
	}
	return incr.Val() <= int64(l.limit), nil
}

func (l *RedisLimiter) windowKey(key string) string {
	start := l.now().Truncate(l.window)
	return fmt.Sprintf("ask:ratelimit:%s:%d", key, start.Unix())
}
