package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"nytinsight/internal/config"
)

// NewClient builds a client without touching the network.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
}

// New builds a client and verifies the server answers a PING. The client is
// returned even when the ping fails so callers can decide to run degraded.
func New(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := NewClient(cfg)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return client, fmt.Errorf("ping redis failed: %w", err)
	}
	return client, nil
}
