package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/jeerawut3427/personal-system/common/config"
)

// Client is an alias so callers need not import go-redis directly.
type Client = redis.Client

// NewRedisClient creates a client and verifies the connection.
func NewRedisClient(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}
