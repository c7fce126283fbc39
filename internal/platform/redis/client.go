// Package redis opens the go-redis client backing the issuance nonce store.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"evote/internal/platform/config"
)

// Client is the shared connection pool. Close releases it.
type Client struct {
	*redis.Client
}

// New dials cfg.URL and pings it. An empty URL means no Redis: (nil, nil), and
// callers fall back to the in-memory nonce store.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	applyPool(opts, cfg)

	c := redis.NewClient(opts)
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return &Client{Client: c}, nil
}

// applyPool overrides go-redis defaults only for settings present in cfg.
func applyPool(opts *redis.Options, cfg config.RedisConfig) {
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	opts.DialTimeout = positive(cfg.DialTimeout, opts.DialTimeout)
	opts.ReadTimeout = positive(cfg.ReadTimeout, opts.ReadTimeout)
	opts.WriteTimeout = positive(cfg.WriteTimeout, opts.WriteTimeout)
}

func positive(v, fallback time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return fallback
}
