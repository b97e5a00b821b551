// Package redis wraps go-redis/v9 for the MAP score cache: connection setup
// with a PING check, float get/set with TTL, and prefix invalidation.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/config"
)

// Client wraps a go-redis client.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a Redis client and verifies the connection with a PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return &Client{rdb: rdb}, nil
}

// GetFloat returns the float stored at key. ok is false when the key does
// not exist.
func (c *Client) GetFloat(ctx context.Context, key string) (value float64, ok bool, err error) {
	raw, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if IsNilError(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	value, err = strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("redis value at %s is not a float: %w", key, err)
	}
	return value, true, nil
}

// SetFloat stores value at key with the given TTL. The value is written in
// its shortest exact decimal form so a round trip is bit-identical.
func (c *Client) SetFloat(ctx context.Context, key string, value float64, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, strconv.FormatFloat(value, 'g', -1, 64), ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// FlushByPattern scans for keys matching the glob pattern and deletes them,
// returning the number of keys removed.
func (c *Client) FlushByPattern(ctx context.Context, pattern string) (int64, error) {
	var deleted int64
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("deleting key %s: %w", iter.Val(), err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("scanning pattern %s: %w", pattern, err)
	}
	return deleted, nil
}

// IsNilError reports whether err is a Redis nil (key-not-found) error.
func IsNilError(err error) bool {
	return errors.Is(err, redis.Nil)
}

// Close closes the underlying Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
