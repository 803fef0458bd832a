// Package cache provides a small Redis-backed JSON cache used to serve card
// lists and transaction pages without a store round trip. The cache is
// optional: a nil *Cache disables every operation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client with JSON marshalling and a default TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a cache over the given Redis options.
func New(opt *redis.Options, ttl time.Duration, logger *slog.Logger) *Cache {
	return &Cache{client: redis.NewClient(opt), ttl: ttl, logger: logger}
}

// Get unmarshals the cached value into dest and reports whether it was found.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c == nil {
		return false, nil
	}
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		c.logger.Error("cache get failed", "key", key, "error", err)
		return false, err
	}
	return true, json.Unmarshal([]byte(val), dest)
}

// Set stores the value under key with the default TTL.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	if c == nil {
		return nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
		return err
	}
	return nil
}

// Delete removes keys, used to invalidate after a mutation.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c == nil || len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Error("cache delete failed", "keys", keys, "error", err)
		return err
	}
	return nil
}

// DeletePrefix removes every key under the prefix. Listing pages are cached
// per filter, so mutations invalidate the whole prefix.
func (c *Cache) DeletePrefix(ctx context.Context, prefix string) error {
	if c == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Error("cache scan failed", "prefix", prefix, "error", err)
		return err
	}
	return c.Delete(ctx, keys...)
}
