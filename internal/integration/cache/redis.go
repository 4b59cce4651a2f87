// Package cache provides existence-cache implementations for the reference
// checker.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/consistency/internal/application/adapter"
)

// redisKeyPrefix namespaces existence entries so Clear can scan them without
// touching unrelated keys.
const redisKeyPrefix = "refexists:"

// RedisCache is an existence cache shared across processes. Redis handles the
// per-entry TTL; a cache failure is treated as a miss so the store remains
// the source of truth.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a new Redis-backed existence cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client: client,
	}
}

// Get returns the cached existence result for the key.
func (c *RedisCache) Get(ctx context.Context, key string) (bool, bool) {
	value, err := c.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if err != redis.Nil {
			slog.Debug("Existence cache read failed", "key", key, "error", err)
		}
		return false, false
	}
	return value == "1", true
}

// Set stores an existence result with the given TTL.
func (c *RedisCache) Set(ctx context.Context, key string, exists bool, ttl time.Duration) {
	value := "0"
	if exists {
		value = "1"
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key, value, ttl).Err(); err != nil {
		slog.Debug("Existence cache write failed", "key", key, "error", err)
	}
}

// Clear drops all existence entries immediately.
func (c *RedisCache) Clear(ctx context.Context) {
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		slog.Warn("Existence cache scan failed during clear", "error", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("Existence cache clear failed", "error", err)
	}
}

var _ adapter.ExistenceCache = (*RedisCache)(nil)
