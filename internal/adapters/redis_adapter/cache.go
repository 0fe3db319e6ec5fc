// internal/adapters/redis_adapter/cache.go
package redis_a

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/adekola/stockpoint-be/internal/core/ports"
	"github.com/redis/go-redis/v9"
)

// CacheKeyPrefix defines prefixes for different cache types
type CacheKeyPrefix string

const (
	PrefixProduct  CacheKeyPrefix = "product"
	PrefixCategory CacheKeyPrefix = "category"
	PrefixSale     CacheKeyPrefix = "sale"
)

// Cache provides caching functionality with Redis
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// Statically assert that *Cache implements the CacheRepository interface.
var _ ports.CacheRepository = (*Cache)(nil)

// NewCache creates a new cache instance
func NewCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) ports.CacheRepository {
	return &Cache{
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "cache")),
	}
}

// Set stores a value in cache with default TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}) error {
	return c.SetWithTTL(ctx, key, value, c.ttl)
}

// SetWithTTL stores a value in cache with custom TTL
func (c *Cache) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to marshal cache value",
			slog.String("key", key),
			err)
		return fmt.Errorf("marshal error: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.ErrorContext(ctx, "failed to set cache",
			slog.String("key", key),
			err)
		return fmt.Errorf("redis set error: %w", err)
	}

	c.logger.DebugContext(ctx, "cache set",
		slog.String("key", key),
		slog.Duration("ttl", ttl))

	return nil
}

// Get retrieves a value from cache
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			// Cache miss is not an error
			c.logger.DebugContext(ctx, "cache miss", slog.String("key", key))
			return ErrCacheMiss
		}
		c.logger.ErrorContext(ctx, "failed to get cache",
			slog.String("key", key),
			err)
		return fmt.Errorf("redis get error: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.ErrorContext(ctx, "failed to unmarshal cache value",
			slog.String("key", key),
			err)
		return fmt.Errorf("unmarshal error: %w", err)
	}

	c.logger.DebugContext(ctx, "cache hit", slog.String("key", key))
	return nil
}

// Delete removes a key from cache
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.ErrorContext(ctx, "failed to delete cache",
			slog.Any("keys", keys),
			err)
		return fmt.Errorf("redis del error: %w", err)
	}

	c.logger.DebugContext(ctx, "cache deleted", slog.Any("keys", keys))
	return nil
}

// DeletePattern removes all keys matching a pattern
func (c *Cache) DeletePattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string

	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		c.logger.ErrorContext(ctx, "failed to scan keys",
			slog.String("pattern", pattern),
			err)
		return fmt.Errorf("redis scan error: %w", err)
	}

	if len(keys) > 0 {
		return c.Delete(ctx, keys...)
	}

	return nil
}

// GetOrSet retrieves from cache or sets if not found
func (c *Cache) GetOrSet(ctx context.Context, key string, dest interface{},
	fetch func() (interface{}, error), ttl time.Duration) error {

	// Try to get from cache first
	err := c.Get(ctx, key, dest)
	if err == nil {
		return nil // Cache hit
	}

	if err != ErrCacheMiss {
		return err // Actual error
	}

	// Cache miss - fetch and store
	value, err := fetch()
	if err != nil {
		return fmt.Errorf("fetch error: %w", err)
	}

	// Store in cache
	if err := c.SetWithTTL(ctx, key, value, ttl); err != nil {
		// Log but don't fail if cache write fails
		c.logger.WarnContext(ctx, "failed to cache value after fetch",
			slog.String("key", key),
			err)
	}

	// Copy value to destination
	data, _ := json.Marshal(value)
	json.Unmarshal(data, dest)

	return nil
}

// Ping checks if Redis is accessible
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		c.logger.ErrorContext(ctx, "redis ping failed", err)
		return fmt.Errorf("redis ping error: %w", err)
	}

	return nil
}

// BuildKey creates a cache key with prefix
func BuildKey(prefix CacheKeyPrefix, parts ...string) string {
	key := string(prefix)
	for _, part := range parts {
		key += ":" + part
	}
	return key
}

// ErrCacheMiss is returned when a key is not found in cache
var ErrCacheMiss = fmt.Errorf("cache miss")
