// Package cache wraps Redis for the short-lived read caches: dashboard
// summary counts and tag autosuggest results. Every operation degrades to
// a miss when Redis is unavailable, the backing store stays authoritative.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eduassist/backend/internal/pkg/logger"
)

// DefaultTTL bounds the staleness of cached reads.
const DefaultTTL = 30 * time.Second

// ErrMiss is returned when a key is absent or the cache is disabled.
var ErrMiss = redis.Nil

// Cache is a thin JSON cache over a Redis client. A nil Cache (or a Cache
// created without a client) is valid and behaves as always-miss.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// New connects to Redis. An empty address disables caching without error.
func New(ctx context.Context, cfg Config) (*Cache, error) {
	if cfg.Addr == "" {
		logger.Info().Msg("Redis address not configured - caching disabled")
		return &Cache{ttl: DefaultTTL}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis connect error: %w", err)
	}

	return &Cache{rdb: rdb, ttl: DefaultTTL}, nil
}

// NewWithClient wraps an existing Redis client, used by tests.
func NewWithClient(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb, ttl: DefaultTTL}
}

// Enabled reports whether a Redis client is attached.
func (c *Cache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Get unmarshals the cached value at key into dest. Returns ErrMiss when
// the key is absent or caching is disabled.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	if !c.Enabled() {
		return ErrMiss
	}

	payload, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		return fmt.Errorf("unmarshal error: %w", err)
	}
	return nil
}

// Set stores value at key with the default TTL. Failures are logged and
// swallowed.
func (c *Cache) Set(ctx context.Context, key string, value interface{}) {
	if !c.Enabled() {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Failed to marshal cache value")
		return
	}
	if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Failed to write cache value")
	}
}

// Delete removes keys, ignoring errors.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if !c.Enabled() || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		logger.Warn().Err(err).Msg("Failed to delete cache keys")
	}
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Close()
}

// SummaryKey is the cache key for a request summary. A zero userID keys
// the staff-wide summary.
func SummaryKey(userID int64) string {
	if userID == 0 {
		return "summary:all"
	}
	return fmt.Sprintf("summary:user:%d", userID)
}

// TagSearchKey is the cache key for a tag autosuggest query.
func TagSearchKey(query string) string {
	return "tags:search:" + query
}
