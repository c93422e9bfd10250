package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appdesign "github.com/invoicestudio/backend/internal/application/design"
	"github.com/invoicestudio/backend/internal/domain/design"
)

// DefaultResolvedTTL bounds how stale a cached resolved design may get.
// Resolution is cheap, so a short TTL keeps the failure mode mild.
const DefaultResolvedTTL = 5 * time.Minute

// RedisResolvedCache caches resolved designs in Redis. Every failure
// degrades to a cache miss: resolution still works with Redis down,
// just slower.
type RedisResolvedCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisResolvedCache creates a Redis-backed resolved-design cache
func NewRedisResolvedCache(cfg RedisConfig, ttl time.Duration, logger *zap.Logger) (*RedisResolvedCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisResolvedCacheWithClient(client, ttl, logger), nil
}

// NewRedisResolvedCacheWithClient creates a cache over an existing client.
// Useful for testing or when sharing a client across components.
func NewRedisResolvedCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisResolvedCache {
	if ttl <= 0 {
		ttl = DefaultResolvedTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisResolvedCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached resolved design for key, or a miss
func (c *RedisResolvedCache) Get(ctx context.Context, key string) (*design.Resolved, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("resolved cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var resolved design.Resolved
	if err := json.Unmarshal(raw, &resolved); err != nil {
		c.logger.Warn("resolved cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &resolved, true
}

// Set stores the resolved design under key with the cache TTL
func (c *RedisResolvedCache) Set(ctx context.Context, key string, resolved design.Resolved) {
	raw, err := json.Marshal(resolved)
	if err != nil {
		c.logger.Warn("resolved cache serialize failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("resolved cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Close closes the Redis client
func (c *RedisResolvedCache) Close() error {
	return c.client.Close()
}

var _ appdesign.ResolvedCache = (*RedisResolvedCache)(nil)
