package cache

import (
	"time"

	"go.uber.org/zap"

	appdesign "github.com/invoicestudio/backend/internal/application/design"
)

// NewResolvedCache creates the resolved-design cache for the given
// Redis configuration, falling back to the in-memory cache when Redis
// is unreachable. Resolution works without any cache, so this never
// fails hard.
func NewResolvedCache(cfg RedisConfig, ttl time.Duration, logger *zap.Logger) appdesign.ResolvedCache {
	if logger == nil {
		logger = zap.NewNop()
	}

	redisCache, err := NewRedisResolvedCache(cfg, ttl, logger)
	if err == nil {
		logger.Info("using Redis resolved-design cache")
		return redisCache
	}

	logger.Warn("Redis unavailable, falling back to in-memory resolved-design cache. "+
		"Cached designs will not be shared across instances.",
		zap.Error(err),
	)
	return NewInMemoryResolvedCache(ttl)
}
