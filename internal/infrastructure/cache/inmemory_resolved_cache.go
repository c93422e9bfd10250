package cache

import (
	"context"
	"sync"
	"time"

	appdesign "github.com/invoicestudio/backend/internal/application/design"
	"github.com/invoicestudio/backend/internal/domain/design"
)

// InMemoryResolvedCache caches resolved designs in process memory.
// Suitable for single-instance deployments and as a fallback when
// Redis is unavailable.
type InMemoryResolvedCache struct {
	mu      sync.RWMutex
	entries map[string]resolvedEntry
	ttl     time.Duration
}

type resolvedEntry struct {
	resolved  design.Resolved
	expiresAt time.Time
}

// NewInMemoryResolvedCache creates an in-memory resolved-design cache
func NewInMemoryResolvedCache(ttl time.Duration) *InMemoryResolvedCache {
	if ttl <= 0 {
		ttl = DefaultResolvedTTL
	}
	return &InMemoryResolvedCache{
		entries: make(map[string]resolvedEntry),
		ttl:     ttl,
	}
}

// Get returns the cached resolved design for key, or a miss
func (c *InMemoryResolvedCache) Get(ctx context.Context, key string) (*design.Resolved, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	resolved := entry.resolved
	return &resolved, true
}

// Set stores the resolved design under key with the cache TTL
func (c *InMemoryResolvedCache) Set(ctx context.Context, key string, resolved design.Resolved) {
	c.mu.Lock()
	c.entries[key] = resolvedEntry{
		resolved:  resolved,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}

var _ appdesign.ResolvedCache = (*InMemoryResolvedCache)(nil)
