// Package cache provides existence-cache implementations for the reference
// checker: an in-process TTL map and a Redis-backed variant.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/finance-tracker/consistency/internal/application/adapter"
)

// memoryEntry tracks one memoized existence result.
type memoryEntry struct {
	exists    bool
	expiresAt time.Time
}

// MemoryCache is an in-process existence cache. Entries expire individually;
// expired entries are dropped lazily on read and by Cleanup.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryCache creates a new in-process existence cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
	}
}

// Get returns the cached existence result for the key.
func (c *MemoryCache) Get(_ context.Context, key string) (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return false, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return false, false
	}
	return entry.exists, true
}

// Set stores an existence result with the given TTL.
func (c *MemoryCache) Set(_ context.Context, key string, exists bool, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{
		exists:    exists,
		expiresAt: time.Now().Add(ttl),
	}
}

// Clear drops all entries immediately.
func (c *MemoryCache) Clear(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
}

// Cleanup removes expired entries (can be called periodically to free memory).
func (c *MemoryCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

var _ adapter.ExistenceCache = (*MemoryCache)(nil)
