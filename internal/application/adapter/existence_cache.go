// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"
)

// ExistenceCache memoizes reference-existence lookups. Entries expire
// individually after their TTL, so staggered invalidation does not require a
// full clear. Staleness up to the TTL is an accepted trade-off.
type ExistenceCache interface {
	// Get returns the cached existence result for the key and whether a live
	// entry was found.
	Get(ctx context.Context, key string) (exists bool, ok bool)

	// Set stores an existence result for the key with the given TTL.
	Set(ctx context.Context, key string, exists bool, ttl time.Duration)

	// Clear drops all entries immediately.
	Clear(ctx context.Context)
}
