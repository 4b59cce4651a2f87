// Package integrity contains referential-integrity use cases.
package integrity

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/finance-tracker/consistency/internal/application/adapter"
	domainerror "github.com/finance-tracker/consistency/internal/domain/error"
)

// DefaultReferenceTTL is how long a memoized existence result stays valid.
const DefaultReferenceTTL = 5 * time.Minute

// ReferenceChecker is a memoizing existence oracle for reference targets.
// Positive and negative results are both cached for a fixed TTL to avoid
// redundant point-reads under high reference-check volume.
type ReferenceChecker struct {
	store adapter.DocumentStore
	cache adapter.ExistenceCache
	ttl   time.Duration
}

// NewReferenceChecker creates a new ReferenceChecker instance. A zero ttl
// falls back to DefaultReferenceTTL.
func NewReferenceChecker(store adapter.DocumentStore, cache adapter.ExistenceCache, ttl time.Duration) *ReferenceChecker {
	if ttl <= 0 {
		ttl = DefaultReferenceTTL
	}
	return &ReferenceChecker{
		store: store,
		cache: cache,
		ttl:   ttl,
	}
}

// ValidateReference reports whether the target document exists. Lookup
// failures other than not-found return false without poisoning the cache, so
// a store blip does not pin a wrong answer for a whole TTL.
func (c *ReferenceChecker) ValidateReference(ctx context.Context, targetCollection, targetID string) bool {
	key := targetCollection + "/" + targetID

	if exists, ok := c.cache.Get(ctx, key); ok {
		referenceChecksTotal.WithLabelValues("hit").Inc()
		return exists
	}

	_, err := c.store.Get(ctx, targetCollection, targetID)
	switch {
	case err == nil:
		c.cache.Set(ctx, key, true, c.ttl)
		referenceChecksTotal.WithLabelValues("miss").Inc()
		return true
	case errors.Is(err, domainerror.ErrDocumentNotFound):
		c.cache.Set(ctx, key, false, c.ttl)
		referenceChecksTotal.WithLabelValues("miss").Inc()
		return false
	default:
		slog.Warn("Reference existence lookup failed",
			"collection", targetCollection,
			"documentID", targetID,
			"error", err,
		)
		referenceChecksTotal.WithLabelValues("error").Inc()
		return false
	}
}

// ClearCache drops all memoized results immediately. Used by tests and by
// administrative cache busting.
func (c *ReferenceChecker) ClearCache(ctx context.Context) {
	c.cache.Clear(ctx)
}
