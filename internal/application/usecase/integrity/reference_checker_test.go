// Package integrity contains referential-integrity use cases.
package integrity

import (
	"context"
	"testing"
	"time"

	"github.com/finance-tracker/consistency/internal/integration/cache"
)

func TestReferenceChecker_ValidateReference(t *testing.T) {
	t.Run("existing target validates and is memoized", func(t *testing.T) {
		store := newFakeStore()
		store.put("categories", "cat-1", map[string]any{"name": "Food"})
		checker := NewReferenceChecker(store, cache.NewMemoryCache(), time.Minute)

		if !checker.ValidateReference(context.Background(), "categories", "cat-1") {
			t.Error("expected reference to validate")
		}
		if store.getCalls != 1 {
			t.Fatalf("expected 1 lookup, got %d", store.getCalls)
		}

		// Second check is served from cache.
		if !checker.ValidateReference(context.Background(), "categories", "cat-1") {
			t.Error("expected cached reference to validate")
		}
		if store.getCalls != 1 {
			t.Errorf("expected cache hit, got %d lookups", store.getCalls)
		}
	})

	t.Run("negative results are memoized too", func(t *testing.T) {
		store := newFakeStore()
		checker := NewReferenceChecker(store, cache.NewMemoryCache(), time.Minute)

		if checker.ValidateReference(context.Background(), "categories", "cat-gone") {
			t.Error("expected missing reference to fail validation")
		}
		if checker.ValidateReference(context.Background(), "categories", "cat-gone") {
			t.Error("expected cached negative result")
		}
		if store.getCalls != 1 {
			t.Errorf("expected single lookup for repeated negative check, got %d", store.getCalls)
		}
	})

	t.Run("cache keys are scoped by collection", func(t *testing.T) {
		store := newFakeStore()
		store.put("categories", "shared-id", map[string]any{})
		checker := NewReferenceChecker(store, cache.NewMemoryCache(), time.Minute)

		if !checker.ValidateReference(context.Background(), "categories", "shared-id") {
			t.Error("expected categories/shared-id to validate")
		}
		if checker.ValidateReference(context.Background(), "users", "shared-id") {
			t.Error("users/shared-id must not inherit the categories result")
		}
	})

	t.Run("lookup failure returns false without poisoning the cache", func(t *testing.T) {
		store := newFakeStore()
		store.put("categories", "cat-1", map[string]any{"name": "Food"})
		store.failGet = true
		checker := NewReferenceChecker(store, cache.NewMemoryCache(), time.Minute)

		if checker.ValidateReference(context.Background(), "categories", "cat-1") {
			t.Error("expected false while the store is unreachable")
		}

		// Once the store recovers, the checker must consult it again instead
		// of serving a cached false.
		store.failGet = false
		if !checker.ValidateReference(context.Background(), "categories", "cat-1") {
			t.Error("expected recovery after the store came back")
		}
	})

	t.Run("ClearCache forces revalidation", func(t *testing.T) {
		store := newFakeStore()
		store.put("categories", "cat-1", map[string]any{"name": "Food"})
		checker := NewReferenceChecker(store, cache.NewMemoryCache(), time.Minute)

		checker.ValidateReference(context.Background(), "categories", "cat-1")
		checker.ClearCache(context.Background())
		checker.ValidateReference(context.Background(), "categories", "cat-1")

		if store.getCalls != 2 {
			t.Errorf("expected lookup after cache clear, got %d lookups", store.getCalls)
		}
	})

	t.Run("stale deletion is visible for at most one TTL", func(t *testing.T) {
		store := newFakeStore()
		store.put("categories", "cat-1", map[string]any{"name": "Food"})
		memCache := cache.NewMemoryCache()
		checker := NewReferenceChecker(store, memCache, 10*time.Millisecond)

		if !checker.ValidateReference(context.Background(), "categories", "cat-1") {
			t.Fatal("expected initial validation to pass")
		}

		// Delete behind the cache's back; the stale positive may persist
		// until the entry expires.
		delete(store.docs["categories"], "cat-1")
		time.Sleep(20 * time.Millisecond)

		if checker.ValidateReference(context.Background(), "categories", "cat-1") {
			t.Error("expected expired entry to be revalidated against the store")
		}
	})
}
