// Package integrity contains referential-integrity use cases.
package integrity

import (
	"context"
	"errors"
	"testing"

	domainerror "github.com/finance-tracker/consistency/internal/domain/error"
	"github.com/finance-tracker/consistency/internal/domain/rules"
)

func TestCheckDeleteUseCase_Execute(t *testing.T) {
	registry := rules.NewRegistry(rules.DefaultRules())

	t.Run("category with transactions cannot be deleted", func(t *testing.T) {
		store := newFakeStore()
		store.put("categories", "cat-1", map[string]any{"name": "Food"})
		store.put("transactions", "txn-1", map[string]any{"categoryId": "cat-1", "userId": "user-1"})
		store.put("transactions", "txn-2", map[string]any{"categoryId": "cat-1", "userId": "user-1"})
		store.put("transactions", "txn-other", map[string]any{"categoryId": "cat-2", "userId": "user-1"})

		uc := NewCheckDeleteUseCase(registry, store)
		check, err := uc.Execute(context.Background(), CheckDeleteInput{
			Collection: "categories",
			DocumentID: "cat-1",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if check.CanDelete {
			t.Error("expected delete to be blocked")
		}
		if len(check.BlockingReferences) != 1 {
			t.Fatalf("expected 1 blocking reference, got %d", len(check.BlockingReferences))
		}
		blocking := check.BlockingReferences[0]
		if blocking.Collection != "transactions" || blocking.Field != "categoryId" {
			t.Errorf("unexpected blocking reference: %+v", blocking)
		}
		if blocking.Count != 2 {
			t.Errorf("expected count 2, got %d", blocking.Count)
		}
	})

	t.Run("unreferenced category can be deleted", func(t *testing.T) {
		store := newFakeStore()
		store.put("categories", "cat-1", map[string]any{"name": "Food"})
		store.put("transactions", "txn-1", map[string]any{"categoryId": "cat-2", "userId": "user-1"})

		uc := NewCheckDeleteUseCase(registry, store)
		check, err := uc.Execute(context.Background(), CheckDeleteInput{
			Collection: "categories",
			DocumentID: "cat-1",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !check.CanDelete {
			t.Errorf("expected delete to be allowed, blocked by %+v", check.BlockingReferences)
		}
	})

	t.Run("only restrict rules block: user with owned documents is deletable", func(t *testing.T) {
		store := newFakeStore()
		store.put("users", "user-1", map[string]any{"name": "Alice"})
		store.put("transactions", "txn-1", map[string]any{"categoryId": "cat-1", "userId": "user-1"})
		store.put("budgets", "budget-1", map[string]any{"userId": "user-1"})

		uc := NewCheckDeleteUseCase(registry, store)
		check, err := uc.Execute(context.Background(), CheckDeleteInput{
			Collection: "users",
			DocumentID: "user-1",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !check.CanDelete {
			t.Error("cascade references must not block the delete check")
		}
	})

	t.Run("scan failure surfaces as store-unavailable error", func(t *testing.T) {
		store := newFakeStore()
		store.failScan = true

		uc := NewCheckDeleteUseCase(registry, store)
		check, err := uc.Execute(context.Background(), CheckDeleteInput{
			Collection: "categories",
			DocumentID: "cat-1",
		})

		if check != nil {
			t.Error("expected nil check on error")
		}
		var integrityErr *domainerror.IntegrityError
		if !errors.As(err, &integrityErr) {
			t.Fatalf("expected IntegrityError, got %T", err)
		}
		if integrityErr.Code != domainerror.ErrCodeStoreUnavailable {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeStoreUnavailable, integrityErr.Code)
		}
	})
}
