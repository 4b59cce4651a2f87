// Package budget contains the budget-ledger consistency engine.
package budget

import (
	"testing"

	"github.com/google/uuid"

	"github.com/finance-tracker/consistency/internal/domain/entity"
)

func TestFindMatchingBudgetCategory(t *testing.T) {
	userID := uuid.New()
	budget := testBudget(userID,
		entity.BudgetCategory{
			ID:                    "bc-food",
			Name:                  "Food & Dining",
			Allocated:             mustDecimal("500"),
			TransactionCategories: []string{"groceries", "restaurants"},
		},
		entity.BudgetCategory{
			ID:        "bc-entertainment",
			Name:      "Entertainment",
			Allocated: mustDecimal("100"),
		},
		entity.BudgetCategory{
			ID:        "bc-other",
			Name:      "Other",
			Allocated: mustDecimal("50"),
		},
	)

	tests := []struct {
		name             string
		ledgerCategoryID string
		wantCategoryID   string
	}{
		{"explicit allowlist match", "groceries", "bc-food"},
		{"second allowlist entry", "restaurants", "bc-food"},
		{"semantic group by category name", "movies", "bc-entertainment"},
		{"semantic group is case-insensitive on the budget side", "streaming", "bc-entertainment"},
		{"unmatched spending lands in the catch-all", "vet_bills", "bc-other"},
		{"empty ledger category is untracked", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := findMatchingBudgetCategory(budget, tt.ledgerCategoryID)
			if tt.wantCategoryID == "" {
				if got != nil {
					t.Errorf("expected no match, got %s", got.ID)
				}
				return
			}
			if got == nil {
				t.Fatal("expected a match, got nil")
			}
			if got.ID != tt.wantCategoryID {
				t.Errorf("expected %s, got %s", tt.wantCategoryID, got.ID)
			}
		})
	}

	t.Run("allowlist wins over semantic group", func(t *testing.T) {
		// "groceries" belongs to the food semantic group, but bc-food claims it
		// explicitly; explicit claims take precedence regardless of names.
		shadowed := testBudget(userID,
			entity.BudgetCategory{ID: "bc-claimed", Name: "Unrelated", TransactionCategories: []string{"groceries"}},
			entity.BudgetCategory{ID: "bc-food", Name: "Food"},
		)
		got := findMatchingBudgetCategory(shadowed, "groceries")
		if got == nil || got.ID != "bc-claimed" {
			t.Errorf("expected explicit allowlist to win, got %+v", got)
		}
	})

	t.Run("semantic group wins over catch-all", func(t *testing.T) {
		got := findMatchingBudgetCategory(budget, "concerts")
		if got == nil || got.ID != "bc-entertainment" {
			t.Errorf("expected semantic match before catch-all, got %+v", got)
		}
	})

	t.Run("no match without a catch-all", func(t *testing.T) {
		noFallback := testBudget(userID,
			entity.BudgetCategory{ID: "bc-food", Name: "Food"},
		)
		if got := findMatchingBudgetCategory(noFallback, "vet_bills"); got != nil {
			t.Errorf("expected untracked spending, got %s", got.ID)
		}
	})

	t.Run("nil budget is untracked", func(t *testing.T) {
		if got := findMatchingBudgetCategory(nil, "groceries"); got != nil {
			t.Error("expected nil for nil budget")
		}
	})

	t.Run("returned pointer aliases the budget's slice", func(t *testing.T) {
		b := testBudget(userID,
			entity.BudgetCategory{ID: "bc-food", Name: "Food", TransactionCategories: []string{"groceries"}},
		)
		got := findMatchingBudgetCategory(b, "groceries")
		if got != &b.Categories[0] {
			t.Error("expected pointer into the budget's category slice")
		}
	})
}
