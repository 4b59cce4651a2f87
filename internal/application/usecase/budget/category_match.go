// Package budget contains the budget-ledger consistency engine: it keeps the
// materialized per-category "spent" aggregate on a budget consistent with the
// independently-mutable transaction ledger.
package budget

import (
	"strings"

	"github.com/finance-tracker/consistency/internal/domain/entity"
)

// semanticGroups maps coarse spending group names to the ledger category ids
// commonly seen under them. User-entered transaction categories are free-form
// strings that budgets, created independently, cannot enumerate exhaustively;
// this table is the fallback bridge between the two vocabularies.
var semanticGroups = map[string][]string{
	"housing": {
		"rent", "mortgage", "utilities", "electricity", "water", "gas_bill",
		"internet", "home_maintenance", "property_tax", "hoa",
	},
	"food": {
		"groceries", "restaurants", "dining", "coffee", "takeout", "delivery",
		"fast_food", "snacks",
	},
	"transportation": {
		"fuel", "gas", "public_transit", "parking", "car_payment",
		"car_insurance", "car_maintenance", "rideshare", "tolls",
	},
	"entertainment": {
		"movies", "streaming", "games", "concerts", "events", "hobbies",
		"subscriptions", "books", "music",
	},
	"shopping": {
		"clothing", "electronics", "gifts", "household", "online_shopping",
		"personal_care", "beauty",
	},
	"healthcare": {
		"pharmacy", "doctor", "dental", "vision", "health_insurance",
		"therapy", "fitness", "gym",
	},
	"savings": {
		"savings", "investment", "retirement", "emergency_fund",
	},
}

// fallbackCategoryNames are the catch-all budget category markers used as a
// last resort for otherwise unmatched spending.
var fallbackCategoryNames = []string{"other", "miscellaneous"}

// findMatchingBudgetCategory resolves the budget category a ledger category
// id maps onto, in three ordered steps:
//
//  1. exact match against a category's explicit transaction-category allowlist,
//  2. semantic-group fallback: the ledger category id appears under a group
//     whose name is contained in a budget category's name or id,
//  3. a catch-all category named "other" or "miscellaneous".
//
// A nil return means the entry is untracked for budget purposes, which is not
// an error.
func findMatchingBudgetCategory(budget *entity.Budget, ledgerCategoryID string) *entity.BudgetCategory {
	if budget == nil || ledgerCategoryID == "" {
		return nil
	}

	// Step 1: explicit allowlist.
	for i := range budget.Categories {
		for _, allowed := range budget.Categories[i].TransactionCategories {
			if allowed == ledgerCategoryID {
				return &budget.Categories[i]
			}
		}
	}

	// Step 2: semantic group.
	normalized := strings.ToLower(ledgerCategoryID)
	for group, members := range semanticGroups {
		if !containsString(members, normalized) {
			continue
		}
		for i := range budget.Categories {
			if categoryMatchesName(&budget.Categories[i], group) {
				return &budget.Categories[i]
			}
		}
	}

	// Step 3: catch-all.
	for _, name := range fallbackCategoryNames {
		for i := range budget.Categories {
			if categoryMatchesName(&budget.Categories[i], name) {
				return &budget.Categories[i]
			}
		}
	}

	return nil
}

// categoryMatchesName reports whether the category's name or id contains the
// given marker, case-insensitively.
func categoryMatchesName(category *entity.BudgetCategory, marker string) bool {
	return strings.Contains(strings.ToLower(category.Name), marker) ||
		strings.Contains(strings.ToLower(category.ID), marker)
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
