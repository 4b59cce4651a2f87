// Package rules declares the referential-integrity rules between document
// collections and provides indexed lookup over them.
package rules

// Collection names used by the finance application's document store.
const (
	CollectionUsers        = "users"
	CollectionCategories   = "categories"
	CollectionTransactions = "transactions"
	CollectionBudgets      = "budgets"
	CollectionGoals        = "goals"
	CollectionBudgetAlerts = "budget_alerts"
	CollectionAuditLog     = "audit_log"
)

// DefaultRules returns the integrity rule table for the finance application.
// A category referenced by transactions cannot be deleted; everything owned
// by a user goes with the user; goals merely lose their category link.
func DefaultRules() []ReferenceRule {
	return []ReferenceRule{
		{
			SourceCollection: CollectionTransactions,
			SourceField:      "categoryId",
			TargetCollection: CollectionCategories,
			OnDelete:         DeleteRestrict,
			Required:         true,
		},
		{
			SourceCollection: CollectionTransactions,
			SourceField:      "userId",
			TargetCollection: CollectionUsers,
			OnDelete:         DeleteCascade,
			Required:         true,
		},
		{
			SourceCollection: CollectionBudgets,
			SourceField:      "userId",
			TargetCollection: CollectionUsers,
			OnDelete:         DeleteCascade,
			Required:         true,
		},
		{
			SourceCollection: CollectionCategories,
			SourceField:      "userId",
			TargetCollection: CollectionUsers,
			OnDelete:         DeleteCascade,
			Required:         true,
		},
		{
			SourceCollection: CollectionGoals,
			SourceField:      "categoryId",
			TargetCollection: CollectionCategories,
			OnDelete:         DeleteSetNull,
			Required:         false,
		},
		{
			SourceCollection: CollectionGoals,
			SourceField:      "userId",
			TargetCollection: CollectionUsers,
			OnDelete:         DeleteCascade,
			Required:         true,
		},
		{
			SourceCollection: CollectionBudgetAlerts,
			SourceField:      "budgetId",
			TargetCollection: CollectionBudgets,
			OnDelete:         DeleteCascade,
			Required:         true,
		},
	}
}
