// Package entity defines the core business entities for the domain layer.
package entity

import (
	"github.com/shopspring/decimal"
)

// BudgetImpact describes the effect of one ledger-entry mutation on one
// budget category. Instances are value objects created per operation and
// never mutated after construction.
type BudgetImpact struct {
	BudgetID        string
	CategoryID      string
	PreviousAmount  decimal.Decimal
	NewAmount       decimal.Decimal
	Difference      decimal.Decimal // Negative for reversals
	OverBudget      bool
	RemainingBudget decimal.Decimal // Clamped to zero when over budget
}

// NewBudgetImpact computes the impact of applying delta to a category whose
// current spent total is previous and whose ceiling is allocated.
func NewBudgetImpact(budgetID, categoryID string, previous, delta, allocated decimal.Decimal) *BudgetImpact {
	newAmount := previous.Add(delta)

	remaining := allocated.Sub(newAmount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return &BudgetImpact{
		BudgetID:        budgetID,
		CategoryID:      categoryID,
		PreviousAmount:  previous,
		NewAmount:       newAmount,
		Difference:      delta,
		OverBudget:      newAmount.GreaterThan(allocated),
		RemainingBudget: remaining,
	}
}
