// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetPeriod represents the recurrence period of a budget.
type BudgetPeriod string

const (
	BudgetPeriodWeekly  BudgetPeriod = "weekly"
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

// BudgetCategory is a named spending bucket inside a budget. Spent is a
// derived aggregate maintained from the transaction ledger; it is never
// edited directly by users.
type BudgetCategory struct {
	ID        string
	Name      string
	Allocated decimal.Decimal
	Spent     decimal.Decimal
	// TransactionCategories is the explicit allowlist of ledger category ids
	// that map onto this budget category.
	TransactionCategories []string
	LastUpdated           time.Time
}

// Budget represents a user's budget with per-category allocations.
type Budget struct {
	ID         string
	UserID     uuid.UUID
	Categories []BudgetCategory
	Period     BudgetPeriod
	IsActive   bool
	// Version supports optimistic concurrency on the read-modify-write of
	// category aggregates. Incremented by the store on every replace.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBudget creates a new Budget entity.
func NewBudget(userID uuid.UUID, categories []BudgetCategory, period BudgetPeriod) *Budget {
	now := time.Now().UTC()

	return &Budget{
		ID:         uuid.NewString(),
		UserID:     userID,
		Categories: categories,
		Period:     period,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Category returns a pointer to the category with the given id, or nil if the
// budget has no such category.
func (b *Budget) Category(categoryID string) *BudgetCategory {
	for i := range b.Categories {
		if b.Categories[i].ID == categoryID {
			return &b.Categories[i]
		}
	}
	return nil
}

// PeriodRange returns the start and end of the budget period containing the
// reference time. Weekly periods start on Monday.
func (b *Budget) PeriodRange(ref time.Time) (time.Time, time.Time) {
	ref = ref.UTC()
	switch b.Period {
	case BudgetPeriodWeekly:
		weekday := int(ref.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC).
			AddDate(0, 0, -(weekday - 1))
		return start, start.AddDate(0, 0, 7)
	case BudgetPeriodYearly:
		start := time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0)
	default: // monthly
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	}
}
