// Package budget contains the budget-ledger consistency engine.
package budget

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/consistency/internal/application/adapter"
	"github.com/finance-tracker/consistency/internal/domain/entity"
	domainerror "github.com/finance-tracker/consistency/internal/domain/error"
)

// PreviewImpactInput represents a not-yet-committed ledger entry.
type PreviewImpactInput struct {
	UserID     uuid.UUID
	Type       entity.EntryType
	Amount     decimal.Decimal
	CategoryID string
}

// PreviewImpactOutput represents the predicted effect of committing the entry.
type PreviewImpactOutput struct {
	WouldExceedBudget bool
	RemainingBudget   decimal.Decimal
	PercentageUsed    float64
	CategoryName      string
}

// PreviewImpactUseCase predicts what a transaction would do to the budget
// before it is committed, so callers can warn the user in advance. It is
// strictly read-only and reuses the live path's category resolution and
// impact math, so preview and actual outcome never disagree.
type PreviewImpactUseCase struct {
	budgetRepo adapter.BudgetRepository
}

// NewPreviewImpactUseCase creates a new PreviewImpactUseCase instance.
func NewPreviewImpactUseCase(budgetRepo adapter.BudgetRepository) *PreviewImpactUseCase {
	return &PreviewImpactUseCase{
		budgetRepo: budgetRepo,
	}
}

// Execute computes the preview. Malformed input, non-expense entries, a
// missing budget and an unmatched category are all no-ops returning nil.
func (uc *PreviewImpactUseCase) Execute(ctx context.Context, input PreviewImpactInput) *PreviewImpactOutput {
	if input.Type != entity.EntryTypeExpense || input.Amount.IsNegative() || input.CategoryID == "" {
		return nil
	}

	budget, err := uc.budgetRepo.FindActiveByUser(ctx, input.UserID)
	if err != nil {
		if !errors.Is(err, domainerror.ErrBudgetNotFound) {
			slog.Warn("Failed to load active budget for preview",
				"userID", input.UserID,
				"error", err,
			)
		}
		return nil
	}

	category := findMatchingBudgetCategory(budget, input.CategoryID)
	if category == nil {
		return nil
	}

	impact := entity.NewBudgetImpact(budget.ID, category.ID, category.Spent, input.Amount, category.Allocated)

	return &PreviewImpactOutput{
		WouldExceedBudget: impact.OverBudget,
		RemainingBudget:   impact.RemainingBudget,
		PercentageUsed:    utilization(impact) * 100,
		CategoryName:      category.Name,
	}
}
