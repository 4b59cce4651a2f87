// Package budget contains the budget-ledger consistency engine.
package budget

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/consistency/internal/application/adapter"
	"github.com/finance-tracker/consistency/internal/domain/entity"
	domainerror "github.com/finance-tracker/consistency/internal/domain/error"
)

// maxSpendRetries bounds how often an optimistic spend update is retried
// after losing a version race.
const maxSpendRetries = 3

// applySpendingDelta performs the category read-modify-write: it computes the
// impact of delta on the category's spent total and replaces the budget
// conditional on its version. On a version conflict the budget is reloaded
// and the impact recomputed, so the returned impact always reflects the
// previous amount that actually won.
func applySpendingDelta(
	ctx context.Context,
	repo adapter.BudgetRepository,
	budget *entity.Budget,
	categoryID string,
	delta decimal.Decimal,
) (*entity.BudgetImpact, error) {
	for attempt := 0; attempt < maxSpendRetries; attempt++ {
		category := budget.Category(categoryID)
		if category == nil {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeBudgetCategoryNotFound,
				"budget has no category "+categoryID,
				domainerror.ErrBudgetCategoryNotFound,
			)
		}

		impact := entity.NewBudgetImpact(budget.ID, category.ID, category.Spent, delta, category.Allocated)

		now := time.Now().UTC()
		category.Spent = impact.NewAmount
		category.LastUpdated = now
		budget.UpdatedAt = now

		err := repo.Save(ctx, budget)
		if err == nil {
			spendUpdatesTotal.WithLabelValues("applied").Inc()
			return impact, nil
		}
		if !errors.Is(err, domainerror.ErrVersionConflict) {
			spendUpdatesTotal.WithLabelValues("error").Inc()
			return nil, err
		}

		// Lost the race; reload and recompute from the winner's state.
		versionConflictsTotal.Inc()
		fresh, loadErr := repo.FindByID(ctx, budget.ID)
		if loadErr != nil {
			spendUpdatesTotal.WithLabelValues("error").Inc()
			return nil, loadErr
		}
		budget = fresh
	}

	spendUpdatesTotal.WithLabelValues("conflict").Inc()
	return nil, domainerror.NewBudgetError(
		domainerror.ErrCodeSpendUpdateConflict,
		"spend update lost the version race repeatedly",
		domainerror.ErrSpendUpdateConflict,
	)
}
