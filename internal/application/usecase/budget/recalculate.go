// Package budget contains the budget-ledger consistency engine.
package budget

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/consistency/internal/application/adapter"
	"github.com/finance-tracker/consistency/internal/domain/entity"
	domainerror "github.com/finance-tracker/consistency/internal/domain/error"
)

// RecalculateBudgetInput represents the input for a full reconciliation.
type RecalculateBudgetInput struct {
	UserID uuid.UUID
	// BudgetID selects a specific budget; when empty the user's active budget
	// is reconciled.
	BudgetID string
}

// RecalculateBudgetOutput reports the reconciled totals.
type RecalculateBudgetOutput struct {
	BudgetID       string
	CategoryTotals map[string]decimal.Decimal
	EntriesApplied int
}

// RecalculateBudgetUseCase re-derives every category's spent aggregate
// directly from the ledger for the budget's current period. It is the only
// supported recovery from drift accumulated by the incremental path and is
// safe to run at any time: the result equals replaying OnTransactionCreated
// for every period expense from a zeroed budget, in any order.
type RecalculateBudgetUseCase struct {
	budgetRepo adapter.BudgetRepository
	ledgerRepo adapter.LedgerRepository
	locker     adapter.BudgetLocker
	auditSink  adapter.AuditSink
}

// NewRecalculateBudgetUseCase creates a new RecalculateBudgetUseCase instance.
func NewRecalculateBudgetUseCase(
	budgetRepo adapter.BudgetRepository,
	ledgerRepo adapter.LedgerRepository,
	locker adapter.BudgetLocker,
	auditSink adapter.AuditSink,
) *RecalculateBudgetUseCase {
	return &RecalculateBudgetUseCase{
		budgetRepo: budgetRepo,
		ledgerRepo: ledgerRepo,
		locker:     locker,
		auditSink:  auditSink,
	}
}

// Execute reconciles one budget. The whole rewrite runs under the per-budget
// lock so replay cannot interleave with incremental writers.
func (uc *RecalculateBudgetUseCase) Execute(ctx context.Context, input RecalculateBudgetInput) (*RecalculateBudgetOutput, error) {
	budget, err := uc.findBudget(ctx, input)
	if err != nil {
		return nil, err
	}

	release, err := uc.locker.Lock(ctx, budget.ID)
	if err != nil {
		return nil, domainerror.NewBudgetError(
			domainerror.ErrCodeBudgetLockNotObtained,
			fmt.Sprintf("could not lock budget %s for recalculation", budget.ID),
			err,
		)
	}
	defer release()

	start, end := budget.PeriodRange(time.Now().UTC())
	entries, err := uc.ledgerRepo.FindExpensesByUserAndRange(ctx, budget.UserID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger entries: %w", err)
	}

	// Zero every category, then replay the period's expenses through the same
	// category resolution the incremental path uses.
	totals := make(map[string]decimal.Decimal, len(budget.Categories))
	for _, category := range budget.Categories {
		totals[category.ID] = decimal.Zero
	}

	applied := 0
	for _, entry := range entries {
		category := findMatchingBudgetCategory(budget, entry.CategoryID)
		if category == nil {
			continue
		}
		totals[category.ID] = totals[category.ID].Add(entry.Amount)
		applied++
	}

	if err := uc.writeTotals(ctx, budget, totals); err != nil {
		return nil, err
	}

	recalculationsTotal.Inc()
	uc.audit(ctx, budget, applied)

	slog.Info("Budget recalculated from ledger",
		"budgetID", budget.ID,
		"userID", budget.UserID,
		"entriesApplied", applied,
		"periodStart", start,
		"periodEnd", end,
	)

	return &RecalculateBudgetOutput{
		BudgetID:       budget.ID,
		CategoryTotals: totals,
		EntriesApplied: applied,
	}, nil
}

func (uc *RecalculateBudgetUseCase) findBudget(ctx context.Context, input RecalculateBudgetInput) (*entity.Budget, error) {
	var (
		budget *entity.Budget
		err    error
	)
	if input.BudgetID != "" {
		budget, err = uc.budgetRepo.FindByID(ctx, input.BudgetID)
	} else {
		budget, err = uc.budgetRepo.FindActiveByUser(ctx, input.UserID)
	}
	if err != nil {
		if errors.Is(err, domainerror.ErrBudgetNotFound) {
			return nil, domainerror.NewBudgetError(
				domainerror.ErrCodeBudgetNotFound,
				"budget not found",
				err,
			)
		}
		return nil, fmt.Errorf("failed to find budget: %w", err)
	}
	return budget, nil
}

// writeTotals replaces every category's spent aggregate. Version conflicts
// are retried with a fresh read; the lock keeps the window small but a
// straggling incremental writer may still slip in between read and write.
func (uc *RecalculateBudgetUseCase) writeTotals(ctx context.Context, budget *entity.Budget, totals map[string]decimal.Decimal) error {
	for attempt := 0; attempt < maxSpendRetries; attempt++ {
		now := time.Now().UTC()
		for i := range budget.Categories {
			budget.Categories[i].Spent = totals[budget.Categories[i].ID]
			budget.Categories[i].LastUpdated = now
		}
		budget.UpdatedAt = now

		err := uc.budgetRepo.Save(ctx, budget)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domainerror.ErrVersionConflict) {
			return fmt.Errorf("failed to save recalculated budget: %w", err)
		}

		versionConflictsTotal.Inc()
		fresh, loadErr := uc.budgetRepo.FindByID(ctx, budget.ID)
		if loadErr != nil {
			return loadErr
		}
		budget = fresh
	}

	return domainerror.NewBudgetError(
		domainerror.ErrCodeSpendUpdateConflict,
		"recalculation lost the version race repeatedly",
		domainerror.ErrSpendUpdateConflict,
	)
}

func (uc *RecalculateBudgetUseCase) audit(ctx context.Context, budget *entity.Budget, applied int) {
	record := entity.NewAuditRecord(entity.AuditActionUpdate, budget.UserID, budget.ID, map[string]any{
		"reason":         "recalculation",
		"entriesApplied": applied,
	})
	if err := uc.auditSink.Record(ctx, record); err != nil {
		slog.Error("Failed to write recalculation audit record",
			"budgetID", budget.ID,
			"error", err,
		)
	}
}
