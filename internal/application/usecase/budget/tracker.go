// Package budget contains the budget-ledger consistency engine.
package budget

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/consistency/internal/application/adapter"
	"github.com/finance-tracker/consistency/internal/domain/entity"
	domainerror "github.com/finance-tracker/consistency/internal/domain/error"
)

// SpendingTracker reacts to ledger-entry lifecycle events and keeps budget
// category aggregates consistent with the ledger.
//
// Budgeting is best-effort enrichment of the ledger: a missing budget, an
// unmapped category or a failed aggregate write all degrade to a nil return,
// never to an error, because the ledger write that triggered the callback has
// already committed and must not be blocked or rolled back.
type SpendingTracker struct {
	budgetRepo adapter.BudgetRepository
	auditSink  adapter.AuditSink
	alertSink  adapter.AlertSink
	notifier   adapter.AlertNotifier
}

// NewSpendingTracker creates a new SpendingTracker instance. The notifier may
// be nil when no notification channel is configured.
func NewSpendingTracker(
	budgetRepo adapter.BudgetRepository,
	auditSink adapter.AuditSink,
	alertSink adapter.AlertSink,
	notifier adapter.AlertNotifier,
) *SpendingTracker {
	return &SpendingTracker{
		budgetRepo: budgetRepo,
		auditSink:  auditSink,
		alertSink:  alertSink,
		notifier:   notifier,
	}
}

// OnTransactionCreated applies a newly created ledger entry to the owning
// budget. Non-expense entries are ignored. Returns the impact, or nil when
// the spending is untracked.
func (t *SpendingTracker) OnTransactionCreated(ctx context.Context, entry *entity.LedgerEntry) *entity.BudgetImpact {
	if entry == nil || !entry.IsExpense() {
		return nil
	}
	return t.track(ctx, entry, entry.Amount, entity.AuditActionCreate, true)
}

// OnTransactionUpdated reconciles an entry mutation. If the old entry was an
// expense its prior impact is reversed first, against the category the old
// entry mapped to; if the new entry is an expense its impact is then applied
// to the category it maps to now. The two steps are independent: a type
// change degrades to reverse-only or apply-only. A plain overwrite cannot do
// this because the mapped category itself may have changed.
func (t *SpendingTracker) OnTransactionUpdated(ctx context.Context, old, updated *entity.LedgerEntry) *entity.BudgetImpact {
	if old == nil || updated == nil {
		return nil
	}
	if old.Amount.Equal(updated.Amount) && old.CategoryID == updated.CategoryID && old.Type == updated.Type {
		return nil
	}

	var reversal *entity.BudgetImpact
	if old.IsExpense() {
		reversal = t.track(ctx, old, old.Amount.Neg(), entity.AuditActionUpdate, false)
	}
	if updated.IsExpense() {
		return t.track(ctx, updated, updated.Amount, entity.AuditActionUpdate, true)
	}
	return reversal
}

// OnTransactionDeleted reverses a deleted expense entry's impact on the
// category it maps to.
func (t *SpendingTracker) OnTransactionDeleted(ctx context.Context, entry *entity.LedgerEntry) *entity.BudgetImpact {
	if entry == nil || !entry.IsExpense() {
		return nil
	}
	return t.track(ctx, entry, entry.Amount.Neg(), entity.AuditActionDelete, false)
}

// track resolves the owning budget and target category, applies the delta
// and performs the auxiliary bookkeeping (alerts, audit).
func (t *SpendingTracker) track(
	ctx context.Context,
	entry *entity.LedgerEntry,
	delta decimal.Decimal,
	action entity.AuditAction,
	evaluateAlerts bool,
) *entity.BudgetImpact {
	budget, err := t.budgetRepo.FindActiveByUser(ctx, entry.UserID)
	if err != nil {
		if errors.Is(err, domainerror.ErrBudgetNotFound) {
			slog.Debug("No active budget; spending untracked",
				"userID", entry.UserID,
				"entryID", entry.ID,
			)
		} else {
			slog.Warn("Failed to load active budget; spending untracked",
				"userID", entry.UserID,
				"entryID", entry.ID,
				"error", err,
			)
		}
		return nil
	}

	category := findMatchingBudgetCategory(budget, entry.CategoryID)
	if category == nil {
		slog.Debug("No matching budget category; spending untracked",
			"userID", entry.UserID,
			"entryID", entry.ID,
			"ledgerCategoryID", entry.CategoryID,
		)
		return nil
	}
	// The category pointer aliases the budget that applySpendingDelta may
	// replace on retry; keep a stable copy for alert messages.
	resolved := *category

	impact, err := applySpendingDelta(ctx, t.budgetRepo, budget, resolved.ID, delta)
	if err != nil {
		slog.Error("Failed to apply spending delta",
			"userID", entry.UserID,
			"entryID", entry.ID,
			"budgetID", budget.ID,
			"categoryID", resolved.ID,
			"error", err,
		)
		return nil
	}

	if evaluateAlerts {
		t.checkBudgetAlerts(ctx, &resolved, impact)
	}
	t.audit(ctx, action, entry, impact)

	return impact
}

// audit emits one record per aggregate mutation; failures are logged and
// swallowed.
func (t *SpendingTracker) audit(ctx context.Context, action entity.AuditAction, entry *entity.LedgerEntry, impact *entity.BudgetImpact) {
	record := entity.NewAuditRecord(action, entry.UserID, impact.BudgetID, map[string]any{
		"entryId":        entry.ID,
		"categoryId":     impact.CategoryID,
		"previousAmount": impact.PreviousAmount.String(),
		"newAmount":      impact.NewAmount.String(),
		"difference":     impact.Difference.String(),
	})

	if err := t.auditSink.Record(ctx, record); err != nil {
		slog.Error("Failed to write audit record",
			"action", action,
			"userID", entry.UserID,
			"budgetID", impact.BudgetID,
			"error", err,
		)
	}
}
