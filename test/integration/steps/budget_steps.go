// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/consistency/internal/application/adapter"
	"github.com/finance-tracker/consistency/internal/application/usecase/budget"
	"github.com/finance-tracker/consistency/internal/domain/entity"
	"github.com/finance-tracker/consistency/internal/domain/rules"
)

func registerBudgetSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^a user with an active monthly budget:$`, aUserWithAnActiveMonthlyBudget)
	ctx.Step(`^a "([^"]*)" expense of "([^"]*)" is recorded$`, anExpenseIsRecorded)
	ctx.Step(`^the last expense is updated to a "([^"]*)" expense of "([^"]*)"$`, theLastExpenseIsUpdated)
	ctx.Step(`^the last expense is deleted$`, theLastExpenseIsDeleted)
	ctx.Step(`^the "([^"]*)" spent total is "([^"]*)"$`, theSpentTotalIs)
	ctx.Step(`^an? "([^"]*)" alert is raised$`, anAlertIsRaised)
	ctx.Step(`^no alerts are raised$`, noAlertsAreRaised)
	ctx.Step(`^I preview a "([^"]*)" expense of "([^"]*)"$`, iPreviewAnExpense)
	ctx.Step(`^the preview reports (\d+) percent used$`, thePreviewReportsPercent)
	ctx.Step(`^the preview warns the budget would be exceeded$`, thePreviewWarnsExceeded)
	ctx.Step(`^the "([^"]*)" spent total has drifted to "([^"]*)"$`, theSpentTotalHasDriftedTo)
	ctx.Step(`^the budget is recalculated$`, theBudgetIsRecalculated)
	ctx.Step(`^the recalculation applied (\d+) entries$`, theRecalculationApplied)
}

// aUserWithAnActiveMonthlyBudget seeds a budget from a table with columns
// category | allocated | transaction categories.
func aUserWithAnActiveMonthlyBudget(ctx context.Context, table *godog.Table) error {
	tc := getTestContext(ctx)
	tc.budgetID = "budget-" + uuid.NewString()

	var categories []map[string]any
	for i, row := range table.Rows {
		if i == 0 {
			// header row
			continue
		}
		if len(row.Cells) != 3 {
			return fmt.Errorf("row %d: expected three cells, got %d", i, len(row.Cells))
		}
		name := row.Cells[0].Value
		var allowlist []string
		if raw := strings.TrimSpace(row.Cells[2].Value); raw != "" {
			for _, item := range strings.Split(raw, ",") {
				allowlist = append(allowlist, strings.TrimSpace(item))
			}
		}
		categories = append(categories, map[string]any{
			"id":                    "bc-" + strings.ToLower(name),
			"name":                  name,
			"allocated":             row.Cells[1].Value,
			"spent":                 "0",
			"transactionCategories": allowlist,
			"lastUpdated":           time.Now().UTC(),
		})
	}

	return tc.store.ApplyBatch(ctx, []adapter.BatchOp{{
		Kind:       adapter.BatchOpSet,
		Collection: rules.CollectionBudgets,
		ID:         tc.budgetID,
		Fields: map[string]any{
			"userId":     tc.userID.String(),
			"categories": categories,
			"period":     string(entity.BudgetPeriodMonthly),
			"isActive":   true,
			"createdAt":  time.Now().UTC(),
			"updatedAt":  time.Now().UTC(),
		},
	}})
}

func newExpense(tc *TestContext, categoryID, amount string) (*entity.LedgerEntry, error) {
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	return &entity.LedgerEntry{
		ID:         "txn-" + uuid.NewString(),
		UserID:     tc.userID,
		Type:       entity.EntryTypeExpense,
		Amount:     value,
		CategoryID: categoryID,
		Date:       time.Now().UTC(),
	}, nil
}

func anExpenseIsRecorded(ctx context.Context, categoryID, amount string) error {
	tc := getTestContext(ctx)
	entry, err := newExpense(tc, categoryID, amount)
	if err != nil {
		return err
	}

	// Persist the ledger entry the way an upstream writer would, then fire
	// the lifecycle callback.
	if err := persistEntry(ctx, tc, entry); err != nil {
		return err
	}
	tc.lastEntry = entry
	tc.lastImpact = tc.tracker.OnTransactionCreated(ctx, entry)
	return nil
}

func persistEntry(ctx context.Context, tc *TestContext, entry *entity.LedgerEntry) error {
	return tc.store.ApplyBatch(ctx, []adapter.BatchOp{{
		Kind:       adapter.BatchOpSet,
		Collection: rules.CollectionTransactions,
		ID:         entry.ID,
		Fields: map[string]any{
			"userId":     entry.UserID.String(),
			"type":       string(entry.Type),
			"amount":     entry.Amount.String(),
			"categoryId": entry.CategoryID,
			"date":       entry.Date,
		},
	}})
}

func theLastExpenseIsUpdated(ctx context.Context, categoryID, amount string) error {
	tc := getTestContext(ctx)
	if tc.lastEntry == nil {
		return errors.New("no expense recorded yet")
	}
	updated, err := newExpense(tc, categoryID, amount)
	if err != nil {
		return err
	}
	updated.ID = tc.lastEntry.ID

	if err := persistEntry(ctx, tc, updated); err != nil {
		return err
	}
	tc.lastImpact = tc.tracker.OnTransactionUpdated(ctx, tc.lastEntry, updated)
	tc.lastEntry = updated
	return nil
}

func theLastExpenseIsDeleted(ctx context.Context) error {
	tc := getTestContext(ctx)
	if tc.lastEntry == nil {
		return errors.New("no expense recorded yet")
	}

	err := tc.store.ApplyBatch(ctx, []adapter.BatchOp{{
		Kind:       adapter.BatchOpDelete,
		Collection: rules.CollectionTransactions,
		ID:         tc.lastEntry.ID,
	}})
	if err != nil {
		return err
	}
	tc.lastImpact = tc.tracker.OnTransactionDeleted(ctx, tc.lastEntry)
	tc.lastEntry = nil
	return nil
}

func theSpentTotalIs(ctx context.Context, categoryName, want string) error {
	tc := getTestContext(ctx)
	b, err := tc.budgetRepo.FindByID(ctx, tc.budgetID)
	if err != nil {
		return err
	}

	for _, category := range b.Categories {
		if category.Name != categoryName {
			continue
		}
		expected, err := decimal.NewFromString(want)
		if err != nil {
			return err
		}
		if !category.Spent.Equal(expected) {
			return fmt.Errorf("expected %s spent %s, got %s", categoryName, want, category.Spent)
		}
		return nil
	}
	return fmt.Errorf("budget has no category named %s", categoryName)
}

func anAlertIsRaised(ctx context.Context, alertType string) error {
	tc := getTestContext(ctx)
	alerts, err := tc.store.Scan(ctx, rules.CollectionBudgetAlerts, nil, 0)
	if err != nil {
		return err
	}
	for _, doc := range alerts {
		if doc.Fields["type"] == alertType {
			return nil
		}
	}
	return fmt.Errorf("no %s alert among %d persisted alerts", alertType, len(alerts))
}

func noAlertsAreRaised(ctx context.Context) error {
	tc := getTestContext(ctx)
	alerts, err := tc.store.Scan(ctx, rules.CollectionBudgetAlerts, nil, 0)
	if err != nil {
		return err
	}
	if len(alerts) != 0 {
		return fmt.Errorf("expected no alerts, found %d", len(alerts))
	}
	return nil
}

func iPreviewAnExpense(ctx context.Context, categoryID, amount string) error {
	tc := getTestContext(ctx)
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}
	tc.lastPreview = tc.preview.Execute(ctx, budget.PreviewImpactInput{
		UserID:     tc.userID,
		Type:       entity.EntryTypeExpense,
		Amount:     value,
		CategoryID: categoryID,
	})
	return nil
}

func thePreviewReportsPercent(ctx context.Context, percent int) error {
	tc := getTestContext(ctx)
	if tc.lastPreview == nil {
		return errors.New("no preview available")
	}
	if math.Abs(tc.lastPreview.PercentageUsed-float64(percent)) > 0.01 {
		return fmt.Errorf("expected %d%% used, got %v", percent, tc.lastPreview.PercentageUsed)
	}
	return nil
}

func thePreviewWarnsExceeded(ctx context.Context) error {
	tc := getTestContext(ctx)
	if tc.lastPreview == nil {
		return errors.New("no preview available")
	}
	if !tc.lastPreview.WouldExceedBudget {
		return errors.New("expected preview to warn about exceeding the budget")
	}
	return nil
}

func theSpentTotalHasDriftedTo(ctx context.Context, categoryName, amount string) error {
	tc := getTestContext(ctx)
	b, err := tc.budgetRepo.FindByID(ctx, tc.budgetID)
	if err != nil {
		return err
	}
	value, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}
	for i := range b.Categories {
		if b.Categories[i].Name == categoryName {
			b.Categories[i].Spent = value
			return tc.budgetRepo.Save(ctx, b)
		}
	}
	return fmt.Errorf("budget has no category named %s", categoryName)
}

func theBudgetIsRecalculated(ctx context.Context) error {
	tc := getTestContext(ctx)
	output, err := tc.recalculate.Execute(ctx, budget.RecalculateBudgetInput{
		UserID: tc.userID,
	})
	if err != nil {
		return err
	}
	tc.lastRecalc = output
	return nil
}

func theRecalculationApplied(ctx context.Context, count int) error {
	tc := getTestContext(ctx)
	if tc.lastRecalc == nil {
		return errors.New("no recalculation was run")
	}
	if tc.lastRecalc.EntriesApplied != count {
		return fmt.Errorf("expected %d entries applied, got %d", count, tc.lastRecalc.EntriesApplied)
	}
	return nil
}
