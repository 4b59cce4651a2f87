// Package budget contains the budget-ledger consistency engine.
package budget

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/finance-tracker/consistency/internal/domain/entity"
	domainerror "github.com/finance-tracker/consistency/internal/domain/error"
)

func TestApplySpendingDelta(t *testing.T) {
	userID := uuid.New()

	newRepoAndBudget := func(spent string) (*fakeBudgetRepo, *entity.Budget) {
		budget := testBudget(userID, entity.BudgetCategory{
			ID:        "bc-food",
			Name:      "Food",
			Allocated: mustDecimal("500"),
			Spent:     mustDecimal(spent),
		})
		return newFakeBudgetRepo(budget), budget
	}

	t.Run("applies a positive delta", func(t *testing.T) {
		repo, budget := newRepoAndBudget("100")

		impact, err := applySpendingDelta(context.Background(), repo, budget, "bc-food", mustDecimal("50"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !impact.PreviousAmount.Equal(mustDecimal("100")) || !impact.NewAmount.Equal(mustDecimal("150")) {
			t.Errorf("unexpected impact: previous %s, new %s", impact.PreviousAmount, impact.NewAmount)
		}
		if impact.OverBudget {
			t.Error("150 of 500 must not be over budget")
		}
		if !impact.RemainingBudget.Equal(mustDecimal("350")) {
			t.Errorf("expected remaining 350, got %s", impact.RemainingBudget)
		}

		stored, _ := repo.FindByID(context.Background(), budget.ID)
		if !stored.Category("bc-food").Spent.Equal(mustDecimal("150")) {
			t.Errorf("expected persisted spent 150, got %s", stored.Category("bc-food").Spent)
		}
	})

	t.Run("negative delta reverses spending", func(t *testing.T) {
		repo, budget := newRepoAndBudget("100")

		impact, err := applySpendingDelta(context.Background(), repo, budget, "bc-food", mustDecimal("-40"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !impact.NewAmount.Equal(mustDecimal("60")) {
			t.Errorf("expected new amount 60, got %s", impact.NewAmount)
		}
		if !impact.Difference.Equal(mustDecimal("-40")) {
			t.Errorf("expected difference -40, got %s", impact.Difference)
		}
	})

	t.Run("unknown category fails with a coded error", func(t *testing.T) {
		repo, budget := newRepoAndBudget("0")

		impact, err := applySpendingDelta(context.Background(), repo, budget, "bc-nope", mustDecimal("10"))
		if impact != nil {
			t.Error("expected nil impact")
		}
		var budgetErr *domainerror.BudgetError
		if !errors.As(err, &budgetErr) || budgetErr.Code != domainerror.ErrCodeBudgetCategoryNotFound {
			t.Errorf("expected category-not-found budget error, got %v", err)
		}
		if repo.saveCalls != 0 {
			t.Error("no save may be attempted for an unknown category")
		}
	})

	t.Run("version conflict reloads and recomputes from the winner", func(t *testing.T) {
		repo, budget := newRepoAndBudget("100")

		// A concurrent writer lands 30 between our read and first save.
		repo.beforeSave = func(r *fakeBudgetRepo, attempt int) {
			if attempt == 1 {
				r.bumpSpent(budget.ID, "bc-food", "30")
			}
		}

		impact, err := applySpendingDelta(context.Background(), repo, budget, "bc-food", mustDecimal("50"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// The retry recomputed on top of the winner's 130, not our stale 100.
		if !impact.PreviousAmount.Equal(mustDecimal("130")) {
			t.Errorf("expected recomputed previous 130, got %s", impact.PreviousAmount)
		}
		if !impact.NewAmount.Equal(mustDecimal("180")) {
			t.Errorf("expected new amount 180, got %s", impact.NewAmount)
		}

		stored, _ := repo.FindByID(context.Background(), budget.ID)
		if !stored.Category("bc-food").Spent.Equal(mustDecimal("180")) {
			t.Errorf("expected persisted spent 180 (no lost update), got %s", stored.Category("bc-food").Spent)
		}
	})

	t.Run("persistent conflicts exhaust retries", func(t *testing.T) {
		repo, budget := newRepoAndBudget("100")
		repo.beforeSave = func(r *fakeBudgetRepo, _ int) {
			r.bumpSpent(budget.ID, "bc-food", "1")
		}

		impact, err := applySpendingDelta(context.Background(), repo, budget, "bc-food", mustDecimal("50"))
		if impact != nil {
			t.Error("expected nil impact after exhausted retries")
		}
		var budgetErr *domainerror.BudgetError
		if !errors.As(err, &budgetErr) || budgetErr.Code != domainerror.ErrCodeSpendUpdateConflict {
			t.Errorf("expected spend-update-conflict error, got %v", err)
		}
		if repo.saveCalls != maxSpendRetries {
			t.Errorf("expected %d save attempts, got %d", maxSpendRetries, repo.saveCalls)
		}
	})

	t.Run("non-conflict save error is returned as-is", func(t *testing.T) {
		repo, budget := newRepoAndBudget("100")
		repo.saveErr = errSinkDown

		_, err := applySpendingDelta(context.Background(), repo, budget, "bc-food", mustDecimal("50"))
		if !errors.Is(err, errSinkDown) {
			t.Errorf("expected underlying error, got %v", err)
		}
		if repo.saveCalls != 1 {
			t.Errorf("expected no retry for non-conflict errors, got %d attempts", repo.saveCalls)
		}
	})
}
