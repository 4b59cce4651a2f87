// Package budget contains the budget-ledger consistency engine.
package budget

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/consistency/internal/domain/entity"
	domainerror "github.com/finance-tracker/consistency/internal/domain/error"
)

// fakeBudgetRepo is an in-memory BudgetRepository with real optimistic
// versioning: Save fails with ErrVersionConflict unless the caller's version
// matches the stored one, exactly like the document store's Replace.
type fakeBudgetRepo struct {
	budgets map[string]*entity.Budget

	saveCalls int
	saveErr   error

	// beforeSave runs before each Save attempt, after version comparison
	// setup; tests use it to simulate a concurrent writer.
	beforeSave func(repo *fakeBudgetRepo, attempt int)
}

func newFakeBudgetRepo(budgets ...*entity.Budget) *fakeBudgetRepo {
	repo := &fakeBudgetRepo{budgets: make(map[string]*entity.Budget)}
	for _, b := range budgets {
		repo.budgets[b.ID] = copyBudget(b)
	}
	return repo
}

func copyBudget(b *entity.Budget) *entity.Budget {
	copied := *b
	copied.Categories = make([]entity.BudgetCategory, len(b.Categories))
	copy(copied.Categories, b.Categories)
	for i := range b.Categories {
		copied.Categories[i].TransactionCategories = append([]string(nil), b.Categories[i].TransactionCategories...)
	}
	return &copied
}

func (r *fakeBudgetRepo) FindByID(_ context.Context, id string) (*entity.Budget, error) {
	stored, ok := r.budgets[id]
	if !ok {
		return nil, domainerror.ErrBudgetNotFound
	}
	return copyBudget(stored), nil
}

func (r *fakeBudgetRepo) FindActiveByUser(_ context.Context, userID uuid.UUID) (*entity.Budget, error) {
	for _, b := range r.budgets {
		if b.UserID == userID && b.IsActive {
			return copyBudget(b), nil
		}
	}
	return nil, domainerror.ErrBudgetNotFound
}

func (r *fakeBudgetRepo) Save(_ context.Context, budget *entity.Budget) error {
	r.saveCalls++
	if r.beforeSave != nil {
		r.beforeSave(r, r.saveCalls)
	}
	if r.saveErr != nil {
		return r.saveErr
	}

	stored, ok := r.budgets[budget.ID]
	if !ok {
		return domainerror.ErrBudgetNotFound
	}
	if budget.Version != stored.Version {
		return domainerror.ErrVersionConflict
	}

	budget.Version++
	r.budgets[budget.ID] = copyBudget(budget)
	return nil
}

// bumpSpent simulates a concurrent incremental writer winning a race: it
// mutates the stored budget directly and advances its version.
func (r *fakeBudgetRepo) bumpSpent(budgetID, categoryID string, delta string) {
	stored := r.budgets[budgetID]
	for i := range stored.Categories {
		if stored.Categories[i].ID == categoryID {
			stored.Categories[i].Spent = stored.Categories[i].Spent.Add(mustDecimal(delta))
		}
	}
	stored.Version++
}

type fakeAuditSink struct {
	records []*entity.AuditRecord
	err     error
}

func (s *fakeAuditSink) Record(_ context.Context, record *entity.AuditRecord) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

type fakeAlertSink struct {
	alerts []*entity.BudgetAlert
	err    error
}

func (s *fakeAlertSink) Save(_ context.Context, alert *entity.BudgetAlert) error {
	if s.err != nil {
		return s.err
	}
	s.alerts = append(s.alerts, alert)
	return nil
}

type fakeNotifier struct {
	notified []*entity.BudgetAlert
	err      error
}

func (n *fakeNotifier) Notify(_ context.Context, alert *entity.BudgetAlert) error {
	if n.err != nil {
		return n.err
	}
	n.notified = append(n.notified, alert)
	return nil
}

type fakeLedgerRepo struct {
	entries []*entity.LedgerEntry
	err     error
}

func (r *fakeLedgerRepo) FindExpensesByUserAndRange(_ context.Context, userID uuid.UUID, start, end time.Time) ([]*entity.LedgerEntry, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*entity.LedgerEntry
	for _, e := range r.entries {
		if e.UserID != userID || !e.IsExpense() {
			continue
		}
		if e.Date.Before(start) || !e.Date.Before(end) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type fakeLocker struct {
	lockCalls    int
	releaseCalls int
	err          error
}

func (l *fakeLocker) Lock(_ context.Context, _ string) (func(), error) {
	l.lockCalls++
	if l.err != nil {
		return nil, l.err
	}
	return func() { l.releaseCalls++ }, nil
}

var errSinkDown = errors.New("sink unavailable")

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// testBudget builds an active monthly budget for the user with the given
// categories and version 1.
func testBudget(userID uuid.UUID, categories ...entity.BudgetCategory) *entity.Budget {
	return &entity.Budget{
		ID:         "budget-1",
		UserID:     userID,
		Categories: categories,
		Period:     entity.BudgetPeriodMonthly,
		IsActive:   true,
		Version:    1,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
}

func expenseEntry(userID uuid.UUID, id, categoryID, amount string) *entity.LedgerEntry {
	return &entity.LedgerEntry{
		ID:         id,
		UserID:     userID,
		Type:       entity.EntryTypeExpense,
		Amount:     mustDecimal(amount),
		CategoryID: categoryID,
		Date:       time.Now().UTC(),
	}
}
