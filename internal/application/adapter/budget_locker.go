// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
)

// BudgetLocker serializes whole-budget rewrites (full reconciliation)
// against concurrent incremental writers. Incremental spend updates rely on
// optimistic versioning instead and do not take this lock.
type BudgetLocker interface {
	// Lock acquires an exclusive lock for the budget and returns a release
	// function. Returns domainerror.ErrBudgetLockNotObtained when the lock is
	// held elsewhere.
	Lock(ctx context.Context, budgetID string) (release func(), err error)
}
