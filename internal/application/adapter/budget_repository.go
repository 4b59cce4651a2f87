// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/finance-tracker/consistency/internal/domain/entity"
)

// BudgetRepository defines the interface for budget persistence operations.
// Reads always come from the live projection, never from a cache, because
// impact math must see the current spent totals.
type BudgetRepository interface {
	// FindByID retrieves a budget by its id. Returns
	// domainerror.ErrBudgetNotFound when no such budget exists.
	FindByID(ctx context.Context, id string) (*entity.Budget, error)

	// FindActiveByUser retrieves the user's active budget. Returns
	// domainerror.ErrBudgetNotFound when the user has none.
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*entity.Budget, error)

	// Save writes the budget back conditional on its Version. Returns
	// domainerror.ErrVersionConflict when a concurrent writer won the race;
	// the caller is expected to reload, recompute and retry.
	Save(ctx context.Context, budget *entity.Budget) error
}
