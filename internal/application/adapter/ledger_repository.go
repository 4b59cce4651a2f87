// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/consistency/internal/domain/entity"
)

// LedgerRepository defines read access to the transaction ledger. The engine
// never writes ledger entries; it only derives budget aggregates from them.
type LedgerRepository interface {
	// FindExpensesByUserAndRange retrieves all expense entries for the user
	// whose date falls in [start, end).
	FindExpensesByUserAndRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*entity.LedgerEntry, error)
}
