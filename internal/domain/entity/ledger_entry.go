// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType represents the type of a ledger entry.
type EntryType string

const (
	EntryTypeIncome    EntryType = "income"
	EntryTypeExpense   EntryType = "expense"
	EntryTypeAsset     EntryType = "asset"
	EntryTypeLiability EntryType = "liability"
)

// LedgerEntry represents a single money-movement record in the transaction
// ledger. The ledger is the source of truth that budget aggregates are
// derived from; entries are produced by collaborators outside this core.
type LedgerEntry struct {
	ID          string
	UserID      uuid.UUID
	Type        EntryType
	Amount      decimal.Decimal // Always non-negative; Type carries the sign semantics
	CategoryID  string          // Free-form transaction category id (e.g. "groceries")
	Description string
	Date        time.Time
}

// IsExpense reports whether the entry affects budget spending.
func (e *LedgerEntry) IsExpense() bool {
	return e.Type == EntryTypeExpense
}

// ValidEntryType reports whether the given type is one of the known ledger
// entry types.
func ValidEntryType(t EntryType) bool {
	switch t {
	case EntryTypeIncome, EntryTypeExpense, EntryTypeAsset, EntryTypeLiability:
		return true
	}
	return false
}
