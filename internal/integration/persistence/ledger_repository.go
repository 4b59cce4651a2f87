// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/consistency/internal/application/adapter"
	"github.com/finance-tracker/consistency/internal/domain/entity"
	"github.com/finance-tracker/consistency/internal/domain/rules"
)

// ledgerEntryDocument is the wire shape of a ledger entry in the document
// store. Entries are written by collaborators outside this core; the engine
// only reads them.
type ledgerEntryDocument struct {
	UserID      string          `json:"userId"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	CategoryID  string          `json:"categoryId"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

// ledgerRepository implements adapter.LedgerRepository over the document store.
type ledgerRepository struct {
	store adapter.DocumentStore
}

// NewLedgerRepository creates a new ledger repository instance.
func NewLedgerRepository(store adapter.DocumentStore) adapter.LedgerRepository {
	return &ledgerRepository{
		store: store,
	}
}

// FindExpensesByUserAndRange retrieves all expense entries for the user whose
// date falls in [start, end).
func (r *ledgerRepository) FindExpensesByUserAndRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*entity.LedgerEntry, error) {
	docs, err := r.store.Scan(ctx, rules.CollectionTransactions, adapter.FieldFilter{
		"userId": userID.String(),
		"type":   string(entity.EntryTypeExpense),
	}, 0)
	if err != nil {
		return nil, err
	}

	var entries []*entity.LedgerEntry
	for _, doc := range docs {
		entry, err := ledgerEntryFromDocument(doc)
		if err != nil {
			return nil, err
		}
		if entry.Date.Before(start) || !entry.Date.Before(end) {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func ledgerEntryFromDocument(doc *adapter.Document) (*entity.LedgerEntry, error) {
	var entryDoc ledgerEntryDocument
	if err := fieldsToStruct(doc.Fields, &entryDoc); err != nil {
		return nil, fmt.Errorf("failed to decode ledger entry %s: %w", doc.ID, err)
	}

	userID, err := uuid.Parse(entryDoc.UserID)
	if err != nil {
		return nil, fmt.Errorf("ledger entry %s has invalid userId: %w", doc.ID, err)
	}

	return &entity.LedgerEntry{
		ID:          doc.ID,
		UserID:      userID,
		Type:        entity.EntryType(entryDoc.Type),
		Amount:      entryDoc.Amount,
		CategoryID:  entryDoc.CategoryID,
		Description: entryDoc.Description,
		Date:        entryDoc.Date,
	}, nil
}
