// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"time"

	"github.com/finance-tracker/consistency/internal/application/adapter"
	"github.com/finance-tracker/consistency/internal/domain/entity"
	"github.com/finance-tracker/consistency/internal/domain/rules"
)

// auditRecordDocument is the wire shape of an audit record.
type auditRecordDocument struct {
	Action    string         `json:"action"`
	UserID    string         `json:"userId"`
	EntityID  string         `json:"entityId"`
	Metadata  map[string]any `json:"metadata"`
	Timestamp time.Time      `json:"timestamp"`
}

// auditRepository implements adapter.AuditSink over the document store.
type auditRepository struct {
	store adapter.DocumentStore
}

// NewAuditRepository creates a new audit sink backed by the document store.
func NewAuditRepository(store adapter.DocumentStore) adapter.AuditSink {
	return &auditRepository{
		store: store,
	}
}

// Record persists one audit record. Records are append-only; nothing in this
// core ever updates or deletes them.
func (r *auditRepository) Record(ctx context.Context, record *entity.AuditRecord) error {
	fields, err := structToFields(auditRecordDocument{
		Action:    string(record.Action),
		UserID:    record.UserID.String(),
		EntityID:  record.EntityID,
		Metadata:  record.Metadata,
		Timestamp: record.Timestamp,
	})
	if err != nil {
		return err
	}

	return r.store.ApplyBatch(ctx, []adapter.BatchOp{{
		Kind:       adapter.BatchOpSet,
		Collection: rules.CollectionAuditLog,
		ID:         record.ID,
		Fields:     fields,
	}})
}
