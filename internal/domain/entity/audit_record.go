// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the kind of mutation an audit record describes.
type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
)

// AuditRecord is a tamper-evident record of one aggregate mutation performed
// by the consistency engine.
type AuditRecord struct {
	ID        string
	Action    AuditAction
	UserID    uuid.UUID
	EntityID  string
	Metadata  map[string]any
	Timestamp time.Time
}

// NewAuditRecord creates a new AuditRecord entity.
func NewAuditRecord(action AuditAction, userID uuid.UUID, entityID string, metadata map[string]any) *AuditRecord {
	return &AuditRecord{
		ID:        uuid.NewString(),
		Action:    action,
		UserID:    userID,
		EntityID:  entityID,
		Metadata:  metadata,
		Timestamp: time.Now().UTC(),
	}
}
