// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/finance-tracker/consistency/internal/domain/entity"
)

// AuditSink persists a tamper-evident record of every aggregate mutation the
// consistency engine makes. Sink failures are logged by the caller and never
// propagated: the primary mutation has already committed.
type AuditSink interface {
	// Record persists one audit record.
	Record(ctx context.Context, record *entity.AuditRecord) error
}
