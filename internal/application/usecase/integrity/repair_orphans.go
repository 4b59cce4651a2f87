// Package integrity contains referential-integrity use cases.
package integrity

import (
	"context"
	"log/slog"

	"github.com/finance-tracker/consistency/internal/application/adapter"
	"github.com/finance-tracker/consistency/internal/domain/valueobject"
)

// RepairOrphansInput represents the input for an orphan-repair batch.
type RepairOrphansInput struct {
	Orphans []valueobject.OrphanedReference
	// DefaultValues maps a source field name to the value that replaces its
	// dangling reference. Fields without a default are set to null.
	DefaultValues map[string]any
}

// RepairOrphansUseCase repairs dangling references in a single atomic batch.
// This is a best-effort maintenance tool invoked out-of-band, not part of the
// live write path.
type RepairOrphansUseCase struct {
	store adapter.DocumentStore
}

// NewRepairOrphansUseCase creates a new RepairOrphansUseCase instance.
func NewRepairOrphansUseCase(store adapter.DocumentStore) *RepairOrphansUseCase {
	return &RepairOrphansUseCase{
		store: store,
	}
}

// Execute sets every orphan's dangling field to its default (or null) in one
// batch. On batch failure the fixed count rolls back to zero and every
// targeted document is reported failed; there is no partial credit.
func (uc *RepairOrphansUseCase) Execute(ctx context.Context, input RepairOrphansInput) *valueobject.RepairResult {
	result := &valueobject.RepairResult{}
	if len(input.Orphans) == 0 {
		return result
	}

	ops := make([]adapter.BatchOp, 0, len(input.Orphans))
	for _, orphan := range input.Orphans {
		value, ok := input.DefaultValues[orphan.SourceField]
		if !ok {
			value = nil
		}
		ops = append(ops, adapter.BatchOp{
			Kind:       adapter.BatchOpUpdate,
			Collection: orphan.SourceCollection,
			ID:         orphan.SourceDocumentID,
			Fields:     map[string]any{orphan.SourceField: value},
		})
	}

	if err := uc.store.ApplyBatch(ctx, ops); err != nil {
		for _, orphan := range input.Orphans {
			result.Failed = append(result.Failed, orphan.SourceDocumentID)
		}
		result.Errors = append(result.Errors, err.Error())

		slog.Error("Orphan repair batch failed",
			"orphans", len(input.Orphans),
			"error", err,
		)
		return result
	}

	result.Fixed = len(input.Orphans)
	return result
}
