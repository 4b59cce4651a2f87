// Package integrity contains referential-integrity use cases.
package integrity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/finance-tracker/consistency/internal/application/adapter"
	domainerror "github.com/finance-tracker/consistency/internal/domain/error"
	"github.com/finance-tracker/consistency/internal/domain/rules"
	"github.com/finance-tracker/consistency/internal/domain/valueobject"
)

// CascadingDeleteInput represents the input for a cascading delete.
type CascadingDeleteInput struct {
	Collection string
	DocumentID string
	// DryRun plans the cascade without mutating anything. This is the
	// required mode for confirmation UIs.
	DryRun bool
}

// CascadingDeleteUseCase plans and executes policy-driven deletion of a
// document and its dependents.
type CascadingDeleteUseCase struct {
	registry *rules.Registry
	store    adapter.DocumentStore
}

// NewCascadingDeleteUseCase creates a new CascadingDeleteUseCase instance.
func NewCascadingDeleteUseCase(registry *rules.Registry, store adapter.DocumentStore) *CascadingDeleteUseCase {
	return &CascadingDeleteUseCase{
		registry: registry,
		store:    store,
	}
}

// Execute resolves every rule targeting the collection and applies its
// delete policy to the referencing documents: cascade marks them for
// deletion, set_null marks the referencing field for nulling, restrict
// collects an error. Restrict cases should have been pre-empted by
// CheckDeleteUseCase; they are still defended against here.
//
// With DryRun the affected-document plan is returned and nothing is written.
// Otherwise all mutations, including the target's own delete, form a single
// atomic batch that commits only if no restrict violation was found.
func (uc *CascadingDeleteUseCase) Execute(ctx context.Context, input CascadingDeleteInput) (*valueobject.CascadePlan, error) {
	plan := &valueobject.CascadePlan{}
	var ops []adapter.BatchOp

	for _, rule := range uc.registry.ByTarget(input.Collection) {
		referencing, err := uc.store.Scan(ctx, rule.SourceCollection,
			adapter.FieldFilter{rule.SourceField: input.DocumentID}, 0)
		if err != nil {
			return nil, domainerror.NewIntegrityError(
				domainerror.ErrCodeStoreUnavailable,
				fmt.Sprintf("could not query %s for references", rule.SourceCollection),
				err,
			)
		}

		for _, doc := range referencing {
			switch rule.OnDelete {
			case rules.DeleteCascade:
				plan.AffectedDocuments = append(plan.AffectedDocuments, valueobject.AffectedDocument{
					Collection: rule.SourceCollection,
					DocumentID: doc.ID,
					Field:      rule.SourceField,
					Action:     valueobject.AffectedDelete,
				})
				ops = append(ops, adapter.BatchOp{
					Kind:       adapter.BatchOpDelete,
					Collection: rule.SourceCollection,
					ID:         doc.ID,
				})
			case rules.DeleteSetNull:
				plan.AffectedDocuments = append(plan.AffectedDocuments, valueobject.AffectedDocument{
					Collection: rule.SourceCollection,
					DocumentID: doc.ID,
					Field:      rule.SourceField,
					Action:     valueobject.AffectedSetNull,
				})
				ops = append(ops, adapter.BatchOp{
					Kind:       adapter.BatchOpUpdate,
					Collection: rule.SourceCollection,
					ID:         doc.ID,
					Fields:     map[string]any{rule.SourceField: nil},
				})
			case rules.DeleteRestrict:
				plan.Errors = append(plan.Errors, fmt.Sprintf(
					"restrict rule blocks delete: %s/%s still references %s/%s via %s",
					rule.SourceCollection, doc.ID, input.Collection, input.DocumentID, rule.SourceField,
				))
			}
		}
	}

	if input.DryRun {
		return plan, nil
	}

	if len(plan.Errors) > 0 {
		// A restrict violation taints the whole batch; nothing is applied.
		slog.Warn("Cascading delete aborted by restrict rule",
			"collection", input.Collection,
			"documentID", input.DocumentID,
			"violations", len(plan.Errors),
		)
		return plan, nil
	}

	ops = append(ops, adapter.BatchOp{
		Kind:       adapter.BatchOpDelete,
		Collection: input.Collection,
		ID:         input.DocumentID,
	})

	if err := uc.store.ApplyBatch(ctx, ops); err != nil {
		return nil, domainerror.NewIntegrityError(
			domainerror.ErrCodeBatchNotCommitted,
			"cascading delete batch was not committed",
			err,
		)
	}

	plan.Committed = true
	cascadeBatchesTotal.WithLabelValues("committed").Inc()
	return plan, nil
}
