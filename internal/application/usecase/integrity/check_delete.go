// Package integrity contains referential-integrity use cases.
package integrity

import (
	"context"
	"fmt"

	"github.com/finance-tracker/consistency/internal/application/adapter"
	domainerror "github.com/finance-tracker/consistency/internal/domain/error"
	"github.com/finance-tracker/consistency/internal/domain/rules"
	"github.com/finance-tracker/consistency/internal/domain/valueobject"
)

// CheckDeleteInput represents the input for a delete-eligibility check.
type CheckDeleteInput struct {
	Collection string
	DocumentID string
}

// CheckDeleteUseCase answers whether a document may be deleted under the
// restrict rules that target its collection.
//
// Caller contract: this use case MUST be called, and MUST return
// CanDelete=true, before a delete of any document that participates as a
// restrict target. The store has no triggers; nothing enforces this
// automatically.
type CheckDeleteUseCase struct {
	registry *rules.Registry
	store    adapter.DocumentStore
}

// NewCheckDeleteUseCase creates a new CheckDeleteUseCase instance.
func NewCheckDeleteUseCase(registry *rules.Registry, store adapter.DocumentStore) *CheckDeleteUseCase {
	return &CheckDeleteUseCase{
		registry: registry,
		store:    store,
	}
}

// Execute finds every restrict rule targeting the collection and counts the
// source documents still referencing the id. Any non-zero count blocks the
// delete.
func (uc *CheckDeleteUseCase) Execute(ctx context.Context, input CheckDeleteInput) (*valueobject.DeleteCheck, error) {
	check := &valueobject.DeleteCheck{CanDelete: true}

	for _, rule := range uc.registry.ByTargetPolicy(input.Collection, rules.DeleteRestrict) {
		referencing, err := uc.store.Scan(ctx, rule.SourceCollection,
			adapter.FieldFilter{rule.SourceField: input.DocumentID}, 0)
		if err != nil {
			return nil, domainerror.NewIntegrityError(
				domainerror.ErrCodeStoreUnavailable,
				fmt.Sprintf("could not query %s for references", rule.SourceCollection),
				err,
			)
		}

		if len(referencing) > 0 {
			check.CanDelete = false
			check.BlockingReferences = append(check.BlockingReferences, valueobject.BlockingReference{
				Collection: rule.SourceCollection,
				Field:      rule.SourceField,
				Count:      len(referencing),
			})
		}
	}

	return check, nil
}
