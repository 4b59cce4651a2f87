// Package integrity contains referential-integrity use cases: document and
// collection validation, delete-eligibility checks, cascading deletes and
// orphan repair over the schemaless document store.
package integrity

import (
	"context"
	"errors"
	"fmt"

	"github.com/finance-tracker/consistency/internal/application/adapter"
	domainerror "github.com/finance-tracker/consistency/internal/domain/error"
	"github.com/finance-tracker/consistency/internal/domain/rules"
	"github.com/finance-tracker/consistency/internal/domain/valueobject"
)

// ValidateDocumentInput represents the input for single-document validation.
type ValidateDocumentInput struct {
	Collection string
	DocumentID string
	Fields     map[string]any
}

// ValidateDocumentUseCase validates one document's references against the
// rule registry.
type ValidateDocumentUseCase struct {
	registry *rules.Registry
	store    adapter.DocumentStore
}

// NewValidateDocumentUseCase creates a new ValidateDocumentUseCase instance.
func NewValidateDocumentUseCase(registry *rules.Registry, store adapter.DocumentStore) *ValidateDocumentUseCase {
	return &ValidateDocumentUseCase{
		registry: registry,
		store:    store,
	}
}

// Execute validates every reference the registry declares for the document's
// collection, in declaration order. Result ordering mirrors rule order.
func (uc *ValidateDocumentUseCase) Execute(ctx context.Context, input ValidateDocumentInput) *valueobject.ValidationResult {
	result := &valueobject.ValidationResult{IsValid: true}

	for _, rule := range uc.registry.BySource(input.Collection) {
		ref, present := referenceValue(input.Fields, rule.SourceField)
		if !present {
			if rule.Required {
				result.Errors = append(result.Errors, valueobject.ValidationError{
					Code:       string(domainerror.ErrCodeMissingRequiredReference),
					Collection: input.Collection,
					DocumentID: input.DocumentID,
					Field:      rule.SourceField,
					Message:    fmt.Sprintf("required reference %s.%s is missing", input.Collection, rule.SourceField),
				})
			}
			// Do not attempt resolution for an absent field.
			continue
		}

		_, err := uc.store.Get(ctx, rule.TargetCollection, ref)
		switch {
		case err == nil:
			// Reference resolves.
		case errors.Is(err, domainerror.ErrDocumentNotFound):
			result.Orphans = append(result.Orphans, valueobject.OrphanedReference{
				SourceCollection: input.Collection,
				SourceDocumentID: input.DocumentID,
				SourceField:      rule.SourceField,
				InvalidReference: ref,
				TargetCollection: rule.TargetCollection,
			})
			if rule.Required {
				result.Errors = append(result.Errors, valueobject.ValidationError{
					Code:       string(domainerror.ErrCodeUnresolvedReference),
					Collection: input.Collection,
					DocumentID: input.DocumentID,
					Field:      rule.SourceField,
					Message:    fmt.Sprintf("reference %q does not resolve into %s", ref, rule.TargetCollection),
				})
			} else {
				result.Warnings = append(result.Warnings, valueobject.ValidationWarning{
					Code:       string(domainerror.ErrCodeUnresolvedReference),
					Collection: input.Collection,
					DocumentID: input.DocumentID,
					Field:      rule.SourceField,
					Message:    fmt.Sprintf("optional reference %q does not resolve into %s", ref, rule.TargetCollection),
				})
			}
		default:
			// A lookup failure is not "does not exist".
			result.Errors = append(result.Errors, valueobject.ValidationError{
				Code:       string(domainerror.ErrCodeStoreUnavailable),
				Collection: input.Collection,
				DocumentID: input.DocumentID,
				Field:      rule.SourceField,
				Message:    fmt.Sprintf("could not resolve reference into %s: %v", rule.TargetCollection, err),
			})
		}
	}

	result.IsValid = len(result.Errors) == 0
	return result
}

// referenceValue extracts a reference string from a document field. Nil
// values and empty strings count as absent.
func referenceValue(fields map[string]any, field string) (string, bool) {
	raw, ok := fields[field]
	if !ok || raw == nil {
		return "", false
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
