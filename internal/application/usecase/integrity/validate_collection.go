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

// ValidateCollectionInput represents the input for collection-wide validation.
type ValidateCollectionInput struct {
	Collection string
	// Limit caps how many documents are scanned; 0 scans the whole collection.
	Limit int
}

// ValidateCollectionUseCase validates every document in a collection and
// accumulates the findings.
type ValidateCollectionUseCase struct {
	validateDocument *ValidateDocumentUseCase
	store            adapter.DocumentStore
}

// NewValidateCollectionUseCase creates a new ValidateCollectionUseCase instance.
func NewValidateCollectionUseCase(registry *rules.Registry, store adapter.DocumentStore) *ValidateCollectionUseCase {
	return &ValidateCollectionUseCase{
		validateDocument: NewValidateDocumentUseCase(registry, store),
		store:            store,
	}
}

// Execute scans the collection and applies the per-document validator to each
// document. A single document's findings never abort the scan; only a
// connectivity failure does, reported as one collection-level error with an
// empty document id.
func (uc *ValidateCollectionUseCase) Execute(ctx context.Context, input ValidateCollectionInput) *valueobject.ValidationResult {
	result := &valueobject.ValidationResult{IsValid: true}

	docs, err := uc.store.Scan(ctx, input.Collection, nil, input.Limit)
	if err != nil {
		result.IsValid = false
		result.Errors = append(result.Errors, valueobject.ValidationError{
			Code:       string(domainerror.ErrCodeStoreUnavailable),
			Collection: input.Collection,
			DocumentID: "",
			Message:    fmt.Sprintf("could not scan collection: %v", err),
		})
		return result
	}

	for _, doc := range docs {
		docResult := uc.validateDocument.Execute(ctx, ValidateDocumentInput{
			Collection: input.Collection,
			DocumentID: doc.ID,
			Fields:     doc.Fields,
		})
		result.Merge(docResult)
	}

	slog.Debug("Collection integrity scan finished",
		"collection", input.Collection,
		"documents", len(docs),
		"errors", len(result.Errors),
		"warnings", len(result.Warnings),
		"orphans", len(result.Orphans),
	)

	return result
}
