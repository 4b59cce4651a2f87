// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
)

// Document is a schemaless record from the document store. Fields holds the
// raw payload; Version supports optimistic concurrency on replace.
type Document struct {
	Collection string
	ID         string
	Fields     map[string]any
	Version    int64
}

// FieldFilter is a conjunction of field-equality predicates applied to a
// collection scan. A nil filter matches every document.
type FieldFilter map[string]any

// BatchOpKind is the kind of mutation inside an atomic batch.
type BatchOpKind string

const (
	// BatchOpSet creates or fully replaces a document.
	BatchOpSet BatchOpKind = "set"
	// BatchOpUpdate merges the given fields into an existing document.
	// A nil field value clears the field.
	BatchOpUpdate BatchOpKind = "update"
	// BatchOpDelete removes a document.
	BatchOpDelete BatchOpKind = "delete"
)

// BatchOp is one mutation inside an atomic multi-document batch.
type BatchOp struct {
	Kind       BatchOpKind
	Collection string
	ID         string
	Fields     map[string]any // Set/Update payload; ignored for Delete
}

// DocumentStore is the persistence collaborator of the consistency engine:
// point reads, filtered collection scans, atomic multi-document batches, and
// version-conditional replace.
type DocumentStore interface {
	// Get retrieves a document by collection and id. Returns
	// domainerror.ErrDocumentNotFound when the document does not exist and
	// domainerror.ErrStoreUnavailable when the store cannot be reached; the
	// two are never conflated.
	Get(ctx context.Context, collection, id string) (*Document, error)

	// Scan returns documents in a collection matching the filter, up to limit
	// (0 means no limit).
	Scan(ctx context.Context, collection string, filter FieldFilter, limit int) ([]*Document, error)

	// ApplyBatch applies all operations atomically: either every op commits
	// or none does. Partial application is not permitted.
	ApplyBatch(ctx context.Context, ops []BatchOp) error

	// Replace writes the document back conditional on its Version still being
	// current, and bumps the stored version. Returns
	// domainerror.ErrVersionConflict when another writer got there first.
	Replace(ctx context.Context, doc *Document) error
}
