// Package error defines domain-specific errors for the consistency engine.
package error

import "errors"

// Document store errors.
var (
	// ErrDocumentNotFound is returned when a document does not exist in the store.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrStoreUnavailable is returned when the document store cannot be reached.
	// It is distinct from ErrDocumentNotFound: a lookup failure must never be
	// interpreted as "does not exist".
	ErrStoreUnavailable = errors.New("document store unavailable")

	// ErrVersionConflict is returned when an optimistic replace observes a
	// version other than the one it read.
	ErrVersionConflict = errors.New("document version conflict")
)
