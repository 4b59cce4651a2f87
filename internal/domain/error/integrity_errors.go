// Package error defines domain-specific errors for the consistency engine.
package error

import "errors"

// Referential-integrity errors.
var (
	// ErrMissingRequiredReference is returned when a required reference field is absent.
	ErrMissingRequiredReference = errors.New("missing required reference")

	// ErrUnresolvedReference is returned when a reference value does not resolve.
	ErrUnresolvedReference = errors.New("reference does not resolve")

	// ErrDeleteRestricted is returned when a restrict rule blocks a delete.
	ErrDeleteRestricted = errors.New("delete blocked by existing references")

	// ErrCascadeConflict is returned when a cascade batch encounters a restrict
	// violation that should have been pre-checked.
	ErrCascadeConflict = errors.New("cascade conflicts with restrict rule")

	// ErrBatchNotCommitted is returned when an atomic multi-document batch fails.
	ErrBatchNotCommitted = errors.New("batch not committed")
)

// IntegrityErrorCode defines error codes for referential-integrity errors.
// Format: REF-XXYYYY where XX is category and YYYY is specific error.
type IntegrityErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeMissingRequiredReference IntegrityErrorCode = "REF-010001"
	ErrCodeUnresolvedReference      IntegrityErrorCode = "REF-010002"
	ErrCodeStoreUnavailable         IntegrityErrorCode = "REF-010003"

	// Delete-time errors (02XXXX)
	ErrCodeDeleteRestricted  IntegrityErrorCode = "REF-020001"
	ErrCodeCascadeConflict   IntegrityErrorCode = "REF-020002"
	ErrCodeBatchNotCommitted IntegrityErrorCode = "REF-020003"
)

// IntegrityError represents a referential-integrity error with code and message.
type IntegrityError struct {
	Code    IntegrityErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *IntegrityError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *IntegrityError) Unwrap() error {
	return e.Err
}

// NewIntegrityError creates a new IntegrityError with the given code and message.
func NewIntegrityError(code IntegrityErrorCode, message string, err error) *IntegrityError {
	return &IntegrityError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
