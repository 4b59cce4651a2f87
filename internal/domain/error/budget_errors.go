// Package error defines domain-specific errors for the consistency engine.
package error

import "errors"

// Budget domain errors.
var (
	// ErrBudgetNotFound is returned when no budget matches the lookup.
	ErrBudgetNotFound = errors.New("budget not found")

	// ErrBudgetCategoryNotFound is returned when a budget has no category with the given id.
	ErrBudgetCategoryNotFound = errors.New("budget category not found")

	// ErrBudgetLockNotObtained is returned when the per-budget lock could not be acquired.
	ErrBudgetLockNotObtained = errors.New("budget lock not obtained")

	// ErrSpendUpdateConflict is returned when an optimistic spend update keeps
	// losing the version race after its retry budget is exhausted.
	ErrSpendUpdateConflict = errors.New("budget spend update conflict")

	// ErrInvalidPreviewInput is returned when a preview request is malformed.
	ErrInvalidPreviewInput = errors.New("invalid preview input")
)

// BudgetErrorCode defines error codes for budget consistency errors.
// Format: BDG-XXYYYY where XX is category and YYYY is specific error.
type BudgetErrorCode string

const (
	// Lookup errors (01XXXX)
	ErrCodeBudgetNotFound         BudgetErrorCode = "BDG-010001"
	ErrCodeBudgetCategoryNotFound BudgetErrorCode = "BDG-010002"

	// Concurrency errors (02XXXX)
	ErrCodeBudgetLockNotObtained BudgetErrorCode = "BDG-020001"
	ErrCodeSpendUpdateConflict   BudgetErrorCode = "BDG-020002"

	// Input errors (03XXXX)
	ErrCodeInvalidPreviewInput BudgetErrorCode = "BDG-030001"
)

// BudgetError represents a budget consistency error with code and message.
type BudgetError struct {
	Code    BudgetErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *BudgetError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *BudgetError) Unwrap() error {
	return e.Err
}

// NewBudgetError creates a new BudgetError with the given code and message.
func NewBudgetError(code BudgetErrorCode, message string, err error) *BudgetError {
	return &BudgetError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
