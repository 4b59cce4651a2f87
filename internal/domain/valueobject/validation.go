// Package valueobject defines immutable value types shared across use cases.
package valueobject

// ValidationError is a hard referential-integrity failure. Its presence makes
// the enclosing result invalid and must block the caller's write or delete.
type ValidationError struct {
	Code       string
	Collection string
	DocumentID string
	Field      string
	Message    string
}

// ValidationWarning is a soft finding (e.g. an optional reference dangling).
// Warnings never affect validity; they exist for visibility and repair.
type ValidationWarning struct {
	Code       string
	Collection string
	DocumentID string
	Field      string
	Message    string
}

// OrphanedReference is a machine-actionable repair candidate: a stored
// reference value that no longer resolves to an existing target document.
// Produced whenever resolution fails, whether or not the field was required.
type OrphanedReference struct {
	SourceCollection string
	SourceDocumentID string
	SourceField      string
	InvalidReference string
	TargetCollection string
}

// ValidationResult is the outcome of validating one document or a whole
// collection. Error, warning and orphan ordering mirrors rule declaration
// order and is deterministic for unchanged backing data.
type ValidationResult struct {
	IsValid  bool
	Errors   []ValidationError
	Warnings []ValidationWarning
	Orphans  []OrphanedReference
}

// Merge folds another result into this one, recomputing validity.
func (r *ValidationResult) Merge(other *ValidationResult) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Orphans = append(r.Orphans, other.Orphans...)
	r.IsValid = len(r.Errors) == 0
}

// BlockingReference names a restrict rule that currently prevents a delete,
// with the number of source documents still referencing the target.
type BlockingReference struct {
	Collection string
	Field      string
	Count      int
}

// DeleteCheck is the answer to "can this document be deleted right now".
type DeleteCheck struct {
	CanDelete          bool
	BlockingReferences []BlockingReference
}

// AffectedAction is what a cascading delete would do to one document.
type AffectedAction string

const (
	// AffectedDelete marks a document for deletion under a cascade rule.
	AffectedDelete AffectedAction = "delete"
	// AffectedSetNull marks a document's referencing field for nulling.
	AffectedSetNull AffectedAction = "set_null"
)

// AffectedDocument is one entry in a cascading-delete plan.
type AffectedDocument struct {
	Collection string
	DocumentID string
	Field      string
	Action     AffectedAction
}

// CascadePlan is the result of planning or executing a cascading delete.
// When dry-running, AffectedDocuments is the plan and nothing was mutated.
// When executing, Committed reports whether the batch was applied; a batch
// is only ever applied whole.
type CascadePlan struct {
	AffectedDocuments []AffectedDocument
	Errors            []string
	Committed         bool
}

// RepairResult reports the outcome of an orphaned-reference repair batch.
// The batch is all-or-nothing: on failure Fixed is zero and every targeted
// document appears in Failed.
type RepairResult struct {
	Fixed  int
	Failed []string
	Errors []string
}
