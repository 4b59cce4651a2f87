// Package rules declares the referential-integrity rules between document
// collections and provides indexed lookup over them. The document store is
// schemaless and has no native constraints; these rules are the only
// description of foreign-key semantics the application has.
package rules

// DeletePolicy is the propagation policy applied to a referencing document
// when its referenced target is deleted.
type DeletePolicy string

const (
	// DeleteCascade deletes the referencing documents along with the target.
	DeleteCascade DeletePolicy = "cascade"
	// DeleteRestrict blocks the delete while references exist.
	DeleteRestrict DeletePolicy = "restrict"
	// DeleteSetNull nulls out the referencing field.
	DeleteSetNull DeletePolicy = "set_null"
)

// ReferenceRule declares one directed integrity edge: documents in
// SourceCollection hold, in SourceField, the id of a document in
// TargetCollection. Rules are immutable, declared once at startup.
type ReferenceRule struct {
	SourceCollection string
	SourceField      string
	TargetCollection string
	OnDelete         DeletePolicy
	// Required marks the field as mandatory: it must be present and must
	// resolve. Absence of a non-required field is not an error.
	Required bool
}
