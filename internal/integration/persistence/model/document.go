// Package model defines database models for persistence layer.
package model

import (
	"time"
)

// DocumentModel represents the documents table: one row per document, the
// schemaless payload serialized as JSON in Data. Version backs optimistic
// concurrency on replace.
type DocumentModel struct {
	Collection string `gorm:"primaryKey;type:varchar(64)"`
	DocID      string `gorm:"primaryKey;column:doc_id;type:varchar(128)"`
	Data       []byte `gorm:"not null"`
	Version    int64  `gorm:"not null;default:1"`
	UpdatedAt  time.Time
}

// TableName returns the table name for the DocumentModel.
func (DocumentModel) TableName() string {
	return "documents"
}
