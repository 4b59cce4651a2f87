// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/finance-tracker/consistency/internal/application/adapter"
	domainerror "github.com/finance-tracker/consistency/internal/domain/error"
	"github.com/finance-tracker/consistency/internal/integration/persistence/model"
)

// documentStore implements the adapter.DocumentStore interface over a single
// documents table. Collection scans decode and filter in memory: collections
// in this system are per-user sized and the engine's filters are equality
// predicates on a handful of fields.
type documentStore struct {
	db *gorm.DB
}

// NewDocumentStore creates a new document store instance.
func NewDocumentStore(db *gorm.DB) adapter.DocumentStore {
	return &documentStore{
		db: db,
	}
}

// Get retrieves a document by collection and id.
func (s *documentStore) Get(ctx context.Context, collection, id string) (*adapter.Document, error) {
	var docModel model.DocumentModel
	result := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		First(&docModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("%w: %v", domainerror.ErrStoreUnavailable, result.Error)
	}
	return toDocument(&docModel)
}

// Scan returns documents in a collection matching the filter, up to limit.
func (s *documentStore) Scan(ctx context.Context, collection string, filter adapter.FieldFilter, limit int) ([]*adapter.Document, error) {
	var docModels []model.DocumentModel
	result := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("doc_id ASC").
		Find(&docModels)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %v", domainerror.ErrStoreUnavailable, result.Error)
	}

	var docs []*adapter.Document
	for i := range docModels {
		doc, err := toDocument(&docModels[i])
		if err != nil {
			return nil, err
		}
		if !matchesFilter(doc.Fields, filter) {
			continue
		}
		docs = append(docs, doc)
		if limit > 0 && len(docs) == limit {
			break
		}
	}
	return docs, nil
}

// ApplyBatch applies all operations inside one database transaction: either
// every op commits or none does.
func (s *documentStore) ApplyBatch(ctx context.Context, ops []adapter.BatchOp) error {
	if len(ops) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range ops {
			if err := applyOp(tx, op); err != nil {
				return err
			}
		}
		return nil
	})
}

// Replace writes the document back conditional on its version and bumps it.
func (s *documentStore) Replace(ctx context.Context, doc *adapter.Document) error {
	data, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	result := s.db.WithContext(ctx).
		Model(&model.DocumentModel{}).
		Where("collection = ? AND doc_id = ? AND version = ?", doc.Collection, doc.ID, doc.Version).
		Updates(map[string]any{
			"data":       data,
			"version":    doc.Version + 1,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("%w: %v", domainerror.ErrStoreUnavailable, result.Error)
	}
	if result.RowsAffected == 0 {
		// Distinguish a lost race from a missing document.
		var count int64
		if err := s.db.WithContext(ctx).
			Model(&model.DocumentModel{}).
			Where("collection = ? AND doc_id = ?", doc.Collection, doc.ID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("%w: %v", domainerror.ErrStoreUnavailable, err)
		}
		if count == 0 {
			return domainerror.ErrDocumentNotFound
		}
		return domainerror.ErrVersionConflict
	}

	doc.Version++
	return nil
}

func applyOp(tx *gorm.DB, op adapter.BatchOp) error {
	switch op.Kind {
	case adapter.BatchOpSet:
		return applySet(tx, op)
	case adapter.BatchOpUpdate:
		return applyUpdate(tx, op)
	case adapter.BatchOpDelete:
		// Deleting an already-absent document is a no-op, not a failure.
		return tx.
			Where("collection = ? AND doc_id = ?", op.Collection, op.ID).
			Delete(&model.DocumentModel{}).Error
	default:
		return fmt.Errorf("unknown batch op kind %q", op.Kind)
	}
}

func applySet(tx *gorm.DB, op adapter.BatchOp) error {
	data, err := json.Marshal(op.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	var existing model.DocumentModel
	result := tx.Where("collection = ? AND doc_id = ?", op.Collection, op.ID).First(&existing)
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}
		return tx.Create(&model.DocumentModel{
			Collection: op.Collection,
			DocID:      op.ID,
			Data:       data,
			Version:    1,
			UpdatedAt:  time.Now().UTC(),
		}).Error
	}

	return tx.Model(&model.DocumentModel{}).
		Where("collection = ? AND doc_id = ?", op.Collection, op.ID).
		Updates(map[string]any{
			"data":       data,
			"version":    existing.Version + 1,
			"updated_at": time.Now().UTC(),
		}).Error
}

func applyUpdate(tx *gorm.DB, op adapter.BatchOp) error {
	var existing model.DocumentModel
	result := tx.Where("collection = ? AND doc_id = ?", op.Collection, op.ID).First(&existing)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return fmt.Errorf("cannot update %s/%s: %w", op.Collection, op.ID, domainerror.ErrDocumentNotFound)
		}
		return result.Error
	}

	fields := map[string]any{}
	if len(existing.Data) > 0 {
		if err := json.Unmarshal(existing.Data, &fields); err != nil {
			return fmt.Errorf("failed to decode document %s/%s: %w", op.Collection, op.ID, err)
		}
	}
	for k, v := range op.Fields {
		fields[k] = v
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	return tx.Model(&model.DocumentModel{}).
		Where("collection = ? AND doc_id = ?", op.Collection, op.ID).
		Updates(map[string]any{
			"data":       data,
			"version":    existing.Version + 1,
			"updated_at": time.Now().UTC(),
		}).Error
}

func toDocument(m *model.DocumentModel) (*adapter.Document, error) {
	fields := map[string]any{}
	if len(m.Data) > 0 {
		if err := json.Unmarshal(m.Data, &fields); err != nil {
			return nil, fmt.Errorf("failed to decode document %s/%s: %w", m.Collection, m.DocID, err)
		}
	}
	return &adapter.Document{
		Collection: m.Collection,
		ID:         m.DocID,
		Fields:     fields,
		Version:    m.Version,
	}, nil
}

// matchesFilter applies field-equality predicates. Both sides are normalized
// through JSON so that values seeded as Go types compare equal to values
// decoded from stored JSON.
func matchesFilter(fields map[string]any, filter adapter.FieldFilter) bool {
	for field, want := range filter {
		got, ok := fields[field]
		if !ok {
			return false
		}
		wantJSON, err := json.Marshal(want)
		if err != nil {
			return false
		}
		gotJSON, err := json.Marshal(got)
		if err != nil {
			return false
		}
		if !bytes.Equal(wantJSON, gotJSON) {
			return false
		}
	}
	return true
}
