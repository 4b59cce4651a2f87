// Package integrity contains referential-integrity use cases.
package integrity

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/finance-tracker/consistency/internal/application/adapter"
	domainerror "github.com/finance-tracker/consistency/internal/domain/error"
)

// fakeStore is an in-memory DocumentStore for tests. Mutations inside a
// batch are staged and either commit together or not at all, mirroring the
// contract of the real store.
type fakeStore struct {
	docs map[string]map[string]map[string]any // collection -> id -> fields

	getCalls  int
	scanCalls int
	batches   [][]adapter.BatchOp

	failGet   bool
	failScan  bool
	failBatch bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		docs: make(map[string]map[string]map[string]any),
	}
}

func (s *fakeStore) put(collection, id string, fields map[string]any) {
	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string]map[string]any)
	}
	s.docs[collection][id] = fields
}

func (s *fakeStore) Get(_ context.Context, collection, id string) (*adapter.Document, error) {
	s.getCalls++
	if s.failGet {
		return nil, fmt.Errorf("%w: connection refused", domainerror.ErrStoreUnavailable)
	}
	fields, ok := s.docs[collection][id]
	if !ok {
		return nil, domainerror.ErrDocumentNotFound
	}
	return &adapter.Document{Collection: collection, ID: id, Fields: fields, Version: 1}, nil
}

func (s *fakeStore) Scan(_ context.Context, collection string, filter adapter.FieldFilter, limit int) ([]*adapter.Document, error) {
	s.scanCalls++
	if s.failScan {
		return nil, fmt.Errorf("%w: connection refused", domainerror.ErrStoreUnavailable)
	}

	ids := make([]string, 0, len(s.docs[collection]))
	for id := range s.docs[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []*adapter.Document
	for _, id := range ids {
		fields := s.docs[collection][id]
		match := true
		for key, want := range filter {
			if fields[key] != want {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		out = append(out, &adapter.Document{Collection: collection, ID: id, Fields: fields, Version: 1})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *fakeStore) ApplyBatch(_ context.Context, ops []adapter.BatchOp) error {
	if s.failBatch {
		return errors.New("transaction aborted")
	}

	// Stage against a copy so a mid-batch failure leaves nothing applied.
	staged := make(map[string]map[string]map[string]any, len(s.docs))
	for collection, docs := range s.docs {
		staged[collection] = make(map[string]map[string]any, len(docs))
		for id, fields := range docs {
			copied := make(map[string]any, len(fields))
			for k, v := range fields {
				copied[k] = v
			}
			staged[collection][id] = copied
		}
	}

	for _, op := range ops {
		if staged[op.Collection] == nil {
			staged[op.Collection] = make(map[string]map[string]any)
		}
		switch op.Kind {
		case adapter.BatchOpSet:
			staged[op.Collection][op.ID] = op.Fields
		case adapter.BatchOpUpdate:
			existing, ok := staged[op.Collection][op.ID]
			if !ok {
				return fmt.Errorf("update of missing document %s/%s", op.Collection, op.ID)
			}
			for k, v := range op.Fields {
				existing[k] = v
			}
		case adapter.BatchOpDelete:
			delete(staged[op.Collection], op.ID)
		}
	}

	s.docs = staged
	s.batches = append(s.batches, ops)
	return nil
}

func (s *fakeStore) Replace(_ context.Context, doc *adapter.Document) error {
	if _, ok := s.docs[doc.Collection][doc.ID]; !ok {
		return domainerror.ErrDocumentNotFound
	}
	s.put(doc.Collection, doc.ID, doc.Fields)
	doc.Version++
	return nil
}

var _ adapter.DocumentStore = (*fakeStore)(nil)
