package mocks

import (
	"context"

	"github.com/hongxu0218/petcare/internal/domain/entities"
)

// VectorDB is a mock implementation of ports.VectorDB and ports.CollectionManager.
type VectorDB struct {
	Entries []entities.FAQEntry // returned by Search, appended to by SaveBatch
	Err     error

	// Collection errors (separate from Err for fine-grained control)
	EnsureCollectionErr error
	DeleteCollectionErr error

	// Call tracking
	SaveBatchCallCount        int
	SaveBatchLastEntries      []entities.FAQEntry
	EnsureCollectionCallCount int
	EnsureCollectionLastSize  uint64
	DeleteCollectionCallCount int
	SearchLastLimit           int
	SearchLastCategory        string
	DeletedSources            []string
}

// EnsureCollection creates the collection if it doesn't exist.
func (m *VectorDB) EnsureCollection(ctx context.Context, vectorSize uint64) error {
	m.EnsureCollectionCallCount++
	m.EnsureCollectionLastSize = vectorSize
	return m.EnsureCollectionErr
}

// DeleteCollection removes the collection and all its data.
func (m *VectorDB) DeleteCollection(ctx context.Context) error {
	m.DeleteCollectionCallCount++
	return m.DeleteCollectionErr
}

// SaveBatch records the entries.
func (m *VectorDB) SaveBatch(ctx context.Context, entries []entities.FAQEntry) error {
	m.SaveBatchCallCount++
	m.SaveBatchLastEntries = entries
	if m.Err != nil {
		return m.Err
	}
	m.Entries = append(m.Entries, entries...)
	return nil
}

// Search returns up to limit stored entries.
func (m *VectorDB) Search(ctx context.Context, embedding []float32, limit int) ([]entities.FAQEntry, error) {
	m.SearchLastLimit = limit
	if m.Err != nil {
		return nil, m.Err
	}
	if limit > len(m.Entries) {
		limit = len(m.Entries)
	}
	return m.Entries[:limit], nil
}

// SearchByCategory returns up to limit stored entries of the category.
func (m *VectorDB) SearchByCategory(ctx context.Context, embedding []float32, category string, limit int) ([]entities.FAQEntry, error) {
	m.SearchLastLimit = limit
	m.SearchLastCategory = category
	if m.Err != nil {
		return nil, m.Err
	}
	var out []entities.FAQEntry
	for i := range m.Entries {
		if len(out) == limit {
			break
		}
		if m.Entries[i].Category == category {
			out = append(out, m.Entries[i])
		}
	}
	return out, nil
}

// DeleteBySource drops the entries ingested from sourceFile.
func (m *VectorDB) DeleteBySource(ctx context.Context, sourceFile string) error {
	m.DeletedSources = append(m.DeletedSources, sourceFile)
	if m.Err != nil {
		return m.Err
	}
	kept := m.Entries[:0]
	for i := range m.Entries {
		if m.Entries[i].SourceFile != sourceFile {
			kept = append(kept, m.Entries[i])
		}
	}
	m.Entries = kept
	return nil
}

// Count returns the number of stored entries.
func (m *VectorDB) Count(ctx context.Context) (uint64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return uint64(len(m.Entries)), nil
}
