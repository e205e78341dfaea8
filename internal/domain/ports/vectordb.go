package ports

import (
	"context"

	"github.com/hongxu0218/petcare/internal/domain/entities"
)

// VectorDB stores FAQ entries with their embeddings for semantic lookup.
type VectorDB interface {
	// SaveBatch upserts entries; an empty ID gets a fresh one.
	SaveBatch(ctx context.Context, entries []entities.FAQEntry) error

	// Search returns the entries closest to the embedding, best first, with Score set.
	Search(ctx context.Context, embedding []float32, limit int) ([]entities.FAQEntry, error)

	// SearchByCategory is Search restricted to one category.
	SearchByCategory(ctx context.Context, embedding []float32, category string, limit int) ([]entities.FAQEntry, error)

	// DeleteBySource removes every entry ingested from a file.
	DeleteBySource(ctx context.Context, sourceFile string) error

	// Count returns the number of stored entries.
	Count(ctx context.Context) (uint64, error)
}
