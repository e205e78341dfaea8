// Package ports defines interfaces for external service communication.
package ports

import (
	"context"

	"github.com/hongxu0218/petcare/internal/domain/entities"
)

// LLMClient defines the interface for LLM operations.
type LLMClient interface {
	// Answer replies to a pet-care question using only the given FAQ entries as reference.
	Answer(ctx context.Context, question string, references []entities.FAQEntry) (string, error)
}
