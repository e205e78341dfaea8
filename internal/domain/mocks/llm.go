package mocks

import (
	"context"

	"github.com/hongxu0218/petcare/internal/domain/entities"
)

// LLMClient is a mock implementation of ports.LLMClient.
type LLMClient struct {
	AnswerResult string
	AnswerErr    error

	// Call tracking
	LastQuestion   string
	LastReferences []entities.FAQEntry
}

// Answer returns the configured answer or error.
func (m *LLMClient) Answer(ctx context.Context, question string, references []entities.FAQEntry) (string, error) {
	m.LastQuestion = question
	m.LastReferences = references
	if m.AnswerErr != nil {
		return "", m.AnswerErr
	}
	return m.AnswerResult, nil
}
