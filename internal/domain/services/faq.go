package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hongxu0218/petcare/internal/domain/entities"
	"github.com/hongxu0218/petcare/internal/domain/ports"
	"github.com/hongxu0218/petcare/internal/infrastructure/parsers"
)

// DefaultSearchLimit is the default number of FAQ entries handed to the model.
const DefaultSearchLimit = 3

// DefaultEmbedBatchSize bounds the texts sent per embedding request.
const DefaultEmbedBatchSize = 64

var (
	// ErrEmptyQuestion is returned by Ask for a blank question.
	ErrEmptyQuestion = errors.New("question is empty")
	// ErrNoReferences is returned by Ask when no FAQ entry is close enough.
	ErrNoReferences = errors.New("no matching FAQ entries")
)

// FAQIngestOptions controls FAQ ingestion.
type FAQIngestOptions struct {
	SourceFile string
	Replace    bool // Delete entries previously ingested from SourceFile first
	DryRun     bool // Validate without embedding or saving
}

// FAQIngestResult contains the result of an ingestion.
type FAQIngestResult struct {
	Ingested int
	Errors   []ImportError
}

// AskOptions controls retrieval for Ask.
type AskOptions struct {
	Limit    int
	Category string
	MinScore float32 // Entries scoring below are not passed to the model
}

// Answer is a model reply with the FAQ entries it was grounded on.
type Answer struct {
	Text       string
	References []entities.FAQEntry
}

// FAQService embeds FAQ sheets into the vector store and answers questions from them.
type FAQService struct {
	embedder    ports.Embedder
	vectorDB    ports.VectorDB
	collections ports.CollectionManager
	llm         ports.LLMClient
	batchSize   int
}

// NewFAQService creates a new FAQ service.
func NewFAQService(embedder ports.Embedder, vectorDB ports.VectorDB, collections ports.CollectionManager, llm ports.LLMClient) *FAQService {
	return &FAQService{
		embedder:    embedder,
		vectorDB:    vectorDB,
		collections: collections,
		llm:         llm,
		batchSize:   DefaultEmbedBatchSize,
	}
}

// SetBatchSize overrides the embedding batch size; values below 1 are ignored.
func (s *FAQService) SetBatchSize(n int) {
	if n > 0 {
		s.batchSize = n
	}
}

// Ingest validates rows, embeds them and stores them in the vector database.
func (s *FAQService) Ingest(ctx context.Context, rows []parsers.RawFAQ, opts FAQIngestOptions) (*FAQIngestResult, error) {
	result := &FAQIngestResult{}

	entries := make([]entities.FAQEntry, 0, len(rows))
	now := time.Now()
	for i := range rows {
		row := &rows[i]
		lineNum := row.LineNum
		if lineNum == 0 {
			lineNum = i + 1
		}
		if err := validateFAQ(row, lineNum); err != nil {
			result.Errors = append(result.Errors, *err)
			continue
		}
		entries = append(entries, entities.FAQEntry{
			ID:         uuid.New().String(),
			Question:   row.Question,
			Answer:     row.Answer,
			Category:   row.Category,
			SourceFile: opts.SourceFile,
			CreatedAt:  now,
		})
	}

	if len(entries) == 0 || opts.DryRun {
		result.Ingested = len(entries)
		return result, nil
	}

	if err := s.collections.EnsureCollection(ctx, s.embedder.Dimensions()); err != nil {
		return nil, fmt.Errorf("ensuring collection: %w", err)
	}
	if opts.Replace && opts.SourceFile != "" {
		if err := s.vectorDB.DeleteBySource(ctx, opts.SourceFile); err != nil {
			return nil, fmt.Errorf("removing previous entries: %w", err)
		}
	}

	for start := 0; start < len(entries); start += s.batchSize {
		end := min(start+s.batchSize, len(entries))
		chunk := entries[start:end]

		texts := make([]string, len(chunk))
		for i := range chunk {
			texts[i] = chunk[i].Text()
		}
		embeddings, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("generating embeddings: %w", err)
		}
		if len(embeddings) != len(chunk) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(embeddings), len(chunk))
		}
		for i := range chunk {
			chunk[i].Embedding = embeddings[i]
		}

		if err := s.vectorDB.SaveBatch(ctx, chunk); err != nil {
			return nil, fmt.Errorf("saving FAQ entries: %w", err)
		}
		result.Ingested += len(chunk)
	}

	return result, nil
}

func validateFAQ(row *parsers.RawFAQ, lineNum int) *ImportError {
	if strings.TrimSpace(row.Question) == "" {
		return &ImportError{Line: lineNum, Field: "question", Message: "missing required field: question"}
	}
	if strings.TrimSpace(row.Answer) == "" {
		return &ImportError{Line: lineNum, Field: "answer", Value: row.Question, Message: "missing required field: answer"}
	}
	return nil
}

// Search returns the FAQ entries closest to the question.
func (s *FAQService) Search(ctx context.Context, question string, opts AskOptions) ([]entities.FAQEntry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	embedding, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("generating query embedding: %w", err)
	}

	var hits []entities.FAQEntry
	if opts.Category != "" {
		hits, err = s.vectorDB.SearchByCategory(ctx, embedding, opts.Category, limit)
	} else {
		hits, err = s.vectorDB.Search(ctx, embedding, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("searching FAQ entries: %w", err)
	}

	kept := make([]entities.FAQEntry, 0, len(hits))
	for _, h := range hits {
		if h.Score >= opts.MinScore {
			kept = append(kept, h)
		}
	}
	return kept, nil
}

// Ask answers a question with the language model, grounded on the closest FAQ entries.
func (s *FAQService) Ask(ctx context.Context, question string, opts AskOptions) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	refs, err := s.Search(ctx, question, opts)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, ErrNoReferences
	}

	text, err := s.llm.Answer(ctx, question, refs)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	return &Answer{Text: strings.TrimSpace(text), References: refs}, nil
}
