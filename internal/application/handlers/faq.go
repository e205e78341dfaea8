package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hongxu0218/petcare/internal/domain/services"
	"github.com/hongxu0218/petcare/internal/infrastructure/parsers"
)

// FAQHandler loads FAQ sheets and answers questions from them.
type FAQHandler struct {
	service *services.FAQService
	logger  *zap.Logger
}

// NewFAQHandler creates a new FAQ handler. A nil logger discards output.
func NewFAQHandler(service *services.FAQService, logger *zap.Logger) *FAQHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FAQHandler{
		service: service,
		logger:  logger,
	}
}

// FAQIngestOptions controls FAQ ingestion.
type FAQIngestOptions struct {
	Replace bool // Replace entries previously loaded from the same file
	DryRun  bool // Validate without embedding
}

// FAQIngestResult contains the result of an FAQ ingestion.
type FAQIngestResult struct {
	FilePath string
	Ingested int
	Skipped  int
	Errors   []services.ImportError
}

// HandleIngest reads an .xlsx or .csv FAQ sheet and stores its rows.
func (h *FAQHandler) HandleIngest(ctx context.Context, filePath string, opts FAQIngestOptions) (*FAQIngestResult, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	parser := parsers.FAQParserForFile(absPath)
	if parser == nil {
		return nil, fmt.Errorf("unsupported FAQ file (want .xlsx or .csv): %s", absPath)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	rows, err := parser.ParseFAQ(file)
	if err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}

	result, err := h.service.Ingest(ctx, rows, services.FAQIngestOptions{
		SourceFile: absPath,
		Replace:    opts.Replace,
		DryRun:     opts.DryRun,
	})
	if err != nil {
		return nil, err
	}

	for _, rowErr := range result.Errors {
		h.logger.Warn("FAQ row skipped",
			zap.String("file", absPath),
			zap.Int("line", rowErr.Line),
			zap.String("field", rowErr.Field),
			zap.String("reason", rowErr.Message),
		)
	}
	h.logger.Info("ingested FAQ",
		zap.String("file", absPath),
		zap.Int("ingested", result.Ingested),
		zap.Int("skipped", len(result.Errors)),
		zap.Bool("dry_run", opts.DryRun),
	)

	return &FAQIngestResult{
		FilePath: absPath,
		Ingested: result.Ingested,
		Skipped:  len(result.Errors),
		Errors:   result.Errors,
	}, nil
}

// HandleAsk answers a question from the stored FAQ entries.
func (h *FAQHandler) HandleAsk(ctx context.Context, question string, opts services.AskOptions) (*services.Answer, error) {
	answer, err := h.service.Ask(ctx, question, opts)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("answered question",
		zap.String("question", question),
		zap.Int("references", len(answer.References)),
	)

	return answer, nil
}
