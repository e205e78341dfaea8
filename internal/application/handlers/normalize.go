package handlers

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hongxu0218/petcare/internal/domain/hours"
	"github.com/hongxu0218/petcare/internal/domain/services"
	"github.com/hongxu0218/petcare/internal/infrastructure/exporters"
	"github.com/hongxu0218/petcare/internal/infrastructure/parsers"
)

// NormalizeHandler reads location files and runs them through the normalizer.
type NormalizeHandler struct {
	service *services.NormalizeService
	logger  *zap.Logger
}

// NewNormalizeHandler creates a new normalize handler. A nil logger discards output.
func NewNormalizeHandler(service *services.NormalizeService, logger *zap.Logger) *NormalizeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NormalizeHandler{
		service: service,
		logger:  logger,
	}
}

// NormalizeOptions controls a normalize run.
type NormalizeOptions struct {
	Format string // "json", "csv", or "auto"
	DryRun bool   // Build without saving
	Locale string // Period label locale, "en" or "zh-TW"
}

// NormalizeFileResult is the outcome for one input file.
type NormalizeFileResult struct {
	FilePath string
	*services.NormalizeResult
}

// NormalizeBatchResult contains the result of normalizing a directory.
type NormalizeBatchResult struct {
	TotalFiles     int
	TotalLocations int
	TotalHours     int
	FileResults    []*NormalizeFileResult
	Errors         []error
}

// Handle normalizes one file.
func (h *NormalizeHandler) Handle(ctx context.Context, filePath string, opts NormalizeOptions) (*NormalizeFileResult, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	labels, err := hours.LabelsForLocale(opts.Locale)
	if err != nil {
		return nil, err
	}

	raws, err := readLocations(absPath, opts.Format)
	if err != nil {
		return nil, err
	}

	result, err := h.service.Normalize(ctx, raws, services.NormalizeOptions{
		DryRun:     opts.DryRun,
		SourceFile: absPath,
		Labels:     labels,
	})
	if err != nil {
		return nil, err
	}

	h.logResult(absPath, result)

	return &NormalizeFileResult{FilePath: absPath, NormalizeResult: result}, nil
}

// HandleDirectory normalizes every file in dirPath whose name matches pattern.
// A failing file is recorded in Errors and does not stop the others.
func (h *NormalizeHandler) HandleDirectory(ctx context.Context, dirPath, pattern string, recursive bool, progressFn func(file string), opts NormalizeOptions) (*NormalizeBatchResult, error) {
	absPath, err := filepath.Abs(dirPath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("accessing path: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", absPath)
	}

	files, err := findFiles(absPath, pattern, recursive)
	if err != nil {
		return nil, fmt.Errorf("finding files: %w", err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files matching pattern %q found in %s", pattern, absPath)
	}

	result := &NormalizeBatchResult{
		FileResults: make([]*NormalizeFileResult, 0, len(files)),
	}

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if progressFn != nil {
			progressFn(file)
		}

		fileResult, err := h.Handle(ctx, file, opts)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", file, err))
			continue
		}

		result.FileResults = append(result.FileResults, fileResult)
		result.TotalFiles++
		result.TotalLocations += len(fileResult.Batch.Locations)
		result.TotalHours += len(fileResult.Batch.BusinessHours)
	}

	return result, nil
}

// Export normalizes a file without saving and writes the batch with exporter.
func (h *NormalizeHandler) Export(ctx context.Context, filePath string, opts NormalizeOptions, exporter exporters.Exporter, w io.Writer) (*NormalizeFileResult, error) {
	opts.DryRun = true

	result, err := h.Handle(ctx, filePath, opts)
	if err != nil {
		return nil, err
	}

	if err := exporter.Export(w, result.Batch, len(result.Diagnostics)); err != nil {
		return nil, fmt.Errorf("writing export: %w", err)
	}

	return result, nil
}

// logResult reports skipped rows and schedule diagnostics, then a summary line.
func (h *NormalizeHandler) logResult(filePath string, result *services.NormalizeResult) {
	for _, rowErr := range result.Errors {
		h.logger.Warn("row skipped",
			zap.String("file", filePath),
			zap.Int("line", rowErr.Line),
			zap.String("field", rowErr.Field),
			zap.String("value", rowErr.Value),
			zap.String("reason", rowErr.Message),
		)
	}

	for _, d := range result.Diagnostics {
		h.logger.Warn("business hours diagnostic",
			zap.Int64("location_id", d.LocationID),
			zap.String("day", d.Day),
			zap.String("kind", string(d.Kind())),
			zap.String("token", d.Token()),
			zap.Error(d.Err),
		)
	}

	h.logger.Info("normalized locations",
		zap.String("file", filePath),
		zap.Int("locations", len(result.Batch.Locations)),
		zap.Int("business_hours", len(result.Batch.BusinessHours)),
		zap.Int("skipped", result.Skipped()),
		zap.Int("diagnostics", len(result.Diagnostics)),
	)
}

func readLocations(filePath, format string) ([]parsers.RawLocation, error) {
	var parser parsers.Parser
	if format == "" || format == "auto" {
		parser = parsers.ForFile(filePath)
	} else {
		parser = parsers.ForFormat(format)
	}

	if parser == nil {
		return nil, fmt.Errorf("unsupported format for file: %s", filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	raws, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}

	return raws, nil
}

// findFiles finds all files matching the pattern in the directory.
func findFiles(dirPath string, pattern string, recursive bool) ([]string, error) {
	var files []string

	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if !recursive && path != dirPath {
				return filepath.SkipDir
			}
			return nil
		}

		matched, err := filepath.Match(pattern, info.Name())
		if err != nil {
			return err
		}

		if matched {
			files = append(files, path)
		}

		return nil
	}

	if err := filepath.Walk(dirPath, walkFn); err != nil {
		return nil, err
	}

	return files, nil
}

// IsDirectory checks if the given path is a directory.
func IsDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsGlobPattern checks if the path contains glob characters.
func IsGlobPattern(path string) bool {
	return strings.ContainsAny(path, "*?[")
}
