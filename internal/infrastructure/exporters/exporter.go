// Package exporters writes a normalized batch to JSON, SQL or CSV.
package exporters

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/hongxu0218/petcare/internal/domain/entities"
)

// Exporter writes a normalized batch to w. diagnostics is the number of
// problems found while normalizing.
type Exporter interface {
	Export(w io.Writer, batch *entities.NormalizedBatch, diagnostics int) error
}

// Formats lists the supported export formats.
var Formats = []string{"json", "sql", "csv"}

// ForFormat returns the exporter for a format name.
func ForFormat(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "json":
		return &JSONExporter{}, nil
	case "sql":
		return &SQLExporter{}, nil
	case "csv":
		return &CSVExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q, valid formats: %v", format, Formats)
	}
}

// IsValidFormat reports whether format is supported.
func IsValidFormat(format string) bool {
	return slices.Contains(Formats, strings.ToLower(format))
}
