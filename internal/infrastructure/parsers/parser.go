// Package parsers provides parsers for importing scraped locations and FAQ sheets.
package parsers

import (
	"encoding/json"
	"io"
	"path/filepath"
	"strings"
)

// RawLocation represents one scraped location before validation.
type RawLocation struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Address       string          `json:"address,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	Flags         map[string]bool `json:"flags,omitempty"`          // known flag columns only
	BusinessHours json.RawMessage `json:"business_hours,omitempty"` // weekday mapping blob, as scraped
	LineNum       int             `json:"-"`                        // Line number in source file (set by parser)
}

// Parser defines the interface for parsing locations from various formats.
type Parser interface {
	Parse(r io.Reader) ([]RawLocation, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "csv".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "csv":
		return &CSVParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension.
func ForFile(filename string) Parser {
	return ForFormat(strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), "."))
}

var truthyValues = map[string]bool{
	"true": true,
	"1":    true,
	"yes":  true,
	"y":    true,
	"t":    true,
	"是":    true,
}

// isTruthy reports whether a cell value marks a flag as set.
func isTruthy(v string) bool {
	return truthyValues[strings.ToLower(strings.TrimSpace(v))]
}
