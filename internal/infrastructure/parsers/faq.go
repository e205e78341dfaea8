package parsers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrFAQBadHeader is returned when a sheet lacks the question or answer column.
var ErrFAQBadHeader = errors.New("FAQ header must contain question and answer columns")

// RawFAQ is one question/answer row before validation.
type RawFAQ struct {
	Question string
	Answer   string
	Category string
	LineNum  int
}

// FAQParser parses FAQ rows from a spreadsheet-like source.
type FAQParser interface {
	ParseFAQ(r io.Reader) ([]RawFAQ, error)
}

// FAQParserForFile returns the FAQ parser for the file extension (.xlsx or .csv).
func FAQParserForFile(filename string) FAQParser {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return &XLSXFAQParser{}
	case ".csv":
		return &CSVFAQParser{}
	default:
		return nil
	}
}

// faqHeaderAliases maps accepted header cells to field names.
var faqHeaderAliases = map[string]string{
	"question": "question",
	"問題":       "question",
	"问题":       "question",
	"answer":   "answer",
	"回答":       "answer",
	"答案":       "answer",
	"category": "category",
	"分類":       "category",
	"分类":       "category",
}

// XLSXFAQParser reads the first sheet of an Excel workbook.
type XLSXFAQParser struct{}

// ParseFAQ reads the workbook and returns its non-empty rows.
func (p *XLSXFAQParser) ParseFAQ(r io.Reader) ([]RawFAQ, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}
	return faqRows(rows)
}

// CSVFAQParser reads FAQ rows from CSV.
type CSVFAQParser struct{}

// ParseFAQ reads the CSV and returns its non-empty rows.
func (p *CSVFAQParser) ParseFAQ(r io.Reader) ([]RawFAQ, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	return faqRows(rows)
}

func faqRows(rows [][]string) ([]RawFAQ, error) {
	if len(rows) == 0 {
		return nil, ErrFAQBadHeader
	}

	colIndex := map[string]int{"question": -1, "answer": -1, "category": -1}
	for i, cell := range rows[0] {
		cell = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff")))
		if field, ok := faqHeaderAliases[cell]; ok && colIndex[field] < 0 {
			colIndex[field] = i
		}
	}
	if colIndex["question"] < 0 || colIndex["answer"] < 0 {
		return nil, ErrFAQBadHeader
	}

	cell := func(row []string, field string) string {
		if idx := colIndex[field]; idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var out []RawFAQ
	for i := 1; i < len(rows); i++ {
		item := RawFAQ{
			Question: cell(rows[i], "question"),
			Answer:   cell(rows[i], "answer"),
			Category: cell(rows[i], "category"),
			LineNum:  i + 1,
		}
		// Skip blank rows.
		if item.Question == "" && item.Answer == "" && item.Category == "" {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}
