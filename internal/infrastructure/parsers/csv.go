package parsers

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hongxu0218/petcare/internal/domain/entities"
)

// CSVParser parses locations from CSV format.
type CSVParser struct{}

// Parse reads CSV from the reader and returns parsed locations.
// Expected columns: id, name, address, phone, business_hours and any flag columns.
func (p *CSVParser) Parse(r io.Reader) ([]RawLocation, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	colIndex, err := p.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return p.readRecords(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (p *CSVParser) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		col = strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		colIndex[strings.ToLower(col)] = i
	}

	for _, col := range []string{"id", "name"} {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	return colIndex, nil
}

// readRecords reads all data rows and converts them to RawLocations.
func (p *CSVParser) readRecords(reader *csv.Reader, colIndex map[string]int) ([]RawLocation, error) {
	var locations []RawLocation
	lineNum := 1 // Header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		loc, err := p.parseRecord(record, colIndex, lineNum)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}

	return locations, nil
}

// parseRecord converts a CSV record to a RawLocation.
func (p *CSVParser) parseRecord(record []string, colIndex map[string]int, lineNum int) (RawLocation, error) {
	loc := RawLocation{
		Name:    getColumn(record, colIndex, "name"),
		Address: getColumn(record, colIndex, "address"),
		Phone:   getColumn(record, colIndex, "phone"),
		Flags:   map[string]bool{},
		LineNum: lineNum,
	}

	if idStr := getColumn(record, colIndex, "id"); idStr != "" {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return RawLocation{}, fmt.Errorf("line %d: invalid id %q: %w", lineNum, idStr, err)
		}
		loc.ID = id
	}

	if blob := getColumn(record, colIndex, "business_hours"); blob != "" {
		loc.BusinessHours = json.RawMessage(blob)
	}

	for col := range colIndex {
		if entities.IsFlagColumn(col) {
			loc.Flags[col] = isTruthy(getColumn(record, colIndex, col))
		}
	}

	return loc, nil
}

// getColumn safely retrieves a trimmed column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}
