package parsers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hongxu0218/petcare/internal/domain/entities"
)

// JSONParser parses locations from a JSON array of scraped rows.
// Flag columns sit at the top level of each row next to the text fields.
type JSONParser struct{}

// Parse reads JSON from the reader and returns parsed locations.
func (p *JSONParser) Parse(r io.Reader) ([]RawLocation, error) {
	var rows []map[string]json.RawMessage

	decoder := json.NewDecoder(r)
	decoder.UseNumber()
	if err := decoder.Decode(&rows); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	locations := make([]RawLocation, 0, len(rows))
	for i, row := range rows {
		loc, err := p.parseRow(row, i+1)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}

	return locations, nil
}

func (p *JSONParser) parseRow(row map[string]json.RawMessage, lineNum int) (RawLocation, error) {
	loc := RawLocation{LineNum: lineNum, Flags: map[string]bool{}}

	id, err := jsonID(row["id"])
	if err != nil {
		return RawLocation{}, fmt.Errorf("row %d: %w", lineNum, err)
	}
	loc.ID = id
	loc.Name = jsonText(row["name"])
	loc.Address = jsonText(row["address"])
	loc.Phone = jsonText(row["phone"])

	if blob, ok := row["business_hours"]; ok {
		loc.BusinessHours = bytes.TrimSpace(blob)
	}

	for col, raw := range row {
		if !entities.IsFlagColumn(col) {
			continue
		}
		loc.Flags[col] = jsonFlag(raw)
	}

	return loc, nil
}

// jsonID accepts a number or a numeric string; a missing or null id is zero.
func jsonID(raw json.RawMessage) (int64, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return 0, nil
	}
	var text string
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, fmt.Errorf("invalid id %s: %w", s, err)
		}
		s = strings.TrimSpace(text)
		if s == "" {
			return 0, nil
		}
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %s: %w", s, err)
	}
	return id, nil
}

// jsonText returns the value as text; numbers keep their literal form.
func jsonText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func jsonFlag(raw json.RawMessage) bool {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return isTruthy(s)
	}
	return false
}
