package hours

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/hongxu0218/petcare/internal/domain/entities"
)

// Labels name the periods of a day.
type Labels struct {
	FullDay      string // used when a day has exactly one period
	PeriodFormat string // fmt verb receives the 1-based period order
}

var (
	EnglishLabels            = Labels{FullDay: "Full day", PeriodFormat: "Period %d"}
	TraditionalChineseLabels = Labels{FullDay: "全天", PeriodFormat: "時段%d"}
)

// LabelsForLocale returns the period labels for a locale ("en" or "zh-TW").
func LabelsForLocale(locale string) (Labels, error) {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "", "en":
		return EnglishLabels, nil
	case "zh-tw", "zh_tw", "zh-hant":
		return TraditionalChineseLabels, nil
	default:
		return Labels{}, fmt.Errorf("unsupported locale %q (valid: en, zh-TW)", locale)
	}
}

// Builder turns weekday mappings into business hours rows. It holds no state
// between calls and is safe for concurrent use.
type Builder struct {
	labels Labels
}

// NewBuilder creates a Builder; a zero Labels falls back to English.
func NewBuilder(labels Labels) *Builder {
	if labels.FullDay == "" {
		labels.FullDay = EnglishLabels.FullDay
	}
	if labels.PeriodFormat == "" {
		labels.PeriodFormat = EnglishLabels.PeriodFormat
	}
	return &Builder{labels: labels}
}

// Build produces the entries of one location, Monday first and in period order
// within each day. Unknown keys are reported and ignored; a day whose text
// yields no interval contributes no entries.
func (b *Builder) Build(rec entities.RawHoursRecord) ([]entities.BusinessHoursEntry, []Diagnostic) {
	var diags []Diagnostic
	var days [7]string

	keys := make([]string, 0, len(rec.Days))
	for k := range rec.Days {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var seen [7]bool
	for _, k := range keys {
		day, ok := entities.ParseWeekday(k)
		if !ok {
			diags = append(diags, Diagnostic{LocationID: rec.LocationID, Err: &UnknownWeekdayError{Key: k}})
			continue
		}
		if seen[day] {
			continue
		}
		seen[day] = true
		days[day] = rec.Days[k]
	}

	entries := make([]entities.BusinessHoursEntry, 0, 7)
	for i, raw := range days {
		day := entities.Weekday(i)

		var intervals []Interval
		for iv, err := range Intervals(raw) {
			if err != nil {
				diags = append(diags, Diagnostic{LocationID: rec.LocationID, Day: day.String(), Err: err})
				continue
			}
			intervals = append(intervals, iv)
		}

		for j, iv := range intervals {
			entries = append(entries, entities.BusinessHoursEntry{
				LocationID:  rec.LocationID,
				DayOfWeek:   day,
				OpenTime:    iv.Open,
				CloseTime:   iv.Close,
				PeriodOrder: j + 1,
				PeriodName:  b.periodName(j+1, len(intervals)),
			})
		}
	}

	return entries, diags
}

// BuildFromBlob parses a serialized weekday mapping and builds its entries.
// A malformed blob yields no entries and a single diagnostic.
func (b *Builder) BuildFromBlob(locationID int64, blob []byte) ([]entities.BusinessHoursEntry, []Diagnostic) {
	rec, err := ParseHoursBlob(locationID, blob)
	if err != nil {
		return nil, []Diagnostic{{LocationID: locationID, Err: err}}
	}
	return b.Build(rec)
}

func (b *Builder) periodName(order, total int) string {
	if total == 1 {
		return b.labels.FullDay
	}
	return fmt.Sprintf(b.labels.PeriodFormat, order)
}

// ParseHoursBlob decodes the serialized weekday mapping of a location. The blob
// may be a JSON object or a JSON string holding one. An empty or null blob
// means the location has no hours and is not an error.
func ParseHoursBlob(locationID int64, blob []byte) (entities.RawHoursRecord, error) {
	rec := entities.RawHoursRecord{LocationID: locationID, Days: map[string]string{}}

	blob = bytes.TrimSpace(blob)
	if len(blob) == 0 || bytes.Equal(blob, []byte("null")) {
		return rec, nil
	}

	if blob[0] == '"' {
		var inner string
		if err := json.Unmarshal(blob, &inner); err != nil {
			return rec, &MalformedScheduleError{Reason: "invalid JSON string", Err: err}
		}
		inner = strings.TrimSpace(inner)
		if inner == "" {
			return rec, nil
		}
		blob = []byte(inner)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(blob, &raw); err != nil {
		return rec, &MalformedScheduleError{Reason: "not a JSON object", Err: err}
	}

	hasWeekday := false
	for key, value := range raw {
		_, isDay := entities.ParseWeekday(key)
		if isDay {
			hasWeekday = true
		}
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			continue
		}
		if !isDay {
			// Kept verbatim so Build reports the key; its value is never parsed.
			rec.Days[key] = string(value)
			continue
		}
		var text string
		if err := json.Unmarshal(value, &text); err != nil {
			return rec, &MalformedScheduleError{Reason: fmt.Sprintf("value of %q is not a string", key), Err: err}
		}
		rec.Days[key] = text
	}

	if !hasWeekday {
		return rec, &MalformedScheduleError{Reason: "no weekday keys"}
	}
	return rec, nil
}
