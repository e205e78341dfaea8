// Package entities contains core domain data structures.
package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// Weekday is a day index where Monday is 0 and Sunday is 6.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// WeekdayNames are the source mapping keys in canonical Monday-first order.
var WeekdayNames = [7]string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

// String returns the lower-case English name of the day.
func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("weekday(%d)", int(d))
	}
	return WeekdayNames[d]
}

// ParseWeekday maps an English weekday name to its index.
func ParseWeekday(name string) (Weekday, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range WeekdayNames {
		if n == name {
			return Weekday(i), true
		}
	}
	return 0, false
}

// CanonicalTime is a validated 24-hour "HH:MM" clock time between 00:00 and 23:59.
type CanonicalTime string

const (
	StartOfDay CanonicalTime = "00:00"
	EndOfDay   CanonicalTime = "23:59"
)

// NewCanonicalTime formats hour and minute as a CanonicalTime.
// Hour 24 is clamped to the end of the day.
func NewCanonicalTime(hour, minute int) (CanonicalTime, error) {
	if hour == 24 {
		return EndOfDay, nil
	}
	if hour < 0 || hour > 23 {
		return "", fmt.Errorf("hour %d out of range", hour)
	}
	if minute < 0 || minute > 59 {
		return "", fmt.Errorf("minute %d out of range", minute)
	}
	return CanonicalTime(fmt.Sprintf("%02d:%02d", hour, minute)), nil
}

// Valid reports whether t is a well-formed canonical time.
func (t CanonicalTime) Valid() bool {
	s := string(t)
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil || h < 0 || h > 23 {
		return false
	}
	m, err := strconv.Atoi(s[3:])
	return err == nil && m >= 0 && m <= 59
}

// Minutes returns the number of minutes since midnight, or -1 if t is invalid.
func (t CanonicalTime) Minutes() int {
	if !t.Valid() {
		return -1
	}
	h, _ := strconv.Atoi(string(t)[:2])
	m, _ := strconv.Atoi(string(t)[3:])
	return h*60 + m
}

// RawHoursRecord is the per-location weekday mapping handed over by the importer.
// Days is keyed by lower-case English weekday name; a missing key means no hours.
type RawHoursRecord struct {
	LocationID int64
	Days       map[string]string
}

// BusinessHoursEntry is one opening period of a location on one weekday.
type BusinessHoursEntry struct {
	LocationID  int64         `json:"location_id"`
	DayOfWeek   Weekday       `json:"day_of_week"`
	OpenTime    CanonicalTime `json:"open_time"`
	CloseTime   CanonicalTime `json:"close_time"`
	PeriodOrder int           `json:"period_order"`
	PeriodName  string        `json:"period_name"`
}
