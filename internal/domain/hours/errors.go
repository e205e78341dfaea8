package hours

import (
	"errors"
	"fmt"
)

// ErrNoMatch is returned when a time token matches none of the known formats.
var ErrNoMatch = errors.New("no time format matched")

// Kind classifies a Diagnostic.
type Kind string

const (
	KindTokenFormat       Kind = "token_format"
	KindMalformedSchedule Kind = "malformed_schedule"
	KindUnknownWeekday    Kind = "unknown_weekday"
)

// TokenFormatError reports a time token that could not be normalized.
// The enclosing period is dropped; nothing else is affected.
type TokenFormatError struct {
	Token  string // offending token after trimming
	Period string // period text the token came from, if any
	Err    error  // ErrNoMatch or a range error
}

func (e *TokenFormatError) Error() string {
	if e.Period != "" && e.Period != e.Token {
		return fmt.Sprintf("time %q in %q: %v", e.Token, e.Period, e.Err)
	}
	return fmt.Sprintf("time %q: %v", e.Token, e.Err)
}

func (e *TokenFormatError) Unwrap() error { return e.Err }

// MalformedScheduleError reports an hours blob that is not the expected weekday mapping.
// All hours of the location are skipped.
type MalformedScheduleError struct {
	Reason string
	Err    error
}

func (e *MalformedScheduleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed business hours: %s: %v", e.Reason, e.Err)
	}
	return "malformed business hours: " + e.Reason
}

func (e *MalformedScheduleError) Unwrap() error { return e.Err }

// UnknownWeekdayError reports a mapping key that is not an English weekday name.
type UnknownWeekdayError struct {
	Key string
}

func (e *UnknownWeekdayError) Error() string {
	return fmt.Sprintf("unknown weekday key %q", e.Key)
}

// Diagnostic is a non-fatal problem found while building a schedule,
// carrying enough context for the caller to log or count it.
type Diagnostic struct {
	LocationID int64
	Day        string
	Err        error
}

func (d Diagnostic) Error() string {
	if d.Day != "" {
		return fmt.Sprintf("location %d, %s: %v", d.LocationID, d.Day, d.Err)
	}
	return fmt.Sprintf("location %d: %v", d.LocationID, d.Err)
}

func (d Diagnostic) Unwrap() error { return d.Err }

// Kind returns the category of the wrapped error.
func (d Diagnostic) Kind() Kind {
	var tokenErr *TokenFormatError
	var blobErr *MalformedScheduleError
	var dayErr *UnknownWeekdayError
	switch {
	case errors.As(d.Err, &tokenErr):
		return KindTokenFormat
	case errors.As(d.Err, &blobErr):
		return KindMalformedSchedule
	case errors.As(d.Err, &dayErr):
		return KindUnknownWeekday
	default:
		return ""
	}
}

// Token returns the offending token for token format diagnostics.
func (d Diagnostic) Token() string {
	var tokenErr *TokenFormatError
	if errors.As(d.Err, &tokenErr) {
		return tokenErr.Token
	}
	return ""
}
