package hours

import (
	"errors"
	"iter"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"

	"github.com/hongxu0218/petcare/internal/domain/entities"
)

// Interval is one open/close pair within a day.
type Interval struct {
	Open  entities.CanonicalTime `json:"open"`
	Close entities.CanonicalTime `json:"close"`
}

// AllDay is the interval emitted for round-the-clock locations.
var AllDay = Interval{Open: entities.StartOfDay, Close: entities.EndOfDay}

// closedVocabulary marks a whole day as not operating. CJK entries match
// case-sensitively, Latin entries case-insensitively.
var closedVocabulary = []string{
	"休息",
	"暫停營業",
	"不營業",
	"closed",
	"公休",
	"休館",
	"休診",
	"店休",
}

// rangeSeparators is searched in order; the first one present splits the period.
var rangeSeparators = []string{"–", "-", "~", "到", "to", "至", "—", "〜"}

var (
	periodSeparator = regexp.MustCompile(`(?i)[,;；、､&\n]|\s+and\s+`)
	allDayHours     = []string{"小時", "小时", "hours"}
)

// IsClosed reports whether raw contains a closed-day marker.
func IsClosed(raw string) bool {
	s := foldText(raw)
	lower := strings.ToLower(s)
	for _, word := range closedVocabulary {
		if isASCII(word) {
			if strings.Contains(lower, word) {
				return true
			}
			continue
		}
		if strings.Contains(s, word) {
			return true
		}
	}
	return false
}

// IsAllDay reports whether raw describes 24-hour operation, e.g. "24小時營業"
// or "Open 24 hours".
func IsAllDay(raw string) bool {
	s := strings.ToLower(foldText(raw))
	if !strings.Contains(s, "24") {
		return false
	}
	return containsAny(s, allDayHours)
}

// Intervals lazily splits one weekday's raw hours into intervals in source order.
// Each dropped period is yielded as a zero Interval with a *TokenFormatError.
// The sequence can be ranged over any number of times.
func Intervals(raw string) iter.Seq2[Interval, error] {
	return func(yield func(Interval, error) bool) {
		s := strings.TrimSpace(foldText(raw))
		if s == "" || IsClosed(s) {
			return
		}
		if IsAllDay(s) {
			yield(AllDay, nil)
			return
		}
		for _, period := range periodSeparator.Split(s, -1) {
			period = strings.TrimSpace(period)
			if period == "" {
				continue
			}
			if !yield(parsePeriod(period)) {
				return
			}
		}
	}
}

// SplitIntervals collects the intervals of raw, dropping unparseable periods.
func SplitIntervals(raw string) []Interval {
	var out []Interval
	for iv, err := range Intervals(raw) {
		if err == nil {
			out = append(out, iv)
		}
	}
	return out
}

// parsePeriod turns one period such as "9:00-12:00" into an interval. A period
// with a single time is read as open until the end of the day.
func parsePeriod(period string) (Interval, error) {
	sep, idx := findRangeSeparator(period)
	if idx < 0 {
		open, err := NormalizeToken(period)
		if err != nil {
			return Interval{}, inPeriod(err, period)
		}
		return Interval{Open: open, Close: entities.EndOfDay}, nil
	}

	open, err := NormalizeToken(period[:idx])
	if err != nil {
		return Interval{}, inPeriod(err, period)
	}
	closing, err := NormalizeToken(period[idx+len(sep):])
	if err != nil {
		return Interval{}, inPeriod(err, period)
	}
	return Interval{Open: open, Close: closing}, nil
}

func findRangeSeparator(period string) (string, int) {
	for _, sep := range rangeSeparators {
		if idx := indexFold(period, sep); idx >= 0 {
			return sep, idx
		}
	}
	return "", -1
}

// indexFold is strings.Index with ASCII case folding for Latin separators.
func indexFold(s, sep string) int {
	if !isASCII(sep) {
		return strings.Index(s, sep)
	}
	for i := 0; i+len(sep) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(sep)], sep) {
			return i
		}
	}
	return -1
}

func inPeriod(err error, period string) error {
	var tokenErr *TokenFormatError
	if errors.As(err, &tokenErr) {
		tokenErr.Period = period
	}
	return err
}

func foldText(s string) string {
	return width.Fold.String(s)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
