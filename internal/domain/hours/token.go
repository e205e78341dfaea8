// Package hours normalizes free-text business hours scraped from location pages
// into canonical weekday schedules.
package hours

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/width"

	"github.com/hongxu0218/petcare/internal/domain/entities"
)

// Rule names, in precedence order.
const (
	RuleColon    = "hh:mm"
	RuleDot      = "hh.mm"
	RuleCompact  = "hhmm"
	RuleLoose    = "h:m"
	RuleHourOnly = "h"
	RuleMeridiem = "am/pm"
)

// tokenRule is one entry of the ordered format table. match reports whether the
// token has the rule's shape and, if so, the hour and minute it denotes.
type tokenRule struct {
	name  string
	match func(token string) (hour, minute int, ok bool)
}

// tokenRules is tried top to bottom; the first rule whose shape matches decides
// the outcome, even when its values turn out to be out of range.
var tokenRules = []tokenRule{
	{name: RuleColon, match: regexRule(`^(\d{1,2}):(\d{2})$`)},
	{name: RuleDot, match: regexRule(`^(\d{1,2})\.(\d{2})$`)},
	{name: RuleCompact, match: regexRule(`^(\d{2})(\d{2})$`)},
	{name: RuleLoose, match: regexRule(`^(\d{1,2}):(\d{1,2})$`)},
	{name: RuleHourOnly, match: regexRule(`^(\d{1,2})$`)},
	{name: RuleMeridiem, match: matchMeridiem},
}

var (
	meridiemClock = regexp.MustCompile(`^(\d{1,2})(?:[:.](\d{2}))?$`)

	amMarkers = []string{"am", "a.m.", "上午", "早上"}
	pmMarkers = []string{"pm", "p.m.", "下午", "晚上"}

	// 晚上12點 is midnight, not noon.
	nightMarkers = []string{"晚上"}
)

// TokenMatch is the outcome of normalizing one time token.
type TokenMatch struct {
	Token string                 // token after pre-processing
	Rule  string                 // winning rule, empty when nothing matched
	Time  entities.CanonicalTime // set when Err is nil
	Err   error                  // *TokenFormatError on failure
}

// OK reports whether the token normalized successfully.
func (m TokenMatch) OK() bool { return m.Err == nil }

// RuleNames returns the token rules in precedence order.
func RuleNames() []string {
	names := make([]string, len(tokenRules))
	for i, r := range tokenRules {
		names[i] = r.name
	}
	return names
}

// MatchToken normalizes a single clock time such as "9:00", "09.00", "0900", "9"
// or "9PM" and reports which rule produced the result.
func MatchToken(token string) TokenMatch {
	token = prepareToken(token)
	m := TokenMatch{Token: token}

	for _, rule := range tokenRules {
		hour, minute, ok := rule.match(token)
		if !ok {
			continue
		}
		m.Rule = rule.name
		t, err := entities.NewCanonicalTime(hour, minute)
		if err != nil {
			m.Err = &TokenFormatError{Token: token, Err: err}
			return m
		}
		m.Time = t
		return m
	}

	m.Err = &TokenFormatError{Token: token, Err: ErrNoMatch}
	return m
}

// NormalizeToken returns the canonical form of a clock time, or a *TokenFormatError.
func NormalizeToken(token string) (entities.CanonicalTime, error) {
	m := MatchToken(token)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Time, nil
}

// prepareToken trims the token and folds full-width characters, so "９：００"
// becomes "9:00".
func prepareToken(token string) string {
	token = width.Fold.String(strings.TrimSpace(token))
	return strings.TrimSpace(strings.ReplaceAll(token, "：", ":"))
}

func regexRule(expr string) func(string) (int, int, bool) {
	re := regexp.MustCompile(expr)
	return func(token string) (int, int, bool) {
		sub := re.FindStringSubmatch(token)
		if sub == nil {
			return 0, 0, false
		}
		return clock(sub[1], sub[2:])
	}
}

// clock converts captured hour and optional minute groups. An hour of 24 always
// means end of day, whatever minute was written.
func clock(hourText string, rest []string) (int, int, bool) {
	hour, err := strconv.Atoi(hourText)
	if err != nil {
		return 0, 0, false
	}
	if hour == 24 {
		return 24, 0, true
	}
	minute := 0
	if len(rest) > 0 && rest[0] != "" {
		minute, err = strconv.Atoi(rest[0])
		if err != nil {
			return 0, 0, false
		}
	}
	return hour, minute, true
}

func matchMeridiem(token string) (int, int, bool) {
	lower := strings.ToLower(token)
	pm := containsAny(lower, pmMarkers)
	if !pm && !containsAny(lower, amMarkers) {
		return 0, 0, false
	}

	digits := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, lower)
	// Strip the dots left over from "a.m." / "p.m.".
	digits = strings.TrimRight(digits, ".")

	sub := meridiemClock.FindStringSubmatch(digits)
	if sub == nil {
		return 0, 0, false
	}
	hour, minute, ok := clock(sub[1], sub[2:])
	if !ok {
		return 0, 0, false
	}
	if hour == 24 {
		return hour, minute, true
	}
	if hour < 1 || hour > 12 {
		return 0, 0, false
	}

	switch {
	case hour == 12 && containsAny(lower, nightMarkers):
		if minute == 0 {
			return 24, 0, true
		}
		hour = 0
	case pm && hour != 12:
		hour += 12
	case !pm && hour == 12:
		hour = 0
	}
	return hour, minute, true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
