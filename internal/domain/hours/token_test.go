package hours

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongxu0218/petcare/internal/domain/entities"
)

func TestNormalizeToken_Valid(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected entities.CanonicalTime
		rule     string
	}{
		{name: "colon", token: "9:00", expected: "09:00", rule: RuleColon},
		{name: "colon padded", token: "09:30", expected: "09:30", rule: RuleColon},
		{name: "dot", token: "09.00", expected: "09:00", rule: RuleDot},
		{name: "dot single digit hour", token: "9.45", expected: "09:45", rule: RuleDot},
		{name: "compact", token: "0900", expected: "09:00", rule: RuleCompact},
		{name: "compact afternoon", token: "1830", expected: "18:30", rule: RuleCompact},
		{name: "loose minute", token: "9:5", expected: "09:05", rule: RuleLoose},
		{name: "bare hour", token: "9", expected: "09:00", rule: RuleHourOnly},
		{name: "bare two digit hour", token: "18", expected: "18:00", rule: RuleHourOnly},
		{name: "surrounding spaces", token: "  9:00 ", expected: "09:00", rule: RuleColon},
		{name: "full-width colon", token: "9：00", expected: "09:00", rule: RuleColon},
		{name: "full-width digits", token: "１８：３０", expected: "18:30", rule: RuleColon},
		{name: "9AM", token: "9AM", expected: "09:00", rule: RuleMeridiem},
		{name: "9PM", token: "9PM", expected: "21:00", rule: RuleMeridiem},
		{name: "12AM", token: "12AM", expected: "00:00", rule: RuleMeridiem},
		{name: "12PM", token: "12PM", expected: "12:00", rule: RuleMeridiem},
		{name: "lower case with minutes", token: "10:30 pm", expected: "22:30", rule: RuleMeridiem},
		{name: "dotted meridiem", token: "7 p.m.", expected: "19:00", rule: RuleMeridiem},
		{name: "colon with meridiem suffix", token: "9:00AM", expected: "09:00", rule: RuleMeridiem},
		{name: "chinese afternoon", token: "下午6點", expected: "18:00", rule: RuleMeridiem},
		{name: "chinese morning", token: "上午9:30", expected: "09:30", rule: RuleMeridiem},
		{name: "chinese evening", token: "晚上9點", expected: "21:00", rule: RuleMeridiem},
		{name: "chinese evening twelve is end of day", token: "晚上12點", expected: "23:59", rule: RuleMeridiem},
		{name: "chinese evening twelve thirty", token: "晚上12:30", expected: "00:30", rule: RuleMeridiem},
		{name: "midnight", token: "0:00", expected: "00:00", rule: RuleColon},
		{name: "last minute", token: "23:59", expected: "23:59", rule: RuleColon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MatchToken(tt.token)
			require.NoError(t, m.Err)
			assert.True(t, m.OK())
			assert.Equal(t, tt.expected, m.Time)
			assert.Equal(t, tt.rule, m.Rule)

			got, err := NormalizeToken(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizeToken_HourTwentyFourClamps(t *testing.T) {
	tokens := []string{"24:00", "24:30", "24.00", "2400", "24", "24:5"}

	for _, token := range tokens {
		t.Run(token, func(t *testing.T) {
			got, err := NormalizeToken(token)
			require.NoError(t, err)
			assert.Equal(t, entities.EndOfDay, got)
		})
	}
}

func TestNormalizeToken_NoMatch(t *testing.T) {
	tokens := []string{"", "   ", "abc", "123", "12345", "9.5", "noon", "13PM", "0AM", "9:00:00"}

	for _, token := range tokens {
		t.Run(fmt.Sprintf("%q", token), func(t *testing.T) {
			m := MatchToken(token)
			require.Error(t, m.Err)
			assert.Empty(t, m.Rule)
			assert.Empty(t, m.Time)
			assert.True(t, errors.Is(m.Err, ErrNoMatch))

			var tokenErr *TokenFormatError
			require.ErrorAs(t, m.Err, &tokenErr)
		})
	}
}

func TestNormalizeToken_OutOfRange(t *testing.T) {
	tests := []struct {
		token string
		rule  string
	}{
		{token: "25:00", rule: RuleColon},
		{token: "9:60", rule: RuleColon},
		{token: "3000", rule: RuleCompact},
		{token: "99", rule: RuleHourOnly},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			m := MatchToken(tt.token)
			require.Error(t, m.Err)
			assert.Equal(t, tt.rule, m.Rule, "first matching rule decides, even when out of range")
			assert.False(t, errors.Is(m.Err, ErrNoMatch))
		})
	}
}

func TestNormalizeToken_Idempotent(t *testing.T) {
	for h := 0; h <= 23; h++ {
		for m := 0; m <= 59; m++ {
			in := fmt.Sprintf("%02d:%02d", h, m)
			once, err := NormalizeToken(in)
			require.NoError(t, err)
			assert.Equal(t, entities.CanonicalTime(in), once)

			twice, err := NormalizeToken(string(once))
			require.NoError(t, err)
			require.Equal(t, once, twice)
		}
	}
}

func TestNormalizeToken_IdempotentAcrossFormats(t *testing.T) {
	for _, in := range []string{"9", "0930", "9.15", "7:5", "11PM", "24:00"} {
		once, err := NormalizeToken(in)
		require.NoError(t, err)
		twice, err := NormalizeToken(string(once))
		require.NoError(t, err)
		assert.Equal(t, once, twice, "token %q", in)
	}
}

func TestRuleNames_Order(t *testing.T) {
	assert.Equal(t, []string{RuleColon, RuleDot, RuleCompact, RuleLoose, RuleHourOnly, RuleMeridiem}, RuleNames())
}
