package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		input    string
		expected Weekday
		ok       bool
	}{
		{"monday", Monday, true},
		{"Sunday", Sunday, true},
		{"  WEDNESDAY ", Wednesday, true},
		{"mon", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			day, ok := ParseWeekday(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, day)
		})
	}
}

func TestWeekday_String(t *testing.T) {
	assert.Equal(t, "monday", Monday.String())
	assert.Equal(t, "sunday", Sunday.String())
	assert.Equal(t, "weekday(9)", Weekday(9).String())
}

func TestNewCanonicalTime(t *testing.T) {
	tests := []struct {
		name     string
		hour     int
		minute   int
		expected CanonicalTime
		wantErr  bool
	}{
		{name: "morning", hour: 9, minute: 0, expected: "09:00"},
		{name: "midnight", hour: 0, minute: 0, expected: StartOfDay},
		{name: "last minute", hour: 23, minute: 59, expected: EndOfDay},
		{name: "hour 24", hour: 24, minute: 0, expected: EndOfDay},
		{name: "hour 24 with minutes", hour: 24, minute: 30, expected: EndOfDay},
		{name: "hour 25", hour: 25, wantErr: true},
		{name: "negative hour", hour: -1, wantErr: true},
		{name: "minute 60", hour: 9, minute: 60, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewCanonicalTime(tt.hour, tt.minute)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestCanonicalTime_Minutes(t *testing.T) {
	assert.Equal(t, 0, StartOfDay.Minutes())
	assert.Equal(t, 23*60+59, EndOfDay.Minutes())
	assert.Equal(t, 9*60+30, CanonicalTime("09:30").Minutes())
	assert.Equal(t, -1, CanonicalTime("9:30").Minutes())
	assert.Equal(t, -1, CanonicalTime("24:00").Minutes())
}

func TestFlagColumns(t *testing.T) {
	assert.True(t, IsFlagColumn("is_veterinary"))
	assert.True(t, IsFlagColumn("supports_cat"))
	assert.False(t, IsFlagColumn("name"))

	assert.Equal(t, ServiceTypeColumns, FlagColumnsFor(CatalogServiceTypes))
	assert.Equal(t, PetTypeColumns, FlagColumnsFor(CatalogPetTypes))
	assert.Nil(t, FlagColumnsFor("unknown"))
	assert.False(t, CatalogKind("unknown").IsValid())
}
