package parsing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_ISO(t *testing.T) {
	parsed, ok := ParseDate("2024-01-15")

	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), parsed)
}

func TestParseDate_MonthFirstPreferred(t *testing.T) {
	// 03/04/2024 is ambiguous; month-first wins
	parsed, ok := ParseDate("03/04/2024")

	require.True(t, ok)
	assert.Equal(t, time.March, parsed.Month())
	assert.Equal(t, 4, parsed.Day())
}

func TestParseDate_DayFirstFallback(t *testing.T) {
	// 15 is not a valid month, so day-first applies
	parsed, ok := ParseDate("15/01/2024")

	require.True(t, ok)
	assert.Equal(t, time.January, parsed.Month())
	assert.Equal(t, 15, parsed.Day())
}

func TestParseDate_NamedMonth(t *testing.T) {
	for _, input := range []string{"January 15, 2024", "Jan 15, 2024", "15 January 2024", "15 Jan 2024"} {
		parsed, ok := ParseDate(input)
		require.True(t, ok, "input %q", input)
		assert.Equal(t, 15, parsed.Day(), "input %q", input)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, input := range []string{"not-a-date", "", "  ", "99/99/9999"} {
		_, ok := ParseDate(input)
		assert.False(t, ok, "input %q", input)
	}
}

func TestFormatDate_RoundTrip(t *testing.T) {
	parsed, ok := ParseDate("15/01/2024")
	require.True(t, ok)

	formatted := FormatDate(parsed)
	assert.Equal(t, "2024-01-15", formatted)

	again, ok := ParseDate(formatted)
	require.True(t, ok)
	assert.Equal(t, parsed, again)
}
