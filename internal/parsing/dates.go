package parsing

import (
	"strings"
	"time"
)

// dateLayouts are the accepted date formats, tried in order. Month-first
// numeric layouts come before day-first, so an ambiguous value like
// 03/04/2024 reads as March 4th while 15/01/2024 (invalid as month-first)
// falls through to day-first.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02/01/2006",
	"2/1/2006",
	"01-02-2006",
	"02-01-2006",
	"02.01.2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	time.RFC3339,
}

// ParseDate parses a cell value against the accepted date formats.
// Returns ok=false when no format matches.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a date in the canonical ISO form used by cleaned data
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
