package timeutil

import (
	"fmt"
	"time"
)

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// SeasonOf returns the season a round date belongs to. Seasons follow the calendar year.
func SeasonOf(date string) (int, error) {
	t, err := ParseDate(date)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t.Year(), nil
}

// CurrentSeason returns the season in progress at now.
func CurrentSeason(now time.Time) int {
	return now.UTC().Year()
}
