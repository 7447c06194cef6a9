package game

import (
	"fmt"
	"strings"
	"time"
)

// FirstSeason is the season-ending year of the league's first season (1917-1918)
const FirstSeason = 1918

// ParseDate attempts to parse a game date into a time.Time.
// Returns time.Time{} (zero value) if parsing fails.
// Supports formats: "2016-10-12", "Oct 12, 2016", "October 12, 2016"
func ParseDate(dateText string) time.Time {
	dateText = strings.TrimSpace(dateText)
	if dateText == "" {
		return time.Time{}
	}

	layouts := []string{
		"2006-01-02",
		"Jan 2, 2006",
		"January 2, 2006",
		"Mon, Jan 2, 2006",
	}

	for _, layout := range layouts {
		t, err := time.Parse(layout, dateText)
		if err == nil {
			return t
		}
	}

	// Could not parse, return zero time
	return time.Time{}
}

// DefaultEndYear returns the current season-ending year.
// A new season becomes current in October.
func DefaultEndYear(now time.Time) int {
	if now.Month() < time.October {
		return now.Year()
	}
	return now.Year() + 1
}

// SeasonLabel formats a season-ending year as "2015-2016"
func SeasonLabel(year int) string {
	return fmt.Sprintf("%d-%d", year-1, year)
}
