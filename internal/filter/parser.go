package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pfrederiksen/nhl-scores/internal/game"
)

var yearRangePattern = regexp.MustCompile(`^(\d{4})?\s*(-)?\s*(\d{4})?$`)

// ParseYearRange parses a season range into its bounds.
//
// Supported formats:
//   - "2016" - A single season
//   - "1990-2000" - An inclusive range
//   - "1990-" or "-2000" - Open-ended ranges (0 means unbounded)
//
// Years are season-ending years: 2016 is the 2015-2016 season.
func ParseYearRange(input string) (int, int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, 0, fmt.Errorf("year range cannot be empty")
	}

	matches := yearRangePattern.FindStringSubmatch(input)
	if matches == nil || (matches[1] == "" && matches[3] == "") {
		return 0, 0, fmt.Errorf("invalid year range %q (examples: 2016, 1990-2000, 1990-)", input)
	}

	from, to := 0, 0
	if matches[1] != "" {
		from, _ = strconv.Atoi(matches[1])
	}
	if matches[3] != "" {
		to, _ = strconv.Atoi(matches[3])
	}

	// A lone year selects exactly that season
	if matches[2] == "" {
		if matches[1] != "" && matches[3] != "" {
			return 0, 0, fmt.Errorf("invalid year range %q", input)
		}
		if from == 0 {
			from = to
		}
		to = from
	}

	if from != 0 && from < game.FirstSeason {
		return 0, 0, fmt.Errorf("year %d is before the first season (%d)", from, game.FirstSeason)
	}
	if from != 0 && to != 0 && from > to {
		return 0, 0, fmt.Errorf("start year %d is after end year %d", from, to)
	}

	return from, to, nil
}

// ParseTypes parses a comma-separated list of game types
func ParseTypes(input string) ([]string, error) {
	types := []string{}
	for _, part := range strings.Split(input, ",") {
		kind := strings.ToLower(strings.TrimSpace(part))
		switch kind {
		case "":
			continue
		case game.TypeRegular, game.TypePlayoff:
			types = append(types, kind)
		case "playoffs":
			types = append(types, game.TypePlayoff)
		default:
			return nil, fmt.Errorf("unknown game type %q (want regular or playoff)", part)
		}
	}
	return types, nil
}

// ParseList splits a comma-separated list, dropping empty items
func ParseList(input string) []string {
	items := []string{}
	for _, part := range strings.Split(input, ",") {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}
