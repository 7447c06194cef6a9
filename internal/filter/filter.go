// Package filter selects games out of an archive for analysis.
//
// Filters narrow the analyzed games by any combination of:
//   - Season range (season-ending years, inclusive)
//   - Game type (regular, playoff)
//   - Teams (substring matching on home or visitor team, case-insensitive)
//
// Excluded years are dropped from per-season groupings only, so a season in
// progress can be kept out of trends while still counting in the overall totals.
//
// Example usage:
//
//	f := filter.NewFilter()
//	f.FromYear, f.ToYear = 1990, 2000
//	f.Types = []string{game.TypePlayoff}
//
//	games := f.Apply(archive)
//	byYear := f.ByYear(archive)
package filter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pfrederiksen/nhl-scores/internal/game"
)

// Filter represents game selection criteria
type Filter struct {
	// Season range, 0 means unbounded
	FromYear int `json:"from_year,omitempty"`
	ToYear   int `json:"to_year,omitempty"`

	// Seasons left out of per-season groupings
	ExcludeYears []int `json:"exclude_years,omitempty"`

	// Game types (game.TypeRegular, game.TypePlayoff)
	Types []string `json:"types,omitempty"`

	// Team filtering (case-insensitive substring match on either team)
	Teams []string `json:"teams,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all games until criteria are added.
func NewFilter() *Filter {
	return &Filter{
		ExcludeYears: []int{},
		Types:        []string{},
		Teams:        []string{},
	}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return f.FromYear == 0 &&
		f.ToYear == 0 &&
		len(f.ExcludeYears) == 0 &&
		len(f.Types) == 0 &&
		len(f.Teams) == 0
}

// MatchesSeason reports whether a season-ending year is inside the range
func (f *Filter) MatchesSeason(year int) bool {
	if f.FromYear != 0 && year < f.FromYear {
		return false
	}
	if f.ToYear != 0 && year > f.ToYear {
		return false
	}
	return true
}

// MatchesType reports whether games of a type are selected
func (f *Filter) MatchesType(kind string) bool {
	if len(f.Types) == 0 {
		return true
	}
	for _, t := range f.Types {
		if strings.EqualFold(t, kind) {
			return true
		}
	}
	return false
}

// MatchesGame checks the team criteria against a game
func (f *Filter) MatchesGame(g game.Game) bool {
	if len(f.Teams) == 0 {
		return true
	}

	home := strings.ToLower(g.Value(game.FieldHomeTeam))
	visitor := strings.ToLower(g.Value(game.FieldVisitorTeam))
	for _, team := range f.Teams {
		needle := strings.ToLower(strings.TrimSpace(team))
		if needle == "" {
			continue
		}
		if strings.Contains(home, needle) || strings.Contains(visitor, needle) {
			return true
		}
	}
	return false
}

func (f *Filter) excluded(year int) bool {
	for _, y := range f.ExcludeYears {
		if y == year {
			return true
		}
	}
	return false
}

// season returns the selected games of one season, regular season first
func (f *Filter) season(s *game.SeasonGames) []game.Game {
	var games []game.Game
	for _, kind := range []string{game.TypeRegular, game.TypePlayoff} {
		if !f.MatchesType(kind) {
			continue
		}
		for _, g := range s.ByType(kind) {
			if f.MatchesGame(g) {
				games = append(games, g)
			}
		}
	}
	return games
}

// Apply returns the selected games of every matching season in ascending year order.
func (f *Filter) Apply(a *game.Archive) []game.Game {
	games := make([]game.Game, 0)
	for _, year := range a.Years() {
		if !f.MatchesSeason(year) {
			continue
		}
		games = append(games, f.season(a.Seasons[year])...)
	}
	return games
}

// ByYear groups the selected games by season. Every matching season that is
// not excluded gets an entry, even when no game was selected.
func (f *Filter) ByYear(a *game.Archive) map[int][]game.Game {
	byYear := make(map[int][]game.Game)
	for _, year := range a.Years() {
		if !f.MatchesSeason(year) || f.excluded(year) {
			continue
		}
		byYear[year] = f.season(a.Seasons[year])
	}
	return byYear
}

// Years returns the sorted keys of a ByYear grouping
func Years(byYear map[int][]game.Game) []int {
	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}

// String returns a human-readable description of the active filter criteria.
// Format: "Seasons: 1990-2000 | Types: playoff | Teams: Boston | Excluding: 2018"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if f.FromYear != 0 || f.ToYear != 0 {
		from, to := "", ""
		if f.FromYear != 0 {
			from = strconv.Itoa(f.FromYear)
		}
		if f.ToYear != 0 {
			to = strconv.Itoa(f.ToYear)
		}
		parts = append(parts, fmt.Sprintf("Seasons: %s-%s", from, to))
	}

	if len(f.Types) > 0 {
		parts = append(parts, fmt.Sprintf("Types: %s", strings.Join(f.Types, ", ")))
	}

	if len(f.Teams) > 0 {
		parts = append(parts, fmt.Sprintf("Teams: %s", strings.Join(f.Teams, ", ")))
	}

	if len(f.ExcludeYears) > 0 {
		years := make([]string, len(f.ExcludeYears))
		for i, y := range f.ExcludeYears {
			years[i] = strconv.Itoa(y)
		}
		parts = append(parts, fmt.Sprintf("Excluding: %s", strings.Join(years, ", ")))
	}

	return strings.Join(parts, " | ")
}

// Clone creates a deep copy of the filter.
func (f *Filter) Clone() *Filter {
	clone := &Filter{
		FromYear: f.FromYear,
		ToYear:   f.ToYear,
	}

	clone.ExcludeYears = make([]int, len(f.ExcludeYears))
	copy(clone.ExcludeYears, f.ExcludeYears)

	clone.Types = make([]string, len(f.Types))
	copy(clone.Types, f.Types)

	clone.Teams = make([]string, len(f.Teams))
	copy(clone.Teams, f.Teams)

	return clone
}
