package game

import (
	"sort"
)

// Archive represents every season collected by one scrape run
type Archive struct {
	RunID     string               `json:"run_id,omitempty"`
	Source    string               `json:"source,omitempty"`
	UpdatedAt string               `json:"updated_at"`         // RFC3339 timestamp
	Seasons   map[int]*SeasonGames `json:"seasons"`            // keyed by season-ending year
	Failures  map[int]string       `json:"failures,omitempty"` // years that could not be fetched
}

// NewArchive creates an empty archive
func NewArchive() *Archive {
	return &Archive{
		Seasons:  make(map[int]*SeasonGames),
		Failures: make(map[int]string),
	}
}

// SeasonResult is the outcome of collecting one season
type SeasonResult struct {
	Year  int
	Games *SeasonGames
	Err   error
}

// Add folds one season result into the archive.
// A failed year is recorded in Failures and left out of Seasons.
func (a *Archive) Add(result SeasonResult) {
	if a.Seasons == nil {
		a.Seasons = make(map[int]*SeasonGames)
	}
	if a.Failures == nil {
		a.Failures = make(map[int]string)
	}

	if result.Err != nil {
		delete(a.Seasons, result.Year)
		a.Failures[result.Year] = result.Err.Error()
		return
	}

	games := result.Games
	if games == nil {
		games = NewSeasonGames()
	}
	delete(a.Failures, result.Year)
	a.Seasons[result.Year] = games
}

// Fold builds an archive from season results, applied in order
func Fold(results []SeasonResult) *Archive {
	a := NewArchive()
	for _, r := range results {
		a.Add(r)
	}
	return a
}

// Years returns the collected season years in ascending order
func (a *Archive) Years() []int {
	years := make([]int, 0, len(a.Seasons))
	for year := range a.Seasons {
		years = append(years, year)
	}
	sort.Ints(years)
	return years
}

// Season returns the games of one season
func (a *Archive) Season(year int) (*SeasonGames, bool) {
	s, ok := a.Seasons[year]
	return s, ok
}

// GameCount returns the total number of games across all seasons
func (a *Archive) GameCount() int {
	total := 0
	for _, s := range a.Seasons {
		total += len(s.Regular) + len(s.Playoff)
	}
	return total
}

// Failure describes a year that could not be collected
type Failure struct {
	Year   int    `json:"year"`
	Reason string `json:"reason"`
}

// EmptyTable describes a collected season with an empty game list
type EmptyTable struct {
	Year   int         `json:"year"`
	Type   string      `json:"type"`
	Status TableStatus `json:"status"`
}

// Report summarizes which years were collected and which failed
type Report struct {
	Succeeded   []int        `json:"succeeded"`
	Failed      []Failure    `json:"failed"`
	EmptyTables []EmptyTable `json:"empty_tables"`
	Games       int          `json:"games"`
}

// NewReport derives a report from an archive
func NewReport(a *Archive) *Report {
	r := &Report{
		Succeeded:   a.Years(),
		Failed:      make([]Failure, 0, len(a.Failures)),
		EmptyTables: make([]EmptyTable, 0),
		Games:       a.GameCount(),
	}

	for year, reason := range a.Failures {
		r.Failed = append(r.Failed, Failure{Year: year, Reason: reason})
	}
	sort.Slice(r.Failed, func(i, j int) bool {
		return r.Failed[i].Year < r.Failed[j].Year
	})

	for _, year := range r.Succeeded {
		s := a.Seasons[year]
		if len(s.Regular) == 0 {
			r.EmptyTables = append(r.EmptyTables, EmptyTable{Year: year, Type: TypeRegular, Status: s.RegularStatus})
		}
		if len(s.Playoff) == 0 {
			r.EmptyTables = append(r.EmptyTables, EmptyTable{Year: year, Type: TypePlayoff, Status: s.PlayoffStatus})
		}
	}

	return r
}

// OK reports whether every requested year was collected
func (r *Report) OK() bool {
	return len(r.Failed) == 0
}
