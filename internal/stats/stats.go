// Package stats computes descriptive statistics over NHL game results.
//
// Games whose goal columns are missing or not numeric (unplayed or forfeited
// games) are counted as skipped and left out of every score statistic.
package stats

import (
	"encoding/json"
	"math"
	"sort"
	"time"

	"github.com/pfrederiksen/nhl-scores/internal/game"
)

const dateLayout = "2006-01-02"

// Range holds the mean, minimum and maximum of a set of scores.
// Mean is NaN when N is zero.
type Range struct {
	N    int
	Mean float64
	Min  int
	Max  int
}

func newRange(values []int) Range {
	if len(values) == 0 {
		return Range{Mean: math.NaN()}
	}
	r := Range{N: len(values), Min: values[0], Max: values[0]}
	sum := 0
	for _, v := range values {
		sum += v
		if v < r.Min {
			r.Min = v
		}
		if v > r.Max {
			r.Max = v
		}
	}
	r.Mean = float64(sum) / float64(len(values))
	return r
}

// MarshalJSON writes null statistics for an empty range
func (r Range) MarshalJSON() ([]byte, error) {
	out := struct {
		N    int      `json:"n"`
		Mean *float64 `json:"mean"`
		Min  *int     `json:"min"`
		Max  *int     `json:"max"`
	}{N: r.N}
	if r.N > 0 {
		out.Mean, out.Min, out.Max = &r.Mean, &r.Min, &r.Max
	}
	return json.Marshal(out)
}

// ScoreCount is the frequency of one final score
type ScoreCount struct {
	Winning int     `json:"winning"`
	Losing  int     `json:"losing"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
	First   string  `json:"first,omitempty"` // earliest game date, YYYY-MM-DD
	Last    string  `json:"last,omitempty"`  // latest game date, YYYY-MM-DD
}

// LastDate returns the date of the most recent game with this score
func (s ScoreCount) LastDate() (time.Time, bool) {
	if s.Last == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s.Last)
	return t, err == nil
}

// DiffCount is the frequency of one goal differential
type DiffCount struct {
	Diff    int     `json:"diff"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Summary is the result of analyzing a set of games
type Summary struct {
	Games    int `json:"games"`   // games given
	Scored   int `json:"scored"`  // games with numeric scores
	Skipped  int `json:"skipped"` // games without numeric scores
	Decisive int `json:"decisive"`
	Ties     int `json:"ties"`

	Winning      Range `json:"winning"`      // decisive games only
	Losing       Range `json:"losing"`       // decisive games only
	Tie          Range `json:"tie"`          // tie scores
	Differential Range `json:"differential"` // all scored games

	LargestDiff      int         `json:"largest_diff"`
	LargestDiffGames []game.Game `json:"largest_diff_games"`

	Scores       []ScoreCount `json:"scores"`
	DiffsByValue []DiffCount  `json:"diffs_by_value"`
	DiffsByCount []DiffCount  `json:"diffs_by_count"`

	// Per scored game, ties included, in input order
	WinningScores []int `json:"-"`
	LosingScores  []int `json:"-"`
}

type scoreKey struct {
	winning, losing int
}

type occurrence struct {
	count       int
	first, last time.Time
}

// Analyze computes the summary statistics of games
func Analyze(games []game.Game) *Summary {
	s := &Summary{
		Games:            len(games),
		LargestDiffGames: make([]game.Game, 0),
		WinningScores:    make([]int, 0, len(games)),
		LosingScores:     make([]int, 0, len(games)),
	}

	var winning, losing, ties, diffs []int
	scores := make(map[scoreKey]*occurrence)
	diffCounts := make(map[int]int)

	for _, g := range games {
		home, visitor, err := g.Goals()
		if err != nil {
			s.Skipped++
			continue
		}

		w, l := home, visitor
		if visitor > home {
			w, l = visitor, home
		}
		key := scoreKey{winning: w, losing: l}

		occ, ok := scores[key]
		if !ok {
			occ = &occurrence{}
			scores[key] = occ
		}
		occ.count++
		if date, ok := g.Date(); ok {
			if occ.first.IsZero() || date.Before(occ.first) {
				occ.first = date
			}
			if occ.last.IsZero() || date.After(occ.last) {
				occ.last = date
			}
		}

		if w > l {
			winning = append(winning, w)
			losing = append(losing, l)
		} else {
			ties = append(ties, w)
		}

		diff := w - l
		diffs = append(diffs, diff)
		diffCounts[diff]++
		switch {
		case diff > s.LargestDiff:
			s.LargestDiff = diff
			s.LargestDiffGames = []game.Game{g}
		case diff == s.LargestDiff:
			s.LargestDiffGames = append(s.LargestDiffGames, g)
		}

		s.WinningScores = append(s.WinningScores, w)
		s.LosingScores = append(s.LosingScores, l)
	}

	s.Scored = len(diffs)
	s.Decisive = len(winning)
	s.Ties = len(ties)
	s.Winning = newRange(winning)
	s.Losing = newRange(losing)
	s.Tie = newRange(ties)
	s.Differential = newRange(diffs)

	s.Scores = scoreTable(scores, s.Scored)
	s.DiffsByValue, s.DiffsByCount = diffTables(diffCounts, s.Scored)

	return s
}

func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

func scoreTable(scores map[scoreKey]*occurrence, total int) []ScoreCount {
	table := make([]ScoreCount, 0, len(scores))
	for key, occ := range scores {
		sc := ScoreCount{
			Winning: key.winning,
			Losing:  key.losing,
			Count:   occ.count,
			Percent: percent(occ.count, total),
		}
		if !occ.first.IsZero() {
			sc.First = occ.first.Format(dateLayout)
			sc.Last = occ.last.Format(dateLayout)
		}
		table = append(table, sc)
	}

	sort.Slice(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Winning != b.Winning {
			return a.Winning < b.Winning
		}
		return a.Losing < b.Losing
	})
	return table
}

func diffTables(counts map[int]int, total int) (byValue, byCount []DiffCount) {
	byValue = make([]DiffCount, 0, len(counts))
	for diff, count := range counts {
		byValue = append(byValue, DiffCount{Diff: diff, Count: count, Percent: percent(count, total)})
	}
	sort.Slice(byValue, func(i, j int) bool {
		return byValue[i].Diff < byValue[j].Diff
	})

	byCount = make([]DiffCount, len(byValue))
	copy(byCount, byValue)
	sort.SliceStable(byCount, func(i, j int) bool {
		return byCount[i].Count > byCount[j].Count
	})
	return byValue, byCount
}
