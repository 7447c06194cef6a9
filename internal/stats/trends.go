package stats

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/pfrederiksen/nhl-scores/internal/game"
)

// YearTrend holds the scoring means of one season.
// Means are NaN for a season without scored games.
type YearTrend struct {
	Year        int
	MeanWinning float64
	MeanLosing  float64
	MeanTotal   float64
	MeanDiff    float64
	GamesPlayed int
}

// Trends computes per-season scoring means. Ties count in both the winning
// and the losing mean. Years are returned in ascending order.
func Trends(byYear map[int][]game.Game) []YearTrend {
	years := make([]int, 0, len(byYear))
	for year := range byYear {
		years = append(years, year)
	}
	sort.Ints(years)

	trends := make([]YearTrend, 0, len(years))
	for _, year := range years {
		trends = append(trends, yearTrend(year, Analyze(byYear[year])))
	}
	return trends
}

func yearTrend(year int, s *Summary) YearTrend {
	t := YearTrend{Year: year, GamesPlayed: s.Scored}
	if s.Scored == 0 {
		t.MeanWinning = math.NaN()
		t.MeanLosing = math.NaN()
		t.MeanTotal = math.NaN()
		t.MeanDiff = math.NaN()
		return t
	}

	var win, lose int
	for i := range s.WinningScores {
		win += s.WinningScores[i]
		lose += s.LosingScores[i]
	}
	n := float64(s.Scored)
	t.MeanWinning = float64(win) / n
	t.MeanLosing = float64(lose) / n
	t.MeanTotal = float64(win+lose) / n
	t.MeanDiff = float64(win-lose) / n
	return t
}

func nullable(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// MarshalJSON writes NaN means as null
func (t YearTrend) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Year        int      `json:"year"`
		MeanWinning *float64 `json:"mean_winning"`
		MeanLosing  *float64 `json:"mean_losing"`
		MeanTotal   *float64 `json:"mean_total"`
		MeanDiff    *float64 `json:"mean_diff"`
		GamesPlayed int      `json:"games_played"`
	}{
		Year:        t.Year,
		MeanWinning: nullable(t.MeanWinning),
		MeanLosing:  nullable(t.MeanLosing),
		MeanTotal:   nullable(t.MeanTotal),
		MeanDiff:    nullable(t.MeanDiff),
		GamesPlayed: t.GamesPlayed,
	})
}
