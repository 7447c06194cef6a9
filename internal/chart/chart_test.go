package chart

import (
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/pfrederiksen/nhl-scores/internal/game"
	"github.com/pfrederiksen/nhl-scores/internal/stats"
)

func sampleGames() []game.Game {
	scores := [][2]string{{"3", "2"}, {"2", "3"}, {"4", "1"}, {"1", "1"}, {"5", "0"}, {"3", "2"}}
	games := make([]game.Game, 0, len(scores))
	for _, s := range scores {
		games = append(games, game.New([]game.Field{
			{Name: game.FieldDate, Value: "2016-01-01"},
			{Name: game.FieldHomeGoals, Value: s[0]},
			{Name: game.FieldVisitorGoals, Value: s[1]},
		}, nil))
	}
	return games
}

func assertPNG(t *testing.T, path string) {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close() // nolint:errcheck

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("%s is not a PNG: %v", path, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		t.Errorf("%s has empty bounds %v", path, b)
	}
}

func TestScoreDistribution(t *testing.T) {
	grid := stats.NewScoreGrid(stats.Analyze(sampleGames()), stats.DefaultLosingBins, stats.DefaultWinningBins)
	dir := t.TempDir()

	tests := []struct {
		name string
		grid *stats.ScoreGrid
		opts DistributionOptions
	}{
		{"counts", grid, DistributionOptions{Title: "NHL Score Distribution"}},
		{"log counts", grid, DistributionOptions{Title: "NHL Score Distribution (Log scale)", Log: true}},
		{"density", grid.Normalize(), DistributionOptions{Title: "2016", Min: 1e-10, Max: 0.2}},
		{"log density", grid.Normalize(), DistributionOptions{Title: "2016 (Log scale)", Log: true, Min: 1e-3, Max: 0.2}},
		{"empty grid", stats.NewScoreGrid(stats.Analyze(nil), 10, 17), DistributionOptions{Title: "empty", Log: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".png")
			if err := ScoreDistribution(tt.grid, path, tt.opts); err != nil {
				t.Fatalf("ScoreDistribution() error = %v", err)
			}
			assertPNG(t, path)
		})
	}
}

func TestScoreDistribution_BadPath(t *testing.T) {
	grid := stats.NewScoreGrid(stats.Analyze(sampleGames()), 10, 17)
	path := filepath.Join(t.TempDir(), "missing", "dist.png")
	if err := ScoreDistribution(grid, path, DistributionOptions{}); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}

func TestTrends(t *testing.T) {
	trends := stats.Trends(map[int][]game.Game{
		2003: sampleGames(),
		2004: sampleGames()[:3],
		2005: nil,
		2006: sampleGames()[2:],
	})

	path := filepath.Join(t.TempDir(), "plot.png")
	if err := Trends(trends, "NHL Scoring Trends (2003-2006)", path); err != nil {
		t.Fatalf("Trends() error = %v", err)
	}
	assertPNG(t, path)
}

func TestSplitAtNaN(t *testing.T) {
	trends := []stats.YearTrend{
		{Year: 1, MeanWinning: 3},
		{Year: 2, MeanWinning: 4},
		{Year: 3, MeanWinning: math.NaN()},
		{Year: 4, MeanWinning: 5},
		{Year: 5, MeanWinning: math.NaN()},
	}

	segments := splitAtNaN(trends, func(t stats.YearTrend) float64 { return t.MeanWinning })
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	if len(segments[0]) != 2 || len(segments[1]) != 1 || segments[1][0].X != 4 {
		t.Errorf("segments = %v", segments)
	}
}

func TestIntegerTicks(t *testing.T) {
	ticks := integerTicks{}.Ticks(0, 2)

	var labels []string
	for _, tick := range ticks {
		if tick.Label != "" {
			labels = append(labels, tick.Label)
		}
	}
	if len(labels) != 2 || labels[0] != "0" || labels[1] != "1" {
		t.Errorf("labels = %v, want [0 1]", labels)
	}
}
