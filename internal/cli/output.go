package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/pfrederiksen/nhl-scores/internal/game"
	"github.com/pfrederiksen/nhl-scores/internal/logger"
	"github.com/pfrederiksen/nhl-scores/internal/stats"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ScrapeResult describes a finished scrape run
type ScrapeResult struct {
	RunID   string          `json:"run_id"`
	Output  string          `json:"output"`
	Start   int             `json:"start"`
	End     int             `json:"end"`
	Elapsed string          `json:"elapsed"`
	Report  *game.Report    `json:"report"`
	Metrics logger.Snapshot `json:"metrics"`
}

// SeasonSummary is the analysis of a single season
type SeasonSummary struct {
	Year    int            `json:"year"`
	Season  string         `json:"season"`
	Summary *stats.Summary `json:"summary"`
}

// AnalysisResult contains the data printed by analyze
type AnalysisResult struct {
	Filter  string            `json:"filter"`
	Summary *stats.Summary    `json:"summary"`
	Seasons []SeasonSummary   `json:"seasons,omitempty"`
	Trends  []stats.YearTrend `json:"trends"`
	Plots   []string          `json:"plots,omitempty"`

	// Text output only
	Now   time.Time `json:"-"`
	Order SortOrder `json:"-"`
}

// WriteScrapeResult writes a scrape report in the specified format
func WriteScrapeResult(w io.Writer, result *ScrapeResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeScrapeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteAnalysis writes analysis results in the specified format
func WriteAnalysis(w io.Writer, result *AnalysisResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeAnalysisText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func writeScrapeText(w io.Writer, result *ScrapeResult) error {
	r := result.Report

	fmt.Fprintf(w, "Scraped seasons %s to %s in %s\n", game.SeasonLabel(result.Start), game.SeasonLabel(result.End), result.Elapsed)
	fmt.Fprintf(w, "Wrote %d games from %d seasons to %s\n", r.Games, len(r.Succeeded), result.Output)

	if len(r.Failed) > 0 {
		fmt.Fprintf(w, "\nFailed seasons (%d):\n", len(r.Failed))
		for _, f := range r.Failed {
			fmt.Fprintf(w, "  %d: %s\n", f.Year, f.Reason)
		}
	}

	if len(r.EmptyTables) > 0 {
		fmt.Fprintf(w, "\nEmpty game lists (%d):\n", len(r.EmptyTables))
		for _, e := range r.EmptyTables {
			fmt.Fprintf(w, "  %d %s (%s)\n", e.Year, e.Type, e.Status)
		}
	}

	fmt.Fprintf(w, "\nRun ID: %s\n", result.RunID)
	return nil
}

func writeAnalysisText(w io.Writer, result *AnalysisResult) error {
	fmt.Fprintf(w, "Filters: %s\n\n", result.Filter)
	writeSummaryText(w, result.Summary, result.Now, result.Order)

	for _, season := range result.Seasons {
		fmt.Fprintf(w, "\n------- %d (%s)\n", season.Year, season.Season)
		writeSummaryText(w, season.Summary, result.Now, result.Order)
	}

	if len(result.Plots) > 0 {
		fmt.Fprintf(w, "\nWrote %d plots:\n", len(result.Plots))
		for _, path := range result.Plots {
			fmt.Fprintf(w, "  %s\n", path)
		}
	}
	return nil
}

// formatRange renders mean, min and max, or dashes for an empty range
func formatRange(r stats.Range) string {
	if r.N == 0 || math.IsNaN(r.Mean) {
		return "mean: ---, min: ---, max: ---"
	}
	return fmt.Sprintf("mean: %.3f, min: %d, max: %d", r.Mean, r.Min, r.Max)
}

func daysAgo(now, then time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(then.Year(), then.Month(), then.Day(), 0, 0, 0, 0, time.UTC)
	return int(today.Sub(day).Hours() / 24)
}

func writeSummaryText(w io.Writer, s *stats.Summary, now time.Time, order SortOrder) {
	fmt.Fprintf(w, "# games with winner: %d, # tie games: %d\n", s.Decisive, s.Ties)
	if s.Skipped > 0 {
		fmt.Fprintf(w, "# games without a score: %d\n", s.Skipped)
	}
	fmt.Fprintf(w, "Winning score - %s\n", formatRange(s.Winning))
	fmt.Fprintf(w, "Losing score -  %s\n", formatRange(s.Losing))
	fmt.Fprintf(w, "Tie score -     %s\n", formatRange(s.Tie))
	fmt.Fprintf(w, "Goal Diff -     %s\n", formatRange(s.Differential))

	fmt.Fprintf(w, "\nLargest Goal Diff Games: %d (differential %d)\n", len(s.LargestDiffGames), s.LargestDiff)
	for i, g := range s.LargestDiffGames {
		fmt.Fprintf(w, "%d)\n", i+1)
		for _, f := range g.Fields() {
			fmt.Fprintf(w, "  %s: %s\n", f.Name, f.Value)
		}
		if link, ok := g.BoxscoreLink(); ok {
			fmt.Fprintf(w, "  %s: %s\n", game.BoxscoreLinkKey, link)
		}
	}

	fmt.Fprintf(w, "\nOccurrences of each unique score out of %d games played\n", s.Scored)
	fmt.Fprintln(w, "---------------------------------")
	for i, sc := range sortScores(s.Scores, order) {
		last := "unknown"
		if t, ok := sc.LastDate(); ok {
			last = fmt.Sprintf("%s (%d days ago)", sc.Last, daysAgo(now, t))
		}
		fmt.Fprintf(w, "%2d) %2d-%2d, %4d games (%6.3f %%) - last: %s\n", i+1, sc.Winning, sc.Losing, sc.Count, sc.Percent, last)
	}

	fmt.Fprintf(w, "\nOccurrences of each score differential out of %d games played, sorted by differential\n", s.Scored)
	fmt.Fprintln(w, "---------------------------------")
	writeDiffs(w, s.DiffsByValue)

	fmt.Fprintf(w, "\nOccurrences of each score differential out of %d games played, sorted by number of occurrences\n", s.Scored)
	fmt.Fprintln(w, "---------------------------------")
	writeDiffs(w, s.DiffsByCount)
}

func writeDiffs(w io.Writer, diffs []stats.DiffCount) {
	for i, d := range diffs {
		fmt.Fprintf(w, "%2d) %2d, %5d games (%6.3f %%)\n", i+1, d.Diff, d.Count, d.Percent)
	}
}
