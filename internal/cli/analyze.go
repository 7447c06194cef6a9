package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pfrederiksen/nhl-scores/internal/chart"
	"github.com/pfrederiksen/nhl-scores/internal/config"
	"github.com/pfrederiksen/nhl-scores/internal/filter"
	"github.com/pfrederiksen/nhl-scores/internal/game"
	"github.com/pfrederiksen/nhl-scores/internal/logger"
	"github.com/pfrederiksen/nhl-scores/internal/stats"
	"github.com/pfrederiksen/nhl-scores/internal/storage"
	"github.com/spf13/cobra"
)

// Density color scale limits of the per-season charts
const (
	seasonDensityMax    = 0.2
	seasonDensityMin    = 1e-10
	seasonLogDensityMin = 1e-3
)

type analyzeOptions struct {
	input        string
	outputDir    string
	format       string
	years        string
	types        string
	teams        string
	excludeYears []int
	perYear      bool
	noPlots      bool
	sort         string
}

func newAnalyzeCmd(a *app) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Print score statistics and render charts from an archive",
		Long: `Analyze the final scores stored in an archive written by scrape.

Prints the winning, losing, tie and differential score ranges, the games with
the largest differential and the frequency of every final score. Unless
--no-plots is given, writes the score distribution heat maps (linear and log
scale) and a four-panel chart of scoring trends per season.`,
		Example: `  nhl-scores analyze
  nhl-scores analyze --years 1990-2000 --type playoff
  nhl-scores analyze --team Bruins --per-year --exclude-year 2018`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", storage.DefaultPath, "Archive to analyze")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", ".", "Directory for chart images")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&opts.years, "years", "", "Season range, e.g. 2016, 1990-2000 or 1990-")
	cmd.Flags().StringVar(&opts.types, "type", "", "Game types: regular, playoff or both (comma-separated)")
	cmd.Flags().StringVar(&opts.teams, "team", "", "Only games involving these teams (comma-separated, substring match)")
	cmd.Flags().IntSliceVar(&opts.excludeYears, "exclude-year", nil, "Season to leave out of trends and per-season output (repeatable)")
	cmd.Flags().BoolVar(&opts.perYear, "per-year", false, "Print statistics and charts for every season")
	cmd.Flags().BoolVar(&opts.noPlots, "no-plots", false, "Do not render charts")
	cmd.Flags().StringVar(&opts.sort, "sort", string(SortByCount), "Score table order: count, score or recent")

	return cmd
}

// apply overlays explicitly set flags on the analyze config
func (o *analyzeOptions) apply(cmd *cobra.Command, cfg *config.AnalyzeConfig) {
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input = o.input
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = o.outputDir
	}
	if flags.Changed("exclude-year") {
		cfg.ExcludeYears = o.excludeYears
	}
	if flags.Changed("per-year") {
		cfg.PerYear = o.perYear
	}
	if flags.Changed("no-plots") {
		cfg.Plots = !o.noPlots
	}
}

// buildFilter converts the selection flags into a filter
func (o *analyzeOptions) buildFilter(excludeYears []int) (*filter.Filter, error) {
	f := filter.NewFilter()

	if o.years != "" {
		from, to, err := filter.ParseYearRange(o.years)
		if err != nil {
			return nil, err
		}
		f.FromYear, f.ToYear = from, to
	}

	if o.types != "" {
		types, err := filter.ParseTypes(o.types)
		if err != nil {
			return nil, err
		}
		f.Types = types
	}

	if o.teams != "" {
		f.Teams = filter.ParseList(o.teams)
	}

	f.ExcludeYears = append(f.ExcludeYears, excludeYears...)
	return f, nil
}

func runAnalyze(cmd *cobra.Command, a *app, opts *analyzeOptions) error {
	format, err := parseFormat(opts.format)
	if err != nil {
		return err
	}
	order, err := parseSortOrder(opts.sort)
	if err != nil {
		return err
	}

	cfg := a.cfg.Analyze
	opts.apply(cmd, &cfg)

	f, err := opts.buildFilter(cfg.ExcludeYears)
	if err != nil {
		return err
	}

	store, err := storage.New(cfg.Input)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	archive, err := store.LoadArchive()
	if err != nil {
		return fmt.Errorf("loading archive: %w", err)
	}

	logger.Debug("Archive loaded", logger.Fields{
		"path":    store.Path(),
		"run_id":  archive.RunID,
		"seasons": len(archive.Seasons),
		"games":   archive.GameCount(),
		"filter":  f.String(),
	})

	byYear := f.ByYear(archive)
	result := &AnalysisResult{
		Filter:  f.String(),
		Summary: stats.Analyze(f.Apply(archive)),
		Trends:  stats.Trends(byYear),
		Now:     a.now(),
		Order:   order,
	}

	if cfg.PerYear {
		for _, year := range filter.Years(byYear) {
			result.Seasons = append(result.Seasons, SeasonSummary{
				Year:    year,
				Season:  game.SeasonLabel(year),
				Summary: stats.Analyze(byYear[year]),
			})
		}
	}

	if cfg.Plots {
		plots, err := renderPlots(cfg.OutputDir, archive, result)
		if err != nil {
			return err
		}
		result.Plots = plots
	}

	if err := WriteAnalysis(cmd.OutOrStdout(), result, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// renderPlots writes every chart into dir and returns their paths
func renderPlots(dir string, archive *game.Archive, result *AnalysisResult) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	title := "NHL Score Distribution"
	if len(archive.UpdatedAt) >= len("2006-01-02") {
		title = fmt.Sprintf("NHL Score Distribution Through %s", archive.UpdatedAt[:len("2006-01-02")])
	}

	var plots []string
	render := func(name string, grid *stats.ScoreGrid, opts chart.DistributionOptions) error {
		path := filepath.Join(dir, name)
		if err := chart.ScoreDistribution(grid, path, opts); err != nil {
			return fmt.Errorf("rendering %s: %w", name, err)
		}
		plots = append(plots, path)
		return nil
	}

	grid := stats.NewScoreGrid(result.Summary, stats.DefaultLosingBins, stats.DefaultWinningBins)
	if err := render("nhlScoreDist.png", grid, chart.DistributionOptions{Title: title}); err != nil {
		return nil, err
	}
	if err := render("nhlScoreDist-log.png", grid, chart.DistributionOptions{Title: title + " (Log scale)", Log: true}); err != nil {
		return nil, err
	}

	for _, season := range result.Seasons {
		if season.Summary.Scored == 0 {
			continue
		}
		density := stats.NewScoreGrid(season.Summary, stats.DefaultLosingBins, stats.DefaultWinningBins).Normalize()
		seasonTitle := fmt.Sprintf("NHL Score Distribution For %d", season.Year)

		if err := render(fmt.Sprintf("nhlScoreDist_%d.png", season.Year), density, chart.DistributionOptions{
			Title: seasonTitle,
			Min:   seasonDensityMin,
			Max:   seasonDensityMax,
		}); err != nil {
			return nil, err
		}
		if err := render(fmt.Sprintf("nhlScoreDist-log_%d.png", season.Year), density, chart.DistributionOptions{
			Title: seasonTitle + " (Log scale)",
			Log:   true,
			Min:   seasonLogDensityMin,
			Max:   seasonDensityMax,
		}); err != nil {
			return nil, err
		}
	}

	if len(result.Trends) > 0 {
		first, last := result.Trends[0].Year, result.Trends[len(result.Trends)-1].Year
		path := filepath.Join(dir, "plot.png")
		if err := chart.Trends(result.Trends, fmt.Sprintf("NHL Scoring Trends (%d-%d)", first, last), path); err != nil {
			return nil, fmt.Errorf("rendering plot.png: %w", err)
		}
		plots = append(plots, path)
	}

	logger.Info("Charts written", logger.Fields{"dir": dir, "count": len(plots)})
	return plots, nil
}
