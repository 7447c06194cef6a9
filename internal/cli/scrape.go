package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/pfrederiksen/nhl-scores/internal/config"
	"github.com/pfrederiksen/nhl-scores/internal/driver"
	"github.com/pfrederiksen/nhl-scores/internal/game"
	"github.com/pfrederiksen/nhl-scores/internal/logger"
	"github.com/pfrederiksen/nhl-scores/internal/scraper"
	"github.com/pfrederiksen/nhl-scores/internal/storage"
	"github.com/spf13/cobra"
)

type scrapeOptions struct {
	start     int
	end       int
	output    string
	minDelay  float64
	baseURL   string
	userAgent string
	timeout   time.Duration
	fetcher   string
	format    string
	spinner   bool
}

func newScrapeCmd(a *app) *cobra.Command {
	opts := &scrapeOptions{}

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Collect season results into a JSON archive",
		Long: `Fetch the results page of every season from --start to --end and
save all regular season and playoff games to a JSON archive.

Years are season-ending years: 2016 is the 2015-2016 season. Seasons that
cannot be fetched are recorded as failures and the run continues. The archive
is always written, even when some seasons failed or the run was interrupted.

Exit codes: 0 every season collected, 2 some seasons failed, 1 fatal error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, a, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.start, "start", "a", game.FirstSeason, "First season-ending year (e.g. 2016 for 2015-2016)")
	cmd.Flags().IntVarP(&opts.end, "end", "b", 0, "Last season-ending year (default: the current season)")
	cmd.Flags().StringVar(&opts.output, "output", storage.DefaultPath, "Output archive path")
	cmd.Flags().Float64Var(&opts.minDelay, "min-delay", driver.DefaultMinDelay.Seconds(), "Minimum seconds between season requests")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", scraper.DefaultBaseURL, "Base URL of the results site")
	cmd.Flags().StringVar(&opts.userAgent, "user-agent", scraper.UserAgent, "User-Agent header sent with requests")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", scraper.Timeout, "Timeout for a single page request")
	cmd.Flags().StringVar(&opts.fetcher, "fetcher", config.FetcherHTTP, "Page fetcher: http or browser")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Report format: text or json")
	cmd.Flags().BoolVar(&opts.spinner, "spinner", false, "Show a progress spinner")

	return cmd
}

// apply overlays explicitly set flags on the scrape config
func (o *scrapeOptions) apply(cmd *cobra.Command, cfg *config.ScrapeConfig) {
	flags := cmd.Flags()
	if flags.Changed("start") {
		cfg.StartYear = o.start
	}
	if flags.Changed("end") {
		cfg.EndYear = o.end
	}
	if flags.Changed("output") {
		cfg.Output = o.output
	}
	if flags.Changed("min-delay") {
		cfg.MinDelay = time.Duration(o.minDelay * float64(time.Second))
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = o.baseURL
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent = o.userAgent
	}
	if flags.Changed("timeout") {
		cfg.Timeout = o.timeout
	}
	if flags.Changed("fetcher") {
		cfg.Fetcher = o.fetcher
	}
}

func newFetcher(cfg config.ScrapeConfig) (scraper.Fetcher, func(), error) {
	switch cfg.Fetcher {
	case config.FetcherHTTP:
		s := scraper.New(
			scraper.WithBaseURL(cfg.BaseURL),
			scraper.WithUserAgent(cfg.UserAgent),
			scraper.WithTimeout(cfg.Timeout),
		)
		return s, func() {}, nil
	case config.FetcherBrowser:
		b := scraper.NewBrowserFetcher(cfg.BaseURL, cfg.Timeout)
		return b, b.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown fetcher %q (must be 'http' or 'browser')", cfg.Fetcher)
	}
}

func runScrape(cmd *cobra.Command, a *app, opts *scrapeOptions) error {
	format, err := parseFormat(opts.format)
	if err != nil {
		return err
	}

	cfg := a.cfg.Scrape
	opts.apply(cmd, &cfg)
	if cfg.EndYear == 0 {
		cfg.EndYear = game.DefaultEndYear(a.now())
	}

	check := *a.cfg
	check.Scrape = cfg
	if err := check.Validate(); err != nil {
		return err
	}

	store, err := storage.New(cfg.Output)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	fetcher, closeFetcher, err := newFetcher(cfg)
	if err != nil {
		return err
	}
	defer closeFetcher()

	drv := driver.New(
		scraper.NewCollector(fetcher),
		driver.WithMinDelay(cfg.MinDelay),
		driver.WithSource(cfg.BaseURL),
	)

	stopSpinner := func() {}
	if opts.spinner {
		sp := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
		drv.OnSeason = func(year, index, total int) {
			sp.Lock()
			sp.Suffix = fmt.Sprintf(" Getting game results for the %s season (%d/%d)", game.SeasonLabel(year), index+1, total)
			sp.Unlock()
		}
		sp.Start()
		stopSpinner = sp.Stop
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := a.now()
	archive, report, runErr := drv.Run(ctx, cfg.StartYear, cfg.EndYear)
	stopSpinner()
	if archive == nil {
		return runErr
	}

	logger.Info("Writing archive", logger.Fields{"path": store.Path(), "games": report.Games})
	if err := store.SaveArchive(archive); err != nil {
		return fmt.Errorf("saving archive: %w", err)
	}

	result := &ScrapeResult{
		RunID:   archive.RunID,
		Output:  store.Path(),
		Start:   cfg.StartYear,
		End:     cfg.EndYear,
		Elapsed: a.now().Sub(started).Round(time.Millisecond).String(),
		Report:  report,
		Metrics: logger.GetMetricsSnapshot(),
	}
	if err := WriteScrapeResult(cmd.OutOrStdout(), result, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Interrupted; partial archive saved.")
		}
		return runErr
	}
	if !report.OK() {
		return &ExitCodeError{Code: ExitPartial}
	}
	return nil
}
