// Package driver runs a scrape over a range of seasons.
//
// Seasons are collected one at a time in ascending order, with a minimum delay
// between consecutive requests. A season that fails is logged and recorded in the
// archive, and the run moves on to the next year.
package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pfrederiksen/nhl-scores/internal/game"
	"github.com/pfrederiksen/nhl-scores/internal/logger"
)

// DefaultMinDelay is the minimum time between the start of two season requests
const DefaultMinDelay = time.Second

// SeasonCollector collects the games of one season
type SeasonCollector interface {
	CollectSeason(ctx context.Context, year int) (*game.SeasonGames, error)
}

// Driver walks a year range through a SeasonCollector
type Driver struct {
	collector SeasonCollector
	minDelay  time.Duration
	source    string

	// OnSeason is called before each year is collected
	OnSeason func(year, index, total int)

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// Option configures a Driver
type Option func(*Driver)

// WithMinDelay sets the minimum spacing between season requests
func WithMinDelay(d time.Duration) Option {
	return func(dr *Driver) {
		if d < 0 {
			d = 0
		}
		dr.minDelay = d
	}
}

// WithSource records where the pages come from in the archive
func WithSource(source string) Option {
	return func(dr *Driver) {
		dr.source = source
	}
}

// WithClock replaces the time source and the sleep function
func WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(dr *Driver) {
		dr.now = now
		dr.sleep = sleep
	}
}

// New creates a driver
func New(collector SeasonCollector, opts ...Option) *Driver {
	d := &Driver{
		collector: collector,
		minDelay:  DefaultMinDelay,
		now:       time.Now,
		sleep:     sleepContext,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run collects every season from start to end inclusive.
//
// Per-year failures do not stop the run; they are recorded in the archive's
// Failures. If ctx is canceled the seasons collected so far are returned
// together with the context error.
func (d *Driver) Run(ctx context.Context, start, end int) (*game.Archive, *game.Report, error) {
	if start > end {
		return nil, nil, fmt.Errorf("start year %d is after end year %d", start, end)
	}

	archive := game.NewArchive()
	archive.RunID = uuid.NewString()
	archive.Source = d.source

	total := end - start + 1
	logger.Info("Starting scrape", logger.Fields{
		"run_id": archive.RunID,
		"start":  start,
		"end":    end,
		"delay":  d.minDelay.String(),
	})

	var runErr error
	for year := start; year <= end; year++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		if d.OnSeason != nil {
			d.OnSeason(year, year-start, total)
		}

		began := d.now()
		result := d.collect(ctx, year)
		if result.Err != nil && ctx.Err() != nil {
			// Canceled mid-request; the year was not really attempted
			runErr = ctx.Err()
			break
		}
		archive.Add(result)
		elapsed := d.now().Sub(began)
		logger.RecordTiming("scrape.season", elapsed)

		if year == end {
			break
		}
		if wait := d.minDelay - elapsed; wait > 0 {
			logger.Debug("Enforcing minimum delay between seasons", logger.Fields{
				"elapsed": elapsed.String(),
				"wait":    wait.String(),
			})
			if err := d.sleep(ctx, wait); err != nil {
				runErr = err
				break
			}
		}
	}

	report := game.NewReport(archive)
	logger.SetGauge("scrape.games", float64(report.Games))
	logger.Info("Scrape finished", logger.Fields{
		"run_id":    archive.RunID,
		"succeeded": len(report.Succeeded),
		"failed":    len(report.Failed),
		"games":     report.Games,
	})

	if runErr != nil {
		return archive, report, fmt.Errorf("scrape interrupted: %w", runErr)
	}
	return archive, report, nil
}

func (d *Driver) collect(ctx context.Context, year int) game.SeasonResult {
	season, err := d.collector.CollectSeason(ctx, year)
	if err != nil {
		logger.Error("Season fetch failed", logger.Fields{"year": year}, err)
		logger.IncrCounter("scrape.seasons.failed")
		return game.SeasonResult{Year: year, Err: err}
	}

	logger.Info("Season collected", logger.Fields{
		"year":    year,
		"season":  game.SeasonLabel(year),
		"regular": len(season.Regular),
		"playoff": len(season.Playoff),
	})
	if season.Empty() {
		logger.Warn("Season has an empty game list", logger.Fields{
			"year":           year,
			"regular":        len(season.Regular),
			"playoff":        len(season.Playoff),
			"regular_status": season.RegularStatus.String(),
			"playoff_status": season.PlayoffStatus.String(),
		})
	}
	logger.IncrCounter("scrape.seasons.ok")

	return game.SeasonResult{Year: year, Games: season}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
