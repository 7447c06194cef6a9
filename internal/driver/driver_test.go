package driver

import (
	"context"
	"errors"
	"io"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pfrederiksen/nhl-scores/internal/game"
	"github.com/pfrederiksen/nhl-scores/internal/logger"
)

func TestMain(m *testing.M) {
	logger.SetDefault(logger.New(logger.LevelError, io.Discard, logger.FormatJSON))
	os.Exit(m.Run())
}

// fakeClock advances only when the collector works or the driver sleeps
type fakeClock struct {
	t      time.Time
	sleeps []time.Duration
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) sleep(_ context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)
	c.t = c.t.Add(d)
	return nil
}

type fakeCollector struct {
	clock    *fakeClock
	cost     time.Duration
	failures map[int]error
	calls    []int
}

func (f *fakeCollector) CollectSeason(_ context.Context, year int) (*game.SeasonGames, error) {
	f.calls = append(f.calls, year)
	if f.clock != nil {
		f.clock.t = f.clock.t.Add(f.cost)
	}
	if err := f.failures[year]; err != nil {
		return nil, err
	}

	season := game.NewSeasonGames()
	season.RegularStatus = game.TablePresent
	season.PlayoffStatus = game.TablePresent
	season.Regular = append(season.Regular, game.New([]game.Field{
		{Name: game.FieldDate, Value: "2016-10-12"},
		{Name: game.FieldHomeGoals, Value: "3"},
		{Name: game.FieldVisitorGoals, Value: "2"},
	}, nil))
	return season, nil
}

func newTestDriver(c *fakeCollector, clock *fakeClock, delay time.Duration) *Driver {
	return New(c, WithMinDelay(delay), WithClock(clock.now, clock.sleep))
}

func TestRun_AllYears(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := &fakeCollector{clock: clock, cost: 200 * time.Millisecond}

	archive, report, err := newTestDriver(c, clock, time.Second).Run(context.Background(), 1918, 1921)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := []int{1918, 1919, 1920, 1921}
	if !reflect.DeepEqual(c.calls, want) {
		t.Errorf("collected %v, want ascending %v", c.calls, want)
	}
	if !reflect.DeepEqual(archive.Years(), want) {
		t.Errorf("archive years = %v, want %v", archive.Years(), want)
	}
	if !report.OK() || report.Games != 4 {
		t.Errorf("report = %+v", report)
	}
	if _, err := uuid.Parse(archive.RunID); err != nil {
		t.Errorf("RunID %q is not a UUID: %v", archive.RunID, err)
	}
}

func TestRun_Delay(t *testing.T) {
	tests := []struct {
		name       string
		cost       time.Duration
		delay      time.Duration
		wantSleeps []time.Duration
	}{
		{
			name:       "fast requests wait out the remainder",
			cost:       300 * time.Millisecond,
			delay:      time.Second,
			wantSleeps: []time.Duration{700 * time.Millisecond, 700 * time.Millisecond},
		},
		{
			name:       "slow requests do not wait",
			cost:       1500 * time.Millisecond,
			delay:      time.Second,
			wantSleeps: nil,
		},
		{
			name:       "zero delay",
			cost:       10 * time.Millisecond,
			delay:      0,
			wantSleeps: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
			c := &fakeCollector{clock: clock, cost: tt.cost}

			if _, _, err := newTestDriver(c, clock, tt.delay).Run(context.Background(), 2000, 2002); err != nil {
				t.Fatalf("Run() error = %v", err)
			}

			// No sleep after the last year
			if !reflect.DeepEqual(clock.sleeps, tt.wantSleeps) {
				t.Errorf("sleeps = %v, want %v", clock.sleeps, tt.wantSleeps)
			}
		})
	}
}

func TestRun_FailureContinues(t *testing.T) {
	clock := &fakeClock{}
	c := &fakeCollector{
		clock:    clock,
		failures: map[int]error{1919: errors.New("unexpected status code: 503")},
	}

	archive, report, err := newTestDriver(c, clock, time.Second).Run(context.Background(), 1918, 1920)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !reflect.DeepEqual(c.calls, []int{1918, 1919, 1920}) {
		t.Errorf("calls = %v, run should continue past a failure", c.calls)
	}
	if !reflect.DeepEqual(archive.Years(), []int{1918, 1920}) {
		t.Errorf("archive years = %v", archive.Years())
	}
	if archive.Failures[1919] != "unexpected status code: 503" {
		t.Errorf("Failures = %v", archive.Failures)
	}
	if report.OK() || len(report.Failed) != 1 || report.Failed[0].Year != 1919 {
		t.Errorf("report.Failed = %+v", report.Failed)
	}
}

func TestRun_StartAfterEnd(t *testing.T) {
	c := &fakeCollector{}
	_, _, err := New(c).Run(context.Background(), 2000, 1999)
	if err == nil {
		t.Fatal("Run() expected error for start > end")
	}
	if len(c.calls) != 0 {
		t.Errorf("collector called %d times, want none", len(c.calls))
	}
}

func TestRun_SingleYear(t *testing.T) {
	clock := &fakeClock{}
	c := &fakeCollector{clock: clock}

	archive, _, err := newTestDriver(c, clock, time.Second).Run(context.Background(), 2016, 2016)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(archive.Seasons) != 1 || len(clock.sleeps) != 0 {
		t.Errorf("seasons = %d, sleeps = %v", len(archive.Seasons), clock.sleeps)
	}
}

func TestRun_CanceledDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := &fakeCollector{}
	d := New(c,
		WithMinDelay(time.Second),
		WithClock(time.Now, func(ctx context.Context, _ time.Duration) error {
			cancel()
			return ctx.Err()
		}),
	)

	archive, report, err := d.Run(ctx, 1918, 1925)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if archive == nil || report == nil {
		t.Fatal("partial archive and report should be returned")
	}
	if !reflect.DeepEqual(archive.Years(), []int{1918}) {
		t.Errorf("archive years = %v, want [1918]", archive.Years())
	}
}

func TestRun_OnSeason(t *testing.T) {
	clock := &fakeClock{}
	d := newTestDriver(&fakeCollector{clock: clock}, clock, 0)

	var seen [][3]int
	d.OnSeason = func(year, index, total int) {
		seen = append(seen, [3]int{year, index, total})
	}

	if _, _, err := d.Run(context.Background(), 1990, 1991); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := [][3]int{{1990, 0, 2}, {1991, 1, 2}}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("OnSeason calls = %v, want %v", seen, want)
	}
}

func TestSleepContext(t *testing.T) {
	if err := sleepContext(context.Background(), time.Millisecond); err != nil {
		t.Errorf("sleepContext() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("sleepContext() error = %v, want context.Canceled", err)
	}
}
