// Package config loads nhl-scores settings from a YAML file.
//
// Every setting has a default (see Default). A config file only needs to name
// the settings it changes; command-line flags that are set explicitly win over
// both.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pfrederiksen/nhl-scores/internal/game"
	"github.com/pfrederiksen/nhl-scores/internal/logger"
	"github.com/pfrederiksen/nhl-scores/internal/scraper"
	"github.com/pfrederiksen/nhl-scores/internal/storage"
	"gopkg.in/yaml.v3"
)

// Fetcher names accepted by scrape.fetcher
const (
	FetcherHTTP    = "http"
	FetcherBrowser = "browser"
)

// Config holds the settings of every subcommand
type Config struct {
	Scrape  ScrapeConfig  `yaml:"scrape"`
	Analyze AnalyzeConfig `yaml:"analyze"`
	Serve   ServeConfig   `yaml:"serve"`
	Log     LogConfig     `yaml:"log"`
}

// ScrapeConfig controls how seasons are collected
type ScrapeConfig struct {
	StartYear int           `yaml:"start_year"`
	EndYear   int           `yaml:"end_year"` // 0 means the current season
	Output    string        `yaml:"output"`
	MinDelay  time.Duration `yaml:"min_delay"`
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
	Fetcher   string        `yaml:"fetcher"`
}

// AnalyzeConfig controls the analyze subcommand
type AnalyzeConfig struct {
	Input        string `yaml:"input"`
	OutputDir    string `yaml:"output_dir"`
	ExcludeYears []int  `yaml:"exclude_years"`
	PerYear      bool   `yaml:"per_year"`
	Plots        bool   `yaml:"plots"`
}

// ServeConfig configures the HTTP API
type ServeConfig struct {
	Input           string        `yaml:"input"`
	Addr            string        `yaml:"addr"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LogConfig selects the log level and output format
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Scrape: ScrapeConfig{
			StartYear: game.FirstSeason,
			Output:    storage.DefaultPath,
			MinDelay:  time.Second,
			BaseURL:   scraper.DefaultBaseURL,
			UserAgent: scraper.UserAgent,
			Timeout:   scraper.Timeout,
			Fetcher:   FetcherHTTP,
		},
		Analyze: AnalyzeConfig{
			Input:        storage.DefaultPath,
			OutputDir:    ".",
			ExcludeYears: []int{},
			Plots:        true,
		},
		Serve: ServeConfig{
			Input:           storage.DefaultPath,
			Addr:            ":8080",
			AllowedOrigins:  []string{"*"},
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  string(logger.LevelInfo),
			Format: string(logger.FormatJSON),
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that settings are usable
func (c *Config) Validate() error {
	var errs []error

	if c.Scrape.StartYear < game.FirstSeason {
		errs = append(errs, fmt.Errorf("scrape.start_year %d is before the first season (%d)", c.Scrape.StartYear, game.FirstSeason))
	}
	if c.Scrape.EndYear != 0 && c.Scrape.EndYear < c.Scrape.StartYear {
		errs = append(errs, fmt.Errorf("scrape.end_year %d is before scrape.start_year %d", c.Scrape.EndYear, c.Scrape.StartYear))
	}
	if c.Scrape.MinDelay < 0 {
		errs = append(errs, fmt.Errorf("scrape.min_delay must not be negative"))
	}
	if c.Scrape.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("scrape.timeout must be positive"))
	}
	if c.Scrape.Fetcher != FetcherHTTP && c.Scrape.Fetcher != FetcherBrowser {
		errs = append(errs, fmt.Errorf("scrape.fetcher must be %q or %q, got %q", FetcherHTTP, FetcherBrowser, c.Scrape.Fetcher))
	}
	if c.Scrape.Output == "" {
		errs = append(errs, fmt.Errorf("scrape.output is required"))
	}
	if c.Analyze.Input == "" {
		errs = append(errs, fmt.Errorf("analyze.input is required"))
	}
	if c.Serve.Addr == "" {
		errs = append(errs, fmt.Errorf("serve.addr is required"))
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if _, err := logger.ParseFormat(c.Log.Format); err != nil {
		errs = append(errs, fmt.Errorf("log.format: %w", err))
	}

	return errors.Join(errs...)
}
