package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/nhl-scores/internal/scraper"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nhl-scores.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.Scrape.StartYear != 1918 {
		t.Errorf("StartYear = %d, want 1918", cfg.Scrape.StartYear)
	}
	if cfg.Scrape.MinDelay != time.Second {
		t.Errorf("MinDelay = %v, want 1s", cfg.Scrape.MinDelay)
	}
	if cfg.Scrape.Output != "gameData.json" || cfg.Analyze.Input != "gameData.json" {
		t.Errorf("archive paths = %q, %q", cfg.Scrape.Output, cfg.Analyze.Input)
	}
	if cfg.Scrape.BaseURL != scraper.DefaultBaseURL {
		t.Errorf("BaseURL = %q", cfg.Scrape.BaseURL)
	}
	if !cfg.Analyze.Plots {
		t.Error("plots should be enabled by default")
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
scrape:
  start_year: 1990
  end_year: 2000
  min_delay: 2500ms
  fetcher: browser
analyze:
  exclude_years: [2018, 2021]
  plots: false
serve:
  addr: ":9090"
  allowed_origins:
    - http://localhost:3000
log:
  level: debug
  format: text
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Scrape.StartYear != 1990 || cfg.Scrape.EndYear != 2000 {
		t.Errorf("years = %d-%d, want 1990-2000", cfg.Scrape.StartYear, cfg.Scrape.EndYear)
	}
	if cfg.Scrape.MinDelay != 2500*time.Millisecond {
		t.Errorf("MinDelay = %v, want 2.5s", cfg.Scrape.MinDelay)
	}
	if cfg.Scrape.Fetcher != FetcherBrowser {
		t.Errorf("Fetcher = %q", cfg.Scrape.Fetcher)
	}
	if !reflect.DeepEqual(cfg.Analyze.ExcludeYears, []int{2018, 2021}) {
		t.Errorf("ExcludeYears = %v", cfg.Analyze.ExcludeYears)
	}
	if cfg.Analyze.Plots {
		t.Error("plots should be disabled")
	}
	if cfg.Serve.Addr != ":9090" || !reflect.DeepEqual(cfg.Serve.AllowedOrigins, []string{"http://localhost:3000"}) {
		t.Errorf("serve = %+v", cfg.Serve)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("log = %+v", cfg.Log)
	}

	// Untouched settings keep their defaults
	if cfg.Scrape.Output != "gameData.json" {
		t.Errorf("Output = %q, want default", cfg.Scrape.Output)
	}
	if cfg.Scrape.Timeout != scraper.Timeout {
		t.Errorf("Timeout = %v, want default", cfg.Scrape.Timeout)
	}
	if cfg.Serve.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want default", cfg.Serve.ShutdownTimeout)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"malformed yaml", "scrape: [", "failed to parse"},
		{"bad duration", "scrape:\n  min_delay: soon\n", "failed to parse"},
		{"early start", "scrape:\n  start_year: 1900\n", "start_year"},
		{"unknown fetcher", "scrape:\n  fetcher: curl\n", "scrape.fetcher"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"end before start", func(c *Config) { c.Scrape.StartYear, c.Scrape.EndYear = 2000, 1990 }, true},
		{"open end", func(c *Config) { c.Scrape.EndYear = 0 }, false},
		{"negative delay", func(c *Config) { c.Scrape.MinDelay = -time.Second }, true},
		{"zero delay", func(c *Config) { c.Scrape.MinDelay = 0 }, false},
		{"zero timeout", func(c *Config) { c.Scrape.Timeout = 0 }, true},
		{"no output", func(c *Config) { c.Scrape.Output = "" }, true},
		{"no addr", func(c *Config) { c.Serve.Addr = "" }, true},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
