package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://www.hockey-reference.com"
	UserAgent      = "nhl-scores/1.0 (github.com/pfrederiksen/nhl-scores)"
	Timeout        = 30 * time.Second
)

// Fetcher retrieves the raw HTML of one season results page
type Fetcher interface {
	FetchSeason(ctx context.Context, year int) ([]byte, error)
}

// SeasonURL returns the results page URL of a season-ending year
func SeasonURL(baseURL string, year int) string {
	return fmt.Sprintf("%s/leagues/NHL_%d_games.html", strings.TrimRight(baseURL, "/"), year)
}

// FetchError describes a season page that could not be retrieved
type FetchError struct {
	Year       int
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetching %s: unexpected status code: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Scraper fetches season pages over plain HTTP
type Scraper struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// Option configures a Scraper
type Option func(*Scraper)

// WithBaseURL points the scraper at another host, e.g. a test server
func WithBaseURL(baseURL string) Option {
	return func(s *Scraper) {
		s.baseURL = baseURL
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		s.userAgent = ua
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		s.client.Timeout = d
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(s *Scraper) {
		s.client = c
	}
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		baseURL:   DefaultBaseURL,
		userAgent: UserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BaseURL returns the host the scraper fetches from
func (s *Scraper) BaseURL() string {
	return s.baseURL
}

// FetchSeason downloads the results page of a season.
// Any failure is returned as a *FetchError.
func (s *Scraper) FetchSeason(ctx context.Context, year int) ([]byte, error) {
	url := SeasonURL(s.baseURL, year)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Year: year, URL: url, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &FetchError{Year: year, URL: url, Err: err}
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Year: year, URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Year: year, URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}

	return body, nil
}
