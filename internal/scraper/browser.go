package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// BrowserFetcher renders season pages in headless Chrome.
// The browser is started on the first fetch and shared by later ones.
type BrowserFetcher struct {
	baseURL string
	timeout time.Duration

	browserCtx    context.Context
	cancelAlloc   context.CancelFunc
	cancelBrowser context.CancelFunc
}

// NewBrowserFetcher creates a fetcher backed by a headless Chrome instance
func NewBrowserFetcher(baseURL string, timeout time.Duration) *BrowserFetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = Timeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Headless,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	return &BrowserFetcher{
		baseURL:       baseURL,
		timeout:       timeout,
		browserCtx:    browserCtx,
		cancelAlloc:   cancelAlloc,
		cancelBrowser: cancelBrowser,
	}
}

// FetchSeason navigates to the season page and returns the rendered document
func (b *BrowserFetcher) FetchSeason(ctx context.Context, year int) ([]byte, error) {
	url := SeasonURL(b.baseURL, year)

	tabCtx, cancel := chromedp.NewContext(b.browserCtx)
	defer cancel()

	timeoutCtx, timeoutCancel := context.WithTimeout(tabCtx, b.timeout)
	defer timeoutCancel()

	// chromedp contexts derive from the browser, not the caller
	stop := context.AfterFunc(ctx, timeoutCancel)
	defer stop()

	var pageHTML string
	err := chromedp.Run(timeoutCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &pageHTML, chromedp.ByQuery),
	)
	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return nil, &FetchError{Year: year, URL: url, Err: fmt.Errorf("rendering page: %w", err)}
	}

	return []byte(pageHTML), nil
}

// Close shuts the browser down
func (b *BrowserFetcher) Close() {
	b.cancelBrowser()
	b.cancelAlloc()
}
