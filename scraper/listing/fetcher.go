package listing

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"housingbridge/config"
	"housingbridge/models"
	"housingbridge/utils"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// pageLoader returns the HTML of a listing page.
type pageLoader interface {
	load(ctx context.Context, url string) (io.ReadCloser, error)
}

// Fetcher loads listing pages, retrying transient failures, and extracts
// their fields. Page loads are spread through a worker pool so a burst of
// audits does not hammer the listing site.
type Fetcher struct {
	loader pageLoader
	pool   *utils.WorkerPool
	retry  *utils.RetryConfig
	logger *utils.Logger
}

// New creates a Fetcher from cfg: plain HTTP by default, a headless
// browser when cfg.UseBrowser is set.
func New(cfg *config.Config, logger *utils.Logger) *Fetcher {
	var loader pageLoader = &httpLoader{client: &http.Client{Timeout: cfg.FetchTimeout}}
	if cfg.UseBrowser {
		loader = newBrowserLoader(cfg.ChromeBin, cfg.FetchTimeout, logger)
	}
	return newFetcher(loader, cfg, logger)
}

func newFetcher(loader pageLoader, cfg *config.Config, logger *utils.Logger) *Fetcher {
	return &Fetcher{
		loader: loader,
		pool:   utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimit()),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   time.Second,
			Logger:      logger,
		},
		logger: logger,
	}
}

// Fetch loads url and extracts its listing fields.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*models.RawListing, error) {
	var (
		listing models.RawListing
		err     error
	)

	done := make(chan struct{})
	submitErr := f.pool.SubmitContext(ctx, func() {
		defer close(done)
		if err = ctx.Err(); err != nil {
			return
		}
		err = f.retry.Do(ctx, "fetch-listing", func(ctx context.Context) error {
			body, err := f.loader.load(ctx, url)
			if err != nil {
				return err
			}
			defer body.Close()

			doc, err := goquery.NewDocumentFromReader(body)
			if err != nil {
				return fmt.Errorf("parse html: %w", err)
			}
			listing = Extract(doc)
			return nil
		})
	})
	if submitErr != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, submitErr)
	}
	<-done

	if err != nil {
		return nil, err
	}

	listing.URL = url
	listing.FetchedAt = time.Now()
	f.logger.Debug("[listing] %s: price=%d neighborhood=%q desc=%d chars",
		url, listing.Price, listing.Neighborhood, len(listing.Description))
	return &listing, nil
}

// httpLoader fetches pages with a plain GET.
type httpLoader struct {
	client *http.Client
}

func (l *httpLoader) load(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,ja;q=0.8")

	res, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		res.Body.Close()
		return nil, fmt.Errorf("status HTTP %d", res.StatusCode)
	}
	return res.Body, nil
}

// NormalizeURL trims a listing URL and drops its fragment so the same
// listing pasted twice is recognised.
func NormalizeURL(u string) string {
	u = strings.TrimSpace(u)
	if i := strings.IndexByte(u, '#'); i >= 0 {
		u = u[:i]
	}
	return strings.TrimRight(u, "/")
}
