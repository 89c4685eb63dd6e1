package chess

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

const (
	defaultUserAgent = "Cadena-Server/1.0"
	defaultMaxChars  = 4000

	// fetchConcurrency caps parallel page downloads per FetchAll call.
	fetchConcurrency = 4
)

// Fetcher downloads tournament pages. Failures are rendered into the returned
// text instead of being reported as errors, so a missing page only thins out
// the context handed to the model.
type Fetcher struct {
	client       *http.Client
	userAgent    string
	allowedHosts []string
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchClient sets the HTTP client used for page downloads.
func WithFetchClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithAllowedHosts restricts fetching to hosts matching one of the glob
// patterns, e.g. "*.chess-results.com". An empty list allows every host.
func WithAllowedHosts(patterns []string) FetcherOption {
	return func(f *Fetcher) { f.allowedHosts = patterns }
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: 15 * time.Second},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Allowed reports whether rawURL points at a permitted host.
func (f *Fetcher) Allowed(rawURL string) bool {
	return hostAllowed(f.allowedHosts, rawURL)
}

// Fetch returns at most maxChars characters of the page body. Non-success
// statuses and transport errors are returned as a descriptive line.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}
	if !f.Allowed(rawURL) {
		return fmt.Sprintf("Refused to fetch URL %s: host is not allowed", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Sprintf("Error fetching %s: %v", rawURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Sprintf("Error fetching %s: %v", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Sprintf("Failed to fetch URL %s: %d %s", rawURL, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	// Four bytes per character covers any UTF-8 input.
	body, err := io.ReadAll(io.LimitReader(resp.Body, int64(maxChars)*4))
	if err != nil {
		return fmt.Sprintf("Error fetching %s: %v", rawURL, err)
	}
	return truncate(string(body), maxChars)
}

// FetchAll fetches every URL concurrently and returns the pages in input order.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string, maxChars int) []string {
	pages := make([]string, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, u := range urls {
		g.Go(func() error {
			pages[i] = f.Fetch(gctx, u, maxChars)
			return nil
		})
	}
	_ = g.Wait()
	return pages
}

func hostAllowed(patterns []string, rawURL string) bool {
	if len(patterns) == 0 {
		return true
	}
	u, err := parseLink(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, p := range patterns {
		if ok, _ := doublestar.Match(strings.ToLower(p), host); ok {
			return true
		}
	}
	return false
}

func truncate(s string, maxChars int) string {
	n := 0
	for i := range s {
		if n == maxChars {
			return s[:i]
		}
		n++
	}
	return s
}
