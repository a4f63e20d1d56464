package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nao1215/sitecorpus/internal/config"
	"github.com/nao1215/sitecorpus/internal/document"
)

var (
	// ErrStatus is wrapped when the server answers outside the 2xx range.
	ErrStatus = errors.New("unexpected HTTP status")

	// ErrNotHTML is wrapped when the response is not an HTML document.
	ErrNotHTML = errors.New("response is not HTML")
)

// Fetcher retrieves a URL and parses the response body.
type Fetcher interface {
	// Name returns the backend name (http, colly, browser).
	Name() string

	// Fetch performs a single request. Any failure is a *FetchError.
	Fetch(ctx context.Context, url string) (document.Document, error)

	// Close releases resources held by the fetcher.
	Close() error
}

// FetchError reports a failed fetch of URL.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Options holds the request settings shared by all backends.
type Options struct {
	UserAgent   string
	Headers     map[string]string
	Cookie      string
	MaxBodySize int64
	Timeout     time.Duration
}

// New returns the fetcher backend selected by cfg.Fetcher.
func New(cfg *config.Config) (Fetcher, error) {
	opts := Options{
		UserAgent:   cfg.UserAgent,
		Headers:     cfg.Headers,
		Cookie:      cfg.Cookie,
		MaxBodySize: cfg.MaxBodySize,
		Timeout:     cfg.Timeout,
	}

	switch cfg.Fetcher {
	case config.FetcherHTTP:
		return NewHTTPFetcher(opts), nil
	case config.FetcherColly:
		return NewCollyFetcher(opts), nil
	case config.FetcherBrowser:
		return NewBrowserFetcher(opts)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidFetcher, cfg.Fetcher)
	}
}

// isHTML reports whether a Content-Type header denotes HTML.
// A missing header is given the benefit of the doubt.
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}

// checkStatus maps a non-2xx status code to ErrStatus.
func checkStatus(code int) error {
	if code < 200 || code > 299 {
		return fmt.Errorf("%w: %d", ErrStatus, code)
	}
	return nil
}
