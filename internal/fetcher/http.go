package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/net/html/charset"

	"github.com/nao1215/sitecorpus/internal/document"
)

// HTTPFetcher fetches pages with net/http.
type HTTPFetcher struct {
	client *http.Client
	opts   Options
}

// HTTPFetcherOption configures an HTTPFetcher.
type HTTPFetcherOption func(*HTTPFetcher)

// WithHTTPClient replaces the HTTP client, e.g. with an httptest client.
func WithHTTPClient(client *http.Client) HTTPFetcherOption {
	return func(f *HTTPFetcher) {
		f.client = client
	}
}

// NewHTTPFetcher creates an HTTPFetcher. A zero Timeout leaves the client
// without a timeout.
func NewHTTPFetcher(opts Options, fopts ...HTTPFetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
	}
	for _, opt := range fopts {
		opt(f)
	}
	return f
}

// Name returns "http".
func (f *HTTPFetcher) Name() string { return "http" }

// Fetch performs one GET request and parses the body.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (document.Document, error) {
	doc, err := f.fetch(ctx, pageURL)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	return doc, nil
}

func (f *HTTPFetcher) fetch(ctx context.Context, pageURL string) (document.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	setHeaders(req.Header, f.opts)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTML(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrNotHTML, contentType)
	}

	var body io.Reader = resp.Body
	if f.opts.MaxBodySize > 0 {
		body = io.LimitReader(body, f.opts.MaxBodySize)
	}

	// Decode to UTF-8 using the Content-Type charset or <meta> sniffing.
	utf8Body, err := charset.NewReader(body, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to decode body: %w", err)
	}

	return document.Parse(utf8Body)
}

// setHeaders applies the configured User-Agent, extra headers and cookie.
func setHeaders(h http.Header, opts Options) {
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if opts.UserAgent != "" {
		h.Set("User-Agent", opts.UserAgent)
	}
	for k, v := range opts.Headers {
		h.Set(k, v)
	}
	if opts.Cookie != "" {
		h.Set("Cookie", opts.Cookie)
	}
}

// Close drops idle keep-alive connections.
func (f *HTTPFetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
