package fetcher

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/nao1215/sitecorpus/internal/document"
)

// BrowserFetcher renders pages in headless Chrome via go-rod, for sites that
// build their content with JavaScript.
type BrowserFetcher struct {
	browser *rod.Browser
	opts    Options
}

// NewBrowserFetcher launches a headless browser.
func NewBrowserFetcher(opts Options) (*BrowserFetcher, error) {
	u, err := launcher.New().
		Headless(true).
		Set("no-sandbox").
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &BrowserFetcher{browser: browser, opts: opts}, nil
}

// Name returns "browser".
func (f *BrowserFetcher) Name() string { return "browser" }

// Fetch navigates a fresh tab to pageURL, waits for load and parses the
// rendered HTML.
func (f *BrowserFetcher) Fetch(ctx context.Context, pageURL string) (document.Document, error) {
	doc, err := f.fetch(ctx, pageURL)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	return doc, nil
}

func (f *BrowserFetcher) fetch(ctx context.Context, pageURL string) (document.Document, error) {
	page, err := f.browser.Context(ctx).Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if f.opts.Timeout > 0 {
		page = page.Timeout(f.opts.Timeout)
	}

	if f.opts.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.opts.UserAgent}); err != nil {
			return nil, err
		}
	}

	if headers := extraHeaders(f.opts); len(headers) > 0 {
		cleanup, err := page.SetExtraHeaders(headers)
		if err != nil {
			return nil, err
		}
		defer cleanup()
	}

	// The first response received after navigation is the document itself.
	var response proto.NetworkResponseReceived
	waitResponse := page.WaitEvent(&response)

	if err := page.Navigate(pageURL); err != nil {
		return nil, err
	}
	waitResponse()

	if response.Response != nil {
		if err := checkStatus(response.Response.Status); err != nil {
			return nil, err
		}
		if !isHTML(response.Response.MIMEType) {
			return nil, fmt.Errorf("%w: %s", ErrNotHTML, response.Response.MIMEType)
		}
	}

	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	html, err := page.HTML()
	if err != nil {
		return nil, err
	}
	return document.ParseString(html)
}

// extraHeaders flattens headers and cookie into rod's key/value list.
func extraHeaders(opts Options) []string {
	var kv []string
	for k, v := range opts.Headers {
		kv = append(kv, k, v)
	}
	if opts.Cookie != "" {
		kv = append(kv, "Cookie", opts.Cookie)
	}
	return kv
}

// Close shuts the browser down.
func (f *BrowserFetcher) Close() error {
	if f.browser != nil {
		return f.browser.Close()
	}
	return nil
}
