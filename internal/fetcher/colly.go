package fetcher

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/nao1215/sitecorpus/internal/document"
)

// CollyFetcher fetches pages through a gocolly collector.
// The collector never tracks visits itself: the crawl loop owns the visited set.
type CollyFetcher struct {
	collector *colly.Collector
	opts      Options
}

// NewCollyFetcher creates a CollyFetcher.
func NewCollyFetcher(opts Options) *CollyFetcher {
	c := colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.Async(false),
	)
	c.IgnoreRobotsTxt = true

	if opts.UserAgent != "" {
		c.UserAgent = opts.UserAgent
	}
	if opts.MaxBodySize > 0 {
		c.MaxBodySize = int(opts.MaxBodySize)
	}
	if opts.Timeout > 0 {
		c.SetRequestTimeout(opts.Timeout)
	}

	return &CollyFetcher{collector: c, opts: opts}
}

// Name returns "colly".
func (f *CollyFetcher) Name() string { return "colly" }

// Fetch visits pageURL once. The collector is cloned per call so callbacks
// from one fetch never see another.
func (f *CollyFetcher) Fetch(ctx context.Context, pageURL string) (document.Document, error) {
	c := f.collector.Clone()
	c.Context = ctx

	var (
		doc        document.Document
		statusCode int
		fetchErr   error
	)

	c.OnRequest(func(r *colly.Request) {
		setHeaders(*r.Headers, f.opts)
	})

	c.OnResponse(func(r *colly.Response) {
		statusCode = r.StatusCode
	})

	c.OnHTML("html", func(e *colly.HTMLElement) {
		if len(e.DOM.Nodes) == 0 {
			return
		}
		doc = document.FromGoquery(goquery.NewDocumentFromNode(e.DOM.Nodes[0]))
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			statusCode = r.StatusCode
		}
		fetchErr = err
	})

	if err := c.Visit(pageURL); err != nil && fetchErr == nil {
		fetchErr = err
	}
	c.Wait()

	if statusCode != 0 {
		if err := checkStatus(statusCode); err != nil {
			return nil, &FetchError{URL: pageURL, Err: err}
		}
	}
	if fetchErr != nil {
		return nil, &FetchError{URL: pageURL, Err: fetchErr}
	}
	if doc == nil {
		return nil, &FetchError{URL: pageURL, Err: ErrNotHTML}
	}
	return doc, nil
}

// Close is a no-op; the collector holds no resources beyond its HTTP client.
func (f *CollyFetcher) Close() error {
	return nil
}
