package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/nao1215/sitecorpus/internal/fetcher"
	"github.com/nao1215/sitecorpus/internal/model"
)

// ErrInvalidSeed is returned when the seed URL has no scheme or host.
var ErrInvalidSeed = errors.New("seed URL must be absolute")

// Spider crawls one website starting from a seed URL.
//
// All crawl state (frontier, visited set, seen titles, sections) is created
// per Crawl call, so a Spider can be reused and tests never share state.
type Spider struct {
	// fetcher performs the network request for each URL.
	fetcher fetcher.Fetcher

	// logger receives progress, fetch failures and duplicate skips.
	logger *slog.Logger

	// maxPages caps the number of dispatched URLs. 0 means no cap.
	maxPages int

	// pageHook is called once for every dispatched URL.
	pageHook func(model.PageRecord)

	// now returns the current time.
	now func() time.Time
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// WithMaxPages sets the maximum number of URLs to dispatch.
// 0 crawls until the frontier is empty.
func WithMaxPages(maxPages int) SpiderOption {
	return func(s *Spider) {
		s.maxPages = maxPages
	}
}

// WithPageHook registers fn to receive the record of every dispatched URL,
// failed ones included. fn runs on the crawl loop and blocks it.
func WithPageHook(fn func(model.PageRecord)) SpiderOption {
	return func(s *Spider) {
		s.pageHook = fn
	}
}

// NewSpider creates a Spider that fetches pages with f.
func NewSpider(f fetcher.Fetcher, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher: f,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// Crawl crawls breadth-first from seedURL until the frontier is empty.
//
// Fetch failures are logged and the crawl moves on; they never make Crawl
// fail. The only errors are an invalid seed and context cancellation. On
// cancellation the result collected so far is returned with ctx.Err().
func (s *Spider) Crawl(ctx context.Context, seedURL string) (*model.CrawlResult, error) {
	base, err := url.Parse(seedURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidSeed, seedURL)
	}

	frontier := NewFrontier(seedURL)
	sink := NewDedupSink()
	result := &model.CrawlResult{
		SeedURL:   seedURL,
		StartedAt: s.now(),
	}

	finish := func() {
		result.Sections = sink.Sections()
		result.Visited = frontier.Visited()
		result.FinishedAt = s.now()
	}

	for {
		if err := ctx.Err(); err != nil {
			finish()
			return result, err
		}

		if s.maxPages > 0 && frontier.Visited() >= s.maxPages {
			s.logger.Info("page limit reached",
				"max_pages", s.maxPages,
				"queued", frontier.Len(),
			)
			break
		}

		pageURL, ok := frontier.Pop()
		if !ok {
			break
		}
		if !frontier.ShouldCrawl(pageURL) {
			continue
		}
		frontier.MarkVisited(pageURL)

		record := s.visit(ctx, pageURL, base, frontier, sink)
		result.Pages = append(result.Pages, record)
		if s.pageHook != nil {
			s.pageHook(record)
		}

		s.logger.Info("progress",
			"visited", frontier.Visited(),
			"queued", frontier.Len(),
			"sections", sink.Len(),
		)
	}

	finish()
	return result, nil
}

// visit fetches one URL, feeds the sink and enqueues discovered links.
func (s *Spider) visit(ctx context.Context, pageURL string, base *url.URL, frontier *Frontier, sink *DedupSink) model.PageRecord {
	record := model.PageRecord{URL: pageURL}

	s.logger.Debug("fetching page", "url", pageURL)
	doc, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		s.logger.Warn("failed to fetch page", "url", pageURL, "error", err)
		record.Status = model.PageFailed
		record.Error = err.Error()
		return record
	}

	page := Extract(doc)
	record.Title = page.Title
	record.Chars = page.Length
	record.Truncated = page.Truncated
	if page.Truncated {
		s.logger.Warn("page text truncated",
			"url", pageURL,
			"length", page.Length,
			"limit", MaxTextLength,
		)
	}

	if sink.Save(page.Title, page.Text) {
		record.Status = model.PageAccepted
	} else {
		record.Status = model.PageDuplicate
		s.logger.Info("skipping duplicate title", "title", page.Title, "url", pageURL)
	}

	links := FindLinks(doc, base)
	record.Links = len(links)
	added := frontier.Enqueue(links...)
	s.logger.Debug("links discovered", "url", pageURL, "found", len(links), "enqueued", added)

	return record
}
