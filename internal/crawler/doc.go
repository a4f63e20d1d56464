// Package crawler crawls a single website breadth-first and collects its
// readable text into corpus sections.
//
// # Components
//
//   - Spider: the crawl driver. It owns every piece of crawl state.
//   - Frontier: FIFO queue of URLs plus the visited set
//   - Extract: turns a document into a trimmed title and cleaned text
//   - FindLinks: same-host link discovery
//   - DedupSink: keeps the first section seen for each title
//
// # Ordering
//
// A URL is marked visited when it is dequeued, before it is fetched, so a
// URL is attempted at most once even when the fetch fails. Links are only
// checked against the visited set when they are enqueued. A URL can
// therefore sit in the queue more than once; later copies are dropped when
// dequeued.
//
// # Usage
//
//	spider := crawler.NewSpider(f, crawler.WithLogger(logger))
//	result, err := spider.Crawl(ctx, "https://example.com/docs")
//	fmt.Println(result.Content())
package crawler
