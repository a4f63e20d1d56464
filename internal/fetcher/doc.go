// Package fetcher retrieves pages and parses them into documents.
//
// Three backends implement Fetcher:
//   - HTTPFetcher: one net/http GET, charset decoding, x/net/html parsing
//   - CollyFetcher: the same request made through a gocolly collector
//   - BrowserFetcher: headless Chrome through go-rod for script-rendered sites
//
// Every backend makes exactly one attempt per call. Transport failures,
// non-2xx statuses, non-HTML bodies and parse failures all surface as a
// *FetchError carrying the URL and the underlying cause.
package fetcher
