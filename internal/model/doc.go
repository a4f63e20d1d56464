// Package model defines the data structures shared by the crawler, the
// report writers and the history database.
//
// This package contains the following main types:
//   - PageRecord: the outcome of processing a single URL
//   - CrawlResult: everything a finished crawl produced
//
// Models live in their own package so that crawler, report and database
// can all use them without import cycles.
package model
