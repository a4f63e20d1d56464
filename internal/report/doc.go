// Package report renders a finished crawl as a human readable summary.
//
// This package contains writers for different output formats:
//   - SimpleWriter: plain text for the terminal, optionally colored
//   - MarkdownWriter: a Markdown document for sharing
//   - JSONWriter: structured JSON for tool integration
//
// The corpus artifact itself is written by the corpus package. Reports only
// describe how the crawl went: which pages were accepted, skipped as
// duplicates or failed.
package report
