// Package database keeps a SQLite history of crawl runs.
//
// Each run records its seed URL, output path, timing and counters, and one
// row per dispatched URL with the page outcome. The history is an audit
// log: nothing reads it back to resume or skip pages.
//
// SQLite comes from modernc.org/sqlite, a CGO-free driver, so the binary
// cross-compiles without a C toolchain. The database is a single file in
// the XDG data directory.
package database
