package model

import (
	"strings"
	"time"
)

// SectionSeparator separates sections in the corpus content.
const SectionSeparator = "\n\n---\n\n"

// CrawlResult is everything a finished crawl produced.
type CrawlResult struct {
	// SeedURL is the URL the crawl started from.
	SeedURL string `json:"seed_url"`

	// Sections holds one "{title}\n\n{text}" entry per accepted page,
	// in the order the pages were accepted.
	Sections []string `json:"sections"`

	// Pages records every dispatched URL in dispatch order.
	Pages []PageRecord `json:"pages"`

	// Visited is the number of URLs marked visited.
	Visited int `json:"visited"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Content joins the sections with SectionSeparator.
// It returns an empty string when no section was saved.
func (r *CrawlResult) Content() string {
	return strings.Join(r.Sections, SectionSeparator)
}

// Duration returns how long the crawl ran.
func (r *CrawlResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// CountByStatus returns how many pages ended with status.
func (r *CrawlResult) CountByStatus(status PageStatus) int {
	n := 0
	for _, p := range r.Pages {
		if p.Status == status {
			n++
		}
	}
	return n
}
