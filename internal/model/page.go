package model

// PageStatus is the outcome of processing one URL.
type PageStatus string

const (
	// PageAccepted means the page produced a new corpus section.
	PageAccepted PageStatus = "accepted"

	// PageDuplicate means a page with the same title was already saved.
	// Its content was dropped.
	PageDuplicate PageStatus = "duplicate"

	// PageFailed means the fetch failed. The crawl moved on.
	PageFailed PageStatus = "failed"
)

// String returns the status as stored in reports and the history database.
func (s PageStatus) String() string {
	return string(s)
}

// PageRecord describes what happened to one dispatched URL.
type PageRecord struct {
	// URL is the exact string taken from the frontier.
	URL string `json:"url"`

	// Title is the trimmed page title.
	// Empty for failed fetches and pages without a title.
	Title string `json:"title,omitempty"`

	// Status is the outcome.
	Status PageStatus `json:"status"`

	// Chars is the length of the extracted text in characters.
	Chars int `json:"chars"`

	// Truncated is true when the text was cut at the extraction limit.
	Truncated bool `json:"truncated,omitempty"`

	// Links is the number of same-host links found on the page.
	Links int `json:"links"`

	// Error holds the fetch error message for failed pages.
	Error string `json:"error,omitempty"`
}
