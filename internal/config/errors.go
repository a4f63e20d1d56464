package config

import (
	"errors"
	"net/url"
)

// Configuration validation errors returned by Config.Validate.
// Callers match them with errors.Is.
var (
	// ErrNoSeedURL is returned when neither an argument nor SITECORPUS_URL
	// provides the seed URL.
	ErrNoSeedURL = errors.New("no seed URL specified: pass a URL argument or set " + SeedURLEnv)

	// ErrInvalidSeedURL is returned when the seed is not an absolute http(s) URL.
	ErrInvalidSeedURL = errors.New("invalid seed URL: must be an absolute http or https URL")

	// ErrNoOutputDir is returned when the output directory is empty.
	ErrNoOutputDir = errors.New("no output directory specified")

	// ErrInvalidFetcher is returned for an unknown fetcher backend name.
	ErrInvalidFetcher = errors.New("invalid fetcher: must be one of http, colly, browser")

	// ErrInvalidTimeout is returned when the timeout is negative.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrInvalidMaxPages is returned when the page cap is negative.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")
)

func isAbsoluteHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
