package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "sitecorpus"

	// DefaultOutputDir is where the corpus artifact is written when no
	// directory is configured.
	DefaultOutputDir = "output"

	// DefaultFetcher is the plain net/http backend.
	DefaultFetcher = FetcherHTTP

	// DefaultTimeout of zero leaves the transport defaults in charge.
	// A single hanging fetch stalls the crawl unless a timeout is set.
	DefaultTimeout = time.Duration(0)

	// DefaultMaxPages of zero means the crawl runs until the frontier is empty.
	DefaultMaxPages = 0

	// DefaultUserAgent identifies sitecorpus in HTTP requests.
	DefaultUserAgent = "sitecorpus/1.0 (+https://github.com/nao1215/sitecorpus)"

	// DefaultMaxBodySize limits the response body read per page.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// SeedURLEnv is consulted for the seed URL when no argument is given.
	SeedURLEnv = "SITECORPUS_URL"
)

// Fetcher backend names.
const (
	// FetcherHTTP fetches with net/http and parses with x/net/html.
	FetcherHTTP = "http"

	// FetcherColly fetches with a gocolly collector.
	FetcherColly = "colly"

	// FetcherBrowser renders pages in headless Chrome through go-rod.
	FetcherBrowser = "browser"
)

// Config holds all configuration options for a crawl.
// It is populated from defaults, the YAML file and CLI flags, then passed
// down explicitly; there is no package-level state.
type Config struct {
	// SeedURL is the absolute URL the crawl starts from.
	// Its hostname scopes the crawl.
	SeedURL string

	// OutputDir is the directory receiving the corpus artifact.
	// Created if it does not exist.
	OutputDir string

	// Fetcher selects the page fetcher backend (http, colly, browser).
	Fetcher string

	// Timeout is the per-request timeout. Zero means no override.
	Timeout time.Duration

	// MaxPages caps the number of dispatched URLs. Zero means unlimited.
	MaxPages int

	// UserAgent is the User-Agent header sent with each request.
	UserAgent string

	// Headers are extra request headers sent with each request.
	Headers map[string]string

	// Cookie is sent as the Cookie header when set.
	Cookie string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// Verbose enables debug-level log output.
	Verbose bool

	// ReportFile, when set, receives a Markdown crawl report.
	ReportFile string

	// SaveHistory records the run in the SQLite history database.
	SaveHistory bool

	// DBDir is the directory holding the history database.
	DBDir string

	// ConfigFilePath is the YAML configuration file path.
	// Empty means search the current and home directories.
	ConfigFilePath string

	// SiteConfigs holds the configurations loaded from the YAML file.
	SiteConfigs *File
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		OutputDir:   DefaultOutputDir,
		Fetcher:     DefaultFetcher,
		Timeout:     DefaultTimeout,
		MaxPages:    DefaultMaxPages,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		SaveHistory: true,
		DBDir:       XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for sitecorpus.
// On Linux: ~/.local/share/sitecorpus
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for sitecorpus.
// On Linux: ~/.config/sitecorpus
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ApplySite merges a site configuration into c. Non-zero site values win.
func (c *Config) ApplySite(site SiteConfig) {
	if site.UserAgent != "" {
		c.UserAgent = site.UserAgent
	}
	if site.Cookie != "" {
		c.Cookie = site.Cookie
	}
	if site.OutputDir != "" {
		c.OutputDir = site.OutputDir
	}
	if site.Fetcher != "" {
		c.Fetcher = site.Fetcher
	}
	if len(site.Headers) > 0 {
		if c.Headers == nil {
			c.Headers = make(map[string]string, len(site.Headers))
		}
		for k, v := range site.Headers {
			c.Headers[k] = v
		}
	}
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.SeedURL == "" {
		return ErrNoSeedURL
	}

	if !isAbsoluteHTTPURL(c.SeedURL) {
		return ErrInvalidSeedURL
	}

	if c.OutputDir == "" {
		return ErrNoOutputDir
	}

	switch c.Fetcher {
	case FetcherHTTP, FetcherColly, FetcherBrowser:
	default:
		return ErrInvalidFetcher
	}

	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}

	if c.MaxPages < 0 {
		return ErrInvalidMaxPages
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
