package config

// SiteConfig holds settings for a single host.
type SiteConfig struct {
	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Cookie is an HTTP cookie to send, e.g. "name=value; other=value".
	Cookie string `yaml:"cookie,omitempty"`

	// OutputDir overrides the corpus output directory.
	OutputDir string `yaml:"outputDir,omitempty"`

	// Fetcher overrides the fetcher backend.
	Fetcher string `yaml:"fetcher,omitempty"`
}

// File represents the structure of the .sitecorpus configuration file.
type File struct {
	// Sites maps hostnames (e.g. "docs.example.com") to site configurations.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults applies to every site unless overridden.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for host, merged over the defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults
	// Copy the header map so merging never mutates Defaults.
	if len(cf.Defaults.Headers) > 0 {
		result.Headers = make(map[string]string, len(cf.Defaults.Headers))
		for k, v := range cf.Defaults.Headers {
			result.Headers[k] = v
		}
	}

	siteConfig, ok := cf.Sites[host]
	if !ok {
		return result
	}

	if siteConfig.UserAgent != "" {
		result.UserAgent = siteConfig.UserAgent
	}
	if siteConfig.Cookie != "" {
		result.Cookie = siteConfig.Cookie
	}
	if siteConfig.OutputDir != "" {
		result.OutputDir = siteConfig.OutputDir
	}
	if siteConfig.Fetcher != "" {
		result.Fetcher = siteConfig.Fetcher
	}
	if len(siteConfig.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		for k, v := range siteConfig.Headers {
			result.Headers[k] = v
		}
	}

	return result
}
