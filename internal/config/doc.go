// Package config provides configuration structures and utilities for sitecorpus.
// It defines the seed URL, fetcher selection, request settings and output
// locations, plus the optional YAML file with per-site overrides.
package config
