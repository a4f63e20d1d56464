// Package main provides the entry point for the sitecorpus CLI.
//
// sitecorpus crawls a single website from a seed URL, extracts readable
// text from every same-host page, drops pages whose title was already seen
// and writes the result as one JSON corpus file.
//
// Usage:
//
//	sitecorpus crawl https://example.com/docs
//	SITECORPUS_URL=https://example.com/docs sitecorpus crawl
//
// See --help for all available options.
package main

// main is the entry point for sitecorpus.
func main() {
	Execute()
}
