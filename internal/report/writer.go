package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/nao1215/sitecorpus/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the report for result.
	// Returns the number of bytes written and any error encountered.
	Write(result *model.CrawlResult) (int, error)
}

// Format names a report format.
type Format string

const (
	// FormatText is the plain text summary.
	FormatText Format = "text"

	// FormatMarkdown is a Markdown document.
	FormatMarkdown Format = "markdown"

	// FormatJSON is indented JSON.
	FormatJSON Format = "json"
)

// FormatFromPath picks a format from a file extension.
// Unknown extensions get FormatText.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown
	case ".json":
		return FormatJSON
	default:
		return FormatText
	}
}

// NewWriter returns the writer for format. version is embedded in formats
// that carry metadata.
func NewWriter(format Format, output io.Writer, version string) (Writer, error) {
	switch format {
	case FormatText:
		return NewSimpleWriter(output, WithColor(false)), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint(), WithVersion(version)), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// Summary holds per-status page counts.
type Summary struct {
	Visited   int `json:"visited"`
	Sections  int `json:"sections"`
	Accepted  int `json:"accepted"`
	Duplicate int `json:"duplicate"`
	Failed    int `json:"failed"`
}

// Summarize counts the pages of result by status.
func Summarize(result *model.CrawlResult) Summary {
	return Summary{
		Visited:   result.Visited,
		Sections:  len(result.Sections),
		Accepted:  result.CountByStatus(model.PageAccepted),
		Duplicate: result.CountByStatus(model.PageDuplicate),
		Failed:    result.CountByStatus(model.PageFailed),
	}
}

// truncateString shortens s to maxLen characters with an ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// orDash returns "-" for empty strings.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
