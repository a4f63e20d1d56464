package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/sitecorpus/internal/model"
)

// JSONWriter outputs reports in JSON format for tool integration.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is recorded in the report envelope.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion sets the tool version written in the report.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONReport wraps a crawl result with output metadata.
// The section texts are left out; they live in the corpus artifact.
type JSONReport struct {
	// Version is the sitecorpus version that produced the report.
	Version string `json:"version,omitempty"`

	// SeedURL is the crawl's starting point.
	SeedURL string `json:"seed_url"`

	// StartedAt and FinishedAt bound the crawl.
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at"`

	// Summary holds the per-status counts.
	Summary Summary `json:"summary"`

	// Pages lists every dispatched URL in dispatch order.
	Pages []model.PageRecord `json:"pages"`
}

// NewJSONReport builds the JSON envelope for result.
func NewJSONReport(result *model.CrawlResult, version string) *JSONReport {
	pages := result.Pages
	if pages == nil {
		pages = []model.PageRecord{}
	}
	return &JSONReport{
		Version:    version,
		SeedURL:    result.SeedURL,
		StartedAt:  result.StartedAt.Format(time.RFC3339),
		FinishedAt: result.FinishedAt.Format(time.RFC3339),
		Summary:    Summarize(result),
		Pages:      pages,
	}
}

// Write outputs the crawl report in JSON format.
func (w *JSONWriter) Write(result *model.CrawlResult) (int, error) {
	return w.writeJSON(NewJSONReport(result, w.version))
}

// writeJSON marshals v and writes it with a trailing newline.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	data = append(data, '\n')

	return w.output.Write(data)
}
