package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/nao1215/sitecorpus/internal/model"
)

// SimpleWriter outputs a short human-readable summary for the terminal.
type SimpleWriter struct {
	baseWriter

	// verbose lists every page, not only failures.
	verbose bool

	green  *color.Color
	yellow *color.Color
	red    *color.Color
	bold   *color.Color
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose lists every page in the output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithColor forces ANSI colors on or off. By default colors follow
// color.NoColor, which is off when stdout is not a terminal.
func WithColor(enabled bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		for _, c := range []*color.Color{w.green, w.yellow, w.red, w.bold} {
			if enabled {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		green:      color.New(color.FgGreen),
		yellow:     color.New(color.FgYellow),
		red:        color.New(color.FgRed),
		bold:       color.New(color.Bold),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the crawl summary.
func (w *SimpleWriter) Write(result *model.CrawlResult) (int, error) {
	var sb strings.Builder
	summary := Summarize(result)

	sb.WriteString(w.bold.Sprint("Crawl summary"))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "  Seed:       %s\n", result.SeedURL)
	fmt.Fprintf(&sb, "  Duration:   %s\n", result.Duration().Round(time.Millisecond))
	fmt.Fprintf(&sb, "  Visited:    %d\n", summary.Visited)
	fmt.Fprintf(&sb, "  Sections:   %s\n", w.green.Sprint(summary.Sections))
	if summary.Duplicate > 0 {
		fmt.Fprintf(&sb, "  Duplicates: %s\n", w.yellow.Sprint(summary.Duplicate))
	}
	if summary.Failed > 0 {
		fmt.Fprintf(&sb, "  Failed:     %s\n", w.red.Sprint(summary.Failed))
	}

	for _, p := range result.Pages {
		if !w.verbose && p.Status != model.PageFailed {
			continue
		}
		fmt.Fprintf(&sb, "  %s %s", w.statusMark(p.Status), p.URL)
		if p.Error != "" {
			fmt.Fprintf(&sb, " (%s)", p.Error)
		} else if p.Title != "" {
			fmt.Fprintf(&sb, " %q", p.Title)
		}
		sb.WriteString("\n")
	}

	return w.output.Write([]byte(sb.String()))
}

// statusMark returns a short colored marker for status.
func (w *SimpleWriter) statusMark(status model.PageStatus) string {
	switch status {
	case model.PageAccepted:
		return w.green.Sprint("[+]")
	case model.PageDuplicate:
		return w.yellow.Sprint("[=]")
	case model.PageFailed:
		return w.red.Sprint("[!]")
	default:
		return "[?]"
	}
}
