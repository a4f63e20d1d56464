package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/sitecorpus/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the crawl report in Markdown format.
func (w *MarkdownWriter) Write(result *model.CrawlResult) (int, error) {
	md := markdown.NewMarkdown(w.output)
	summary := Summarize(result)

	w.writeHeader(md, result, summary)
	w.writeSummary(md, summary)
	w.writePages(md, result)
	w.writeFailures(md, result)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report title and crawl properties.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, result *model.CrawlResult, summary Summary) {
	md.H1("Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed URL", "`" + result.SeedURL + "`"},
			{"Started", result.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", result.Duration().Round(time.Millisecond).String()},
			{"URLs Visited", strconv.Itoa(summary.Visited)},
			{"Sections", strconv.Itoa(summary.Sections)},
		},
	})
	md.PlainText("")
}

// writeSummary writes the page status table, chart and alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, summary Summary) {
	md.H2("Page Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Status", "Pages"},
		Rows: [][]string{
			{"✅ Accepted", strconv.Itoa(summary.Accepted)},
			{"🔁 Duplicate title", strconv.Itoa(summary.Duplicate)},
			{"❌ Failed", strconv.Itoa(summary.Failed)},
		},
	})
	md.PlainText("")

	if summary.Visited > 0 {
		w.writePieChart(md, summary)
	}

	switch {
	case summary.Visited == 0:
		md.Cautionf("No page was visited.")
	case summary.Accepted == 0:
		md.Warningf("No page produced a corpus section.")
	case summary.Failed > 0:
		md.Warningf("%d page(s) could not be fetched and were skipped.", summary.Failed)
	case summary.Duplicate > 0:
		md.Importantf("%d page(s) repeated an earlier title and were left out of the corpus.", summary.Duplicate)
	default:
		md.Tip("Every visited page produced a corpus section.")
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of page statuses.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Page Status"),
		piechart.WithShowData(true),
	)

	if summary.Accepted > 0 {
		chart.LabelAndIntValue("Accepted", uint64(summary.Accepted))
	}
	if summary.Duplicate > 0 {
		chart.LabelAndIntValue("Duplicate", uint64(summary.Duplicate))
	}
	if summary.Failed > 0 {
		chart.LabelAndIntValue("Failed", uint64(summary.Failed))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writePages writes one table row per dispatched URL.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, result *model.CrawlResult) {
	md.H2("Pages")
	md.PlainText("")

	if len(result.Pages) == 0 {
		md.PlainText("No pages were crawled.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(result.Pages))
	for i, p := range result.Pages {
		chars := strconv.Itoa(p.Chars)
		if p.Truncated {
			chars += " (truncated)"
		}
		rows[i] = []string{
			strconv.Itoa(i + 1),
			p.Status.String(),
			truncateString(orDash(p.Title), 50),
			truncateString(p.URL, 60),
			chars,
			strconv.Itoa(p.Links),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"#", "Status", "Title", "URL", "Chars", "Links"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFailures writes the error of every failed page.
func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, result *model.CrawlResult) {
	var failed []model.PageRecord
	for _, p := range result.Pages {
		if p.Status == model.PageFailed {
			failed = append(failed, p)
		}
	}
	if len(failed) == 0 {
		return
	}

	md.H2("Failures")
	md.PlainText("")
	for _, p := range failed {
		md.Details(p.URL, p.Error)
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [sitecorpus](https://github.com/nao1215/sitecorpus)*")
}
