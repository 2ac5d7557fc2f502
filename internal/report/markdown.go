package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/semcrawl/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CrawlReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeAlert(md, report)
	w.writePath(md, report)
	w.writeSteps(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.CrawlReport) {
	md.H1("Semcrawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + report.RunID + "`"},
			{"Start", report.StartURL},
			{"Target", report.TargetTitle + " (" + report.TargetURL + ")"},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration().Round(time.Millisecond).String()},
			{"Pages Visited", strconv.Itoa(len(report.Steps))},
			{"Status", statusText(report)},
		},
	})
	md.PlainText("")
}

// writeAlert writes an alert summarising the outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.CrawlReport) {
	switch report.Outcome {
	case model.OutcomeFound:
		md.Tip("Target reached in " + strconv.Itoa(len(report.Path)-1) + " hop(s).")
	case model.OutcomeError:
		md.Cautionf("Crawl aborted after %d page(s): %s", len(report.Steps), report.Error)
	default:
		md.Warningf("Target not reachable from the start page. %d page(s) explored.", len(report.Steps))
	}
	md.PlainText("")
}

// writePath writes the success path and a chart of visited pages on and
// off that path.
func (w *MarkdownWriter) writePath(md *markdown.Markdown, report *model.CrawlReport) {
	if !report.Reached() {
		return
	}

	md.H2("Path")
	md.PlainText("")

	titles := make(map[string]string, len(report.Steps))
	for _, s := range report.Steps {
		titles[s.URL] = s.Title
	}
	rows := make([][]string, len(report.Path))
	for i, u := range report.Path {
		rows[i] = []string{strconv.Itoa(i + 1), titles[u], u}
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Title", "URL"},
		Rows:   rows,
	})
	md.PlainText("")

	backtracked := len(report.Steps) - len(report.Path)
	if backtracked > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Visited Pages"),
			piechart.WithShowData(true),
		)
		chart.LabelAndIntValue("On path", uint64(len(report.Path)))
		chart.LabelAndIntValue("Backtracked", uint64(backtracked))

		md.PlainText("")
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}
}

// writeSteps writes every visited page in visit order.
func (w *MarkdownWriter) writeSteps(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Visited Pages")
	md.PlainText("")

	if len(report.Steps) == 0 {
		md.PlainText("No pages visited.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Steps))
	for i, s := range report.Steps {
		rows[i] = []string{strconv.Itoa(s.Index), truncateString(s.Title, 60), s.URL}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Step", "Title", "URL"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [semcrawl](https://github.com/nao1215/semcrawl)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
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
