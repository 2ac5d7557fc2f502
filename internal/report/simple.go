package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/semcrawl/internal/model"
)

// stepSeparator precedes every progress block.
var stepSeparator = strings.Repeat("-", 69)

// SimpleWriter outputs human-readable text reports.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors so that output can be piped to files or other tools.
type SimpleWriter struct {
	baseWriter

	// verbose lists every visited page, not only the success path.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables listing every visited page.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteStep prints the progress block for one visited page.
func (w *SimpleWriter) WriteStep(step model.Step) (int, error) {
	return fmt.Fprintf(w.output, "%s\nStep %d:\nLink: %s\nTitle: %s\n",
		stepSeparator, step.Index, step.URL, step.Title)
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.CrawlReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writePath(&sb, report)
	if w.verbose {
		w.writeSteps(&sb, report)
	}
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.CrawlReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        SEMCRAWL REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Run ID:         %s\n", report.RunID)
	fmt.Fprintf(sb, "Start:          %s\n", report.StartURL)
	fmt.Fprintf(sb, "Target:         %s (%s)\n", report.TargetTitle, report.TargetURL)
	fmt.Fprintf(sb, "Started:        %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Duration:       %s\n", report.Duration().Round(time.Millisecond))
	fmt.Fprintf(sb, "Pages Visited:  %d\n", len(report.Steps))
	fmt.Fprintf(sb, "Status:         %s\n", statusText(report))
	sb.WriteString("\n")
}

// writePath writes the chain of pages from start to target.
func (w *SimpleWriter) writePath(sb *strings.Builder, report *model.CrawlReport) {
	if !report.Reached() {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "PATH (%d hops)\n", len(report.Path)-1)
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for i, u := range report.Path {
		fmt.Fprintf(sb, "  %2d. %s\n", i+1, u)
	}
	sb.WriteString("\n")
}

// writeSteps writes every visited page in visit order.
func (w *SimpleWriter) writeSteps(sb *strings.Builder, report *model.CrawlReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("VISITED PAGES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.Steps) == 0 {
		sb.WriteString("  No pages visited\n\n")
		return
	}
	for _, s := range report.Steps {
		fmt.Fprintf(sb, "  %4d  %s\n        %s\n", s.Index, s.Title, s.URL)
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// statusText returns the status line for report.
func statusText(report *model.CrawlReport) string {
	switch report.Outcome {
	case model.OutcomeFound:
		return "Target reached"
	case model.OutcomeError:
		if report.Error != "" {
			return "ERROR - " + report.Error
		}
		return "ERROR"
	default:
		return "Target not reachable from start page"
	}
}
