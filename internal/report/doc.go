// Package report provides crawl progress and report output.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown output for sharing a crawl result
//
// SimpleWriter also prints the per-page progress block shown while a crawl
// runs.
//
// Design decision: We separate report writing from report data structures
// (which are in the model package) so that new output formats can be added
// without modifying the crawl result types.
package report
