package model

import (
	"fmt"
	"time"
)

// Step is one visited page in the crawl trace.
// Index starts at 1 and equals the size of the visited set after the visit.
type Step struct {
	Index int    `json:"index"`
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Outcome is the result of a crawl.
//
// Design decision: We return a tri-state value instead of exiting the process
// when the target is reached, so that only the top-level caller decides how
// the program ends.
type Outcome int

const (
	// OutcomeNotFound means the reachable graph was exhausted without
	// reaching the target.
	OutcomeNotFound Outcome = iota

	// OutcomeFound means the target page was reached.
	OutcomeFound

	// OutcomeError means the crawl was aborted, e.g. by context cancellation.
	OutcomeError
)

// String returns a human-readable representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeNotFound:
		return "not found"
	case OutcomeFound:
		return "found"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText encodes the outcome as its string form.
func (o Outcome) MarshalText() ([]byte, error) {
	switch o {
	case OutcomeNotFound, OutcomeFound, OutcomeError:
		return []byte(o.String()), nil
	default:
		return nil, fmt.Errorf("invalid outcome %d", int(o))
	}
}

// UnmarshalText decodes an outcome from the form written by MarshalText.
func (o *Outcome) UnmarshalText(text []byte) error {
	switch string(text) {
	case "not found":
		*o = OutcomeNotFound
	case "found":
		*o = OutcomeFound
	case "error":
		*o = OutcomeError
	default:
		return fmt.Errorf("unknown outcome %q", string(text))
	}
	return nil
}

// CrawlReport summarises one crawl run for report output.
type CrawlReport struct {
	// RunID identifies the run in logs and reports.
	RunID string `json:"run_id"`

	// StartURL is the page the crawl started from.
	StartURL string `json:"start_url"`

	// TargetURL is the page the crawl tried to reach.
	TargetURL string `json:"target_url"`

	// TargetTitle is the normalised title of the target page.
	TargetTitle string `json:"target_title"`

	// Outcome is the crawl result.
	Outcome Outcome `json:"outcome"`

	// Steps lists every visited page in visit order.
	Steps []Step `json:"steps"`

	// Path is the chain of URLs from the start page to the target.
	// Empty unless Outcome is OutcomeFound.
	Path []string `json:"path,omitempty"`

	// Error describes why the crawl was aborted, if it was.
	Error string `json:"error,omitempty"`

	// StartedAt and FinishedAt bound the crawl.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration returns how long the crawl ran.
func (r *CrawlReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Reached reports whether the crawl reached its target.
func (r *CrawlReport) Reached() bool {
	return r.Outcome == OutcomeFound
}
