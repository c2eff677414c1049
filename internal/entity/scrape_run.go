package entity

import (
	"fmt"
	"time"
)

// RunState tracks the orchestrator's progress through one run.
type RunState string

const (
	StateCollectingURLs    RunState = "collecting-urls"
	StateExtractingDetails RunState = "extracting-details"
	StateWritingSheet      RunState = "writing-sheet"
	StateDone              RunState = "done"
	StateFailed            RunState = "failed"
)

// FailureKind categorizes why a single URL or batch operation failed.
type FailureKind string

const (
	FailureNavigation  FailureKind = "navigation"
	FailureParse       FailureKind = "parse"
	FailureValidation  FailureKind = "validation"
	FailurePersistence FailureKind = "persistence"
	FailureSession     FailureKind = "session"
)

// Failure is one recorded failure entry. Failed records are dropped from the
// output data set but never from the run report.
type Failure struct {
	URL      string      `json:"url"`
	Category Category    `json:"category"`
	Kind     FailureKind `json:"kind"`
	Reason   string      `json:"reason"`
}

// CategorySummary is the per-category breakdown in the run report.
type CategorySummary struct {
	URLsFound int `json:"urls_found"`
	Scraped   int `json:"properties_scraped"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// SheetStatus reports the outcome of one sheet replacement.
type SheetStatus struct {
	SheetName   string `json:"sheet_name"`
	Status      string `json:"status"` // "created", "updated" or "failed"
	RowsWritten int    `json:"rows_written"`
	Message     string `json:"message,omitempty"`
}

// ScrapeRun aggregates everything observed during one orchestrated pass.
// It exists only for the duration of one request.
type ScrapeRun struct {
	State     RunState      `json:"state"`
	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"-"`

	URLs        map[Category][]string         `json:"urls"`
	Records     []*PropertyRecord             `json:"records"`
	Failures    []Failure                     `json:"failures"`
	PerCategory map[Category]*CategorySummary `json:"per_category"`

	TotalAttempted int `json:"total_attempted"`
	Succeeded      int `json:"succeeded"`
	Failed         int `json:"failed"`
	Skipped        int `json:"skipped"`

	SheetResult *SheetStatus `json:"sheet_result,omitempty"`
}

// NewScrapeRun returns a run in its initial state.
func NewScrapeRun() *ScrapeRun {
	return &ScrapeRun{
		State:       StateCollectingURLs,
		StartedAt:   time.Now(),
		URLs:        map[Category][]string{},
		Records:     []*PropertyRecord{},
		Failures:    []Failure{},
		PerCategory: map[Category]*CategorySummary{},
	}
}

// TotalURLs counts every URL discovered across categories.
func (r *ScrapeRun) TotalURLs() int {
	n := 0
	for _, urls := range r.URLs {
		n += len(urls)
	}
	return n
}

// SuccessRate formats succeeded/attempted as a percentage string, "80.0%".
func (r *ScrapeRun) SuccessRate() string {
	if r.TotalAttempted == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(r.Succeeded)/float64(r.TotalAttempted)*100)
}

// RecordFailure appends a failure entry and updates counters.
func (r *ScrapeRun) RecordFailure(url string, category Category, kind FailureKind, reason string) {
	r.Failures = append(r.Failures, Failure{URL: url, Category: category, Kind: kind, Reason: reason})
	r.Failed++
	if s, ok := r.PerCategory[category]; ok {
		s.Failed++
	}
}
