package response

import "github.com/user/property-scraper/internal/entity"

type URLsResponse struct {
	Status string              `json:"status"`
	URLs   map[string][]string `json:"urls"`
	Total  int                 `json:"total"`
}

type CompetitorsResponse struct {
	Competitor string   `json:"competitor"`
	Categories []string `json:"categories"`
}

// Performance is the run's aggregate counters plus timing.
type Performance struct {
	TotalAttempted int     `json:"total_attempted"`
	Succeeded      int     `json:"succeeded"`
	Failed         int     `json:"failed"`
	Skipped        int     `json:"skipped"`
	SuccessRate    string  `json:"success_rate"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// ScrapeResponse is the full run report returned by the scrape and
// full-workflow endpoints.
type ScrapeResponse struct {
	Status      string                                      `json:"status"`
	State       entity.RunState                             `json:"state"`
	URLs        map[entity.Category][]string                `json:"urls"`
	PerCategory map[entity.Category]*entity.CategorySummary `json:"per_category"`
	Records     []*entity.PropertyRecord                    `json:"records,omitempty"`
	Failures    []entity.Failure                            `json:"failures,omitempty"`
	Performance Performance                                 `json:"performance"`
	SheetResult *entity.SheetStatus                         `json:"sheet_result,omitempty"`
	Error       string                                      `json:"error,omitempty"`
}

// FromRun builds the report DTO from a finished run.
func FromRun(run *entity.ScrapeRun, status string) ScrapeResponse {
	return ScrapeResponse{
		Status:      status,
		State:       run.State,
		URLs:        run.URLs,
		PerCategory: run.PerCategory,
		Records:     run.Records,
		Failures:    run.Failures,
		Performance: Performance{
			TotalAttempted: run.TotalAttempted,
			Succeeded:      run.Succeeded,
			Failed:         run.Failed,
			Skipped:        run.Skipped,
			SuccessRate:    run.SuccessRate(),
			ElapsedSeconds: run.Elapsed.Seconds(),
		},
		SheetResult: run.SheetResult,
	}
}
