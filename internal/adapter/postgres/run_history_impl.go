package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/property-scraper/internal/entity"
)

// RunHistoryRepoImpl persists per-run summaries to PostgreSQL.
type RunHistoryRepoImpl struct {
	db *pgxpool.Pool
}

// NewRunHistoryRepo creates a new instance of RunHistoryRepoImpl.
func NewRunHistoryRepo(db *pgxpool.Pool) *RunHistoryRepoImpl {
	return &RunHistoryRepoImpl{db: db}
}

// SaveRun appends one finished run's aggregate counters.
func (r *RunHistoryRepoImpl) SaveRun(ctx context.Context, run *entity.ScrapeRun) error {
	query := `
		INSERT INTO scrape_runs (started_at, elapsed_ms, state, total_attempted, succeeded, failed, skipped, success_rate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.db.Exec(ctx, query,
		run.StartedAt,
		run.Elapsed.Milliseconds(),
		run.State,
		run.TotalAttempted,
		run.Succeeded,
		run.Failed,
		run.Skipped,
		run.SuccessRate(),
	)
	return err
}
