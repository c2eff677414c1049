package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/property-scraper/internal/entity"
)

// FailedURLRepoImpl provides a concrete implementation for the FailedURLRepository interface using PostgreSQL.
type FailedURLRepoImpl struct {
	db *pgxpool.Pool
}

// NewFailedURLRepo creates a new instance of FailedURLRepoImpl.
func NewFailedURLRepo(db *pgxpool.Pool) *FailedURLRepoImpl {
	return &FailedURLRepoImpl{db: db}
}

// SaveOrUpdate creates or updates a record for a failed URL.
// It increments the retry_count on conflict.
func (r *FailedURLRepoImpl) SaveOrUpdate(ctx context.Context, failed *entity.FailedURL) error {
	query := `
		INSERT INTO failed_urls (url, category, failure_kind, failure_reason, last_attempt, retry_count)
		VALUES ($1, $2, $3, $4, $5, 1)
		ON CONFLICT (url) DO UPDATE SET
			category = EXCLUDED.category,
			failure_kind = EXCLUDED.failure_kind,
			failure_reason = EXCLUDED.failure_reason,
			last_attempt = EXCLUDED.last_attempt,
			retry_count = failed_urls.retry_count + 1;
	`
	_, err := r.db.Exec(ctx, query,
		failed.URL,
		failed.Category,
		failed.Kind,
		failed.Reason,
		failed.LastAttempt,
	)
	return err
}

// FindRecent retrieves the most recently failed URLs for diagnostics.
func (r *FailedURLRepoImpl) FindRecent(ctx context.Context, limit int) ([]*entity.FailedURL, error) {
	query := `
		SELECT id, url, category, failure_kind, failure_reason, last_attempt, retry_count
		FROM failed_urls
		ORDER BY last_attempt DESC
		LIMIT $1;
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var failures []*entity.FailedURL
	for rows.Next() {
		var fu entity.FailedURL
		if err := rows.Scan(
			&fu.ID,
			&fu.URL,
			&fu.Category,
			&fu.Kind,
			&fu.Reason,
			&fu.LastAttempt,
			&fu.RetryCount,
		); err != nil {
			return nil, err
		}
		failures = append(failures, &fu)
	}

	return failures, rows.Err()
}

// Delete removes a failed URL record, typically after a successful scrape.
func (r *FailedURLRepoImpl) Delete(ctx context.Context, url string) error {
	query := `DELETE FROM failed_urls WHERE url = $1;`
	_, err := r.db.Exec(ctx, query, url)
	return err
}
