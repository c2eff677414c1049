package repository

import (
	"context"

	"github.com/user/property-scraper/internal/entity"
)

// RunHistoryRepository records run summaries for later inspection. Property
// records themselves are never stored here; the external spreadsheet remains
// their only datastore.
type RunHistoryRepository interface {
	SaveRun(ctx context.Context, run *entity.ScrapeRun) error
}

// FailedURLRepository tracks URLs whose extraction exhausted its retries.
type FailedURLRepository interface {
	// SaveOrUpdate creates or updates a record, incrementing its retry count
	// on conflict.
	SaveOrUpdate(ctx context.Context, failed *entity.FailedURL) error
	// Delete removes a record, typically after a later successful scrape.
	Delete(ctx context.Context, url string) error
}
