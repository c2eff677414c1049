package repository

import (
	"context"
	"time"
)

// VisitedRepository deduplicates detail pages across runs. A URL marked
// visited is skipped by later runs until the entry expires, unless the
// caller forces a re-scrape.
type VisitedRepository interface {
	// MarkVisited marks a URL as scraped with an expiry.
	MarkVisited(ctx context.Context, url string, expiry time.Duration) error
	// IsVisited checks whether a URL was scraped recently.
	IsVisited(ctx context.Context, url string) (bool, error)
	// RemoveVisited drops the entry, used for forced re-scrapes.
	RemoveVisited(ctx context.Context, url string) error
}
