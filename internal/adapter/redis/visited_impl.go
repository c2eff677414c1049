package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/property-scraper/pkg/utils"
)

const scrapedURLPrefix = "scraped:"

// VisitedRepoImpl tracks recently scraped property URLs in Redis so repeat
// runs within the TTL window skip them.
type VisitedRepoImpl struct {
	client *redis.Client
}

// NewVisitedRepo creates a new instance of VisitedRepoImpl.
func NewVisitedRepo(client *redis.Client) *VisitedRepoImpl {
	return &VisitedRepoImpl{client: client}
}

// generateKey creates a consistent Redis key for a given URL by hashing it.
func (r *VisitedRepoImpl) generateKey(url string) string {
	return fmt.Sprintf("%s%s", scrapedURLPrefix, utils.HashURL(url))
}

// MarkVisited records a scraped URL with the given expiry.
func (r *VisitedRepoImpl) MarkVisited(ctx context.Context, url string, expiry time.Duration) error {
	key := r.generateKey(url)
	// SETEX is atomic and sets the key with an expiry.
	return r.client.SetEx(ctx, key, "1", expiry).Err()
}

// IsVisited reports whether a URL was scraped within the TTL window.
func (r *VisitedRepoImpl) IsVisited(ctx context.Context, url string) (bool, error) {
	key := r.generateKey(url)
	val, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return val == 1, nil
}

// RemoveVisited drops a URL from the scraped set, used for forced re-scrapes.
func (r *VisitedRepoImpl) RemoveVisited(ctx context.Context, url string) error {
	key := r.generateKey(url)
	return r.client.Del(ctx, key).Err()
}
