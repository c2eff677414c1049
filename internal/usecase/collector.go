package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/property-scraper/internal/entity"
	"github.com/user/property-scraper/internal/extractor"
	"github.com/user/property-scraper/internal/repository"
	"github.com/user/property-scraper/pkg/metrics"
)

// URLCollector paginates a category's listing pages and accumulates
// detail-page URLs, deduplicated in first-seen order. A failed page is
// logged and treated as yielding no links; it never aborts the run.
type URLCollector struct {
	registry  *extractor.Registry
	pageDelay time.Duration
}

func NewURLCollector(registry *extractor.Registry, pageDelay time.Duration) *URLCollector {
	return &URLCollector{registry: registry, pageDelay: pageDelay}
}

// Collect walks the category's listing pages with the given session until a
// page yields no new links, pagination runs out, or maxPages is reached
// (maxPages <= 0 means uncapped).
func (c *URLCollector) Collect(ctx context.Context, session repository.BrowserSession, category entity.Category, maxPages int) ([]string, error) {
	ext, ok := c.registry.Get(category)
	if !ok {
		return nil, fmt.Errorf("unknown category %q", category)
	}

	urls := []string{}
	seen := map[string]struct{}{}

	if err := session.Navigate(ctx, ext.ListingURL()); err != nil {
		slog.Warn("listing root failed to load", "category", category, "url", ext.ListingURL(), "error", err)
		return urls, nil
	}
	if ext.ScrollFirst() {
		if err := session.ScrollToBottom(ctx); err != nil {
			slog.Warn("scroll pass failed, continuing with what loaded", "category", category, "error", err)
		}
	}

	page := 1
	for {
		metrics.ListingPagesCollected.Inc()

		added := c.collectPage(ctx, session, ext, category, page, seen, &urls)
		slog.Info("listing page collected",
			"category", category, "page", page, "new_links", added, "total_links", len(urls))

		if added == 0 {
			break
		}
		if maxPages > 0 && page >= maxPages {
			break
		}
		if err := session.Click(ctx, ext.PaginationSelector(page+1)); err != nil {
			slog.Info("pagination exhausted", "category", category, "last_page", page)
			break
		}
		page++
		if err := sleepCtx(ctx, c.pageDelay); err != nil {
			return urls, err
		}
	}

	return urls, nil
}

func (c *URLCollector) collectPage(ctx context.Context, session repository.BrowserSession, ext extractor.Extractor, category entity.Category, page int, seen map[string]struct{}, urls *[]string) int {
	if err := session.WaitVisible(ctx, ext.CardSelector()); err != nil {
		slog.Warn("property cards never appeared", "category", category, "page", page, "error", err)
		return 0
	}
	markup, err := session.PageSource(ctx)
	if err != nil {
		slog.Warn("could not read page source", "category", category, "page", page, "error", err)
		return 0
	}
	links, err := ext.ExtractLinks(markup)
	if err != nil {
		slog.Warn("listing page markup unparseable", "category", category, "page", page, "error", err)
		return 0
	}

	added := 0
	for _, link := range links {
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}
		*urls = append(*urls, link)
		added++
	}
	return added
}
