package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/user/property-scraper/internal/entity"
	"github.com/user/property-scraper/internal/extractor"
	"github.com/user/property-scraper/internal/repository"
	"github.com/user/property-scraper/pkg/metrics"
)

// RunOptions parameterize one orchestrated pass.
type RunOptions struct {
	Categories    []entity.Category
	MaxProperties int
	MaxPages      int
	// Persist writes the run's records to the spreadsheet backend.
	Persist bool
	// Force re-scrapes URLs present in the visited cache.
	Force bool
	// Unlimited ignores MaxProperties and scrapes every discovered URL.
	Unlimited bool
	SheetName string
}

// OrchestratorConfig carries the orchestrator's tunables.
type OrchestratorConfig struct {
	MaxRetries     int
	BackoffBase    time.Duration
	RateLimitDelay time.Duration
	VisitedTTL     time.Duration
	CompetitorName string
	SheetName      string
	CombinedSheet  string
}

// ScrapeOrchestrator drives browser sessions through the
// collect → extract → persist state machine, applying retries and
// aggregating results. The visited cache and the history repositories are
// optional; a nil repository disables that concern.
type ScrapeOrchestrator struct {
	browser   repository.BrowserFactory
	registry  *extractor.Registry
	collector *URLCollector
	writer    *SheetWriter
	visited   repository.VisitedRepository
	failed    repository.FailedURLRepository
	history   repository.RunHistoryRepository
	cfg       OrchestratorConfig
}

func NewScrapeOrchestrator(
	browser repository.BrowserFactory,
	registry *extractor.Registry,
	collector *URLCollector,
	writer *SheetWriter,
	visited repository.VisitedRepository,
	failed repository.FailedURLRepository,
	history repository.RunHistoryRepository,
	cfg OrchestratorConfig,
) *ScrapeOrchestrator {
	return &ScrapeOrchestrator{
		browser:   browser,
		registry:  registry,
		collector: collector,
		writer:    writer,
		visited:   visited,
		failed:    failed,
		history:   history,
		cfg:       cfg,
	}
}

// Categories exposes the registered category set for the API layer.
func (o *ScrapeOrchestrator) Categories() []entity.Category {
	return o.registry.Categories()
}

// CompetitorName exposes the configured competitor identity.
func (o *ScrapeOrchestrator) CompetitorName() string {
	return o.cfg.CompetitorName
}

// CollectURLs runs only the URL-collection stage with its own scoped
// session.
func (o *ScrapeOrchestrator) CollectURLs(ctx context.Context, categories []entity.Category, maxPages int) (map[entity.Category][]string, error) {
	session, err := o.browser.NewSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrSessionStart, err)
	}
	defer o.closeSession(session)

	results := map[entity.Category][]string{}
	for _, category := range categories {
		urls, err := o.collector.Collect(ctx, session, category, maxPages)
		if err != nil {
			return results, err
		}
		results[category] = urls
	}
	return results, nil
}

type categorizedURL struct {
	url      string
	category entity.Category
}

// Run executes the full state machine. The returned run is non-nil even on
// failure so callers always get the aggregate report; err is non-nil when
// the session could not start or persistence was rejected after its retry.
func (o *ScrapeOrchestrator) Run(ctx context.Context, opts RunOptions) (*entity.ScrapeRun, error) {
	run := entity.NewScrapeRun()
	start := time.Now()
	defer func() {
		run.Elapsed = time.Since(start)
	}()

	session, err := o.browser.NewSession(ctx)
	if err != nil {
		run.State = entity.StateFailed
		run.Failures = append(run.Failures, entity.Failure{
			Kind:   entity.FailureSession,
			Reason: err.Error(),
		})
		metrics.ScrapesTotal.WithLabelValues("failure", string(entity.FailureSession)).Inc()
		return run, fmt.Errorf("%w: %v", repository.ErrSessionStart, err)
	}
	defer o.closeSession(session)

	// Stage 1: collect URLs per category.
	var queue []categorizedURL
	for _, category := range opts.Categories {
		urls, err := o.collector.Collect(ctx, session, category, opts.MaxPages)
		if err != nil {
			slog.Warn("url collection aborted", "category", category, "error", err)
		}
		run.URLs[category] = urls
		run.PerCategory[category] = &entity.CategorySummary{URLsFound: len(urls)}
		for _, u := range urls {
			queue = append(queue, categorizedURL{url: u, category: category})
		}
	}

	// Stage 2: extract details, property by property.
	run.State = entity.StateExtractingDetails
	limit := len(queue)
	if !opts.Unlimited && opts.MaxProperties > 0 && opts.MaxProperties < limit {
		limit = opts.MaxProperties
	}

	for i, item := range queue[:limit] {
		if ctx.Err() != nil {
			break
		}
		if i > 0 {
			// Rate-limiting pause between consecutive fetches, regardless of
			// the previous outcome, to reduce block risk.
			if err := sleepCtx(ctx, o.cfg.RateLimitDelay); err != nil {
				break
			}
		}

		if o.skipVisited(ctx, item, opts.Force) {
			run.Skipped++
			run.PerCategory[item.category].Skipped++
			metrics.ScrapesTotal.WithLabelValues("skipped", "").Inc()
			continue
		}

		slog.Info("scraping property", "category", item.category, "url", item.url, "progress", fmt.Sprintf("%d/%d", i+1, limit))
		rec, err := o.fetchDetail(ctx, session, item)
		if err != nil {
			o.recordFailure(ctx, run, item, err)
			continue
		}

		run.Records = append(run.Records, rec)
		run.Succeeded++
		run.PerCategory[item.category].Scraped++
		metrics.ScrapesTotal.WithLabelValues("success", "").Inc()
		o.markScraped(ctx, item.url)
	}
	run.TotalAttempted = run.Succeeded + run.Failed

	// Stage 3: persist.
	var persistErr error
	if opts.Persist {
		run.State = entity.StateWritingSheet
		sheetName := opts.SheetName
		if sheetName == "" {
			sheetName = o.cfg.SheetName
		}
		status, err := o.writer.Replace(ctx, sheetName, run.Records)
		run.SheetResult = status
		if err != nil {
			persistErr = err
			// The batch failure is recorded without touching the per-URL
			// attempted/failed counters.
			run.Failures = append(run.Failures, entity.Failure{
				Kind:   entity.FailurePersistence,
				Reason: err.Error(),
			})
		} else if o.cfg.CombinedSheet != "" {
			// The cross-competitor sheet is best effort once the primary
			// write landed.
			groups := []CompetitorRecords{{Competitor: o.cfg.CompetitorName, Records: run.Records}}
			if _, err := o.writer.ReplaceCombined(ctx, o.cfg.CombinedSheet, groups); err != nil {
				slog.Warn("combined sheet write failed", "sheet", o.cfg.CombinedSheet, "error", err)
			}
		}
	}

	run.State = entity.StateDone
	if persistErr != nil {
		run.State = entity.StateFailed
	}
	run.Elapsed = time.Since(start)
	for category := range run.PerCategory {
		metrics.ScrapeDuration.WithLabelValues(string(category)).Observe(run.Elapsed.Seconds())
	}

	o.saveHistory(ctx, run)

	slog.Info("run finished",
		"state", run.State,
		"attempted", run.TotalAttempted,
		"succeeded", run.Succeeded,
		"failed", run.Failed,
		"skipped", run.Skipped,
		"success_rate", run.SuccessRate(),
		"elapsed", run.Elapsed.Round(time.Millisecond))

	return run, persistErr
}

// fetchDetail attempts one detail page up to MaxRetries times with growing
// backoff. Exhausted retries surface the last error.
func (o *ScrapeOrchestrator) fetchDetail(ctx context.Context, session repository.BrowserSession, item categorizedURL) (*entity.PropertyRecord, error) {
	ext, ok := o.registry.Get(item.category)
	if !ok {
		return nil, fmt.Errorf("unknown category %q", item.category)
	}

	var lastErr error
	delay := o.cfg.BackoffBase
	for attempt := 1; attempt <= o.cfg.MaxRetries; attempt++ {
		rec, err := o.fetchOnce(ctx, session, ext, item.url)
		if err == nil {
			return rec, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, lastErr
		}
		if attempt < o.cfg.MaxRetries {
			slog.Warn("detail fetch failed, backing off",
				"url", item.url, "attempt", attempt, "max", o.cfg.MaxRetries, "delay", delay, "error", lastErr)
			if err := sleepCtx(ctx, delay); err != nil {
				return nil, lastErr
			}
			delay += o.cfg.BackoffBase
		}
	}
	return nil, fmt.Errorf("giving up on %s after %d attempts: %w", item.url, o.cfg.MaxRetries, lastErr)
}

func (o *ScrapeOrchestrator) fetchOnce(ctx context.Context, session repository.BrowserSession, ext extractor.Extractor, url string) (*entity.PropertyRecord, error) {
	if err := session.Navigate(ctx, url); err != nil {
		return nil, err
	}
	markup, err := session.PageSource(ctx)
	if err != nil {
		return nil, err
	}
	rec, err := ext.ExtractDetail(markup, url)
	if err != nil {
		return nil, err
	}
	if rec.URL == "" {
		return nil, extractor.ErrMissingURL
	}
	return rec, nil
}

func (o *ScrapeOrchestrator) skipVisited(ctx context.Context, item categorizedURL, force bool) bool {
	if o.visited == nil {
		return false
	}
	if force {
		if err := o.visited.RemoveVisited(ctx, item.url); err != nil {
			slog.Warn("could not clear visited entry for forced scrape", "url", item.url, "error", err)
		}
		return false
	}
	visited, err := o.visited.IsVisited(ctx, item.url)
	if err != nil {
		slog.Warn("visited-cache lookup failed, scraping anyway", "url", item.url, "error", err)
		return false
	}
	if visited {
		slog.Info("skipping recently scraped URL", "url", item.url)
	}
	return visited
}

func (o *ScrapeOrchestrator) markScraped(ctx context.Context, url string) {
	if o.visited != nil {
		if err := o.visited.MarkVisited(ctx, url, o.cfg.VisitedTTL); err != nil {
			slog.Warn("could not mark URL as scraped", "url", url, "error", err)
		}
	}
	if o.failed != nil {
		if err := o.failed.Delete(ctx, url); err != nil {
			slog.Warn("could not clear failed-url entry", "url", url, "error", err)
		}
	}
}

func (o *ScrapeOrchestrator) recordFailure(ctx context.Context, run *entity.ScrapeRun, item categorizedURL, err error) {
	kind := classifyError(err)
	run.RecordFailure(item.url, item.category, kind, err.Error())
	metrics.ScrapesTotal.WithLabelValues("failure", string(kind)).Inc()
	slog.Error("property scrape failed", "url", item.url, "category", item.category, "kind", kind, "error", err)

	if o.failed != nil {
		entry := &entity.FailedURL{
			URL:         item.url,
			Category:    item.category,
			Kind:        kind,
			Reason:      err.Error(),
			LastAttempt: time.Now(),
		}
		if err := o.failed.SaveOrUpdate(ctx, entry); err != nil {
			slog.Warn("could not record failed URL", "url", item.url, "error", err)
		}
	}
}

func (o *ScrapeOrchestrator) saveHistory(ctx context.Context, run *entity.ScrapeRun) {
	if o.history == nil {
		return
	}
	if err := o.history.SaveRun(ctx, run); err != nil {
		slog.Warn("could not persist run summary", "error", err)
	}
}

func (o *ScrapeOrchestrator) closeSession(session repository.BrowserSession) {
	if err := session.Close(); err != nil {
		slog.Error("browser session close failed", "error", err)
		return
	}
	slog.Debug("browser session closed")
}

func classifyError(err error) entity.FailureKind {
	switch {
	case errors.Is(err, extractor.ErrParseFailed):
		return entity.FailureParse
	case errors.Is(err, extractor.ErrMissingURL):
		return entity.FailureValidation
	case errors.Is(err, repository.ErrPersistRejected):
		return entity.FailurePersistence
	case errors.Is(err, repository.ErrSessionStart):
		return entity.FailureSession
	default:
		// Page-load timeouts, missing elements and everything else the
		// browser throws count as navigation failures.
		return entity.FailureNavigation
	}
}
