package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/user/property-scraper/internal/entity"
	"github.com/user/property-scraper/internal/repository"
	"github.com/user/property-scraper/internal/sanitize"
	"github.com/user/property-scraper/pkg/metrics"
)

// SheetWriter replaces a sheet's contents with a sanitized batch of records:
// ensure the tab exists, clear it, bulk-append header plus rows. A rejected
// batch write is retried once before the failure surfaces.
type SheetWriter struct {
	sheets repository.SheetRepository
}

func NewSheetWriter(sheets repository.SheetRepository) *SheetWriter {
	return &SheetWriter{sheets: sheets}
}

// CompetitorRecords groups one competitor's records for the combined sheet.
type CompetitorRecords struct {
	Competitor string
	Records    []*entity.PropertyRecord
}

// Replace rewrites the named sheet with the given records. The returned
// status is never nil; err is non-nil exactly when status.Status is "failed".
func (w *SheetWriter) Replace(ctx context.Context, name string, records []*entity.PropertyRecord) (*entity.SheetStatus, error) {
	rows := make([][]interface{}, 0, len(records)+1)
	header := make([]interface{}, 0, 29)
	for _, col := range sanitize.Columns() {
		header = append(header, col)
	}
	rows = append(rows, header)
	for _, rec := range records {
		rows = append(rows, sanitize.Row(rec))
	}
	return w.replaceRows(ctx, name, rows, len(records))
}

// ReplaceCombined rewrites the combined sheet, injecting a competitor column
// and accumulating records across every competitor in the run.
func (w *SheetWriter) ReplaceCombined(ctx context.Context, name string, groups []CompetitorRecords) (*entity.SheetStatus, error) {
	total := 0
	header := make([]interface{}, 0, 30)
	for _, col := range sanitize.CombinedColumns() {
		header = append(header, col)
	}
	rows := [][]interface{}{header}
	for _, g := range groups {
		for _, rec := range g.Records {
			rows = append(rows, sanitize.CombinedRow(rec, g.Competitor))
			total++
		}
	}
	return w.replaceRows(ctx, name, rows, total)
}

func (w *SheetWriter) replaceRows(ctx context.Context, name string, rows [][]interface{}, count int) (*entity.SheetStatus, error) {
	status := &entity.SheetStatus{SheetName: name}

	if w.sheets == nil {
		status.Status = "failed"
		status.Message = "spreadsheet backend not configured"
		metrics.SheetWritesTotal.WithLabelValues("failed").Inc()
		return status, fmt.Errorf("%w: backend not configured", repository.ErrPersistRejected)
	}

	created, err := w.sheets.EnsureSheet(ctx, name)
	if err != nil {
		return w.fail(status, fmt.Errorf("ensure sheet %q: %w", name, err))
	}
	if err := w.sheets.Clear(ctx, name); err != nil {
		return w.fail(status, fmt.Errorf("clear sheet %q: %w", name, err))
	}

	if err := w.sheets.AppendRows(ctx, name, rows); err != nil {
		slog.Warn("sheet write rejected, retrying batch once", "sheet", name, "error", err)
		if err = w.sheets.AppendRows(ctx, name, rows); err != nil {
			return w.fail(status, fmt.Errorf("append to sheet %q: %w", name, err))
		}
	}

	if created {
		status.Status = "created"
	} else {
		status.Status = "updated"
	}
	status.RowsWritten = count
	metrics.SheetWritesTotal.WithLabelValues(status.Status).Inc()
	slog.Info("sheet replaced", "sheet", name, "status", status.Status, "rows", count)
	return status, nil
}

func (w *SheetWriter) fail(status *entity.SheetStatus, err error) (*entity.SheetStatus, error) {
	status.Status = "failed"
	status.Message = err.Error()
	metrics.SheetWritesTotal.WithLabelValues("failed").Inc()
	slog.Error("sheet replacement failed", "sheet", status.SheetName, "error", err)
	return status, err
}
