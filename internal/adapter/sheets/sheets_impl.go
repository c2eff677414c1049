// Package sheets persists scraped records to a Google Sheets spreadsheet
// through a service-account credential.
package sheets

import (
	"context"
	"fmt"

	"github.com/user/property-scraper/internal/repository"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetRepoImpl provides a concrete implementation for the SheetRepository interface using the Sheets API.
type SheetRepoImpl struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSheetRepo authenticates with the given service-account key file and
// binds to one spreadsheet.
func NewSheetRepo(ctx context.Context, credentialsFile, spreadsheetID string) (*SheetRepoImpl, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return &SheetRepoImpl{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// EnsureSheet creates the named tab if it does not exist yet. The returned
// bool reports whether a new tab was created.
func (r *SheetRepoImpl) EnsureSheet(ctx context.Context, name string) (bool, error) {
	names, err := r.SheetNames(ctx)
	if err != nil {
		return false, err
	}
	for _, existing := range names {
		if existing == name {
			return false, nil
		}
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: name},
			},
		}},
	}
	if _, err := r.svc.Spreadsheets.BatchUpdate(r.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return false, fmt.Errorf("%w: adding sheet %q: %v", repository.ErrPersistRejected, name, err)
	}
	return true, nil
}

// Clear wipes every cell of the named tab.
func (r *SheetRepoImpl) Clear(ctx context.Context, name string) error {
	rangeRef := fmt.Sprintf("%s!A:ZZ", name)
	_, err := r.svc.Spreadsheets.Values.Clear(r.spreadsheetID, rangeRef, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("%w: clearing sheet %q: %v", repository.ErrPersistRejected, name, err)
	}
	return nil
}

// AppendRows bulk-appends rows after the tab's last non-empty row.
func (r *SheetRepoImpl) AppendRows(ctx context.Context, name string, rows [][]interface{}) error {
	values := &sheets.ValueRange{Values: rows}
	_, err := r.svc.Spreadsheets.Values.
		Append(r.spreadsheetID, fmt.Sprintf("%s!A1", name), values).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: appending %d rows to %q: %v", repository.ErrPersistRejected, len(rows), name, err)
	}
	return nil
}

// SheetNames lists the spreadsheet's tab titles.
func (r *SheetRepoImpl) SheetNames(ctx context.Context) ([]string, error) {
	ss, err := r.svc.Spreadsheets.Get(r.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: reading spreadsheet metadata: %v", repository.ErrPersistRejected, err)
	}
	names := make([]string, 0, len(ss.Sheets))
	for _, sh := range ss.Sheets {
		if sh.Properties != nil {
			names = append(names, sh.Properties.Title)
		}
	}
	return names, nil
}
