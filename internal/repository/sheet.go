package repository

import (
	"context"
	"errors"
)

// ErrPersistRejected means the spreadsheet backend rejected a write.
var ErrPersistRejected = errors.New("spreadsheet write rejected")

// SheetRepository is the contract against the external spreadsheet backend.
// Sheets are addressed by tab name.
type SheetRepository interface {
	// EnsureSheet creates the named tab if missing. It reports whether a new
	// tab had to be created.
	EnsureSheet(ctx context.Context, name string) (created bool, err error)
	// Clear removes all values from the named tab.
	Clear(ctx context.Context, name string) error
	// AppendRows bulk-appends rows to the named tab.
	AppendRows(ctx context.Context, name string, rows [][]interface{}) error
	// SheetNames lists the spreadsheet's tab names.
	SheetNames(ctx context.Context) ([]string, error)
}
