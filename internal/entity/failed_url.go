package entity

import "time"

// FailedURL mirrors the `failed_urls` PostgreSQL table schema. Rows are kept
// for diagnostics across runs and removed once the URL succeeds.
type FailedURL struct {
	ID          int64
	URL         string
	Category    Category
	Kind        FailureKind
	Reason      string
	LastAttempt time.Time
	RetryCount  int
}
