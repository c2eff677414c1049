package repository

import (
	"context"
	"errors"
)

var (
	// ErrSessionStart means the browser process could not be started or
	// crashed before becoming usable. Fatal for the whole run.
	ErrSessionStart = errors.New("browser session failed to start")
	// ErrPageLoadTimeout means a navigation did not settle in time.
	ErrPageLoadTimeout = errors.New("page load timed out")
	// ErrElementNotFound means a selector never matched a visible element.
	ErrElementNotFound = errors.New("element not found")
)

// BrowserSession is one exclusively-owned headless browser session. A run
// acquires a fresh session and must Close it on every exit path.
type BrowserSession interface {
	// Navigate loads a URL and waits for the document to be ready.
	Navigate(ctx context.Context, url string) error
	// WaitVisible blocks until the selector matches a visible element.
	WaitVisible(ctx context.Context, selector string) error
	// PageSource returns the current DOM serialized as markup.
	PageSource(ctx context.Context) (string, error)
	// ScrollToBottom repeatedly scrolls down until the page height settles,
	// triggering lazy-loaded content.
	ScrollToBottom(ctx context.Context) error
	// Click scrolls the first match into view and clicks it.
	Click(ctx context.Context, selector string) error
	// Close terminates the browser process.
	Close() error
}

// BrowserFactory creates browser sessions.
type BrowserFactory interface {
	NewSession(ctx context.Context) (BrowserSession, error)
}
