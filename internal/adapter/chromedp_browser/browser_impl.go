// Package chromedp_browser drives a headless Chrome instance through the
// DevTools protocol. Each session owns its own allocator and browser
// context; callers close the session when the run is done.
package chromedp_browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/user/property-scraper/internal/repository"
)

// Options carry the browser launch tunables.
type Options struct {
	PageLoadTimeout time.Duration
	ElementTimeout  time.Duration
	Headless        bool
	UserAgent       string
	// Stealth masks the most common automation fingerprints.
	Stealth bool
}

// Factory builds scoped browser sessions.
type Factory struct {
	opts Options
}

func NewFactory(opts Options) *Factory {
	return &Factory{opts: opts}
}

// NewSession starts a fresh browser. The first Run call launches the Chrome
// process, so a broken environment surfaces here rather than on the first
// navigation.
func (f *Factory) NewSession(ctx context.Context) (repository.BrowserSession, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", f.opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(f.opts.UserAgent),
	)
	if f.opts.Stealth {
		allocOpts = append(allocOpts,
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
		)
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	taskCtx, taskCancel := chromedp.NewContext(allocCtx)

	err := chromedp.Run(taskCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{
			"Accept-Language": "en-US,en;q=0.9",
		}),
	)
	if err != nil {
		taskCancel()
		allocCancel()
		return nil, fmt.Errorf("%w: launching chrome: %v", repository.ErrSessionStart, err)
	}

	slog.Debug("browser session started", "headless", f.opts.Headless)
	return &Session{
		taskCtx:         taskCtx,
		cancels:         []context.CancelFunc{taskCancel, allocCancel},
		pageLoadTimeout: f.opts.PageLoadTimeout,
		elementTimeout:  f.opts.ElementTimeout,
	}, nil
}

// Session wraps one live browser tab.
type Session struct {
	taskCtx         context.Context
	cancels         []context.CancelFunc
	pageLoadTimeout time.Duration
	elementTimeout  time.Duration
}

// Navigate loads a URL and waits for the document body to be ready.
func (s *Session) Navigate(ctx context.Context, url string) error {
	runCtx, cancel := s.boundedCtx(ctx, s.pageLoadTimeout)
	defer cancel()

	err := chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", repository.ErrPageLoadTimeout, url)
	}
	return err
}

// WaitVisible blocks until the selector matches a visible node.
func (s *Session) WaitVisible(ctx context.Context, selector string) error {
	runCtx, cancel := s.boundedCtx(ctx, s.elementTimeout)
	defer cancel()

	err := chromedp.Run(runCtx, chromedp.WaitVisible(selector, chromedp.ByQuery))
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", repository.ErrElementNotFound, selector)
	}
	return err
}

// PageSource returns the full rendered document markup.
func (s *Session) PageSource(ctx context.Context) (string, error) {
	runCtx, cancel := s.boundedCtx(ctx, s.elementTimeout)
	defer cancel()

	var markup string
	err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &markup, chromedp.ByQuery))
	return markup, err
}

// ScrollToBottom repeatedly scrolls the window until the page height stops
// growing, letting lazily loaded listings render.
func (s *Session) ScrollToBottom(ctx context.Context) error {
	runCtx, cancel := s.boundedCtx(ctx, s.pageLoadTimeout)
	defer cancel()

	lastHeight := -1
	for {
		var height int
		err := chromedp.Run(runCtx,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight); document.body.scrollHeight;`, &height),
		)
		if err != nil {
			return err
		}
		if height == lastHeight {
			return nil
		}
		lastHeight = height
		if err := chromedp.Run(runCtx, chromedp.Sleep(time.Second)); err != nil {
			return err
		}
	}
}

// Click scrolls the first matching node into view and clicks it.
func (s *Session) Click(ctx context.Context, selector string) error {
	runCtx, cancel := s.boundedCtx(ctx, s.elementTimeout)
	defer cancel()

	err := chromedp.Run(runCtx,
		chromedp.ScrollIntoView(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible),
	)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", repository.ErrElementNotFound, selector)
	}
	return err
}

// Close tears down the tab, the browser process and the allocator.
func (s *Session) Close() error {
	for _, cancel := range s.cancels {
		cancel()
	}
	return nil
}

// boundedCtx derives a run context that honors both the caller's context and
// the session's timeout. chromedp actions must run on the task context, so
// caller cancellation is propagated by watching it alongside.
func (s *Session) boundedCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithTimeout(s.taskCtx, timeout)
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}
