package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/property-scraper/internal/entity"
	"github.com/user/property-scraper/internal/repository"
)

// fakeExtractor maps listing-page markup straight to link lists so tests can
// script pagination without real HTML.
type fakeExtractor struct {
	category entity.Category
	listing  string
	scroll   bool
	links    map[string][]string
	detail   func(markup, url string) (*entity.PropertyRecord, error)
}

func (f *fakeExtractor) Category() entity.Category { return f.category }
func (f *fakeExtractor) ListingURL() string        { return f.listing }
func (f *fakeExtractor) CardSelector() string      { return "div.card a" }
func (f *fakeExtractor) ScrollFirst() bool         { return f.scroll }

func (f *fakeExtractor) PaginationSelector(page int) string {
	return fmt.Sprintf("page-%d", page)
}

func (f *fakeExtractor) ExtractLinks(markup string) ([]string, error) {
	links, ok := f.links[markup]
	if !ok {
		return nil, fmt.Errorf("no links scripted for %q", markup)
	}
	return links, nil
}

func (f *fakeExtractor) ExtractDetail(markup, url string) (*entity.PropertyRecord, error) {
	if f.detail != nil {
		return f.detail(markup, url)
	}
	return entity.NewPropertyRecord(url, f.category, "Test Co"), nil
}

// fakeSession scripts listing pages in pagination order and per-URL
// navigation failures.
type fakeSession struct {
	listingURL string
	pages      []string
	pageIdx    int
	current    string
	navErr     map[string]error
	waitErr    map[string]error
	navigated  []string
	clicks     int
	scrolled   bool
	closed     bool
}

func (s *fakeSession) Navigate(_ context.Context, url string) error {
	s.navigated = append(s.navigated, url)
	if err := s.navErr[url]; err != nil {
		return err
	}
	if url == s.listingURL {
		s.pageIdx = 0
		s.current = s.pages[0]
		return nil
	}
	s.current = "detail:" + url
	return nil
}

func (s *fakeSession) WaitVisible(_ context.Context, _ string) error {
	return s.waitErr[s.current]
}

func (s *fakeSession) PageSource(_ context.Context) (string, error) {
	return s.current, nil
}

func (s *fakeSession) ScrollToBottom(_ context.Context) error {
	s.scrolled = true
	return nil
}

func (s *fakeSession) Click(_ context.Context, _ string) error {
	s.clicks++
	if s.pageIdx+1 >= len(s.pages) {
		return errors.New("no such element")
	}
	s.pageIdx++
	s.current = s.pages[s.pageIdx]
	return nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeFactory struct {
	session *fakeSession
	err     error
}

func (f *fakeFactory) NewSession(_ context.Context) (repository.BrowserSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

type fakeVisited struct {
	visited map[string]bool
	marked  []string
	removed []string
	lookErr error
}

func (f *fakeVisited) MarkVisited(_ context.Context, url string, _ time.Duration) error {
	f.marked = append(f.marked, url)
	return nil
}

func (f *fakeVisited) IsVisited(_ context.Context, url string) (bool, error) {
	if f.lookErr != nil {
		return false, f.lookErr
	}
	return f.visited[url], nil
}

func (f *fakeVisited) RemoveVisited(_ context.Context, url string) error {
	f.removed = append(f.removed, url)
	return nil
}

type fakeSheetRepo struct {
	existing    []string
	created     []string
	cleared     []string
	appendErrs  []error
	appendCalls int
	lastRows    [][]interface{}
	rowsByName  map[string][][]interface{}
}

func (f *fakeSheetRepo) EnsureSheet(_ context.Context, name string) (bool, error) {
	for _, n := range f.existing {
		if n == name {
			return false, nil
		}
	}
	f.existing = append(f.existing, name)
	f.created = append(f.created, name)
	return true, nil
}

func (f *fakeSheetRepo) Clear(_ context.Context, name string) error {
	f.cleared = append(f.cleared, name)
	return nil
}

func (f *fakeSheetRepo) AppendRows(_ context.Context, name string, rows [][]interface{}) error {
	f.appendCalls++
	if len(f.appendErrs) > 0 {
		err := f.appendErrs[0]
		f.appendErrs = f.appendErrs[1:]
		if err != nil {
			return err
		}
	}
	f.lastRows = rows
	if f.rowsByName == nil {
		f.rowsByName = map[string][][]interface{}{}
	}
	f.rowsByName[name] = rows
	return nil
}

func (f *fakeSheetRepo) SheetNames(_ context.Context) ([]string, error) {
	return f.existing, nil
}

type fakeFailedURLs struct {
	saved   []*entity.FailedURL
	deleted []string
}

func (f *fakeFailedURLs) SaveOrUpdate(_ context.Context, failed *entity.FailedURL) error {
	f.saved = append(f.saved, failed)
	return nil
}

func (f *fakeFailedURLs) Delete(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

type fakeHistory struct {
	runs []*entity.ScrapeRun
}

func (f *fakeHistory) SaveRun(_ context.Context, run *entity.ScrapeRun) error {
	f.runs = append(f.runs, run)
	return nil
}
