package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/user/property-scraper/internal/entity"
	"github.com/user/property-scraper/internal/extractor"
)

const listingRoot = "https://example.com/properties"

func newCollectorFixture(pages []string, links map[string][]string) (*URLCollector, *fakeSession, *fakeExtractor) {
	ext := &fakeExtractor{
		category: entity.CategoryForSale,
		listing:  listingRoot,
		links:    links,
	}
	session := &fakeSession{listingURL: listingRoot, pages: pages}
	collector := NewURLCollector(extractor.NewRegistry(ext), 0)
	return collector, session, ext
}

func TestCollectPaginatesAndDeduplicates(t *testing.T) {
	collector, session, _ := newCollectorFixture(
		[]string{"L1", "L2", "L3"},
		map[string][]string{
			"L1": {"https://example.com/p/a", "https://example.com/p/b", "https://example.com/p/c"},
			"L2": {"https://example.com/p/c", "https://example.com/p/d"},
			"L3": {"https://example.com/p/d"},
		},
	)

	urls, err := collector.Collect(context.Background(), session, entity.CategoryForSale, 0)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	want := []string{
		"https://example.com/p/a",
		"https://example.com/p/b",
		"https://example.com/p/c",
		"https://example.com/p/d",
	}
	if len(urls) != len(want) {
		t.Fatalf("urls: got %v, want %v", urls, want)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d]: got %q, want %q (first-seen order)", i, urls[i], want[i])
		}
	}
	if session.clicks != 2 {
		t.Errorf("pagination clicks: got %d, want 2", session.clicks)
	}
}

func TestCollectThreePagesOneDuplicate(t *testing.T) {
	pageLinks := func(page, n int) []string {
		links := make([]string, 0, n)
		for i := 0; i < n; i++ {
			links = append(links, fmt.Sprintf("https://example.com/p/%d-%d", page, i))
		}
		return links
	}
	l1 := pageLinks(1, 10)
	l2 := pageLinks(2, 10)
	l2[0] = l1[9] // repeated across pages 1 and 2
	l3 := pageLinks(3, 10)

	collector, session, _ := newCollectorFixture(
		[]string{"L1", "L2", "L3"},
		map[string][]string{"L1": l1, "L2": l2, "L3": l3},
	)

	urls, err := collector.Collect(context.Background(), session, entity.CategoryForSale, 0)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(urls) != 29 {
		t.Fatalf("urls: got %d, want 29 unique", len(urls))
	}
	seen := map[string]bool{}
	for _, u := range urls {
		if seen[u] {
			t.Errorf("duplicate URL in output: %q", u)
		}
		seen[u] = true
	}
	if urls[9] != l1[9] {
		t.Errorf("first occurrence should win: got %q at index 9", urls[9])
	}
}

func TestCollectStopsAtMaxPages(t *testing.T) {
	collector, session, _ := newCollectorFixture(
		[]string{"L1", "L2"},
		map[string][]string{
			"L1": {"https://example.com/p/a"},
			"L2": {"https://example.com/p/b"},
		},
	)

	urls, err := collector.Collect(context.Background(), session, entity.CategoryForSale, 1)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(urls) != 1 {
		t.Errorf("urls: got %v, want one page's worth", urls)
	}
	if session.clicks != 0 {
		t.Errorf("clicks: got %d, want 0", session.clicks)
	}
}

func TestCollectToleratesFailedPage(t *testing.T) {
	collector, session, _ := newCollectorFixture(
		[]string{"L1", "L2"},
		map[string][]string{
			"L1": {"https://example.com/p/a", "https://example.com/p/b"},
			"L2": {"https://example.com/p/c"},
		},
	)
	session.waitErr = map[string]error{"L2": errors.New("cards never appeared")}

	urls, err := collector.Collect(context.Background(), session, entity.CategoryForSale, 0)
	if err != nil {
		t.Fatalf("Collect should not fail on a bad page: %v", err)
	}
	if len(urls) != 2 {
		t.Errorf("urls: got %v, want the first page only", urls)
	}
}

func TestCollectListingRootUnreachable(t *testing.T) {
	collector, session, _ := newCollectorFixture([]string{"L1"}, map[string][]string{"L1": {"x"}})
	session.navErr = map[string]error{listingRoot: errors.New("dns failure")}

	urls, err := collector.Collect(context.Background(), session, entity.CategoryForSale, 0)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(urls) != 0 {
		t.Errorf("urls: got %v, want none", urls)
	}
}

func TestCollectUnknownCategory(t *testing.T) {
	collector, session, _ := newCollectorFixture([]string{"L1"}, map[string][]string{"L1": {}})
	if _, err := collector.Collect(context.Background(), session, entity.Category("bogus"), 0); err == nil {
		t.Fatal("expected an error for an unregistered category")
	}
}

func TestCollectScrollsLazyListings(t *testing.T) {
	ext := &fakeExtractor{
		category: entity.CategoryForRent,
		listing:  listingRoot,
		scroll:   true,
		links:    map[string][]string{"L1": {"https://example.com/r/a"}},
	}
	session := &fakeSession{listingURL: listingRoot, pages: []string{"L1"}}
	collector := NewURLCollector(extractor.NewRegistry(ext), 0)

	if _, err := collector.Collect(context.Background(), session, entity.CategoryForRent, 0); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if !session.scrolled {
		t.Error("lazy-loading category should trigger a scroll pass")
	}
}
