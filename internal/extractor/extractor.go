// Package extractor turns raw detail-page markup into PropertyRecords, one
// implementation per listing category. Extraction is deliberately lenient:
// a record is acceptable with nothing but its URL, because per-field
// completeness is worth less than covering the whole source-URL universe.
package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/property-scraper/internal/entity"
	"github.com/user/property-scraper/pkg/utils"
)

// Extractor is the per-category extraction contract. Every implementation
// owns its category's listing root, selector set and field derivation rules.
type Extractor interface {
	Category() entity.Category
	// ListingURL is the category's listing-root page.
	ListingURL() string
	// CardSelector matches property-card anchors on a listing page.
	CardSelector() string
	// PaginationSelector returns the selector for the numbered button that
	// navigates to the given page.
	PaginationSelector(page int) string
	// ScrollFirst reports whether the listing page lazy-loads its cards and
	// needs a scroll-to-bottom pass first.
	ScrollFirst() bool
	// ExtractLinks pulls detail-page URLs out of listing-page markup.
	ExtractLinks(markup string) ([]string, error)
	// ExtractDetail builds a PropertyRecord from detail-page markup.
	ExtractDetail(markup, url string) (*entity.PropertyRecord, error)
}

// Registry maps category identifiers to extractor instances so new
// categories or competitors plug in without touching the orchestrator.
type Registry struct {
	order      []entity.Category
	byCategory map[entity.Category]Extractor
}

func NewRegistry(extractors ...Extractor) *Registry {
	r := &Registry{byCategory: map[entity.Category]Extractor{}}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

func (r *Registry) Register(e Extractor) {
	if _, exists := r.byCategory[e.Category()]; !exists {
		r.order = append(r.order, e.Category())
	}
	r.byCategory[e.Category()] = e
}

func (r *Registry) Get(c entity.Category) (Extractor, bool) {
	e, ok := r.byCategory[c]
	return e, ok
}

// Categories returns registered categories in registration order.
func (r *Registry) Categories() []entity.Category {
	out := make([]entity.Category, len(r.order))
	copy(out, r.order)
	return out
}

// extractLinks is the shared listing-page walk: select card anchors, read
// hrefs, absolutize against the category root.
func extractLinks(markup, selector, baseURL string) ([]string, error) {
	doc, err := parseDocument(markup)
	if err != nil {
		return nil, err
	}
	var links []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return
		}
		links = append(links, utils.AbsoluteURL(baseURL, href))
	})
	return links, nil
}
