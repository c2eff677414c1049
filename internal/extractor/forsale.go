package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/property-scraper/internal/entity"
	"github.com/user/property-scraper/pkg/config"
)

// ForSale extracts for-sale properties from the main site section.
type ForSale struct {
	cfg     config.CategoryConfig
	company string
}

func NewForSale(cfg config.CategoryConfig, company string) *ForSale {
	return &ForSale{cfg: cfg, company: company}
}

func (e *ForSale) Category() entity.Category { return entity.CategoryForSale }
func (e *ForSale) ListingURL() string        { return e.cfg.ListingURL() }
func (e *ForSale) CardSelector() string      { return e.cfg.CardSelector }
func (e *ForSale) ScrollFirst() bool         { return e.cfg.ScrollFirst }

func (e *ForSale) PaginationSelector(page int) string {
	return fmt.Sprintf(e.cfg.PaginationSelector, page)
}

func (e *ForSale) ExtractLinks(markup string) ([]string, error) {
	return extractLinks(markup, e.cfg.CardSelector, e.cfg.BaseURL)
}

func (e *ForSale) ExtractDetail(markup, url string) (*entity.PropertyRecord, error) {
	if strings.TrimSpace(url) == "" {
		return nil, ErrMissingURL
	}
	doc, err := parseDocument(markup)
	if err != nil {
		return nil, err
	}

	rec := entity.NewPropertyRecord(url, entity.CategoryForSale, e.company)

	rec.Title = strings.TrimSpace(doc.Find("h1.brxe-post-title").First().Text())

	// The site renders both currencies as data attributes on the converted
	// price element.
	if price := doc.Find("p.converted-price").First(); price.Length() > 0 {
		rec.PriceUSD = parseFloat(price.AttrOr("data-usd-price", ""))
		rec.PriceIDR = parseFloat(price.AttrOr("data-idr-price", ""))
	}

	if date, ok := doc.Find(`meta[property="article:published_time"]`).Attr("content"); ok {
		rec.ListingDate = date
	}

	e.extractPostContent(doc, rec)

	doc.Find("ul.featureList__wrapper li").Each(func(_ int, li *goquery.Selection) {
		label := strings.TrimSpace(li.Find("div.brxe-text-basic.featureList").First().Text())
		value := strings.TrimSpace(li.Find("div.jet-listing-dynamic-field__content").First().Text())
		if value == "" {
			value = strings.TrimSpace(li.Find("a.jet-listing-dynamic-terms__link").First().Text())
		}
		if label != "" && value != "" {
			rec.Features[label] = value
		}
	})

	fillFromFeatures(rec)
	detectPool(rec)
	estimateLeaseExpiry(rec)

	return rec, nil
}

// extractPostContent walks the post body paragraph by paragraph. The body is
// one flat run of <p> elements where marker headings split it into the
// description, amenities, key-information and key-features sections.
func (e *ForSale) extractPostContent(doc *goquery.Document, rec *entity.PropertyRecord) {
	section := "description"
	var desc strings.Builder

	doc.Find("div.brxe-post-content p").Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		switch {
		case strings.Contains(text, "WE LOVE"):
			section = "amenities"
			return
		case strings.Contains(text, "KEY INFORMATION"):
			section = "key_information"
			return
		case strings.Contains(text, "Key Features Include"):
			section = "key_features"
			return
		}
		if text == "" {
			return
		}
		switch section {
		case "description":
			desc.WriteString(text)
			desc.WriteString("\n")
		case "amenities":
			rec.Amenities = append(rec.Amenities, text)
		case "key_information":
			rec.KeyInformation = append(rec.KeyInformation, text)
		case "key_features":
			rec.KeyFeatures = append(rec.KeyFeatures, text)
		}
	})

	rec.Description = strings.TrimSuffix(desc.String(), "\n")
}
