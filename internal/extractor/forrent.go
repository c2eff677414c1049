package extractor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/property-scraper/internal/entity"
	"github.com/user/property-scraper/pkg/config"
)

// ForRent extracts rental properties from the villas subdomain, which only
// publishes IDR prices and a different specification-block layout.
type ForRent struct {
	cfg     config.CategoryConfig
	company string
	usdRate float64
}

func NewForRent(cfg config.CategoryConfig, company string, usdRate float64) *ForRent {
	return &ForRent{cfg: cfg, company: company, usdRate: usdRate}
}

func (e *ForRent) Category() entity.Category { return entity.CategoryForRent }
func (e *ForRent) ListingURL() string        { return e.cfg.ListingURL() }
func (e *ForRent) CardSelector() string      { return e.cfg.CardSelector }
func (e *ForRent) ScrollFirst() bool         { return e.cfg.ScrollFirst }

func (e *ForRent) PaginationSelector(page int) string {
	return fmt.Sprintf(e.cfg.PaginationSelector, page)
}

func (e *ForRent) ExtractLinks(markup string) ([]string, error) {
	return extractLinks(markup, e.cfg.CardSelector, e.cfg.BaseURL)
}

func (e *ForRent) ExtractDetail(markup, url string) (*entity.PropertyRecord, error) {
	if strings.TrimSpace(url) == "" {
		return nil, ErrMissingURL
	}
	doc, err := parseDocument(markup)
	if err != nil {
		return nil, err
	}

	rec := entity.NewPropertyRecord(url, entity.CategoryForRent, e.company)

	rec.Title = strings.TrimSpace(doc.Find("h1.brxe-post-title").First().Text())
	switch {
	case strings.Contains(strings.ToLower(rec.Title), "villa"):
		rec.PropertyType = "villa"
	case strings.Contains(strings.ToLower(rec.Title), "land"):
		rec.PropertyType = "land"
	}

	e.extractPrice(doc, rec)

	rec.Location = strings.TrimSpace(doc.Find("div.jet-listing-dynamic-field__content").First().Text())

	// Specification blocks pair one value with one or more labels.
	doc.Find("div.listing-data__wrapper").Each(func(_ int, wrapper *goquery.Selection) {
		value := strings.TrimSpace(wrapper.Find("div.listing-data__text").First().Text())
		if value == "" {
			return
		}
		wrapper.Find("div.brxe-block > div.brxe-text-basic:not(.listing-data_text)").Each(func(_ int, label *goquery.Selection) {
			key := strings.TrimSpace(label.Text())
			if key != "" {
				rec.Features[key] = value
			}
		})
	})

	var paragraphs []string
	doc.Find("div.x-read-more_content").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	rec.Description = strings.Join(paragraphs, "\n")

	fillFromFeatures(rec)
	detectPool(rec)
	estimateLeaseExpiry(rec)

	return rec, nil
}

// extractPrice reads the IDR price and derives USD at the configured rate,
// rounded to cents.
func (e *ForRent) extractPrice(doc *goquery.Document, rec *entity.PropertyRecord) {
	raw := strings.TrimSpace(doc.Find("span.wpcs_price").First().Text())
	digits := digitsOnly(raw)
	if digits == "" {
		return
	}
	idr, err := strconv.ParseFloat(digits, 64)
	if err != nil || math.IsNaN(idr) || math.IsInf(idr, 0) {
		return
	}
	rec.PriceIDR = &idr
	if e.usdRate > 0 {
		usd := math.Round(idr/e.usdRate*100) / 100
		rec.PriceUSD = &usd
	}
}
