package extractor

import (
	"strings"

	"github.com/user/property-scraper/internal/entity"
)

// featureProjections maps specification-block labels to the named scalar
// fields they project onto. The features mapping stays the superset; these
// only fill fields the page did not provide elsewhere.
var featureStringProjections = map[string]func(*entity.PropertyRecord) *string{
	"Property ID": func(r *entity.PropertyRecord) *string { return &r.PropertyID },
	"Furnish":     func(r *entity.PropertyRecord) *string { return &r.Furnish },
	"Status":      func(r *entity.PropertyRecord) *string { return &r.Status },
	"Type":        func(r *entity.PropertyRecord) *string { return &r.Type },
	"Area":        func(r *entity.PropertyRecord) *string { return &r.Location },
	"Label":       func(r *entity.PropertyRecord) *string { return &r.ListingStatus },
}

// fillFromFeatures projects known labels from the catch-all features mapping
// onto the named fields, with type coercion for the numeric ones. Existing
// values win; only absent fields are filled.
func fillFromFeatures(rec *entity.PropertyRecord) {
	feats := rec.Features

	for label, field := range featureStringProjections {
		if target := field(rec); *target == "" {
			*target = feats[label]
		}
	}

	if rec.Bedrooms == nil {
		rec.Bedrooms = parseInt(feats["Bedroom"])
	}
	if rec.Bathrooms == nil {
		rec.Bathrooms = parseInt(feats["Bathroom"])
	}
	if rec.LandSizeSqm == nil {
		rec.LandSizeSqm = parseFloat(feats["Land Area"])
	}
	if rec.BuildingSizeSqm == nil {
		rec.BuildingSizeSqm = parseFloat(feats["Property Size"])
	}
	if rec.YearBuilt == nil {
		rec.YearBuilt = parseInt(feats["Year Built"])
	}
	if rec.PoolSize == nil {
		rec.PoolSize = parseInt(feats["Pool Size"])
	}
	if rec.LeaseDuration == nil {
		// "Leasehold" reads like "25 years"; only the leading token counts.
		if v := strings.TrimSpace(feats["Leasehold"]); v != "" {
			first, _, _ := strings.Cut(v, " ")
			rec.LeaseDuration = parseInt(first)
		}
	}
}

var (
	poolKeywords = []string{"pool", "swimming pool", "plunge pool", "lap pool", "infinity pool", "jacuzzi"}
	poolTypes    = []string{"private", "shared", "communal", "infinity", "plunge", "lap", "jacuzzi"}
)

// detectPool scans every free-text field for pool-indicating tokens. The
// pool type collects all matching type tokens ("private infinity pool" →
// "Private Infinity"); type and size are only kept when a pool was found.
func detectPool(rec *entity.PropertyRecord) {
	sources := []string{rec.Description}
	sources = append(sources, rec.KeyInformation...)
	sources = append(sources, rec.KeyFeatures...)
	sources = append(sources, rec.Amenities...)
	allText := strings.ToLower(strings.Join(sources, " "))

	for _, kw := range poolKeywords {
		if strings.Contains(allText, kw) {
			rec.Pool = true
			break
		}
	}

	if !rec.Pool {
		rec.PoolType = ""
		rec.PoolSize = nil
		return
	}

	var matched []string
	for _, t := range poolTypes {
		if strings.Contains(allText, t) {
			matched = append(matched, capitalize(t))
		}
	}
	rec.PoolType = strings.Join(matched, " ")
}

// estimateLeaseExpiry derives the lease expiry year when both the lease
// duration and the start year are known; otherwise it stays absent.
func estimateLeaseExpiry(rec *entity.PropertyRecord) {
	if rec.LeaseDuration == nil || rec.YearBuilt == nil {
		return
	}
	expiry := *rec.YearBuilt + *rec.LeaseDuration
	rec.LeaseExpiryYear = &expiry
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
