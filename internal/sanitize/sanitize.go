// Package sanitize prepares records for the spreadsheet backend, which has
// no representation for non-finite numbers and chokes on control characters.
// Every scalar passes through here before any write.
package sanitize

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/user/property-scraper/internal/entity"
)

// columns is the fixed 29-column sheet layout, matching PropertyRecord.
var columns = []string{
	"url", "property_ID", "Company", "title", "description", "location",
	"type", "property_type", "price_usd", "price_idr", "bedrooms",
	"bathrooms", "land_size_sqm", "building_size_sqm", "year_built",
	"listing_date", "lease_duration", "lease_expiry_year", "status",
	"listing_status", "furnish", "amenities", "key_information",
	"key_features", "features", "pool", "pool_type", "pool_size",
	"listing_type",
}

// Columns returns the sheet header row.
func Columns() []string {
	out := make([]string, len(columns))
	copy(out, columns)
	return out
}

// CombinedColumns is Columns plus the competitor column used by the
// combined, cross-competitor sheet.
func CombinedColumns() []string {
	return append(Columns(), "competitor")
}

// Row converts one record into a sanitized sheet row in Columns order.
func Row(rec *entity.PropertyRecord) []interface{} {
	return []interface{}{
		String(rec.URL),
		String(rec.PropertyID),
		String(rec.Company),
		String(rec.Title),
		String(rec.Description),
		String(rec.Location),
		String(rec.Type),
		String(rec.PropertyType),
		FloatPtr(rec.PriceUSD),
		FloatPtr(rec.PriceIDR),
		IntPtr(rec.Bedrooms),
		IntPtr(rec.Bathrooms),
		FloatPtr(rec.LandSizeSqm),
		FloatPtr(rec.BuildingSizeSqm),
		IntPtr(rec.YearBuilt),
		String(rec.ListingDate),
		IntPtr(rec.LeaseDuration),
		IntPtr(rec.LeaseExpiryYear),
		String(rec.Status),
		String(rec.ListingStatus),
		String(rec.Furnish),
		List(rec.Amenities),
		List(rec.KeyInformation),
		List(rec.KeyFeatures),
		Mapping(rec.Features),
		rec.Pool,
		String(rec.PoolType),
		IntPtr(rec.PoolSize),
		String(rec.ListingType),
	}
}

// CombinedRow is Row plus the competitor cell.
func CombinedRow(rec *entity.PropertyRecord, competitor string) []interface{} {
	return append(Row(rec), String(competitor))
}

// FloatPtr coerces absent and non-finite values to an explicit nil cell.
func FloatPtr(v *float64) interface{} {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return *v
}

// IntPtr coerces an absent value to an explicit nil cell.
func IntPtr(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// String strips non-printable characters, keeping whitespace.
func String(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
}

// List sanitizes every element, then flattens to one cell.
func List(items []string) string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		cleaned = append(cleaned, String(item))
	}
	return strings.Join(cleaned, "; ")
}

// Mapping sanitizes keys and values, then flattens to "k: v" pairs in
// stable key order.
func Mapping(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s: %s", String(k), String(m[k])))
	}
	return strings.Join(pairs, "; ")
}
