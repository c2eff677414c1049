package extractor

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)
	nonDigits     = regexp.MustCompile(`[^0-9]`)
)

// parseFloat extracts the first numeric value from text like "42 m²" or
// "$1,500,000". Non-numeric, NaN-like or infinite values yield nil, never
// zero: an unparseable size must stay absent rather than pretend to be 0.
func parseFloat(value string) *float64 {
	cleaned := strings.NewReplacer(",", "", " ", "", "$", "", "€", "", "£", "", "¥", "", "₹", "").
		Replace(strings.TrimSpace(value))
	if cleaned == "" {
		return nil
	}
	match := numberPattern.FindString(cleaned)
	if match == "" {
		return nil
	}
	f, err := strconv.ParseFloat(match, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// parseInt is parseFloat truncated to an int pointer.
func parseInt(value string) *int {
	f := parseFloat(value)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}

// digitsOnly strips everything but digits, for prices rendered with
// arbitrary thousand separators ("Rp 25.000.000" → "25000000").
func digitsOnly(value string) string {
	return nonDigits.ReplaceAllString(value, "")
}
