package entity

// Category identifies a listing segment with its own URL root and markup shape.
type Category string

const (
	CategoryForSale Category = "for-sale"
	CategoryForRent Category = "for-rent"
)

// AllCategories returns the categories known to the service, in the order
// they are processed when a request does not name any.
func AllCategories() []Category {
	return []Category{CategoryForSale, CategoryForRent}
}

// ParseCategory validates a raw category string.
func ParseCategory(s string) (Category, bool) {
	for _, c := range AllCategories() {
		if Category(s) == c {
			return c, true
		}
	}
	return "", false
}
