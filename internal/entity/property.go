package entity

// PropertyRecord is the unified schema produced by every extractor. Optional
// numeric fields are pointers so that an unparseable or non-finite source
// value stays absent instead of collapsing to zero.
type PropertyRecord struct {
	URL          string `json:"url"`
	PropertyID   string `json:"property_ID"`
	Company      string `json:"Company"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	Type         string `json:"type"`
	PropertyType string `json:"property_type"`

	PriceUSD *float64 `json:"price_usd"`
	PriceIDR *float64 `json:"price_idr"`

	Bedrooms        *int     `json:"bedrooms"`
	Bathrooms       *int     `json:"bathrooms"`
	LandSizeSqm     *float64 `json:"land_size_sqm"`
	BuildingSizeSqm *float64 `json:"building_size_sqm"`
	YearBuilt       *int     `json:"year_built"`

	ListingDate     string `json:"listing_date"`
	LeaseDuration   *int   `json:"lease_duration"`
	LeaseExpiryYear *int   `json:"lease_expiry_year"`

	Status        string `json:"status"`
	ListingStatus string `json:"listing_status"`
	Furnish       string `json:"furnish"`

	Amenities      []string          `json:"amenities"`
	KeyInformation []string          `json:"key_information"`
	KeyFeatures    []string          `json:"key_features"`
	Features       map[string]string `json:"features"`
	Pool           bool              `json:"pool"`
	PoolType       string            `json:"pool_type"`
	PoolSize       *int              `json:"pool_size"`

	// ListingType tags which extractor produced the record.
	ListingType string `json:"listing_type"`
}

// NewPropertyRecord returns a record pre-tagged with its identity fields and
// empty (never nil) collections.
func NewPropertyRecord(url string, category Category, company string) *PropertyRecord {
	return &PropertyRecord{
		URL:            url,
		Company:        company,
		ListingType:    string(category),
		Amenities:      []string{},
		KeyInformation: []string{},
		KeyFeatures:    []string{},
		Features:       map[string]string{},
	}
}
