package request

// CollectURLsRequest asks for listing-page collection only.
type CollectURLsRequest struct {
	Categories []string `json:"categories"`
	MaxPages   int      `json:"max_pages"`
}

// ScrapeRequest drives a full run. Categories defaults to every registered
// category, max_properties to the configured default; unlimited overrides
// max_properties entirely.
type ScrapeRequest struct {
	Categories    []string `json:"categories"`
	MaxProperties int      `json:"max_properties"`
	MaxPages      int      `json:"max_pages"`
	Persist       bool     `json:"persist"`
	Force         bool     `json:"force"`
	Unlimited     bool     `json:"unlimited"`
	SheetName     string   `json:"sheet_name"`
}
