package bugview

// ListingPage represents one page of the paginated listing endpoint
type ListingPage struct {
	Offset int            `json:"offset"`
	Total  int            `json:"total"`
	Sort   string         `json:"sort"`
	Issues []IssueSummary `json:"issues"`
}

// IssueSummary is one row of a listing page. Timestamps are kept as opaque
// strings; the crawler never interprets them.
type IssueSummary struct {
	ID         string `json:"id"`
	Key        string `json:"key"`
	Synopsis   string `json:"synopsis"`
	Resolution string `json:"resolution,omitempty"`
	Updated    string `json:"updated"`
	Created    string `json:"created"`
}
