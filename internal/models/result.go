package models

// HighlightSpan is a [start,end) byte range within one field's text.
type HighlightSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// SearchResult is a single hit returned from a search.
type SearchResult struct {
	DocumentID   string                     `json:"document_id"`
	Document     *Document                  `json:"document,omitempty"`
	Score        float64                    `json:"score"`
	MatchedTerms []string                   `json:"matched_terms,omitempty"`
	EditDistance *int                       `json:"edit_distance,omitempty"`
	Metadata     map[string]interface{}     `json:"metadata,omitempty"`
	Highlights   map[string][]HighlightSpan `json:"highlights,omitempty"`
}

// SearchResponse is the top-K result list returned by a search call, plus timing.
type SearchResponse struct {
	Results   []*SearchResult `json:"results"`
	Total     int             `json:"total"`
	QueryTime int64           `json:"query_time_ms"`
	Query     string          `json:"query"`
}
