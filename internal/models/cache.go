package models

// CacheEntry is one bounded-cache slot: a cached result list plus the
// bookkeeping the eviction/TTL policy needs (spec §4.6). Timestamps are
// stored as Unix milliseconds, matching the millisecond-resolution TTL and
// recency clocks used throughout the scoring and cache design.
type CacheEntry struct {
	Results      []*SearchResult `json:"results"`
	CreatedAtMs  int64           `json:"created_at_ms"`
	LastAccessMs int64           `json:"last_access_ms"`
	AccessCount  int             `json:"access_count"`
}
