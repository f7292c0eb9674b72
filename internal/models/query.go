package models

import "fmt"

// RegexSearchOptions configures the bounded regex traversal (spec §4.5).
type RegexSearchOptions struct {
	MaxDepth      int  `json:"max_depth,omitempty" yaml:"max_depth,omitempty"`
	TimeoutMs     int  `json:"timeout_ms,omitempty" yaml:"timeout_ms,omitempty"`
	CaseSensitive bool `json:"case_sensitive,omitempty" yaml:"case_sensitive,omitempty"`
	WholeWord     bool `json:"whole_word,omitempty" yaml:"whole_word,omitempty"`
}

// SearchOptions is the recognized per-call search configuration (spec §6).
type SearchOptions struct {
	Fuzzy          bool               `json:"fuzzy,omitempty" yaml:"fuzzy,omitempty"`
	MaxDistance    int                `json:"max_distance,omitempty" yaml:"max_distance,omitempty"`
	PrefixMatch    bool               `json:"prefix_match,omitempty" yaml:"prefix_match,omitempty"`
	Regex          string             `json:"regex,omitempty" yaml:"regex,omitempty"`
	RegexConfig    RegexSearchOptions `json:"regex_config,omitempty" yaml:"regex_config,omitempty"`
	Fields         []string           `json:"fields,omitempty" yaml:"fields,omitempty"`
	Boost          map[string]float64 `json:"boost,omitempty" yaml:"boost,omitempty"`
	Threshold      float64            `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	MinScore       float64            `json:"min_score,omitempty" yaml:"min_score,omitempty"`
	CaseSensitive  bool               `json:"case_sensitive,omitempty" yaml:"case_sensitive,omitempty"`
	IncludeMatches bool               `json:"include_matches,omitempty" yaml:"include_matches,omitempty"`
	IncludeScore   bool               `json:"include_score,omitempty" yaml:"include_score,omitempty"`
	MaxResults     int                `json:"max_results,omitempty" yaml:"max_results,omitempty"`
	Page           int                `json:"page,omitempty" yaml:"page,omitempty"`
	PageSize       int                `json:"page_size,omitempty" yaml:"page_size,omitempty"`
}

// DefaultSearchOptions returns the documented option defaults.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		MaxDistance: 2,
		MaxResults:  10,
		RegexConfig: RegexSearchOptions{
			MaxDepth:  50,
			TimeoutMs: 5000,
		},
	}
}

// Merge returns a copy of defaults with every field o sets explicitly
// (non-zero) overriding the default, implementing the
// "merged with per-call options" rule from spec §4.4. Zero-value fields in o
// (e.g. MaxResults left at 0) fall back to defaults rather than a different
// explicit merge strategy, matching SearchEngineConfig.search.defaultOptions.
func (o SearchOptions) Merge(defaults SearchOptions) SearchOptions {
	merged := defaults
	if o.Fuzzy {
		merged.Fuzzy = true
	}
	if o.MaxDistance != 0 {
		merged.MaxDistance = o.MaxDistance
	}
	if o.PrefixMatch {
		merged.PrefixMatch = true
	}
	if o.Regex != "" {
		merged.Regex = o.Regex
	}
	if o.RegexConfig.MaxDepth != 0 {
		merged.RegexConfig.MaxDepth = o.RegexConfig.MaxDepth
	}
	if o.RegexConfig.TimeoutMs != 0 {
		merged.RegexConfig.TimeoutMs = o.RegexConfig.TimeoutMs
	}
	if o.RegexConfig.CaseSensitive {
		merged.RegexConfig.CaseSensitive = true
	}
	if o.RegexConfig.WholeWord {
		merged.RegexConfig.WholeWord = true
	}
	if len(o.Fields) > 0 {
		merged.Fields = o.Fields
	}
	if len(o.Boost) > 0 {
		merged.Boost = o.Boost
	}
	if o.Threshold != 0 {
		merged.Threshold = o.Threshold
	}
	if o.MinScore != 0 {
		merged.MinScore = o.MinScore
	}
	if o.CaseSensitive {
		merged.CaseSensitive = true
	}
	if o.IncludeMatches {
		merged.IncludeMatches = true
	}
	if o.IncludeScore {
		merged.IncludeScore = true
	}
	if o.MaxResults != 0 {
		merged.MaxResults = o.MaxResults
	}
	if o.Page != 0 {
		merged.Page = o.Page
	}
	if o.PageSize != 0 {
		merged.PageSize = o.PageSize
	}
	return merged
}

// BoostFor returns the configured multiplier for field, defaulting to 1.0.
func (o SearchOptions) BoostFor(field string) float64 {
	if o.Boost == nil {
		return 1.0
	}
	if v, ok := o.Boost[field]; ok {
		return v
	}
	return 1.0
}

// SearchQuery pairs the raw query text with its resolved options; it is the
// unit hashed into a cache fingerprint.
type SearchQuery struct {
	Text    string        `json:"query"`
	Options SearchOptions `json:"options"`
}

// Validate rejects structurally invalid queries (spec §7 ValidationError);
// an empty query is a valid boundary case (spec §8) handled by the engine,
// not rejected here.
func (q *SearchQuery) Validate() error {
	if q.Options.MaxDistance < 0 {
		return fmt.Errorf("%w: max_distance must be non-negative", ErrValidation)
	}
	if q.Options.Page < 0 || q.Options.PageSize < 0 {
		return fmt.Errorf("%w: page and page_size must be non-negative", ErrValidation)
	}
	return nil
}
