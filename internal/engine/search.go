package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/corvidlabs/lexidex/internal/models"
	"github.com/corvidlabs/lexidex/internal/scoring"
	"github.com/corvidlabs/lexidex/internal/tokenizer"
	"github.com/corvidlabs/lexidex/internal/trie"
)

// Search runs query through the full pipeline described in spec §4.4: cache
// lookup, tokenization, per-term/regex trie execution, scoring, pagination.
func (e *Engine) Search(ctx context.Context, rawQuery string, opts models.SearchOptions) (*models.SearchResponse, error) {
	start := time.Now()
	if err := e.ensureInitialized(ctx); err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(rawQuery)
	if trimmed == "" {
		return emptyResponse(rawQuery, start), nil
	}

	merged := opts.Merge(e.cfg.Search.DefaultOptions)
	e.emit(EventSearchStart, map[string]interface{}{"query": rawQuery})

	cacheKey := fingerprint(e.cfg.Name, rawQuery, merged)
	if cached, ok := e.cache.Get(cacheKey); ok {
		resp := paginate(cached, merged, rawQuery, start)
		e.emit(EventSearchComplete, map[string]interface{}{"query": rawQuery, "count": len(resp.Results), "cached": true})
		return resp, nil
	}

	processed := tokenizer.ProcessQuery(trimmed)
	if processed.Empty() {
		return emptyResponse(rawQuery, start), nil
	}

	var results []*models.SearchResult
	var err error
	if merged.Regex != "" {
		results, err = e.regexSearch(merged)
	} else {
		results = e.standardSearch(processed, merged)
	}
	if err != nil {
		e.emit(EventSearchError, map[string]interface{}{"query": rawQuery, "error": err.Error()})
		return nil, fmt.Errorf("%w: %v", models.ErrSearch, err)
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	e.cache.Set(cacheKey, results)
	resp := paginate(results, merged, rawQuery, start)
	e.emit(EventSearchComplete, map[string]interface{}{"query": rawQuery, "count": len(resp.Results)})
	return resp, nil
}

func emptyResponse(query string, start time.Time) *models.SearchResponse {
	return &models.SearchResponse{
		Results:   []*models.SearchResult{},
		Total:     0,
		QueryTime: time.Since(start).Milliseconds(),
		Query:     query,
	}
}

func paginate(all []*models.SearchResult, opts models.SearchOptions, query string, start time.Time) *models.SearchResponse {
	total := len(all)
	var window []*models.SearchResult
	if opts.Page > 0 && opts.PageSize > 0 {
		from := (opts.Page - 1) * opts.PageSize
		to := from + opts.PageSize
		if from >= total {
			window = []*models.SearchResult{}
		} else {
			if to > total {
				to = total
			}
			window = all[from:to]
		}
	} else {
		max := opts.MaxResults
		if max <= 0 {
			max = 10
		}
		if max > total {
			max = total
		}
		window = all[:max]
	}
	return &models.SearchResponse{
		Results:   window,
		Total:     total,
		QueryTime: time.Since(start).Milliseconds(),
		Query:     query,
	}
}

type aggregate struct {
	score        float64
	matchedTerms map[string]struct{}
	editDistance *int
}

// standardSearch implements spec §4.4's standard-search step: per (field,
// term) pair, accumulate per-document score contributions, then filter by
// threshold/minScore.
func (e *Engine) standardSearch(processed *tokenizer.ProcessedQuery, opts models.SearchOptions) []*models.SearchResult {
	fields := opts.Fields
	if len(fields) == 0 {
		fields = e.cfg.Fields
	}
	var terms []string
	for _, t := range processed.Tokens {
		if t.Kind == tokenizer.TokenTerm {
			terms = append(terms, t.Text)
		}
	}
	for _, phrase := range processed.Phrases {
		terms = append(terms, tokenizer.Tokenize(phrase, opts.CaseSensitive)...)
	}

	totals := make(map[string]*aggregate)
	nowMs := time.Now().UnixMilli()

	for _, field := range fields {
		boost := opts.BoostFor(field)
		for _, term := range terms {
			hits := e.idx.trie.ExactSearch(term)
			if opts.PrefixMatch {
				hits = append(hits, e.idx.trie.PrefixSearch(term)...)
			}
			if opts.Fuzzy {
				maxDist := opts.MaxDistance
				if maxDist <= 0 {
					maxDist = 2
				}
				hits = append(hits, e.idx.trie.FuzzySearch(term, maxDist)...)
			}
			for _, h := range hits {
				s := scoring.Score(h.Stats, e.idx.totalDocuments, h.Term, nowMs)
				if h.HasEditDist {
					s *= scoring.FuzzyMultiplier(h.EditDistance)
				}
				s *= boost
				if s <= opts.Threshold {
					continue
				}
				agg, ok := totals[h.DocumentID]
				if !ok {
					agg = &aggregate{matchedTerms: make(map[string]struct{})}
					totals[h.DocumentID] = agg
				}
				agg.score += s
				agg.matchedTerms[h.Term] = struct{}{}
				if h.HasEditDist {
					d := h.EditDistance
					agg.editDistance = &d
				}
			}
		}
	}

	results := make([]*models.SearchResult, 0, len(totals))
	for id, agg := range totals {
		if agg.score < opts.MinScore {
			continue
		}
		doc, _ := e.idx.Get(id)
		matched := make([]string, 0, len(agg.matchedTerms))
		for t := range agg.matchedTerms {
			matched = append(matched, t)
		}
		sort.Strings(matched)
		result := &models.SearchResult{
			DocumentID:   id,
			Document:     doc,
			Score:        agg.score,
			MatchedTerms: matched,
			EditDistance: agg.editDistance,
		}
		if opts.IncludeMatches && doc != nil {
			result.Highlights = highlightSpans(doc, fields, matched, opts.CaseSensitive)
		}
		results = append(results, result)
	}
	return results
}

// regexSearch implements the regex-mode branch of Search: traverse the
// trie for strings matching opts.Regex, bounded by opts.RegexConfig.
func (e *Engine) regexSearch(opts models.SearchOptions) ([]*models.SearchResult, error) {
	regexOpts := trie.RegexOptions{
		MaxDepth:      opts.RegexConfig.MaxDepth,
		TimeoutMs:     opts.RegexConfig.TimeoutMs,
		CaseSensitive: opts.RegexConfig.CaseSensitive,
		WholeWord:     opts.RegexConfig.WholeWord,
	}
	if regexOpts.TimeoutMs == 0 {
		regexOpts.TimeoutMs = 5000
	}
	hits, err := e.idx.trie.RegexSearch(opts.Regex, regexOpts)
	if err != nil {
		return nil, err
	}

	nowMs := time.Now().UnixMilli()
	totals := make(map[string]*aggregate)
	for _, h := range hits {
		s := scoring.Score(h.Stats, e.idx.totalDocuments, h.Term, nowMs)
		if s <= opts.Threshold {
			continue
		}
		agg, ok := totals[h.DocumentID]
		if !ok {
			agg = &aggregate{matchedTerms: make(map[string]struct{})}
			totals[h.DocumentID] = agg
		}
		agg.score += s
		agg.matchedTerms[h.Term] = struct{}{}
	}

	results := make([]*models.SearchResult, 0, len(totals))
	for id, agg := range totals {
		if agg.score < opts.MinScore {
			continue
		}
		doc, _ := e.idx.Get(id)
		matched := make([]string, 0, len(agg.matchedTerms))
		for t := range agg.matchedTerms {
			matched = append(matched, t)
		}
		sort.Strings(matched)
		results = append(results, &models.SearchResult{
			DocumentID:   id,
			Document:     doc,
			Score:        agg.score,
			MatchedTerms: matched,
		})
	}
	return results, nil
}

// highlightSpans finds the [start,end) byte ranges of each matched term
// within every searched field's text.
func highlightSpans(doc *models.Document, fields, matched []string, caseSensitive bool) map[string][]models.HighlightSpan {
	out := make(map[string][]models.HighlightSpan)
	for _, field := range fields {
		text := doc.FieldString(field)
		if text == "" {
			continue
		}
		haystack := text
		if !caseSensitive {
			haystack = strings.ToLower(haystack)
		}
		var spans []models.HighlightSpan
		for _, term := range matched {
			needle := term
			if !caseSensitive {
				needle = strings.ToLower(needle)
			}
			if needle == "" {
				continue
			}
			from := 0
			for {
				idx := strings.Index(haystack[from:], needle)
				if idx < 0 {
					break
				}
				start := from + idx
				spans = append(spans, models.HighlightSpan{Start: start, End: start + len(needle)})
				from = start + len(needle)
			}
		}
		if len(spans) > 0 {
			out[field] = spans
		}
	}
	return out
}

// fingerprint hashes corpus name, raw query, and the resolved options into
// a cache key, matching the "hash(corpusName, rawQuery, serialized(options))"
// rule in spec §4.4.
func fingerprint(corpus, rawQuery string, opts models.SearchOptions) string {
	encoded, _ := json.Marshal(opts)
	sum := sha256.Sum256([]byte(corpus + "\x00" + rawQuery + "\x00" + string(encoded)))
	return hex.EncodeToString(sum[:])
}
