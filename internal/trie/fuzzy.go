package trie

import "github.com/corvidlabs/lexidex/internal/scoring"

// FuzzySearch enumerates end-of-word nodes reachable within maxDistance
// edits of word via a bounded depth-first walk (spec §4.2), confirming each
// candidate with a full Levenshtein recompute before emitting hits.
func (t *Trie) FuzzySearch(word string, maxDistance int) []Hit {
	t.mu.RLock()
	defer t.mu.RUnlock()
	runes := []rune(word)
	var hits []Hit
	walkFuzzy(t.root, runes, "", 0, 0, maxDistance, &hits, word)
	return hits
}

// walkFuzzy explores from node n, having consumed targetDepth characters of
// target so far while accumulating partial string built and cost edits.
// At each step it tries: (a) substitution/match by descending into a child
// while advancing targetDepth, (b) insertion by descending without
// advancing targetDepth, (c) deletion by staying at n and advancing
// targetDepth. All three cost paths are explored up to maxDistance.
func walkFuzzy(n *node, target []rune, built string, cost, targetDepth, maxDistance int, hits *[]Hit, original string) {
	if cost > maxDistance {
		return
	}
	if n.endOfWord && len([]rune(built)) > 0 {
		confirmFuzzyHit(n, built, original, maxDistance, hits)
	}
	if targetDepth >= len(target) {
		// Still allow pure insertions to extend built beyond target length,
		// bounded by remaining edit budget.
		for r, child := range n.children {
			walkFuzzy(child, target, built+string(r), cost+1, targetDepth, maxDistance, hits, original)
		}
		return
	}

	wantChar := target[targetDepth]
	for r, child := range n.children {
		// (a) consume target char: substitution cost 0 if equal, else 1
		subCost := 1
		if r == wantChar {
			subCost = 0
		}
		walkFuzzy(child, target, built+string(r), cost+subCost, targetDepth+1, maxDistance, hits, original)
		// (b) insertion: descend without advancing targetDepth
		walkFuzzy(child, target, built+string(r), cost+1, targetDepth, maxDistance, hits, original)
	}
	// (c) deletion: stay at n, advance targetDepth
	walkFuzzy(n, target, built, cost+1, targetDepth+1, maxDistance, hits, original)
}

func confirmFuzzyHit(n *node, built, original string, maxDistance int, hits *[]Hit) {
	d := scoring.Distance(original, built)
	if d > maxDistance {
		return
	}
	stats := n.stats()
	for id := range n.documentRefs {
		*hits = append(*hits, Hit{
			DocumentID:  id,
			Term:        built,
			Stats:       stats,
			EditDistance: d,
			HasEditDist: true,
		})
	}
}
