// Package trie implements the prefix-trie index: per-character nodes that
// accumulate document references and weight statistics, exact/prefix/fuzzy
// lookup, regex traversal, pruning, and a recursive serialized form.
package trie

import (
	"time"

	"github.com/corvidlabs/lexidex/internal/scoring"
)

// NodeStats is a read-only snapshot of a node's statistics, handed to the
// scoring package so it never holds a live pointer into the trie.
type NodeStats = scoring.HitStats

// node is one character edge's destination. Children are keyed by a single
// rune; insertion order is irrelevant so a map suffices.
type node struct {
	children       map[rune]*node
	endOfWord      bool
	documentRefs   map[string]struct{}
	weight         float64
	frequency      int
	depth          int
	prefixCount    int
	lastAccessedMs int64
}

func newNode(depth int) *node {
	return &node{
		children:     make(map[rune]*node),
		documentRefs: make(map[string]struct{}),
		depth:        depth,
	}
}

// incrementWeight bumps weight and frequency together and refreshes
// lastAccessed. The trie never increments these two independently, which is
// what lets deserialize reconstruct frequency from weight alone (see
// serialize.go).
func (n *node) incrementWeight(by float64) {
	n.weight += by
	if n.weight < 0 {
		n.weight = 0
	}
	n.frequency++
	n.lastAccessedMs = nowMs()
}

// decrementWeight is the inverse used by removeDocumentRefs; it floors at 0
// for weight, prefixCount, and frequency as required by the TrieNode
// invariants.
func (n *node) decrementWeight() {
	n.weight--
	if n.weight < 0 {
		n.weight = 0
	}
	if n.prefixCount > 0 {
		n.prefixCount--
	}
	if n.frequency > 0 {
		n.frequency--
	}
}

// prunable reports whether n carries no information and can be dropped.
func (n *node) prunable() bool {
	return len(n.children) == 0 && len(n.documentRefs) == 0 && n.weight == 0 && n.frequency == 0
}

// stats snapshots n for the scorer.
func (n *node) stats() NodeStats {
	return NodeStats{
		Weight:           n.weight,
		Frequency:        n.frequency,
		Depth:            n.depth,
		DocumentRefCount: len(n.documentRefs),
		LastAccessedMs:   n.lastAccessedMs,
	}
}

// score is the trie-local suggestion ranking used by getSuggestions; it does
// not have access to corpus-wide totals, so it is not the full §4.3 scoring
// formula, only its node-local factor.
func (n *node) score(nowMs int64) float64 {
	recency := expDecay(float64(nowMs-n.lastAccessedMs) / 86_400_000.0)
	return n.weight * float64(n.frequency) * recency / float64(n.depth+1)
}

func nowMs() int64 {
	return time.Now().UnixMilli()
}
