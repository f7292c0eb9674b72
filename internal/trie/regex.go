package trie

import (
	"regexp"
	"strings"
	"time"
)

// RegexOptions bounds a regex traversal. Zero TimeoutMs means "no time
// budget at all" and returns immediately with no results, matching the
// boundary case of a caller that forgot to set it.
type RegexOptions struct {
	MaxDepth      int
	TimeoutMs     int
	CaseSensitive bool
	WholeWord     bool
}

const complexityThresholdLen = 20

// isComplexPattern judges a regex source "complex" (spec §4.5) if it
// contains any of the listed metacharacter sequences or exceeds the length
// threshold. Complex patterns get the DFS walk with prefix-feasibility
// pruning; everything else gets plain BFS.
func isComplexPattern(pattern string) bool {
	if len(pattern) > complexityThresholdLen {
		return true
	}
	markers := []string{"{", "+", "*", "?", "|", "(?", "["}
	for _, m := range markers {
		if strings.Contains(pattern, m) {
			return true
		}
	}
	return false
}

func compilePattern(pattern string, opts RegexOptions) (*regexp.Regexp, error) {
	src := pattern
	if opts.WholeWord {
		src = `\b(?:` + src + `)\b`
	}
	if !opts.CaseSensitive {
		src = "(?i)" + src
	}
	return regexp.Compile(src)
}

// RegexSearch matches pattern against every indexed word via a BFS or DFS
// walk of the trie, chosen by isComplexPattern, and returns one Hit per
// (document id, matched word). Errors only on an uncompilable pattern.
func (t *Trie) RegexSearch(pattern string, opts RegexOptions) ([]Hit, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 50
	}
	if opts.TimeoutMs == 0 {
		return nil, nil
	}
	re, err := compilePattern(pattern, opts)
	if err != nil {
		return nil, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if isComplexPattern(pattern) {
		return t.regexDFS(re, pattern, opts), nil
	}
	return t.regexBFS(re, opts), nil
}

type regexFrame struct {
	n     *node
	path  string
	depth int
}

// regexBFS does a breadth-first walk of the whole trie, bounded by
// MaxDepth and TimeoutMs, matching the accumulated path against re at
// every node and emitting hits for end-of-word nodes with document refs.
func (t *Trie) regexBFS(re *regexp.Regexp, opts RegexOptions) []Hit {
	deadline := time.Now().Add(time.Duration(opts.TimeoutMs) * time.Millisecond)
	visited := make(map[string]bool)
	queue := []regexFrame{{n: t.root, path: "", depth: 0}}
	var hits []Hit

	for len(queue) > 0 {
		if time.Now().After(deadline) {
			break
		}
		cur := queue[0]
		queue = queue[1:]

		if visited[cur.path] {
			continue
		}
		visited[cur.path] = true

		if cur.path != "" && cur.n.endOfWord && len(cur.n.documentRefs) > 0 && re.MatchString(cur.path) {
			hits = append(hits, hitsForNode(cur.n, cur.path)...)
		}
		if cur.depth >= opts.MaxDepth {
			continue
		}
		for r, child := range cur.n.children {
			queue = append(queue, regexFrame{n: child, path: cur.path + string(r), depth: cur.depth + 1})
		}
	}
	return hits
}

// metaCutset is the set of regex metacharacters used to delimit literal
// runs, per spec §4.5's feasibility heuristic.
const metaCutset = "[(.*+?|{^"

func literalPrefixOf(pattern string) string {
	rest := strings.TrimPrefix(pattern, "^")
	idx := strings.IndexAny(rest, metaCutset)
	if idx < 0 {
		return rest
	}
	return rest[:idx]
}

// literalRuns splits pattern on metaCutset and returns every resulting
// segment longer than two characters.
func literalRuns(pattern string) []string {
	segments := strings.FieldsFunc(pattern, func(r rune) bool {
		return strings.ContainsRune(metaCutset, r)
	})
	var runs []string
	for _, s := range segments {
		if len(s) > 2 {
			runs = append(runs, s)
		}
	}
	return runs
}

// regexDFS recursively walks the trie, applying an optimistic
// prefix-feasibility prune once depth exceeds 2: a path that fails feasible
// is abandoned without descending further. The check looks only at the path
// walked so far, so it can continue down a subtree that never matches, and
// it can also abandon one that holds a match (for `foo.*bar` it stops at
// `foo`, so `foobar` is never reached).
func (t *Trie) regexDFS(re *regexp.Regexp, pattern string, opts RegexOptions) []Hit {
	deadline := time.Now().Add(time.Duration(opts.TimeoutMs) * time.Millisecond)
	anchored := strings.HasPrefix(pattern, "^")
	prefix := literalPrefixOf(pattern)
	runs := literalRuns(pattern)
	visited := make(map[string]bool)
	var hits []Hit

	var walk func(n *node, path string, depth int)
	walk = func(n *node, path string, depth int) {
		if time.Now().After(deadline) {
			return
		}
		if visited[path] {
			return
		}
		visited[path] = true

		if path != "" && n.endOfWord && len(n.documentRefs) > 0 && re.MatchString(path) {
			hits = append(hits, hitsForNode(n, path)...)
		}
		if depth >= opts.MaxDepth {
			return
		}
		if depth > 2 && !feasible(path, anchored, prefix, runs) {
			return
		}
		for r, child := range n.children {
			walk(child, path+string(r), depth+1)
		}
	}
	walk(t.root, "", 0)
	return hits
}

// feasible applies the prefix-feasibility check from spec §4.5: for an
// anchored pattern, path and the literal prefix must be prefixes of one
// another; otherwise every literal run must either appear in path or
// contain path.
func feasible(path string, anchored bool, prefix string, runs []string) bool {
	if anchored && prefix != "" {
		if strings.HasPrefix(path, prefix) || strings.HasPrefix(prefix, path) {
			return true
		}
		return false
	}
	if len(runs) == 0 {
		return true
	}
	for _, run := range runs {
		if !strings.Contains(path, run) && !strings.Contains(run, path) {
			return false
		}
	}
	return true
}
