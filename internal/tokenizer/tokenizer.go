// Package tokenizer normalizes free text into index terms and normalizes
// user queries into phrases, operators, field modifiers, and terms.
package tokenizer

import (
	"regexp"
	"strings"
)

// splitPattern is the delimiter class used to break text into candidate
// words: whitespace plus the common punctuation marks.
var splitPattern = regexp.MustCompile(`[\s,.!?;:'"()\[\]{}/\\]+`)

// Tokenize splits text into an ordered, non-empty sequence of terms,
// lowercased unless caseSensitive is set. It is a pure, finite function:
// given the same inputs it always produces the same output, and applying
// it to its own output is a no-op.
func Tokenize(text string, caseSensitive bool) []string {
	if !caseSensitive {
		text = strings.ToLower(text)
	}
	pieces := splitPattern.Split(text, -1)
	terms := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if p == "" {
			continue
		}
		terms = append(terms, p)
	}
	return terms
}
