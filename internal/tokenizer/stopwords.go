package tokenizer

// stopWords is the fixed set of high-frequency English words dropped from
// term tokens during query processing. Operators, modifiers, and phrases
// are never filtered against it.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "he": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "that": {}, "the": {}, "to": {},
	"was": {}, "were": {}, "will": {}, "with": {}, "this": {}, "they": {},
	"but": {}, "have": {}, "had": {}, "what": {}, "when": {}, "where": {},
	"who": {}, "which": {}, "why": {}, "how": {},
}

func isStopWord(term string) bool {
	_, ok := stopWords[term]
	return ok
}
