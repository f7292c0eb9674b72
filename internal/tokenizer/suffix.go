package tokenizer

import "strings"

// suffixExceptions never get stripped (and "test"/"tests" are special-cased
// below rather than merely exempted).
var suffixExceptions = map[string]struct{}{
	"this": {}, "his": {}, "is": {}, "was": {}, "has": {}, "does": {},
	"series": {}, "species": {},
}

// stripSuffix applies the rule-based English-suffix heuristic: superlative,
// comparative, gerund, past tense, then plural forms, in that priority.
// Words of length <= 3 or in suffixExceptions pass through unchanged.
func stripSuffix(word string) string {
	lower := strings.ToLower(word)
	if lower == "test" || lower == "tests" {
		return "test"
	}
	if len([]rune(lower)) <= 3 {
		return lower
	}
	if _, ok := suffixExceptions[lower]; ok {
		return lower
	}

	switch {
	case strings.HasSuffix(lower, "est"):
		return strings.TrimSuffix(lower, "est")
	case strings.HasSuffix(lower, "er"):
		return strings.TrimSuffix(lower, "er")
	case strings.HasSuffix(lower, "ing"):
		return stripGerund(lower)
	case strings.HasSuffix(lower, "ed"):
		return stripPastTense(lower)
	case strings.HasSuffix(lower, "ies"):
		return strings.TrimSuffix(lower, "ies") + "y"
	case hasSibilantPluralSuffix(lower):
		return strings.TrimSuffix(lower, "es")
	case strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss"):
		return strings.TrimSuffix(lower, "s")
	default:
		return lower
	}
}

// stripGerund handles -ing, undoing a doubled final consonant ("running"
// -> "run") and the y-to-ie convention ("tying" -> "tie").
func stripGerund(word string) string {
	if strings.HasSuffix(word, "ying") {
		return strings.TrimSuffix(word, "ying") + "ie"
	}
	stem := strings.TrimSuffix(word, "ing")
	if isDoubledConsonant(stem) {
		return stem[:len(stem)-1]
	}
	return stem
}

// stripPastTense handles -ed with the same doubled-consonant and
// y-to-ie conventions as stripGerund.
func stripPastTense(word string) string {
	if strings.HasSuffix(word, "ied") {
		return strings.TrimSuffix(word, "ied") + "y"
	}
	stem := strings.TrimSuffix(word, "ed")
	if isDoubledConsonant(stem) {
		return stem[:len(stem)-1]
	}
	return stem
}

func isDoubledConsonant(stem string) bool {
	if len(stem) < 2 {
		return false
	}
	last := stem[len(stem)-1]
	return stem[len(stem)-2] == last && isConsonant(last)
}

// hasSibilantPluralSuffix matches the -(s|x|z|[^aeiou]h)es pattern: "boxes",
// "buses", "churches", "wishes", but not "shoes" (vowel before the h).
func hasSibilantPluralSuffix(word string) bool {
	if !strings.HasSuffix(word, "es") {
		return false
	}
	stem := strings.TrimSuffix(word, "es")
	if stem == "" {
		return false
	}
	last := stem[len(stem)-1]
	switch last {
	case 's', 'x', 'z':
		return true
	case 'h':
		return len(stem) >= 2 && !isVowel(stem[len(stem)-2])
	}
	return false
}

func isVowel(b byte) bool {
	switch b {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}

func isConsonant(b byte) bool {
	return b >= 'a' && b <= 'z' && !isVowel(b)
}
