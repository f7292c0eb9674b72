package extract

import (
	"regexp"
	"strings"
)

// rtf is not a zip container, so it cannot share the OOXML/ODF extractors.
// We strip control words, groups, and escapes with regexes instead, which is
// good enough to recover searchable text without a full RTF parser.
var (
	rtfParagraph   = regexp.MustCompile(`\\par\b`)
	rtfControlWord = regexp.MustCompile(`\\[a-zA-Z]+-?\d*[ ]?`)
	rtfHexEscape   = regexp.MustCompile(`\\'[0-9a-fA-F]{2}`)
	rtfBraces      = regexp.MustCompile(`[{}]`)
)

// extractRTF extracts text from .rtf bytes by stripping control words,
// hex-escaped characters, and group braces, leaving plain text behind. It
// does not recognize ignorable destinations (\fonttbl, \colortbl, ...), so
// their literal text leaks through; good enough for plain-prose RTF.
func extractRTF(content []byte) (string, error) {
	s := string(content)
	s = rtfParagraph.ReplaceAllString(s, "\n")
	s = strings.ReplaceAll(s, `\tab`, "\t")
	s = rtfHexEscape.ReplaceAllString(s, "")
	s = rtfControlWord.ReplaceAllString(s, " ")
	s = rtfBraces.ReplaceAllString(s, "")
	fields := strings.Fields(s)
	return strings.Join(fields, " "), nil
}
