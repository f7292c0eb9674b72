package docproc

import (
	"regexp"
	"strings"

	"github.com/corvidlabs/lexidex/internal/models"
)

// htmlProcessor strips tags from HTML/XHTML content with a scanner in the
// same spirit as the OOXML text extraction in the teacher's extract
// package (regexp over raw markup, no DOM), since the pack carries no
// HTML parsing library.
type htmlProcessor struct{}

var (
	htmlTitleTag   = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	htmlScriptTag  = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	htmlStyleTag   = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	htmlComment    = regexp.MustCompile(`(?s)<!--.*?-->`)
	htmlAnyTag     = regexp.MustCompile(`(?s)<[^>]+>`)
	htmlEntityRepl = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
	htmlWhitespace = regexp.MustCompile(`[ \t]+`)
	htmlBlankLines = regexp.MustCompile(`\n{3,}`)
)

func (htmlProcessor) CanProcess(path, mimeType string) bool {
	if strings.Contains(mimeType, "html") {
		return true
	}
	ext := extOf(path)
	return ext == ".html" || ext == ".htm" || ext == ".xhtml"
}

func (htmlProcessor) ExtractContent(data []byte) (Content, error) {
	src := string(data)

	var title string
	if m := htmlTitleTag.FindStringSubmatch(src); len(m) > 1 {
		title = strings.TrimSpace(stripTags(m[1]))
	}

	stripped := htmlComment.ReplaceAllString(src, "")
	stripped = htmlScriptTag.ReplaceAllString(stripped, "")
	stripped = htmlStyleTag.ReplaceAllString(stripped, "")
	stripped = stripTags(stripped)

	return Content{Text: stripped, Title: title}, nil
}

func (p htmlProcessor) Process(path string, data []byte, metadata map[string]interface{}) (*models.Document, error) {
	return baseProcess(p, path, data, metadata)
}

// stripTags removes every tag and normalizes resulting whitespace into a
// readable, searchable text block.
func stripTags(src string) string {
	text := htmlAnyTag.ReplaceAllString(src, " ")
	text = htmlEntityRepl.Replace(text)
	text = htmlWhitespace.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	text = strings.Join(lines, "\n")
	text = htmlBlankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
