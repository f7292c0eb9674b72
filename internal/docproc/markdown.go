package docproc

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/corvidlabs/lexidex/internal/models"
)

// markdownProcessor extracts plain text from Markdown, stripping the
// formatting characters a reader wouldn't search for but keeping heading
// text as both title and content.
type markdownProcessor struct{}

var (
	mdHeading   = regexp.MustCompile(`^#{1,6}\s+(.*)$`)
	mdLink      = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdEmphasis  = regexp.MustCompile(`[*_]{1,3}([^*_]+)[*_]{1,3}`)
	mdCodeFence = regexp.MustCompile("^```")
	mdInlineCode = regexp.MustCompile("`([^`]*)`")
)

func (markdownProcessor) CanProcess(path, mimeType string) bool {
	if strings.Contains(mimeType, "markdown") {
		return true
	}
	ext := extOf(path)
	return ext == ".md" || ext == ".markdown"
}

func (markdownProcessor) ExtractContent(data []byte) (Content, error) {
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var title string
	var lines []string
	inFence := false
	for scanner.Scan() {
		line := scanner.Text()
		if mdCodeFence.MatchString(strings.TrimSpace(line)) {
			inFence = !inFence
			continue
		}
		if inFence {
			lines = append(lines, line)
			continue
		}
		if m := mdHeading.FindStringSubmatch(line); len(m) > 1 {
			heading := cleanMarkdownInline(m[1])
			if title == "" {
				title = heading
			}
			lines = append(lines, heading)
			continue
		}
		lines = append(lines, cleanMarkdownInline(line))
	}
	if err := scanner.Err(); err != nil {
		return Content{}, err
	}
	return Content{Text: strings.TrimSpace(strings.Join(lines, "\n")), Title: title}, nil
}

func cleanMarkdownInline(line string) string {
	line = mdLink.ReplaceAllString(line, "$1")
	line = mdInlineCode.ReplaceAllString(line, "$1")
	line = mdEmphasis.ReplaceAllString(line, "$1")
	return line
}

func (p markdownProcessor) Process(path string, data []byte, metadata map[string]interface{}) (*models.Document, error) {
	return baseProcess(p, path, data, metadata)
}
