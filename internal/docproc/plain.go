package docproc

import (
	"strings"
	"unicode/utf8"

	"github.com/corvidlabs/lexidex/internal/models"
)

// plainProcessor handles plain text and anything else no other processor
// claims: the last entry in the factory's priority order.
type plainProcessor struct{}

func (plainProcessor) CanProcess(path, mimeType string) bool {
	return true
}

func (plainProcessor) ExtractContent(data []byte) (Content, error) {
	if !utf8.Valid(data) {
		data = []byte(strings.ToValidUTF8(string(data), "�"))
	}
	return Content{Text: string(data)}, nil
}

func (p plainProcessor) Process(path string, data []byte, metadata map[string]interface{}) (*models.Document, error) {
	return baseProcess(p, path, data, metadata)
}
