// Package docproc implements the document-processor contract from spec §6:
// each Processor decides whether it can handle a file, extracts its text
// content, and turns it into an IndexedDocument. The Factory selects the
// first matching processor in priority order; the engine only ever sees
// the resulting document, never which processor produced it.
package docproc

import (
	"path/filepath"
	"strings"

	"github.com/corvidlabs/lexidex/internal/models"
)

// Content is the extracted-content object a Processor's ExtractContent
// returns: plain text plus whatever structural metadata the format offers.
type Content struct {
	Text  string
	Title string
}

// Processor mirrors spec §6's canProcess/process/extractContent trio.
type Processor interface {
	// CanProcess reports whether this processor handles path (judged by
	// extension) and/or the given MIME type. mimeType may be empty.
	CanProcess(path, mimeType string) bool
	// ExtractContent pulls plain text (and, where available, a title) out
	// of raw file bytes.
	ExtractContent(data []byte) (Content, error)
	// Process builds the IndexedDocument the engine will index. metadata
	// is caller-supplied extra fields (author, tags, ...) merged in as-is.
	Process(path string, data []byte, metadata map[string]interface{}) (*models.Document, error)
}

// baseProcess is the common Process implementation every concrete
// processor delegates to: extract content, then assemble a Document with
// the conventional content/title fields plus caller metadata.
func baseProcess(p Processor, path string, data []byte, metadata map[string]interface{}) (*models.Document, error) {
	content, err := p.ExtractContent(data)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]interface{}, len(metadata)+2)
	for k, v := range metadata {
		fields[k] = v
	}
	fields["content"] = content.Text
	if content.Title != "" {
		if _, ok := fields["title"]; !ok {
			fields["title"] = content.Title
		}
	} else if _, ok := fields["title"]; !ok {
		fields["title"] = filepath.Base(path)
	}

	doc := &models.Document{Fields: fields}
	doc.Metadata.FileType = strings.ToLower(filepath.Ext(path))
	doc.Metadata.FileSize = int64(len(data))
	return doc, nil
}
