package docproc

import (
	"fmt"

	"github.com/corvidlabs/lexidex/internal/fileid"
	"github.com/corvidlabs/lexidex/internal/models"
)

// Factory selects the first Processor in priority order that claims a
// given file (spec §6): HTML, then Markdown, then the binary formats, then
// plain text. Plain text matches everything, so it is ordered last, behind
// the two content-aware formats and the extension-matched binary formats.
type Factory struct {
	processors []Processor
}

// NewFactory returns a Factory with the default priority order. Binary
// formats are tried before the plain-text catch-all so that .pdf/.docx/
// etc. go through real extraction instead of being treated as raw text.
func NewFactory() *Factory {
	return &Factory{
		processors: []Processor{
			htmlProcessor{},
			markdownProcessor{},
			newBinaryProcessor(),
			plainProcessor{},
		},
	}
}

// Select returns the first processor willing to handle path/mimeType.
func (f *Factory) Select(path, mimeType string) Processor {
	for _, p := range f.processors {
		if p.CanProcess(path, mimeType) {
			return p
		}
	}
	return nil
}

// Process runs the selected processor's Process step, producing the
// IndexedDocument the engine will index.
func (f *Factory) Process(path string, data []byte, mimeType string, metadata map[string]interface{}) (*models.Document, error) {
	p := f.Select(path, mimeType)
	if p == nil {
		return nil, fmt.Errorf("docproc: no processor for %q", path)
	}
	doc, err := p.Process(path, data, metadata)
	if err != nil {
		return nil, fmt.Errorf("docproc: process %q: %w", path, err)
	}
	if doc.ID == "" {
		doc.ID = fileid.FileDocID(path)
	}
	return doc, nil
}
