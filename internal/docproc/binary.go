package docproc

import (
	"github.com/corvidlabs/lexidex/internal/extract"
	"github.com/corvidlabs/lexidex/internal/models"
)

// binaryProcessor handles the formats that need real extraction (PDF,
// DOCX, ODT, RTF, XLSX, PPTX, ODP, ODS), adapting the teacher's
// extension-dispatch extractor into the processor contract. The factory
// tries it after HTML and Markdown and before the plain-text catch-all.
type binaryProcessor struct {
	extractor *extract.Extractor
}

func newBinaryProcessor() *binaryProcessor {
	return &binaryProcessor{extractor: extract.NewExtractor()}
}

var binaryExtensions = map[string]bool{
	".pdf": true, ".docx": true, ".odt": true, ".rtf": true,
	".xlsx": true, ".pptx": true, ".odp": true, ".ods": true,
}

func (b *binaryProcessor) CanProcess(path, mimeType string) bool {
	return binaryExtensions[extOf(path)]
}

func (b *binaryProcessor) ExtractContent(data []byte) (Content, error) {
	return Content{}, errUnknownExtension
}

// extractContentForPath extracts using the file extension, since the
// underlying extractor dispatches on extension rather than sniffed bytes.
func (b *binaryProcessor) extractContentForPath(path string, data []byte) (Content, error) {
	text, err := b.extractor.ExtractBytes(data, extOf(path))
	if err != nil {
		return Content{}, err
	}
	return Content{Text: text}, nil
}

func (b *binaryProcessor) Process(path string, data []byte, metadata map[string]interface{}) (*models.Document, error) {
	content, err := b.extractContentForPath(path, data)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]interface{}, len(metadata)+1)
	for k, v := range metadata {
		fields[k] = v
	}
	fields["content"] = content.Text
	if _, ok := fields["title"]; !ok {
		fields["title"] = baseName(path)
	}
	doc := &models.Document{Fields: fields}
	doc.Metadata.FileType = extOf(path)
	doc.Metadata.FileSize = int64(len(data))
	return doc, nil
}
