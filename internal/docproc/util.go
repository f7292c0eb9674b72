package docproc

import (
	"errors"
	"path/filepath"
	"strings"
)

var errUnknownExtension = errors.New("docproc: extractContent requires a file path for this format")

func extOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

func baseName(path string) string {
	return filepath.Base(path)
}
