package extract

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rohmanhakim/askpdf/pkg/failure"
)

var _ Extractor = TextExtractor{}

// TextExtractor accepts UTF-8 plain text and markdown as-is.
type TextExtractor struct{}

func (TextExtractor) Extract(path string) (Document, *failure.Error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, openError(path, err)
	}
	if !utf8.Valid(raw) {
		return Document{}, processingError(path, "text file is not valid UTF-8", nil)
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return Document{}, processingError(path, "text file is empty", nil)
	}
	return NewDocument(path, "", text, 1, "text"), nil
}
