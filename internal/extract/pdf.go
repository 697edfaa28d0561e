package extract

import (
	"fmt"
	"strings"

	"github.com/dslipak/pdf"
	"github.com/rohmanhakim/askpdf/pkg/failure"
)

var _ Extractor = PDFExtractor{}

// PDFExtractor reads the text layer of a PDF page by page. Pages whose text
// cannot be decoded are skipped; a document with no text at all is an error.
type PDFExtractor struct{}

func (PDFExtractor) Extract(path string) (doc Document, classified *failure.Error) {
	// the reader panics on some malformed object graphs
	defer func() {
		if r := recover(); r != nil {
			doc = Document{}
			classified = processingError(path, fmt.Sprintf("malformed PDF: %v", r), nil)
		}
	}()

	r, err := pdf.Open(path)
	if err != nil {
		return Document{}, openError(path, err)
	}

	var content strings.Builder
	pages := r.NumPage()
	for i := 1; i <= pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		content.WriteString(text)
		content.WriteString("\n")
	}

	text := strings.TrimSpace(content.String())
	if text == "" {
		return Document{}, processingError(path, "PDF has no extractable text", nil)
	}

	title := ""
	if info := r.Trailer().Key("Info"); !info.IsNull() {
		title = strings.TrimSpace(info.Key("Title").Text())
	}

	return NewDocument(path, title, text, pages, "pdf"), nil
}
