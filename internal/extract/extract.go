package extract

import (
	"strings"

	"github.com/rohmanhakim/askpdf/internal/metadata"
	"github.com/rohmanhakim/askpdf/pkg/failure"
	"github.com/rohmanhakim/askpdf/pkg/fileutil"
)

/*
Responsibilities
- Turn one stored file into plain text
- Classify every failure close to the fault as a FileError

Extractors never log. The ingestion boundary that calls them reports the
classified error once.
*/

type Extractor interface {
	Extract(path string) (Document, *failure.Error)
}

// Registry picks an extractor by file extension.
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry returns a registry that knows PDF, HTML and plain text.
func NewRegistry() Registry {
	r := Registry{byExt: map[string]Extractor{}}

	text := TextExtractor{}
	htmlExt := NewHTMLExtractor()
	r.Register("pdf", PDFExtractor{})
	r.Register("html", htmlExt)
	r.Register("htm", htmlExt)
	for _, ext := range []string{"txt", "md", "markdown"} {
		r.Register(ext, text)
	}
	return r
}

// Register adds or replaces the extractor for ext. The leading dot and
// case are optional.
func (r Registry) Register(ext string, e Extractor) {
	r.byExt[normalizeExt(ext)] = e
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func (r Registry) For(path string) (Extractor, *failure.Error) {
	ext := normalizeExt(fileutil.GetFileExtension(path))
	e, ok := r.byExt[ext]
	if !ok {
		return nil, failure.New(
			failure.KindValidation,
			failure.CodeInvalidFileFormat,
			"no extractor for file type "+ext,
			failure.Details{metadata.AttrPath: path, metadata.AttrExtension: ext},
		)
	}
	return e, nil
}

func (r Registry) Extract(path string) (Document, *failure.Error) {
	e, err := r.For(path)
	if err != nil {
		return Document{}, err
	}
	return e.Extract(path)
}
