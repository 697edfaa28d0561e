package extract_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/rohmanhakim/askpdf/internal/extract"
	"github.com/rohmanhakim/askpdf/pkg/failure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFExtractor_ReadsTextLayer(t *testing.T) {
	path := writeFile(t, "manual.pdf", minimalPDF("Hello World"))

	doc, err := extract.PDFExtractor{}.Extract(path)
	require.Nil(t, err)

	assert.Contains(t, doc.Text(), "Hello World")
	assert.Equal(t, 1, doc.Pages())
	assert.Equal(t, "pdf", doc.Format())
	assert.Equal(t, "Sample Manual", doc.Title())
	assert.Equal(t, path, doc.Source())
}

func TestPDFExtractor_Failures(t *testing.T) {
	tests := []struct {
		name     string
		path     func(t *testing.T) string
		wantCode failure.Code
	}{
		{
			name:     "missing file",
			path:     func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.pdf") },
			wantCode: failure.CodeFileNotFound,
		},
		{
			name:     "not a pdf",
			path:     func(t *testing.T) string { return writeFile(t, "fake.pdf", []byte(strings.Repeat("plain text ", 20))) },
			wantCode: failure.CodePDFProcessingError,
		},
		{
			name:     "no text layer",
			path:     func(t *testing.T) string { return writeFile(t, "blank.pdf", minimalPDF("")) },
			wantCode: failure.CodePDFProcessingError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path(t)
			_, err := extract.PDFExtractor{}.Extract(path)

			require.NotNil(t, err)
			assert.Equal(t, failure.KindFile, err.Kind())
			assert.Equal(t, tt.wantCode, err.Code())
			assert.Equal(t, path, err.Details()["path"])
		})
	}
}

func TestHTMLExtractor_StripsChromeAndConverts(t *testing.T) {
	page := `<!DOCTYPE html>
<html>
<head><title>Install Guide</title><style>body{}</style></head>
<body>
  <nav><a href="/">Home</a><a href="/docs">Docs</a></nav>
  <main>
    <h2>Requirements</h2>
    <p>You need <strong>Go</strong> installed.</p>
    <table><thead><tr><th>OS</th><th>Arch</th></tr></thead><tbody><tr><td>linux</td><td>amd64</td></tr></tbody></table>
  </main>
  <footer>Copyright</footer>
  <script>track()</script>
</body>
</html>`
	path := writeFile(t, "guide.html", []byte(page))

	doc, err := extract.NewHTMLExtractor().Extract(path)
	require.Nil(t, err)

	assert.Equal(t, "Install Guide", doc.Title())
	assert.Equal(t, "html", doc.Format())
	assert.Contains(t, doc.Text(), "## Requirements")
	assert.Contains(t, doc.Text(), "**Go**")
	assert.Contains(t, doc.Text(), "| OS")
	assert.NotContains(t, doc.Text(), "Home")
	assert.NotContains(t, doc.Text(), "Copyright")
	assert.NotContains(t, doc.Text(), "track()")
}

func TestHTMLExtractor_EmptyBody(t *testing.T) {
	path := writeFile(t, "empty.html", []byte("<html><body><nav>menu</nav></body></html>"))

	_, err := extract.NewHTMLExtractor().Extract(path)
	require.NotNil(t, err)
	assert.Equal(t, failure.CodePDFProcessingError, err.Code())
}

func TestTextExtractor(t *testing.T) {
	t.Run("reads utf8", func(t *testing.T) {
		path := writeFile(t, "notes.md", []byte("  # Notes\n\nsome text\n"))
		doc, err := extract.TextExtractor{}.Extract(path)
		require.Nil(t, err)
		assert.Equal(t, "# Notes\n\nsome text", doc.Text())
	})

	t.Run("rejects binary", func(t *testing.T) {
		path := writeFile(t, "bin.txt", []byte{0xff, 0xfe, 0x00})
		_, err := extract.TextExtractor{}.Extract(path)
		require.NotNil(t, err)
		assert.Equal(t, failure.KindFile, err.Kind())
	})

	t.Run("rejects empty", func(t *testing.T) {
		path := writeFile(t, "empty.txt", []byte("   \n"))
		_, err := extract.TextExtractor{}.Extract(path)
		require.NotNil(t, err)
	})
}

func TestRegistry(t *testing.T) {
	reg := extract.NewRegistry()

	for _, name := range []string{"a.pdf", "A.PDF", "b.html", "c.htm", "d.txt", "e.md"} {
		e, err := reg.For(name)
		assert.Nil(t, err, name)
		assert.NotNil(t, e, name)
	}

	_, err := reg.For("archive.zip")
	require.NotNil(t, err)
	assert.Equal(t, failure.KindValidation, err.Kind())
	assert.Equal(t, failure.CodeInvalidFileFormat, err.Code())
	assert.Equal(t, ".zip", err.Details()["extension"])

	path := writeFile(t, "readme.txt", []byte("hello"))
	doc, err := reg.Extract(path)
	require.Nil(t, err)
	assert.Equal(t, "hello", doc.Text())
}

func TestRegistry_Register(t *testing.T) {
	reg := extract.NewRegistry()
	reg.Register("RST", extract.TextExtractor{})

	path := writeFile(t, "notes.rst", []byte("Title\n=====\n"))
	doc, err := reg.Extract(path)
	require.Nil(t, err)
	assert.Contains(t, doc.Text(), "Title")
}
