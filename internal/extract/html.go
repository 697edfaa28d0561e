package extract

import (
	"bytes"
	"os"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/rohmanhakim/askpdf/pkg/failure"
	"golang.org/x/net/html"
)

/*
HTML documents are reduced to their body content and converted to
markdown so headings, lists and tables survive chunking.

Content container priority:
  - <main>
  - <article>
  - [role="main"]
  - <body>

Site chrome (nav, header, footer, aside, script, style, forms) is removed
before conversion.
*/

var _ Extractor = (*HTMLExtractor)(nil)

var chromeSelectors = "nav, header, footer, aside, script, style, noscript, form, iframe, [role='navigation'], [aria-hidden='true']"

type HTMLExtractor struct {
	conv *converter.Converter
}

func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

func (h *HTMLExtractor) Extract(path string) (Document, *failure.Error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, openError(path, err)
	}

	root, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return Document{}, processingError(path, "failed to parse HTML: "+err.Error(), err)
	}

	doc := goquery.NewDocumentFromNode(root)
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	doc.Find(chromeSelectors).Remove()

	content := contentNode(doc)
	if content == nil {
		return Document{}, processingError(path, "HTML document has no body", nil)
	}

	markdown, err := h.conv.ConvertNode(content)
	if err != nil {
		return Document{}, processingError(path, "failed to convert HTML: "+err.Error(), err)
	}

	text := strings.TrimSpace(string(markdown))
	if text == "" {
		return Document{}, processingError(path, "HTML document has no text content", nil)
	}

	return NewDocument(path, title, text, 1, "html"), nil
}

func contentNode(doc *goquery.Document) *html.Node {
	for _, sel := range []string{"main", "article", "[role='main']", "body"} {
		if s := doc.Find(sel).First(); s.Length() > 0 && strings.TrimSpace(s.Text()) != "" {
			return s.Nodes[0]
		}
	}
	return nil
}
