package extract

// Document is the plain text pulled out of one source file.
type Document struct {
	source string
	title  string
	text   string
	pages  int
	format string
}

func NewDocument(source, title, text string, pages int, format string) Document {
	return Document{
		source: source,
		title:  title,
		text:   text,
		pages:  pages,
		format: format,
	}
}

func (d Document) Source() string {
	return d.source
}

func (d Document) Title() string {
	return d.title
}

func (d Document) Text() string {
	return d.text
}

// Pages is the page count for paginated formats and 1 otherwise.
func (d Document) Pages() int {
	return d.pages
}

func (d Document) Format() string {
	return d.format
}
