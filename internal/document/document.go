package document

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is a parsed page.
type Document interface {
	// Title returns the text of the <title> element, untrimmed.
	// It is empty when the page has no title.
	Title() string

	// Elements returns every element whose tag name is one of tags,
	// in document order. Nested matches are all returned.
	Elements(tags ...string) []Element

	// Hrefs returns the raw href attribute of every <a> element that has one,
	// in document order.
	Hrefs() []string
}

// Element is a single matched element.
type Element interface {
	// Tag returns the lower-case tag name.
	Tag() string

	// Text returns the concatenated text of all descendant text nodes.
	Text() string
}

// goqueryDocument implements Document on a goquery document.
type goqueryDocument struct {
	doc *goquery.Document
}

// Parse parses HTML from r.
func Parse(r io.Reader) (Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return FromGoquery(goquery.NewDocumentFromNode(root)), nil
}

// ParseString parses an HTML string.
func ParseString(s string) (Document, error) {
	return Parse(strings.NewReader(s))
}

// FromGoquery wraps an already parsed goquery document.
func FromGoquery(doc *goquery.Document) Document {
	return &goqueryDocument{doc: doc}
}

func (d *goqueryDocument) Title() string {
	return d.doc.Find("title").First().Text()
}

func (d *goqueryDocument) Elements(tags ...string) []Element {
	if len(tags) == 0 {
		return nil
	}
	// A group selector walks the tree once and keeps document order.
	selection := d.doc.Find(strings.Join(tags, ", "))
	elements := make([]Element, 0, selection.Length())
	selection.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, goqueryElement{sel: s})
	})
	return elements
}

func (d *goqueryDocument) Hrefs() []string {
	var hrefs []string
	d.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs
}

type goqueryElement struct {
	sel *goquery.Selection
}

func (e goqueryElement) Tag() string {
	return goquery.NodeName(e.sel)
}

func (e goqueryElement) Text() string {
	return e.sel.Text()
}
