// Package htmldoc exposes parsed HTML as a small queryable tree
package htmldoc

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Element is a single node matched by a selector
type Element interface {
	Text() string
	Attr(name string) (string, bool)
}

// Document is a parsed HTML page
type Document interface {
	// SelectAll returns every element matching the CSS selector, in document order
	SelectAll(selector string) []Element
	// Select returns the first match, or an empty element when nothing matches
	Select(selector string) Element
	// Text returns the combined text of every element matching the selector
	Text(selector string) string
	// BodyText returns the text content of <body>
	BodyText() string
}

type document struct {
	doc *goquery.Document
}

type element struct {
	sel *goquery.Selection
}

// Parse reads an HTML document. Malformed markup is repaired rather than rejected,
// so only read failures produce an error.
func Parse(r io.Reader) (Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &document{doc: doc}, nil
}

// ParseString parses an HTML string
func ParseString(html string) (Document, error) {
	return Parse(strings.NewReader(html))
}

func (d *document) SelectAll(selector string) []Element {
	sel := d.doc.Find(selector)
	elements := make([]Element, 0, sel.Length())
	sel.Each(func(i int, s *goquery.Selection) {
		elements = append(elements, &element{sel: s})
	})
	return elements
}

func (d *document) Select(selector string) Element {
	return &element{sel: d.doc.Find(selector).First()}
}

func (d *document) Text(selector string) string {
	return d.doc.Find(selector).Text()
}

func (d *document) BodyText() string {
	return d.doc.Find("body").Text()
}

func (e *element) Text() string {
	return e.sel.Text()
}

func (e *element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}
