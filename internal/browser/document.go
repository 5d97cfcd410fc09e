package browser

import (
	"io"
	"net/url"

	"paprikaplate/internal/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

// Document is a parsed page, it implements the read half of Page.
type Document struct {
	doc *goquery.Document
	url *url.URL
}

func NewDocument(location *url.URL, body io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, err
	}
	doc.Url = location
	return &Document{doc: doc, url: location}, nil
}

func (d *Document) URL() *url.URL {
	return d.url
}

func (d *Document) Find(loc Locator) (Element, bool) {
	return first(d.doc.Find(string(loc)))
}

func (d *Document) FindAll(loc Locator) []Element {
	return all(d.doc.Find(string(loc)))
}

func (d *Document) selection(loc Locator) *goquery.Selection {
	return d.doc.Find(string(loc)).First()
}

type element struct {
	sel *goquery.Selection
}

func first(sel *goquery.Selection) (Element, bool) {
	if sel.Length() == 0 {
		return nil, false
	}
	return element{sel: sel.First()}, true
}

func all(sel *goquery.Selection) []Element {
	out := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, element{sel: s})
	})
	return out
}

func (e element) Text() string {
	return htmlutil.RenderedText(e.sel.Get(0))
}

func (e element) Attr(name string) (string, bool) {
	return e.sel.Attr(name)
}

func (e element) Find(loc Locator) (Element, bool) {
	return first(e.sel.Find(string(loc)))
}

func (e element) FindAll(loc Locator) []Element {
	return all(e.sel.Find(string(loc)))
}
