package page

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrElementNotFound is returned when a page has no element with the requested id.
// It almost always means the markdown and the metadata disagree on a placeholder name.
var ErrElementNotFound = errors.New("element not found")

// ElementNotFoundError names the missing id.
type ElementNotFoundError struct {
	ID string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("%s: #%s", ErrElementNotFound, e.ID)
}

func (e *ElementNotFoundError) Unwrap() error { return ErrElementNotFound }

// Document is a rendered HTML page whose elements are addressed by id.
type Document struct {
	doc *goquery.Document
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return &Document{doc: doc}, nil
}

// ParseString is Parse for in-memory HTML.
func ParseString(html string) (*Document, error) {
	return Parse(strings.NewReader(html))
}

// element finds the first element carrying id. Ids are matched with an attribute
// selector so that chapter names starting with a digit stay valid.
func (d *Document) element(id string) (*goquery.Selection, error) {
	sel := d.doc.Find(`[id="` + escapeAttr(id) + `"]`).First()
	if sel.Length() == 0 {
		return nil, &ElementNotFoundError{ID: id}
	}
	return sel, nil
}

// Has reports whether an element with id exists.
func (d *Document) Has(id string) bool {
	_, err := d.element(id)
	return err == nil
}

// Text returns the text content of the element.
func (d *Document) Text(id string) (string, error) {
	sel, err := d.element(id)
	if err != nil {
		return "", err
	}
	return sel.Text(), nil
}

// SetText replaces the content of the element with text (escaped).
func (d *Document) SetText(id, text string) error {
	sel, err := d.element(id)
	if err != nil {
		return err
	}
	sel.SetText(text)
	return nil
}

// Attr returns an attribute of the element.
func (d *Document) Attr(id, name string) (string, bool, error) {
	sel, err := d.element(id)
	if err != nil {
		return "", false, err
	}
	v, ok := sel.Attr(name)
	return v, ok, nil
}

// SetAttr sets an attribute on the element.
func (d *Document) SetAttr(id, name, value string) error {
	sel, err := d.element(id)
	if err != nil {
		return err
	}
	sel.SetAttr(name, value)
	return nil
}

// SetStyle sets one CSS property in the element's inline style, keeping the others.
func (d *Document) SetStyle(id, property, value string) error {
	sel, err := d.element(id)
	if err != nil {
		return err
	}
	current, _ := sel.Attr("style")
	sel.SetAttr("style", mergeStyle(current, property, value))
	return nil
}

// Style returns the value of one inline CSS property of the element.
func (d *Document) Style(id, property string) (string, error) {
	sel, err := d.element(id)
	if err != nil {
		return "", err
	}
	current, _ := sel.Attr("style")
	return parseStyle(current)[strings.ToLower(property)], nil
}

// AppendHTML appends raw HTML as the last children of the element.
func (d *Document) AppendHTML(id, html string) error {
	sel, err := d.element(id)
	if err != nil {
		return err
	}
	sel.AppendHtml(html)
	return nil
}

// SetHTML replaces the children of the element with raw HTML.
func (d *Document) SetHTML(id, html string) error {
	sel, err := d.element(id)
	if err != nil {
		return err
	}
	sel.SetHtml(html)
	return nil
}

// InsertAfter places raw HTML right after the element.
func (d *Document) InsertAfter(id, html string) error {
	sel, err := d.element(id)
	if err != nil {
		return err
	}
	sel.AfterHtml(html)
	return nil
}

// Find exposes a goquery selection for reads that ids cannot express.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// HTML serializes the whole document.
func (d *Document) HTML() (string, error) {
	out, err := d.doc.Html()
	if err != nil {
		return "", fmt.Errorf("failed to render html: %w", err)
	}
	return out, nil
}

func escapeAttr(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

func parseStyle(style string) map[string]string {
	props := make(map[string]string)
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		props[name] = strings.TrimSpace(value)
	}
	return props
}

func mergeStyle(style, property, value string) string {
	props := parseStyle(style)
	props[strings.ToLower(strings.TrimSpace(property))] = value

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(props[name])
		b.WriteString(";")
	}
	return b.String()
}
