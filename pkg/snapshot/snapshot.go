// Package snapshot holds the rendered-page representation consumed by the
// contact extractors: the visible text a user would read plus a queryable DOM,
// captured from a single render pass.
package snapshot

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jmylchreest/contactscrape/pkg/fetcher"
)

// Snapshot is an immutable view of one rendered page.
// Extractors only read from it; nothing in this module mutates Doc after construction.
type Snapshot struct {
	// Text is the page's visible text (innerText semantics, not markup).
	Text string

	// Doc is the parsed DOM of the same render.
	Doc *goquery.Document

	// URL is the address the snapshot was fetched from.
	URL string
}

// New parses html into a Snapshot. If text is empty, the visible text is
// derived from the parsed document.
func New(html, text, url string) (*Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return FromDocument(doc, text, url), nil
}

// FromDocument wraps an already parsed document.
func FromDocument(doc *goquery.Document, text, url string) *Snapshot {
	if strings.TrimSpace(text) == "" {
		text = VisibleText(doc.Selection)
	}
	return &Snapshot{
		Text: text,
		Doc:  doc,
		URL:  url,
	}
}

// FromContent builds a Snapshot from fetched page content.
func FromContent(c fetcher.Content) (*Snapshot, error) {
	return New(c.HTML, c.Text, c.URL)
}

// Title returns the trimmed document title. Titles inside inline SVG are
// icon labels and never count.
func (s *Snapshot) Title() string {
	if s == nil || s.Doc == nil {
		return ""
	}
	return strings.TrimSpace(s.Doc.Find("title").Not("svg title").First().Text())
}

// FirstText returns the collapsed text of the first element matching selector,
// or "" when nothing matches.
func (s *Snapshot) FirstText(selector string) string {
	if s == nil || s.Doc == nil {
		return ""
	}
	sel := s.Doc.Find(selector).First()
	if sel.Length() == 0 {
		return ""
	}
	return CollapseSpace(VisibleText(sel))
}

// FirstAttr returns the trimmed value of attr on the first element matching
// selector.
func (s *Snapshot) FirstAttr(selector, attr string) string {
	if s == nil || s.Doc == nil {
		return ""
	}
	v, _ := s.Doc.Find(selector).First().Attr(attr)
	return strings.TrimSpace(v)
}

// Attrs returns the value of attr for every element matching selector, in
// document order. Elements without the attribute are skipped.
func (s *Snapshot) Attrs(selector, attr string) []string {
	if s == nil || s.Doc == nil {
		return nil
	}
	var out []string
	s.Doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		if v, ok := sel.Attr(attr); ok {
			out = append(out, v)
		}
	})
	return out
}

// CollapseSpace trims s and replaces every whitespace run with a single space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
