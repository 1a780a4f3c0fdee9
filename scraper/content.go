package scraper

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// ContentSelector is a named CSS selector that may hold an article body.
type ContentSelector struct {
	Name     string
	Selector string
}

// DefaultContentSelectors are tried in priority order.
var DefaultContentSelectors = []ContentSelector{
	{Name: "article", Selector: "article"},
	{Name: "content", Selector: ".content"},
	{Name: "post-content", Selector: ".post-content"},
	{Name: "entry-content", Selector: ".entry-content"},
	{Name: "article-body", Selector: ".article-body"},
	{Name: "main", Selector: "main"},
	{Name: "paragraph", Selector: "p"},
}

// FindContent walks selectors in order and returns the text of the first
// matched element whose trimmed text is longer than minLength. Only the
// first element of each selector is considered; a short first match moves
// on to the next selector.
func FindContent(doc *goquery.Document, selectors []ContentSelector, minLength int) (string, bool) {
	for _, cs := range selectors {
		matched := doc.Find(cs.Selector)
		if matched.Length() == 0 {
			continue
		}

		text := strings.TrimSpace(VisibleText(matched.First()))
		if utf8.RuneCountInString(text) > minLength {
			return text, true
		}
	}
	return "", false
}
