package scraper

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ParseDocument parses raw HTML into a goquery document.
func ParseDocument(rawHTML string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
}

// invisibleElements hold text that is never rendered.
var invisibleElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
}

// VisibleText concatenates the text nodes under the selection, skipping the
// contents of script, style, noscript and template elements.
func VisibleText(s *goquery.Selection) string {
	var b strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if invisibleElements[n.Data] {
				return
			}
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range s.Nodes {
		walk(n)
	}

	return b.String()
}

// Truncate shortens s to at most limit characters and appends marker, but
// only when s is longer than limit. Length is counted in runes so
// multi-byte text is never cut mid-character.
func Truncate(s string, limit int, marker string) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	runes := []rune(s)
	return string(runes[:limit]) + marker
}
