package scraper

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// HyperlinkCandidate is a raw anchor scanned from a listing page.
type HyperlinkCandidate struct {
	Href       string `json:"href"`
	AnchorText string `json:"anchorText"`
}

// ArticleReference is a candidate that was accepted and resolved to an
// absolute URL.
type ArticleReference struct {
	AbsoluteURL string `json:"absoluteUrl"`
}

// PathPattern is a named href shape that marks a link as an article
// regardless of its anchor text.
type PathPattern struct {
	Name    string
	Pattern *regexp.Regexp
}

// DefaultPathPatterns lists the href shapes recognized as article links.
// Patterns are unanchored: a match anywhere in the href counts.
var DefaultPathPatterns = []PathPattern{
	{Name: "article", Pattern: regexp.MustCompile(`/article/`)},
	{Name: "news", Pattern: regexp.MustCompile(`/news/`)},
	{Name: "story", Pattern: regexp.MustCompile(`/story/`)},
	{Name: "post", Pattern: regexp.MustCompile(`/post/`)},
	{Name: "dated-path", Pattern: regexp.MustCompile(`\p{Nd}{4}/\p{Nd}{2}/\p{Nd}{2}`)},
}

// Classifier decides which hyperlinks on a listing page are likely article
// links.
type Classifier struct {
	config *ClassifierConfig
}

// NewClassifier creates a classifier. A nil config uses the defaults.
func NewClassifier(config *ClassifierConfig) *Classifier {
	if config == nil {
		config = NewClassifierConfig()
	}
	return &Classifier{config: config}
}

// Classify filters candidates down to resolvable article references, in
// input order, stopping as soon as maxResults references are produced.
func (c *Classifier) Classify(candidates []HyperlinkCandidate, baseURL string, maxResults int) []ArticleReference {
	refs := []ArticleReference{}

	for _, candidate := range candidates {
		if len(refs) >= maxResults {
			break
		}

		if !c.IsArticleLink(candidate) {
			continue
		}

		absoluteURL, ok := ResolveURL(candidate.Href, baseURL)
		if !ok {
			continue
		}

		refs = append(refs, ArticleReference{AbsoluteURL: absoluteURL})
	}

	return refs
}

// IsArticleLink reports whether a single candidate looks like an article
// link. Path patterns win over the anchor text length check.
func (c *Classifier) IsArticleLink(candidate HyperlinkCandidate) bool {
	if candidate.Href == "" || candidate.AnchorText == "" {
		return false
	}

	for _, p := range c.config.PathPatterns {
		if p.Pattern.MatchString(candidate.Href) {
			return true
		}
	}

	n := utf8.RuneCountInString(candidate.AnchorText)
	return n > c.config.MinAnchorLength && n < c.config.MaxAnchorLength
}

// Classify runs a default classifier over candidates.
func Classify(candidates []HyperlinkCandidate, baseURL string, maxResults int) []ArticleReference {
	return NewClassifier(nil).Classify(candidates, baseURL, maxResults)
}

// ResolveURL turns an href into an absolute URL. Root-relative hrefs are
// appended to baseURL with its trailing slashes removed, hrefs starting with
// "http" are used verbatim, and anything else cannot be resolved.
//
// This does not normalize "../" segments, scheme-relative "//host" hrefs or
// query strings.
func ResolveURL(href, baseURL string) (string, bool) {
	switch {
	case strings.HasPrefix(href, "/"):
		return strings.TrimRight(baseURL, "/") + href, true
	case strings.HasPrefix(href, "http"):
		return href, true
	default:
		return "", false
	}
}

// ScanLinks returns every anchor with an href attribute in document order.
func ScanLinks(doc *goquery.Document) []HyperlinkCandidate {
	candidates := []HyperlinkCandidate{}
	if doc == nil {
		return candidates
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		candidates = append(candidates, HyperlinkCandidate{
			Href:       href,
			AnchorText: strings.TrimSpace(s.Text()),
		})
	})

	return candidates
}
