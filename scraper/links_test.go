package scraper

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClassify_PathPatternResolved verifies a root-relative article link is
// accepted and resolved against the base URL
func TestClassify_PathPatternResolved(t *testing.T) {
	candidates := []HyperlinkCandidate{
		{Href: "/article/12345", AnchorText: "Sample Headline Text Here"},
	}

	refs := Classify(candidates, "https://news.example.com/", 10)

	require.Len(t, refs, 1)
	assert.Equal(t, "https://news.example.com/article/12345", refs[0].AbsoluteURL)
}

// TestClassify_PathPatternIgnoresTextLength verifies path patterns accept
// links with very short anchor text
func TestClassify_PathPatternIgnoresTextLength(t *testing.T) {
	candidates := []HyperlinkCandidate{
		{Href: "https://other.example.com/story/42", AnchorText: "X"},
	}

	refs := Classify(candidates, "https://news.example.com", 10)

	require.Len(t, refs, 1)
	assert.Equal(t, "https://other.example.com/story/42", refs[0].AbsoluteURL)
}

// TestClassify_NavLinkRejected verifies short nav links are dropped
func TestClassify_NavLinkRejected(t *testing.T) {
	candidates := []HyperlinkCandidate{
		{Href: "/about", AnchorText: "About Us"},
	}

	refs := Classify(candidates, "https://news.example.com/", 10)

	assert.Empty(t, refs)
}

// TestIsArticleLink_PathPatterns verifies every built-in path shape
func TestIsArticleLink_PathPatterns(t *testing.T) {
	classifier := NewClassifier(nil)

	hrefs := []string{
		"/article/1",
		"/world/news/2",
		"https://example.com/story/abc",
		"/blog/post/hello",
		"/2024/03/15/something",
		"https://example.com/archive2024/03/15x",
		"/２０２４/０３/１５/x",
	}

	for _, href := range hrefs {
		t.Run(href, func(t *testing.T) {
			assert.True(t, classifier.IsArticleLink(HyperlinkCandidate{Href: href, AnchorText: "a"}))
		})
	}
}

// TestIsArticleLink_DatePathNeedsTwoDigits verifies single-digit months do
// not match the dated path shape
func TestIsArticleLink_DatePathNeedsTwoDigits(t *testing.T) {
	classifier := NewClassifier(nil)

	assert.False(t, classifier.IsArticleLink(HyperlinkCandidate{Href: "/2024/3/15/x", AnchorText: "short"}))
}

// TestIsArticleLink_EmptyFields verifies empty href or text is rejected
func TestIsArticleLink_EmptyFields(t *testing.T) {
	classifier := NewClassifier(nil)

	assert.False(t, classifier.IsArticleLink(HyperlinkCandidate{Href: "", AnchorText: strings.Repeat("a", 50)}))
	assert.False(t, classifier.IsArticleLink(HyperlinkCandidate{Href: "/article/1", AnchorText: ""}))
}

// TestIsArticleLink_LengthBounds verifies the anchor text bounds are
// exclusive
func TestIsArticleLink_LengthBounds(t *testing.T) {
	classifier := NewClassifier(nil)

	tests := []struct {
		length   int
		expected bool
	}{
		{length: 20, expected: false},
		{length: 21, expected: true},
		{length: 100, expected: true},
		{length: 199, expected: true},
		{length: 200, expected: false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("length %d", tt.length), func(t *testing.T) {
			candidate := HyperlinkCandidate{Href: "/about", AnchorText: strings.Repeat("a", tt.length)}
			assert.Equal(t, tt.expected, classifier.IsArticleLink(candidate))
		})
	}
}

// TestIsArticleLink_LengthCountsCharacters verifies multi-byte anchor text
// is measured in characters rather than bytes
func TestIsArticleLink_LengthCountsCharacters(t *testing.T) {
	classifier := NewClassifier(nil)

	// 10 characters, 30 bytes
	candidate := HyperlinkCandidate{Href: "/about", AnchorText: strings.Repeat("記", 10)}
	assert.False(t, classifier.IsArticleLink(candidate))

	// 21 characters
	candidate.AnchorText = strings.Repeat("記", 21)
	assert.True(t, classifier.IsArticleLink(candidate))
}

// TestClassifier_CustomThresholds verifies configured bounds are honored
func TestClassifier_CustomThresholds(t *testing.T) {
	config := NewClassifierConfig()
	config.MinAnchorLength = 5
	config.MaxAnchorLength = 10
	classifier := NewClassifier(config)

	assert.True(t, classifier.IsArticleLink(HyperlinkCandidate{Href: "/x", AnchorText: "abcdef"}))
	assert.False(t, classifier.IsArticleLink(HyperlinkCandidate{Href: "/x", AnchorText: "abcde"}))
	assert.False(t, classifier.IsArticleLink(HyperlinkCandidate{Href: "/x", AnchorText: "abcdefghij"}))
}

// TestClassify_UnresolvableDropped verifies javascript, mailto and fragment
// links are dropped even when they look like articles
func TestClassify_UnresolvableDropped(t *testing.T) {
	text := "A perfectly reasonable headline length"
	candidates := []HyperlinkCandidate{
		{Href: "javascript:void(0)", AnchorText: text},
		{Href: "mailto:news@example.com", AnchorText: text},
		{Href: "#top", AnchorText: text},
		{Href: "relative/news/1", AnchorText: text},
		{Href: "/news/1", AnchorText: text},
	}

	refs := Classify(candidates, "https://example.com", 10)

	require.Len(t, refs, 1)
	assert.Equal(t, "https://example.com/news/1", refs[0].AbsoluteURL)
}

// TestClassify_MaxResults verifies truncation keeps the first accepted links
// in scan order
func TestClassify_MaxResults(t *testing.T) {
	var candidates []HyperlinkCandidate
	for i := range 10 {
		candidates = append(candidates, HyperlinkCandidate{
			Href:       fmt.Sprintf("/article/%d", i),
			AnchorText: "headline",
		})
	}

	refs := Classify(candidates, "https://example.com", 3)

	require.Len(t, refs, 3)
	assert.Equal(t, "https://example.com/article/0", refs[0].AbsoluteURL)
	assert.Equal(t, "https://example.com/article/1", refs[1].AbsoluteURL)
	assert.Equal(t, "https://example.com/article/2", refs[2].AbsoluteURL)
}

// TestClassify_MaxResultsNeverExceeded verifies output length is bounded for
// a range of limits
func TestClassify_MaxResultsNeverExceeded(t *testing.T) {
	candidates := []HyperlinkCandidate{
		{Href: "/article/1", AnchorText: "one"},
		{Href: "/about", AnchorText: "About"},
		{Href: "/news/2", AnchorText: "two"},
		{Href: "mailto:x@example.com", AnchorText: "A perfectly reasonable headline length"},
		{Href: "https://example.com/2024/01/02/x", AnchorText: "three"},
	}

	for limit := -1; limit <= 6; limit++ {
		refs := Classify(candidates, "https://example.com", limit)
		assert.LessOrEqual(t, len(refs), max(limit, 0), "limit %d", limit)
	}
}

// TestClassify_PreservesOrder verifies accepted links keep their input order
func TestClassify_PreservesOrder(t *testing.T) {
	candidates := []HyperlinkCandidate{
		{Href: "https://b.example.com/post/1", AnchorText: "b"},
		{Href: "/home", AnchorText: "Home"},
		{Href: "/story/2", AnchorText: "a"},
	}

	refs := Classify(candidates, "https://a.example.com", 10)

	require.Len(t, refs, 2)
	assert.Equal(t, "https://b.example.com/post/1", refs[0].AbsoluteURL)
	assert.Equal(t, "https://a.example.com/story/2", refs[1].AbsoluteURL)
}

// TestResolveURL verifies the simple resolution rules
func TestResolveURL(t *testing.T) {
	tests := []struct {
		name     string
		href     string
		base     string
		expected string
		ok       bool
	}{
		{name: "root relative", href: "/a", base: "https://x.com", expected: "https://x.com/a", ok: true},
		{name: "base trailing slash", href: "/a", base: "https://x.com/", expected: "https://x.com/a", ok: true},
		{name: "base with path", href: "/a", base: "https://x.com/news/", expected: "https://x.com/news/a", ok: true},
		{name: "absolute", href: "http://y.com/b", base: "https://x.com", expected: "http://y.com/b", ok: true},
		{name: "absolute https", href: "https://y.com/b", base: "https://x.com", expected: "https://y.com/b", ok: true},
		{name: "scheme relative", href: "//cdn.com/a", base: "https://x.com", expected: "https://x.com//cdn.com/a", ok: true},
		{name: "relative", href: "a/b", base: "https://x.com", ok: false},
		{name: "fragment", href: "#a", base: "https://x.com", ok: false},
		{name: "mailto", href: "mailto:a@b.c", base: "https://x.com", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, ok := ResolveURL(tt.href, tt.base)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, resolved)
		})
	}
}

// TestScanLinks verifies anchors are collected in document order with
// trimmed text
func TestScanLinks(t *testing.T) {
	doc, err := ParseDocument(`<html><body>
		<a href="/one">  First link  </a>
		<a name="anchor-only">No href</a>
		<div><a href="https://example.com/two"><span>Second</span> link</a></div>
		<a href="">Empty</a>
	</body></html>`)
	require.NoError(t, err)

	candidates := ScanLinks(doc)

	require.Len(t, candidates, 3)
	assert.Equal(t, HyperlinkCandidate{Href: "/one", AnchorText: "First link"}, candidates[0])
	assert.Equal(t, HyperlinkCandidate{Href: "https://example.com/two", AnchorText: "Second link"}, candidates[1])
	assert.Equal(t, HyperlinkCandidate{Href: "", AnchorText: "Empty"}, candidates[2])
}

// TestScanLinks_NilDocument verifies a nil document yields no candidates
func TestScanLinks_NilDocument(t *testing.T) {
	assert.Empty(t, ScanLinks(nil))
}
