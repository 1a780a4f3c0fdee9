package scraper

import "regexp"

// DatePattern is a named date shape searched for in page text.
type DatePattern struct {
	Name    string
	Pattern *regexp.Regexp
}

// DefaultDatePatterns are tried in order; the first one found anywhere in
// the text wins. No check is made that the match is a real calendar date
// or that it belongs to the article rather than, say, a footer.
var DefaultDatePatterns = []DatePattern{
	{Name: "japanese", Pattern: regexp.MustCompile(`\p{Nd}{4}年\p{Nd}{1,2}月\p{Nd}{1,2}日`)},
	{Name: "iso", Pattern: regexp.MustCompile(`\p{Nd}{4}-\p{Nd}{1,2}-\p{Nd}{1,2}`)},
	{Name: "slash-year-first", Pattern: regexp.MustCompile(`\p{Nd}{4}/\p{Nd}{1,2}/\p{Nd}{1,2}`)},
	{Name: "slash-day-first", Pattern: regexp.MustCompile(`\p{Nd}{1,2}/\p{Nd}{1,2}/\p{Nd}{4}`)},
}

// FindDate returns the first match of the first pattern that matches text.
func FindDate(text string, patterns []DatePattern) (string, bool) {
	for _, p := range patterns {
		if match := p.Pattern.FindString(text); match != "" {
			return match, true
		}
	}
	return "", false
}
