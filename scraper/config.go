package scraper

import "time"

// Default thresholds for the classifier and extractor.
const (
	// DefaultMinAnchorLength and DefaultMaxAnchorLength bound (exclusively)
	// the anchor text length that makes a link look like a headline.
	DefaultMinAnchorLength = 20
	DefaultMaxAnchorLength = 200

	// DefaultMinContentLength is the length a content block must exceed to
	// be used as the article body.
	DefaultMinContentLength = 100

	// DefaultExcerptLength caps the content excerpt, not counting the
	// truncation marker.
	DefaultExcerptLength = 200
)

// Placeholder values substituted when a field cannot be extracted.
const (
	PlaceholderTitle   = "title unavailable"
	PlaceholderDate    = "date unknown"
	PlaceholderContent = "no content"

	// TruncationMarker is appended to an excerpt that was cut short.
	TruncationMarker = "..."
)

// ClassifierConfig controls how hyperlinks on a listing page are judged.
type ClassifierConfig struct {
	PathPatterns    []PathPattern
	MinAnchorLength int
	MaxAnchorLength int
}

// NewClassifierConfig creates a classifier configuration with default
// values.
func NewClassifierConfig() *ClassifierConfig {
	return &ClassifierConfig{
		PathPatterns:    DefaultPathPatterns,
		MinAnchorLength: DefaultMinAnchorLength,
		MaxAnchorLength: DefaultMaxAnchorLength,
	}
}

// ExtractorConfig controls how fields are pulled out of an article page.
type ExtractorConfig struct {
	DatePatterns     []DatePattern
	ContentSelectors []ContentSelector
	MinContentLength int
	ExcerptLength    int

	// Now supplies the extraction timestamp. Defaults to time.Now.
	Now func() time.Time
}

// NewExtractorConfig creates an extractor configuration with default
// values.
func NewExtractorConfig() *ExtractorConfig {
	return &ExtractorConfig{
		DatePatterns:     DefaultDatePatterns,
		ContentSelectors: DefaultContentSelectors,
		MinContentLength: DefaultMinContentLength,
		ExcerptLength:    DefaultExcerptLength,
		Now:              time.Now,
	}
}
