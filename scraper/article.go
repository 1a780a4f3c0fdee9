package scraper

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ArticleRecord is the structured result of extracting one article page.
// Every field is always set; missing values are replaced by placeholders so
// the record shape never changes.
type ArticleRecord struct {
	URL             string `json:"url"`
	Title           string `json:"title"`
	PrimaryHeading  string `json:"primaryHeading"`
	Description     string `json:"description"`
	PublishDateText string `json:"publishDateText"`
	ContentExcerpt  string `json:"contentExcerpt"`
	ExtractedAt     string `json:"extractedAt"`
}

// fieldResult is the outcome of extracting a single field.
type fieldResult struct {
	value string
	found bool
}

func found(value string) fieldResult { return fieldResult{value: value, found: true} }

var missing = fieldResult{}

// or returns the extracted value, or placeholder when nothing was found.
func (r fieldResult) or(placeholder string) string {
	if !r.found {
		return placeholder
	}
	return r.value
}

// Extractor pulls an ArticleRecord out of an article page.
type Extractor struct {
	config *ExtractorConfig
}

// NewExtractor creates an extractor. A nil config uses the defaults.
func NewExtractor(config *ExtractorConfig) *Extractor {
	if config == nil {
		config = NewExtractorConfig()
	}
	cfg := *config
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Extractor{config: &cfg}
}

// Extract builds a record for the page at url. Each field is extracted on
// its own, so a miss in one never affects another.
func (e *Extractor) Extract(doc *goquery.Document, url string) ArticleRecord {
	if doc == nil {
		return ArticleRecord{
			URL:             url,
			Title:           PlaceholderTitle,
			PublishDateText: PlaceholderDate,
			ContentExcerpt:  PlaceholderContent,
			ExtractedAt:     e.timestamp(),
		}
	}

	return ArticleRecord{
		URL:             url,
		Title:           e.title(doc).or(PlaceholderTitle),
		PrimaryHeading:  e.primaryHeading(doc).or(""),
		Description:     e.description(doc).or(""),
		PublishDateText: e.publishDate(doc).or(PlaceholderDate),
		ContentExcerpt:  e.contentExcerpt(doc).or(PlaceholderContent),
		ExtractedAt:     e.timestamp(),
	}
}

// Extract runs a default extractor over doc.
func Extract(doc *goquery.Document, url string) ArticleRecord {
	return NewExtractor(nil).Extract(doc, url)
}

func (e *Extractor) title(doc *goquery.Document) fieldResult {
	return firstText(doc, "title")
}

func (e *Extractor) primaryHeading(doc *goquery.Document) fieldResult {
	return firstText(doc, "h1")
}

func (e *Extractor) description(doc *goquery.Document) fieldResult {
	content, ok := doc.Find(`meta[name="description"]`).First().Attr("content")
	if !ok {
		return missing
	}
	return found(content)
}

func (e *Extractor) publishDate(doc *goquery.Document) fieldResult {
	date, ok := FindDate(VisibleText(doc.Selection), e.config.DatePatterns)
	if !ok {
		return missing
	}
	return found(date)
}

func (e *Extractor) contentExcerpt(doc *goquery.Document) fieldResult {
	text, ok := FindContent(doc, e.config.ContentSelectors, e.config.MinContentLength)
	if !ok {
		return missing
	}
	return found(Truncate(text, e.config.ExcerptLength, TruncationMarker))
}

// timestamp is always UTC; the archive orders records by it as text.
func (e *Extractor) timestamp() string {
	return e.config.Now().UTC().Format(time.RFC3339)
}

// firstText returns the trimmed text of the first element matching selector.
func firstText(doc *goquery.Document, selector string) fieldResult {
	s := doc.Find(selector).First()
	if s.Length() == 0 {
		return missing
	}
	return found(strings.TrimSpace(s.Text()))
}
