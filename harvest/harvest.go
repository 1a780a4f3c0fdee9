package harvest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/pevans/newsscrape/archive"
	"github.com/pevans/newsscrape/scraper"
	"github.com/rs/zerolog/log"
)

// Fetcher retrieves a page as decoded HTML text. An error means the page is
// unavailable and its candidate is skipped.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FeedFetcher is implemented by fetchers that treat feed documents
// differently from pages. Other fetchers get feed URLs through Fetch.
type FeedFetcher interface {
	FetchFeed(ctx context.Context, url string) (string, error)
}

// Store is where harvested records are archived. It is also consulted to
// skip URLs that were archived by an earlier run.
type Store interface {
	URLExists(url string) (bool, error)
	Add(record scraper.ArticleRecord) (*archive.StoredArticle, error)
}

// Site is a listing page to harvest articles from.
type Site struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	// FeedURL, when set, supplies candidates from an RSS or Atom feed
	// instead of scanning the listing page's anchors.
	FeedURL string `json:"feed_url,omitempty"`
	// MaxArticles overrides Config.MaxArticles when positive.
	MaxArticles int `json:"max_articles,omitempty"`
}

// Config holds configuration for a Harvester.
type Config struct {
	// Maximum number of records produced per site
	MaxArticles int
	// Maximum number of classified candidates considered per site
	MaxCandidates int
	// Maximum number of sites harvested in parallel
	Concurrency int
	// Pause between article fetches on the same site
	Delay time.Duration
	// Time between sync passes in Run
	Interval time.Duration

	Classifier *scraper.ClassifierConfig
	Extractor  *scraper.ExtractorConfig
}

// DefaultConfig returns the default harvest configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxArticles:   10,
		MaxCandidates: 100,
		Concurrency:   3,
		Delay:         1 * time.Second,
		Interval:      1 * time.Hour,
		Classifier:    scraper.NewClassifierConfig(),
		Extractor:     scraper.NewExtractorConfig(),
	}
}

// ArticleError records a candidate that produced no record.
type ArticleError struct {
	URL string
	Err error
}

func (e *ArticleError) Error() string {
	return fmt.Sprintf("%s: %v", e.URL, e.Err)
}

// SiteResult is the outcome of harvesting one site.
type SiteResult struct {
	Site       Site
	Records    []scraper.ArticleRecord
	Candidates int
	Skipped    int
	Errors     []ArticleError
}

// SyncError records a site whose listing could not be harvested.
type SyncError struct {
	Site Site
	Err  error
}

// SyncResult summarizes a pass over several sites.
type SyncResult struct {
	Sites             []SiteResult
	SitesSynced       int
	SitesFailed       int
	ArticlesExtracted int
	Errors            []SyncError
}

// Records returns every record from the pass in site order.
func (r *SyncResult) Records() []scraper.ArticleRecord {
	records := []scraper.ArticleRecord{}
	for _, s := range r.Sites {
		records = append(records, s.Records...)
	}
	return records
}

// Harvester drives the listing → classify → fetch → extract pipeline.
type Harvester struct {
	fetcher    Fetcher
	store      Store
	config     *Config
	classifier *scraper.Classifier
	extractor  *scraper.Extractor

	stopChan chan struct{}
	stopOnce sync.Once
}

// New creates a harvester. store may be nil, in which case nothing is
// archived and no cross-run deduplication happens.
func New(fetcher Fetcher, store Store, config *Config) *Harvester {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}

	return &Harvester{
		fetcher:    fetcher,
		store:      store,
		config:     &cfg,
		classifier: scraper.NewClassifier(cfg.Classifier),
		extractor:  scraper.NewExtractor(cfg.Extractor),
		stopChan:   make(chan struct{}),
	}
}

// HarvestSite collects up to MaxArticles records from a single site. An
// error is returned only when the listing itself cannot be retrieved;
// failures on individual articles are collected in the result.
func (h *Harvester) HarvestSite(ctx context.Context, site Site) (*SiteResult, error) {
	candidates, err := h.candidates(ctx, site)
	if err != nil {
		return nil, err
	}

	refs := h.classifier.Classify(candidates, site.URL, h.config.MaxCandidates)

	maxArticles := h.config.MaxArticles
	if site.MaxArticles > 0 {
		maxArticles = site.MaxArticles
	}

	result := &SiteResult{
		Site:       site,
		Records:    []scraper.ArticleRecord{},
		Candidates: len(refs),
	}

	seen := make(map[string]bool)
	fetched := 0
	for _, ref := range refs {
		if len(result.Records) >= maxArticles {
			break
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		url := ref.AbsoluteURL
		if seen[url] {
			continue
		}
		seen[url] = true

		if h.store != nil {
			exists, err := h.store.URLExists(url)
			if err != nil {
				log.Warn().Err(err).Str("url", url).Msg("failed to check archive")
			} else if exists {
				result.Skipped++
				continue
			}
		}

		if fetched > 0 {
			if err := h.sleep(ctx); err != nil {
				return result, err
			}
		}
		fetched++

		record, err := h.harvestArticle(ctx, url)
		if err != nil {
			log.Warn().Err(err).Str("site", site.Name).Str("url", url).Msg("skipping article")
			result.Errors = append(result.Errors, ArticleError{URL: url, Err: err})
			continue
		}

		if h.store != nil {
			if _, err := h.store.Add(record); err != nil {
				if errors.Is(err, archive.ErrDuplicateURL) {
					result.Skipped++
					continue
				}
				log.Warn().Err(err).Str("url", url).Msg("failed to archive article")
			}
		}

		result.Records = append(result.Records, record)
	}

	log.Info().
		Str("site", site.Name).
		Int("candidates", result.Candidates).
		Int("records", len(result.Records)).
		Int("skipped", result.Skipped).
		Int("failed", len(result.Errors)).
		Msg("harvested site")

	return result, nil
}

// candidates returns the hyperlinks to classify for a site, either from its
// feed or from the anchors on its listing page.
func (h *Harvester) candidates(ctx context.Context, site Site) ([]scraper.HyperlinkCandidate, error) {
	if site.FeedURL != "" {
		text, err := h.fetchFeed(ctx, site.FeedURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch feed: %w", err)
		}
		// Parsers keep per-document state, so each feed gets its own.
		feed, err := gofeed.NewParser().ParseString(text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse feed: %w", err)
		}
		return FeedCandidates(feed), nil
	}

	text, err := h.fetcher.Fetch(ctx, site.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}

	doc, err := scraper.ParseDocument(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing: %w", err)
	}

	return scraper.ScanLinks(doc), nil
}

func (h *Harvester) fetchFeed(ctx context.Context, url string) (string, error) {
	if ff, ok := h.fetcher.(FeedFetcher); ok {
		return ff.FetchFeed(ctx, url)
	}
	return h.fetcher.Fetch(ctx, url)
}

// harvestArticle fetches one article page and extracts its record.
func (h *Harvester) harvestArticle(ctx context.Context, url string) (scraper.ArticleRecord, error) {
	text, err := h.fetcher.Fetch(ctx, url)
	if err != nil {
		return scraper.ArticleRecord{}, err
	}

	doc, err := scraper.ParseDocument(text)
	if err != nil {
		return scraper.ArticleRecord{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return h.extractor.Extract(doc, url), nil
}

// sleep waits out the configured delay between article fetches.
func (h *Harvester) sleep(ctx context.Context) error {
	if h.config.Delay <= 0 {
		return nil
	}

	timer := time.NewTimer(h.config.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// FeedCandidates converts feed items into hyperlink candidates, using each
// item's link as the href and its title as the anchor text.
func FeedCandidates(feed *gofeed.Feed) []scraper.HyperlinkCandidate {
	candidates := []scraper.HyperlinkCandidate{}
	if feed == nil {
		return candidates
	}

	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		candidates = append(candidates, scraper.HyperlinkCandidate{
			Href:       strings.TrimSpace(item.Link),
			AnchorText: strings.TrimSpace(item.Title),
		})
	}

	return candidates
}
