package config

import (
	"fmt"
	"time"

	"github.com/pevans/newsscrape/fetcher"
	"github.com/pevans/newsscrape/harvest"
	"github.com/pevans/newsscrape/scraper"
)

// Defaults for storage locations.
const (
	DefaultArchiveDSN = "articles.db"
	DefaultJSONPath   = "news_articles.json"
	DefaultCSVPath    = "news_articles.csv"
)

// Validate checks durations, sites and thresholds.
func (c *FileConfig) Validate() error {
	for name, value := range map[string]string{
		"fetch.timeout":    c.Fetch.Timeout,
		"harvest.delay":    c.Harvest.Delay,
		"harvest.interval": c.Harvest.Interval,
	} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s: must be a valid duration (e.g., 10s, 1h)", name)
		}
	}

	for i, site := range c.Sites {
		if site.URL == "" {
			return fmt.Errorf("invalid sites[%d]: url is required", i)
		}
	}

	if c.Classifier.MinAnchorLength < 0 || c.Classifier.MaxAnchorLength < 0 {
		return fmt.Errorf("invalid classifier: anchor lengths must not be negative")
	}
	maxAnchor := c.Classifier.MaxAnchorLength
	if maxAnchor == 0 {
		maxAnchor = scraper.DefaultMaxAnchorLength
	}
	if c.Classifier.MinAnchorLength >= maxAnchor {
		return fmt.Errorf("invalid classifier: min_anchor_length must be less than max_anchor_length")
	}
	if c.Extractor.MinContentLength < 0 || c.Extractor.ExcerptLength < 0 {
		return fmt.Errorf("invalid extractor: lengths must not be negative")
	}

	return nil
}

// FetcherConfig returns the fetch settings, using defaults for anything the
// file leaves unset. A nil receiver yields the defaults.
func (c *FileConfig) FetcherConfig() *fetcher.Config {
	cfg := fetcher.DefaultConfig()
	if c == nil {
		return cfg
	}

	if d, ok := parseDuration(c.Fetch.Timeout); ok {
		cfg.Timeout = d
	}
	if len(c.Fetch.UserAgents) > 0 {
		cfg.UserAgents = c.Fetch.UserAgents
	}
	if c.Fetch.AcceptLanguage != "" {
		cfg.AcceptLanguage = c.Fetch.AcceptLanguage
	}
	if c.Fetch.MaxResponseBytes > 0 {
		cfg.MaxResponseBytes = c.Fetch.MaxResponseBytes
	}

	return cfg
}

// HarvestConfig returns the harvester settings, using defaults for anything
// the file leaves unset. A nil receiver yields the defaults.
func (c *FileConfig) HarvestConfig() *harvest.Config {
	cfg := harvest.DefaultConfig()
	if c == nil {
		return cfg
	}

	if c.Harvest.MaxArticles > 0 {
		cfg.MaxArticles = c.Harvest.MaxArticles
	}
	if c.Harvest.MaxCandidates > 0 {
		cfg.MaxCandidates = c.Harvest.MaxCandidates
	}
	if c.Harvest.Concurrency > 0 {
		cfg.Concurrency = c.Harvest.Concurrency
	}
	if d, ok := parseDuration(c.Harvest.Delay); ok {
		cfg.Delay = d
	}
	if d, ok := parseDuration(c.Harvest.Interval); ok {
		cfg.Interval = d
	}

	if c.Classifier.MinAnchorLength > 0 {
		cfg.Classifier.MinAnchorLength = c.Classifier.MinAnchorLength
	}
	if c.Classifier.MaxAnchorLength > 0 {
		cfg.Classifier.MaxAnchorLength = c.Classifier.MaxAnchorLength
	}
	if c.Extractor.MinContentLength > 0 {
		cfg.Extractor.MinContentLength = c.Extractor.MinContentLength
	}
	if c.Extractor.ExcerptLength > 0 {
		cfg.Extractor.ExcerptLength = c.Extractor.ExcerptLength
	}

	return cfg
}

// HarvestSites returns the configured sites as harvest targets. Sites without a
// name are named after their URL.
func (c *FileConfig) HarvestSites() []harvest.Site {
	if c == nil {
		return nil
	}

	sites := make([]harvest.Site, 0, len(c.Sites))
	for _, s := range c.Sites {
		name := s.Name
		if name == "" {
			name = s.URL
		}
		sites = append(sites, harvest.Site{
			Name:        name,
			URL:         s.URL,
			FeedURL:     s.FeedURL,
			MaxArticles: s.MaxArticles,
		})
	}
	return sites
}

// ArchiveDSN returns the archive database path, or fallback if unset.
func (c *FileConfig) ArchiveDSN(fallback string) string {
	if c == nil || c.Storage.Archive.DSN == "" {
		return fallback
	}
	return c.Storage.Archive.DSN
}

// ExportPaths returns the JSON and CSV export paths, falling back to the
// defaults when unset.
func (c *FileConfig) ExportPaths() (jsonPath, csvPath string) {
	jsonPath, csvPath = DefaultJSONPath, DefaultCSVPath
	if c == nil {
		return jsonPath, csvPath
	}
	if c.Storage.Export.JSON != "" {
		jsonPath = c.Storage.Export.JSON
	}
	if c.Storage.Export.CSV != "" {
		csvPath = c.Storage.Export.CSV
	}
	return jsonPath, csvPath
}

func parseDuration(s string) (time.Duration, bool) {
	if s == "" {
		return 0, false
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, false
	}
	return d, true
}
