package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SiteConfig is one listing page to harvest.
type SiteConfig struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	FeedURL     string `yaml:"feed_url"`
	MaxArticles int    `yaml:"max_articles"`
}

// FetchConfig holds HTTP request settings.
type FetchConfig struct {
	Timeout          string   `yaml:"timeout"`
	UserAgents       []string `yaml:"user_agents"`
	AcceptLanguage   string   `yaml:"accept_language"`
	MaxResponseBytes int64    `yaml:"max_response_bytes"`
}

// HarvestConfig holds pipeline limits and pacing.
type HarvestConfig struct {
	MaxArticles   int    `yaml:"max_articles"`
	MaxCandidates int    `yaml:"max_candidates"`
	Concurrency   int    `yaml:"concurrency"`
	Delay         string `yaml:"delay"`
	Interval      string `yaml:"interval"`
}

// ClassifierConfig holds the link classifier thresholds.
type ClassifierConfig struct {
	MinAnchorLength int `yaml:"min_anchor_length"`
	MaxAnchorLength int `yaml:"max_anchor_length"`
}

// ExtractorConfig holds the article extractor thresholds.
type ExtractorConfig struct {
	MinContentLength int `yaml:"min_content_length"`
	ExcerptLength    int `yaml:"excerpt_length"`
}

// StorageConfig says where records are kept.
type StorageConfig struct {
	Archive struct {
		DSN string `yaml:"dsn"`
	} `yaml:"archive"`
	Export struct {
		JSON string `yaml:"json"`
		CSV  string `yaml:"csv"`
	} `yaml:"export"`
}

// FileConfig represents the structure of ~/.newsscrape/config.yaml.
type FileConfig struct {
	Sites      []SiteConfig     `yaml:"sites"`
	Fetch      FetchConfig      `yaml:"fetch"`
	Harvest    HarvestConfig    `yaml:"harvest"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Extractor  ExtractorConfig  `yaml:"extractor"`
	Storage    StorageConfig    `yaml:"storage"`
}

// DefaultConfigPath returns ~/.newsscrape/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".newsscrape", "config.yaml"), nil
}

// LoadConfigFile loads configuration from ~/.newsscrape/config.yaml. Returns
// nil if the file doesn't exist (not an error). Returns error if the file
// exists but cannot be parsed.
func LoadConfigFile() (*FileConfig, error) {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFileFrom(configPath)
}

// LoadConfigFileFrom loads configuration from path, with the same
// missing-file behavior as LoadConfigFile.
func LoadConfigFileFrom(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil // File doesn't exist -- not an error
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
