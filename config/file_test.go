package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: write config content under a temporary HOME
func createTestHome(t *testing.T, content string) string {
	tmpDir := t.TempDir()

	if content != "" {
		configDir := filepath.Join(tmpDir, ".newsscrape")
		require.NoError(t, os.MkdirAll(configDir, 0o700))
		configPath := filepath.Join(configDir, "config.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	}

	t.Setenv("HOME", tmpDir)
	return tmpDir
}

func TestLoadConfigFile_NoFile(t *testing.T) {
	createTestHome(t, "")

	cfg, err := LoadConfigFile()
	require.NoError(t, err)
	assert.Nil(t, cfg, "Should return nil when config file doesn't exist")
}

func TestLoadConfigFile_ValidConfig(t *testing.T) {
	createTestHome(t, `sites:
  - name: "Example News"
    url: "https://news.example.com/"
    max_articles: 5
  - url: "https://blog.example.com/"
    feed_url: "https://blog.example.com/feed.xml"
fetch:
  timeout: "20s"
  accept_language: "en-US,en;q=0.9"
harvest:
  concurrency: 2
  delay: "500ms"
storage:
  archive:
    dsn: "/path/to/articles.db"
  export:
    json: "/tmp/out.json"
`)

	cfg, err := LoadConfigFile()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	require.Len(t, cfg.Sites, 2)
	assert.Equal(t, "Example News", cfg.Sites[0].Name)
	assert.Equal(t, 5, cfg.Sites[0].MaxArticles)
	assert.Equal(t, "https://blog.example.com/feed.xml", cfg.Sites[1].FeedURL)
	assert.Equal(t, "20s", cfg.Fetch.Timeout)
	assert.Equal(t, 2, cfg.Harvest.Concurrency)
	assert.Equal(t, "/path/to/articles.db", cfg.Storage.Archive.DSN)
	assert.Equal(t, "/tmp/out.json", cfg.Storage.Export.JSON)
}

func TestLoadConfigFile_InvalidYAML(t *testing.T) {
	createTestHome(t, `sites:
  name: "this is invalid because sites should be a list"
`)

	cfg, err := LoadConfigFile()
	assert.Error(t, err, "Should return error for invalid YAML")
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfigFile_InvalidDuration(t *testing.T) {
	createTestHome(t, `harvest:
  interval: "hourly"
`)

	cfg, err := LoadConfigFile()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "harvest.interval")
}

func TestLoadConfigFile_SiteWithoutURL(t *testing.T) {
	createTestHome(t, `sites:
  - name: "Nowhere"
`)

	_, err := LoadConfigFile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sites[0]")
}

func TestLoadConfigFileFrom_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sites:\n  - url: \"https://example.com\"\n"), 0o600))

	cfg, err := LoadConfigFileFrom(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "https://example.com", cfg.Sites[0].URL)
}

func TestDefaultConfigPath(t *testing.T) {
	home := createTestHome(t, "")

	path, err := DefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".newsscrape", "config.yaml"), path)
}
