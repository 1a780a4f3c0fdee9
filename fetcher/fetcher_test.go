package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

// Test helper: create a server that answers every request with body
func createTestServer(t *testing.T, contentType, body string) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

// TestFetch_Success verifies a plain UTF-8 page is returned as text
func TestFetch_Success(t *testing.T) {
	server := createTestServer(t, "text/html; charset=utf-8", "<html><title>ok</title></html>")

	text, err := New(nil).Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "<html><title>ok</title></html>", text)
}

// TestFetch_ShiftJIS verifies bodies are decoded using the declared charset
func TestFetch_ShiftJIS(t *testing.T) {
	encoded, err := japanese.ShiftJIS.NewEncoder().String("<html><body>日本語の記事</body></html>")
	require.NoError(t, err)
	server := createTestServer(t, "text/html; charset=Shift_JIS", encoded)

	text, err := New(nil).Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Contains(t, text, "日本語の記事")
}

// TestFetch_MetaCharset verifies a <meta charset> declaration is honored when
// the header has none
func TestFetch_MetaCharset(t *testing.T) {
	encoded, err := japanese.EUCJP.NewEncoder().String(`<html><head><meta charset="euc-jp"></head><body>ニュース</body></html>`)
	require.NoError(t, err)
	server := createTestServer(t, "text/html", encoded)

	text, err := New(nil).Fetch(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Contains(t, text, "ニュース")
}

// TestFetch_HTTPError verifies non-2xx responses fail
func TestFetch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := New(nil).Fetch(context.Background(), server.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

// TestFetch_NonHTML verifies non-HTML content types are rejected
func TestFetch_NonHTML(t *testing.T) {
	server := createTestServer(t, "application/json", `{"a":1}`)

	_, err := New(nil).Fetch(context.Background(), server.URL)

	assert.ErrorIs(t, err, ErrUnsupportedContentType)
}

// TestFetch_TooLarge verifies the response size limit
func TestFetch_TooLarge(t *testing.T) {
	server := createTestServer(t, "text/html", strings.Repeat("a", 100))

	config := DefaultConfig()
	config.MaxResponseBytes = 50
	_, err := New(config).Fetch(context.Background(), server.URL)

	assert.ErrorIs(t, err, ErrResponseTooLarge)
}

// TestFetch_UnsupportedScheme verifies non-HTTP URLs are rejected before any
// request is made
func TestFetch_UnsupportedScheme(t *testing.T) {
	_, err := New(nil).Fetch(context.Background(), "ftp://example.com/file")

	assert.ErrorIs(t, err, ErrUnsupportedScheme)
}

// TestFetch_Headers verifies configured headers and user agent rotation
func TestFetch_Headers(t *testing.T) {
	var mu sync.Mutex
	var agents []string
	var languages []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		agents = append(agents, r.Header.Get("User-Agent"))
		languages = append(languages, r.Header.Get("Accept-Language"))
		mu.Unlock()
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	config := DefaultConfig()
	config.UserAgents = []string{"agent-a", "agent-b"}
	config.AcceptLanguage = "en"
	f := New(config)

	for range 3 {
		_, err := f.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"agent-a", "agent-b", "agent-a"}, agents)
	assert.Equal(t, []string{"en", "en", "en"}, languages)
}

// TestFetchFeed_ContentTypes verifies feed types are accepted while binary
// types are still rejected
func TestFetchFeed_ContentTypes(t *testing.T) {
	accepted := []string{"application/rss+xml", "application/atom+xml; charset=utf-8", "text/xml", "application/xml", "text/html"}
	for _, ct := range accepted {
		t.Run(ct, func(t *testing.T) {
			server := createTestServer(t, ct, `<rss version="2.0"></rss>`)

			text, err := New(nil).FetchFeed(context.Background(), server.URL)

			require.NoError(t, err)
			assert.Equal(t, `<rss version="2.0"></rss>`, text)
		})
	}

	server := createTestServer(t, "image/png", "png")
	_, err := New(nil).FetchFeed(context.Background(), server.URL)
	assert.ErrorIs(t, err, ErrUnsupportedContentType)
}

// TestFetchFeed_UsesConfig verifies feeds share the user agent rotation and
// size limit of page fetches
func TestFetchFeed_UsesConfig(t *testing.T) {
	var mu sync.Mutex
	var agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		agent = r.Header.Get("User-Agent")
		mu.Unlock()
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer server.Close()

	config := DefaultConfig()
	config.UserAgents = []string{"feed-agent"}
	config.MaxResponseBytes = 50

	_, err := New(config).FetchFeed(context.Background(), server.URL)

	assert.ErrorIs(t, err, ErrResponseTooLarge)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "feed-agent", agent)
}

// TestFetchDocument verifies the parsed document is returned
func TestFetchDocument(t *testing.T) {
	server := createTestServer(t, "text/html", "<html><head><title>Doc</title></head></html>")

	doc, err := New(nil).FetchDocument(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "Doc", doc.Find("title").Text())
}

// TestFetch_ContextCancelled verifies a cancelled context aborts the request
func TestFetch_ContextCancelled(t *testing.T) {
	server := createTestServer(t, "text/html", "<html></html>")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil).Fetch(ctx, server.URL)

	assert.ErrorIs(t, err, context.Canceled)
}
