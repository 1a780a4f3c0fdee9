package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// Errors returned by Fetch for responses that cannot be used.
var (
	ErrUnsupportedScheme      = errors.New("unsupported URL scheme")
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrResponseTooLarge       = errors.New("response body exceeds maximum allowed size")
)

// DefaultUserAgent identifies newsscrape when no user agents are configured.
const DefaultUserAgent = "newsscrape/1.0 (news article extractor)"

// Config holds the request settings for a Fetcher. Nothing here is global;
// two fetchers can use entirely different headers.
type Config struct {
	Timeout time.Duration
	// UserAgents are used in rotation, one per request.
	UserAgents     []string
	Accept         string
	AcceptLanguage string
	// MaxResponseBytes caps the body size. Zero means unlimited.
	MaxResponseBytes int64
}

// DefaultConfig returns the default fetch configuration.
func DefaultConfig() *Config {
	return &Config{
		Timeout:          15 * time.Second,
		UserAgents:       []string{DefaultUserAgent},
		Accept:           "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		AcceptLanguage:   "ja,en-US;q=0.7,en;q=0.3",
		MaxResponseBytes: 16 * 1024 * 1024,
	}
}

// Fetcher retrieves HTML pages and decodes them to UTF-8 text.
type Fetcher struct {
	client *http.Client
	config *Config
	next   atomic.Uint64
}

// New creates a fetcher with its own HTTP client. A nil config uses the
// defaults.
func New(config *Config) *Fetcher {
	if config == nil {
		config = DefaultConfig()
	}
	return NewWithClient(&http.Client{Timeout: config.Timeout}, config)
}

// NewWithClient creates a fetcher that sends requests through client.
func NewWithClient(client *http.Client, config *Config) *Fetcher {
	if config == nil {
		config = DefaultConfig()
	}
	return &Fetcher{
		client: client,
		config: config,
	}
}

// Fetch downloads url and returns its body as text decoded from the
// response's best-guess encoding.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	return f.get(ctx, rawURL, f.config.Accept, isHTMLContentType)
}

// FetchFeed downloads an RSS or Atom feed with the same client, headers and
// size limit as Fetch. XML content types are accepted in addition to HTML.
func (f *Fetcher) FetchFeed(ctx context.Context, rawURL string) (string, error) {
	return f.get(ctx, rawURL, feedAccept, isFeedContentType)
}

// get performs a GET request and returns the decoded body if its content
// type passes accepted.
func (f *Fetcher) get(ctx context.Context, rawURL, accept string, accepted func(string) bool) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, parsed.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent())
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if f.config.AcceptLanguage != "" {
		req.Header.Set("Accept-Language", f.config.AcceptLanguage)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP error: %s", resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if !accepted(contentType) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedContentType, contentType)
	}

	body, err := readLimited(resp.Body, f.config.MaxResponseBytes)
	if err != nil {
		return "", err
	}

	text, err := decode(body, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to decode body: %w", err)
	}

	return text, nil
}

// FetchDocument fetches url and parses it into a goquery document.
func (f *Fetcher) FetchDocument(ctx context.Context, rawURL string) (*goquery.Document, error) {
	text, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return doc, nil
}

// userAgent returns the next user agent in rotation.
func (f *Fetcher) userAgent() string {
	agents := f.config.UserAgents
	if len(agents) == 0 {
		return DefaultUserAgent
	}
	i := f.next.Add(1) - 1
	return agents[i%uint64(len(agents))]
}

// isHTMLContentType accepts text/html and application/xhtml+xml. A missing
// header is allowed; the body is sniffed instead.
func isHTMLContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if ct == "" {
		return true
	}
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}

const feedAccept = "application/rss+xml,application/atom+xml,application/xml;q=0.9,text/xml;q=0.9,*/*;q=0.8"

// isFeedContentType accepts XML and feed types, plus anything HTML accepts.
// Some servers send feeds as text/html or text/plain.
func isFeedContentType(ct string) bool {
	if isHTMLContentType(ct) {
		return true
	}
	ct = strings.ToLower(strings.TrimSpace(ct))
	return strings.Contains(ct, "xml") || strings.HasPrefix(ct, "text/plain")
}

// readLimited reads r fully, failing if it holds more than limit bytes.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read body: %w", err)
		}
		return data, nil
	}

	// Read one extra byte to detect overflow.
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w (%d bytes)", ErrResponseTooLarge, limit)
	}
	return data, nil
}

// decode converts body to UTF-8 using the Content-Type charset, a <meta>
// declaration, or content sniffing, in that order.
func decode(body []byte, contentType string) (string, error) {
	enc, _, _ := charset.DetermineEncoding(body, contentType)

	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(body), enc.NewDecoder()))
	if err != nil {
		return "", err
	}

	return string(decoded), nil
}
