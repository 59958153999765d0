package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/five82/quoted/internal/quote"
)

// Fetcher is the read side used by the sync engine.
type Fetcher interface {
	FetchBatch(ctx context.Context) ([]quote.Quote, error)
}

// Pusher is the best-effort write side used after a user adds a quote.
type Pusher interface {
	Push(ctx context.Context, q quote.Quote) error
}

// Ensure Client implements both sides at compile time.
var (
	_ Fetcher = (*Client)(nil)
	_ Pusher  = (*Client)(nil)
)

// Client talks to the remote quote source over HTTP.
type Client struct {
	endpoint  *url.URL
	http      *http.Client
	userAgent string
	batchSize int
	category  string
}

const (
	DefaultEndpoint  = "https://jsonplaceholder.typicode.com/posts"
	DefaultBatchSize = 5
	DefaultCategory  = "Server"
	defaultUserAgent = "quoted/0.1"
	requestTimeout   = 5 * time.Second
	maxBodyBytes     = 4 << 20
)

// Option configures a Client.
type Option func(*Client)

// WithBatchSize bounds how many remote records one fetch maps.
func WithBatchSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithCategory sets the category stamped on every fetched quote.
func WithCategory(category string) Option {
	return func(c *Client) {
		if s := strings.TrimSpace(category); s != "" {
			c.category = s
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a Client for endpoint. An empty endpoint uses DefaultEndpoint.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	u, err := parseEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	c := &Client{
		endpoint:  u,
		http:      &http.Client{Timeout: requestTimeout},
		userAgent: defaultUserAgent,
		batchSize: DefaultBatchSize,
		category:  DefaultCategory,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the resolved endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// FetchBatch performs one round trip and maps the first batch of posts into
// quotes under the fixed category. Network and HTTP status failures wrap
// quote.ErrTransport; payloads that are not a JSON array of posts wrap
// quote.ErrFormat. Posts with a blank title are skipped.
func (c *Client) FetchBatch(ctx context.Context) ([]quote.Quote, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint.String(), nil)
	if err != nil {
		return nil, goerr.Wrap(quote.ErrTransport, "failed to create request", goerr.V("cause", err.Error()))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, goerr.Wrap(quote.ErrTransport, "failed to execute request",
			goerr.V("url", c.endpoint.String()), goerr.V("cause", err.Error()))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, goerr.Wrap(quote.ErrTransport, fmt.Sprintf("remote returned status %d", resp.StatusCode),
			goerr.V("url", c.endpoint.String()))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, goerr.Wrap(quote.ErrTransport, "failed to read response", goerr.V("cause", err.Error()))
	}

	var posts []Post
	if err := json.Unmarshal(body, &posts); err != nil {
		return nil, goerr.Wrap(quote.ErrFormat, "failed to decode response", goerr.V("cause", err.Error()))
	}
	if posts == nil {
		return nil, goerr.Wrap(quote.ErrFormat, "response is not a list", goerr.V("url", c.endpoint.String()))
	}
	return c.toQuotes(posts), nil
}

func (c *Client) toQuotes(posts []Post) []quote.Quote {
	if len(posts) > c.batchSize {
		posts = posts[:c.batchSize]
	}
	quotes := make([]quote.Quote, 0, len(posts))
	for _, p := range posts {
		q, err := quote.New(p.Title, c.category)
		if err != nil {
			continue
		}
		quotes = append(quotes, q)
	}
	return quotes
}

// Push sends q to the remote endpoint. The response body is discarded.
func (c *Client) Push(ctx context.Context, q quote.Quote) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	payload, err := json.Marshal(pushPayload{Text: q.Text, Category: q.Category, Title: q.Text, Body: q.Category})
	if err != nil {
		return fmt.Errorf("encode push: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return goerr.Wrap(quote.ErrTransport, "failed to create request", goerr.V("cause", err.Error()))
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return goerr.Wrap(quote.ErrTransport, "failed to execute request", goerr.V("cause", err.Error()))
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode >= 400 {
		return goerr.Wrap(quote.ErrTransport, fmt.Sprintf("remote returned status %d", resp.StatusCode))
	}
	return nil
}

func parseEndpoint(endpoint string) (*url.URL, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		trimmed = DefaultEndpoint
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse remote url %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse remote url %q: missing host", endpoint)
	}
	u.Fragment = ""
	return u, nil
}
