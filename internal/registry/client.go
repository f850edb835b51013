// Package registry fetches provider and client metadata from the DataCite
// registry API, with paginated listing, client-side rate limiting, and an
// optional SQLite-backed snapshot cache.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the public DataCite registry API.
const DefaultBaseURL = "https://api.datacite.org"

// defaultPageSize is the page[size] used for listing endpoints.
const defaultPageSize = 1000

// Client is a high-level client for the registry API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *Cache
	logger     *slog.Logger
}

// Option configures the Client during construction.
type Option func(*clientConfig) error

type clientConfig struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *Cache
	logger     *slog.Logger
	timeout    time.Duration
}

// New creates a Client for the registry at baseURL. An empty baseURL
// selects the public API.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	cfg := &clientConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.timeout > 0 {
		httpClient.Timeout = cfg.timeout
	}

	limiter := cfg.limiter
	if limiter == nil {
		// Stay well under the public API's courtesy limits.
		limiter = rate.NewLimiter(rate.Limit(5), 1)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    limiter,
		cache:      cfg.cache,
		logger:     logger,
	}, nil
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *clientConfig) error {
		cfg.httpClient = c
		return nil
	}
}

// WithLogger configures structured logging.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *clientConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithTimeout sets a timeout on the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) error {
		cfg.timeout = d
		return nil
	}
}

// WithCache attaches a snapshot cache. Listing calls return the cached
// snapshot when one exists instead of hitting the API.
func WithCache(c *Cache) Option {
	return func(cfg *clientConfig) error {
		cfg.cache = c
		return nil
	}
}

// WithRateLimit overrides the default request rate limit.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(cfg *clientConfig) error {
		cfg.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		return nil
	}
}

// ListProviders returns every provider known to the registry.
func (c *Client) ListProviders(ctx context.Context) ([]Entity, error) {
	return c.list(ctx, "providers")
}

// ListClients returns every client (repository) known to the registry.
func (c *Client) ListClients(ctx context.Context) ([]Entity, error) {
	return c.list(ctx, "clients")
}

// list returns the cached snapshot for endpoint when available, otherwise
// fetches all pages and stores the result in the cache.
func (c *Client) list(ctx context.Context, endpoint string) ([]Entity, error) {
	if c.cache != nil {
		items, ok, err := c.cache.Load(endpoint)
		if err != nil {
			c.logger.Warn("cache read failed", "endpoint", endpoint, "error", err)
		} else if ok {
			c.logger.Info("loaded cached registry snapshot",
				"endpoint", endpoint, "items", len(items))
			return items, nil
		}
	}

	items, err := c.fetchAllPages(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Save(endpoint, items); err != nil {
			c.logger.Warn("cache write failed", "endpoint", endpoint, "error", err)
		}
	}
	return items, nil
}

func (c *Client) fetchAllPages(ctx context.Context, endpoint string) ([]Entity, error) {
	var items []Entity
	pageNum, totalPages := 1, 1

	for pageNum <= totalPages {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("list %s: %w", endpoint, err)
		}

		q := url.Values{}
		q.Set("page[size]", strconv.Itoa(defaultPageSize))
		q.Set("page[number]", strconv.Itoa(pageNum))
		q.Set("include", "prefixes")
		u := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, q.Encode())

		var p page
		if err := c.doJSON(ctx, u, "list "+endpoint, &p); err != nil {
			return nil, err
		}
		for _, r := range p.Data {
			items = append(items, r.entity())
		}
		if p.Meta.TotalPages > 0 {
			totalPages = p.Meta.TotalPages
		}
		c.logger.Info("fetched registry page",
			"endpoint", endpoint, "page", pageNum, "total_pages", totalPages,
			"items", len(items), "total", p.Meta.Total)
		pageNum++
	}
	return items, nil
}

// doJSON executes a GET request and decodes the JSON response into dst.
// If the response has an error status, it returns an *APIError.
func (c *Client) doJSON(ctx context.Context, url, operation string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", operation, err)
	}
	req.Header.Set("Accept", "application/vnd.api+json")

	c.logger.Debug("API request", "operation", operation, "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: do request: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		msg := string(body)
		if msg == "" {
			msg = resp.Status
		}
		return newAPIError(operation, resp.StatusCode, msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%s: decode response: %w", operation, err)
	}
	return nil
}
