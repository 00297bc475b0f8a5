package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"
)

//go:generate mockgen -destination=mocks/mock_fetcher.go -package=mocks github.com/vmunix/modport/internal/catalog Fetcher

// Fetcher retrieves the full package list.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Package, error)
}

// FileFetcher reads a package list snapshot from disk.
type FileFetcher struct {
	Path string
}

// Fetch decodes the snapshot at f.Path.
func (f FileFetcher) Fetch(ctx context.Context) ([]Package, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer file.Close()
	return decodePackages(file)
}

const (
	defaultBaseURL  = "https://thunderstore.io"
	defaultAttempts = 3
)

// Client fetches package listings from the Thunderstore API.
type Client struct {
	community  string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	attempts   int
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit caps how often requests are sent, including retries.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithAttempts sets how many times a failed fetch is tried.
func WithAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.attempts = n
		}
	}
}

// NewClient creates a client for the given community, e.g. "lethal-company".
func NewClient(community string, opts ...Option) *Client {
	c := &Client{
		community: community,
		baseURL:   defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
		limiter:  rate.NewLimiter(rate.Limit(1), 1),
		attempts: defaultAttempts,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch downloads the community's package list, retrying transient failures.
func (c *Client) Fetch(ctx context.Context) ([]Package, error) {
	if c.community == "" {
		return nil, ErrNoCommunity
	}

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		pkgs, err := c.fetchOnce(ctx)
		if err == nil {
			return pkgs, nil
		}
		lastErr = err

		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.Temporary() {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", c.attempts, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context) ([]Package, error) {
	url := fmt.Sprintf("%s/c/%s/api/v1/package/", c.baseURL, c.community)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}
	return decodePackages(resp.Body)
}

func decodePackages(r io.Reader) ([]Package, error) {
	var pkgs []Package
	if err := json.NewDecoder(r).Decode(&pkgs); err != nil {
		return nil, fmt.Errorf("decode packages: %w", err)
	}
	return pkgs, nil
}
