package ballchasing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultBaseURL      = "https://ballchasing.com/api"
	defaultTimeout      = 30 * time.Second
	defaultMaxAttempts  = 3
	defaultRetryBackoff = 2 * time.Second
)

// maxErrorBodyBytes caps how much of an error response body is kept for messages.
const maxErrorBodyBytes = 512

// Client is an authenticated HTTP client for the ballchasing.com API.
// Transport failures are retried with a linear back-off; any non-2xx
// response is returned immediately as an *APIError.
type Client struct {
	baseURL         string
	token           string
	client          *http.Client
	maxAttempts     int
	retryBackoff    time.Duration
	minRequestDelay time.Duration

	reqMu   sync.Mutex
	lastReq time.Time
}

// ClientConfig configures the API client. Zero values fall back to defaults.
type ClientConfig struct {
	BaseURL         string
	Token           string
	Timeout         time.Duration
	MaxAttempts     int           // total attempts per logical request
	RetryBackoff    time.Duration // sleep after attempt n is n times this
	MinRequestDelay time.Duration // minimum spacing between requests, 0 = off

	// HTTPClient overrides the default client. Used by tests to inject
	// failing transports.
	HTTPClient *http.Client
}

// NewClient creates a ballchasing API client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	retryBackoff := cfg.RetryBackoff
	if retryBackoff <= 0 {
		retryBackoff = defaultRetryBackoff
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:         baseURL,
		token:           cfg.Token,
		client:          httpClient,
		maxAttempts:     maxAttempts,
		retryBackoff:    retryBackoff,
		minRequestDelay: cfg.MinRequestDelay,
	}
}

// APIError is a non-2xx response from the API. These are never retried:
// the credential, group or request itself is wrong and repeating the
// call cannot fix it.
type APIError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("ballchasing: GET %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("ballchasing: GET %s: status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Get performs one logical GET against the API and returns the raw
// response body. query may be nil; rawURL may be absolute (pagination
// cursors come back as full URLs) or built from the client's base URL.
func (c *Client) Get(ctx context.Context, rawURL string, query url.Values) ([]byte, error) {
	u := rawURL
	if len(query) > 0 {
		u = rawURL + "?" + query.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("ballchasing: create request: %w", err)
		}
		c.setHeaders(req)

		if err := c.waitTurn(ctx); err != nil {
			return nil, err
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
		} else {
			body, err := c.handleResponse(resp, u)
			if err == nil {
				return body, nil
			}
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return nil, err
			}
			lastErr = err
		}

		if attempt == c.maxAttempts {
			break
		}
		backoff := time.Duration(attempt) * c.retryBackoff
		slog.Warn("Ballchasing: request failed, retrying",
			"url", u,
			"attempt", attempt,
			"max_attempts", c.maxAttempts,
			"backoff", backoff,
			"error", lastErr)
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, fmt.Errorf("ballchasing: GET %s: %w", u, lastErr)
}

func (c *Client) setHeaders(req *http.Request) {
	// The API expects the bare token, no "Bearer" prefix.
	req.Header.Set("Authorization", c.token)
}

// waitTurn blocks until at least minRequestDelay has passed since the
// previous request went out. No-op when spacing is disabled.
func (c *Client) waitTurn(ctx context.Context) error {
	if c.minRequestDelay <= 0 {
		return nil
	}

	c.reqMu.Lock()
	sinceLastReq := time.Since(c.lastReq)
	if sinceLastReq < c.minRequestDelay {
		wait := c.minRequestDelay - sinceLastReq
		c.reqMu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		c.reqMu.Lock()
	}
	c.lastReq = time.Now()
	c.reqMu.Unlock()
	return nil
}

// handleResponse returns the body for a 2xx response and an *APIError
// otherwise. A failed body read is returned as a plain error so the
// caller treats it as transient.
func (c *Client) handleResponse(resp *http.Response, rawURL string) ([]byte, error) {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			URL:        rawURL,
			Body:       strings.TrimSpace(string(b)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}
