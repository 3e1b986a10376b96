// internal/adapter/source/rapidapi/client.go

package rapidapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Common errors
var (
	ErrMissingKey   = errors.New("rapidapi key not configured")
	ErrUnauthorized = errors.New("rapidapi rejected the key")
	ErrRateLimited  = errors.New("rapidapi quota exceeded")
)

// APIError is returned for any other non-2xx response
type APIError struct {
	StatusCode int
	Host       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Host, e.StatusCode)
}

// HTTPClient allows injecting a transport for tests
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures the Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL overrides the upstream base URL
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// Client performs keyed requests against one RapidAPI-hosted upstream
type Client struct {
	key        string
	host       string
	baseURL    string
	httpClient HTTPClient
}

// NewClient creates a client for host authenticated with key
func NewClient(key, host string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		key:        key,
		host:       host,
		baseURL:    "https://" + host,
		httpClient: &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Host returns the upstream host name
func (c *Client) Host() string {
	return c.host
}

// GetJSON issues a GET with query params and decodes the response into out
func (c *Client) GetJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return c.do(req, out)
}

// PostJSON issues a POST with a JSON body and decodes the response into out
func (c *Client) PostJSON(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if c.key == "" {
		return ErrMissingKey
	}

	req.Header.Set("x-rapidapi-host", c.host)
	req.Header.Set("x-rapidapi-key", c.key)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", c.host, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleAPIError(resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", c.host, err)
	}

	return nil
}

func (c *Client) handleAPIError(statusCode int) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return &APIError{StatusCode: statusCode, Host: c.host}
	}
}
