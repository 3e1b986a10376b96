// internal/adapter/source/trends/client.go

package trends

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

	"partypulse/internal/cache"
	"partypulse/internal/domain/source"
	"partypulse/internal/logger"
	"partypulse/internal/metrics"
)

const (
	sourceName       = "trends"
	defaultTimeframe = "today 1-m"
	hostLanguage     = "en-IN"
	// India is UTC+5:30; the web API takes the offset in minutes, negated
	timezoneOffset = "-330"
)

var errEmpty = errors.New("upstream returned no records")

// HTTPClient allows injecting a transport for tests
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds the search-trend query settings
type Config struct {
	Geo               string
	RegionalTimeframe string
	MaxAttempts       int
	BackoffUnit       time.Duration
	TTL               time.Duration
}

// Option configures the Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL overrides the web API base URL
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithClock overrides the clock used for timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// Client implements source.SearchTrends over the public trends web API
type Client struct {
	httpClient HTTPClient
	baseURL    string
	cfg        Config
	log        logger.Logger
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error

	interest *cache.Cache[string, source.Result[source.Interest]]
	regional *cache.Cache[string, source.Result[[]source.RegionInterest]]
	related  *cache.Cache[string, source.Result[source.RelatedQueries]]
}

// NewClient creates a search-trend adapter
func NewClient(cfg Config, log logger.Logger, opts ...Option) *Client {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.RegionalTimeframe == "" {
		cfg.RegionalTimeframe = "today 3-m"
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    "https://trends.google.com",
		cfg:        cfg,
		log:        log.With(logger.String("source", sourceName)),
		now:        time.Now,
		sleep:      sleepContext,
		interest:   cache.New[string, source.Result[source.Interest]]("trends_interest", 10, cfg.TTL),
		regional:   cache.New[string, source.Result[[]source.RegionInterest]]("trends_regional", 1, cfg.TTL),
		related:    cache.New[string, source.Result[source.RelatedQueries]]("trends_related", 1, cfg.TTL),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ClearCache drops every cached response
func (c *Client) ClearCache() {
	c.interest.Clear()
	c.regional.Clear()
	c.related.Clear()
}

func (c *Client) degraded(op string, err error) {
	c.log.Warn("search trends fetch degraded to fallback", logger.String("op", op), logger.Error(err))
	metrics.RecordFetch(sourceName, false)
}

// widget is one explore panel with the token needed to fetch its data
type widget struct {
	ID      string          `json:"id"`
	Token   string          `json:"token"`
	Request json.RawMessage `json:"request"`
}

type comparisonItem struct {
	Keyword string `json:"keyword"`
	Geo     string `json:"geo"`
	Time    string `json:"time"`
}

// explore requests the widget set for a keyword comparison
func (c *Client) explore(ctx context.Context, keywords []string, timeframe string) ([]widget, error) {
	items := make([]comparisonItem, 0, len(keywords))
	for _, kw := range keywords {
		items = append(items, comparisonItem{Keyword: kw, Geo: c.cfg.Geo, Time: timeframe})
	}
	req, err := json.Marshal(map[string]interface{}{
		"comparisonItem": items,
		"category":       0,
		"property":       "",
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Widgets []widget `json:"widgets"`
	}
	params := url.Values{"hl": {hostLanguage}, "tz": {timezoneOffset}, "req": {string(req)}}
	if err := c.getJSON(ctx, "/trends/api/explore", params, &resp); err != nil {
		return nil, fmt.Errorf("explore %v: %w", keywords, err)
	}
	return resp.Widgets, nil
}

// widgetData fetches the data behind one widget
func (c *Client) widgetData(ctx context.Context, kind string, w widget, out interface{}) error {
	params := url.Values{
		"hl":    {hostLanguage},
		"tz":    {timezoneOffset},
		"req":   {string(w.Request)},
		"token": {w.Token},
	}
	if err := c.getJSON(ctx, "/trends/api/widgetdata/"+kind, params, out); err != nil {
		return fmt.Errorf("widget %s: %w", kind, err)
	}
	return nil
}

// getJSON performs a GET with retries and decodes the body after removing the
// anti-hijacking prefix
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	var err error
	for attempt := 0; attempt < c.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := c.cfg.BackoffUnit * time.Duration(1<<(attempt-1))
			if serr := c.sleep(ctx, delay); serr != nil {
				return serr
			}
		}

		var body []byte
		body, err = c.doRequest(ctx, c.baseURL+path+"?"+params.Encode())
		if err == nil {
			err = json.Unmarshal(stripPrefix(body), out)
			if err == nil {
				return nil
			}
			err = fmt.Errorf("decode %s: %w", path, err)
		}
		c.log.Debug("trends request failed", logger.String("path", path), logger.Int("attempt", attempt+1), logger.Error(err))
	}
	return err
}

func (c *Client) doRequest(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trends API returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// stripPrefix drops everything before the first '{'
func stripPrefix(body []byte) []byte {
	if i := bytes.IndexByte(body, '{'); i > 0 {
		return body[i:]
	}
	return body
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func findWidget(widgets []widget, match func(id string) bool) (widget, bool) {
	for _, w := range widgets {
		if match(w.ID) {
			return w, true
		}
	}
	return widget{}, false
}
