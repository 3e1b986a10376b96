// internal/adapter/source/news/client.go

package news

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/sync/errgroup"

	"partypulse/internal/cache"
	"partypulse/internal/domain/party"
	"partypulse/internal/domain/source"
	"partypulse/internal/logger"
	"partypulse/internal/metrics"
)

const (
	sourceName       = "news"
	articleLimit     = 10
	sourceLimit      = 5
	topicLimit       = 10
	descriptionLimit = 200
	newsAPIPageSize  = 10
	newsAPIKeywords  = 3
	reachPerMention  = 50000
	digestKey        = "all"
)

var errEmpty = errors.New("no articles fetched")

// topicKeywords are counted across every fetched article title and description
var topicKeywords = []string{
	"welfare", "development", "election", "rally", "scheme", "Amaravati", "capital",
	"agriculture", "farmers", "education", "healthcare", "jobs", "employment",
	"corruption", "alliance",
}

// Default sentiment splits used when no scorer is configured
var (
	defaultYSRCPSentiment = source.Distribution{Positive: 52, Negative: 28, Neutral: 20}
	defaultTDPSentiment   = source.Distribution{Positive: 48, Negative: 32, Neutral: 20}
)

// HTTPClient allows injecting a transport for tests
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Scorer turns a set of texts into a sentiment split
type Scorer interface {
	Distribution(texts []string) source.Distribution
}

// Config holds feed locations and the optional NewsAPI credential
type Config struct {
	YSRCPFeed      string
	TDPFeed        string
	PoliticsFeed   string
	NewsAPIKey     string
	EntriesPerFeed int
	TTL            time.Duration
}

// Option configures the Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client for feeds and NewsAPI
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL overrides the NewsAPI base URL
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.newsAPIURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithScorer derives news sentiment from article text instead of the default split
func WithScorer(s Scorer) Option {
	return func(c *Client) {
		c.scorer = s
	}
}

// WithClock overrides the clock used for timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// Client implements source.News over RSS feeds and NewsAPI
type Client struct {
	httpClient *http.Client
	newsAPIURL string
	cfg        Config
	log        logger.Logger
	scorer     Scorer
	now        func() time.Time

	digests *cache.Cache[string, source.Result[source.NewsDigest]]
}

// NewClient creates a news adapter
func NewClient(cfg Config, log logger.Logger, opts ...Option) *Client {
	if cfg.EntriesPerFeed <= 0 {
		cfg.EntriesPerFeed = 20
	}

	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		newsAPIURL: "https://newsapi.org",
		cfg:        cfg,
		log:        log.With(logger.String("source", sourceName)),
		now:        time.Now,
		digests:    cache.New[string, source.Result[source.NewsDigest]]("news_digest", 1, cfg.TTL),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ClearCache drops the cached digest
func (c *Client) ClearCache() {
	c.digests.Clear()
}

// AllNews returns both parties' coverage and the trending topic counts
func (c *Client) AllNews(ctx context.Context) source.Result[source.NewsDigest] {
	res, err := c.digests.GetOrCompute(ctx, digestKey, func(ctx context.Context) (source.Result[source.NewsDigest], error) {
		ysrcp, tdp, general := c.collect(ctx)
		if len(ysrcp)+len(tdp)+len(general) == 0 {
			return source.Result[source.NewsDigest]{}, errEmpty
		}
		return source.Live(buildDigest(ysrcp, tdp, general), c.now()), nil
	})
	if err != nil {
		c.log.Warn("news fetch degraded to fallback", logger.String("op", "all_news"), logger.Error(err))
		metrics.RecordFetch(sourceName, false)
		return source.Fallback(FallbackDigest(), source.FallbackTime)
	}

	metrics.RecordFetch(sourceName, true)
	return res
}

// NewsStats summarizes mentions, estimated reach and sentiment per party
func (c *Client) NewsStats(ctx context.Context) source.Result[source.NewsStats] {
	digest := c.AllNews(ctx)
	stats := source.NewsStats{
		YSRCP: c.partyStats(digest.Data.YSRCP, defaultYSRCPSentiment),
		TDP:   c.partyStats(digest.Data.TDP, defaultTDPSentiment),
	}
	return source.Result[source.NewsStats]{
		Data:      stats,
		IsLive:    digest.IsLive,
		Source:    digest.Source,
		FetchedAt: digest.FetchedAt,
	}
}

func (c *Client) partyStats(pn source.PartyNews, def source.Distribution) source.NewsPartyStats {
	stats := source.NewsPartyStats{
		Mentions:  pn.TotalMentions,
		Reach:     int64(pn.TotalMentions) * reachPerMention,
		Sentiment: def,
	}
	if c.scorer == nil || len(pn.Articles) == 0 {
		return stats
	}

	texts := make([]string, 0, len(pn.Articles))
	for _, a := range pn.Articles {
		texts = append(texts, strings.TrimSpace(a.Title+" "+a.Description))
	}
	stats.Sentiment = c.scorer.Distribution(texts)
	return stats
}

// collect fetches every feed and NewsAPI concurrently. A failing upstream
// only drops its own articles. Feed entries always precede NewsAPI entries
// so the first-seen duplicate does not depend on response timing.
func (c *Client) collect(ctx context.Context) (ysrcp, tdp, general []party.Article) {
	var ysrcpFeed, tdpFeed, ysrcpAPI, tdpAPI []party.Article
	g, gctx := errgroup.WithContext(ctx)

	feeds := []struct {
		name string
		url  string
		dst  *[]party.Article
	}{
		{"ysrcp", c.cfg.YSRCPFeed, &ysrcpFeed},
		{"tdp", c.cfg.TDPFeed, &tdpFeed},
		{"ap_politics", c.cfg.PoliticsFeed, &general},
	}
	for _, f := range feeds {
		if f.url == "" {
			continue
		}
		g.Go(func() error {
			articles, err := c.fetchFeed(gctx, f.url)
			if err != nil {
				c.log.Warn("feed fetch failed", logger.String("op", "feed"), logger.String("feed", f.name), logger.Error(err))
				return nil
			}
			*f.dst = articles
			return nil
		})
	}

	if c.cfg.NewsAPIKey != "" {
		apiQueries := []struct {
			p   party.Party
			dst *[]party.Article
		}{
			{party.YSRCP, &ysrcpAPI},
			{party.TDP, &tdpAPI},
		}
		for _, q := range apiQueries {
			g.Go(func() error {
				articles, err := c.searchNewsAPI(gctx, q.p)
				if err != nil {
					c.log.Warn("newsapi search failed", logger.String("op", "newsapi"), logger.String("party", string(q.p)), logger.Error(err))
					return nil
				}
				*q.dst = articles
				return nil
			})
		}
	}

	_ = g.Wait()

	ysrcp = append(ysrcpFeed, ysrcpAPI...)
	tdp = append(tdpFeed, tdpAPI...)
	return ysrcp, tdp, general
}

func (c *Client) fetchFeed(ctx context.Context, feedURL string) ([]party.Article, error) {
	fp := gofeed.NewParser()
	fp.Client = c.httpClient
	fp.UserAgent = "partypulse/1.0"

	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, err
	}

	items := feed.Items
	if len(items) > c.cfg.EntriesPerFeed {
		items = items[:c.cfg.EntriesPerFeed]
	}

	now := c.now()
	articles := make([]party.Article, 0, len(items))
	for _, item := range items {
		articles = append(articles, itemToArticle(item, now))
	}
	return articles, nil
}

// buildDigest dedupes, orders and trims the raw article sets
func buildDigest(ysrcp, tdp, general []party.Article) source.NewsDigest {
	ysrcp = dedupeNewest(ysrcp)
	tdp = dedupeNewest(tdp)

	all := make([]party.Article, 0, len(ysrcp)+len(tdp)+len(general))
	all = append(all, ysrcp...)
	all = append(all, tdp...)
	all = append(all, general...)

	return source.NewsDigest{
		YSRCP:    partyNews(ysrcp),
		TDP:      partyNews(tdp),
		Trending: trendingTopics(all),
	}
}

func dedupeNewest(articles []party.Article) []party.Article {
	seen := make(map[string]struct{}, len(articles))
	out := make([]party.Article, 0, len(articles))
	for _, a := range articles {
		key := party.DedupeKey(a.Title)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	return out
}

func partyNews(articles []party.Article) source.PartyNews {
	pn := source.PartyNews{
		Articles:      articles,
		TotalMentions: len(articles),
		Sources:       []string{},
	}
	if len(pn.Articles) > articleLimit {
		pn.Articles = pn.Articles[:articleLimit]
	}

	seen := make(map[string]struct{})
	for _, a := range articles {
		if a.Source == "" {
			continue
		}
		if _, ok := seen[a.Source]; ok {
			continue
		}
		seen[a.Source] = struct{}{}
		pn.Sources = append(pn.Sources, a.Source)
		if len(pn.Sources) == sourceLimit {
			break
		}
	}
	return pn
}

// trendingTopics counts topic keywords over title and description. Equal
// counts keep first-seen order.
func trendingTopics(articles []party.Article) []source.TopicCount {
	counts := make(map[string]int)
	var order []string
	for _, a := range articles {
		text := strings.ToLower(a.Title + " " + a.Description)
		for _, kw := range topicKeywords {
			if !strings.Contains(text, strings.ToLower(kw)) {
				continue
			}
			if counts[kw] == 0 {
				order = append(order, kw)
			}
			counts[kw]++
		}
	}

	topics := make([]source.TopicCount, 0, len(order))
	for _, kw := range order {
		topics = append(topics, source.TopicCount{Topic: kw, Count: counts[kw]})
	}
	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Count > topics[j].Count
	})
	if len(topics) > topicLimit {
		topics = topics[:topicLimit]
	}
	return topics
}
