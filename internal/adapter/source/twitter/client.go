// internal/adapter/source/twitter/client.go

package twitter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"partypulse/internal/cache"
	"partypulse/internal/domain/party"
	"partypulse/internal/domain/source"
	"partypulse/internal/logger"
	"partypulse/internal/metrics"
)

const sourceName = "twitter"

// Batch sizes per operation
const (
	trendingCount = 15
	statsCount    = 20
	analysisCount = 50
	trendingLimit = 20
	topicLimit    = 15
	influencerTop = 12
)

var errEmpty = errors.New("upstream returned no records")

// Backend fetches raw microblog data
type Backend interface {
	Search(ctx context.Context, query string, count int) ([]party.Post, error)
	UserProfile(ctx context.Context, username string) (party.Profile, error)
}

// Config holds per-party queries and handles
type Config struct {
	YSRCPQuery  string
	TDPQuery    string
	YSRCPHandle string
	TDPHandle   string
	TTL         time.Duration
	Capacity    int
}

// Option configures the Client
type Option func(*Client)

// WithClock overrides the clock used for timestamps and relative ages
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// Client implements source.Microblog on top of a Backend
type Client struct {
	backend Backend
	cfg     Config
	log     logger.Logger
	now     func() time.Time

	search      *cache.Cache[string, source.Result[[]party.Post]]
	profiles    *cache.Cache[string, party.Profile]
	topics      *cache.Cache[string, source.Result[[]source.Topic]]
	influencers *cache.Cache[string, source.Result[source.InfluencerReport]]
}

// NewClient creates a microblog adapter
func NewClient(backend Backend, cfg Config, log logger.Logger, opts ...Option) *Client {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 50
	}

	c := &Client{
		backend:     backend,
		cfg:         cfg,
		log:         log.With(logger.String("source", sourceName)),
		now:         time.Now,
		search:      cache.New[string, source.Result[[]party.Post]]("twitter_search", cfg.Capacity, cfg.TTL),
		profiles:    cache.New[string, party.Profile]("twitter_profiles", cfg.Capacity, cfg.TTL),
		topics:      cache.New[string, source.Result[[]source.Topic]]("twitter_topics", 1, cfg.TTL),
		influencers: cache.New[string, source.Result[source.InfluencerReport]]("twitter_influencers", 1, cfg.TTL),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SearchTweets returns tweets matching query. An empty or failed search
// yields the fallback sample.
func (c *Client) SearchTweets(ctx context.Context, query string, count int) source.Result[[]party.Post] {
	key := fmt.Sprintf("%s|%d", query, count)
	res, err := c.search.GetOrCompute(ctx, key, func(ctx context.Context) (source.Result[[]party.Post], error) {
		posts, err := c.backend.Search(ctx, query, count)
		if err != nil {
			return source.Result[[]party.Post]{}, err
		}
		if len(posts) == 0 {
			return source.Result[[]party.Post]{}, errEmpty
		}
		now := c.now()
		for i := range posts {
			if !posts[i].Timestamp.IsZero() {
				posts[i].TimeAgo = party.TimeAgo(posts[i].Timestamp, now)
			}
		}
		return source.Live(posts, now), nil
	})
	if err != nil {
		c.degraded("search", err)
		return source.Fallback(FallbackTweets(), source.FallbackTime)
	}

	metrics.RecordFetch(sourceName, true)
	return res
}

// TrendingTweets ranks recent tweets for one or both parties by likes plus retweets
func (c *Client) TrendingTweets(ctx context.Context, only party.Party) source.Result[source.TrendingPosts] {
	var out source.TrendingPosts
	live := false

	for _, p := range party.Tracked {
		if only != "" && only != p {
			continue
		}
		res := c.SearchTweets(ctx, c.query(p), trendingCount)
		if !res.IsLive {
			continue
		}
		live = true
		bucket := source.PartyPosts{Posts: res.Data}
		for _, t := range res.Data {
			bucket.TotalEngagement += t.Engagement.Likes + t.Engagement.Shares
		}
		if p == party.TDP {
			out.TDP = bucket
		} else {
			out.YSRCP = bucket
		}
	}

	if !live {
		return source.Fallback(fallbackTrending(only), source.FallbackTime)
	}

	out.Combined = combineTweets(out.YSRCP.Posts, out.TDP.Posts)
	ensurePosts(&out)
	return source.Live(out, c.now())
}

// TrendingTopics extracts hashtags from recent tweets about both parties
func (c *Client) TrendingTopics(ctx context.Context) source.Result[[]source.Topic] {
	res, err := c.topics.GetOrCompute(ctx, "topics", func(ctx context.Context) (source.Result[[]source.Topic], error) {
		tweets, ok := c.analysisTweets(ctx)
		if !ok {
			return source.Result[[]source.Topic]{}, errEmpty
		}
		topics := ExtractTopics(tweets, topicLimit)
		if len(topics) == 0 {
			return source.Result[[]source.Topic]{}, errEmpty
		}
		return source.Live(topics, c.now()), nil
	})
	if err != nil {
		c.degraded("topics", err)
		return source.Fallback(FallbackTopics(), source.FallbackTime)
	}

	metrics.RecordFetch(sourceName, true)
	return res
}

// UserProfile looks up an account. Any upstream failure reads as not found.
func (c *Client) UserProfile(ctx context.Context, username string) (party.Profile, error) {
	profile, err := c.profiles.GetOrCompute(ctx, username, func(ctx context.Context) (party.Profile, error) {
		return c.backend.UserProfile(ctx, username)
	})
	if err != nil {
		if !errors.Is(err, source.ErrNotFound) {
			c.degraded("user", err)
		}
		return party.Profile{}, source.ErrNotFound
	}
	return profile, nil
}

// PartyStats collects follower counts of the official accounts and
// engagement of recent tweets
func (c *Client) PartyStats(ctx context.Context) source.Result[source.PlatformStats] {
	var out source.PlatformStats
	live := false

	for _, p := range party.Tracked {
		var figures source.PlatformParty
		figures.Accounts = []source.Account{}

		if profile, err := c.UserProfile(ctx, c.handle(p)); err == nil {
			live = true
			figures.Followers = profile.Followers
			figures.Posts = profile.Posts
			figures.Accounts = append(figures.Accounts, source.Account{
				Handle:    profile.Username,
				Name:      profile.Name,
				Avatar:    profile.Avatar,
				Verified:  profile.Verified,
				Followers: profile.Followers,
				Type:      "party",
			})
		}

		if res := c.SearchTweets(ctx, c.query(p), statsCount); res.IsLive {
			live = true
			for _, t := range res.Data {
				figures.Engagement += t.Engagement.Likes + t.Engagement.Shares
			}
		}

		if p == party.TDP {
			out.TDP = figures
		} else {
			out.YSRCP = figures
		}
	}

	if !live {
		return source.Fallback(FallbackStats(), source.FallbackTime)
	}
	return source.Live(out, c.now())
}

// Influencers ranks the accounts posting about the parties by follower count
func (c *Client) Influencers(ctx context.Context) source.Result[source.InfluencerReport] {
	res, err := c.influencers.GetOrCompute(ctx, "influencers", func(ctx context.Context) (source.Result[source.InfluencerReport], error) {
		tweets, ok := c.analysisTweets(ctx)
		if !ok {
			return source.Result[source.InfluencerReport]{}, errEmpty
		}
		report := RankInfluencers(tweets, influencerTop)
		if len(report.Influencers) == 0 {
			return source.Result[source.InfluencerReport]{}, errEmpty
		}
		return source.Live(report, c.now()), nil
	})
	if err != nil {
		c.degraded("influencers", err)
		return source.Fallback(FallbackInfluencers(), source.FallbackTime)
	}

	metrics.RecordFetch(sourceName, true)
	return res
}

// ClearCache drops every cached response
func (c *Client) ClearCache() {
	c.search.Clear()
	c.profiles.Clear()
	c.topics.Clear()
	c.influencers.Clear()
}

// analysisTweets returns the live tweets of both party queries
func (c *Client) analysisTweets(ctx context.Context) ([]party.Post, bool) {
	var tweets []party.Post
	live := false
	for _, p := range party.Tracked {
		if res := c.SearchTweets(ctx, c.query(p), analysisCount); res.IsLive {
			live = true
			tweets = append(tweets, res.Data...)
		}
	}
	return tweets, live
}

func (c *Client) query(p party.Party) string {
	if p == party.TDP {
		return c.cfg.TDPQuery
	}
	return c.cfg.YSRCPQuery
}

func (c *Client) handle(p party.Party) string {
	if p == party.TDP {
		return c.cfg.TDPHandle
	}
	return c.cfg.YSRCPHandle
}

func (c *Client) degraded(op string, err error) {
	c.log.Warn("microblog fetch degraded to fallback", logger.String("op", op), logger.Error(err))
	metrics.RecordFetch(sourceName, false)
}

// combineTweets merges both parties' tweets, drops duplicate texts and
// ranks by likes plus retweets
func combineTweets(ysrcp, tdp []party.Post) []party.Post {
	seen := make(map[string]bool)
	all := make([]party.Post, 0, len(ysrcp)+len(tdp))
	for _, t := range append(append([]party.Post{}, ysrcp...), tdp...) {
		key := party.DedupeKey(t.Text)
		if seen[key] {
			continue
		}
		seen[key] = true
		all = append(all, t)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Engagement.Likes+all[i].Engagement.Shares > all[j].Engagement.Likes+all[j].Engagement.Shares
	})
	if len(all) > trendingLimit {
		all = all[:trendingLimit]
	}
	return all
}

func ensurePosts(t *source.TrendingPosts) {
	if t.YSRCP.Posts == nil {
		t.YSRCP.Posts = []party.Post{}
	}
	if t.TDP.Posts == nil {
		t.TDP.Posts = []party.Post{}
	}
	if t.Combined == nil {
		t.Combined = []party.Post{}
	}
}
