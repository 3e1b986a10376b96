// internal/adapter/source/facebook/client.go

package facebook

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"partypulse/internal/adapter/source/rapidapi"
	"partypulse/internal/cache"
	"partypulse/internal/domain/party"
	"partypulse/internal/domain/source"
	"partypulse/internal/logger"
	"partypulse/internal/metrics"
)

const (
	sourceName    = "facebook"
	perPartyLimit = 20
	trendingLimit = 40
	messageLimit  = 200
	pageURLPrefix = "https://www.facebook.com/"
)

var errEmpty = errors.New("upstream returned no records")

// Config holds the official party page URLs
type Config struct {
	YSRCPPage string
	TDPPage   string
	TTL       time.Duration
	Capacity  int
}

// Option configures the Client
type Option func(*Client)

// WithClock overrides the clock used for timestamps and relative ages
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// Client implements source.PageScraper over the facebook-scraper3 RapidAPI upstream
type Client struct {
	api    *rapidapi.Client
	cfg    Config
	log    logger.Logger
	now    func() time.Time
	policy *bluemonday.Policy

	details *cache.Cache[string, party.Profile]
	posts   *cache.Cache[string, source.Result[[]party.Post]]
}

// NewClient creates a page-scrape adapter
func NewClient(api *rapidapi.Client, cfg Config, log logger.Logger, opts ...Option) *Client {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 50
	}

	c := &Client{
		api:     api,
		cfg:     cfg,
		log:     log.With(logger.String("source", sourceName)),
		now:     time.Now,
		policy:  bluemonday.StrictPolicy(),
		details: cache.New[string, party.Profile]("facebook_pages", cfg.Capacity, cfg.TTL),
		posts:   cache.New[string, source.Result[[]party.Post]]("facebook_posts", cfg.Capacity, cfg.TTL),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ResolvePage maps a page reference to a page URL and the party it belongs to.
// "ysrcp" and "tdp" name the official pages, full URLs pass through and
// anything else is treated as a page slug.
func (c *Client) ResolvePage(ref string) (string, party.Party) {
	ref = strings.TrimSpace(ref)
	if p, ok := party.Parse(ref); ok {
		return c.page(p), p
	}

	pageURL := ref
	if !strings.HasPrefix(ref, "http") {
		pageURL = pageURLPrefix + ref
	}
	for _, p := range party.Tracked {
		if pageURL == c.page(p) {
			return pageURL, p
		}
	}
	return pageURL, ""
}

// PageDetails fetches a page summary. The profile ID carries the page id
// needed to list posts. Any upstream failure reads as not found.
func (c *Client) PageDetails(ctx context.Context, pageURL string) (party.Profile, error) {
	profile, err := c.details.GetOrCompute(ctx, pageURL, func(ctx context.Context) (party.Profile, error) {
		var resp detailsResponse
		if err := c.api.GetJSON(ctx, "/page/details", url.Values{"url": {pageURL}}, &resp); err != nil {
			return party.Profile{}, fmt.Errorf("page details %q: %w", pageURL, err)
		}
		if resp.Results == nil {
			return party.Profile{}, source.ErrNotFound
		}
		return resp.Results.toProfile(pageURL), nil
	})
	if err != nil {
		if !errors.Is(err, source.ErrNotFound) {
			c.degraded("details", err)
		}
		return party.Profile{}, source.ErrNotFound
	}
	return profile, nil
}

// PagePosts lists the latest posts of a page reference
func (c *Client) PagePosts(ctx context.Context, pageRef string) source.Result[[]party.Post] {
	pageURL, owner := c.ResolvePage(pageRef)

	res, err := c.posts.GetOrCompute(ctx, pageURL, func(ctx context.Context) (source.Result[[]party.Post], error) {
		details, err := c.PageDetails(ctx, pageURL)
		if err != nil || details.ID == "" {
			return source.Result[[]party.Post]{}, fmt.Errorf("no page id for %q", pageURL)
		}

		var resp postsResponse
		if err := c.api.GetJSON(ctx, "/page/posts", url.Values{"page_id": {details.ID}}, &resp); err != nil {
			return source.Result[[]party.Post]{}, fmt.Errorf("page posts %q: %w", details.ID, err)
		}

		now := c.now()
		items := resp.items()
		posts := make([]party.Post, 0, len(items))
		for _, item := range items {
			if post, ok := c.toPost(item, owner, details.Name, now); ok {
				posts = append(posts, post)
			}
		}
		if len(posts) == 0 {
			return source.Result[[]party.Post]{}, errEmpty
		}
		return source.Live(posts, now), nil
	})
	if err != nil {
		c.degraded("posts", err)
		return source.Fallback([]party.Post{}, source.FallbackTime)
	}

	metrics.RecordFetch(sourceName, true)
	return res
}

// TrendingPosts ranks official page posts per party and combined by
// reactions plus comments plus shares
func (c *Client) TrendingPosts(ctx context.Context, only party.Party) source.Result[source.TrendingPosts] {
	out := source.TrendingPosts{
		YSRCP:    source.PartyPosts{Posts: []party.Post{}},
		TDP:      source.PartyPosts{Posts: []party.Post{}},
		Combined: []party.Post{},
	}
	live := false

	for _, p := range party.Tracked {
		if only != "" && only != p {
			continue
		}
		res := c.PagePosts(ctx, string(p))
		if !res.IsLive {
			continue
		}
		live = true

		posts := append([]party.Post{}, res.Data...)
		sortByEngagement(posts)
		if len(posts) > perPartyLimit {
			posts = posts[:perPartyLimit]
		}
		bucket := source.PartyPosts{Posts: posts}
		for _, post := range posts {
			bucket.TotalEngagement += engagement(post)
		}
		if p == party.TDP {
			out.TDP = bucket
		} else {
			out.YSRCP = bucket
		}
	}

	if !live {
		return source.Fallback(out, source.FallbackTime)
	}

	all := append(append([]party.Post{}, out.YSRCP.Posts...), out.TDP.Posts...)
	sortByEngagement(all)
	if len(all) > trendingLimit {
		all = all[:trendingLimit]
	}
	out.Combined = all

	return source.Live(out, c.now())
}

// PartyStats combines page follower counts with trending post engagement
func (c *Client) PartyStats(ctx context.Context) source.Result[source.PlatformStats] {
	trending := c.TrendingPosts(ctx, "")
	live := trending.IsLive

	var out source.PlatformStats
	for _, p := range party.Tracked {
		posts := trending.Data.For(p)
		figures := source.PlatformParty{
			Posts:      int64(len(posts.Posts)),
			Engagement: posts.TotalEngagement,
			Accounts:   []source.Account{},
		}

		if details, err := c.PageDetails(ctx, c.page(p)); err == nil {
			live = true
			figures.Followers = details.Followers
			figures.Accounts = append(figures.Accounts, source.Account{
				Handle:    details.Username,
				Name:      details.Name,
				Avatar:    details.Avatar,
				Verified:  details.Verified,
				Followers: details.Followers,
				Type:      "party",
			})
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

// ClearCache drops every cached response including resolved page ids
func (c *Client) ClearCache() {
	c.details.Clear()
	c.posts.Clear()
}

func (c *Client) page(p party.Party) string {
	if p == party.TDP {
		return c.cfg.TDPPage
	}
	return c.cfg.YSRCPPage
}

func (c *Client) degraded(op string, err error) {
	c.log.Warn("page scrape fetch degraded to fallback", logger.String("op", op), logger.Error(err))
	metrics.RecordFetch(sourceName, false)
}

func engagement(p party.Post) int64 {
	return p.Engagement.Likes + p.Engagement.Comments + p.Engagement.Shares
}

func sortByEngagement(posts []party.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return engagement(posts[i]) > engagement(posts[j])
	})
}
