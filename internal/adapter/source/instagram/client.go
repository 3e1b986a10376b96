// internal/adapter/source/instagram/client.go

package instagram

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"partypulse/internal/adapter/source/rapidapi"
	"partypulse/internal/cache"
	"partypulse/internal/domain/party"
	"partypulse/internal/domain/source"
	"partypulse/internal/logger"
	"partypulse/internal/metrics"
)

const (
	sourceName    = "instagram"
	trendingLimit = 40
	captionLimit  = 200
)

var errEmpty = errors.New("upstream returned no records")

// Config holds the official party handles
type Config struct {
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

// Client implements source.ImagePlatform over the instagram120 RapidAPI upstream
type Client struct {
	api *rapidapi.Client
	cfg Config
	log logger.Logger
	now func() time.Time

	profiles *cache.Cache[string, party.Profile]
	posts    *cache.Cache[string, source.Result[[]party.Post]]
}

// NewClient creates an image platform adapter
func NewClient(api *rapidapi.Client, cfg Config, log logger.Logger, opts ...Option) *Client {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 50
	}

	c := &Client{
		api:      api,
		cfg:      cfg,
		log:      log.With(logger.String("source", sourceName)),
		now:      time.Now,
		profiles: cache.New[string, party.Profile]("instagram_profiles", cfg.Capacity, cfg.TTL),
		posts:    cache.New[string, source.Result[[]party.Post]]("instagram_posts", cfg.Capacity, cfg.TTL),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// UserProfile fetches an account summary. Any upstream failure reads as not found.
func (c *Client) UserProfile(ctx context.Context, username string) (party.Profile, error) {
	profile, err := c.profiles.GetOrCompute(ctx, username, func(ctx context.Context) (party.Profile, error) {
		var resp profileResponse
		if err := c.api.PostJSON(ctx, "/api/instagram/profile", map[string]string{"username": username}, &resp); err != nil {
			return party.Profile{}, fmt.Errorf("profile %q: %w", username, err)
		}
		if resp.Result == nil || (resp.Result.ID == "" && resp.Result.Username == "") {
			return party.Profile{}, source.ErrNotFound
		}
		return resp.Result.toProfile(username), nil
	})
	if err != nil {
		if !errors.Is(err, source.ErrNotFound) {
			c.degraded("profile", err)
		}
		return party.Profile{}, source.ErrNotFound
	}
	return profile, nil
}

// UserPosts returns the latest posts of an account
func (c *Client) UserPosts(ctx context.Context, username string) source.Result[[]party.Post] {
	res, err := c.posts.GetOrCompute(ctx, username, func(ctx context.Context) (source.Result[[]party.Post], error) {
		var resp postsResponse
		body := map[string]string{"username": username, "maxId": ""}
		if err := c.api.PostJSON(ctx, "/api/instagram/posts", body, &resp); err != nil {
			return source.Result[[]party.Post]{}, fmt.Errorf("posts %q: %w", username, err)
		}

		now := c.now()
		posts := make([]party.Post, 0, len(resp.Result.Edges))
		for _, edge := range resp.Result.Edges {
			if post, ok := edge.Node.toPost(now); ok {
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

// TrendingPosts returns official account posts per party and the combined
// ranking by likes plus comments
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
		res := c.UserPosts(ctx, c.handle(p))
		if !res.IsLive {
			continue
		}
		live = true

		bucket := source.PartyPosts{Posts: make([]party.Post, len(res.Data))}
		for i, post := range res.Data {
			post.Party = p
			bucket.Posts[i] = post
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
	sort.SliceStable(all, func(i, j int) bool {
		return engagement(all[i]) > engagement(all[j])
	})
	if len(all) > trendingLimit {
		all = all[:trendingLimit]
	}
	out.Combined = all

	return source.Live(out, c.now())
}

// PartyStats collects follower and post counts of the official accounts
// and engagement of their latest posts
func (c *Client) PartyStats(ctx context.Context) source.Result[source.PlatformStats] {
	var out source.PlatformStats
	live := false

	for _, p := range party.Tracked {
		handle := c.handle(p)
		figures := source.PlatformParty{Accounts: []source.Account{}}

		if profile, err := c.UserProfile(ctx, handle); err == nil {
			live = true
			figures.Followers = profile.Followers
			figures.Posts = profile.Posts
			name := profile.Name
			if name == "" {
				name = handle
			}
			figures.Accounts = append(figures.Accounts, source.Account{
				Handle:    handle,
				Name:      name,
				Avatar:    profile.Avatar,
				Verified:  profile.Verified,
				Followers: profile.Followers,
				Type:      "party",
			})
		}

		if res := c.UserPosts(ctx, handle); res.IsLive {
			live = true
			for _, post := range res.Data {
				figures.Engagement += engagement(post)
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

// ClearCache drops every cached response
func (c *Client) ClearCache() {
	c.profiles.Clear()
	c.posts.Clear()
}

func (c *Client) handle(p party.Party) string {
	if p == party.TDP {
		return c.cfg.TDPHandle
	}
	return c.cfg.YSRCPHandle
}

func (c *Client) degraded(op string, err error) {
	c.log.Warn("image platform fetch degraded to fallback", logger.String("op", op), logger.Error(err))
	metrics.RecordFetch(sourceName, false)
}

func engagement(p party.Post) int64 {
	return p.Engagement.Likes + p.Engagement.Comments
}
