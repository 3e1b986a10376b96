// internal/adapter/source/youtube/client.go

package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"partypulse/internal/adapter/source/rapidapi"
	"partypulse/internal/cache"
	"partypulse/internal/domain/party"
	"partypulse/internal/domain/source"
	"partypulse/internal/logger"
	"partypulse/internal/metrics"
)

const (
	sourceName     = "youtube"
	channelResults = 15
	keywordResults = 8
	generalResults = 5
	partyLimit     = 20
	generalQuery   = "Andhra Pradesh politics news"
)

var errEmpty = errors.New("upstream returned no records")

// Search keywords run next to the official channel search
var (
	ysrcpSearches = []string{"YSRCP", "YS Jagan"}
	tdpSearches   = []string{"TDP Chandrababu", "Chandrababu Naidu"}
)

// Config holds the official channel handles and ids
type Config struct {
	YSRCPChannel   string
	TDPChannel     string
	YSRCPChannelID string
	TDPChannelID   string
	TTL            time.Duration
	Capacity       int
}

// Client implements source.VideoPlatform over the youtube138 RapidAPI upstream
type Client struct {
	api *rapidapi.Client
	cfg Config
	log logger.Logger
	now func() time.Time

	searches *cache.Cache[string, []party.Video]
	trending *cache.Cache[party.Party, source.Result[source.TrendingVideos]]
	channels *cache.Cache[string, channelStats]
}

// Option configures the Client
type Option func(*Client)

// WithClock overrides the clock used for timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a video platform adapter
func NewClient(api *rapidapi.Client, cfg Config, log logger.Logger, opts ...Option) *Client {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 50
	}

	c := &Client{
		api:      api,
		cfg:      cfg,
		log:      log.With(logger.String("source", sourceName)),
		now:      time.Now,
		searches: cache.New[string, []party.Video]("youtube_search", cfg.Capacity, cfg.TTL),
		trending: cache.New[party.Party, source.Result[source.TrendingVideos]]("youtube_trending", 3, cfg.TTL),
		channels: cache.New[string, channelStats]("youtube_channels", cfg.Capacity, cfg.TTL),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Search returns up to max videos matching query
func (c *Client) Search(ctx context.Context, query string, max int) source.Result[[]party.Video] {
	videos, err := c.search(ctx, query, max)
	if err == nil && len(videos) == 0 {
		err = errEmpty
	}
	if err != nil {
		c.degraded("search", err)
		return source.Fallback(flatten(FallbackVideos()), source.FallbackTime)
	}

	metrics.RecordFetch(sourceName, true)
	return source.Live(processVideos(videos, party.Classify(query)).Videos, c.now())
}

// TrendingVideos gathers official channel and keyword searches per party.
// All searches run concurrently; a failed search contributes nothing.
func (c *Client) TrendingVideos(ctx context.Context, only party.Party) source.Result[source.TrendingVideos] {
	res, err := c.trending.GetOrCompute(ctx, only, func(ctx context.Context) (source.Result[source.TrendingVideos], error) {
		type plan struct {
			owner party.Party
			query string
			max   int
		}

		var plans []plan
		for _, p := range party.Tracked {
			if only != "" && only != p {
				continue
			}
			plans = append(plans, plan{p, c.channel(p), channelResults})
			for _, kw := range keywords(p) {
				plans = append(plans, plan{p, kw, keywordResults})
			}
		}
		if only == "" {
			plans = append(plans, plan{party.General, generalQuery, generalResults})
		}

		batches := make([][]party.Video, len(plans))
		g, gctx := errgroup.WithContext(ctx)
		for i, pl := range plans {
			g.Go(func() error {
				videos, err := c.search(gctx, pl.query, pl.max)
				if err != nil {
					c.log.Debug("video search failed", logger.String("query", pl.query), logger.Error(err))
					return nil
				}
				batches[i] = videos
				return nil
			})
		}
		_ = g.Wait()

		gather := func(p party.Party) []party.Video {
			var all []party.Video
			for i, pl := range plans {
				if pl.owner == p {
					all = append(all, batches[i]...)
				}
			}
			return all
		}

		out := source.TrendingVideos{
			YSRCP:   processVideos(gather(party.YSRCP), party.YSRCP),
			TDP:     processVideos(gather(party.TDP), party.TDP),
			General: processVideos(gather(party.General), party.General),
		}
		if len(out.YSRCP.Videos) == 0 && len(out.TDP.Videos) == 0 {
			return source.Result[source.TrendingVideos]{}, errEmpty
		}
		return source.Live(out, c.now()), nil
	})
	if err != nil {
		c.degraded("trending", err)
		return source.Fallback(FallbackVideos(), source.FallbackTime)
	}

	metrics.RecordFetch(sourceName, true)
	return res
}

// ChannelDetails fetches a channel summary. Any upstream failure reads as not found.
func (c *Client) ChannelDetails(ctx context.Context, channelID string) (party.Profile, error) {
	ch, err := c.fetchChannel(ctx, channelID)
	if err != nil {
		return party.Profile{}, err
	}
	return ch.Profile, nil
}

func (c *Client) fetchChannel(ctx context.Context, channelID string) (channelStats, error) {
	ch, err := c.channels.GetOrCompute(ctx, channelID, func(ctx context.Context) (channelStats, error) {
		params := url.Values{"id": {channelID}, "hl": {"en"}, "gl": {"IN"}}
		var resp channelResponse
		if err := c.api.GetJSON(ctx, "/channel/details/", params, &resp); err != nil {
			return channelStats{}, fmt.Errorf("channel %q: %w", channelID, err)
		}
		if resp.Title == "" && resp.ChannelID == "" {
			return channelStats{}, source.ErrNotFound
		}
		return resp.toStats(channelID), nil
	})
	if err != nil {
		if !errors.Is(err, source.ErrNotFound) {
			c.degraded("channel", err)
		}
		return channelStats{}, source.ErrNotFound
	}
	return ch, nil
}

// PartyStats reports subscriber, video and view counts of the official channels
func (c *Client) PartyStats(ctx context.Context) source.Result[source.PlatformStats] {
	var out source.PlatformStats
	live := false

	for _, p := range party.Tracked {
		figures := source.PlatformParty{Accounts: []source.Account{}}
		if ch, err := c.fetchChannel(ctx, c.channelID(p)); err == nil {
			live = true
			figures.Followers = ch.Profile.Followers
			figures.Posts = ch.Profile.Posts
			figures.Views = ch.Views
			figures.Accounts = append(figures.Accounts, source.Account{
				Handle:    ch.Profile.ID,
				Name:      ch.Profile.Name,
				Avatar:    ch.Profile.Avatar,
				Verified:  ch.Profile.Verified,
				Followers: ch.Profile.Followers,
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

// ClearCache drops every cached response
func (c *Client) ClearCache() {
	c.searches.Clear()
	c.trending.Clear()
	c.channels.Clear()
}

// search runs one upstream search and keeps the first max video items
func (c *Client) search(ctx context.Context, query string, max int) ([]party.Video, error) {
	key := fmt.Sprintf("%s|%d", query, max)
	return c.searches.GetOrCompute(ctx, key, func(ctx context.Context) ([]party.Video, error) {
		params := url.Values{"q": {query}, "hl": {"en"}, "gl": {"IN"}}
		var resp searchResponse
		if err := c.api.GetJSON(ctx, "/search/", params, &resp); err != nil {
			return nil, fmt.Errorf("search %q: %w", query, err)
		}

		videos := make([]party.Video, 0, max)
		for _, item := range resp.Contents {
			if item.Video == nil || item.Video.VideoID == "" {
				continue
			}
			videos = append(videos, item.Video.toVideo())
			if len(videos) >= max {
				break
			}
		}
		return videos, nil
	})
}

func (c *Client) channel(p party.Party) string {
	if p == party.TDP {
		return c.cfg.TDPChannel
	}
	return c.cfg.YSRCPChannel
}

func (c *Client) channelID(p party.Party) string {
	if p == party.TDP {
		return c.cfg.TDPChannelID
	}
	return c.cfg.YSRCPChannelID
}

func (c *Client) degraded(op string, err error) {
	c.log.Warn("video fetch degraded to fallback", logger.String("op", op), logger.Error(err))
	metrics.RecordFetch(sourceName, false)
}

func keywords(p party.Party) []string {
	if p == party.TDP {
		return tdpSearches
	}
	return ysrcpSearches
}

// processVideos drops repeated ids, keeps the first twenty, tags them with
// the party and ranks them by views
func processVideos(videos []party.Video, p party.Party) source.PartyVideos {
	seen := make(map[string]bool)
	unique := make([]party.Video, 0, len(videos))
	for _, v := range videos {
		if v.ID == "" || seen[v.ID] {
			continue
		}
		seen[v.ID] = true
		v.Party = p
		unique = append(unique, v)
		if len(unique) == partyLimit {
			break
		}
	}

	out := source.PartyVideos{Videos: unique}
	for _, v := range unique {
		out.TotalViews += v.Views
	}
	sort.SliceStable(out.Videos, func(i, j int) bool {
		return out.Videos[i].Views > out.Videos[j].Views
	})
	return out
}

func flatten(t source.TrendingVideos) []party.Video {
	all := append([]party.Video{}, t.YSRCP.Videos...)
	all = append(all, t.TDP.Videos...)
	return append(all, t.General.Videos...)
}
