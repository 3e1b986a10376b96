// internal/domain/source/sourcetest/fakes.go

// Package sourcetest provides in-memory adapters for service and handler tests.
package sourcetest

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"partypulse/internal/domain/party"
	"partypulse/internal/domain/source"
)

// Now is the timestamp stamped on every live fake result
var Now = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

// Calls counts adapter calls and cache clears
type Calls struct {
	mu      sync.Mutex
	byOp    map[string]int
	cleared atomic.Int32
}

func (c *Calls) record(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.byOp == nil {
		c.byOp = make(map[string]int)
	}
	c.byOp[op]++
}

// Count returns how many times op was called
func (c *Calls) Count(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.byOp[op]
}

// Cleared returns how many times ClearCache was called
func (c *Calls) Cleared() int {
	return int(c.cleared.Load())
}

// Stats builds a live PlatformStats result
func Stats(ysrcp, tdp source.PlatformParty) source.Result[source.PlatformStats] {
	return source.Live(source.PlatformStats{YSRCP: ysrcp, TDP: tdp}, Now)
}

// Microblog is a configurable source.Microblog
type Microblog struct {
	Calls
	Search      source.Result[[]party.Post]
	Trending    source.Result[source.TrendingPosts]
	Topics      source.Result[[]source.Topic]
	Profiles    map[string]party.Profile
	Stats       source.Result[source.PlatformStats]
	Report      source.Result[source.InfluencerReport]
	LastQuery   string
	LastCount   int
	LastParty   party.Party
}

func (m *Microblog) SearchTweets(_ context.Context, query string, count int) source.Result[[]party.Post] {
	m.record("search")
	m.LastQuery, m.LastCount = query, count
	return m.Search
}

func (m *Microblog) TrendingTweets(_ context.Context, only party.Party) source.Result[source.TrendingPosts] {
	m.record("trending")
	m.LastParty = only
	return m.Trending
}

func (m *Microblog) TrendingTopics(context.Context) source.Result[[]source.Topic] {
	m.record("topics")
	return m.Topics
}

func (m *Microblog) UserProfile(_ context.Context, username string) (party.Profile, error) {
	m.record("user")
	p, ok := m.Profiles[username]
	if !ok {
		return party.Profile{}, source.ErrNotFound
	}
	return p, nil
}

func (m *Microblog) PartyStats(context.Context) source.Result[source.PlatformStats] {
	m.record("stats")
	return m.Stats
}

func (m *Microblog) Influencers(context.Context) source.Result[source.InfluencerReport] {
	m.record("influencers")
	return m.Report
}

func (m *Microblog) ClearCache() { m.cleared.Add(1) }

// ImagePlatform is a configurable source.ImagePlatform
type ImagePlatform struct {
	Calls
	Profiles  map[string]party.Profile
	Posts     source.Result[[]party.Post]
	Trending  source.Result[source.TrendingPosts]
	Stats     source.Result[source.PlatformStats]
	LastParty party.Party
}

func (i *ImagePlatform) UserProfile(_ context.Context, username string) (party.Profile, error) {
	i.record("user")
	p, ok := i.Profiles[username]
	if !ok {
		return party.Profile{}, source.ErrNotFound
	}
	return p, nil
}

func (i *ImagePlatform) UserPosts(context.Context, string) source.Result[[]party.Post] {
	i.record("posts")
	return i.Posts
}

func (i *ImagePlatform) TrendingPosts(_ context.Context, only party.Party) source.Result[source.TrendingPosts] {
	i.record("trending")
	i.LastParty = only
	return i.Trending
}

func (i *ImagePlatform) PartyStats(context.Context) source.Result[source.PlatformStats] {
	i.record("stats")
	return i.Stats
}

func (i *ImagePlatform) ClearCache() { i.cleared.Add(1) }

// PageScraper is a configurable source.PageScraper
type PageScraper struct {
	Calls
	Details  map[string]party.Profile
	Posts    source.Result[[]party.Post]
	Trending source.Result[source.TrendingPosts]
	Stats    source.Result[source.PlatformStats]
	LastRef  string
}

func (p *PageScraper) PageDetails(_ context.Context, pageURL string) (party.Profile, error) {
	p.record("details")
	d, ok := p.Details[pageURL]
	if !ok {
		return party.Profile{}, source.ErrNotFound
	}
	return d, nil
}

func (p *PageScraper) PagePosts(_ context.Context, pageRef string) source.Result[[]party.Post] {
	p.record("posts")
	p.LastRef = pageRef
	return p.Posts
}

func (p *PageScraper) TrendingPosts(context.Context, party.Party) source.Result[source.TrendingPosts] {
	p.record("trending")
	return p.Trending
}

func (p *PageScraper) PartyStats(context.Context) source.Result[source.PlatformStats] {
	p.record("stats")
	return p.Stats
}

func (p *PageScraper) ClearCache() { p.cleared.Add(1) }

// VideoPlatform is a configurable source.VideoPlatform
type VideoPlatform struct {
	Calls
	Results   source.Result[[]party.Video]
	Trending  source.Result[source.TrendingVideos]
	Channels  map[string]party.Profile
	Stats     source.Result[source.PlatformStats]
	LastParty party.Party
}

func (v *VideoPlatform) Search(context.Context, string, int) source.Result[[]party.Video] {
	v.record("search")
	return v.Results
}

func (v *VideoPlatform) TrendingVideos(_ context.Context, only party.Party) source.Result[source.TrendingVideos] {
	v.record("trending")
	v.LastParty = only
	return v.Trending
}

func (v *VideoPlatform) ChannelDetails(_ context.Context, channelID string) (party.Profile, error) {
	v.record("channel")
	c, ok := v.Channels[channelID]
	if !ok {
		return party.Profile{}, source.ErrNotFound
	}
	return c, nil
}

func (v *VideoPlatform) PartyStats(context.Context) source.Result[source.PlatformStats] {
	v.record("stats")
	return v.Stats
}

func (v *VideoPlatform) ClearCache() { v.cleared.Add(1) }

// SearchTrends is a configurable source.SearchTrends
type SearchTrends struct {
	Calls
	Interest      source.Result[source.Interest]
	Regional      source.Result[[]source.RegionInterest]
	Related       source.Result[source.RelatedQueries]
	Breakouts     source.Result[[]source.Breakout]
	LastTimeframe string
}

func (s *SearchTrends) InterestOverTime(_ context.Context, timeframe string) source.Result[source.Interest] {
	s.record("interest")
	s.LastTimeframe = timeframe
	return s.Interest
}

func (s *SearchTrends) RegionalInterest(context.Context) source.Result[[]source.RegionInterest] {
	s.record("regional")
	return s.Regional
}

func (s *SearchTrends) RelatedQueries(context.Context) source.Result[source.RelatedQueries] {
	s.record("related")
	return s.Related
}

func (s *SearchTrends) BreakoutTopics(context.Context) source.Result[[]source.Breakout] {
	s.record("breakouts")
	return s.Breakouts
}

func (s *SearchTrends) ClearCache() { s.cleared.Add(1) }

// News is a configurable source.News
type News struct {
	Calls
	Digest source.Result[source.NewsDigest]
	Stats  source.Result[source.NewsStats]
}

func (n *News) AllNews(context.Context) source.Result[source.NewsDigest] {
	n.record("all")
	return n.Digest
}

func (n *News) NewsStats(context.Context) source.Result[source.NewsStats] {
	n.record("stats")
	return n.Stats
}

func (n *News) ClearCache() { n.cleared.Add(1) }
