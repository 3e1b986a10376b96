// internal/domain/source/adapter.go

package source

import (
	"context"

	"partypulse/internal/domain/party"
)

// Adapters never return upstream errors from feed operations. A failed or
// empty upstream call yields the adapter's fallback dataset with IsLive false.
// An empty party argument means both tracked parties.

// Microblog reads the microblog platform
type Microblog interface {
	SearchTweets(ctx context.Context, query string, count int) Result[[]party.Post]
	TrendingTweets(ctx context.Context, only party.Party) Result[TrendingPosts]
	TrendingTopics(ctx context.Context) Result[[]Topic]
	UserProfile(ctx context.Context, username string) (party.Profile, error)
	PartyStats(ctx context.Context) Result[PlatformStats]
	Influencers(ctx context.Context) Result[InfluencerReport]
	ClearCache()
}

// ImagePlatform reads the image-sharing platform
type ImagePlatform interface {
	UserProfile(ctx context.Context, username string) (party.Profile, error)
	UserPosts(ctx context.Context, username string) Result[[]party.Post]
	TrendingPosts(ctx context.Context, only party.Party) Result[TrendingPosts]
	PartyStats(ctx context.Context) Result[PlatformStats]
	ClearCache()
}

// PageScraper reads public pages through the page-scraping service
type PageScraper interface {
	PageDetails(ctx context.Context, pageURL string) (party.Profile, error)
	PagePosts(ctx context.Context, pageRef string) Result[[]party.Post]
	TrendingPosts(ctx context.Context, only party.Party) Result[TrendingPosts]
	PartyStats(ctx context.Context) Result[PlatformStats]
	ClearCache()
}

// VideoPlatform reads the video platform
type VideoPlatform interface {
	Search(ctx context.Context, query string, max int) Result[[]party.Video]
	TrendingVideos(ctx context.Context, only party.Party) Result[TrendingVideos]
	ChannelDetails(ctx context.Context, channelID string) (party.Profile, error)
	PartyStats(ctx context.Context) Result[PlatformStats]
	ClearCache()
}

// SearchTrends reads the search-trend service
type SearchTrends interface {
	InterestOverTime(ctx context.Context, timeframe string) Result[Interest]
	RegionalInterest(ctx context.Context) Result[[]RegionInterest]
	RelatedQueries(ctx context.Context) Result[RelatedQueries]
	BreakoutTopics(ctx context.Context) Result[[]Breakout]
	ClearCache()
}

// News reads news feeds
type News interface {
	AllNews(ctx context.Context) Result[NewsDigest]
	NewsStats(ctx context.Context) Result[NewsStats]
	ClearCache()
}
