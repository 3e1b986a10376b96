// internal/service/dashboard/service.go

// Package dashboard assembles the combined dashboard payload and drives
// manual refreshes across every source.
package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"partypulse/internal/domain/event"
	"partypulse/internal/domain/party"
	"partypulse/internal/domain/source"
	"partypulse/internal/logger"
	"partypulse/internal/service/sentiment"
	"partypulse/internal/service/stats"
)

// articlesPerParty caps the news articles embedded in the dashboard
const articlesPerParty = 5

// Sources bundles every adapter the dashboard reads
type Sources struct {
	stats.Sources
	Trends source.SearchTrends
}

// Trends groups the search trend views
type Trends struct {
	Interest       source.Result[source.Interest]         `json:"interest"`
	Regional       source.Result[[]source.RegionInterest] `json:"regional"`
	RelatedQueries source.Result[source.RelatedQueries]   `json:"relatedQueries"`
	BreakoutTopics source.Result[[]source.Breakout]       `json:"breakoutTopics"`
}

// NewsSide is one party's news slice of the dashboard
type NewsSide struct {
	Mentions int             `json:"mentions"`
	Articles []party.Article `json:"articles"`
}

// News is the dashboard news section
type News struct {
	YSRCP    NewsSide            `json:"ysrcp"`
	TDP      NewsSide            `json:"tdp"`
	Trending []source.TopicCount `json:"trending"`
	IsLive   bool                `json:"isLive"`
}

// Dashboard is the full payload served in one call
type Dashboard struct {
	OverallStats     party.Overall                          `json:"overallStats"`
	PlatformStats    stats.PlatformStats                    `json:"platformStats"`
	TrendingHashtags source.Result[[]source.Topic]          `json:"trendingHashtags"`
	GoogleTrends     Trends                                 `json:"googleTrends"`
	YouTube          source.Result[source.TrendingVideos]   `json:"youtube"`
	Twitter          source.Result[source.TrendingPosts]    `json:"twitter"`
	Instagram        source.Result[source.TrendingPosts]    `json:"instagram"`
	Facebook         source.Result[source.TrendingPosts]    `json:"facebook"`
	Influencers      source.Result[source.InfluencerReport] `json:"influencers"`
	Sentiment        sentiment.Comparison                   `json:"sentiment"`
	SentimentBattle  stats.Battle                           `json:"sentimentBattle"`
	News             News                                   `json:"news"`
	Alerts           []Alert                                `json:"alerts"`
	LastUpdated      time.Time                              `json:"lastUpdated"`
}

// Option configures the Service
type Option func(*Service)

// WithPublisher announces every refresh on the event bus
func WithPublisher(p event.Publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithClock overrides the clock used for timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service composes adapters, the stats aggregator and the sentiment scorer
type Service struct {
	src       Sources
	stats     *stats.Service
	sentiment *sentiment.Analyzer
	publisher event.Publisher
	log       logger.Logger
	now       func() time.Time
}

// NewService creates a dashboard service
func NewService(src Sources, agg *stats.Service, analyzer *sentiment.Analyzer, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		src:       src,
		stats:     agg,
		sentiment: analyzer,
		log:       log.With(logger.String("component", "dashboard")),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Dashboard gathers every section concurrently. Sections never fail; each
// falls back on its own.
func (s *Service) Dashboard(ctx context.Context) Dashboard {
	var d Dashboard
	var digest source.Result[source.NewsDigest]

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		d.OverallStats = s.stats.Overall(gctx)
		return nil
	})
	g.Go(func() error {
		d.PlatformStats = s.stats.PlatformStats(gctx)
		return nil
	})
	g.Go(func() error {
		d.SentimentBattle = s.stats.SentimentBattle(gctx)
		return nil
	})
	g.Go(func() error {
		d.TrendingHashtags = s.stats.Hashtags(gctx)
		return nil
	})
	g.Go(func() error {
		d.GoogleTrends = s.Trends(gctx)
		return nil
	})
	g.Go(func() error {
		d.YouTube = s.src.YouTube.TrendingVideos(gctx, "")
		return nil
	})
	g.Go(func() error {
		d.Twitter = s.src.Twitter.TrendingTweets(gctx, "")
		return nil
	})
	g.Go(func() error {
		d.Instagram = s.src.Instagram.TrendingPosts(gctx, "")
		return nil
	})
	g.Go(func() error {
		d.Facebook = s.src.Facebook.TrendingPosts(gctx, "")
		return nil
	})
	g.Go(func() error {
		d.Influencers = s.src.Twitter.Influencers(gctx)
		return nil
	})
	g.Go(func() error {
		digest = s.src.News.AllNews(gctx)
		return nil
	})
	_ = g.Wait()

	d.OverallStats = overlay(d.OverallStats, d.PlatformStats)
	d.Sentiment = s.compareDigest(ctx, digest.Data)
	d.News = newsSection(digest)
	d.Alerts = append([]Alert(nil), alerts...)
	d.LastUpdated = s.now()
	d.OverallStats.LastUpdated = d.LastUpdated
	return d
}

// overlay replaces the platform totals' derived metrics with the
// aggregator's, so the dashboard headline matches the battle figures.
func overlay(agg party.Overall, ps stats.PlatformStats) party.Overall {
	y, t := ps.Totals()
	y.SentimentScore, t.SentimentScore = agg.YSRCP.SentimentScore, agg.TDP.SentimentScore
	y.ShareOfVoice, t.ShareOfVoice = agg.YSRCP.ShareOfVoice, agg.TDP.ShareOfVoice
	y.AvgEngagementRate, t.AvgEngagementRate = agg.YSRCP.AvgEngagementRate, agg.TDP.AvgEngagementRate
	return party.Overall{
		YSRCP:  y,
		TDP:    t,
		IsLive: agg.IsLive || ps.AnyLive(),
	}
}

// Trends collects every search trend view
func (s *Service) Trends(ctx context.Context) Trends {
	var t Trends

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t.Interest = s.src.Trends.InterestOverTime(gctx, "")
		return nil
	})
	g.Go(func() error {
		t.Regional = s.src.Trends.RegionalInterest(gctx)
		return nil
	})
	g.Go(func() error {
		t.RelatedQueries = s.src.Trends.RelatedQueries(gctx)
		return nil
	})
	g.Go(func() error {
		t.BreakoutTopics = s.src.Trends.BreakoutTopics(gctx)
		return nil
	})
	_ = g.Wait()

	return t
}

// NewsSentiment scores the current news coverage of both parties
func (s *Service) NewsSentiment(ctx context.Context) sentiment.Comparison {
	return s.compareDigest(ctx, s.src.News.AllNews(ctx).Data)
}

func (s *Service) compareDigest(ctx context.Context, d source.NewsDigest) sentiment.Comparison {
	return s.sentiment.Compare(ctx, articleTexts(d.YSRCP.Articles), articleTexts(d.TDP.Articles))
}

func articleTexts(articles []party.Article) []string {
	texts := make([]string, 0, len(articles))
	for _, a := range articles {
		texts = append(texts, a.Title+" "+a.Description)
	}
	return texts
}

func newsSection(res source.Result[source.NewsDigest]) News {
	side := func(pn source.PartyNews) NewsSide {
		articles := pn.Articles
		if len(articles) > articlesPerParty {
			articles = articles[:articlesPerParty]
		}
		return NewsSide{Mentions: pn.TotalMentions, Articles: articles}
	}
	return News{
		YSRCP:    side(res.Data.YSRCP),
		TDP:      side(res.Data.TDP),
		Trending: res.Data.Trending,
		IsLive:   res.IsLive,
	}
}
