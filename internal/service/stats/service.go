// internal/service/stats/service.go

package stats

import (
	"context"
	"math"
	"time"

	"partypulse/internal/cache"
	"partypulse/internal/domain/party"
	"partypulse/internal/domain/source"
	"partypulse/internal/logger"
)

const (
	reachFraction  = 0.15
	postsBaseline  = 10
	hashtagLimit   = 15
	minSentiment   = 30
	maxSentiment   = 75
	baseSentiment  = 50
	ysrcpAdjust    = 2
	defaultRateY   = 3.5
	defaultRateTDP = 2.8
)

// Recorder archives freshly computed overall stats
type Recorder interface {
	SaveSnapshot(ctx context.Context, o party.Overall) error
}

// Config holds the aggregator cache lifetimes
type Config struct {
	TTL         time.Duration
	PlatformTTL time.Duration
}

// Sources bundles the adapters the aggregator reads
type Sources struct {
	Twitter   source.Microblog
	Instagram source.ImagePlatform
	Facebook  source.PageScraper
	YouTube   source.VideoPlatform
	News      source.News
}

// BattleSide is one party's side of the sentiment battle
type BattleSide struct {
	Score             int     `json:"score"`
	ShareOfVoice      int     `json:"shareOfVoice"`
	AvgEngagementRate float64 `json:"avgEngagementRate"`
}

// Battle compares the aggregator sentiment scores head to head
type Battle struct {
	YSRCP       BattleSide  `json:"ysrcp"`
	TDP         BattleSide  `json:"tdp"`
	Leader      party.Party `json:"leader"`
	Difference  int         `json:"difference"`
	LastUpdated time.Time   `json:"lastUpdated"`
	IsLive      bool        `json:"isLive"`
}

// PlatformPair is one platform's raw per-party numbers
type PlatformPair struct {
	YSRCP  party.PlatformPartyStats `json:"ysrcp"`
	TDP    party.PlatformPartyStats `json:"tdp"`
	IsLive bool                     `json:"isLive"`
}

// Comparison lays the microblog and image platform numbers side by side
type Comparison struct {
	Twitter     PlatformPair `json:"twitter"`
	Instagram   PlatformPair `json:"instagram"`
	LastUpdated time.Time    `json:"lastUpdated"`
}

// Option configures the Service
type Option func(*Service)

// WithRecorder archives every freshly computed overall result
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithClock overrides the clock used for timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service derives dashboard statistics from the source adapters
type Service struct {
	src      Sources
	log      logger.Logger
	recorder Recorder
	now      func() time.Time

	overall    *cache.Cache[string, party.Overall]
	battle     *cache.Cache[string, Battle]
	comparison *cache.Cache[string, Comparison]
	platforms  *cache.Cache[string, PlatformStats]
}

// NewService creates a stats aggregator
func NewService(src Sources, cfg Config, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		src:        src,
		log:        log.With(logger.String("component", "stats")),
		now:        time.Now,
		overall:    cache.New[string, party.Overall]("stats_overall", 1, cfg.TTL),
		battle:     cache.New[string, Battle]("stats_battle", 1, cfg.TTL),
		comparison: cache.New[string, Comparison]("stats_comparison", 1, cfg.TTL),
		platforms:  cache.New[string, PlatformStats]("stats_platforms", 1, cfg.PlatformTTL),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ClearCache drops every cached aggregate
func (s *Service) ClearCache() {
	s.overall.Clear()
	s.battle.Clear()
	s.comparison.Clear()
	s.platforms.Clear()
}

// Overall computes the engagement-based figures for both parties. The
// result is cached whole so repeated calls within the TTL are identical.
func (s *Service) Overall(ctx context.Context) party.Overall {
	o, _ := s.overall.GetOrCompute(ctx, "overall", func(ctx context.Context) (party.Overall, error) {
		o := s.computeOverall(ctx)
		if s.recorder != nil {
			if err := s.recorder.SaveSnapshot(ctx, o); err != nil {
				s.log.Warn("failed to archive stats snapshot", logger.Error(err))
			}
		}
		return o, nil
	})
	return o
}

type partyInputs struct {
	followers  int64
	engagement int64
	posts      int64
}

func (s *Service) computeOverall(ctx context.Context) party.Overall {
	tw := s.src.Twitter.PartyStats(ctx)
	ig := s.src.Instagram.PartyStats(ctx)
	fb := s.src.Facebook.PartyStats(ctx)

	inputs := func(p party.Party) partyInputs {
		var in partyInputs
		if tw.IsLive {
			in.followers += tw.Data.For(p).Followers
			in.engagement += tw.Data.For(p).Engagement
		}
		if ig.IsLive {
			in.engagement += ig.Data.For(p).Engagement
			in.posts += ig.Data.For(p).Posts
		}
		if fb.IsLive {
			in.followers += fb.Data.For(p).Followers
		}
		return in
	}

	y := partyFigures(inputs(party.YSRCP), defaultRateY)
	t := partyFigures(inputs(party.TDP), defaultRateTDP)

	y.ShareOfVoice, t.ShareOfVoice = ShareOfVoice(y.TotalEngagement, t.TotalEngagement)
	y.SentimentScore = SentimentScore(y, party.YSRCP)
	t.SentimentScore = SentimentScore(t, party.TDP)

	return party.Overall{
		YSRCP:       y,
		TDP:         t,
		LastUpdated: s.now(),
		IsLive:      tw.IsLive || ig.IsLive || fb.IsLive,
	}
}

func partyFigures(in partyInputs, defaultRate float64) party.PartyStats {
	reach := int64(float64(in.followers) * reachFraction)
	rate := defaultRate
	if reach > 0 {
		rate = round1(float64(in.engagement) / float64(reach) * 100)
	}
	return party.PartyStats{
		TotalFollowers:    in.followers,
		TotalEngagement:   in.engagement,
		TotalReach:        reach,
		PostsToday:        in.posts + postsBaseline,
		AvgEngagementRate: rate,
	}
}

// ShareOfVoice splits 100 points by engagement. No engagement at all is an
// even split. The two values always sum to 100.
func ShareOfVoice(ysrcpEngagement, tdpEngagement int64) (int, int) {
	total := ysrcpEngagement + tdpEngagement
	if total <= 0 {
		return 50, 50
	}
	y := int(math.RoundToEven(float64(ysrcpEngagement) / float64(total) * 100))
	return y, 100 - y
}

// SentimentScore is the engagement heuristic: a base of 50 plus banded
// bonuses for engagement rate, followers and total engagement, clamped to
// [30, 75]. It does not look at any text.
func SentimentScore(ps party.PartyStats, p party.Party) int {
	score := baseSentiment + min(15, int(ps.AvgEngagementRate*4))

	switch {
	case ps.TotalFollowers > 5_000_000:
		score += 10
	case ps.TotalFollowers > 3_000_000:
		score += 7
	case ps.TotalFollowers > 1_000_000:
		score += 4
	default:
		score += 2
	}

	switch {
	case ps.TotalEngagement > 50_000:
		score += 10
	case ps.TotalEngagement > 20_000:
		score += 7
	case ps.TotalEngagement > 5_000:
		score += 4
	default:
		score += 2
	}

	if p == party.YSRCP {
		score += ysrcpAdjust
	}
	return max(minSentiment, min(maxSentiment, score))
}

// SentimentBattle reports the aggregator scores head to head
func (s *Service) SentimentBattle(ctx context.Context) Battle {
	b, _ := s.battle.GetOrCompute(ctx, "battle", func(ctx context.Context) (Battle, error) {
		o := s.Overall(ctx)
		leader := party.TDP
		if o.YSRCP.SentimentScore > o.TDP.SentimentScore {
			leader = party.YSRCP
		}
		diff := o.YSRCP.SentimentScore - o.TDP.SentimentScore
		if diff < 0 {
			diff = -diff
		}
		return Battle{
			YSRCP:       battleSide(o.YSRCP),
			TDP:         battleSide(o.TDP),
			Leader:      leader,
			Difference:  diff,
			LastUpdated: s.now(),
			IsLive:      o.IsLive,
		}, nil
	})
	return b
}

func battleSide(ps party.PartyStats) BattleSide {
	return BattleSide{
		Score:             ps.SentimentScore,
		ShareOfVoice:      ps.ShareOfVoice,
		AvgEngagementRate: ps.AvgEngagementRate,
	}
}

// PlatformComparison returns the raw microblog and image platform numbers
func (s *Service) PlatformComparison(ctx context.Context) Comparison {
	c, _ := s.comparison.GetOrCompute(ctx, "comparison", func(ctx context.Context) (Comparison, error) {
		tw := s.src.Twitter.PartyStats(ctx)
		ig := s.src.Instagram.PartyStats(ctx)

		twitterSide := func(p party.Party) party.PlatformPartyStats {
			d := tw.Data.For(p)
			return party.PlatformPartyStats{Followers: d.Followers, Engagement: d.Engagement}
		}
		instagramSide := func(p party.Party) party.PlatformPartyStats {
			d := ig.Data.For(p)
			return party.PlatformPartyStats{Posts: d.Posts, Engagement: d.Engagement}
		}

		return Comparison{
			Twitter:     PlatformPair{YSRCP: twitterSide(party.YSRCP), TDP: twitterSide(party.TDP), IsLive: tw.IsLive},
			Instagram:   PlatformPair{YSRCP: instagramSide(party.YSRCP), TDP: instagramSide(party.TDP), IsLive: ig.IsLive},
			LastUpdated: s.now(),
		}, nil
	})
	return c
}

// Hashtags returns the microblog trending topics, at most fifteen
func (s *Service) Hashtags(ctx context.Context) source.Result[[]source.Topic] {
	res := s.src.Twitter.TrendingTopics(ctx)
	if len(res.Data) > hashtagLimit {
		res.Data = res.Data[:hashtagLimit]
	}
	return res
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
