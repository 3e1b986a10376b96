package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partypulse/internal/domain/party"
	"partypulse/internal/domain/source"
	"partypulse/internal/domain/source/sourcetest"
	"partypulse/internal/logger"
)

type fixture struct {
	twitter   *sourcetest.Microblog
	instagram *sourcetest.ImagePlatform
	facebook  *sourcetest.PageScraper
	youtube   *sourcetest.VideoPlatform
	news      *sourcetest.News
}

func newFixture() *fixture {
	return &fixture{
		twitter: &sourcetest.Microblog{
			Stats: sourcetest.Stats(
				source.PlatformParty{Followers: 2_800_000, Engagement: 30_000},
				source.PlatformParty{Followers: 2_100_000, Engagement: 10_000},
			),
		},
		instagram: &sourcetest.ImagePlatform{
			Stats: sourcetest.Stats(
				source.PlatformParty{Followers: 1_600_000, Engagement: 20_000, Posts: 5},
				source.PlatformParty{Followers: 990_000, Engagement: 10_000, Posts: 3},
			),
		},
		facebook: &sourcetest.PageScraper{
			Stats: sourcetest.Stats(
				source.PlatformParty{Followers: 3_200_000},
				source.PlatformParty{Followers: 2_400_000},
			),
		},
		youtube: &sourcetest.VideoPlatform{
			Stats: sourcetest.Stats(
				source.PlatformParty{Followers: 750_000, Posts: 14, Views: 4_000_000},
				source.PlatformParty{Followers: 600_000, Posts: 11, Views: 2_500_000},
			),
		},
		news: &sourcetest.News{
			Stats: source.Live(source.NewsStats{
				YSRCP: source.NewsPartyStats{Mentions: 12, Reach: 600_000, Sentiment: source.Distribution{Positive: 50, Negative: 30, Neutral: 20}},
				TDP:   source.NewsPartyStats{Mentions: 9, Reach: 450_000, Sentiment: source.Distribution{Positive: 40, Negative: 40, Neutral: 20}},
			}, sourcetest.Now),
		},
	}
}

func (f *fixture) service(opts ...Option) *Service {
	opts = append([]Option{WithClock(func() time.Time { return sourcetest.Now })}, opts...)
	return NewService(Sources{
		Twitter:   f.twitter,
		Instagram: f.instagram,
		Facebook:  f.facebook,
		YouTube:   f.youtube,
		News:      f.news,
	}, Config{TTL: 15 * time.Minute, PlatformTTL: 30 * time.Minute}, logger.NewNop(), opts...)
}

type fakeRecorder struct {
	saved []party.Overall
	err   error
}

func (r *fakeRecorder) SaveSnapshot(_ context.Context, o party.Overall) error {
	r.saved = append(r.saved, o)
	return r.err
}

func TestOverallCombinesLiveSources(t *testing.T) {
	f := newFixture()
	o := f.service().Overall(context.Background())

	require.True(t, o.IsLive)
	assert.Equal(t, int64(6_000_000), o.YSRCP.TotalFollowers)
	assert.Equal(t, int64(50_000), o.YSRCP.TotalEngagement)
	assert.Equal(t, int64(900_000), o.YSRCP.TotalReach)
	assert.Equal(t, int64(15), o.YSRCP.PostsToday)
	assert.Equal(t, 5.6, o.YSRCP.AvgEngagementRate)
	assert.Equal(t, 71, o.YSRCP.ShareOfVoice)
	assert.Equal(t, 75, o.YSRCP.SentimentScore, "clamped at the upper bound")

	assert.Equal(t, int64(4_500_000), o.TDP.TotalFollowers)
	assert.Equal(t, int64(20_000), o.TDP.TotalEngagement)
	assert.Equal(t, int64(13), o.TDP.PostsToday)
	assert.Equal(t, 3.0, o.TDP.AvgEngagementRate)
	assert.Equal(t, 29, o.TDP.ShareOfVoice)
	assert.Equal(t, 73, o.TDP.SentimentScore)
	assert.Equal(t, sourcetest.Now, o.LastUpdated)
}

func TestOverallIgnoresFallbackSources(t *testing.T) {
	f := newFixture()
	f.twitter.Stats.IsLive = false
	f.instagram.Stats.IsLive = false
	f.facebook.Stats.IsLive = false

	o := f.service().Overall(context.Background())
	assert.False(t, o.IsLive)
	assert.Zero(t, o.YSRCP.TotalFollowers)
	assert.Zero(t, o.TDP.TotalEngagement)
	assert.Equal(t, int64(10), o.YSRCP.PostsToday)
	assert.Equal(t, 3.5, o.YSRCP.AvgEngagementRate)
	assert.Equal(t, 2.8, o.TDP.AvgEngagementRate)
	assert.Equal(t, 50, o.YSRCP.ShareOfVoice)
	assert.Equal(t, 50, o.TDP.ShareOfVoice)
	assert.Equal(t, 70, o.YSRCP.SentimentScore)
	assert.Equal(t, 65, o.TDP.SentimentScore)
}

func TestOverallIsCachedAndIdentical(t *testing.T) {
	f := newFixture()
	rec := &fakeRecorder{}
	s := f.service(WithRecorder(rec))

	first, err := json.Marshal(s.Overall(context.Background()))
	require.NoError(t, err)
	second, err := json.Marshal(s.Overall(context.Background()))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.Equal(t, 1, f.twitter.Count("stats"))
	assert.Len(t, rec.saved, 1)

	s.ClearCache()
	s.Overall(context.Background())
	assert.Equal(t, 2, f.twitter.Count("stats"))
	assert.Len(t, rec.saved, 2)
}

func TestOverallRecorderFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	s := f.service(WithRecorder(&fakeRecorder{err: errors.New("db down")}))
	o := s.Overall(context.Background())
	assert.True(t, o.IsLive)
}

func TestShareOfVoiceSumsTo100(t *testing.T) {
	cases := [][2]int64{{0, 0}, {1, 2}, {333, 667}, {5, 0}, {0, 9}, {12345, 54321}}
	for _, c := range cases {
		t.Run(fmt.Sprintf("%d_%d", c[0], c[1]), func(t *testing.T) {
			y, d := ShareOfVoice(c[0], c[1])
			assert.Equal(t, 100, y+d)
		})
	}
	y, d := ShareOfVoice(0, 0)
	assert.Equal(t, 50, y)
	assert.Equal(t, 50, d)
}

func TestSentimentScoreBounds(t *testing.T) {
	for _, ps := range []party.PartyStats{
		{},
		{AvgEngagementRate: 100, TotalFollowers: 10_000_000, TotalEngagement: 1_000_000},
		{AvgEngagementRate: 0.1, TotalFollowers: 10, TotalEngagement: 10},
	} {
		for _, p := range party.Tracked {
			score := SentimentScore(ps, p)
			assert.GreaterOrEqual(t, score, 30)
			assert.LessOrEqual(t, score, 75)
		}
	}
	assert.Equal(t, 56, SentimentScore(party.PartyStats{AvgEngagementRate: 0.1}, party.YSRCP))
	assert.Equal(t, 54, SentimentScore(party.PartyStats{AvgEngagementRate: 0.1}, party.TDP))
}

func TestSentimentBattle(t *testing.T) {
	f := newFixture()
	b := f.service().SentimentBattle(context.Background())

	assert.Equal(t, party.YSRCP, b.Leader)
	assert.Equal(t, 2, b.Difference)
	assert.Equal(t, 75, b.YSRCP.Score)
	assert.Equal(t, 71, b.YSRCP.ShareOfVoice)
	assert.Equal(t, 3.0, b.TDP.AvgEngagementRate)
	assert.True(t, b.IsLive)
}

func TestPlatformComparison(t *testing.T) {
	f := newFixture()
	f.instagram.Stats.IsLive = false
	c := f.service().PlatformComparison(context.Background())

	assert.Equal(t, int64(2_800_000), c.Twitter.YSRCP.Followers)
	assert.Equal(t, int64(10_000), c.Twitter.TDP.Engagement)
	assert.True(t, c.Twitter.IsLive)
	assert.Equal(t, int64(5), c.Instagram.YSRCP.Posts)
	assert.False(t, c.Instagram.IsLive)
}

func TestPlatformStats(t *testing.T) {
	f := newFixture()
	f.twitter.Stats = sourcetest.Stats(
		source.PlatformParty{Followers: 3_000_000},
		source.PlatformParty{},
	)
	f.facebook.Stats.IsLive = false

	ps := f.service().PlatformStats(context.Background())

	tw := ps.Twitter
	assert.Equal(t, "Twitter / X", tw.Name)
	assert.Equal(t, int64(3_000_000), tw.YSRCP.Followers)
	assert.Equal(t, int64(15_000), tw.YSRCP.FollowersGrowth)
	assert.Equal(t, int64(4_500_000), tw.YSRCP.Reach)
	assert.Equal(t, 4.5, tw.YSRCP.EngagementRate)
	assert.Equal(t, int64(45), tw.YSRCP.Posts)
	assert.Equal(t, int64(2_100_000), tw.TDP.Followers, "zero live count uses the baseline")
	assert.Equal(t, 3.6, tw.TDP.EngagementRate)
	assert.True(t, tw.IsLive)

	fb := ps.Facebook
	assert.Equal(t, int64(3_200_000), fb.YSRCP.Followers)
	assert.Equal(t, 5.2, fb.YSRCP.EngagementRate)
	assert.False(t, fb.IsLive)

	ig := ps.Instagram
	assert.Equal(t, int64(1_600_000), ig.YSRCP.Followers)
	assert.Equal(t, int64(5), ig.YSRCP.Posts)
	assert.Equal(t, int64(20_000), ig.YSRCP.Engagement)
	assert.Equal(t, 6.8, ig.YSRCP.EngagementRate)

	yt := ps.YouTube
	assert.Equal(t, int64(750_000), yt.YSRCP.Followers)
	assert.Equal(t, int64(4_000_000), yt.YSRCP.Reach)
	assert.Equal(t, int64(11), yt.TDP.Posts)
	assert.Equal(t, int64(89_000), yt.YSRCP.Engagement)

	assert.Equal(t, 12, ps.News.YSRCP.Mentions)
	assert.Equal(t, int64(450_000), ps.News.TDP.Reach)
	assert.True(t, ps.News.IsLive)

	again := f.service().PlatformStats(context.Background())
	assert.Equal(t, ps, again, "deterministic across instances")
}

func TestPlatformStatsYouTubeBaseline(t *testing.T) {
	f := newFixture()
	f.youtube.Stats.IsLive = false
	yt := f.service().PlatformStats(context.Background()).YouTube

	assert.Equal(t, int64(720_000), yt.YSRCP.Followers)
	assert.Equal(t, int64(2_400_000), yt.TDP.Reach)
	assert.Equal(t, int64(12), yt.YSRCP.Posts)
	assert.False(t, yt.IsLive)
}

func TestHashtagsCapped(t *testing.T) {
	f := newFixture()
	topics := make([]source.Topic, 20)
	for i := range topics {
		topics[i] = source.Topic{Tag: fmt.Sprintf("#tag%d", i), Count: 20 - i}
	}
	f.twitter.Topics = source.Live(topics, sourcetest.Now)

	res := f.service().Hashtags(context.Background())
	assert.Len(t, res.Data, 15)
	assert.True(t, res.IsLive)
	assert.Equal(t, "#tag0", res.Data[0].Tag)
}

func TestPlatformTotals(t *testing.T) {
	ps := PlatformStats{
		Twitter:   PlatformBreakdown{YSRCP: PlatformFigures{Followers: 100, Engagement: 10, Reach: 200, Posts: 1}, TDP: PlatformFigures{Followers: 50, Engagement: 10, Reach: 100, Posts: 2}},
		Instagram: PlatformBreakdown{YSRCP: PlatformFigures{Followers: 100, Engagement: 20, Reach: 200, Posts: 3}, TDP: PlatformFigures{Followers: 50, Engagement: 0, Reach: 100, Posts: 4}, IsLive: true},
	}

	y, d := ps.Totals()
	assert.Equal(t, int64(200), y.TotalFollowers)
	assert.Equal(t, int64(30), y.TotalEngagement)
	assert.Equal(t, int64(400), y.TotalReach)
	assert.Equal(t, int64(4), y.PostsToday)
	assert.Equal(t, 7.5, y.AvgEngagementRate)
	assert.Equal(t, 75, y.ShareOfVoice)
	assert.Equal(t, 25, d.ShareOfVoice)
	assert.Equal(t, 5.0, d.AvgEngagementRate)
	assert.True(t, ps.AnyLive())
	assert.False(t, PlatformStats{}.AnyLive())
}
