// internal/domain/source/model.go

package source

import (
	"errors"

	"partypulse/internal/domain/party"
)

// ErrNotFound is returned by lookups whose subject does not exist upstream
var ErrNotFound = errors.New("not found")

// PartyPosts is one party's slice of a trending feed
type PartyPosts struct {
	Posts           []party.Post `json:"posts"`
	TotalEngagement int64        `json:"totalEngagement"`
}

// TrendingPosts is a per-party trending feed plus the combined ranking
type TrendingPosts struct {
	YSRCP    PartyPosts   `json:"ysrcp"`
	TDP      PartyPosts   `json:"tdp"`
	Combined []party.Post `json:"combined"`
}

// For returns the posts for a tracked party
func (t TrendingPosts) For(p party.Party) PartyPosts {
	if p == party.TDP {
		return t.TDP
	}
	return t.YSRCP
}

// Topic is a hashtag seen in recent microblog activity
type Topic struct {
	Tag        string      `json:"tag"`
	Count      int         `json:"count"`
	Engagement int64       `json:"engagement"`
	Party      party.Party `json:"party"`
	Sentiment  string      `json:"sentiment"`
	Trending   bool        `json:"trending"`
}

// Influencer is an account that posted about the parties recently
type Influencer struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Handle         string `json:"handle"`
	Avatar         string `json:"avatar"`
	Verified       bool   `json:"verified"`
	Followers      int64  `json:"followers"`
	Platform       string `json:"platform"`
	RecentMentions int    `json:"recentMentions"`
	Engagement     int64  `json:"engagement"`
	YSRCPMentions  int    `json:"ysrcpMentions"`
	TDPMentions    int    `json:"tdpMentions"`
	Sentiment      string `json:"sentiment"`
}

// InfluencerStats summarizes an influencer report
type InfluencerStats struct {
	TotalReach    int64 `json:"totalReach"`
	TotalMentions int   `json:"totalMentions"`
	ProYSRCP      int   `json:"proYsrcp"`
	ProTDP        int   `json:"proTdp"`
	Neutral       int   `json:"neutral"`
}

// InfluencerReport is the ranked influencer list with its summary
type InfluencerReport struct {
	Influencers []Influencer    `json:"influencers"`
	Stats       InfluencerStats `json:"stats"`
}

// Account is an official party account on a platform
type Account struct {
	Handle    string `json:"handle"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	Verified  bool   `json:"verified"`
	Followers int64  `json:"followers"`
	Type      string `json:"type"`
}

// PlatformParty is one party's figures on a single platform
type PlatformParty struct {
	Followers  int64     `json:"followers"`
	Posts      int64     `json:"posts"`
	Engagement int64     `json:"engagement"`
	Views      int64     `json:"views,omitempty"`
	Accounts   []Account `json:"accounts"`
}

// PlatformStats pairs both parties' figures on a single platform
type PlatformStats struct {
	YSRCP PlatformParty `json:"ysrcp"`
	TDP   PlatformParty `json:"tdp"`
}

// For returns the figures for a tracked party
func (s PlatformStats) For(p party.Party) PlatformParty {
	if p == party.TDP {
		return s.TDP
	}
	return s.YSRCP
}

// PartyVideos is one party's slice of the trending videos
type PartyVideos struct {
	Videos     []party.Video `json:"videos"`
	TotalViews int64         `json:"totalViews"`
}

// TrendingVideos groups trending videos by party
type TrendingVideos struct {
	YSRCP   PartyVideos `json:"ysrcp"`
	TDP     PartyVideos `json:"tdp"`
	General PartyVideos `json:"general"`
}

// SearchInterest is the latest interest figure per party
type SearchInterest struct {
	YSRCP int    `json:"ysrcp"`
	TDP   int    `json:"tdp"`
	Trend string `json:"trend"`
}

// InterestPoint is one sample on the search interest timeline
type InterestPoint struct {
	Date  string `json:"date"`
	YSRCP int    `json:"ysrcp"`
	TDP   int    `json:"tdp"`
}

// Averages holds mean interest per party
type Averages struct {
	YSRCP float64 `json:"ysrcp"`
	TDP   float64 `json:"tdp"`
}

// Interest is search interest over time for both parties
type Interest struct {
	SearchInterest SearchInterest  `json:"searchInterest"`
	SearchTimeline []InterestPoint `json:"searchTimeline"`
	Averages       Averages        `json:"averages"`
}

// RegionInterest is the normalized interest split in one region
type RegionInterest struct {
	District string `json:"district"`
	YSRCP    int    `json:"ysrcp"`
	TDP      int    `json:"tdp"`
}

// RelatedQuery is a search query related to a party keyword
type RelatedQuery struct {
	Query      string `json:"query"`
	Interest   int    `json:"interest"`
	Change     string `json:"change"`
	Growth     int    `json:"-"`
	IsBreakout bool   `json:"isBreakout"`
}

// RelatedQueries groups related queries by party
type RelatedQueries struct {
	YSRCP []RelatedQuery `json:"ysrcp"`
	TDP   []RelatedQuery `json:"tdp"`
}

// Breakout is a related query with unusual growth
type Breakout struct {
	Topic  string      `json:"topic"`
	Growth string      `json:"growth"`
	Party  party.Party `json:"party"`
}

// PartyNews is one party's news coverage
type PartyNews struct {
	Articles      []party.Article `json:"articles"`
	TotalMentions int             `json:"totalMentions"`
	Sources       []string        `json:"sources"`
}

// TopicCount is a news topic keyword with its frequency
type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// NewsDigest is the combined news view for both parties
type NewsDigest struct {
	YSRCP    PartyNews    `json:"ysrcp"`
	TDP      PartyNews    `json:"tdp"`
	Trending []TopicCount `json:"trending"`
}

// Distribution is a positive/negative/neutral percentage split
type Distribution struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// NewsPartyStats is one party's news footprint
type NewsPartyStats struct {
	Mentions  int          `json:"mentions"`
	Reach     int64        `json:"reach"`
	Sentiment Distribution `json:"sentiment"`
}

// NewsStats pairs both parties' news footprints
type NewsStats struct {
	YSRCP NewsPartyStats `json:"ysrcp"`
	TDP   NewsPartyStats `json:"tdp"`
}
