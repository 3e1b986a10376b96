// internal/domain/party/model.go

package party

import "time"

// Author is the account that published a post
type Author struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Handle    string `json:"handle"`
	Avatar    string `json:"avatar"`
	Verified  bool   `json:"verified"`
	Followers int64  `json:"followers"`
}

// Engagement holds interaction counters. Counters a platform does not
// report stay zero.
type Engagement struct {
	Likes    int64 `json:"likes"`
	Shares   int64 `json:"shares"`
	Comments int64 `json:"comments"`
	Views    int64 `json:"views"`
	Quotes   int64 `json:"quotes"`
}

// Media is an attachment on a post
type Media struct {
	Type      string `json:"type"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
	VideoURL  string `json:"videoUrl,omitempty"`
}

// Post is a normalized social post from any platform
type Post struct {
	ID         string     `json:"id"`
	Platform   string     `json:"platform"`
	Text       string     `json:"text"`
	Author     Author     `json:"user"`
	Engagement Engagement `json:"engagement"`
	Media      []Media    `json:"media"`
	HasMedia   bool       `json:"hasMedia"`
	HasVideo   bool       `json:"hasVideo"`
	Type       string     `json:"type,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
	TimeAgo    string     `json:"timeAgo"`
	URL        string     `json:"url"`
	Party      Party      `json:"party"`
	Lang       string     `json:"lang,omitempty"`
}

// Video is a normalized video platform result
type Video struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Channel       string `json:"channel"`
	ChannelID     string `json:"channelId"`
	Thumbnail     string `json:"thumbnail"`
	Views         int64  `json:"views"`
	ViewsText     string `json:"viewsText"`
	Duration      string `json:"duration"`
	PublishedTime string `json:"publishedTime"`
	IsLive        bool   `json:"isLive"`
	URL           string `json:"url"`
	Party         Party  `json:"party"`
}

// Article is a normalized news article
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
	Party       Party     `json:"party"`
}

// Profile is an account or page summary on any platform
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Banner    string    `json:"banner,omitempty"`
	Bio       string    `json:"bio"`
	Verified  bool      `json:"verified"`
	Followers int64     `json:"followers"`
	Following int64     `json:"following"`
	Posts     int64     `json:"posts"`
	Likes     int64     `json:"likes,omitempty"`
	Category  string    `json:"category,omitempty"`
	Website   string    `json:"website,omitempty"`
	URL       string    `json:"url"`
	JoinedAt  time.Time `json:"joinedAt,omitempty"`
}

// PartyStats is the per-party figure set shown on the dashboard
type PartyStats struct {
	TotalFollowers    int64   `json:"totalFollowers"`
	TotalEngagement   int64   `json:"totalEngagement"`
	TotalReach        int64   `json:"totalReach"`
	PostsToday        int64   `json:"postsToday"`
	AvgEngagementRate float64 `json:"avgEngagementRate"`
	ShareOfVoice      int     `json:"shareOfVoice"`
	SentimentScore    int     `json:"sentimentScore"`
}

// PlatformPartyStats is one party's raw figures on a single platform
type PlatformPartyStats struct {
	Followers  int64 `json:"followers"`
	Engagement int64 `json:"engagement"`
	Posts      int64 `json:"posts"`
}

// Overall is the aggregated figure set for both parties at one moment
type Overall struct {
	YSRCP       PartyStats `json:"ysrcp"`
	TDP         PartyStats `json:"tdp"`
	LastUpdated time.Time  `json:"lastUpdated"`
	IsLive      bool       `json:"isLive"`
}
