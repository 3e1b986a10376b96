// internal/adapter/source/youtube/parse.go

package youtube

import (
	"fmt"
	"strconv"
	"strings"

	"partypulse/internal/adapter/source/rapidapi"
	"partypulse/internal/domain/party"
)

type searchResponse struct {
	Contents []struct {
		Video *videoItem `json:"video"`
	} `json:"contents"`
}

type videoItem struct {
	VideoID string `json:"videoId"`
	Title   string `json:"title"`
	Author  struct {
		Title     string `json:"title"`
		ChannelID string `json:"channelId"`
	} `json:"author"`
	Thumbnails []struct {
		URL string `json:"url"`
	} `json:"thumbnails"`
	Stats struct {
		Views   rapidapi.FlexString `json:"views"`
		Viewers rapidapi.FlexString `json:"viewers"`
	} `json:"stats"`
	IsLiveNow         bool                `json:"isLiveNow"`
	LengthSeconds     rapidapi.FlexString `json:"lengthSeconds"`
	LengthText        string              `json:"lengthText"`
	PublishedTimeText string              `json:"publishedTimeText"`
}

func (v *videoItem) toVideo() party.Video {
	var thumbnail string
	if n := len(v.Thumbnails); n > 0 {
		thumbnail = v.Thumbnails[n-1].URL
	}

	viewText := string(v.Stats.Views)
	if viewText == "" {
		viewText = string(v.Stats.Viewers)
	}
	views := ParseViewCount(viewText)

	viewsText := party.FormatCount(views)
	if views == 0 {
		viewsText = "0"
		if v.IsLiveNow {
			viewsText = "LIVE"
		}
	}

	return party.Video{
		ID:            v.VideoID,
		Title:         v.Title,
		Channel:       v.Author.Title,
		ChannelID:     v.Author.ChannelID,
		Thumbnail:     thumbnail,
		Views:         views,
		ViewsText:     viewsText,
		Duration:      duration(string(v.LengthSeconds), v.LengthText, v.IsLiveNow),
		PublishedTime: v.PublishedTimeText,
		IsLive:        v.IsLiveNow,
		URL:           "https://www.youtube.com/watch?v=" + v.VideoID,
	}
}

func duration(lengthSeconds, lengthText string, live bool) string {
	if live {
		return "LIVE"
	}
	if lengthSeconds == "" || lengthSeconds == "0" {
		if lengthText != "" {
			return lengthText
		}
		return "0:00"
	}

	secs, err := strconv.Atoi(lengthSeconds)
	if err != nil {
		return "0:00"
	}
	h, m, s := secs/3600, secs/60%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// View count suffixes, longest first so "cr" and "lakh" win over "l" and "k"
var viewSuffixes = []struct {
	suffix     string
	multiplier float64
}{
	{"cr", 10_000_000},
	{"lakh", 100_000},
	{"l", 100_000},
	{"k", 1_000},
	{"m", 1_000_000},
	{"b", 1_000_000_000},
}

// ParseViewCount reads view counts such as "1,234 views", "1.2M views",
// "3.4L" or "2Cr". Unreadable text yields zero.
func ParseViewCount(text string) int64 {
	t := strings.ToLower(text)
	t = strings.ReplaceAll(t, "views", "")
	t = strings.ReplaceAll(t, "watching", "")
	t = strings.ReplaceAll(t, ",", "")
	t = strings.TrimSpace(t)
	if t == "" {
		return 0
	}

	multiplier := 1.0
	for _, s := range viewSuffixes {
		if strings.HasSuffix(t, s.suffix) {
			multiplier = s.multiplier
			t = strings.TrimSpace(strings.TrimSuffix(t, s.suffix))
			break
		}
	}

	n, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0
	}
	return int64(n * multiplier)
}

type channelResponse struct {
	ChannelID   string `json:"channelId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsVerified  bool   `json:"isVerified"`
	Avatar      []struct {
		URL string `json:"url"`
	} `json:"avatar"`
	Stats struct {
		Subscribers int64 `json:"subscribers"`
		Videos      int64 `json:"videos"`
		Views       int64 `json:"views"`
	} `json:"stats"`
}

// channelStats is a channel summary plus its lifetime view count
type channelStats struct {
	Profile party.Profile
	Views   int64
}

func (r channelResponse) toStats(requested string) channelStats {
	id := r.ChannelID
	if id == "" {
		id = requested
	}
	var avatar string
	if len(r.Avatar) > 0 {
		avatar = r.Avatar[0].URL
	}
	return channelStats{
		Profile: party.Profile{
			ID:        id,
			Username:  id,
			Name:      r.Title,
			Avatar:    avatar,
			Bio:       r.Description,
			Verified:  r.IsVerified,
			Followers: r.Stats.Subscribers,
			Posts:     r.Stats.Videos,
			URL:       "https://www.youtube.com/channel/" + id,
		},
		Views: r.Stats.Views,
	}
}
