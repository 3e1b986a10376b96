// internal/adapter/source/twitter/rapid.go

package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"partypulse/internal/adapter/source/rapidapi"
	"partypulse/internal/domain/party"
	"partypulse/internal/domain/source"
)

// RapidBackend reads the microblog through the twitter241 RapidAPI upstream
type RapidBackend struct {
	api *rapidapi.Client
}

// NewRapidBackend creates a backend over a RapidAPI client
func NewRapidBackend(api *rapidapi.Client) *RapidBackend {
	return &RapidBackend{api: api}
}

// Search returns the latest tweets matching query
func (b *RapidBackend) Search(ctx context.Context, query string, count int) ([]party.Post, error) {
	params := url.Values{
		"query": {query},
		"type":  {"Latest"},
		"count": {strconv.Itoa(count)},
	}

	var resp searchResponse
	if err := b.api.GetJSON(ctx, "/search", params, &resp); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	var posts []party.Post
	for _, ins := range resp.Result.Timeline.Instructions {
		if ins.Type != "TimelineAddEntries" {
			continue
		}
		for _, entry := range ins.Entries {
			content := entry.Content
			if content.EntryType != "TimelineTimelineItem" || content.ItemContent.ItemType != "TimelineTweet" {
				continue
			}
			if post, ok := parseTweet(content.ItemContent.TweetResults.Result); ok {
				posts = append(posts, post)
			}
		}
	}

	return posts, nil
}

// UserProfile looks up an account by handle
func (b *RapidBackend) UserProfile(ctx context.Context, username string) (party.Profile, error) {
	var resp userResponse
	if err := b.api.GetJSON(ctx, "/user", url.Values{"username": {username}}, &resp); err != nil {
		return party.Profile{}, fmt.Errorf("user %q: %w", username, err)
	}

	u := resp.Result.Data.User.Result
	if u.RestID == "" {
		return party.Profile{}, source.ErrNotFound
	}

	handle := u.Core.ScreenName
	if handle == "" {
		handle = username
	}
	joined, _ := time.Parse(time.RubyDate, u.Core.CreatedAt)

	return party.Profile{
		ID:        u.RestID,
		Username:  handle,
		Name:      u.Core.Name,
		Avatar:    largeAvatar(u.Avatar.ImageURL),
		Banner:    u.Legacy.ProfileBannerURL,
		Bio:       u.Legacy.Description,
		Verified:  u.IsBlueVerified,
		Followers: u.Legacy.FollowersCount,
		Following: u.Legacy.FriendsCount,
		Posts:     u.Legacy.StatusesCount,
		Likes:     u.Legacy.FavouritesCount,
		URL:       "https://twitter.com/" + handle,
		JoinedAt:  joined,
	}, nil
}

// parseTweet converts one tweet_results.result node. Malformed or
// non-tweet nodes are skipped.
func parseTweet(raw json.RawMessage) (party.Post, bool) {
	if len(raw) == 0 {
		return party.Post{}, false
	}

	var t tweetResult
	if err := json.Unmarshal(raw, &t); err != nil {
		return party.Post{}, false
	}
	if t.Typename == "TweetWithVisibilityResults" && t.Tweet != nil {
		t = *t.Tweet
	}
	if t.Typename != "" && t.Typename != "Tweet" {
		return party.Post{}, false
	}
	if t.RestID == "" {
		return party.Post{}, false
	}

	user := t.Core.UserResults.Result
	author := party.Author{
		ID:        user.RestID,
		Name:      user.Core.Name,
		Handle:    user.Core.ScreenName,
		Avatar:    largeAvatar(user.Avatar.ImageURL),
		Verified:  user.IsBlueVerified,
		Followers: user.Legacy.FollowersCount,
	}

	views, _ := strconv.ParseInt(t.Views.Count, 10, 64)
	media := parseMedia(t.Legacy.ExtendedEntities.Media)
	created, _ := time.Parse(time.RubyDate, t.Legacy.CreatedAt)

	lang := t.Legacy.Lang
	if lang == "" {
		lang = "en"
	}

	post := party.Post{
		ID:       t.RestID,
		Platform: sourceName,
		Text:     t.Legacy.FullText,
		Author:   author,
		Engagement: party.Engagement{
			Likes:    t.Legacy.FavoriteCount,
			Shares:   t.Legacy.RetweetCount,
			Comments: t.Legacy.ReplyCount,
			Quotes:   t.Legacy.QuoteCount,
			Views:    views,
		},
		Media:     media,
		HasMedia:  len(media) > 0,
		Timestamp: created,
		URL:       fmt.Sprintf("https://twitter.com/%s/status/%s", author.Handle, t.RestID),
		Party:     party.Classify(t.Legacy.FullText),
		Lang:      lang,
	}
	for _, m := range media {
		if m.Type == "video" {
			post.HasVideo = true
		}
	}

	return post, true
}

func parseMedia(items []mediaEntity) []party.Media {
	media := make([]party.Media, 0, len(items))
	for _, m := range items {
		item := party.Media{
			Type:      m.Type,
			URL:       m.MediaURLHTTPS,
			Thumbnail: m.MediaURLHTTPS,
		}
		if item.Type == "" {
			item.Type = "photo"
		}
		if m.Type == "video" {
			var best int
			for _, v := range m.VideoInfo.Variants {
				if v.ContentType == "video/mp4" && (item.VideoURL == "" || v.Bitrate > best) {
					item.VideoURL = v.URL
					best = v.Bitrate
				}
			}
		}
		media = append(media, item)
	}
	return media
}

func largeAvatar(u string) string {
	return strings.Replace(u, "_normal", "_400x400", 1)
}

// Upstream response shapes

type searchResponse struct {
	Result struct {
		Timeline struct {
			Instructions []struct {
				Type    string `json:"type"`
				Entries []struct {
					Content struct {
						EntryType   string `json:"entryType"`
						ItemContent struct {
							ItemType     string `json:"itemType"`
							TweetResults struct {
								Result json.RawMessage `json:"result"`
							} `json:"tweet_results"`
						} `json:"itemContent"`
					} `json:"content"`
				} `json:"entries"`
			} `json:"instructions"`
		} `json:"timeline"`
	} `json:"result"`
}

type tweetResult struct {
	Typename string       `json:"__typename"`
	RestID   string       `json:"rest_id"`
	Tweet    *tweetResult `json:"tweet"`
	Core     struct {
		UserResults struct {
			Result userResult `json:"result"`
		} `json:"user_results"`
	} `json:"core"`
	Legacy struct {
		FullText         string `json:"full_text"`
		FavoriteCount    int64  `json:"favorite_count"`
		RetweetCount     int64  `json:"retweet_count"`
		ReplyCount       int64  `json:"reply_count"`
		QuoteCount       int64  `json:"quote_count"`
		CreatedAt        string `json:"created_at"`
		Lang             string `json:"lang"`
		ExtendedEntities struct {
			Media []mediaEntity `json:"media"`
		} `json:"extended_entities"`
	} `json:"legacy"`
	Views struct {
		Count string `json:"count"`
	} `json:"views"`
}

type mediaEntity struct {
	Type          string `json:"type"`
	MediaURLHTTPS string `json:"media_url_https"`
	VideoInfo     struct {
		Variants []struct {
			ContentType string `json:"content_type"`
			Bitrate     int    `json:"bitrate"`
			URL         string `json:"url"`
		} `json:"variants"`
	} `json:"video_info"`
}

type userResult struct {
	RestID         string `json:"rest_id"`
	IsBlueVerified bool   `json:"is_blue_verified"`
	Avatar         struct {
		ImageURL string `json:"image_url"`
	} `json:"avatar"`
	Core struct {
		Name       string `json:"name"`
		ScreenName string `json:"screen_name"`
		CreatedAt  string `json:"created_at"`
	} `json:"core"`
	Legacy struct {
		FollowersCount   int64  `json:"followers_count"`
		FriendsCount     int64  `json:"friends_count"`
		StatusesCount    int64  `json:"statuses_count"`
		FavouritesCount  int64  `json:"favourites_count"`
		Description      string `json:"description"`
		ProfileBannerURL string `json:"profile_banner_url"`
	} `json:"legacy"`
}

type userResponse struct {
	Result struct {
		Data struct {
			User struct {
				Result userResult `json:"result"`
			} `json:"user"`
		} `json:"data"`
	} `json:"result"`
}
