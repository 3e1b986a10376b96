// internal/adapter/source/instagram/parse.go

package instagram

import (
	"fmt"
	"time"

	"partypulse/internal/adapter/source/rapidapi"
	"partypulse/internal/domain/party"
)

type profileResponse struct {
	Result *profileResult `json:"result"`
}

type profileResult struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	Biography    string `json:"biography"`
	ProfilePicHD string `json:"profile_pic_url_hd"`
	IsVerified   bool   `json:"is_verified"`
	EdgeFollowedBy struct {
		Count int64 `json:"count"`
	} `json:"edge_followed_by"`
	EdgeFollow struct {
		Count int64 `json:"count"`
	} `json:"edge_follow"`
	EdgeMedia struct {
		Count int64 `json:"count"`
	} `json:"edge_owner_to_timeline_media"`
}

func (r *profileResult) toProfile(requested string) party.Profile {
	username := r.Username
	if username == "" {
		username = requested
	}
	return party.Profile{
		ID:        r.ID,
		Username:  username,
		Name:      r.FullName,
		Avatar:    r.ProfilePicHD,
		Bio:       r.Biography,
		Verified:  r.IsVerified,
		Followers: r.EdgeFollowedBy.Count,
		Following: r.EdgeFollow.Count,
		Posts:     r.EdgeMedia.Count,
		URL:       fmt.Sprintf("https://www.instagram.com/%s/", username),
	}
}

type postsResponse struct {
	Result struct {
		Edges []struct {
			Node postNode `json:"node"`
		} `json:"edges"`
	} `json:"result"`
}

type postNode struct {
	PK      rapidapi.FlexString `json:"pk"`
	Code    string              `json:"code"`
	Caption *struct {
		Text string `json:"text"`
	} `json:"caption"`
	LikeCount      int64  `json:"like_count"`
	CommentCount   int64  `json:"comment_count"`
	IsVideo        bool   `json:"is_video"`
	VideoURL       string `json:"video_url"`
	TakenAt        int64  `json:"taken_at"`
	ImageVersions2 struct {
		Candidates []struct {
			URL string `json:"url"`
		} `json:"candidates"`
	} `json:"image_versions2"`
	User struct {
		Username      string `json:"username"`
		FullName      string `json:"full_name"`
		ProfilePicURL string `json:"profile_pic_url"`
		IsVerified    bool   `json:"is_verified"`
	} `json:"user"`
}

// toPost converts a timeline node. Nodes without an id are skipped.
func (n postNode) toPost(now time.Time) (party.Post, bool) {
	id := string(n.PK)
	if id == "" {
		return party.Post{}, false
	}

	var caption string
	if n.Caption != nil {
		caption = n.Caption.Text
	}

	var thumbnail string
	if len(n.ImageVersions2.Candidates) > 0 {
		thumbnail = n.ImageVersions2.Candidates[0].URL
	}

	media := party.Media{Type: "image", URL: thumbnail, Thumbnail: thumbnail}
	if n.IsVideo {
		media.Type = "video"
		media.VideoURL = n.VideoURL
	}

	ts := now
	if n.TakenAt > 0 {
		ts = time.Unix(n.TakenAt, 0).UTC()
	}

	return party.Post{
		ID:       id,
		Platform: sourceName,
		Text:     party.Truncate(caption, captionLimit),
		Author: party.Author{
			Name:     n.User.FullName,
			Handle:   n.User.Username,
			Avatar:   n.User.ProfilePicURL,
			Verified: n.User.IsVerified,
		},
		Engagement: party.Engagement{
			Likes:    n.LikeCount,
			Comments: n.CommentCount,
		},
		Media:     []party.Media{media},
		HasMedia:  thumbnail != "",
		HasVideo:  n.IsVideo,
		Type:      media.Type,
		Timestamp: ts,
		TimeAgo:   party.TimeAgo(ts, now),
		URL:       fmt.Sprintf("https://www.instagram.com/p/%s/", n.Code),
		Party:     party.Classify(caption),
	}, true
}
