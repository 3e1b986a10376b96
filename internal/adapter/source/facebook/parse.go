// internal/adapter/source/facebook/parse.go

package facebook

import (
	"encoding/json"
	"html"
	"strings"
	"time"

	"partypulse/internal/adapter/source/rapidapi"
	"partypulse/internal/domain/party"
)

type detailsResponse struct {
	Results *pageDetails `json:"results"`
}

type pageDetails struct {
	Name       string              `json:"name"`
	PageID     rapidapi.FlexString `json:"page_id"`
	Followers  int64               `json:"followers"`
	Following  int64               `json:"following"`
	Likes      int64               `json:"likes"`
	Image      string              `json:"image"`
	CoverImage string              `json:"cover_image"`
	Intro      string              `json:"intro"`
	Verified   bool                `json:"verified"`
	Categories []string            `json:"categories"`
	Website    string              `json:"website"`
	URL        string              `json:"url"`
}

func (d *pageDetails) toProfile(requested string) party.Profile {
	pageURL := d.URL
	if pageURL == "" {
		pageURL = requested
	}
	var category string
	if len(d.Categories) > 0 {
		category = d.Categories[0]
	}
	return party.Profile{
		ID:        string(d.PageID),
		Username:  strings.TrimPrefix(strings.TrimRight(pageURL, "/"), pageURLPrefix),
		Name:      d.Name,
		Avatar:    d.Image,
		Banner:    d.CoverImage,
		Bio:       d.Intro,
		Verified:  d.Verified,
		Followers: d.Followers,
		Following: d.Following,
		Likes:     d.Likes,
		Category:  category,
		Website:   d.Website,
		URL:       pageURL,
	}
}

// postsResponse carries posts under "results" or "data", either as a list or
// as an object wrapping a "posts" or "data" list
type postsResponse struct {
	Results json.RawMessage `json:"results"`
	Data    json.RawMessage `json:"data"`
}

func (r postsResponse) items() []pagePost {
	for _, raw := range []json.RawMessage{r.Results, r.Data} {
		if items := decodePostList(raw); len(items) > 0 {
			return items
		}
	}
	return nil
}

func decodePostList(raw json.RawMessage) []pagePost {
	if len(raw) == 0 {
		return nil
	}

	var list []pagePost
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var wrapped struct {
		Posts []pagePost `json:"posts"`
		Data  []pagePost `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil
	}
	if len(wrapped.Posts) > 0 {
		return wrapped.Posts
	}
	return wrapped.Data
}

type mediaRef struct {
	URI string `json:"uri"`
	URL string `json:"url"`
}

type pagePost struct {
	PostID         rapidapi.FlexString `json:"post_id"`
	Message        string              `json:"message"`
	MessageRich    string              `json:"message_rich"`
	Type           string              `json:"type"`
	Image          *mediaRef           `json:"image"`
	Video          *mediaRef           `json:"video"`
	ReactionsCount int64               `json:"reactions_count"`
	CommentsCount  int64               `json:"comments_count"`
	ReshareCount   int64               `json:"reshare_count"`
	Timestamp      int64               `json:"timestamp"`
	URL            string              `json:"url"`
	Author         *struct {
		Name           string `json:"name"`
		ProfilePicture string `json:"profile_picture"`
	} `json:"author"`
}

// toPost converts one page post. Posts without an id are skipped.
func (c *Client) toPost(p pagePost, owner party.Party, pageName string, now time.Time) (party.Post, bool) {
	if p.PostID == "" {
		return party.Post{}, false
	}

	message := p.Message
	if message == "" && p.MessageRich != "" {
		message = strings.TrimSpace(html.UnescapeString(c.policy.Sanitize(p.MessageRich)))
	}

	var imageURL, videoURL string
	if p.Image != nil {
		imageURL = p.Image.URI
	}
	if p.Video != nil {
		videoURL = p.Video.URI
		if videoURL == "" {
			videoURL = p.Video.URL
		}
	}

	media := []party.Media{}
	if p.Image != nil || p.Video != nil {
		m := party.Media{Type: "photo", URL: imageURL, Thumbnail: imageURL}
		if p.Video != nil {
			m.Type = "video"
			m.VideoURL = videoURL
		}
		media = append(media, m)
	}

	author := party.Author{Name: pageName, Verified: true}
	if p.Author != nil {
		if p.Author.Name != "" {
			author.Name = p.Author.Name
		}
		author.Avatar = p.Author.ProfilePicture
	}
	if author.Name == "" {
		author.Name = strings.ToUpper(string(owner))
	}

	postType := p.Type
	if postType == "" {
		postType = "post"
	}

	post := party.Post{
		ID:       string(p.PostID),
		Platform: sourceName,
		Text:     party.Truncate(message, messageLimit),
		Author:   author,
		Engagement: party.Engagement{
			Likes:    p.ReactionsCount,
			Comments: p.CommentsCount,
			Shares:   p.ReshareCount,
		},
		Media:    media,
		HasMedia: len(media) > 0,
		HasVideo: p.Video != nil,
		Type:     postType,
		URL:      p.URL,
		Party:    owner,
	}
	if post.Party == "" {
		post.Party = party.Classify(message)
	}
	if p.Timestamp > 0 {
		post.Timestamp = time.Unix(p.Timestamp, 0).UTC()
		post.TimeAgo = party.TimeAgo(post.Timestamp, now)
	}

	return post, true
}
