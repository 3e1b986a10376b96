// internal/adapter/source/twitter/v2.go

package twitter

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gotwitter "github.com/g8rswimmer/go-twitter/v2"

	"partypulse/internal/domain/party"
	"partypulse/internal/domain/source"
)

type bearerAuthorizer struct {
	token string
}

func (a bearerAuthorizer) Add(req *http.Request) {
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", a.token))
}

// V2Backend reads the microblog through the official v2 API
type V2Backend struct {
	client *gotwitter.Client
}

// NewV2Backend creates a backend authenticated with an app bearer token
func NewV2Backend(bearerToken, host string, httpClient *http.Client) *V2Backend {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &V2Backend{
		client: &gotwitter.Client{
			Authorizer: bearerAuthorizer{token: bearerToken},
			Client:     httpClient,
			Host:       host,
		},
	}
}

var v2UserFields = []gotwitter.UserField{
	gotwitter.UserFieldCreatedAt,
	gotwitter.UserFieldDescription,
	gotwitter.UserFieldProfileImageURL,
	gotwitter.UserFieldPublicMetrics,
	gotwitter.UserFieldVerified,
}

// Search returns recent tweets matching query
func (b *V2Backend) Search(ctx context.Context, query string, count int) ([]party.Post, error) {
	// recent search accepts 10..100 results per page
	max := count
	if max < 10 {
		max = 10
	}
	if max > 100 {
		max = 100
	}

	opts := gotwitter.TweetRecentSearchOpts{
		Expansions: []gotwitter.Expansion{gotwitter.ExpansionAuthorID},
		TweetFields: []gotwitter.TweetField{
			gotwitter.TweetFieldCreatedAt,
			gotwitter.TweetFieldAuthorID,
			gotwitter.TweetFieldPublicMetrics,
			gotwitter.TweetFieldLanguage,
		},
		UserFields: v2UserFields,
		MaxResults: max,
	}

	resp, err := b.client.TweetRecentSearch(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("recent search %q: %w", query, err)
	}
	if resp.Raw == nil {
		return nil, nil
	}

	users := make(map[string]*gotwitter.UserObj)
	if resp.Raw.Includes != nil {
		for _, u := range resp.Raw.Includes.Users {
			if u != nil {
				users[u.ID] = u
			}
		}
	}

	posts := make([]party.Post, 0, len(resp.Raw.Tweets))
	for _, tw := range resp.Raw.Tweets {
		if tw == nil || tw.ID == "" {
			continue
		}
		posts = append(posts, v2Post(tw, users[tw.AuthorID]))
		if len(posts) == count {
			break
		}
	}

	return posts, nil
}

// UserProfile looks up an account by handle
func (b *V2Backend) UserProfile(ctx context.Context, username string) (party.Profile, error) {
	resp, err := b.client.UserNameLookup(ctx, []string{username}, gotwitter.UserLookupOpts{
		UserFields: v2UserFields,
	})
	if err != nil {
		return party.Profile{}, fmt.Errorf("user lookup %q: %w", username, err)
	}
	if resp.Raw == nil || len(resp.Raw.Users) == 0 || resp.Raw.Users[0] == nil {
		return party.Profile{}, source.ErrNotFound
	}

	u := resp.Raw.Users[0]
	joined, _ := time.Parse(time.RFC3339, u.CreatedAt)
	profile := party.Profile{
		ID:       u.ID,
		Username: u.UserName,
		Name:     u.Name,
		Avatar:   largeAvatar(u.ProfileImageURL),
		Bio:      u.Description,
		Verified: u.Verified,
		URL:      "https://twitter.com/" + u.UserName,
		JoinedAt: joined,
	}
	if u.PublicMetrics != nil {
		profile.Followers = int64(u.PublicMetrics.Followers)
		profile.Following = int64(u.PublicMetrics.Following)
		profile.Posts = int64(u.PublicMetrics.Tweets)
	}

	return profile, nil
}

func v2Post(tw *gotwitter.TweetObj, user *gotwitter.UserObj) party.Post {
	created, _ := time.Parse(time.RFC3339, tw.CreatedAt)

	var author party.Author
	if user != nil {
		author = party.Author{
			ID:       user.ID,
			Name:     user.Name,
			Handle:   user.UserName,
			Avatar:   largeAvatar(user.ProfileImageURL),
			Verified: user.Verified,
		}
		if user.PublicMetrics != nil {
			author.Followers = int64(user.PublicMetrics.Followers)
		}
	} else {
		author.ID = tw.AuthorID
	}

	var eng party.Engagement
	if tw.PublicMetrics != nil {
		eng = party.Engagement{
			Likes:    int64(tw.PublicMetrics.Likes),
			Shares:   int64(tw.PublicMetrics.Retweets),
			Comments: int64(tw.PublicMetrics.Replies),
			Quotes:   int64(tw.PublicMetrics.Quotes),
		}
	}

	lang := tw.Language
	if lang == "" {
		lang = "en"
	}

	return party.Post{
		ID:         tw.ID,
		Platform:   sourceName,
		Text:       tw.Text,
		Author:     author,
		Engagement: eng,
		Media:      []party.Media{},
		Timestamp:  created,
		URL:        fmt.Sprintf("https://twitter.com/%s/status/%s", author.Handle, tw.ID),
		Party:      party.Classify(tw.Text),
		Lang:       lang,
	}
}
