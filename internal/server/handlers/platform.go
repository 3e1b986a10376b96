// internal/server/handlers/platform.go

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"partypulse/internal/domain/party"
	"partypulse/internal/domain/source"
	"partypulse/internal/logger"
)

const defaultSearchCount = 20

// PlatformHandler exposes the source adapters directly
type PlatformHandler struct {
	twitter   source.Microblog
	instagram source.ImagePlatform
	facebook  source.PageScraper
	youtube   source.VideoPlatform
	log       logger.Logger
}

// NewPlatformHandler creates a new platform handler
func NewPlatformHandler(
	twitter source.Microblog,
	instagram source.ImagePlatform,
	facebook source.PageScraper,
	youtube source.VideoPlatform,
	log logger.Logger,
) *PlatformHandler {
	return &PlatformHandler{
		twitter:   twitter,
		instagram: instagram,
		facebook:  facebook,
		youtube:   youtube,
		log:       log,
	}
}

// postList is the reply for post listings
type postList struct {
	Posts  []party.Post `json:"posts"`
	Count  int          `json:"count"`
	IsLive bool         `json:"isLive"`
}

func newPostList(res source.Result[[]party.Post]) postList {
	posts := res.Data
	if posts == nil {
		posts = []party.Post{}
	}
	return postList{Posts: posts, Count: len(posts), IsLive: res.IsLive}
}

// TwitterTrending returns trending tweets, optionally for one party
func (h *PlatformHandler) TwitterTrending(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.twitter.TrendingTweets(r.Context(), partyFilter(r)))
}

// TwitterSearch searches recent tweets
func (h *PlatformHandler) TwitterSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		respondWithError(w, h.log, http.StatusBadRequest, "Query is required", nil)
		return
	}

	res := h.twitter.SearchTweets(r.Context(), query, intQuery(r, "count", defaultSearchCount))
	tweets := res.Data
	if tweets == nil {
		tweets = []party.Post{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"tweets": tweets,
		"count":  len(tweets),
		"isLive": res.IsLive,
	})
}

// TwitterTopics returns hashtags from recent political tweets
func (h *PlatformHandler) TwitterTopics(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.twitter.TrendingTopics(r.Context()))
}

// TwitterStats returns follower and engagement counts for both parties
func (h *PlatformHandler) TwitterStats(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.twitter.PartyStats(r.Context()))
}

// TwitterUser returns a microblog profile
func (h *PlatformHandler) TwitterUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	profile, err := h.twitter.UserProfile(r.Context(), username)
	if err != nil {
		h.lookupError(w, "User not found", err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

// Influencers returns accounts active around both parties
func (h *PlatformHandler) Influencers(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.twitter.Influencers(r.Context()))
}

// InstagramTrending returns trending image posts, optionally for one party
func (h *PlatformHandler) InstagramTrending(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.instagram.TrendingPosts(r.Context(), partyFilter(r)))
}

// InstagramStats returns image platform figures for both parties
func (h *PlatformHandler) InstagramStats(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.instagram.PartyStats(r.Context()))
}

// InstagramUser returns recent posts by an account
func (h *PlatformHandler) InstagramUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	respondWithJSON(w, http.StatusOK, newPostList(h.instagram.UserPosts(r.Context(), username)))
}

// FacebookTrending returns trending page posts, optionally for one party
func (h *PlatformHandler) FacebookTrending(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.facebook.TrendingPosts(r.Context(), partyFilter(r)))
}

// FacebookStats returns page figures for both parties
func (h *PlatformHandler) FacebookStats(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.facebook.PartyStats(r.Context()))
}

// FacebookPage returns recent posts from a page
func (h *PlatformHandler) FacebookPage(w http.ResponseWriter, r *http.Request) {
	pageID := chi.URLParam(r, "pageID")
	respondWithJSON(w, http.StatusOK, newPostList(h.facebook.PagePosts(r.Context(), pageID)))
}

// YouTubeTrending returns trending videos, optionally for one party
func (h *PlatformHandler) YouTubeTrending(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.youtube.TrendingVideos(r.Context(), partyFilter(r)))
}

// YouTubeParty returns the trending videos of a single party
func (h *PlatformHandler) YouTubeParty(p party.Party) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := h.youtube.TrendingVideos(r.Context(), p)
		videos := res.Data.YSRCP
		if p == party.TDP {
			videos = res.Data.TDP
		}
		if videos.Videos == nil {
			videos.Videos = []party.Video{}
		}
		respondWithJSON(w, http.StatusOK, source.Result[source.PartyVideos]{
			Data:      videos,
			IsLive:    res.IsLive,
			Source:    res.Source,
			FetchedAt: res.FetchedAt,
		})
	}
}

func (h *PlatformHandler) lookupError(w http.ResponseWriter, notFound string, err error) {
	if errors.Is(err, source.ErrNotFound) {
		respondWithError(w, h.log, http.StatusNotFound, notFound, nil)
		return
	}
	respondWithError(w, h.log, http.StatusInternalServerError, "Lookup failed", err)
}
