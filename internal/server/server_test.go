package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partypulse/internal/adapter/events"
	"partypulse/internal/adapter/storage"
	"partypulse/internal/config"
	"partypulse/internal/domain/event"
	"partypulse/internal/domain/party"
	"partypulse/internal/domain/source"
	"partypulse/internal/domain/source/sourcetest"
	"partypulse/internal/logger"
	"partypulse/internal/server/handlers"
	"partypulse/internal/service/dashboard"
	"partypulse/internal/service/sentiment"
	"partypulse/internal/service/stats"
)

type fakeHistory struct {
	snapshots []storage.Snapshot
	err       error
	limit     int
}

func (h *fakeHistory) ListSnapshots(_ context.Context, limit int) ([]storage.Snapshot, error) {
	h.limit = limit
	return h.snapshots, h.err
}

type fixture struct {
	twitter   *sourcetest.Microblog
	instagram *sourcetest.ImagePlatform
	facebook  *sourcetest.PageScraper
	youtube   *sourcetest.VideoPlatform
	trends    *sourcetest.SearchTrends
	news      *sourcetest.News
	bus       *events.Local
}

func newFixture() *fixture {
	post := party.Post{ID: "p1", Text: "YSRCP rally", Party: party.YSRCP}
	return &fixture{
		twitter: &sourcetest.Microblog{
			Search:   source.Live([]party.Post{post}, sourcetest.Now),
			Trending: source.Live(source.TrendingPosts{YSRCP: source.PartyPosts{Posts: []party.Post{post}}}, sourcetest.Now),
			Topics:   source.Live([]source.Topic{{Tag: "#YSRCP", Count: 4}}, sourcetest.Now),
			Profiles: map[string]party.Profile{"ysjagan": {Username: "ysjagan", Followers: 2_800_000}},
			Stats: sourcetest.Stats(
				source.PlatformParty{Followers: 2_800_000, Engagement: 30_000},
				source.PlatformParty{Followers: 2_100_000, Engagement: 10_000},
			),
		},
		instagram: &sourcetest.ImagePlatform{
			Posts: source.Live([]party.Post{post, post}, sourcetest.Now),
			Stats: sourcetest.Stats(source.PlatformParty{Engagement: 20_000}, source.PlatformParty{Engagement: 10_000}),
		},
		facebook: &sourcetest.PageScraper{
			Posts: source.Fallback([]party.Post(nil), source.FallbackTime),
			Stats: source.Fallback(source.PlatformStats{}, source.FallbackTime),
		},
		youtube: &sourcetest.VideoPlatform{
			Trending: source.Live(source.TrendingVideos{
				YSRCP: source.PartyVideos{Videos: []party.Video{{ID: "v1"}}, TotalViews: 100},
				TDP:   source.PartyVideos{Videos: []party.Video{{ID: "v2"}, {ID: "v3"}}, TotalViews: 50},
			}, sourcetest.Now),
			Stats: sourcetest.Stats(source.PlatformParty{}, source.PlatformParty{}),
		},
		trends: &sourcetest.SearchTrends{
			Regional: source.Live([]source.RegionInterest{{District: "Guntur", YSRCP: 55, TDP: 45}}, sourcetest.Now),
			Related:  source.Live(source.RelatedQueries{YSRCP: []source.RelatedQuery{{Query: "ysrcp news"}}}, sourcetest.Now),
		},
		news: &sourcetest.News{
			Digest: source.Live(source.NewsDigest{
				YSRCP: source.PartyNews{Articles: []party.Article{{Title: "great welfare scheme"}}, TotalMentions: 1},
				TDP:   source.PartyNews{Articles: []party.Article{{Title: "total scam exposed"}}, TotalMentions: 1},
			}, sourcetest.Now),
			Stats: source.Live(source.NewsStats{YSRCP: source.NewsPartyStats{Mentions: 1}}, sourcetest.Now),
		},
		bus: events.NewLocal(),
	}
}

func (f *fixture) router(history handlers.SnapshotLister) http.Handler {
	log := logger.NewNop()
	statSrc := stats.Sources{
		Twitter:   f.twitter,
		Instagram: f.instagram,
		Facebook:  f.facebook,
		YouTube:   f.youtube,
		News:      f.news,
	}
	agg := stats.NewService(statSrc, stats.Config{TTL: time.Minute, PlatformTTL: time.Minute}, log)
	analyzer := sentiment.NewAnalyzer(sentiment.Config{TTL: time.Hour, Capacity: 10}, log)
	dash := dashboard.NewService(dashboard.Sources{Sources: statSrc, Trends: f.trends}, agg, analyzer, log,
		dashboard.WithPublisher(f.bus))

	return NewRouter(config.ServerConfig{CorsOrigins: []string{"*"}, RequestTimeout: 5 * time.Second}, Dependencies{
		Dashboard: handlers.NewDashboardHandler(dash, agg, analyzer, f.news, f.trends, history, true, log),
		Platforms: handlers.NewPlatformHandler(f.twitter, f.instagram, f.facebook, f.youtube, log),
		Events:    f.bus,
		WebSocket: handlers.DefaultWebSocketConfig(),
		Log:       log,
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRoutesRespond(t *testing.T) {
	h := newFixture().router(nil)

	for _, path := range []string{
		"/api/health",
		"/api/dashboard",
		"/api/stats/overall",
		"/api/stats/platforms",
		"/api/stats/battle",
		"/api/stats/comparison",
		"/api/trends/google",
		"/api/trends/regional",
		"/api/trends/queries",
		"/api/hashtags",
		"/api/news",
		"/api/news/stats",
		"/api/sentiment",
		"/api/alerts",
		"/api/influencers",
		"/api/twitter/trending",
		"/api/twitter/topics",
		"/api/twitter/stats",
		"/api/instagram/trending",
		"/api/instagram/stats",
		"/api/facebook/trending",
		"/api/facebook/stats",
		"/api/youtube/trending",
		"/api/youtube/ysrcp",
		"/api/youtube/tdp",
	} {
		t.Run(path, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, path, "")
			assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.True(t, json.Valid(rec.Body.Bytes()))
		})
	}
}

func TestOverallIsIdempotent(t *testing.T) {
	h := newFixture().router(nil)
	first := do(t, h, http.MethodGet, "/api/stats/overall", "")
	second := do(t, h, http.MethodGet, "/api/stats/overall", "")
	assert.Equal(t, first.Body.String(), second.Body.String())

	body := decode(t, first)
	y := body["ysrcp"].(map[string]interface{})
	d := body["tdp"].(map[string]interface{})
	assert.Equal(t, 100.0, y["shareOfVoice"].(float64)+d["shareOfVoice"].(float64))
}

func TestAnalyzeSentiment(t *testing.T) {
	h := newFixture().router(nil)

	rec := do(t, h, http.MethodPost, "/api/sentiment/analyze", `{"text":"YSRCP welfare scheme is great"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	analysis := body["analysis"].(map[string]interface{})
	assert.Equal(t, "positive", analysis["sentiment"])
	ctx := body["partyContext"].(map[string]interface{})
	assert.Equal(t, "pro-ysrcp", ctx["party_context"])
	assert.Equal(t, true, ctx["ysrcp_mentioned"])
}

func TestAnalyzeSentimentValidation(t *testing.T) {
	h := newFixture().router(nil)

	for name, body := range map[string]string{
		"empty text":   `{"text":"  "}`,
		"missing text": `{}`,
		"bad json":     `{"text":`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/sentiment/analyze", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode(t, rec)["detail"])
		})
	}
}

func TestTwitterUser(t *testing.T) {
	h := newFixture().router(nil)

	rec := do(t, h, http.MethodGet, "/api/twitter/user/ysjagan", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ysjagan", decode(t, rec)["username"])

	rec = do(t, h, http.MethodGet, "/api/twitter/user/nobody", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decode(t, rec)["detail"])
}

func TestTwitterSearch(t *testing.T) {
	f := newFixture()
	h := f.router(nil)

	rec := do(t, h, http.MethodGet, "/api/twitter/search?query=Jagan&count=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, 1.0, body["count"])
	assert.Equal(t, "Jagan", f.twitter.LastQuery)
	assert.Equal(t, 5, f.twitter.LastCount)

	do(t, h, http.MethodGet, "/api/twitter/search?query=Jagan&count=abc", "")
	assert.Equal(t, 20, f.twitter.LastCount)

	rec = do(t, h, http.MethodGet, "/api/twitter/search", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPartyFilter(t *testing.T) {
	f := newFixture()
	h := f.router(nil)

	do(t, h, http.MethodGet, "/api/twitter/trending?party=TDP", "")
	assert.Equal(t, party.TDP, f.twitter.LastParty)

	do(t, h, http.MethodGet, "/api/twitter/trending?party=all", "")
	assert.Equal(t, party.Party(""), f.twitter.LastParty)

	rec := do(t, h, http.MethodGet, "/api/youtube/tdp", "")
	body := decode(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Len(t, data["videos"], 2)
	assert.Equal(t, party.TDP, f.youtube.LastParty)
}

func TestPostListings(t *testing.T) {
	f := newFixture()
	h := f.router(nil)

	body := decode(t, do(t, h, http.MethodGet, "/api/instagram/user/ysjagan", ""))
	assert.Equal(t, 2.0, body["count"])
	assert.Equal(t, true, body["isLive"])

	body = decode(t, do(t, h, http.MethodGet, "/api/facebook/page/TDP.Official", ""))
	assert.Equal(t, 0.0, body["count"])
	assert.Equal(t, []interface{}{}, body["posts"])
	assert.Equal(t, "TDP.Official", f.facebook.LastRef)
}

func TestAlertsShowsRecent(t *testing.T) {
	h := newFixture().router(nil)
	var alerts []dashboard.Alert
	rec := do(t, h, http.MethodGet, "/api/alerts", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alerts))
	assert.Len(t, alerts, 2)
}

func TestHistory(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		rec := do(t, newFixture().router(nil), http.MethodGet, "/api/stats/history", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "Snapshot history is disabled", decode(t, rec)["detail"])
	})

	t.Run("lists", func(t *testing.T) {
		hist := &fakeHistory{snapshots: []storage.Snapshot{{ID: "s1", TakenAt: sourcetest.Now}}}
		rec := do(t, newFixture().router(hist), http.MethodGet, "/api/stats/history?limit=7", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 7, hist.limit)
		assert.Equal(t, 1.0, decode(t, rec)["count"])
	})

	t.Run("default limit", func(t *testing.T) {
		hist := &fakeHistory{}
		do(t, newFixture().router(hist), http.MethodGet, "/api/stats/history", "")
		assert.Equal(t, storage.DefaultHistoryLimit, hist.limit)
	})

	t.Run("store failure", func(t *testing.T) {
		hist := &fakeHistory{err: errors.New("db down")}
		rec := do(t, newFixture().router(hist), http.MethodGet, "/api/stats/history", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to list snapshots", decode(t, rec)["detail"])
	})
}

func TestRefreshRoute(t *testing.T) {
	f := newFixture()
	h := f.router(nil)

	do(t, h, http.MethodGet, "/api/stats/overall", "")
	rec := do(t, h, http.MethodPost, "/api/refresh", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, 1, f.twitter.Cleared())
	assert.Equal(t, 1, f.news.Cleared())

	assert.Equal(t, http.StatusMethodNotAllowed, do(t, h, http.MethodGet, "/api/refresh", "").Code)
}

func TestMetricsExposed(t *testing.T) {
	rec := do(t, newFixture().router(nil), http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "partypulse_refresh_total")
}

func TestDashboardWebSocketRelaysEvents(t *testing.T) {
	f := newFixture()
	srv := httptest.NewServer(f.router(nil))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/dashboard"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var welcome map[string]interface{}
	require.NoError(t, conn.ReadJSON(&welcome))
	assert.Equal(t, "welcome", welcome["type"])

	// The subscription starts after the welcome is queued, so keep publishing
	// until the client sees the event.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				_ = f.bus.Publish(context.Background(), event.Event{ID: "e1", Type: event.TypeRefreshed, Time: sourcetest.Now})
			}
		}
	}()

	var got event.Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "e1", got.ID)
	assert.Equal(t, event.TypeRefreshed, got.Type)
}

func TestPanicRespondsWithJSONError(t *testing.T) {
	// A router without a dashboard handler panics on the first stats request
	h := NewRouter(config.ServerConfig{RequestTimeout: time.Second}, Dependencies{Log: logger.NewNop()})

	rec := do(t, h, http.MethodGet, "/api/stats/overall", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Internal server error", decode(t, rec)["detail"])
}
