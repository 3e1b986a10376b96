package instagram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partypulse/internal/adapter/source/rapidapi"
	"partypulse/internal/domain/party"
	"partypulse/internal/logger"
)

var testNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func postsFixture(prefix string, likes ...int64) string {
	edges := make([]map[string]interface{}, 0, len(likes))
	for i, l := range likes {
		edges = append(edges, map[string]interface{}{"node": map[string]interface{}{
			"pk":            prefix + string(rune('0'+i)),
			"code":          "C" + prefix,
			"caption":       map[string]string{"text": "Jagananna Amma Vodi"},
			"like_count":    l,
			"comment_count": 10,
			"taken_at":      testNow.Add(-3 * time.Hour).Unix(),
			"image_versions2": map[string]interface{}{
				"candidates": []map[string]string{{"url": "https://cdn.example/" + prefix + ".jpg"}},
			},
			"user": map[string]interface{}{"username": prefix, "full_name": "Party " + prefix},
		}})
	}
	edges = append(edges, map[string]interface{}{"node": map[string]interface{}{"code": "no-id"}})
	b, _ := json.Marshal(map[string]interface{}{"result": map[string]interface{}{"edges": edges}})
	return string(b)
}

type upstream struct {
	server *httptest.Server
	calls  atomic.Int32
	fail   atomic.Bool
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.calls.Add(1)
		if u.fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		switch r.URL.Path {
		case "/api/instagram/profile":
			_, _ = w.Write([]byte(`{"result":{"id":"42","username":"` + body["username"] + `","full_name":"Official","is_verified":true,
				"edge_followed_by":{"count":1500000},"edge_follow":{"count":20},"edge_owner_to_timeline_media":{"count":3100}}}`))
		case "/api/instagram/posts":
			assert.Equal(t, "", body["maxId"])
			if body["username"] == "jai_tdp" {
				_, _ = w.Write([]byte(postsFixture("t", 500)))
				return
			}
			_, _ = w.Write([]byte(postsFixture("y", 100, 900)))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(u.server.Close)
	return u
}

func newTestClient(u *upstream) *Client {
	api := rapidapi.NewClient("k", "instagram120.p.rapidapi.com", time.Second, rapidapi.WithBaseURL(u.server.URL))
	cfg := Config{YSRCPHandle: "ysrcongress", TDPHandle: "jai_tdp", TTL: time.Minute}
	return NewClient(api, cfg, logger.NewNop(), WithClock(func() time.Time { return testNow }))
}

func TestUserPostsParsesNodes(t *testing.T) {
	c := newTestClient(newUpstream(t))

	res := c.UserPosts(context.Background(), "ysrcongress")
	require.True(t, res.IsLive)
	require.Len(t, res.Data, 2)

	post := res.Data[0]
	assert.Equal(t, "y0", post.ID)
	assert.Equal(t, "https://www.instagram.com/p/Cy/", post.URL)
	assert.Equal(t, "3h ago", post.TimeAgo)
	assert.Equal(t, "image", post.Type)
	assert.Equal(t, party.YSRCP, post.Party)
	assert.Equal(t, "https://cdn.example/y.jpg", post.Media[0].URL)
}

func TestTrendingPostsRanksCombined(t *testing.T) {
	c := newTestClient(newUpstream(t))

	res := c.TrendingPosts(context.Background(), "")
	require.True(t, res.IsLive)
	assert.Equal(t, int64(1020), res.Data.YSRCP.TotalEngagement)
	assert.Equal(t, int64(510), res.Data.TDP.TotalEngagement)
	assert.Equal(t, party.TDP, res.Data.TDP.Posts[0].Party)

	require.Len(t, res.Data.Combined, 3)
	assert.Equal(t, []int64{900, 500, 100}, []int64{
		res.Data.Combined[0].Engagement.Likes,
		res.Data.Combined[1].Engagement.Likes,
		res.Data.Combined[2].Engagement.Likes,
	})
}

func TestPartyStats(t *testing.T) {
	c := newTestClient(newUpstream(t))

	res := c.PartyStats(context.Background())
	require.True(t, res.IsLive)
	assert.Equal(t, int64(1500000), res.Data.YSRCP.Followers)
	assert.Equal(t, int64(3100), res.Data.YSRCP.Posts)
	assert.Equal(t, int64(1020), res.Data.YSRCP.Engagement)
	require.Len(t, res.Data.TDP.Accounts, 1)
	assert.Equal(t, "jai_tdp", res.Data.TDP.Accounts[0].Handle)
}

func TestFailuresFallBackWithoutCaching(t *testing.T) {
	u := newUpstream(t)
	u.fail.Store(true)
	c := newTestClient(u)

	res := c.UserPosts(context.Background(), "ysrcongress")
	assert.False(t, res.IsLive)
	assert.Empty(t, res.Data)

	stats := c.PartyStats(context.Background())
	assert.False(t, stats.IsLive)
	assert.Equal(t, FallbackStats(), stats.Data)

	u.fail.Store(false)
	res = c.UserPosts(context.Background(), "ysrcongress")
	assert.True(t, res.IsLive)
}

func TestCaptionTruncated(t *testing.T) {
	node := postNode{PK: "1", Code: "abc"}
	node.Caption = &struct {
		Text string `json:"text"`
	}{Text: strings.Repeat("a", 250)}

	post, ok := node.toPost(testNow)
	require.True(t, ok)
	assert.Len(t, post.Text, 203)
	assert.True(t, strings.HasSuffix(post.Text, "..."))
	assert.Equal(t, testNow, post.Timestamp)
}
