package facebook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partypulse/internal/adapter/source/rapidapi"
	"partypulse/internal/domain/party"
	"partypulse/internal/logger"
)

const (
	ysrcpPage = "https://www.facebook.com/ysrcpofficial"
	tdpPage   = "https://www.facebook.com/TDP.Official"
)

var testNow = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

type upstream struct {
	server       *httptest.Server
	detailsCalls atomic.Int32
	fail         atomic.Bool
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{}
	u.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u.fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		switch r.URL.Path {
		case "/page/details":
			u.detailsCalls.Add(1)
			switch r.URL.Query().Get("url") {
			case ysrcpPage:
				_, _ = w.Write([]byte(`{"results":{"name":"YSR Congress Party","page_id":100044,"followers":3300000,"verified":true,"categories":["Political Party"]}}`))
			case tdpPage:
				_, _ = w.Write([]byte(`{"results":{"name":"Telugu Desam Party","page_id":"200055","followers":2500000}}`))
			default:
				_, _ = w.Write([]byte(`{}`))
			}
		case "/page/posts":
			switch r.URL.Query().Get("page_id") {
			case "100044":
				_, _ = w.Write([]byte(`{"results":[
					{"post_id":"p1","message":"Welfare reaches every village","reactions_count":300,"comments_count":20,"reshare_count":5,"timestamp":` + unix(-2*time.Hour) + `},
					{"post_id":"p2","message_rich":"<b>Jagan</b> meets farmers &amp; workers","reactions_count":900,"comments_count":50,"reshare_count":40,
					 "video":{"url":"https://video.example/p2.mp4"},"author":{"name":"YSRCP Media","profile_picture":"https://img.example/a.jpg"}},
					{"message":"missing id"}
				]}`))
			case "200055":
				_, _ = w.Write([]byte(`{"data":{"posts":[
					{"post_id":"t1","message":"Amaravati works resume","reactions_count":500,"comments_count":30,"reshare_count":10,"image":{"uri":"https://img.example/t1.jpg"}}
				]}}`))
			default:
				_, _ = w.Write([]byte(`{"results":[]}`))
			}
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(u.server.Close)
	return u
}

func unix(offset time.Duration) string {
	return strconv.FormatInt(testNow.Add(offset).Unix(), 10)
}

func newTestClient(u *upstream) *Client {
	api := rapidapi.NewClient("k", "facebook-scraper3.p.rapidapi.com", time.Second, rapidapi.WithBaseURL(u.server.URL))
	cfg := Config{YSRCPPage: ysrcpPage, TDPPage: tdpPage, TTL: time.Minute}
	return NewClient(api, cfg, logger.NewNop(), WithClock(func() time.Time { return testNow }))
}

func TestResolvePage(t *testing.T) {
	c := newTestClient(newUpstream(t))

	pageURL, p := c.ResolvePage("tdp")
	assert.Equal(t, tdpPage, pageURL)
	assert.Equal(t, party.TDP, p)

	pageURL, p = c.ResolvePage(ysrcpPage)
	assert.Equal(t, ysrcpPage, pageURL)
	assert.Equal(t, party.YSRCP, p)

	pageURL, p = c.ResolvePage("SomePage")
	assert.Equal(t, "https://www.facebook.com/SomePage", pageURL)
	assert.Equal(t, party.Party(""), p)
}

func TestPagePostsParsesBothShapes(t *testing.T) {
	u := newUpstream(t)
	c := newTestClient(u)

	res := c.PagePosts(context.Background(), "ysrcp")
	require.True(t, res.IsLive)
	require.Len(t, res.Data, 2)

	first := res.Data[0]
	assert.Equal(t, "p1", first.ID)
	assert.Equal(t, "YSR Congress Party", first.Author.Name)
	assert.Equal(t, party.YSRCP, first.Party)
	assert.Equal(t, "2h ago", first.TimeAgo)
	assert.Equal(t, "post", first.Type)

	second := res.Data[1]
	assert.Equal(t, "Jagan meets farmers & workers", second.Text)
	assert.Equal(t, "YSRCP Media", second.Author.Name)
	assert.True(t, second.HasVideo)
	assert.Equal(t, "https://video.example/p2.mp4", second.Media[0].VideoURL)

	tdp := c.PagePosts(context.Background(), "tdp")
	require.True(t, tdp.IsLive)
	require.Len(t, tdp.Data, 1)
	assert.Equal(t, party.TDP, tdp.Data[0].Party)
	assert.Equal(t, "https://img.example/t1.jpg", tdp.Data[0].Media[0].URL)

	c.PagePosts(context.Background(), "ysrcp")
	assert.Equal(t, int32(2), u.detailsCalls.Load(), "page ids are cached")
}

func TestTrendingPostsAndStats(t *testing.T) {
	c := newTestClient(newUpstream(t))

	trending := c.TrendingPosts(context.Background(), "")
	require.True(t, trending.IsLive)
	assert.Equal(t, "p2", trending.Data.YSRCP.Posts[0].ID)
	assert.Equal(t, int64(1315), trending.Data.YSRCP.TotalEngagement)
	require.Len(t, trending.Data.Combined, 3)
	assert.Equal(t, []string{"p2", "t1", "p1"}, []string{
		trending.Data.Combined[0].ID, trending.Data.Combined[1].ID, trending.Data.Combined[2].ID,
	})

	stats := c.PartyStats(context.Background())
	require.True(t, stats.IsLive)
	assert.Equal(t, int64(3300000), stats.Data.YSRCP.Followers)
	assert.Equal(t, int64(2), stats.Data.YSRCP.Posts)
	assert.Equal(t, int64(2500000), stats.Data.TDP.Followers)
	assert.Equal(t, int64(540), stats.Data.TDP.Engagement)
}

func TestUnknownPageFallsBack(t *testing.T) {
	c := newTestClient(newUpstream(t))

	_, err := c.PageDetails(context.Background(), "https://www.facebook.com/nobody")
	assert.Error(t, err)

	res := c.PagePosts(context.Background(), "nobody")
	assert.False(t, res.IsLive)
	assert.Empty(t, res.Data)
}

func TestOutageFallsBackToPublishedFigures(t *testing.T) {
	u := newUpstream(t)
	u.fail.Store(true)
	c := newTestClient(u)

	stats := c.PartyStats(context.Background())
	assert.False(t, stats.IsLive)
	assert.Equal(t, FallbackStats(), stats.Data)
}
