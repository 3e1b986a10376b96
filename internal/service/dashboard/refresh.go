// internal/service/dashboard/refresh.go

package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"partypulse/internal/domain/event"
	"partypulse/internal/domain/source"
	"partypulse/internal/logger"
	"partypulse/internal/metrics"
)

// Refresh reports what a manual refresh fetched
type Refresh struct {
	ID        string                        `json:"id"`
	Success   bool                          `json:"success"`
	Message   string                        `json:"message"`
	Timestamp time.Time                     `json:"timestamp"`
	Sources   map[string]event.SourceStatus `json:"sources"`
}

func status(live bool) string {
	if live {
		return string(source.OriginLive)
	}
	return string(source.OriginFallback)
}

// Refresh drops every cache, re-fetches each source and announces the
// result. The fresh overall stats are archived by the aggregator.
func (s *Service) Refresh(ctx context.Context) Refresh {
	id := uuid.New().String()
	log := s.log.With(logger.String("refresh_id", id))

	s.src.Twitter.ClearCache()
	s.src.Instagram.ClearCache()
	s.src.Facebook.ClearCache()
	s.src.YouTube.ClearCache()
	s.src.Trends.ClearCache()
	s.src.News.ClearCache()
	s.stats.ClearCache()
	s.sentiment.ClearCache()

	var twitter, instagram, facebook, youtube, news, trends event.SourceStatus

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res := s.src.Twitter.PartyStats(gctx)
		twitter = event.SourceStatus{Status: status(res.IsLive), Counts: map[string]int64{
			"ysrcp_followers": res.Data.YSRCP.Followers,
			"tdp_followers":   res.Data.TDP.Followers,
		}}
		return nil
	})
	g.Go(func() error {
		res := s.src.Instagram.TrendingPosts(gctx, "")
		instagram = event.SourceStatus{Status: status(res.IsLive), Counts: map[string]int64{
			"ysrcp_posts": int64(len(res.Data.YSRCP.Posts)),
			"tdp_posts":   int64(len(res.Data.TDP.Posts)),
		}}
		return nil
	})
	g.Go(func() error {
		res := s.src.Facebook.TrendingPosts(gctx, "")
		facebook = event.SourceStatus{Status: status(res.IsLive), Counts: map[string]int64{
			"ysrcp_posts": int64(len(res.Data.YSRCP.Posts)),
			"tdp_posts":   int64(len(res.Data.TDP.Posts)),
		}}
		return nil
	})
	g.Go(func() error {
		res := s.src.YouTube.TrendingVideos(gctx, "")
		youtube = event.SourceStatus{Status: status(res.IsLive), Counts: map[string]int64{
			"ysrcp_videos": int64(len(res.Data.YSRCP.Videos)),
			"tdp_videos":   int64(len(res.Data.TDP.Videos)),
		}}
		return nil
	})
	g.Go(func() error {
		res := s.src.News.AllNews(gctx)
		news = event.SourceStatus{Status: status(res.IsLive), Counts: map[string]int64{
			"ysrcp_articles": int64(res.Data.YSRCP.TotalMentions),
			"tdp_articles":   int64(res.Data.TDP.TotalMentions),
		}}
		return nil
	})
	g.Go(func() error {
		res := s.src.Trends.InterestOverTime(gctx, "")
		trends = event.SourceStatus{Status: status(res.IsLive), Counts: map[string]int64{
			"timeline_points": int64(len(res.Data.SearchTimeline)),
		}}
		return nil
	})
	_ = g.Wait()

	s.stats.Overall(ctx)

	r := Refresh{
		ID:        id,
		Success:   true,
		Message:   "All data refreshed from sources",
		Timestamp: s.now(),
		Sources: map[string]event.SourceStatus{
			"twitter":   twitter,
			"instagram": instagram,
			"facebook":  facebook,
			"youtube":   youtube,
			"news":      news,
			"trends":    trends,
		},
	}

	metrics.RefreshTotal.Inc()
	log.Info("refreshed all sources")

	if s.publisher != nil {
		e := event.Event{ID: r.ID, Type: event.TypeRefreshed, Sources: r.Sources, Time: r.Timestamp}
		if err := s.publisher.Publish(ctx, e); err != nil {
			log.Warn("failed to publish refresh event", logger.Error(err))
		}
	}

	return r
}
