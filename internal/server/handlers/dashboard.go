// internal/server/handlers/dashboard.go

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"partypulse/internal/adapter/storage"
	"partypulse/internal/domain/source"
	"partypulse/internal/logger"
	"partypulse/internal/service/dashboard"
	"partypulse/internal/service/sentiment"
	"partypulse/internal/service/stats"
)

// SnapshotLister lists archived overall stats
type SnapshotLister interface {
	ListSnapshots(ctx context.Context, limit int) ([]storage.Snapshot, error)
}

// DashboardHandler serves the aggregated dashboard views
type DashboardHandler struct {
	dashboard *dashboard.Service
	stats     *stats.Service
	analyzer  *sentiment.Analyzer
	news      source.News
	trends    source.SearchTrends
	history   SnapshotLister
	eventsOn  bool
	log       logger.Logger
}

// NewDashboardHandler creates a new dashboard handler. A nil history
// disables the snapshot listing.
func NewDashboardHandler(
	dash *dashboard.Service,
	agg *stats.Service,
	analyzer *sentiment.Analyzer,
	news source.News,
	trends source.SearchTrends,
	history SnapshotLister,
	eventsOn bool,
	log logger.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dash,
		stats:     agg,
		analyzer:  analyzer,
		news:      news,
		trends:    trends,
		history:   history,
		eventsOn:  eventsOn,
		log:       log,
	}
}

// Health reports which services are wired
func (h *DashboardHandler) Health(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{
		"google_trends": "active",
		"news":          "active",
		"sentiment":     "active",
		"stats":         "active",
		"youtube":       "active",
		"twitter":       "active",
		"instagram":     "active",
		"facebook":      "active",
		"snapshots":     "disabled",
		"events":        "disabled",
	}
	if h.history != nil {
		services["snapshots"] = "active"
	}
	if h.eventsOn {
		services["events"] = "active"
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now(),
		"services":  services,
	})
}

// Dashboard returns every dashboard section in one payload
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.dashboard.Dashboard(r.Context()))
}

// Refresh drops every cache and re-fetches all sources
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.dashboard.Refresh(r.Context()))
}

// Overall returns the aggregated engagement figures
func (h *DashboardHandler) Overall(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.stats.Overall(r.Context()))
}

// Platforms returns the per-platform figures
func (h *DashboardHandler) Platforms(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.stats.PlatformStats(r.Context()))
}

// Battle returns the head to head sentiment scores
func (h *DashboardHandler) Battle(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.stats.SentimentBattle(r.Context()))
}

// Comparison returns the raw microblog and image platform numbers
func (h *DashboardHandler) Comparison(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.stats.PlatformComparison(r.Context()))
}

// History lists archived overall stats, newest first
func (h *DashboardHandler) History(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		respondWithError(w, h.log, http.StatusServiceUnavailable, "Snapshot history is disabled", nil)
		return
	}

	snapshots, err := h.history.ListSnapshots(r.Context(), intQuery(r, "limit", storage.DefaultHistoryLimit))
	if err != nil {
		respondWithError(w, h.log, http.StatusInternalServerError, "Failed to list snapshots", err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"snapshots": snapshots,
		"count":     len(snapshots),
	})
}

// GoogleTrends returns every search trend view
func (h *DashboardHandler) GoogleTrends(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.dashboard.Trends(r.Context()))
}

// RegionalTrends returns search interest by district
func (h *DashboardHandler) RegionalTrends(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.trends.RegionalInterest(r.Context()))
}

// RelatedQueries returns related searches per party
func (h *DashboardHandler) RelatedQueries(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.trends.RelatedQueries(r.Context()))
}

// Hashtags returns the trending hashtags
func (h *DashboardHandler) Hashtags(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.stats.Hashtags(r.Context()))
}

// News returns the news digest for both parties
func (h *DashboardHandler) News(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.news.AllNews(r.Context()))
}

// NewsStats returns news mentions, reach and sentiment per party
func (h *DashboardHandler) NewsStats(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.news.NewsStats(r.Context()))
}

// Sentiment compares the news sentiment of both parties
func (h *DashboardHandler) Sentiment(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.dashboard.NewsSentiment(r.Context()))
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Analysis     sentiment.Analysis     `json:"analysis"`
	PartyContext sentiment.PartyReading `json:"partyContext"`
}

// AnalyzeSentiment scores free text supplied in the request body
func (h *DashboardHandler) AnalyzeSentiment(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		respondWithError(w, h.log, http.StatusBadRequest, "Text is required", nil)
		return
	}

	respondWithJSON(w, http.StatusOK, analyzeResponse{
		Analysis:     h.analyzer.Score(req.Text),
		PartyContext: h.analyzer.ClassifyParty(req.Text),
	})
}

// Alerts returns the most recent alerts
func (h *DashboardHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.dashboard.Alerts())
}
