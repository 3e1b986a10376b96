// internal/service/dashboard/alerts.go

package dashboard

// Alert is a dashboard notification
type Alert struct {
	ID       int    `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Time     string `json:"time"`
	Platform string `json:"platform"`
	Priority string `json:"priority"`
}

// recentAlerts is how many alerts the standalone alerts view shows
const recentAlerts = 2

// Alerts are static until alert tracking exists
var alerts = []Alert{
	{ID: 1, Type: "warning", Title: "Negative Trend Detected", Message: "Spike in negative mentions detected in social media", Time: "15 mins ago", Platform: "twitter", Priority: "high"},
	{ID: 2, Type: "info", Title: "Competitor Activity", Message: "TDP launched new campaign hashtag", Time: "1 hour ago", Platform: "all", Priority: "medium"},
	{ID: 3, Type: "success", Title: "Engagement Milestone", Message: "YSRCP Twitter reached 1M impressions today", Time: "2 hours ago", Platform: "twitter", Priority: "low"},
	{ID: 4, Type: "info", Title: "Trending Topic", Message: "#JaganannaConnects trending in Andhra Pradesh", Time: "3 hours ago", Platform: "twitter", Priority: "medium"},
}

// Alerts returns the most recent alerts
func (s *Service) Alerts() []Alert {
	return append([]Alert(nil), alerts[:recentAlerts]...)
}
