// internal/adapter/source/news/fallback.go

package news

import (
	"time"

	"partypulse/internal/domain/party"
	"partypulse/internal/domain/source"
)

// FallbackDigest returns a small sample digest used when no feed answered
func FallbackDigest() source.NewsDigest {
	at := source.FallbackTime
	ysrcp := []party.Article{
		{
			Title:       "YSRCP announces statewide welfare outreach - The Hindu",
			Description: "The party plans district rallies to highlight its welfare scheme record.",
			URL:         "https://news.google.com/",
			Source:      "The Hindu",
			PublishedAt: at,
			Party:       party.YSRCP,
		},
		{
			Title:       "YS Jagan meets farmers in Kadapa - Deccan Chronicle",
			Description: "Discussion focused on agriculture support and irrigation projects.",
			URL:         "https://news.google.com/",
			Source:      "Deccan Chronicle",
			PublishedAt: at.Add(-2 * time.Hour),
			Party:       party.YSRCP,
		},
	}
	tdp := []party.Article{
		{
			Title:       "Chandrababu Naidu reviews Amaravati capital works - The Hindu",
			Description: "The chief minister set new timelines for development in the capital region.",
			URL:         "https://news.google.com/",
			Source:      "The Hindu",
			PublishedAt: at,
			Party:       party.TDP,
		},
		{
			Title:       "TDP alliance partners discuss jobs plan - Times of India",
			Description: "Leaders outlined employment targets for the coming year.",
			URL:         "https://news.google.com/",
			Source:      "Times of India",
			PublishedAt: at.Add(-3 * time.Hour),
			Party:       party.TDP,
		},
	}
	return buildDigest(ysrcp, tdp, nil)
}
