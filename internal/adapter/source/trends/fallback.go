// internal/adapter/source/trends/fallback.go

package trends

import (
	"partypulse/internal/domain/party"
	"partypulse/internal/domain/source"
)

// FallbackInterest returns the sample interest comparison
func FallbackInterest() source.Interest {
	return source.Interest{
		SearchInterest: source.SearchInterest{YSRCP: 65, TDP: 45, Trend: "+8%"},
		SearchTimeline: []source.InterestPoint{
			{Date: "Nov 24", YSRCP: 58, TDP: 42},
			{Date: "Nov 26", YSRCP: 62, TDP: 45},
			{Date: "Nov 28", YSRCP: 68, TDP: 48},
			{Date: "Nov 30", YSRCP: 65, TDP: 45},
		},
		Averages: source.Averages{YSRCP: 63.2, TDP: 45.0},
	}
}

// FallbackRegional returns the sample district split
func FallbackRegional() []source.RegionInterest {
	return []source.RegionInterest{
		{District: "Kadapa", YSRCP: 85, TDP: 15},
		{District: "Kurnool", YSRCP: 72, TDP: 28},
		{District: "Anantapur", YSRCP: 68, TDP: 32},
		{District: "Visakhapatnam", YSRCP: 62, TDP: 38},
		{District: "Guntur", YSRCP: 55, TDP: 45},
		{District: "Vijayawada", YSRCP: 48, TDP: 52},
	}
}

// FallbackQueries returns the sample related queries for a party
func FallbackQueries(p party.Party) []source.RelatedQuery {
	if p == party.TDP {
		return []source.RelatedQuery{
			{Query: "TDP latest news", Interest: 100, Change: "+80%", Growth: 80},
			{Query: "Chandrababu speech", Interest: 75, Change: "+25%", Growth: 25},
			{Query: "Amaravati capital", Interest: 60, Change: "+15%", Growth: 15},
		}
	}
	return []source.RelatedQuery{
		{Query: "YSRCP welfare schemes", Interest: 100, Change: "+120%", Growth: 120, IsBreakout: true},
		{Query: "YS Jagan news", Interest: 85, Change: "+45%", Growth: 45},
		{Query: "Amma Vodi status", Interest: 72, Change: "+30%", Growth: 30},
	}
}
