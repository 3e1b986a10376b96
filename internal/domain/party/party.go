// internal/domain/party/party.go

package party

import "strings"

// Party tags which political entity a record is about
type Party string

const (
	YSRCP   Party = "ysrcp"
	TDP     Party = "tdp"
	General Party = "general"
	Neutral Party = "neutral"
)

// Tracked lists the two parties compared on the dashboard, in display order
var Tracked = []Party{YSRCP, TDP}

// Keyword lists used to attribute free text to a party
var (
	YSRCPKeywords = []string{
		"YSRCP", "YS Jagan", "Jagan Mohan Reddy", "YSR Congress",
		"Navaratnalu", "Amma Vodi", "Rythu Bharosa", "Jagananna",
	}
	TDPKeywords = []string{
		"TDP", "Chandrababu Naidu", "Telugu Desam", "Nara Lokesh",
		"Amaravati capital", "Chandrababu",
	}
)

// Hashtags commonly used by each party's supporters
var (
	YSRCPHashtags = []string{"#YSRCP", "#YSJagan", "#Navaratnalu", "#AmmaVodi", "#Jagananna"}
	TDPHashtags   = []string{"#TDP", "#Chandrababu", "#TeluguDesam", "#NaraLokesh", "#Amaravati"}
)

// Parse maps a query value to a tracked party. Anything else yields false.
func Parse(s string) (Party, bool) {
	switch Party(strings.ToLower(strings.TrimSpace(s))) {
	case YSRCP:
		return YSRCP, true
	case TDP:
		return TDP, true
	}
	return "", false
}

// Other returns the opposing tracked party
func (p Party) Other() Party {
	if p == YSRCP {
		return TDP
	}
	return YSRCP
}

// Classify returns the first party whose keyword list matches text.
// The YSRCP list is checked first; no match yields General.
func Classify(text string) Party {
	lower := strings.ToLower(text)
	if countMatches(lower, YSRCPKeywords) > 0 {
		return YSRCP
	}
	if countMatches(lower, TDPKeywords) > 0 {
		return TDP
	}
	return General
}

// ClassifyByCount returns the party with more keyword hits in text.
// Ties, including zero hits, yield Neutral.
func ClassifyByCount(text string) Party {
	lower := strings.ToLower(text)
	y := countMatches(lower, YSRCPKeywords)
	t := countMatches(lower, TDPKeywords)
	switch {
	case y > t:
		return YSRCP
	case t > y:
		return TDP
	default:
		return Neutral
	}
}

// Mentions reports whether text mentions each party at all
func Mentions(text string) (ysrcp, tdp bool) {
	lower := strings.ToLower(text)
	return countMatches(lower, YSRCPKeywords) > 0, countMatches(lower, TDPKeywords) > 0
}

func countMatches(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			n++
		}
	}
	return n
}
