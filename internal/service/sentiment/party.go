// internal/service/sentiment/party.go

package sentiment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"partypulse/internal/domain/party"
	"partypulse/internal/domain/source"
	"partypulse/internal/logger"
)

// Context values describing which side a text favors
const (
	ProYSRCP       = "pro-ysrcp"
	ProTDP         = "pro-tdp"
	AntiYSRCP      = "anti-ysrcp"
	AntiTDP        = "anti-tdp"
	NeutralContext = "neutral"
)

var (
	ysrcpIndicators = []string{"ysrcp", "jagan", "welfare", "navaratnalu", "amma vodi"}
	tdpIndicators   = []string{"tdp", "chandrababu", "naidu", "amaravati"}
)

// PartyReading is a text's polarity together with the party it concerns
type PartyReading struct {
	Text           string  `json:"text"`
	Sentiment      Label   `json:"sentiment"`
	Score          float64 `json:"score"`
	YSRCPMentioned bool    `json:"ysrcp_mentioned"`
	TDPMentioned   bool    `json:"tdp_mentioned"`
	PartyContext   string  `json:"party_context"`
}

// PartySentiment is one party's side of a comparison
type PartySentiment struct {
	Score     int                 `json:"score"`
	Sentiment source.Distribution `json:"sentiment"`
	Overall   Label               `json:"overall"`
}

// Lead names the party ahead and by how much
type Lead struct {
	Leader     party.Party `json:"leader"`
	Difference int         `json:"difference"`
}

// Comparison pairs both parties' text sentiment
type Comparison struct {
	YSRCP      PartySentiment `json:"ysrcp"`
	TDP        PartySentiment `json:"tdp"`
	Comparison Lead           `json:"comparison"`
}

// ClassifyParty scores text and attributes the polarity to a party
func (a *Analyzer) ClassifyParty(text string) PartyReading {
	ysrcp, tdp := party.Mentions(text)
	r := a.Score(text)
	return PartyReading{
		Text:           party.Truncate(text, 100),
		Sentiment:      r.Sentiment,
		Score:          r.Compound,
		YSRCPMentioned: ysrcp,
		TDPMentioned:   tdp,
		PartyContext:   partyContext(strings.ToLower(text), r.Sentiment),
	}
}

func partyContext(lower string, label Label) string {
	y := countIndicators(lower, ysrcpIndicators)
	t := countIndicators(lower, tdpIndicators)

	switch {
	case label == Positive && y > t:
		return ProYSRCP
	case label == Positive && t > y:
		return ProTDP
	case label == Negative && y > t:
		return AntiYSRCP
	case label == Negative && t > y:
		return AntiTDP
	}
	return NeutralContext
}

func countIndicators(lower string, indicators []string) int {
	n := 0
	for _, ind := range indicators {
		if strings.Contains(lower, ind) {
			n++
		}
	}
	return n
}

// Compare scores each party's texts and names the leader. Results are
// cached by a digest of every input text.
func (a *Analyzer) Compare(ctx context.Context, ysrcpTexts, tdpTexts []string) Comparison {
	key := compareKey(ysrcpTexts, tdpTexts)
	res, err := a.comparisons.GetOrCompute(ctx, key, func(context.Context) (Comparison, error) {
		return a.compare(ysrcpTexts, tdpTexts), nil
	})
	if err != nil {
		a.log.Warn("sentiment comparison not cached", logger.Error(err))
		return a.compare(ysrcpTexts, tdpTexts)
	}
	return res
}

func (a *Analyzer) compare(ysrcpTexts, tdpTexts []string) Comparison {
	y := a.ScoreBatch(ysrcpTexts)
	t := a.ScoreBatch(tdpTexts)
	ys := PartyScore(y.Distribution)
	ts := PartyScore(t.Distribution)

	leader := party.TDP
	if ys > ts {
		leader = party.YSRCP
	}
	diff := ys - ts
	if diff < 0 {
		diff = -diff
	}

	return Comparison{
		YSRCP:      PartySentiment{Score: ys, Sentiment: y.Distribution, Overall: y.Overall},
		TDP:        PartySentiment{Score: ts, Sentiment: t.Distribution, Overall: t.Overall},
		Comparison: Lead{Leader: leader, Difference: diff},
	}
}

func compareKey(ysrcpTexts, tdpTexts []string) string {
	h := sha256.New()
	for _, t := range ysrcpTexts {
		h.Write([]byte(t))
		h.Write([]byte{0})
	}
	h.Write([]byte{1})
	for _, t := range tdpTexts {
		h.Write([]byte(t))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
