package sentiment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partypulse/internal/domain/party"
	"partypulse/internal/domain/source"
	"partypulse/internal/logger"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(Config{TTL: time.Hour, Capacity: 10}, logger.NewNop())
}

func TestScoreDomainTerms(t *testing.T) {
	a := newTestAnalyzer()

	pos := a.Score("great welfare scheme")
	assert.Equal(t, Positive, pos.Sentiment)
	assert.InDelta(t, 0.7964, pos.Compound, 0.0001)
	assert.InDelta(t, 0.877, pos.Positive, 0.001)
	assert.InDelta(t, 0.123, pos.Neutral, 0.001)
	assert.Equal(t, pos.Compound, pos.Confidence)

	neg := a.Score("this is a total scam")
	assert.Equal(t, Negative, neg.Sentiment)
	assert.InDelta(t, -0.6124, neg.Compound, 0.0001)
	assert.InDelta(t, 0.5, neg.Negative, 0.001)

	neu := a.Score("meeting held today")
	assert.Equal(t, Neutral, neu.Sentiment)
	assert.Zero(t, neu.Compound)
	assert.Equal(t, 1.0, neu.Neutral)
}

func TestScoreEmptyText(t *testing.T) {
	a := newTestAnalyzer()
	r := a.Score("   ")
	assert.Equal(t, Analysis{Sentiment: Neutral, Neutral: 1}, r)
}

func TestScoreModifiers(t *testing.T) {
	a := newTestAnalyzer()
	plain := a.Score("good").Compound

	assert.Equal(t, Negative, a.Score("not good").Sentiment, "negation flips polarity")
	assert.Greater(t, a.Score("very good").Compound, plain, "booster")
	assert.Less(t, a.Score("slightly good").Compound, plain, "dampener")
	assert.Greater(t, a.Score("good!!!").Compound, plain, "exclamation emphasis")
	assert.Greater(t, a.Score("GREAT job").Compound, a.Score("great job").Compound, "caps emphasis")
	assert.Equal(t, Negative, a.Score("good start but corruption everywhere").Sentiment, "clause after but dominates")
	assert.Equal(t, Negative, a.Score("the scheme isn't a success").Sentiment)
}

func TestScoreCompoundIsBounded(t *testing.T) {
	a := newTestAnalyzer()
	r := a.Score("great great great great great great great great best best best love!!!!")
	assert.LessOrEqual(t, r.Compound, 1.0)
	assert.Greater(t, r.Compound, 0.9)
}

func TestScoreBatch(t *testing.T) {
	a := newTestAnalyzer()
	b := a.ScoreBatch([]string{"great welfare scheme", "this is a total scam", "meeting held today"})

	assert.Equal(t, source.Distribution{Positive: 33, Negative: 33, Neutral: 33}, b.Distribution)
	assert.InDelta(t, 0.061, b.AverageScore, 0.0001)
	assert.Equal(t, Positive, b.Overall)
	assert.Equal(t, 3, b.TotalAnalyzed)
}

func TestScoreBatchEmpty(t *testing.T) {
	a := newTestAnalyzer()
	b := a.ScoreBatch(nil)
	assert.Equal(t, Neutral, b.Overall)
	assert.Equal(t, source.Distribution{Positive: 33, Negative: 33, Neutral: 34}, b.Distribution)
	assert.Zero(t, b.TotalAnalyzed)
}

func TestDistributionMatchesBatch(t *testing.T) {
	a := newTestAnalyzer()
	texts := []string{"great rally", "failed scheme"}
	assert.Equal(t, a.ScoreBatch(texts).Distribution, a.Distribution(texts))
}

func TestPartyScore(t *testing.T) {
	assert.Equal(t, 85, PartyScore(source.Distribution{Positive: 60, Negative: 10}))
	assert.Equal(t, 100, PartyScore(source.Distribution{Positive: 100}))
	assert.Equal(t, 0, PartyScore(source.Distribution{Negative: 100}))
	assert.Equal(t, 30, PartyScore(source.Distribution{}))
}

func TestClassifyParty(t *testing.T) {
	a := newTestAnalyzer()

	r := a.ClassifyParty("YSRCP welfare scheme is great")
	assert.Equal(t, ProYSRCP, r.PartyContext)
	assert.True(t, r.YSRCPMentioned)
	assert.False(t, r.TDPMentioned)
	assert.Equal(t, Positive, r.Sentiment)

	assert.Equal(t, AntiTDP, a.ClassifyParty("TDP corruption scam exposed").PartyContext)
	assert.Equal(t, NeutralContext, a.ClassifyParty("meeting held today").PartyContext)
	assert.Equal(t, NeutralContext, a.ClassifyParty("great day for Jagan and Naidu").PartyContext, "tied indicators")
}

func TestClassifyPartyTruncatesText(t *testing.T) {
	a := newTestAnalyzer()
	long := ""
	for len(long) < 150 {
		long += "welfare "
	}
	r := a.ClassifyParty(long)
	assert.Len(t, []rune(r.Text), 103)
}

func TestCompare(t *testing.T) {
	a := newTestAnalyzer()
	ysrcp := []string{"great welfare scheme", "YSRCP victory rally"}
	tdp := []string{"TDP scam exposed", "meeting held today"}

	c := a.Compare(context.Background(), ysrcp, tdp)
	assert.Equal(t, party.YSRCP, c.Comparison.Leader)
	assert.Equal(t, 100, c.YSRCP.Score)
	assert.Equal(t, 5, c.TDP.Score)
	assert.Equal(t, 95, c.Comparison.Difference)
	assert.Equal(t, Positive, c.YSRCP.Overall)

	again := a.Compare(context.Background(), ysrcp, tdp)
	assert.Equal(t, c, again)
	assert.Equal(t, 1, a.comparisons.Len())

	a.Compare(context.Background(), tdp, ysrcp)
	assert.Equal(t, 2, a.comparisons.Len())

	a.ClearCache()
	assert.Zero(t, a.comparisons.Len())
}

func TestCompareTieGoesToTDP(t *testing.T) {
	a := newTestAnalyzer()
	c := a.Compare(context.Background(), nil, nil)
	require.Equal(t, c.YSRCP.Score, c.TDP.Score)
	assert.Equal(t, party.TDP, c.Comparison.Leader)
	assert.Zero(t, c.Comparison.Difference)
}
