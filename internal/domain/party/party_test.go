package party

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want Party
	}{
		{"YSRCP rally in Guntur", YSRCP},
		{"Chandrababu Naidu addresses farmers", TDP},
		{"YS Jagan and Chandrababu debate", YSRCP},
		{"Weather update for Vizag", General},
		{"", General},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.text), tt.text)
	}
}

func TestClassifyByCount(t *testing.T) {
	assert.Equal(t, TDP, ClassifyByCount("TDP leader Nara Lokesh visits YSRCP stronghold"))
	assert.Equal(t, YSRCP, ClassifyByCount("YS Jagan launches Amma Vodi scheme"))
	assert.Equal(t, Neutral, ClassifyByCount("YSRCP and TDP both skip the meeting"))
	assert.Equal(t, Neutral, ClassifyByCount("Assembly session adjourned"))
}

func TestMentions(t *testing.T) {
	y, d := Mentions("Jagananna vs Chandrababu")
	assert.True(t, y)
	assert.True(t, d)

	y, d = Mentions("nothing here")
	assert.False(t, y)
	assert.False(t, d)
}

func TestParse(t *testing.T) {
	p, ok := Parse(" YSRCP ")
	assert.True(t, ok)
	assert.Equal(t, YSRCP, p)

	_, ok = Parse("all")
	assert.False(t, ok)

	assert.Equal(t, TDP, YSRCP.Other())
	assert.Equal(t, YSRCP, TDP.Other())
}

func TestDedupeKey(t *testing.T) {
	assert.Equal(t, DedupeKey("YSRCP Wins Big!!"), DedupeKey("ysrcp wins big"))
	assert.Equal(t, "చంద్రబాబు సభ", DedupeKey("చంద్రబాబు, సభ!"))

	long := "This headline is certainly much longer than fifty characters in total"
	assert.Len(t, []rune(DedupeKey(long)), 50)
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "999", FormatCount(999))
	assert.Equal(t, "1.5K", FormatCount(1500))
	assert.Equal(t, "2.5L", FormatCount(250_000))
	assert.Equal(t, "2.8Cr", FormatCount(28_000_000))
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2d ago", TimeAgo(now.Add(-50*time.Hour), now))
	assert.Equal(t, "3h ago", TimeAgo(now.Add(-3*time.Hour-10*time.Minute), now))
	assert.Equal(t, "5m ago", TimeAgo(now.Add(-5*time.Minute), now))
	assert.Equal(t, "Just now", TimeAgo(now.Add(-10*time.Second), now))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab...", Truncate("abcdef", 2))
	assert.Equal(t, "ab", Clip("abcdef", 2))
}
