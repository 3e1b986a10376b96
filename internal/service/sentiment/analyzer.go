// internal/service/sentiment/analyzer.go

package sentiment

import (
	"math"
	"strings"
	"time"
	"unicode"

	"partypulse/internal/cache"
	"partypulse/internal/domain/source"
	"partypulse/internal/logger"
)

// Label is the coarse polarity of a text
type Label string

const (
	Positive Label = "positive"
	Negative Label = "negative"
	Neutral  Label = "neutral"
)

// Fixed classification thresholds on the compound value
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
	normalizeAlpha    = 15.0
)

// Analysis is the polarity reading of one text
type Analysis struct {
	Sentiment  Label   `json:"sentiment"`
	Compound   float64 `json:"compound"`
	Positive   float64 `json:"positive"`
	Negative   float64 `json:"negative"`
	Neutral    float64 `json:"neutral"`
	Confidence float64 `json:"confidence"`
}

// Batch summarizes the readings of many texts
type Batch struct {
	Overall       Label               `json:"overall"`
	Distribution  source.Distribution `json:"distribution"`
	AverageScore  float64             `json:"averageScore"`
	TotalAnalyzed int                 `json:"totalAnalyzed"`
}

// Config holds the comparison cache settings
type Config struct {
	TTL      time.Duration
	Capacity int
}

// Analyzer scores text against a weighted lexicon
type Analyzer struct {
	lexicon     map[string]float64
	log         logger.Logger
	comparisons *cache.Cache[string, Comparison]
}

// NewAnalyzer creates an analyzer with the political lexicon loaded
func NewAnalyzer(cfg Config, log logger.Logger) *Analyzer {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 500
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	return &Analyzer{
		lexicon:     newLexicon(),
		log:         log.With(logger.String("component", "sentiment")),
		comparisons: cache.New[string, Comparison]("sentiment_compare", cfg.Capacity, cfg.TTL),
	}
}

// ClearCache drops cached comparisons
func (a *Analyzer) ClearCache() {
	a.comparisons.Clear()
}

// Score reads the polarity of a single text
func (a *Analyzer) Score(text string) Analysis {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return Analysis{Sentiment: Neutral, Neutral: 1}
	}

	capDiff := capsDifferential(tokens)
	sentiments := make([]float64, len(tokens))
	for i, tok := range tokens {
		sentiments[i] = a.valence(tokens, i, tok, capDiff)
	}
	sentiments = butShift(tokens, sentiments)

	var sum float64
	for _, s := range sentiments {
		sum += s
	}
	emphasis := punctuationEmphasis(text)
	if sum > 0 {
		sum += emphasis
	} else if sum < 0 {
		sum -= emphasis
	}
	compound := round(normalize(sum), 4)

	pos, neg, neu := siftFractions(sentiments, emphasis)
	return Analysis{
		Sentiment:  labelFor(compound),
		Compound:   compound,
		Positive:   pos,
		Negative:   neg,
		Neutral:    neu,
		Confidence: math.Abs(compound),
	}
}

// ScoreBatch reads many texts and reports the label distribution. Each
// bucket is rounded on its own, so the split need not sum to 100.
func (a *Analyzer) ScoreBatch(texts []string) Batch {
	if len(texts) == 0 {
		return Batch{
			Overall:      Neutral,
			Distribution: source.Distribution{Positive: 33, Negative: 33, Neutral: 34},
		}
	}

	var pos, neg, neu int
	var total float64
	for _, t := range texts {
		r := a.Score(t)
		total += r.Compound
		switch r.Sentiment {
		case Positive:
			pos++
		case Negative:
			neg++
		default:
			neu++
		}
	}

	n := float64(len(texts))
	avg := total / n
	return Batch{
		Overall: labelFor(avg),
		Distribution: source.Distribution{
			Positive: percent(pos, n),
			Negative: percent(neg, n),
			Neutral:  percent(neu, n),
		},
		AverageScore:  round(avg, 3),
		TotalAnalyzed: len(texts),
	}
}

// Distribution returns only the label split for texts
func (a *Analyzer) Distribution(texts []string) source.Distribution {
	return a.ScoreBatch(texts).Distribution
}

// PartyScore maps a distribution onto 0-100: positive - negative/2 + 30.
// This is independent of the engagement-based score in the stats service.
func PartyScore(d source.Distribution) int {
	score := int(float64(d.Positive) - float64(d.Negative)*0.5 + 30)
	return max(0, min(100, score))
}

func (a *Analyzer) valence(tokens []string, i int, tok string, capDiff bool) float64 {
	lower := strings.ToLower(tok)
	if _, ok := boosters[lower]; ok {
		return 0
	}
	if lower == "kind" && i+1 < len(tokens) && strings.ToLower(tokens[i+1]) == "of" {
		return 0
	}

	v, ok := a.lexicon[lower]
	if !ok {
		return 0
	}
	if capDiff && isShouting(tok) {
		v += math.Copysign(capsIncrement, v)
	}

	for dist := 1; dist <= 3 && i-dist >= 0; dist++ {
		prev := tokens[i-dist]
		prevLower := strings.ToLower(prev)
		if _, inLex := a.lexicon[prevLower]; !inLex {
			if b := boosterScalar(prev, v, capDiff); b != 0 {
				v += b * (1 - 0.05*float64(dist-1))
			}
		}
		if isNegation(prevLower) {
			v *= negationScalar
		}
	}
	return v
}

func boosterScalar(word string, valence float64, capDiff bool) float64 {
	scalar, ok := boosters[strings.ToLower(word)]
	if !ok {
		return 0
	}
	if valence < 0 {
		scalar = -scalar
	}
	if capDiff && isShouting(word) {
		scalar += math.Copysign(capsIncrement, valence)
	}
	return scalar
}

func isNegation(lower string) bool {
	if strings.HasSuffix(lower, "n't") {
		return true
	}
	_, ok := negations[strings.ReplaceAll(lower, "'", "")]
	return ok
}

// butShift damps sentiment before the first "but" and amplifies it after
func butShift(tokens []string, sentiments []float64) []float64 {
	for i, tok := range tokens {
		if strings.ToLower(tok) != "but" {
			continue
		}
		for j := range sentiments {
			switch {
			case j < i:
				sentiments[j] *= 0.5
			case j > i:
				sentiments[j] *= 1.5
			}
		}
		break
	}
	return sentiments
}

func punctuationEmphasis(text string) float64 {
	excl := min(strings.Count(text, "!"), 4)
	emphasis := float64(excl) * 0.292

	if q := strings.Count(text, "?"); q > 1 {
		if q <= 3 {
			emphasis += float64(q) * 0.18
		} else {
			emphasis += 0.96
		}
	}
	return emphasis
}

func siftFractions(sentiments []float64, emphasis float64) (pos, neg, neu float64) {
	var posSum, negSum float64
	var neuCount int
	for _, s := range sentiments {
		switch {
		case s > 0:
			posSum += s + 1
		case s < 0:
			negSum += s - 1
		default:
			neuCount++
		}
	}
	if posSum > math.Abs(negSum) {
		posSum += emphasis
	} else if posSum < math.Abs(negSum) {
		negSum -= emphasis
	}

	total := posSum + math.Abs(negSum) + float64(neuCount)
	if total == 0 {
		return 0, 0, 1
	}
	return round(math.Abs(posSum/total), 3), round(math.Abs(negSum/total), 3), round(math.Abs(float64(neuCount)/total), 3)
}

func normalize(score float64) float64 {
	n := score / math.Sqrt(score*score+normalizeAlpha)
	return math.Max(-1, math.Min(1, n))
}

func labelFor(compound float64) Label {
	switch {
	case compound >= positiveThreshold:
		return Positive
	case compound <= negativeThreshold:
		return Negative
	default:
		return Neutral
	}
}

// tokenize splits on whitespace and trims surrounding punctuation. Tokens
// made only of punctuation, such as emoticons, are kept as they are.
func tokenize(text string) []string {
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if stripped := strings.TrimFunc(f, unicode.IsPunct); stripped != "" {
			f = stripped
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// capsDifferential reports whether some but not all tokens are shouted
func capsDifferential(tokens []string) bool {
	shouted := 0
	for _, t := range tokens {
		if isShouting(t) {
			shouted++
		}
	}
	return shouted > 0 && shouted < len(tokens)
}

func isShouting(tok string) bool {
	hasLetter := false
	for _, r := range tok {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func percent(count int, total float64) int {
	return int(math.RoundToEven(float64(count) / total * 100))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
