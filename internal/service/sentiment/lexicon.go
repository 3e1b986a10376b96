// internal/service/sentiment/lexicon.go

package sentiment

// Valences follow the VADER scale of roughly -4 to +4.
var baseLexicon = map[string]float64{
	"good":            1.9,
	"great":           3.1,
	"excellent":       2.7,
	"amazing":         2.8,
	"awesome":         3.1,
	"best":            3.2,
	"better":          1.9,
	"love":            3.2,
	"loved":           2.9,
	"like":            1.5,
	"happy":           2.7,
	"glad":            2.0,
	"nice":            1.8,
	"wonderful":       2.7,
	"fantastic":       2.6,
	"brilliant":       2.8,
	"strong":          2.3,
	"proud":           2.1,
	"hope":            1.9,
	"hopeful":         2.3,
	"thank":           1.5,
	"thanks":          1.9,
	"congratulations": 2.9,
	"congrats":        2.4,
	"win":             2.8,
	"wins":            2.7,
	"won":             2.7,
	"winning":         2.4,
	"celebrate":       2.7,
	"positive":        2.6,
	"trust":           2.3,
	"fair":            1.3,
	"honest":          2.3,
	"safe":            1.9,
	"help":            1.7,
	"helpful":         1.8,
	"improve":         1.9,
	"improved":        2.1,
	"boost":           1.7,
	"promise":         1.3,
	"peace":           2.5,
	"free":            2.3,
	"grateful":        2.0,
	"inspiring":       2.2,
	"praise":          2.6,
	"popular":         1.8,
	"hero":            2.6,
	"bad":             -2.5,
	"worse":           -2.1,
	"worst":           -3.1,
	"terrible":        -2.1,
	"horrible":        -2.5,
	"awful":           -2.0,
	"poor":            -2.1,
	"sad":             -2.1,
	"angry":           -2.3,
	"anger":           -2.7,
	"hate":            -2.7,
	"fear":            -2.2,
	"fail":            -2.5,
	"failed":          -2.3,
	"fails":           -1.8,
	"loss":            -1.3,
	"lost":            -1.3,
	"weak":            -1.9,
	"wrong":           -2.1,
	"problem":         -1.7,
	"problems":        -1.7,
	"attack":          -2.1,
	"attacked":        -2.3,
	"violence":        -3.1,
	"kill":            -3.7,
	"killed":          -3.5,
	"death":           -2.9,
	"dead":            -3.3,
	"fraud":           -2.8,
	"corrupt":         -3.0,
	"lie":             -1.6,
	"lies":            -1.8,
	"liar":            -3.1,
	"cheat":           -2.0,
	"cheated":         -2.3,
	"betray":          -3.2,
	"betrayal":        -2.8,
	"shame":           -2.1,
	"shameful":        -2.2,
	"disaster":        -3.1,
	"destroyed":       -2.6,
	"chaos":           -2.7,
	"arrested":        -2.1,
	"crime":           -2.5,
	"criminal":        -2.4,
	"illegal":         -2.6,
	"threat":          -2.4,
	"unfair":          -2.1,
	"useless":         -1.8,
	"worry":           -1.9,
	"blame":           -1.4,
}

// politicalLexicon is layered over baseLexicon and wins on conflicts
var politicalLexicon = map[string]float64{
	"welfare":     2.0,
	"development": 1.5,
	"progress":    1.5,
	"success":     2.0,
	"achievement": 2.0,
	"benefit":     1.5,
	"support":     1.0,
	"victory":     2.5,
	"growth":      1.5,

	"corruption":  -2.5,
	"scam":        -3.0,
	"failure":     -2.0,
	"protest":     -1.0,
	"scandal":     -2.5,
	"controversy": -1.5,
	"crisis":      -2.0,
	"opposition":  -0.5,

	// transliterated Telugu
	"manchidi": 2.0,
	"chedda":   -2.0,
}

const (
	boostIncrement = 0.293
	boostDecrement = -0.293
	capsIncrement  = 0.733
	negationScalar = -0.74
)

var boosters = map[string]float64{
	"absolutely": boostIncrement, "amazingly": boostIncrement, "completely": boostIncrement,
	"considerably": boostIncrement, "deeply": boostIncrement, "enormously": boostIncrement,
	"entirely": boostIncrement, "especially": boostIncrement, "exceptionally": boostIncrement,
	"extremely": boostIncrement, "greatly": boostIncrement, "highly": boostIncrement,
	"hugely": boostIncrement, "incredibly": boostIncrement, "intensely": boostIncrement,
	"more": boostIncrement, "most": boostIncrement, "particularly": boostIncrement,
	"purely": boostIncrement, "quite": boostIncrement, "really": boostIncrement,
	"remarkably": boostIncrement, "so": boostIncrement, "substantially": boostIncrement,
	"thoroughly": boostIncrement, "totally": boostIncrement, "tremendously": boostIncrement,
	"utterly": boostIncrement, "very": boostIncrement,

	"almost": boostDecrement, "barely": boostDecrement, "hardly": boostDecrement,
	"less": boostDecrement, "little": boostDecrement, "marginally": boostDecrement,
	"occasionally": boostDecrement, "partly": boostDecrement, "scarcely": boostDecrement,
	"slightly": boostDecrement, "somewhat": boostDecrement,
}

var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "none": {}, "nobody": {}, "nothing": {},
	"neither": {}, "nor": {}, "nowhere": {}, "cannot": {}, "without": {},
	"aint": {}, "cant": {}, "dont": {}, "doesnt": {}, "didnt": {}, "isnt": {},
	"arent": {}, "wasnt": {}, "werent": {}, "wont": {}, "wouldnt": {},
	"shouldnt": {}, "couldnt": {}, "hasnt": {}, "havent": {}, "hadnt": {},
}

func newLexicon() map[string]float64 {
	lex := make(map[string]float64, len(baseLexicon)+len(politicalLexicon))
	for w, v := range baseLexicon {
		lex[w] = v
	}
	for w, v := range politicalLexicon {
		lex[w] = v
	}
	return lex
}
