// Package sentiment scores finance text with keyword polarity counts.
package sentiment

import "strings"

// Label is a coarse sentiment bucket.
type Label string

const (
	Bullish Label = "bullish"
	Bearish Label = "bearish"
	Neutral Label = "neutral"
)

// Polarity thresholds for labeling. Between them the text is neutral.
const (
	bullishThreshold = 0.1
	bearishThreshold = -0.1
)

var bullishKeywords = []string{
	"moon", "rocket", "calls", "bullish", "breakout", "rally", "squeeze",
	"buy", "long", "upgrade", "beat", "beats", "surge", "soar", "soars",
	"jump", "jumps", "gain", "gains", "record", "strong", "growth",
	"outperform", "undervalued", "accumulate", "partnership", "approval",
}

var bearishKeywords = []string{
	"drill", "puts", "bearish", "crash", "dump", "tank", "tanks",
	"sell", "short", "downgrade", "miss", "misses", "plunge", "plunges",
	"fall", "falls", "drop", "drops", "weak", "decline", "lawsuit",
	"bankruptcy", "recall", "investigation", "layoffs", "overvalued",
	"warning", "cut", "cuts", "fraud",
}

// Polarity returns a score in [-1, 1]: the balance of bullish versus
// bearish keyword hits. Zero when the text carries neither.
func Polarity(text string) float64 {
	words := strings.Fields(strings.ToLower(text))

	var bullish, bearish int
	for _, word := range words {
		word = strings.Trim(word, ".,!?:;\"'()[]$")
		if contains(bullishKeywords, word) {
			bullish++
		}
		if contains(bearishKeywords, word) {
			bearish++
		}
	}

	total := bullish + bearish
	if total == 0 {
		return 0
	}
	return float64(bullish-bearish) / float64(total)
}

// Analyze labels one text.
func Analyze(text string) Label {
	p := Polarity(text)
	switch {
	case p > bullishThreshold:
		return Bullish
	case p < bearishThreshold:
		return Bearish
	default:
		return Neutral
	}
}

func contains(list []string, word string) bool {
	for _, w := range list {
		if w == word {
			return true
		}
	}
	return false
}
