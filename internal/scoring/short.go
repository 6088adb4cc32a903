package scoring

import (
	"sort"
	"strings"

	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/pkg/logger"
)

// Bearish sub-score names. These key the short weight table and the
// per-candidate SubScores map.
const (
	SubBearishMomentum   = "bearish_momentum"
	SubFundamentals      = "fundamentals"
	SubAnalystDowngrades = "analyst_downgrades"
	SubBearishOptions    = "bearish_options"
	SubInsiderSelling    = "insider_selling"
	SubInstitutionalDist = "institutional_dist"
	SubFinvizBearish     = "finviz_bearish"
	SubCongressSelling   = "congress_selling"
	SubNegativeNews      = "negative_news"
)

// BearishSubScores lists the nine sub-scores in weighting order.
var BearishSubScores = []string{
	SubBearishMomentum,
	SubFundamentals,
	SubAnalystDowngrades,
	SubBearishOptions,
	SubInsiderSelling,
	SubInstitutionalDist,
	SubFinvizBearish,
	SubCongressSelling,
	SubNegativeNews,
}

const (
	activeSourceBonus   = 4.0
	squeezePenalty      = 15.0
	squeezeFloatPercent = 20.0
	maxSummaryLen       = 120
)

// BearishSnapshot maps sub-score name -> ticker -> signal.
type BearishSnapshot map[string]contracts.SignalMap

// Union returns the sorted union of tickers with at least one
// bearish signal.
func (s BearishSnapshot) Union() []string {
	seen := make(map[string]struct{})
	for _, signals := range s {
		for ticker := range signals {
			seen[ticker] = struct{}{}
		}
	}

	tickers := make([]string, 0, len(seen))
	for ticker := range seen {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)
	return tickers
}

// ShortEngine mirrors the long engine under inverted polarity:
// selling, downgrades, valuation stress, and technical breakdown are
// bullish for the short thesis.
type ShortEngine struct {
	logger         *logger.Logger
	weights        map[string]float64
	squeezePenalty bool
	minScore       float64
}

// NewShortEngine creates a short aggregation engine.
func NewShortEngine(log *logger.Logger, weights map[string]float64, applySqueezePenalty bool, minScore float64) *ShortEngine {
	return &ShortEngine{
		logger:         log,
		weights:        weights,
		squeezePenalty: applySqueezePenalty,
		minScore:       minScore,
	}
}

// Combine produces short candidates from the bearish snapshot.
// shortFloat maps ticker -> short float percent; tickers above 20%
// get a squeeze warning, and when the penalty is enabled, -15 points.
// Only tickers with at least one active bearish signal are
// candidates, and anything below the minimum score is dropped.
func (e *ShortEngine) Combine(snapshot BearishSnapshot, shortFloat map[string]float64) []contracts.ShortCandidate {
	tickers := snapshot.Union()
	candidates := make([]contracts.ShortCandidate, 0, len(tickers))

	for _, ticker := range tickers {
		candidate := contracts.ShortCandidate{
			Ticker:    ticker,
			SubScores: make(map[string]float64, len(e.weights)),
		}

		var score float64
		active := 0
		for _, sub := range BearishSubScores {
			weight := e.weights[sub]
			signals := snapshot[sub]

			// A silent sub-source contributes nothing to the short
			// thesis.
			var subScore float64
			if sig, ok := signals[ticker]; ok {
				subScore = sig.Score
				candidate.BearishSignals = append(candidate.BearishSignals, sig.Tags...)
				candidate.Summary = appendSummary(candidate.Summary, sig.Notes)
			}
			candidate.SubScores[sub] = subScore
			score += subScore * weight
			if subScore > 0 {
				active++
			}
		}

		if active > 1 {
			score += activeSourceBonus * float64(active-1)
		}

		if shortFloat[ticker] > squeezeFloatPercent {
			candidate.SqueezeWarning = true
			if e.squeezePenalty {
				score -= squeezePenalty
			}
		}

		if score < 0 {
			score = 0
		}
		if score < e.minScore {
			continue
		}

		if candidate.Summary == "" {
			candidate.Summary = "Bearish signals detected"
		}
		if len(candidate.Summary) > maxSummaryLen {
			candidate.Summary = candidate.Summary[:maxSummaryLen]
		}

		candidate.Score = score
		candidates = append(candidates, candidate)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Ticker < candidates[j].Ticker
	})

	e.logger.WithFields(map[string]interface{}{
		"candidates": len(candidates),
		"considered": len(tickers),
	}).Info("Short candidate ranking built")

	return candidates
}

func appendSummary(existing string, notes []string) string {
	if len(notes) == 0 {
		return existing
	}
	joined := strings.Join(notes, "; ")
	if existing == "" {
		return joined
	}
	return existing + "; " + joined
}
