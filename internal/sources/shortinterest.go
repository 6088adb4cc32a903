package sources

import (
	"fmt"

	"github.com/wonny/trendscan/internal/contracts"
)

// Squeeze risk levels.
const (
	RiskHigh   = "high"
	RiskMedium = "medium"
	RiskLow    = "low"
)

// ShortInterest is one ticker's short-interest reading, assembled by
// the pipeline from Yahoo key statistics with finviz snapshots as
// fallback.
type ShortInterest struct {
	Ticker      string
	ShortFloat  float64 // percent of float
	DaysToCover float64
}

// SqueezeScore rates squeeze potential: the float drives the score,
// slow covering adds on top.
func SqueezeScore(shortFloat, daysToCover float64) float64 {
	score := shortFloat * 2
	if daysToCover > 10 {
		score += 20
	} else if daysToCover > 5 {
		score += 10
	}
	if score > 100 {
		return 100
	}
	return score
}

// SqueezeRisk buckets a reading into high/medium/low.
func SqueezeRisk(shortFloat, daysToCover float64) string {
	switch {
	case shortFloat > 20 || daysToCover > 10:
		return RiskHigh
	case shortFloat > 10 || daysToCover > 5:
		return RiskMedium
	default:
		return RiskLow
	}
}

// ShortInterestSignals scores short-interest readings for the long
// engine. Tickers with no reported short float produce nothing.
func ShortInterestSignals(records []ShortInterest) []contracts.SourceSignal {
	var signals []contracts.SourceSignal
	for _, rec := range records {
		if rec.ShortFloat <= 0 {
			continue
		}

		sig := contracts.SourceSignal{
			Ticker: rec.Ticker,
			Score:  SqueezeScore(rec.ShortFloat, rec.DaysToCover),
			Stats: map[string]float64{
				contracts.StatShortFloat:  rec.ShortFloat,
				contracts.StatDaysToCover: rec.DaysToCover,
			},
		}
		if SqueezeRisk(rec.ShortFloat, rec.DaysToCover) == RiskHigh {
			sig.Tags = append(sig.Tags, contracts.TagSqueezeHigh)
			sig.Notes = append(sig.Notes, fmt.Sprintf("%.1f%% short float", rec.ShortFloat))
		}
		signals = append(signals, sig)
	}
	return signals
}

// ShortFloatMap extracts ticker -> short float percent for the short
// engine's squeeze penalty.
func ShortFloatMap(records []ShortInterest) map[string]float64 {
	out := make(map[string]float64, len(records))
	for _, rec := range records {
		if rec.ShortFloat > 0 {
			out[rec.Ticker] = rec.ShortFloat
		}
	}
	return out
}
