package sources

import (
	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/internal/external/yahoo"
)

// Options signal classifications.
const (
	OptionsBullishSweep = contracts.TagBullishSweep
	OptionsBearishSweep = contracts.TagBearishSweep
	OptionsStraddle     = "straddle"
	OptionsNeutral      = "neutral"
)

// OptionsScore rates unusual activity: volume running ahead of open
// interest, a skewed put/call ratio, and raw volume all add on top of
// a neutral 50.
func OptionsScore(a *yahoo.OptionsActivity) float64 {
	score := 50.0

	switch {
	case a.VolumeOIRatio > 5:
		score += 25
	case a.VolumeOIRatio > 3:
		score += 15
	case a.VolumeOIRatio > 2:
		score += 10
	}

	switch {
	case a.PutCallRatio < 0.5 || a.PutCallRatio > 1.5:
		score += 15
	case a.PutCallRatio < 0.6 || a.PutCallRatio > 1.2:
		score += 10
	}

	total := a.TotalVolume()
	if total > 100_000 {
		score += 10
	} else if total > 50_000 {
		score += 5
	}

	return clampScore(score)
}

// ClassifyOptionsSignal names the activity pattern.
func ClassifyOptionsSignal(a *yahoo.OptionsActivity) string {
	switch {
	case a.PutCallRatio < 0.5 && a.VolumeOIRatio > 2:
		return OptionsBullishSweep
	case a.PutCallRatio > 1.5 && a.VolumeOIRatio > 2:
		return OptionsBearishSweep
	case a.PutCallRatio >= 0.8 && a.PutCallRatio <= 1.2 && a.VolumeOIRatio > 3:
		return OptionsStraddle
	default:
		return OptionsNeutral
	}
}

// OptionsSignals scores options activity for the long engine.
func OptionsSignals(activities []*yahoo.OptionsActivity) []contracts.SourceSignal {
	records := make([]contracts.SourceSignal, 0, len(activities))
	for _, a := range activities {
		rec := contracts.SourceSignal{
			Ticker: a.Ticker,
			Score:  OptionsScore(a),
			Stats: map[string]float64{
				contracts.StatPutCall: a.PutCallRatio,
			},
		}
		if signal := ClassifyOptionsSignal(a); signal != OptionsNeutral {
			rec.Tags = append(rec.Tags, signal)
		}
		records = append(records, rec)
	}
	return records
}

// BearishOptionsSignals extracts the bearish slice: confirmed bearish
// sweeps keep their full score, an elevated put/call ratio alone
// scales with the skew.
func BearishOptionsSignals(activities []*yahoo.OptionsActivity) []contracts.SourceSignal {
	var records []contracts.SourceSignal
	for _, a := range activities {
		var rec contracts.SourceSignal
		switch {
		case ClassifyOptionsSignal(a) == OptionsBearishSweep:
			rec = contracts.SourceSignal{
				Ticker: a.Ticker,
				Score:  OptionsScore(a),
				Tags:   []string{contracts.TagBearishSweep},
			}
		case a.PutCallRatio > 1.5:
			score := a.PutCallRatio * 30
			if score > 80 {
				score = 80
			}
			rec = contracts.SourceSignal{
				Ticker: a.Ticker,
				Score:  score,
				Tags:   []string{"high_put_call"},
			}
		default:
			continue
		}
		rec.Stats = map[string]float64{contracts.StatPutCall: a.PutCallRatio}
		records = append(records, rec)
	}
	return records
}
