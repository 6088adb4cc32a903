package sources

import (
	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/internal/momentum"
)

// MomentumSignals maps computed momentum profiles into signal records.
func MomentumSignals(profiles map[string]*contracts.MomentumProfile) []contracts.SourceSignal {
	records := make([]contracts.SourceSignal, 0, len(profiles))
	for _, p := range profiles {
		rec := contracts.SourceSignal{
			Ticker: p.Ticker,
			Score:  p.Score,
			Stats: map[string]float64{
				contracts.StatChange1M: p.Change1M,
			},
		}
		if p.Breakout {
			rec.Tags = append(rec.Tags, "breakout")
		}
		records = append(records, rec)
	}
	return records
}

// BearishMomentumSignals runs the bearish extractor over the same
// profiles. Profiles without meaningful bearish structure produce
// nothing.
func BearishMomentumSignals(extractor *momentum.BearishExtractor, profiles map[string]*contracts.MomentumProfile) []contracts.SourceSignal {
	var records []contracts.SourceSignal
	for _, p := range profiles {
		if sig := extractor.Extract(p); sig != nil {
			records = append(records, *sig)
		}
	}
	return records
}
