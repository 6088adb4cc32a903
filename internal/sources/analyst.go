package sources

import (
	"fmt"

	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/internal/external/finviz"
)

// BestRatings deduplicates ratings per ticker, keeping the highest
// scoring one, preserving input order of first appearance.
func BestRatings(ratings []finviz.Rating) []finviz.Rating {
	byTicker := make(map[string]finviz.Rating)
	var order []string

	for _, r := range ratings {
		best, ok := byTicker[r.Ticker]
		if !ok {
			byTicker[r.Ticker] = r
			order = append(order, r.Ticker)
			continue
		}
		if r.Score > best.Score {
			byTicker[r.Ticker] = r
		}
	}

	out := make([]finviz.Rating, 0, len(order))
	for _, ticker := range order {
		out = append(out, byTicker[ticker])
	}
	return out
}

// AnalystSignals scores deduplicated ratings for the long engine.
func AnalystSignals(ratings []finviz.Rating) []contracts.SourceSignal {
	records := make([]contracts.SourceSignal, 0, len(ratings))
	for _, r := range ratings {
		rec := contracts.SourceSignal{
			Ticker: r.Ticker,
			Score:  r.Score,
		}
		switch r.Action {
		case finviz.ActionUpgrade:
			rec.Tags = append(rec.Tags, contracts.TagUpgrade)
		case finviz.ActionDowngrade:
			rec.Tags = append(rec.Tags, contracts.TagDowngrade)
		}
		records = append(records, rec)
	}
	return records
}

// AnalystDowngradeSignals extracts the bearish slice: downgrades and
// price-target cuts.
func AnalystDowngradeSignals(ratings []finviz.Rating) []contracts.SourceSignal {
	var records []contracts.SourceSignal
	for _, r := range ratings {
		if r.Action != finviz.ActionDowngrade && r.Action != finviz.ActionPTLower {
			continue
		}

		note := r.Action
		if r.Firm != "" {
			note = fmt.Sprintf("%s by %s", r.Action, r.Firm)
		}

		records = append(records, contracts.SourceSignal{
			Ticker: r.Ticker,
			Score:  r.Score,
			Tags:   []string{"analyst_" + r.Action},
			Notes:  []string{note},
		})
	}
	return records
}
