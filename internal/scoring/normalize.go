// Package scoring contains the aggregation engines that merge
// per-source signal maps into the long and short rankings.
package scoring

import (
	"sort"
	"strings"

	"github.com/wonny/trendscan/internal/contracts"
)

// Snapshot is the frozen per-source input to one aggregation run.
// Built once by the pipeline, read-only afterwards.
type Snapshot map[contracts.Source]contracts.SignalMap

// Normalize converts raw connector records into a SignalMap. Records
// with an empty ticker are skipped, tickers are uppercased, and
// scores are clamped to [0,100] so the aggregation invariant holds
// regardless of what a connector produced.
func Normalize(records []contracts.SourceSignal) contracts.SignalMap {
	out := make(contracts.SignalMap, len(records))
	for _, rec := range records {
		ticker := strings.ToUpper(strings.TrimSpace(rec.Ticker))
		if ticker == "" {
			continue
		}
		rec.Ticker = ticker
		if rec.Score < 0 {
			rec.Score = 0
		}
		if rec.Score > 100 {
			rec.Score = 100
		}
		out[ticker] = rec
	}
	return out
}

// Union returns the sorted union of tickers across all sources in
// the snapshot. Sorted so downstream iteration is deterministic.
func (s Snapshot) Union() []string {
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

// ActiveSources returns the sources that actually produced data for
// the ticker, in a fixed order.
func (s Snapshot) ActiveSources(ticker string) []contracts.Source {
	var active []contracts.Source
	for _, src := range contracts.LongSources {
		if signals, ok := s[src]; ok {
			if _, ok := signals[ticker]; ok {
				active = append(active, src)
			}
		}
	}
	return active
}

// Signal looks up one (source, ticker) signal.
func (s Snapshot) Signal(src contracts.Source, ticker string) (contracts.SourceSignal, bool) {
	signals, ok := s[src]
	if !ok {
		return contracts.SourceSignal{}, false
	}
	sig, ok := signals[ticker]
	return sig, ok
}
