package scan

import (
	"time"

	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/internal/etfflows"
)

// Result is one batch run's full output, consumed read-only by the
// report writers and the API layer.
type Result struct {
	StrategyID string    `json:"strategy_id"`
	RanAt      time.Time `json:"ran_at"`
	Duration   string    `json:"duration"`

	Universe []string `json:"universe"`

	Themes          []contracts.Theme `json:"themes"`
	HotThemeTickers []string          `json:"hot_theme_tickers,omitempty"`

	SectorPerformance []contracts.SectorPerformance `json:"sector_performance,omitempty"`

	SectorFlows        []etfflows.SectorFlow  `json:"sector_flows,omitempty"`
	HotHoldings        []contracts.HotHolding `json:"hot_holdings,omitempty"`
	LeveragedSentiment string                 `json:"leveraged_sentiment,omitempty"`

	Rankings        []contracts.CombinedRanking `json:"rankings"`
	ShortCandidates []contracts.ShortCandidate  `json:"short_candidates"`

	// SourceErrors records feeds that degraded to "no data" this run.
	SourceErrors map[string]string `json:"source_errors,omitempty"`
}

// TopRankings returns the first n rankings (or fewer).
func (r *Result) TopRankings(n int) []contracts.CombinedRanking {
	if n <= 0 || n > len(r.Rankings) {
		n = len(r.Rankings)
	}
	return r.Rankings[:n]
}
