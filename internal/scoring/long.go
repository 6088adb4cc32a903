package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/pkg/logger"
)

const (
	themeBonus        = 5.0
	multiSourceBonus  = 3.0
	flowBonusFraction = 0.05
)

// LongEngine merges all normalized source maps into the combined long
// ranking. Weights are expected, not enforced, to sum to 1.0; missing
// sources regress a ticker toward the neutral 50.
type LongEngine struct {
	logger  *logger.Logger
	weights map[contracts.Source]float64
}

// NewLongEngine creates a long aggregation engine with the given
// weight table.
func NewLongEngine(log *logger.Logger, weights map[contracts.Source]float64) *LongEngine {
	return &LongEngine{logger: log, weights: weights}
}

// Combine produces one CombinedRanking per ticker in the union of all
// source maps. themeTickers marks tickers belonging to a hot theme;
// hotHoldings carries ETF flow scores for inflow-sector holdings.
// The combined score is deliberately not re-clamped: bonuses are
// additive on top of the weighted sum and may push it past 100.
func (e *LongEngine) Combine(snapshot Snapshot, themeTickers map[string]bool, hotHoldings map[string]contracts.HotHolding) []contracts.CombinedRanking {
	tickers := snapshot.Union()
	rankings := make([]contracts.CombinedRanking, 0, len(tickers))

	for _, ticker := range tickers {
		active := snapshot.ActiveSources(ticker)
		if len(active) == 0 {
			// Only ETF-flow data, no weighted source has an opinion.
			continue
		}

		ranking := contracts.CombinedRanking{
			Ticker:       ticker,
			SourceScores: make(map[contracts.Source]float64, len(e.weights)),
			Sources:      active,
		}

		var score float64
		for src, weight := range e.weights {
			srcScore := snapshot[src].ScoreOrNeutral(ticker)
			ranking.SourceScores[src] = srcScore
			score += srcScore * weight
		}

		if themeTickers[ticker] {
			score += themeBonus
			ranking.InHotTheme = true
		}

		// An inflow-sector holding counts as a contributing source.
		holding, inFlows := hotHoldings[ticker]
		if inFlows {
			score += holding.FlowScore * flowBonusFraction
			ranking.Sources = append(ranking.Sources, contracts.SourceETFFlows)
		}

		score += multiSourceBonus * float64(len(ranking.Sources)-1)

		ranking.Score = score
		ranking.Summary = e.buildSummary(snapshot, ticker, holding.Sectors, ranking.InHotTheme)
		rankings = append(rankings, ranking)
	}

	sortRankings(rankings)

	e.logger.WithFields(map[string]interface{}{
		"tickers": len(rankings),
		"sources": len(snapshot),
	}).Info("Combined long ranking built")

	return rankings
}

// sortRankings orders by score descending with a lexical ticker
// tiebreak so repeated runs on the same snapshot are identical.
func sortRankings(rankings []contracts.CombinedRanking) {
	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].Score != rankings[j].Score {
			return rankings[i].Score > rankings[j].Score
		}
		return rankings[i].Ticker < rankings[j].Ticker
	})
}

// buildSummary concatenates short phrases triggered by threshold
// crossings in the individual source data.
func (e *LongEngine) buildSummary(snapshot Snapshot, ticker string, inflowSectors []string, inTheme bool) string {
	var parts []string

	if sig, ok := snapshot.Signal(contracts.SourceMomentum, ticker); ok {
		if change := sig.Stat(contracts.StatChange1M); change > 5 {
			parts = append(parts, fmt.Sprintf("%.1f%% in a month", change))
		}
	}
	if sig, ok := snapshot.Signal(contracts.SourceReddit, ticker); ok {
		if mentions := sig.Stat(contracts.StatMentions); mentions > 10 {
			parts = append(parts, fmt.Sprintf("%.0f Reddit mentions", mentions))
		}
	}
	if sig, ok := snapshot.Signal(contracts.SourceNews, ticker); ok {
		if articles := sig.Stat(contracts.StatArticles); articles > 2 {
			parts = append(parts, fmt.Sprintf("%.0f news articles", articles))
		}
	}
	if sig, ok := snapshot.Signal(contracts.SourceTrends, ticker); ok && sig.Score > 50 {
		parts = append(parts, "search interest rising")
	}
	if sig, ok := snapshot.Signal(contracts.SourceShortInterest, ticker); ok && sig.HasTag(contracts.TagSqueezeHigh) {
		parts = append(parts, "high squeeze risk")
	}
	if sig, ok := snapshot.Signal(contracts.SourceOptions, ticker); ok && sig.HasTag(contracts.TagBullishSweep) {
		parts = append(parts, "bullish options sweep")
	}
	if sig, ok := snapshot.Signal(contracts.SourcePerplexity, ticker); ok && sig.HasTag(contracts.TagCatalyst) {
		parts = append(parts, "AI-flagged catalyst")
	}
	if sig, ok := snapshot.Signal(contracts.SourceInsider, ticker); ok {
		if buyValue := sig.Stat(contracts.StatBuyValue); buyValue > 100_000 {
			parts = append(parts, "insider buying")
		}
	}
	if sig, ok := snapshot.Signal(contracts.SourceAnalyst, ticker); ok && sig.HasTag(contracts.TagUpgrade) {
		parts = append(parts, "analyst upgrade")
	}
	if sig, ok := snapshot.Signal(contracts.SourceCongress, ticker); ok && sig.HasTag(contracts.TagCongressBuying) {
		parts = append(parts, "congress buying")
	}
	if sig, ok := snapshot.Signal(contracts.SourceInstitutional, ticker); ok && sig.HasTag(contracts.TagAccumulation) {
		parts = append(parts, "institutional accumulation")
	}
	if len(inflowSectors) > 0 {
		parts = append(parts, fmt.Sprintf("ETF inflows: %s", inflowSectors[0]))
	}
	if inTheme {
		parts = append(parts, "hot theme")
	}

	if len(parts) == 0 {
		return "Low activity"
	}
	return strings.Join(parts, ", ")
}
