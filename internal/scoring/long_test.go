package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/pkg/config"
	"github.com/wonny/trendscan/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error"})
}

func signalMap(scores map[string]float64) contracts.SignalMap {
	m := make(contracts.SignalMap, len(scores))
	for ticker, score := range scores {
		m[ticker] = contracts.SourceSignal{Ticker: ticker, Score: score}
	}
	return m
}

func TestCombine_WeightedSumWithMultiSourceBonus(t *testing.T) {
	engine := NewLongEngine(testLogger(), map[contracts.Source]float64{
		contracts.SourceMomentum: 0.5,
		contracts.SourceReddit:   0.5,
	})

	snapshot := Snapshot{
		contracts.SourceMomentum: signalMap(map[string]float64{"AAPL": 80}),
		contracts.SourceReddit:   signalMap(map[string]float64{"AAPL": 60}),
	}

	rankings := engine.Combine(snapshot, nil, nil)
	require.Len(t, rankings, 1)

	// 0.5*80 + 0.5*60 = 70, plus +3 for the second active source
	assert.Equal(t, 73.0, rankings[0].Score)
	assert.Equal(t, "AAPL", rankings[0].Ticker)
	assert.Len(t, rankings[0].Sources, 2)
}

func TestCombine_NeutralDefaultForAbsentSource(t *testing.T) {
	engine := NewLongEngine(testLogger(), map[contracts.Source]float64{
		contracts.SourceMomentum: 0.5,
		contracts.SourceReddit:   0.5,
	})

	// Reddit has no opinion on AAPL: its slot regresses to 50.
	snapshot := Snapshot{
		contracts.SourceMomentum: signalMap(map[string]float64{"AAPL": 80}),
		contracts.SourceReddit:   contracts.SignalMap{},
	}

	rankings := engine.Combine(snapshot, nil, nil)
	require.Len(t, rankings, 1)

	// 0.5*80 + 0.5*50 = 65, single active source so no bonus
	assert.Equal(t, 65.0, rankings[0].Score)
	assert.Equal(t, 50.0, rankings[0].SourceScores[contracts.SourceReddit])
}

func TestCombine_ThemeAndFlowBonuses(t *testing.T) {
	engine := NewLongEngine(testLogger(), map[contracts.Source]float64{
		contracts.SourceMomentum: 1.0,
	})

	snapshot := Snapshot{
		contracts.SourceMomentum: signalMap(map[string]float64{"NVDA": 70}),
	}
	themes := map[string]bool{"NVDA": true}
	holdings := map[string]contracts.HotHolding{
		"NVDA": {Ticker: "NVDA", FlowScore: 80},
	}

	rankings := engine.Combine(snapshot, themes, holdings)
	require.Len(t, rankings, 1)

	// 70 + 5 (theme) + 80*0.05 (flow) + 3 (etf_flows as second source) = 82
	assert.Equal(t, 82.0, rankings[0].Score)
	assert.True(t, rankings[0].InHotTheme)
}

func TestCombine_ETFFlowCountsAsSource(t *testing.T) {
	engine := NewLongEngine(testLogger(), map[contracts.Source]float64{
		contracts.SourceMomentum: 1.0,
	})

	snapshot := Snapshot{
		contracts.SourceMomentum: signalMap(map[string]float64{"AAPL": 70, "KO": 70}),
	}
	holdings := map[string]contracts.HotHolding{
		"AAPL": {Ticker: "AAPL", Sectors: []string{"Technology"}, FlowScore: 60},
	}

	rankings := engine.Combine(snapshot, nil, holdings)
	require.Len(t, rankings, 2)

	// 70 + 60*0.05 (flow) + 3 (etf_flows as second source) = 76
	aapl := rankings[0]
	assert.Equal(t, "AAPL", aapl.Ticker)
	assert.Equal(t, 76.0, aapl.Score)
	assert.Contains(t, aapl.Sources, contracts.SourceETFFlows)
	assert.Contains(t, aapl.Summary, "ETF inflows: Technology")
	assert.NotContains(t, rankings[1].Sources, contracts.SourceETFFlows)
}

func TestCombine_NoReclampAbove100(t *testing.T) {
	weights := make(map[contracts.Source]float64)
	snapshot := make(Snapshot)
	for _, src := range contracts.LongSources {
		weights[src] = 1.0 / float64(len(contracts.LongSources))
		snapshot[src] = signalMap(map[string]float64{"TSLA": 100})
	}

	engine := NewLongEngine(testLogger(), weights)
	rankings := engine.Combine(snapshot, map[string]bool{"TSLA": true}, nil)
	require.Len(t, rankings, 1)

	// 100 weighted + 5 theme + 3*11 multi-source = 138
	assert.Greater(t, rankings[0].Score, 100.0)
	assert.InDelta(t, 138.0, rankings[0].Score, 0.001)
}

func TestCombine_ZeroSourceTickerAbsent(t *testing.T) {
	engine := NewLongEngine(testLogger(), map[contracts.Source]float64{
		contracts.SourceMomentum: 1.0,
	})

	snapshot := Snapshot{
		contracts.SourceMomentum: signalMap(map[string]float64{"AAPL": 80}),
	}

	rankings := engine.Combine(snapshot, map[string]bool{"GHOST": true}, nil)
	require.Len(t, rankings, 1)
	assert.Equal(t, "AAPL", rankings[0].Ticker)
}

func TestCombine_DeterministicOrdering(t *testing.T) {
	engine := NewLongEngine(testLogger(), map[contracts.Source]float64{
		contracts.SourceMomentum: 1.0,
	})

	snapshot := Snapshot{
		contracts.SourceMomentum: signalMap(map[string]float64{
			"MSFT": 70,
			"AAPL": 70,
			"NVDA": 90,
		}),
	}

	first := engine.Combine(snapshot, nil, nil)
	second := engine.Combine(snapshot, nil, nil)

	require.Equal(t, first, second, "identical snapshot must produce identical ranking")

	// Highest score first, then lexical among the tied pair
	assert.Equal(t, "NVDA", first[0].Ticker)
	assert.Equal(t, "AAPL", first[1].Ticker)
	assert.Equal(t, "MSFT", first[2].Ticker)
}

func TestCombine_SummaryThresholds(t *testing.T) {
	engine := NewLongEngine(testLogger(), map[contracts.Source]float64{
		contracts.SourceMomentum: 0.5,
		contracts.SourceReddit:   0.5,
	})

	snapshot := Snapshot{
		contracts.SourceMomentum: contracts.SignalMap{
			"AMD": {Ticker: "AMD", Score: 80, Stats: map[string]float64{contracts.StatChange1M: 12.3}},
		},
		contracts.SourceReddit: contracts.SignalMap{
			"AMD": {Ticker: "AMD", Score: 70, Stats: map[string]float64{contracts.StatMentions: 42}},
		},
	}

	rankings := engine.Combine(snapshot, nil, nil)
	require.Len(t, rankings, 1)

	assert.Contains(t, rankings[0].Summary, "12.3% in a month")
	assert.Contains(t, rankings[0].Summary, "42 Reddit mentions")
}

func TestCombine_QuietTickerSummary(t *testing.T) {
	engine := NewLongEngine(testLogger(), map[contracts.Source]float64{
		contracts.SourceMomentum: 1.0,
	})

	snapshot := Snapshot{
		contracts.SourceMomentum: signalMap(map[string]float64{"KO": 52}),
	}

	rankings := engine.Combine(snapshot, nil, nil)
	require.Len(t, rankings, 1)
	assert.Equal(t, "Low activity", rankings[0].Summary)
}

func TestNormalize(t *testing.T) {
	records := []contracts.SourceSignal{
		{Ticker: "aapl", Score: 120},
		{Ticker: " NVDA ", Score: -5},
		{Ticker: "", Score: 50},
		{Ticker: "MSFT", Score: 61.5},
	}

	m := Normalize(records)
	require.Len(t, m, 3)

	assert.Equal(t, 100.0, m["AAPL"].Score)
	assert.Equal(t, 0.0, m["NVDA"].Score)
	assert.Equal(t, 61.5, m["MSFT"].Score)
}

func TestSnapshotUnion(t *testing.T) {
	snapshot := Snapshot{
		contracts.SourceMomentum: signalMap(map[string]float64{"B": 1, "A": 2}),
		contracts.SourceReddit:   signalMap(map[string]float64{"C": 3, "A": 4}),
	}

	assert.Equal(t, []string{"A", "B", "C"}, snapshot.Union())
}
