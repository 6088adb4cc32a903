package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/trendscan/internal/contracts"
)

func defaultShortWeights() map[string]float64 {
	return map[string]float64{
		SubBearishMomentum:   0.25,
		SubFundamentals:      0.15,
		SubAnalystDowngrades: 0.12,
		SubBearishOptions:    0.12,
		SubInsiderSelling:    0.10,
		SubInstitutionalDist: 0.08,
		SubFinvizBearish:     0.08,
		SubCongressSelling:   0.05,
		SubNegativeNews:      0.05,
	}
}

func TestShortCombine_SqueezePenaltyExactly15(t *testing.T) {
	snapshot := BearishSnapshot{
		SubBearishMomentum: signalMap(map[string]float64{"GME": 90}),
		SubFundamentals:    signalMap(map[string]float64{"GME": 80}),
	}
	shortFloat := map[string]float64{"GME": 25}

	penalized := NewShortEngine(testLogger(), defaultShortWeights(), true, 0).
		Combine(snapshot, shortFloat)
	unpenalized := NewShortEngine(testLogger(), defaultShortWeights(), false, 0).
		Combine(snapshot, shortFloat)

	require.Len(t, penalized, 1)
	require.Len(t, unpenalized, 1)

	assert.InDelta(t, 15.0, unpenalized[0].Score-penalized[0].Score, 0.001)
	assert.True(t, penalized[0].SqueezeWarning)
	assert.True(t, unpenalized[0].SqueezeWarning)
}

func TestShortCombine_FlooredAtZero(t *testing.T) {
	// A single weak sub-score on a crowded short: the penalty would
	// push the weighted sum negative without the floor.
	weights := map[string]float64{SubBearishMomentum: 0.1}
	snapshot := BearishSnapshot{
		SubBearishMomentum: signalMap(map[string]float64{"GME": 20}),
	}
	shortFloat := map[string]float64{"GME": 30}

	candidates := NewShortEngine(testLogger(), weights, true, 0).
		Combine(snapshot, shortFloat)

	require.Len(t, candidates, 1)
	assert.Equal(t, 0.0, candidates[0].Score)
}

func TestShortCombine_MinScoreFilter(t *testing.T) {
	weights := map[string]float64{SubBearishMomentum: 1.0}
	snapshot := BearishSnapshot{
		SubBearishMomentum: signalMap(map[string]float64{
			"WEAK":   30,
			"STRONG": 85,
		}),
	}

	candidates := NewShortEngine(testLogger(), weights, true, 40).
		Combine(snapshot, nil)

	require.Len(t, candidates, 1)
	assert.Equal(t, "STRONG", candidates[0].Ticker)
}

func TestShortCombine_ActiveSourceBonus(t *testing.T) {
	weights := map[string]float64{
		SubBearishMomentum: 0.5,
		SubNegativeNews:    0.5,
	}

	one := BearishSnapshot{
		SubBearishMomentum: signalMap(map[string]float64{"X": 80}),
	}
	two := BearishSnapshot{
		SubBearishMomentum: signalMap(map[string]float64{"X": 80}),
		SubNegativeNews:    signalMap(map[string]float64{"X": 50}),
	}

	single := NewShortEngine(testLogger(), weights, true, 0).Combine(one, nil)
	double := NewShortEngine(testLogger(), weights, true, 0).Combine(two, nil)

	require.Len(t, single, 1)
	require.Len(t, double, 1)

	// Silent news contributes nothing: 80*0.5 = 40. The second active
	// source adds its weighted score plus the +4 bonus: 65 + 4 = 69.
	assert.InDelta(t, 40.0, single[0].Score, 0.001)
	assert.InDelta(t, 69.0, double[0].Score, 0.001)
	assert.Equal(t, 0.0, single[0].SubScores[SubNegativeNews])
}

func TestShortCombine_WeakSingleSourceDropped(t *testing.T) {
	// One mildly bearish feed under the full weight table: the eight
	// silent sub-sources add nothing, so the floor filters it out.
	snapshot := BearishSnapshot{
		SubBearishMomentum: signalMap(map[string]float64{"WEAK": 20}),
	}

	candidates := NewShortEngine(testLogger(), defaultShortWeights(), true, 40).
		Combine(snapshot, nil)

	assert.Empty(t, candidates)
}

func TestShortCombine_SummaryFallback(t *testing.T) {
	weights := map[string]float64{SubFundamentals: 1.0}
	snapshot := BearishSnapshot{
		SubFundamentals: signalMap(map[string]float64{"HMM": 80}),
	}

	candidates := NewShortEngine(testLogger(), weights, true, 0).Combine(snapshot, nil)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Bearish signals detected", candidates[0].Summary)
}

func TestShortCombine_CollectsTagsAndNotes(t *testing.T) {
	weights := map[string]float64{SubBearishMomentum: 1.0}
	snapshot := BearishSnapshot{
		SubBearishMomentum: contracts.SignalMap{
			"DWN": {
				Ticker: "DWN",
				Score:  75,
				Tags:   []string{"declining", "below_ma20"},
				Notes:  []string{"down 12% in a month"},
			},
		},
	}

	candidates := NewShortEngine(testLogger(), weights, true, 0).Combine(snapshot, nil)
	require.Len(t, candidates, 1)

	assert.ElementsMatch(t, []string{"declining", "below_ma20"}, candidates[0].BearishSignals)
	assert.Equal(t, "down 12% in a month", candidates[0].Summary)
}

func TestShortCombine_DeterministicOrdering(t *testing.T) {
	weights := map[string]float64{SubBearishMomentum: 1.0}
	snapshot := BearishSnapshot{
		SubBearishMomentum: signalMap(map[string]float64{
			"BBB": 70,
			"AAA": 70,
			"CCC": 90,
		}),
	}

	engine := NewShortEngine(testLogger(), weights, true, 0)
	first := engine.Combine(snapshot, nil)
	second := engine.Combine(snapshot, nil)

	require.Equal(t, first, second)
	assert.Equal(t, "CCC", first[0].Ticker)
	assert.Equal(t, "AAA", first[1].Ticker)
	assert.Equal(t, "BBB", first[2].Ticker)
}
