package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/internal/etfflows"
	"github.com/wonny/trendscan/internal/scan"
)

func sampleResult() *scan.Result {
	return &scan.Result{
		StrategyID: "trendscan-v1",
		RanAt:      time.Date(2026, 3, 6, 14, 30, 0, 0, time.UTC),
		Duration:   "12.4s",
		Universe:   []string{"NVDA", "TSLA", "RIVN"},
		Rankings: []contracts.CombinedRanking{
			{
				Ticker: "NVDA",
				Score:  87.5,
				SourceScores: map[contracts.Source]float64{
					contracts.SourceMomentum: 82,
					contracts.SourceReddit:   66,
					contracts.SourceNews:     48,
				},
				Sources:    []contracts.Source{contracts.SourceMomentum, contracts.SourceReddit},
				InHotTheme: true,
				Summary:    "19.4% in a month, 42 Reddit mentions",
			},
			{
				Ticker: "TSLA",
				Score:  61.2,
				SourceScores: map[contracts.Source]float64{
					contracts.SourceMomentum: 58,
				},
				Sources: []contracts.Source{contracts.SourceMomentum},
			},
		},
		ShortCandidates: []contracts.ShortCandidate{
			{
				Ticker:         "RIVN",
				Score:          72.0,
				BearishSignals: []string{"declining", "below_ma20"},
				SqueezeWarning: true,
			},
		},
		SectorPerformance: []contracts.SectorPerformance{
			{Sector: "Technology", Perf1M: 4.21},
			{Sector: "Energy", Perf1M: -2.10},
		},
		SectorFlows: []etfflows.SectorFlow{
			{ETF: "XLK", Sector: "Technology", Score: 79.2, Signal: etfflows.SignalInflow},
		},
		Themes: []contracts.Theme{
			{Name: "AI Infrastructure", Avg1M: 6.0, Avg1W: 1.2, Hot: true},
		},
		LeveragedSentiment: "bullish",
		SourceErrors:       map[string]string{"reddit": "status 429"},
	}
}

func TestScoreIndicator(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{95, "+++"},
		{80, "+++"},
		{70, "++"},
		{55, "+"},
		{40, "-"},
		{10, "--"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ScoreIndicator(tt.score))
	}
}

func TestRender_Sections(t *testing.T) {
	var buf strings.Builder
	Render(&buf, sampleResult(), 10)
	out := buf.String()

	assert.Contains(t, out, "TRENDING STOCKS REPORT - 2026-03-06 14:30")
	assert.Contains(t, out, "TOP TRENDING STOCKS")
	assert.Contains(t, out, "NVDA")
	assert.Contains(t, out, "87.5")
	assert.Contains(t, out, "SHORT CANDIDATES")
	assert.Contains(t, out, "[SQUEEZE RISK]")
	assert.Contains(t, out, "SECTOR MOMENTUM (1 Month)")
	assert.Contains(t, out, "+4.21%")
	assert.Contains(t, out, "-2.10%")
	assert.Contains(t, out, "SECTOR FLOWS (ETF)")
	assert.Contains(t, out, "Leveraged ETF sentiment: bullish")
	assert.Contains(t, out, "THEME MOMENTUM")
	assert.Contains(t, out, "* AI Infrastructure")
	assert.Contains(t, out, "DEGRADED SOURCES")
	assert.Contains(t, out, "reddit: status 429")
}

func TestRender_TruncatesToTopN(t *testing.T) {
	var buf strings.Builder
	Render(&buf, sampleResult(), 1)
	out := buf.String()

	assert.Contains(t, out, "NVDA")
	// TSLA only appears in the combined table, which is capped at 1.
	assert.NotContains(t, out, "TSLA")
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	require.NoError(t, WriteJSON(sampleResult(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got snapshot
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "trendscan-v1", got.StrategyID)
	assert.Len(t, got.Combined, 2)
	assert.Equal(t, "NVDA", got.Combined[0].Ticker)
	assert.Len(t, got.ShortCandidates, 1)
	assert.Equal(t, "bullish", got.LeveragedSentiment)
	assert.Equal(t, "status 429", got.SourceErrors["reddit"])
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, WriteCSV(sampleResult(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 rankings

	header := rows[0]
	assert.Equal(t, "rank", header[0])
	assert.Equal(t, "ticker", header[1])

	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "NVDA", rows[1][1])
	assert.Equal(t, "87.5", rows[1][2])
	assert.Equal(t, "true", rows[1][3])
	assert.Equal(t, "momentum,reddit", rows[1][4])
	assert.Equal(t, "2", rows[2][0])
	assert.Equal(t, "TSLA", rows[2][1])
}
