package sources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/internal/momentum"
	"github.com/wonny/trendscan/pkg/config"
	"github.com/wonny/trendscan/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error"})
}

func TestMomentumSignals(t *testing.T) {
	profiles := map[string]*contracts.MomentumProfile{
		"NVDA": {Ticker: "NVDA", Score: 82.5, Change1M: 14.2, Breakout: true},
		"KO":   {Ticker: "KO", Score: 41.0, Change1M: -1.3},
	}

	records := MomentumSignals(profiles)
	require.Len(t, records, 2)

	byTicker := make(map[string]contracts.SourceSignal)
	for _, rec := range records {
		byTicker[rec.Ticker] = rec
	}

	assert.Equal(t, 82.5, byTicker["NVDA"].Score)
	assert.InDelta(t, 14.2, byTicker["NVDA"].Stat(contracts.StatChange1M), 1e-9)
	assert.True(t, byTicker["NVDA"].HasTag("breakout"))
	assert.False(t, byTicker["KO"].HasTag("breakout"))
}

func TestBearishMomentumSignals(t *testing.T) {
	extractor := momentum.NewBearishExtractor(testLogger())

	profiles := map[string]*contracts.MomentumProfile{
		// Broken chart: declining, below both MAs, death cross, breakdown.
		"DWN": {Ticker: "DWN", Change1M: -10, Change5D: -3, Change1D: -1, RSI: 45},
		// Healthy chart produces no bearish signal.
		"UP": {Ticker: "UP", Change1M: 12, Change5D: 3, Change1D: 1, RSI: 55, AboveMA20: true, AboveMA50: true},
	}

	records := BearishMomentumSignals(extractor, profiles)
	require.Len(t, records, 1)
	assert.Equal(t, "DWN", records[0].Ticker)
	assert.Equal(t, 50.0, records[0].Score)
}
