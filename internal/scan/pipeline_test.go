package scan

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/internal/external/finviz"
	"github.com/wonny/trendscan/internal/external/reddit"
	"github.com/wonny/trendscan/internal/external/yahoo"
	"github.com/wonny/trendscan/internal/scanconfig"
	"github.com/wonny/trendscan/internal/sources"
	"github.com/wonny/trendscan/pkg/config"
	"github.com/wonny/trendscan/pkg/httputil"
	"github.com/wonny/trendscan/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error"})
}

func TestScreenFromName(t *testing.T) {
	tests := []struct {
		name   string
		screen finviz.Screen
		ok     bool
	}{
		{"gainers", finviz.ScreenTopGainers, true},
		{"LOSERS", finviz.ScreenTopLosers, true},
		{"unusual_volume", finviz.ScreenUnusualVolume, true},
		{"new_highs", finviz.ScreenNewHigh, true},
		{"oversold", finviz.ScreenOversold, true},
		{"overbought", finviz.ScreenOverbought, true},
		{"wsb_favorites", "", false},
	}
	for _, tt := range tests {
		screen, ok := screenFromName(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.screen, screen, tt.name)
	}
}

func TestBuildUniverse(t *testing.T) {
	cfg := &scanconfig.Config{
		Universe: scanconfig.Universe{
			Watchlist:  []string{"nvda", "AAPL"},
			MaxTickers: 5,
		},
	}
	p := New(cfg, Deps{Logger: testLogger()})

	d := &discovery{
		screens: sources.ScreenResults{
			Gainers: []finviz.ScreenEntry{{Ticker: "TSLA"}, {Ticker: "aapl"}},
		},
		mentions: []reddit.Mention{{Ticker: "GME"}},
	}

	universe := p.buildUniverse(d, []string{"PLTR", "NVDA", "COIN"})

	// Watchlist order first, then discovered sorted, then theme
	// tickers, deduplicated case-insensitively and capped.
	assert.Equal(t, []string{"NVDA", "AAPL", "GME", "TSLA", "PLTR"}, universe)
}

func TestBuildUniverse_NoCap(t *testing.T) {
	cfg := &scanconfig.Config{
		Universe: scanconfig.Universe{Watchlist: []string{"AAPL"}},
	}
	p := New(cfg, Deps{Logger: testLogger()})

	universe := p.buildUniverse(&discovery{}, []string{"PLTR"})
	assert.Equal(t, []string{"AAPL", "PLTR"}, universe)
}

// chartJSON builds a chart payload with n rising daily closes ending
// yesterday. Every served ticker shares the same shape; the test only
// needs profiles to exist, not to differ.
func chartJSON(n int) string {
	ts := make([]string, n)
	vals := make([]string, n)
	for i := 0; i < n; i++ {
		ts[i] = fmt.Sprintf("%d", 1700000000+int64(i)*86400)
		vals[i] = fmt.Sprintf("%.1f", 100.0+float64(i))
	}
	arr := "[" + strings.Join(vals, ",") + "]"
	return fmt.Sprintf(`{"chart":{"result":[{"timestamp":[%s],
		"indicators":{"quote":[{"open":%s,"high":%s,"low":%s,"close":%s,"volume":%s}]}}],
		"error":null}}`, strings.Join(ts, ","), arr, arr, arr, arr, arr)
}

func TestEnrich_FetchesInBatches(t *testing.T) {
	log := testLogger()

	var mu sync.Mutex
	served := make(map[string]int)
	charts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ticker := strings.TrimPrefix(r.URL.Path, "/v8/finance/chart/")
		mu.Lock()
		served[ticker]++
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chartJSON(30))
	}))
	defer charts.Close()

	httpClient := httputil.New(&config.Config{}, log).DisableRetry()
	cfg := &scanconfig.Config{
		Scan: scanconfig.ScanConfig{Concurrency: 2, TimeoutSeconds: 5, HistoryDays: 30, BatchSize: 2},
	}
	p := New(cfg, Deps{Logger: log, Yahoo: yahoo.NewClient(httpClient, log).WithBaseURL(charts.URL)})

	// Five tickers over a batch size of two: the last chunk is a
	// partial one and must still be fetched.
	universe := []string{"AAPL", "MSFT", "NVDA", "AMD", "TSLA"}
	profiles, _ := p.enrich(context.Background(), universe)

	require.Len(t, profiles, 5)
	mu.Lock()
	defer mu.Unlock()
	for _, ticker := range universe {
		assert.Equal(t, 1, served[ticker], ticker)
	}
}

// A scan where every screen and headline source is down must still
// produce momentum rankings from price history alone, with the
// failures recorded per source.
func TestRun_DegradesToMomentumWhenSourcesFail(t *testing.T) {
	log := testLogger()

	charts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/v8/finance/chart/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, chartJSON(30))
	}))
	defer charts.Close()

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer down.Close()

	httpClient := httputil.New(&config.Config{}, log).DisableRetry()
	yahooClient := yahoo.NewClient(httpClient, log).WithBaseURL(charts.URL)
	finvizClient := finviz.NewClient(httpClient, log).WithBaseURL(down.URL)

	cfg := &scanconfig.Config{
		Meta:     scanconfig.Meta{StrategyID: "trendscan-v1"},
		Universe: scanconfig.Universe{Watchlist: []string{"AAPL", "MSFT"}, MaxTickers: 10},
		Sources: scanconfig.Sources{
			Benchmark: "SPY",
			Finviz:    scanconfig.FinvizSource{Screens: []string{"gainers", "losers"}, RowsPerScreen: 5},
		},
		Weights: scanconfig.Weights{
			Long:  map[string]float64{"momentum": 1.0},
			Short: map[string]float64{"bearish_momentum": 1.0},
		},
		Short: scanconfig.ShortConfig{MinScore: 40},
		Themes: []scanconfig.ThemeConfig{
			{Name: "AI Infrastructure", ETFs: []string{"QQQ"}, Tickers: []string{"PLTR"}},
		},
		Scan: scanconfig.ScanConfig{Concurrency: 4, TimeoutSeconds: 5, HistoryDays: 30},
	}

	p := New(cfg, Deps{Logger: log, Yahoo: yahooClient, Finviz: finvizClient})

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	// QQQ rose ~19% over the month, so the theme is hot and its
	// ticker joins the universe.
	require.Len(t, result.Themes, 1)
	assert.True(t, result.Themes[0].Hot)
	assert.Equal(t, []string{"AAPL", "MSFT", "PLTR"}, result.Universe)

	require.Len(t, result.Rankings, 3)
	for _, r := range result.Rankings {
		assert.Contains(t, r.Sources, contracts.SourceMomentum)
		assert.Greater(t, r.Score, 50.0)
	}

	// The overheated RSI alone does not clear the short floor.
	assert.Empty(t, result.ShortCandidates)

	for _, source := range []string{
		"finviz_gainers", "finviz_losers", "finviz_buy_rated",
		"finviz_sectors", "insider", "analyst",
	} {
		assert.Contains(t, result.SourceErrors, source)
	}
}
