package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chartBody builds a chart API payload from parallel slices. A nil
// entry in closes becomes a JSON null bar.
func chartBody(timestamps []int64, closes []interface{}) string {
	vals := make([]string, len(closes))
	for i, c := range closes {
		if c == nil {
			vals[i] = "null"
		} else {
			vals[i] = fmt.Sprintf("%v", c)
		}
	}
	ts := make([]string, len(timestamps))
	for i, t := range timestamps {
		ts[i] = fmt.Sprintf("%d", t)
	}
	arr := "[" + strings.Join(vals, ",") + "]"
	return fmt.Sprintf(`{"chart":{"result":[{"timestamp":[%s],
		"indicators":{"quote":[{"open":%s,"high":%s,"low":%s,"close":%s,"volume":%s}]}}],
		"error":null}}`, strings.Join(ts, ","), arr, arr, arr, arr, arr)
}

func TestFetchDailyBars_SkipsNullBars(t *testing.T) {
	body := chartBody(
		[]int64{1700000000, 1700086400, 1700172800, 1700259200},
		[]interface{}{100.0, nil, 102.0, 103.0},
	)
	client, _ := testClient(t, jsonHandler(body))

	series, err := client.FetchDailyBars(context.Background(), "NVDA", 90)
	require.NoError(t, err)
	require.Equal(t, 3, series.Len())
	assert.Equal(t, "NVDA", series.Ticker)
	assert.Equal(t, 100.0, series.Candles[0].Close)
	assert.Equal(t, 103.0, series.Last().Close)
}

func TestFetchDailyBars_SkipsTruncatedBars(t *testing.T) {
	// Open array shorter than timestamp/close: those bars are dropped
	// like null bars instead of crashing the fetch.
	body := `{"chart":{"result":[{"timestamp":[1700000000,1700086400,1700172800],
		"indicators":{"quote":[{"open":[100.0],"high":[101.0,102.0,103.0],
		"low":[99.0,100.0,101.0],"close":[100.5,101.5,102.5],"volume":[1000,1100,1200]}]}}],
		"error":null}}`
	client, _ := testClient(t, jsonHandler(body))

	series, err := client.FetchDailyBars(context.Background(), "NVDA", 90)
	require.NoError(t, err)
	require.Equal(t, 1, series.Len())
	assert.Equal(t, 100.5, series.Candles[0].Close)
}

func TestFetchDailyBars_TrimsToRequestedDays(t *testing.T) {
	timestamps := make([]int64, 10)
	closes := make([]interface{}, 10)
	for i := range timestamps {
		timestamps[i] = 1700000000 + int64(i)*86400
		closes[i] = 100.0 + float64(i)
	}
	client, _ := testClient(t, jsonHandler(chartBody(timestamps, closes)))

	series, err := client.FetchDailyBars(context.Background(), "AAPL", 5)
	require.NoError(t, err)
	require.Equal(t, 5, series.Len())
	// Trimming keeps the newest bars.
	assert.Equal(t, 105.0, series.Candles[0].Close)
	assert.Equal(t, 109.0, series.Last().Close)
}

func TestFetchDailyBars_APIError(t *testing.T) {
	body := `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`
	client, _ := testClient(t, jsonHandler(body))

	_, err := client.FetchDailyBars(context.Background(), "ZZZZZ", 90)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delisted")
}

func TestFetchDailyBars_HTTPError(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))

	_, err := client.FetchDailyBars(context.Background(), "NVDA", 90)
	require.Error(t, err)
}

func TestFetchDailyBarsBatch_OmitsFailedSymbols(t *testing.T) {
	body := chartBody(
		[]int64{1700000000, 1700086400},
		[]interface{}{100.0, 101.0},
	)
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "BAD") {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))

	out := client.FetchDailyBarsBatch(context.Background(), []string{"NVDA", "BAD", "AAPL"}, 90, 2)
	require.Len(t, out, 2)
	assert.Contains(t, out, "NVDA")
	assert.Contains(t, out, "AAPL")
	assert.NotContains(t, out, "BAD")
}

func TestMonthReturn_ShortHistoryFallsBackToEarliest(t *testing.T) {
	// 6 bars only: return measured from the earliest close.
	timestamps := make([]int64, 6)
	closes := make([]interface{}, 6)
	for i := range timestamps {
		timestamps[i] = 1700000000 + int64(i)*86400
		closes[i] = 100.0 + float64(i)*2
	}
	client, _ := testClient(t, jsonHandler(chartBody(timestamps, closes)))

	ret, err := client.MonthReturn(context.Background(), "SPY")
	require.NoError(t, err)
	assert.InDelta(t, 10.0, ret, 1e-9)
}
