package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/wonny/trendscan/internal/contracts"
)

// chartResponse is the chart API envelope. OHLCV arrays use
// interface{} because Yahoo emits JSON nulls for holiday bars.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// valueAt reads one OHLCV slot. Yahoo occasionally truncates
// individual arrays; out-of-range reads as 0 so the bar is dropped
// like a null bar instead of panicking.
func valueAt(arr []interface{}, i int) float64 {
	if i >= len(arr) {
		return 0
	}
	return toFloat(arr[i])
}

// FetchDailyBars returns up to `days` daily candles for one symbol,
// oldest first. Null bars (holidays) are skipped.
func (c *Client) FetchDailyBars(ctx context.Context, symbol string, days int) (*contracts.Series, error) {
	rng := "2y"
	switch {
	case days <= 30:
		rng = "1mo"
	case days <= 90:
		rng = "3mo"
	case days <= 180:
		rng = "6mo"
	case days <= 365:
		rng = "1y"
	}

	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		c.baseURL, url.PathEscape(yahooSymbol(symbol)), rng)

	var chart chartResponse
	if err := c.httpClient.GetJSON(ctx, u, &chart); err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo chart %s: api error: %s", symbol, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: no data returned", symbol)
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo chart %s: no quote block", symbol)
	}
	quote := result.Indicators.Quote[0]

	candles := make([]contracts.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o := valueAt(quote.Open, i)
		h := valueAt(quote.High, i)
		l := valueAt(quote.Low, i)
		cl := valueAt(quote.Close, i)
		if o == 0 || h == 0 || l == 0 || cl == 0 {
			continue // null or truncated bar
		}
		candles = append(candles, contracts.Candle{
			Time:   time.Unix(ts, 0),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  cl,
			Volume: valueAt(quote.Volume, i),
		})
	}

	sort.Slice(candles, func(i, j int) bool { return candles[i].Time.Before(candles[j].Time) })
	if len(candles) > days {
		candles = candles[len(candles)-days:]
	}

	return &contracts.Series{Ticker: symbol, Candles: candles}, nil
}

// FetchDailyBarsBatch fetches daily bars for many symbols with a
// bounded worker pool. Failed symbols are logged and omitted from
// the result; one bad ticker never sinks the batch.
func (c *Client) FetchDailyBarsBatch(ctx context.Context, symbols []string, days, concurrency int) map[string]*contracts.Series {
	if concurrency < 1 {
		concurrency = 1
	}

	type fetched struct {
		symbol string
		series *contracts.Series
	}

	jobs := make(chan string)
	results := make(chan fetched)

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				series, err := c.FetchDailyBars(ctx, symbol, days)
				if err != nil {
					c.logger.WithError(err).WithField("ticker", symbol).Debug("Chart fetch failed")
					continue
				}
				results <- fetched{symbol: symbol, series: series}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, symbol := range symbols {
			select {
			case jobs <- symbol:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make(map[string]*contracts.Series, len(symbols))
	for r := range results {
		out[r.symbol] = r.series
	}

	c.logger.WithFields(map[string]interface{}{
		"requested": len(symbols),
		"fetched":   len(out),
	}).Info("Chart batch complete")

	return out
}

// MonthReturn resolves one symbol's trailing 1-month percent return.
// Used once per scan for the relative-strength benchmark; errors
// degrade to 0 at the call site.
func (c *Client) MonthReturn(ctx context.Context, symbol string) (float64, error) {
	series, err := c.FetchDailyBars(ctx, symbol, 40)
	if err != nil {
		return 0, err
	}
	if series.Len() < 2 {
		return 0, fmt.Errorf("yahoo chart %s: not enough bars for month return", symbol)
	}
	if series.Len() >= 22 {
		return series.Return(21), nil
	}
	base := series.Candles[0].Close
	if base == 0 {
		return 0, nil
	}
	return (series.Last().Close/base - 1) * 100, nil
}
