package finviz

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// QuoteSnapshot holds the cells of a quote page snapshot table used
// by the short-interest and ETF-flow passes. A false Has* flag means
// the short-interest cell was absent or "-"; the performance and
// volume fields default to zero when missing.
type QuoteSnapshot struct {
	Ticker        string  `json:"ticker"`
	ShortFloat    float64 `json:"short_float"` // percent
	ShortRatio    float64 `json:"short_ratio"` // days to cover
	HasShortFloat bool    `json:"has_short_float"`
	HasShortRatio bool    `json:"has_short_ratio"`

	Change    float64 `json:"change"`     // percent, today
	PerfWeek  float64 `json:"perf_week"`  // percent
	PerfMonth float64 `json:"perf_month"` // percent
	Volume    float64 `json:"volume"`
	AvgVolume float64 `json:"avg_volume"`
}

// FetchQuoteSnapshot scrapes one ticker's quote page snapshot table.
// Labels and values alternate across snapshot cells, so the parser
// pairs each label cell with its right-hand neighbor.
func (c *Client) FetchQuoteSnapshot(ctx context.Context, ticker string) (*QuoteSnapshot, error) {
	doc, err := c.fetchDocument(ctx, fmt.Sprintf("/quote.ashx?t=%s", url.QueryEscape(ticker)))
	if err != nil {
		return nil, err
	}

	snapshot := &QuoteSnapshot{Ticker: strings.ToUpper(ticker)}

	table := doc.Find("table.snapshot-table2").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("finviz quote %s: snapshot table not found", ticker)
	}

	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		for j := 0; j+1 < cells.Length(); j += 2 {
			label := strings.ToLower(strings.TrimSpace(cells.Eq(j).Text()))
			value := cells.Eq(j + 1).Text()

			switch {
			case strings.Contains(label, "short float"):
				snapshot.ShortFloat, snapshot.HasShortFloat = parsePercent(value)
			case strings.Contains(label, "short ratio"):
				snapshot.ShortRatio, snapshot.HasShortRatio = parseNumber(value)
			case label == "change":
				snapshot.Change, _ = parsePercent(value)
			case label == "perf week":
				snapshot.PerfWeek, _ = parsePercent(value)
			case label == "perf month":
				snapshot.PerfMonth, _ = parsePercent(value)
			case label == "volume":
				snapshot.Volume, _ = parseNumber(value)
			case label == "avg volume":
				snapshot.AvgVolume, _ = parseNumber(value)
			}
		}
	})

	return snapshot, nil
}
