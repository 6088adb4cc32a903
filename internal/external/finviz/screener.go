package finviz

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Screen is a Finviz screener signal preset.
type Screen string

const (
	ScreenTopGainers    Screen = "ta_topgainers"
	ScreenTopLosers     Screen = "ta_toplosers"
	ScreenUnusualVolume Screen = "ta_unusualvolume"
	ScreenNewHigh       Screen = "ta_newhigh"
	ScreenOversold      Screen = "ta_oversold"
	ScreenOverbought    Screen = "ta_overbought"
)

// DiscoveryScreens are the screens the long discovery phase runs.
var DiscoveryScreens = []Screen{
	ScreenTopGainers,
	ScreenUnusualVolume,
	ScreenNewHigh,
	ScreenOversold,
}

// ScreenEntry is one screener result row.
type ScreenEntry struct {
	Ticker    string  `json:"ticker"`
	Company   string  `json:"company"`
	Sector    string  `json:"sector"`
	ChangePct float64 `json:"change_pct"`
	Volume    float64 `json:"volume"`
}

// FetchScreen returns up to limit rows from one screener signal page.
func (c *Client) FetchScreen(ctx context.Context, screen Screen, limit int) ([]ScreenEntry, error) {
	doc, err := c.fetchDocument(ctx, fmt.Sprintf("/screener.ashx?v=111&s=%s", screen))
	if err != nil {
		return nil, err
	}

	entries := parseScreenRows(doc, limit)

	c.logger.WithFields(map[string]interface{}{
		"screen": string(screen),
		"rows":   len(entries),
	}).Debug("Finviz screen fetched")
	return entries, nil
}

// FetchBuyRated returns stocks carrying a consensus analyst buy
// rating, sorted by daily change.
func (c *Client) FetchBuyRated(ctx context.Context, limit int) ([]ScreenEntry, error) {
	doc, err := c.fetchDocument(ctx, "/screener.ashx?v=111&f=an_recom_buy&o=-change")
	if err != nil {
		return nil, err
	}
	return parseScreenRows(doc, limit), nil
}

// parseScreenRows walks every table row and keeps the ones whose
// second cell links to a quote page. The screener layout shifts
// between Finviz revisions, so rows are recognized by shape rather
// than by table class.
func parseScreenRows(doc *goquery.Document, limit int) []ScreenEntry {
	var entries []ScreenEntry
	seen := make(map[string]bool)

	doc.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 10 {
			return true
		}

		link := cells.Eq(1).Find("a").First()
		href, _ := link.Attr("href")
		if !strings.HasPrefix(href, "quote.ashx") && !strings.HasPrefix(href, "/quote.ashx") {
			return true
		}

		ticker := strings.TrimSpace(link.Text())
		if len(ticker) < 2 || len(ticker) > 5 || seen[ticker] {
			return true
		}

		entry := ScreenEntry{
			Ticker:  strings.ToUpper(ticker),
			Company: strings.TrimSpace(cells.Eq(2).Text()),
			Sector:  strings.TrimSpace(cells.Eq(3).Text()),
		}

		// The change column moves around; take the first percent cell.
		cells.EachWithBreak(func(j int, cell *goquery.Selection) bool {
			text := strings.TrimSpace(cell.Text())
			if !strings.HasSuffix(text, "%") {
				return true
			}
			if v, ok := parsePercent(text); ok {
				entry.ChangePct = v
				return false
			}
			return true
		})
		// Volume is the trailing column.
		if v, ok := parseNumber(cells.Eq(cells.Length() - 1).Text()); ok {
			entry.Volume = v
		}

		seen[ticker] = true
		entries = append(entries, entry)
		return len(entries) < limit
	})

	return entries
}
