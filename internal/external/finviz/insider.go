package finviz

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// InsiderTrade is one row of the insider trading page.
type InsiderTrade struct {
	Ticker     string  `json:"ticker"`
	Owner      string  `json:"owner"`
	Role       string  `json:"role"`
	IsBuy      bool    `json:"is_buy"`
	Value      float64 `json:"value"` // transaction dollar value
	FilingDate string  `json:"filing_date"`
}

const maxInsiderRows = 50

// FetchInsiderTrades scrapes the latest insider transactions.
// buysOnly restricts the page to purchase filings.
func (c *Client) FetchInsiderTrades(ctx context.Context, buysOnly bool) ([]InsiderTrade, error) {
	path := "/insidertrading.ashx"
	if buysOnly {
		path += "?tc=1"
	}

	doc, err := c.fetchDocument(ctx, path)
	if err != nil {
		return nil, err
	}

	var trades []InsiderTrade

	doc.Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 7 {
			return true
		}

		link := cells.Eq(0).Find("a").First()
		href, _ := link.Attr("href")
		if !strings.Contains(href, "quote.ashx") {
			return true
		}
		ticker := strings.ToUpper(strings.TrimSpace(link.Text()))
		if ticker == "" {
			return true
		}

		transaction := strings.ToLower(strings.TrimSpace(cells.Eq(4).Text()))
		value, _ := parseNumber(cells.Eq(6).Text())

		trades = append(trades, InsiderTrade{
			Ticker:     ticker,
			Owner:      strings.TrimSpace(cells.Eq(1).Text()),
			Role:       classifyRole(cells.Eq(2).Text()),
			IsBuy:      strings.Contains(transaction, "buy") || strings.Contains(transaction, "purchase"),
			Value:      value,
			FilingDate: strings.TrimSpace(cells.Eq(3).Text()),
		})
		return len(trades) < maxInsiderRows
	})

	c.logger.WithField("trades", len(trades)).Debug("Finviz insider trades fetched")
	return trades, nil
}

// classifyRole buckets the free-text relationship cell.
func classifyRole(relationship string) string {
	rel := strings.ToLower(relationship)
	switch {
	case strings.Contains(rel, "ceo") || strings.Contains(rel, "chief executive"):
		return "CEO"
	case strings.Contains(rel, "cfo") || strings.Contains(rel, "chief financial"):
		return "CFO"
	case strings.Contains(rel, "director"):
		return "Director"
	case strings.Contains(rel, "officer"):
		return "Officer"
	case strings.Contains(rel, "10%"):
		return "10% Owner"
	default:
		return "Other"
	}
}
