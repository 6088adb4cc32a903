// Package quiver reads congressional STOCK Act trade disclosures from
// the Quiver Quantitative API.
package quiver

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/wonny/trendscan/pkg/config"
	"github.com/wonny/trendscan/pkg/httputil"
	"github.com/wonny/trendscan/pkg/logger"
)

// Client handles communication with Quiver Quantitative.
// ⭐ SSOT: Quiver calls go through this client only.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Quiver client. The token travels as a
// default header on every request.
func NewClient(httpClient *httputil.Client, log *logger.Logger, cfg config.QuiverConfig) *Client {
	if cfg.APIKey != "" {
		httpClient.WithHeader("Authorization", "Token "+cfg.APIKey)
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.BaseURL,
	}
}

// quiverTrade mirrors the live congress-trading API row.
type quiverTrade struct {
	Ticker          string `json:"Ticker"`
	Representative  string `json:"Representative"`
	Party           string `json:"Party"`
	Chamber         string `json:"House"`
	Transaction     string `json:"Transaction"`
	Range           string `json:"Range"`
	TransactionDate string `json:"TransactionDate"`
	ReportDate      string `json:"ReportDate"`
}

// Trade is one disclosed congressional transaction.
type Trade struct {
	Ticker         string  `json:"ticker"`
	Politician     string  `json:"politician"`
	Party          string  `json:"party"`
	Chamber        string  `json:"chamber"`
	IsBuy          bool    `json:"is_buy"`
	AmountMidpoint float64 `json:"amount_midpoint"`
	TradeDate      string  `json:"trade_date"`
	ReportDate     string  `json:"report_date"`
}

const maxTrades = 100

// FetchCongressTrades returns the most recent disclosed trades.
func (c *Client) FetchCongressTrades(ctx context.Context) ([]Trade, error) {
	var rows []quiverTrade
	if err := c.httpClient.GetJSON(ctx, c.baseURL+"/live/congresstrading", &rows); err != nil {
		return nil, fmt.Errorf("quiver congress trades: %w", err)
	}
	if len(rows) > maxTrades {
		rows = rows[:maxTrades]
	}

	trades := make([]Trade, 0, len(rows))
	for _, row := range rows {
		ticker := strings.ToUpper(strings.TrimSpace(row.Ticker))
		if ticker == "" {
			continue
		}
		transaction := strings.ToLower(row.Transaction)
		trades = append(trades, Trade{
			Ticker:         ticker,
			Politician:     row.Representative,
			Party:          row.Party,
			Chamber:        row.Chamber,
			IsBuy:          strings.Contains(transaction, "purchase") || strings.Contains(transaction, "buy"),
			AmountMidpoint: parseAmountRange(row.Range),
			TradeDate:      row.TransactionDate,
			ReportDate:     row.ReportDate,
		})
	}

	c.logger.WithField("trades", len(trades)).Debug("Quiver congress trades fetched")
	return trades, nil
}

var amountRe = regexp.MustCompile(`([\d,]+)`)

// defaultMidpoint stands in for unparseable disclosure ranges.
const defaultMidpoint = 50000.0

// parseAmountRange converts a disclosure range like "$1,001 - $15,000"
// to its midpoint.
func parseAmountRange(s string) float64 {
	matches := amountRe.FindAllString(s, 2)
	if len(matches) == 0 {
		return defaultMidpoint
	}

	parse := func(m string) (float64, bool) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	low, ok := parse(matches[0])
	if !ok {
		return defaultMidpoint
	}
	if len(matches) == 1 {
		return low
	}
	high, ok := parse(matches[1])
	if !ok {
		return low
	}
	return (low + high) / 2
}
