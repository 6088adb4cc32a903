// Package yahoo reads market data from the public Yahoo Finance
// endpoints: chart history, quote summary, and option chains.
package yahoo

import (
	"github.com/wonny/trendscan/pkg/httputil"
	"github.com/wonny/trendscan/pkg/logger"
)

// Client handles communication with Yahoo Finance.
// ⭐ SSOT: Yahoo Finance calls go through this client only.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Yahoo Finance client.
func NewClient(httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    "https://query1.finance.yahoo.com",
	}
}

// WithBaseURL points the client at a different host, e.g. query2 or
// a caching proxy. Returns the client for chaining.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// symbolMap translates a few common index aliases to Yahoo tickers.
var symbolMap = map[string]string{
	"SPX500": "^GSPC",
	"SPX":    "^GSPC",
	"SP500":  "^GSPC",
	"NDX":    "^NDX",
	"VIX":    "^VIX",
}

func yahooSymbol(symbol string) string {
	if mapped, ok := symbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}
