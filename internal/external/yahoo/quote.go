package yahoo

import (
	"context"
	"fmt"
	"net/url"
)

// KeyStats holds the short-interest slice of a quote summary.
type KeyStats struct {
	Ticker      string  `json:"ticker"`
	ShortFloat  float64 `json:"short_float"`  // percent of float sold short
	ShortRatio  float64 `json:"short_ratio"`  // days to cover
	SharesShort float64 `json:"shares_short"` // absolute shares
}

// Fundamentals holds valuation and growth fields from a quote summary.
// Zero means the field was absent; callers must treat 0 as "unknown",
// not as a literal value.
type Fundamentals struct {
	Ticker         string  `json:"ticker"`
	QuoteType      string  `json:"quote_type"` // EQUITY, ETF, ...
	ForwardPE      float64 `json:"forward_pe"`
	TrailingPE     float64 `json:"trailing_pe"`
	PriceToSales   float64 `json:"price_to_sales"`
	DebtToEquity   float64 `json:"debt_to_equity"` // ratio, not percent
	EarningsGrowth float64 `json:"earnings_growth"`
	RevenueGrowth  float64 `json:"revenue_growth"`
	ProfitMargin   float64 `json:"profit_margin"`
}

// rawValue is Yahoo's wrapped numeric: {"raw": 1.23, "fmt": "1.23"}.
// A missing field decodes to the zero value.
type rawValue struct {
	Raw float64 `json:"raw"`
}

// quoteSummaryResponse is the quoteSummary API envelope.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			QuoteType struct {
				QuoteType string `json:"quoteType"`
			} `json:"quoteType"`
			DefaultKeyStatistics struct {
				ShortPercentOfFloat rawValue `json:"shortPercentOfFloat"`
				ShortRatio          rawValue `json:"shortRatio"`
				SharesShort         rawValue `json:"sharesShort"`
				ForwardPE           rawValue `json:"forwardPE"`
			} `json:"defaultKeyStatistics"`
			SummaryDetail struct {
				TrailingPE   rawValue `json:"trailingPE"`
				ForwardPE    rawValue `json:"forwardPE"`
				PriceToSales rawValue `json:"priceToSalesTrailing12Months"`
			} `json:"summaryDetail"`
			FinancialData struct {
				DebtToEquity   rawValue `json:"debtToEquity"`
				EarningsGrowth rawValue `json:"earningsGrowth"`
				RevenueGrowth  rawValue `json:"revenueGrowth"`
				ProfitMargins  rawValue `json:"profitMargins"`
			} `json:"financialData"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

func (c *Client) fetchQuoteSummary(ctx context.Context, symbol string, modules string) (*quoteSummaryResponse, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		c.baseURL, url.PathEscape(yahooSymbol(symbol)), modules)

	var summary quoteSummaryResponse
	if err := c.httpClient.GetJSON(ctx, u, &summary); err != nil {
		return nil, fmt.Errorf("yahoo quoteSummary %s: %w", symbol, err)
	}
	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo quoteSummary %s: api error: %s",
			symbol, summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo quoteSummary %s: no data returned", symbol)
	}
	return &summary, nil
}

// FetchKeyStats returns short-interest statistics for one symbol.
// ShortFloat is converted from Yahoo's fraction (0.15) to percent (15).
func (c *Client) FetchKeyStats(ctx context.Context, symbol string) (*KeyStats, error) {
	summary, err := c.fetchQuoteSummary(ctx, symbol, "defaultKeyStatistics")
	if err != nil {
		return nil, err
	}
	stats := summary.QuoteSummary.Result[0].DefaultKeyStatistics
	return &KeyStats{
		Ticker:      symbol,
		ShortFloat:  stats.ShortPercentOfFloat.Raw * 100,
		ShortRatio:  stats.ShortRatio.Raw,
		SharesShort: stats.SharesShort.Raw,
	}, nil
}

// FetchFundamentals returns valuation and growth fields for one symbol.
// DebtToEquity is converted from Yahoo's percent form (150) to a plain
// ratio (1.5).
func (c *Client) FetchFundamentals(ctx context.Context, symbol string) (*Fundamentals, error) {
	summary, err := c.fetchQuoteSummary(ctx, symbol,
		"quoteType,defaultKeyStatistics,summaryDetail,financialData")
	if err != nil {
		return nil, err
	}
	result := summary.QuoteSummary.Result[0]

	forwardPE := result.SummaryDetail.ForwardPE.Raw
	if forwardPE == 0 {
		forwardPE = result.DefaultKeyStatistics.ForwardPE.Raw
	}

	return &Fundamentals{
		Ticker:         symbol,
		QuoteType:      result.QuoteType.QuoteType,
		ForwardPE:      forwardPE,
		TrailingPE:     result.SummaryDetail.TrailingPE.Raw,
		PriceToSales:   result.SummaryDetail.PriceToSales.Raw,
		DebtToEquity:   result.FinancialData.DebtToEquity.Raw / 100,
		EarningsGrowth: result.FinancialData.EarningsGrowth.Raw,
		RevenueGrowth:  result.FinancialData.RevenueGrowth.Raw,
		ProfitMargin:   result.FinancialData.ProfitMargins.Raw,
	}, nil
}
