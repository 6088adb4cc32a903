package yahoo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchKeyStats(t *testing.T) {
	body := `{"quoteSummary":{"result":[{
		"defaultKeyStatistics":{
			"shortPercentOfFloat":{"raw":0.2254,"fmt":"22.54%"},
			"shortRatio":{"raw":6.1,"fmt":"6.10"},
			"sharesShort":{"raw":61000000,"fmt":"61M"}
		}}],"error":null}}`
	client, _ := testClient(t, jsonHandler(body))

	stats, err := client.FetchKeyStats(context.Background(), "GME")
	require.NoError(t, err)
	assert.Equal(t, "GME", stats.Ticker)
	assert.InDelta(t, 22.54, stats.ShortFloat, 1e-9)
	assert.InDelta(t, 6.1, stats.ShortRatio, 1e-9)
	assert.InDelta(t, 61000000, stats.SharesShort, 1e-9)
}

func TestFetchKeyStats_MissingFieldsAreZero(t *testing.T) {
	body := `{"quoteSummary":{"result":[{"defaultKeyStatistics":{}}],"error":null}}`
	client, _ := testClient(t, jsonHandler(body))

	stats, err := client.FetchKeyStats(context.Background(), "BRK-B")
	require.NoError(t, err)
	assert.Zero(t, stats.ShortFloat)
	assert.Zero(t, stats.ShortRatio)
}

func TestFetchFundamentals(t *testing.T) {
	body := `{"quoteSummary":{"result":[{
		"quoteType":{"quoteType":"EQUITY"},
		"summaryDetail":{
			"trailingPE":{"raw":62.5},
			"forwardPE":{"raw":38.2},
			"priceToSalesTrailing12Months":{"raw":18.1}
		},
		"financialData":{
			"debtToEquity":{"raw":245.0},
			"earningsGrowth":{"raw":-0.12},
			"revenueGrowth":{"raw":0.03},
			"profitMargins":{"raw":-0.05}
		}}],"error":null}}`
	client, _ := testClient(t, jsonHandler(body))

	fund, err := client.FetchFundamentals(context.Background(), "XYZ")
	require.NoError(t, err)
	assert.Equal(t, "EQUITY", fund.QuoteType)
	assert.InDelta(t, 38.2, fund.ForwardPE, 1e-9)
	assert.InDelta(t, 62.5, fund.TrailingPE, 1e-9)
	assert.InDelta(t, 18.1, fund.PriceToSales, 1e-9)
	// Converted from percent form to ratio.
	assert.InDelta(t, 2.45, fund.DebtToEquity, 1e-9)
	assert.InDelta(t, -0.12, fund.EarningsGrowth, 1e-9)
	assert.InDelta(t, -0.05, fund.ProfitMargin, 1e-9)
}

func TestFetchFundamentals_ForwardPEFallback(t *testing.T) {
	body := `{"quoteSummary":{"result":[{
		"quoteType":{"quoteType":"EQUITY"},
		"summaryDetail":{},
		"defaultKeyStatistics":{"forwardPE":{"raw":41.0}},
		"financialData":{}
	}],"error":null}}`
	client, _ := testClient(t, jsonHandler(body))

	fund, err := client.FetchFundamentals(context.Background(), "XYZ")
	require.NoError(t, err)
	assert.InDelta(t, 41.0, fund.ForwardPE, 1e-9)
}

func TestFetchQuoteSummary_APIError(t *testing.T) {
	body := `{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"Quote not found for ticker symbol"}}}`
	client, _ := testClient(t, jsonHandler(body))

	_, err := client.FetchKeyStats(context.Background(), "ZZZZZ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Quote not found")
}
