package finviz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeadline(t *testing.T) {
	tests := []struct {
		name      string
		headline  string
		ticker    string
		action    string
		sentiment string
		score     float64
	}{
		{
			name:      "upgrade",
			headline:  "Morgan Stanley Upgrades NVDA to Overweight",
			ticker:    "NVDA",
			action:    ActionUpgrade,
			sentiment: "bullish",
			score:     80, // 50 + 25 + 5
		},
		{
			name:      "downgrade",
			headline:  "JPMorgan Downgrades TSLA to Neutral",
			ticker:    "TSLA",
			action:    ActionDowngrade,
			sentiment: "bearish",
			score:     30, // 50 - 15 - 5
		},
		{
			name:      "bullish initiation",
			headline:  "Goldman Initiates AAPL at Buy, $200 PT",
			ticker:    "AAPL",
			action:    ActionInitiation,
			sentiment: "bullish",
			score:     75, // 50 + 20 + 5
		},
		{
			name:      "price target lower",
			headline:  "Wedbush Lowers PLTR Price Target to $20",
			ticker:    "PLTR",
			action:    ActionPTLower,
			sentiment: "bearish",
			score:     35, // 50 - 10 - 5
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rating := ParseHeadline(tt.headline)
			require.NotNil(t, rating)
			assert.Equal(t, tt.ticker, rating.Ticker)
			assert.Equal(t, tt.action, rating.Action)
			assert.Equal(t, tt.sentiment, rating.Sentiment)
			assert.Equal(t, tt.score, rating.Score)
		})
	}
}

func TestParseHeadline_NotARating(t *testing.T) {
	assert.Nil(t, ParseHeadline("Apple unveils new iPhone lineup"))
	assert.Nil(t, ParseHeadline("Fed holds interest steady amid inflation concerns"))
}

func TestParseHeadline_ExtractsTargetAndFirm(t *testing.T) {
	rating := ParseHeadline("Goldman Initiates AAPL at Buy, $200 PT")
	require.NotNil(t, rating)
	assert.Equal(t, 200.0, rating.PriceTarget)
	assert.Equal(t, "Goldman", rating.Firm)
}

func TestFetchRatingHeadlines(t *testing.T) {
	html := `<table id="news">
		<tr><td>08:02AM</td><td>Morgan Stanley Upgrades NVDA to Overweight</td></tr>
		<tr><td>07:55AM</td><td>Markets open mixed ahead of jobs report</td></tr>
		<tr><td>07:40AM</td><td>Citi Downgrades BA to Neutral</td></tr>
	</table>`
	client := testClient(t, html)

	ratings, err := client.FetchRatingHeadlines(context.Background())
	require.NoError(t, err)
	require.Len(t, ratings, 2)
	assert.Equal(t, "NVDA", ratings[0].Ticker)
	assert.Equal(t, ActionDowngrade, ratings[1].Action)
	assert.Equal(t, "BA", ratings[1].Ticker)
}
