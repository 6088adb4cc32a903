package finviz

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func screenerRow(ticker, company, sector, change, volume string) string {
	return fmt.Sprintf(`<tr>
		<td>1</td>
		<td><a href="quote.ashx?t=%s">%s</a></td>
		<td>%s</td>
		<td>%s</td>
		<td>Industry</td>
		<td>USA</td>
		<td>50.5B</td>
		<td>30.1</td>
		<td>123.45</td>
		<td>%s</td>
		<td>%s</td>
	</tr>`, ticker, ticker, company, sector, change, volume)
}

func TestFetchScreen(t *testing.T) {
	html := `<html><body><table>` +
		screenerRow("NVDA", "NVIDIA Corp", "Technology", "8.42%", "52.1M") +
		screenerRow("SMCI", "Super Micro Computer", "Technology", "12.10%", "9.8M") +
		`<tr><td>not a stock row</td></tr>` +
		`</table></body></html>`
	client := testClient(t, html)

	entries, err := client.FetchScreen(context.Background(), ScreenTopGainers, 20)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "NVDA", entries[0].Ticker)
	assert.Equal(t, "NVIDIA Corp", entries[0].Company)
	assert.Equal(t, "Technology", entries[0].Sector)
	assert.InDelta(t, 8.42, entries[0].ChangePct, 1e-9)
	assert.InDelta(t, 52_100_000, entries[0].Volume, 1e-9)

	assert.Equal(t, "SMCI", entries[1].Ticker)
	assert.InDelta(t, 12.10, entries[1].ChangePct, 1e-9)
}

func TestFetchScreen_RespectsLimit(t *testing.T) {
	html := `<table>` +
		screenerRow("AAA", "A", "Tech", "1.0%", "1M") +
		screenerRow("BBB", "B", "Tech", "2.0%", "1M") +
		screenerRow("CCC", "C", "Tech", "3.0%", "1M") +
		`</table>`
	client := testClient(t, html)

	entries, err := client.FetchScreen(context.Background(), ScreenUnusualVolume, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestFetchScreen_SkipsShortAndDuplicateTickers(t *testing.T) {
	html := `<table>` +
		screenerRow("F", "Ford", "Consumer Cyclical", "1.0%", "40M") +
		screenerRow("NVDA", "NVIDIA Corp", "Technology", "2.0%", "50M") +
		screenerRow("NVDA", "NVIDIA Corp", "Technology", "2.0%", "50M") +
		`</table>`
	client := testClient(t, html)

	entries, err := client.FetchScreen(context.Background(), ScreenNewHigh, 20)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "NVDA", entries[0].Ticker)
}

func TestFetchSectorPerformance(t *testing.T) {
	html := `<table>
		<tr>
			<td><a href="screener.ashx?g=sector&f=sec_technology">Technology</a></td>
			<td>1.20%</td><td>3.40%</td><td>8.90%</td><td>15.0%</td><td>22.0%</td><td>35.0%</td><td>1.2M</td>
		</tr>
		<tr>
			<td><a href="screener.ashx?g=sector&f=sec_energy">Energy</a></td>
			<td>-0.50%</td><td>-1.10%</td><td>-3.20%</td><td>2.0%</td><td>5.0%</td><td>8.0%</td><td>0.9M</td>
		</tr>
		<tr><td>no link here</td><td>1%</td></tr>
	</table>`
	client := testClient(t, html)

	sectors, err := client.FetchSectorPerformance(context.Background())
	require.NoError(t, err)
	require.Len(t, sectors, 2)

	// Sorted by 1-month performance descending.
	assert.Equal(t, "Technology", sectors[0].Sector)
	assert.InDelta(t, 1.2, sectors[0].Perf1D, 1e-9)
	assert.InDelta(t, 3.4, sectors[0].Perf1W, 1e-9)
	assert.InDelta(t, 8.9, sectors[0].Perf1M, 1e-9)
	assert.Equal(t, "Energy", sectors[1].Sector)
}
