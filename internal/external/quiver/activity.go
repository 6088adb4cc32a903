package quiver

import (
	"context"
	"sort"
)

// Congress activity signals.
const (
	SignalBuying  = "congress_buying"
	SignalSelling = "congress_selling"
	SignalMixed   = "mixed"
)

// Activity is one ticker's aggregated congressional trading.
type Activity struct {
	Ticker      string   `json:"ticker"`
	Signal      string   `json:"signal"`
	BuyCount    int      `json:"buy_count"`
	SellCount   int      `json:"sell_count"`
	Politicians []string `json:"politicians"`
	TotalValue  float64  `json:"total_value_estimate"`
	Score       float64  `json:"score"` // 0-100
}

const maxPoliticiansListed = 5

// ScanCongress fetches recent trades and folds them into per-ticker
// activity, sorted by score descending.
func (c *Client) ScanCongress(ctx context.Context) ([]Activity, error) {
	trades, err := c.FetchCongressTrades(ctx)
	if err != nil {
		return nil, err
	}
	return aggregateTrades(trades), nil
}

func aggregateTrades(trades []Trade) []Activity {
	type tally struct {
		buys, sells int
		totalValue  float64
		politicians map[string]bool
	}
	tallies := make(map[string]*tally)

	for _, trade := range trades {
		entry := tallies[trade.Ticker]
		if entry == nil {
			entry = &tally{politicians: make(map[string]bool)}
			tallies[trade.Ticker] = entry
		}
		if trade.IsBuy {
			entry.buys++
		} else {
			entry.sells++
		}
		entry.totalValue += trade.AmountMidpoint
		if trade.Politician != "" {
			entry.politicians[trade.Politician] = true
		}
	}

	activities := make([]Activity, 0, len(tallies))
	for ticker, entry := range tallies {
		signal := SignalMixed
		if entry.buys > entry.sells {
			signal = SignalBuying
		} else if entry.sells > entry.buys {
			signal = SignalSelling
		}

		politicians := make([]string, 0, len(entry.politicians))
		for name := range entry.politicians {
			politicians = append(politicians, name)
		}
		sort.Strings(politicians)
		if len(politicians) > maxPoliticiansListed {
			politicians = politicians[:maxPoliticiansListed]
		}

		activities = append(activities, Activity{
			Ticker:      ticker,
			Signal:      signal,
			BuyCount:    entry.buys,
			SellCount:   entry.sells,
			Politicians: politicians,
			TotalValue:  entry.totalValue,
			Score: congressScore(entry.buys, entry.sells,
				len(entry.politicians), entry.totalValue),
		})
	}

	sort.Slice(activities, func(i, j int) bool {
		if activities[i].Score != activities[j].Score {
			return activities[i].Score > activities[j].Score
		}
		return activities[i].Ticker < activities[j].Ticker
	})

	return activities
}

// congressScore builds the 0-100 activity score: net buying up to +30,
// politician clusters +10/+20, size bonuses, selling −10.
func congressScore(buys, sells, politicians int, totalValue float64) float64 {
	score := 50.0

	netBuys := buys - sells
	if netBuys > 0 {
		bonus := float64(netBuys) * 5
		if bonus > 15 {
			bonus = 15
		}
		score += 15 + bonus
	} else if netBuys < 0 {
		score -= 10
	}

	if politicians >= 3 {
		score += 20
	} else if politicians == 2 {
		score += 10
	}

	switch {
	case totalValue >= 500_000:
		score += 15
	case totalValue >= 100_000:
		score += 10
	case totalValue >= 50_000:
		score += 5
	}

	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}
