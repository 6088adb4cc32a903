package sources

import (
	"fmt"

	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/internal/external/finviz"
)

// Insider score constants. Buys dominate: a single buy outweighs a
// sale, and a cluster of buyers compounds.
const (
	insiderBase       = 50.0
	insiderBuyBonus   = 30.0
	insiderSellMalus  = -10.0
	insiderValue1M    = 15.0
	insiderValue500K  = 10.0
	insiderValue100K  = 5.0
	insiderExecBonus  = 10.0 // CEO or CFO
	insiderDirBonus   = 5.0
	insiderCluster    = 15.0
	clusterBuyerCount = 3
)

// largeSellExtra raises the bearish sub-score for sales over $1M.
const largeSellExtra = 15.0

// InsiderActivity is one ticker's aggregated recent insider trading.
// Buys dominate the direction: a single buy flips a selling ticker to
// buying and resets the summed value.
type InsiderActivity struct {
	Ticker string
	IsBuy  bool
	Value  float64 // summed over same-direction trades
	Role   string
	Buyers int // buy trades seen, for cluster detection
	Score  float64
}

// AggregateInsider folds individual filings into per-ticker activity
// records, preserving input order of first appearance.
func AggregateInsider(trades []finviz.InsiderTrade) []InsiderActivity {
	byTicker := make(map[string]*InsiderActivity)
	var order []string

	for _, trade := range trades {
		if trade.Ticker == "" {
			continue
		}

		act, ok := byTicker[trade.Ticker]
		if !ok {
			act = &InsiderActivity{
				Ticker: trade.Ticker,
				IsBuy:  trade.IsBuy,
				Value:  trade.Value,
				Role:   trade.Role,
			}
			byTicker[trade.Ticker] = act
			order = append(order, trade.Ticker)
		} else if trade.IsBuy == act.IsBuy {
			act.Value += trade.Value
		} else if trade.IsBuy {
			act.IsBuy = true
			act.Value = trade.Value
			act.Role = trade.Role
		}

		if trade.IsBuy {
			act.Buyers++
		}
	}

	activities := make([]InsiderActivity, 0, len(order))
	for _, ticker := range order {
		act := byTicker[ticker]
		act.Score = insiderScore(act.IsBuy, act.Value, act.Role, act.Buyers)
		activities = append(activities, *act)
	}
	return activities
}

func insiderScore(isBuy bool, value float64, role string, buyers int) float64 {
	score := insiderBase

	if isBuy {
		score += insiderBuyBonus
	} else {
		score += insiderSellMalus
	}

	switch {
	case value >= 1_000_000:
		score += insiderValue1M
	case value >= 500_000:
		score += insiderValue500K
	case value >= 100_000:
		score += insiderValue100K
	}

	switch role {
	case "CEO", "CFO":
		score += insiderExecBonus
	case "Director":
		score += insiderDirBonus
	}

	if buyers >= clusterBuyerCount {
		score += insiderCluster
	}

	return clampScore(score)
}

// InsiderSignals scores aggregated insider activity for the long
// engine.
func InsiderSignals(activities []InsiderActivity) []contracts.SourceSignal {
	records := make([]contracts.SourceSignal, 0, len(activities))
	for _, act := range activities {
		rec := contracts.SourceSignal{
			Ticker: act.Ticker,
			Score:  act.Score,
			Stats:  make(map[string]float64, 1),
		}
		if act.IsBuy {
			rec.Tags = append(rec.Tags, contracts.TagInsiderBuying)
			rec.Stats[contracts.StatBuyValue] = act.Value
		} else {
			rec.Tags = append(rec.Tags, contracts.TagInsiderSelling)
			rec.Stats[contracts.StatSellValue] = act.Value
		}
		records = append(records, rec)
	}
	return records
}

// InsiderSellingSignals extracts the bearish slice: tickers whose
// insiders are net sellers, with large sales scored up.
func InsiderSellingSignals(activities []InsiderActivity) []contracts.SourceSignal {
	var records []contracts.SourceSignal
	for _, act := range activities {
		if act.IsBuy {
			continue
		}
		score := act.Score
		if act.Value > 1_000_000 {
			score = clampScore(score + largeSellExtra)
		}

		role := act.Role
		if role == "" {
			role = "insider"
		}
		note := fmt.Sprintf("%s sold", role)
		if act.Value > 0 {
			note = fmt.Sprintf("%s sold $%.0f", role, act.Value)
		}

		records = append(records, contracts.SourceSignal{
			Ticker: act.Ticker,
			Score:  score,
			Tags:   []string{contracts.TagInsiderSelling},
			Notes:  []string{note},
			Stats:  map[string]float64{contracts.StatSellValue: act.Value},
		})
	}
	return records
}
