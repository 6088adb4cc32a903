package sources

import (
	"fmt"

	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/internal/external/yahoo"
)

// minStressScore drops tickers with only trace fundamental stress.
const minStressScore = 10.0

// FundamentalsStress scores valuation stress and earnings
// deterioration for the short thesis. Zero-valued fields are treated
// as unreported and contribute nothing.
func FundamentalsStress(f *yahoo.Fundamentals) (float64, []string) {
	var score float64
	var stress []string

	if f.ForwardPE > 0 && f.TrailingPE > 0 {
		// Forward P/E above trailing means estimates imply slowing growth.
		if f.ForwardPE > f.TrailingPE*1.2 {
			score += 15
			stress = append(stress, "pe_expansion")
		}
		if f.ForwardPE > 50 {
			score += 10
			stress = append(stress, "high_forward_pe")
		}
	}

	if f.PriceToSales > 15 {
		pts := (f.PriceToSales - 15) * 2
		if pts > 15 {
			pts = 15
		}
		score += pts
		stress = append(stress, "high_ps_ratio")
	}

	if f.DebtToEquity > 2.0 {
		pts := (f.DebtToEquity - 2.0) * 2
		if pts > 15 {
			pts = 15
		}
		score += pts
		stress = append(stress, "rising_debt")
	}

	if f.EarningsGrowth < 0 {
		pts := -f.EarningsGrowth * 50
		if pts > 20 {
			pts = 20
		}
		score += pts
		stress = append(stress, "negative_earnings_growth")
	}

	if f.RevenueGrowth != 0 && f.RevenueGrowth < 0.05 {
		if f.RevenueGrowth < 0 {
			score += 10
		} else {
			score += 5
		}
		stress = append(stress, "revenue_deceleration")
	}

	if f.ProfitMargin < 0 {
		pts := -f.ProfitMargin * 30
		if pts > 15 {
			pts = 15
		}
		score += pts
		stress = append(stress, "negative_margins")
	}

	return clampScore(score), stress
}

// FundamentalsSignals scores fundamental records for the short
// engine. ETFs and tickers below the stress floor produce nothing.
func FundamentalsSignals(records []*yahoo.Fundamentals) []contracts.SourceSignal {
	var signals []contracts.SourceSignal
	for _, f := range records {
		if f.QuoteType == "ETF" {
			continue
		}
		score, stress := FundamentalsStress(f)
		if score < minStressScore {
			continue
		}

		sig := contracts.SourceSignal{
			Ticker: f.Ticker,
			Score:  score,
			Tags:   stress,
			Notes:  stressNotes(f),
		}
		signals = append(signals, sig)
	}
	return signals
}

func stressNotes(f *yahoo.Fundamentals) []string {
	var notes []string
	if f.ForwardPE > 40 {
		notes = append(notes, fmt.Sprintf("fwd P/E %.0f", f.ForwardPE))
	}
	if f.DebtToEquity > 2.0 {
		notes = append(notes, fmt.Sprintf("D/E %.1f", f.DebtToEquity))
	}
	if f.EarningsGrowth < 0 {
		notes = append(notes, fmt.Sprintf("EPS %+.0f%%", f.EarningsGrowth*100))
	}
	if f.RevenueGrowth < 0 {
		notes = append(notes, fmt.Sprintf("rev %+.0f%%", f.RevenueGrowth*100))
	}
	if f.ProfitMargin < 0 {
		notes = append(notes, "negative margins")
	}
	if len(notes) == 0 {
		notes = append(notes, "mild fundamental stress")
	}
	return notes
}
