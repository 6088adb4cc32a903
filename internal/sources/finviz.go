package sources

import (
	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/internal/external/finviz"
)

// Per-screen contributions to the finviz long score. A ticker hitting
// several screens in one run compounds.
const (
	finvizBase         = 50.0
	gainerChangeMult   = 2.0
	gainerBonusCap     = 30.0
	unusualVolumeBonus = 15.0
	newHighBonus       = 15.0
	oversoldBonus      = 10.0
	buyRatedBonus      = 10.0
)

// Bearish lookup constants: heavy losers scale with the drop,
// overbought names start from a fixed base.
const (
	loserChangeMult     = 5.0
	loserScoreCap       = 80.0
	overboughtExtra     = 20.0
	overboughtBareScore = 60.0
)

// ScreenResults groups one run's long-side screener fetches. A nil
// slice means that screen failed or was skipped.
type ScreenResults struct {
	Gainers       []finviz.ScreenEntry
	UnusualVolume []finviz.ScreenEntry
	NewHighs      []finviz.ScreenEntry
	Oversold      []finviz.ScreenEntry
	BuyRated      []finviz.ScreenEntry
}

// FinvizSignals scores screener appearances for the long engine.
func FinvizSignals(results ScreenResults) []contracts.SourceSignal {
	byTicker := make(map[string]*contracts.SourceSignal)

	signal := func(ticker string) *contracts.SourceSignal {
		if sig, ok := byTicker[ticker]; ok {
			return sig
		}
		sig := &contracts.SourceSignal{
			Ticker: ticker,
			Score:  finvizBase,
			Stats:  make(map[string]float64),
		}
		byTicker[ticker] = sig
		return sig
	}

	for _, entry := range results.Gainers {
		sig := signal(entry.Ticker)
		bonus := entry.ChangePct * gainerChangeMult
		if bonus > gainerBonusCap {
			bonus = gainerBonusCap
		}
		if bonus < 0 {
			bonus = 0
		}
		sig.Score += bonus
		sig.Tags = append(sig.Tags, "top_gainer")
		sig.Stats["change"] = entry.ChangePct
	}
	for _, entry := range results.UnusualVolume {
		sig := signal(entry.Ticker)
		sig.Score += unusualVolumeBonus
		sig.Tags = append(sig.Tags, "unusual_volume")
	}
	for _, entry := range results.NewHighs {
		sig := signal(entry.Ticker)
		sig.Score += newHighBonus
		sig.Tags = append(sig.Tags, "new_high")
	}
	for _, entry := range results.Oversold {
		sig := signal(entry.Ticker)
		sig.Score += oversoldBonus
		sig.Tags = append(sig.Tags, "oversold")
	}
	for _, entry := range results.BuyRated {
		sig := signal(entry.Ticker)
		sig.Score += buyRatedBonus
		sig.Tags = append(sig.Tags, "buy_rated")
	}

	records := make([]contracts.SourceSignal, 0, len(byTicker))
	for _, sig := range byTicker {
		sig.Score = clampScore(sig.Score)
		records = append(records, *sig)
	}
	return records
}

// FinvizBearishSignals scores the top-losers and overbought screens
// for the short engine. A name on both screens compounds.
func FinvizBearishSignals(losers, overbought []finviz.ScreenEntry) []contracts.SourceSignal {
	byTicker := make(map[string]*contracts.SourceSignal)

	for _, entry := range losers {
		drop := entry.ChangePct
		if drop < 0 {
			drop = -drop
		}
		score := drop * loserChangeMult
		if score > loserScoreCap {
			score = loserScoreCap
		}
		byTicker[entry.Ticker] = &contracts.SourceSignal{
			Ticker: entry.Ticker,
			Score:  score,
			Tags:   []string{"top_loser"},
			Stats:  map[string]float64{"change": entry.ChangePct},
		}
	}

	for _, entry := range overbought {
		if sig, ok := byTicker[entry.Ticker]; ok {
			sig.Score = clampScore(sig.Score + overboughtExtra)
			sig.Tags = append(sig.Tags, "overbought")
			continue
		}
		byTicker[entry.Ticker] = &contracts.SourceSignal{
			Ticker: entry.Ticker,
			Score:  overboughtBareScore,
			Tags:   []string{"overbought"},
		}
	}

	records := make([]contracts.SourceSignal, 0, len(byTicker))
	for _, sig := range byTicker {
		records = append(records, *sig)
	}
	return records
}
