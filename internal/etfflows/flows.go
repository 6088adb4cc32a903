// Package etfflows reads sector rotation out of ETF price and volume
// action. A sector ETF rising on heavy volume is treated as an
// inflow; its top holdings collect a flow bonus in the long engine.
package etfflows

import (
	"sort"

	"github.com/wonny/trendscan/internal/contracts"
)

// Flow direction signals.
const (
	SignalInflow  = "inflow"
	SignalOutflow = "outflow"
	SignalNeutral = "neutral"
)

// Flow score thresholds that separate the three signals.
const (
	inflowThreshold  = 60.0
	outflowThreshold = 40.0
)

// ETFQuote is one ETF's price and volume snapshot, assembled by the
// pipeline from finviz quote pages and the configured sector map.
type ETFQuote struct {
	ETF      string
	Sector   string
	Holdings []string

	Change1D  float64 // percent
	Change1W  float64 // percent
	Change1M  float64 // percent
	Volume    float64
	AvgVolume float64
}

// VolumeRatio is today's volume relative to the trailing average.
// Defaults to 1 when the average is unknown.
func (q ETFQuote) VolumeRatio() float64 {
	if q.AvgVolume <= 0 {
		return 1.0
	}
	return q.Volume / q.AvgVolume
}

// SectorFlow is one sector ETF's scored flow reading.
type SectorFlow struct {
	ETF         string   `json:"etf"`
	Sector      string   `json:"sector"`
	Score       float64  `json:"flow_score"`
	Signal      string   `json:"flow_signal"`
	Change1D    float64  `json:"change_1d"`
	Change1W    float64  `json:"change_1w"`
	Change1M    float64  `json:"change_1m"`
	VolumeRatio float64  `json:"volume_ratio"`
	Holdings    []string `json:"holdings,omitempty"`
}

// FlowScore rates price momentum confirmed by volume on a 0-100
// scale. The momentum blend weights the most recent move hardest;
// elevated volume amplifies whichever direction it confirms.
func FlowScore(change1d, change1w, change1m, volumeRatio float64) float64 {
	score := 50.0

	momentum := change1d*0.4 + change1w*0.35 + change1m*0.25

	contribution := momentum * 5
	if contribution > 25 {
		contribution = 25
	} else if contribution < -25 {
		contribution = -25
	}
	score += contribution

	switch {
	case volumeRatio > 1.5:
		if momentum > 0 {
			score += 15
		} else if momentum < 0 {
			score -= 10
		}
	case volumeRatio > 1.2:
		if momentum > 0 {
			score += 8
		} else if momentum < 0 {
			score -= 5
		}
	}

	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

// AnalyzeSectorFlows scores each sector ETF quote and sorts by flow
// score descending, then ETF symbol.
func AnalyzeSectorFlows(quotes []ETFQuote) []SectorFlow {
	flows := make([]SectorFlow, 0, len(quotes))

	for _, q := range quotes {
		ratio := q.VolumeRatio()
		score := FlowScore(q.Change1D, q.Change1W, q.Change1M, ratio)

		signal := SignalNeutral
		if score >= inflowThreshold {
			signal = SignalInflow
		} else if score <= outflowThreshold {
			signal = SignalOutflow
		}

		flows = append(flows, SectorFlow{
			ETF:         q.ETF,
			Sector:      q.Sector,
			Score:       score,
			Signal:      signal,
			Change1D:    q.Change1D,
			Change1W:    q.Change1W,
			Change1M:    q.Change1M,
			VolumeRatio: ratio,
			Holdings:    q.Holdings,
		})
	}

	sort.SliceStable(flows, func(i, j int) bool {
		if flows[i].Score != flows[j].Score {
			return flows[i].Score > flows[j].Score
		}
		return flows[i].ETF < flows[j].ETF
	})

	return flows
}

// HotHoldings collects stocks held by inflow sectors. Each inflow
// adds 20% of its flow score on top of a neutral 50, capped at 100,
// so multi-sector exposure compounds.
func HotHoldings(flows []SectorFlow) []contracts.HotHolding {
	byTicker := make(map[string]*contracts.HotHolding)

	for _, flow := range flows {
		if flow.Signal != SignalInflow {
			continue
		}
		for _, ticker := range flow.Holdings {
			holding, ok := byTicker[ticker]
			if !ok {
				holding = &contracts.HotHolding{Ticker: ticker}
				byTicker[ticker] = holding
			}
			holding.Sectors = append(holding.Sectors, flow.Sector)
			holding.ETFs = append(holding.ETFs, flow.ETF)
			holding.FlowScore += flow.Score * 0.2
		}
	}

	holdings := make([]contracts.HotHolding, 0, len(byTicker))
	for _, holding := range byTicker {
		holding.FlowScore += 50
		if holding.FlowScore > 100 {
			holding.FlowScore = 100
		}
		holdings = append(holdings, *holding)
	}

	sort.SliceStable(holdings, func(i, j int) bool {
		if holdings[i].FlowScore != holdings[j].FlowScore {
			return holdings[i].FlowScore > holdings[j].FlowScore
		}
		return holdings[i].Ticker < holdings[j].Ticker
	})

	return holdings
}

// HotHoldingMap indexes holdings by ticker for the long engine's
// flow bonus lookup.
func HotHoldingMap(holdings []contracts.HotHolding) map[string]contracts.HotHolding {
	out := make(map[string]contracts.HotHolding, len(holdings))
	for _, h := range holdings {
		out[h.Ticker] = h
	}
	return out
}

// LeveragedSentiment gauges retail positioning from the volume ratio
// between the bull and bear leveraged ETFs.
func LeveragedSentiment(bullVolume, bearVolume float64) string {
	if bullVolume <= 0 || bearVolume <= 0 {
		return SignalNeutral
	}

	ratio := bullVolume / bearVolume
	switch {
	case ratio > 2.0:
		return "very_bullish"
	case ratio > 1.3:
		return "bullish"
	case ratio < 0.5:
		return "very_bearish"
	case ratio < 0.75:
		return "bearish"
	default:
		return SignalNeutral
	}
}
