package momentum

import (
	"errors"
	"fmt"

	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/pkg/logger"
)

// ErrInsufficientHistory is returned when a series is too short for a
// momentum profile. The ticker is dropped from the momentum source
// only; other sources are unaffected.
var ErrInsufficientHistory = errors.New("insufficient price history")

const rsiPeriod = 14

// Engine converts an OHLCV history plus a benchmark 1-month return
// into a momentum profile and trend-quality label.
// ⭐ SSOT: momentum profile computation lives here only.
type Engine struct {
	logger *logger.Logger
}

// NewEngine creates a new momentum engine.
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{logger: log}
}

// Compute builds the momentum profile for one series. benchmark1M is
// the benchmark's 1-month return in percent (0 if unavailable). All
// steps are deterministic pure functions of the inputs.
func (e *Engine) Compute(series *contracts.Series, benchmark1M float64) (*contracts.MomentumProfile, error) {
	if series.Len() < contracts.MinSamples {
		return nil, fmt.Errorf("%w: %s has %d samples, need %d",
			ErrInsufficientHistory, series.Ticker, series.Len(), contracts.MinSamples)
	}

	closes := series.Closes()
	volumes := series.Volumes()
	last := len(closes) - 1
	price := closes[last]

	p := &contracts.MomentumProfile{
		Ticker:   series.Ticker,
		Price:    price,
		Change1D: series.Return(1),
		Change5D: series.Return(5),
		Change1M: change1M(series),
	}

	p.VolumeRatio = volumeRatio(volumes)
	p.RSI = rsi(closes, rsiPeriod)

	ma20 := sma(closes, 20)
	ma50 := ma20
	if len(closes) >= contracts.PreferredSamples {
		ma50 = sma(closes, 50)
	}
	p.AboveMA20 = price > ma20
	p.AboveMA50 = price > ma50
	if ma20 > 0 {
		p.PctAboveMA20 = (price - ma20) / ma20 * 100
	}

	// Acceleration needs the 5-day return preceding the current one.
	if len(closes) >= 11 {
		prior5d := 0.0
		if base := closes[last-10]; base > 0 {
			prior5d = (closes[last-5]/base - 1) * 100
		}
		p.Acceleration = p.Change5D - prior5d
	}

	p.RelStrength = p.Change1M - benchmark1M
	p.VolumeTrend = volumeTrend(closes, volumes)
	p.Breakout = price >= 0.99*trailingHigh(closes, 20) && p.VolumeRatio > 1.5
	p.UpStreak = upStreak(closes)

	p.Score, p.TooLate = compositeScore(p)
	p.Quality = classify(p)

	e.logger.WithFields(map[string]interface{}{
		"ticker":  p.Ticker,
		"score":   p.Score,
		"quality": p.Quality,
		"rsi":     p.RSI,
	}).Debug("Computed momentum profile")

	return p, nil
}

// change1M uses the close 21 samples back when available, otherwise
// the earliest sample in the window.
func change1M(series *contracts.Series) float64 {
	if series.Len() >= 22 {
		return series.Return(21)
	}
	base := series.Candles[0].Close
	if base == 0 {
		return 0
	}
	return (series.Last().Close/base - 1) * 100
}

// volumeRatio is the latest volume over the mean of all prior volumes.
func volumeRatio(volumes []float64) float64 {
	if len(volumes) < 2 {
		return 1.0
	}
	var sum float64
	for _, v := range volumes[:len(volumes)-1] {
		sum += v
	}
	avg := sum / float64(len(volumes)-1)
	if avg <= 0 {
		return 1.0
	}
	return volumes[len(volumes)-1] / avg
}

// rsi is the standard gain/loss averaged RSI. Fewer than period
// deltas yields the neutral 50.
func rsi(closes []float64, period int) float64 {
	if len(closes) < period+1 {
		return 50.0
	}

	var gains, losses float64
	for i := len(closes) - period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	if losses == 0 {
		return 100.0
	}

	rs := (gains / float64(period)) / (losses / float64(period))
	return 100 - (100 / (1 + rs))
}

// sma averages the trailing n closes.
func sma(closes []float64, n int) float64 {
	if len(closes) < n {
		n = len(closes)
	}
	if n == 0 {
		return 0
	}
	var sum float64
	for _, c := range closes[len(closes)-n:] {
		sum += c
	}
	return sum / float64(n)
}

// volumeTrend is mean volume on up days over mean volume on down
// days; 1.0 when either side has no days.
func volumeTrend(closes, volumes []float64) float64 {
	var upSum, downSum float64
	var upN, downN int
	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			upSum += volumes[i]
			upN++
		case closes[i] < closes[i-1]:
			downSum += volumes[i]
			downN++
		}
	}
	if upN == 0 || downN == 0 || downSum == 0 {
		return 1.0
	}
	return (upSum / float64(upN)) / (downSum / float64(downN))
}

// trailingHigh is the highest close over the trailing n samples.
func trailingHigh(closes []float64, n int) float64 {
	if len(closes) < n {
		n = len(closes)
	}
	high := 0.0
	for _, c := range closes[len(closes)-n:] {
		if c > high {
			high = c
		}
	}
	return high
}

// upStreak counts trailing days with strictly positive daily return,
// backward from the latest day until a non-positive day.
func upStreak(closes []float64) int {
	streak := 0
	for i := len(closes) - 1; i > 0; i-- {
		if closes[i] <= closes[i-1] {
			break
		}
		streak++
	}
	return streak
}

// compositeScore builds the calibrated 0-100 momentum score and the
// too-late flags. Starts at 50 and accumulates each term, then
// subtracts 4 per too-late condition and clamps.
func compositeScore(p *contracts.MomentumProfile) (float64, []string) {
	score := 50.0

	score += clamp(p.Change1M*1.5, -20, 20)

	// Acceleration term: symmetric breakpoints at 3/1/0.
	switch {
	case p.Acceleration > 3:
		score += 8
	case p.Acceleration > 1:
		score += 5
	case p.Acceleration > 0:
		score += 2
	case p.Acceleration < -3:
		score -= 8
	case p.Acceleration < -1:
		score -= 5
	case p.Acceleration < 0:
		score -= 2
	}

	// Relative strength term: leaders rewarded, laggards punished.
	switch {
	case p.RelStrength > 8:
		score += 7
	case p.RelStrength > 4:
		score += 5
	case p.RelStrength > 1:
		score += 3
	case p.RelStrength < -8:
		score -= 7
	case p.RelStrength < -4:
		score -= 5
	case p.RelStrength < -1:
		score -= 3
	}

	// Volume direction: buyers or sellers driving the tape.
	switch {
	case p.VolumeTrend > 1.4:
		score += 7
	case p.VolumeTrend > 1.15:
		score += 4
	case p.VolumeTrend < 0.7:
		score -= 7
	case p.VolumeTrend < 0.85:
		score -= 4
	}

	// Same-day volume spike.
	switch {
	case p.VolumeRatio > 2:
		score += 5
	case p.VolumeRatio > 1.5:
		score += 3
	}

	if p.Breakout {
		score += 8
	}

	// RSI sweet spot is 50-65: trending but not overheated.
	switch {
	case p.RSI >= 50 && p.RSI < 65:
		score += 8
	case p.RSI >= 65 && p.RSI < 75:
		score += 4
	case p.RSI >= 40 && p.RSI < 50:
		// neutral
	case p.RSI >= 30 && p.RSI < 40:
		score -= 4
	case p.RSI < 30:
		score -= 8
	}

	if p.AboveMA20 {
		score += 3
	}
	if p.AboveMA50 {
		score += 2
	}

	var flags []string
	if p.RSI > 80 {
		flags = append(flags, contracts.FlagRSIOverheated)
	}
	if p.PctAboveMA20 > 12 {
		flags = append(flags, contracts.FlagFarAboveMA20)
	}
	if p.UpStreak >= 7 {
		flags = append(flags, contracts.FlagLongUpStreak)
	}
	score -= float64(len(flags)) * 4

	return clamp(score, 0, 100), flags
}

// classify applies the trend-quality priority list. The order
// matters: a flagged ticker never reaches "confirmed" even with a
// qualifying score.
func classify(p *contracts.MomentumProfile) contracts.TrendQuality {
	switch {
	case p.Score >= 75 && p.Acceleration > 0 && p.RelStrength > 0:
		return contracts.TrendStrongEarly
	case p.Score >= 65 && !p.IsTooLate():
		return contracts.TrendConfirmed
	case p.Score >= 55:
		return contracts.TrendEmerging
	case p.IsTooLate():
		return contracts.TrendExtended
	case p.Score >= 40:
		return contracts.TrendWeak
	default:
		return contracts.TrendBearish
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
