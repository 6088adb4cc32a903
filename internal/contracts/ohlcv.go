package contracts

import "time"

// MinSamples is the minimum OHLCV history length required for a
// momentum profile. Series shorter than this produce no profile.
const MinSamples = 20

// PreferredSamples is the history length needed for the 50-sample
// moving average without falling back to the 20-sample one.
const PreferredSamples = 50

// Candle is one OHLCV sample.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Series is an ordered-by-time OHLCV history for one ticker.
// Immutable once fetched; owned by the momentum engine for the
// duration of one computation.
type Series struct {
	Ticker  string   `json:"ticker"`
	Candles []Candle `json:"candles"`
}

// Len returns the number of samples in the series.
func (s *Series) Len() int {
	return len(s.Candles)
}

// Last returns the most recent candle. Zero value if empty.
func (s *Series) Last() Candle {
	if len(s.Candles) == 0 {
		return Candle{}
	}
	return s.Candles[len(s.Candles)-1]
}

// Closes returns the close prices in time order.
func (s *Series) Closes() []float64 {
	closes := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		closes[i] = c.Close
	}
	return closes
}

// Volumes returns the volumes in time order.
func (s *Series) Volumes() []float64 {
	volumes := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		volumes[i] = c.Volume
	}
	return volumes
}

// Return over the trailing n samples, as a percentage.
// Returns 0 if the series is too short or the base price is 0.
func (s *Series) Return(n int) float64 {
	if len(s.Candles) < n+1 {
		return 0
	}
	base := s.Candles[len(s.Candles)-1-n].Close
	if base == 0 {
		return 0
	}
	return (s.Candles[len(s.Candles)-1].Close/base - 1) * 100
}
