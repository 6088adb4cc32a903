package contracts

// TrendQuality classifies a momentum profile's timeliness/reliability.
type TrendQuality string

const (
	TrendStrongEarly TrendQuality = "strong_early" // high score, still accelerating, beating the benchmark
	TrendConfirmed   TrendQuality = "confirmed"    // solid score, no overheating flags
	TrendEmerging    TrendQuality = "emerging"     // building but not confirmed
	TrendExtended    TrendQuality = "extended"     // overheated, chase risk
	TrendWeak        TrendQuality = "weak"
	TrendBearish     TrendQuality = "bearish"
)

// Too-late flag names. Each one costs 4 points on the composite score.
const (
	FlagRSIOverheated = "rsi_overheated"      // RSI above 80
	FlagFarAboveMA20  = "extended_above_ma20" // more than 12% above MA20
	FlagLongUpStreak  = "long_up_streak"      // 7+ consecutive up days
)

// MomentumProfile is the momentum engine's full output for one ticker
// in one scan run. Created fresh each scan; read-only once returned.
type MomentumProfile struct {
	Ticker string  `json:"ticker"`
	Price  float64 `json:"price"`

	Change1D float64 `json:"change_1d"`
	Change5D float64 `json:"change_5d"`
	Change1M float64 `json:"change_1m"`

	VolumeRatio float64 `json:"volume_ratio"` // latest volume / trailing average
	RSI         float64 `json:"rsi"`

	AboveMA20    bool    `json:"above_ma20"`
	AboveMA50    bool    `json:"above_ma50"`
	PctAboveMA20 float64 `json:"pct_above_ma20"`

	// Acceleration is the most recent 5-day return minus the 5-day
	// return immediately preceding it.
	Acceleration float64 `json:"acceleration"`

	// RelStrength is the ticker's 1-month return minus the benchmark's.
	RelStrength float64 `json:"rel_strength"`

	// VolumeTrend is mean volume on up days / mean volume on down days.
	VolumeTrend float64 `json:"volume_trend"`

	Breakout bool `json:"breakout"`
	UpStreak int  `json:"up_streak"` // trailing consecutive up days

	TooLate []string     `json:"too_late,omitempty"`
	Score   float64      `json:"score"` // composite, clamped to [0,100]
	Quality TrendQuality `json:"quality"`
}

// IsTooLate reports whether any too-late flag fired.
func (p *MomentumProfile) IsTooLate() bool {
	return len(p.TooLate) > 0
}
