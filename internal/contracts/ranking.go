package contracts

// CombinedRanking is the long engine's output for one ticker. The
// combined score is a weighted sum plus additive bonuses and is NOT
// re-clamped to [0,100]: a well-corroborated multi-source ticker can
// legitimately exceed 100.
type CombinedRanking struct {
	Ticker string  `json:"ticker"`
	Score  float64 `json:"combined_score"`

	// SourceScores holds each weighted source's input score (neutral
	// default included for absent sources).
	SourceScores map[Source]float64 `json:"source_scores"`

	// Sources lists the feeds that actually produced data for this
	// ticker, in weighting order.
	Sources []Source `json:"sources"`

	InHotTheme bool   `json:"in_hot_theme"`
	Summary    string `json:"summary"`
}

// ShortCandidate is the short engine's output for one ticker: the
// bearish mirror of CombinedRanking.
type ShortCandidate struct {
	Ticker string  `json:"ticker"`
	Score  float64 `json:"short_score"` // floored at 0

	SubScores      map[string]float64 `json:"sub_scores"`
	BearishSignals []string           `json:"bearish_signals"`
	Summary        string             `json:"summary"`

	// SqueezeWarning fires when short float exceeds 20%: crowded
	// shorts risk a covering-driven reversal.
	SqueezeWarning bool `json:"squeeze_warning"`
}

// SectorPerformance is one sector's trailing performance row.
type SectorPerformance struct {
	Sector string  `json:"sector"`
	ETF    string  `json:"etf,omitempty"`
	Perf1D float64 `json:"perf_1d"`
	Perf1W float64 `json:"perf_1w"`
	Perf1M float64 `json:"perf_1m"`
}

// Theme is one thematic group's scan result.
type Theme struct {
	Name    string   `json:"theme"`
	Avg1D   float64  `json:"avg_1d"`
	Avg1W   float64  `json:"avg_1w"`
	Avg1M   float64  `json:"avg_1m"`
	Hot     bool     `json:"is_hot"`
	Tickers []string `json:"tickers"`
}

// HotHolding marks a stock held by sector ETFs that are seeing
// inflows. Its flow score feeds the long engine's sector-flow bonus.
type HotHolding struct {
	Ticker    string   `json:"ticker"`
	Sectors   []string `json:"sectors"`
	ETFs      []string `json:"etfs"`
	FlowScore float64  `json:"flow_score"`
}
