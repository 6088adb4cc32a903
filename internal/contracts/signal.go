package contracts

import "sort"

// Source identifies one of the independent signal feeds.
type Source string

const (
	SourceMomentum      Source = "momentum"
	SourceFinviz        Source = "finviz"
	SourceReddit        Source = "reddit"
	SourceNews          Source = "news"
	SourceTrends        Source = "google_trends"
	SourceShortInterest Source = "short_interest"
	SourceOptions       Source = "options"
	SourcePerplexity    Source = "perplexity"
	SourceInsider       Source = "insider"
	SourceAnalyst       Source = "analyst"
	SourceCongress      Source = "congress"
	SourceInstitutional Source = "institutional"
	SourceETFFlows      Source = "etf_flows"
)

// LongSources are the feeds the long aggregation engine weights.
// ETF flows are a bonus, not a weighted source, so they are not here.
var LongSources = []Source{
	SourceMomentum,
	SourceFinviz,
	SourceReddit,
	SourceNews,
	SourceTrends,
	SourceShortInterest,
	SourceOptions,
	SourcePerplexity,
	SourceInsider,
	SourceAnalyst,
	SourceCongress,
	SourceInstitutional,
}

// NeutralScore is assigned for any source that produced no data for a
// ticker. Absence means "no opinion," not "zero."
const NeutralScore = 50.0

// SourceSignal is one source's normalized opinion on one ticker.
type SourceSignal struct {
	Ticker string   `json:"ticker"`
	Score  float64  `json:"score"` // 0-100
	Tags   []string `json:"tags,omitempty"`
	Notes  []string `json:"notes,omitempty"` // summary fragments

	// Stats carries source-specific numeric extras (mention counts,
	// short float, put/call ratio, ...).
	Stats map[string]float64 `json:"stats,omitempty"`
}

// Stat returns a named numeric extra, or 0 if absent.
func (s SourceSignal) Stat(name string) float64 {
	return s.Stats[name]
}

// HasTag reports whether the signal carries a tag.
func (s SourceSignal) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SignalMap is one source's output: ticker -> signal. A ticker absent
// from the map means the source has no opinion on it.
type SignalMap map[string]SourceSignal

// Tickers returns the map's keys in lexical order.
func (m SignalMap) Tickers() []string {
	out := make([]string, 0, len(m))
	for t := range m {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// ScoreOrNeutral returns the source's score for a ticker, or the
// neutral default when the source has no opinion.
func (m SignalMap) ScoreOrNeutral(ticker string) float64 {
	if sig, ok := m[ticker]; ok {
		return sig.Score
	}
	return NeutralScore
}

// Well-known stat keys shared between connectors and the aggregation
// engines. Connectors populate these; the summary builder reads them.
const (
	StatChange1M    = "change_1m"
	StatMentions    = "mentions"
	StatArticles    = "articles"
	StatShortFloat  = "short_float"
	StatDaysToCover = "days_to_cover"
	StatPutCall     = "put_call"
	StatBuyValue    = "buy_value"
	StatSellValue   = "sell_value"
	StatFlowScore   = "flow_score"
	StatSentiment   = "sentiment"
)

// Well-known signal tags.
const (
	TagSqueezeHigh     = "squeeze_risk_high"
	TagBullishSweep    = "bullish_sweep"
	TagBearishSweep    = "bearish_sweep"
	TagCatalyst        = "catalyst"
	TagUpgrade         = "analyst_upgrade"
	TagDowngrade       = "analyst_downgrade"
	TagInsiderBuying   = "insider_buying"
	TagInsiderSelling  = "insider_selling"
	TagCongressBuying  = "congress_buying"
	TagCongressSelling = "congress_selling"
	TagAccumulation    = "accumulation"
	TagDistribution    = "distribution"
	TagETFInflow       = "etf_inflow"
)
