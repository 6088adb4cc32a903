package scanconfig

import "github.com/wonny/trendscan/internal/contracts"

// Config is the full scan strategy configuration. Loaded once at
// startup and passed into each phase; nothing mutates it afterwards.
type Config struct {
	Meta     Meta          `yaml:"meta" json:"meta"`
	Universe Universe      `yaml:"universe" json:"universe"`
	Sources  Sources       `yaml:"sources" json:"sources"`
	Weights  Weights       `yaml:"weights" json:"weights"`
	Short    ShortConfig   `yaml:"short" json:"short"`
	Themes   []ThemeConfig `yaml:"themes" json:"themes"`
	ETFs     ETFConfig     `yaml:"etfs" json:"etfs"`
	Scan     ScanConfig    `yaml:"scan" json:"scan"`
}

// Meta identifies the strategy revision.
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
}

// Universe defines the baseline ticker pool. Discovered and
// theme tickers are added on top of the watchlist at scan time.
type Universe struct {
	Watchlist  []string `yaml:"watchlist" json:"watchlist"`
	MaxTickers int      `yaml:"max_tickers" json:"max_tickers"`
}

// Sources configures the individual feeds.
type Sources struct {
	Enabled   []string     `yaml:"enabled" json:"enabled"`
	Benchmark string       `yaml:"benchmark" json:"benchmark"` // relative-strength baseline
	Reddit    RedditSource `yaml:"reddit" json:"reddit"`
	News      NewsSource   `yaml:"news" json:"news"`
	Finviz    FinvizSource `yaml:"finviz" json:"finviz"`
}

type RedditSource struct {
	Subreddits        []string `yaml:"subreddits" json:"subreddits"`
	PostsPerSubreddit int      `yaml:"posts_per_subreddit" json:"posts_per_subreddit"`
}

type NewsSource struct {
	Feeds []string `yaml:"feeds" json:"feeds"`
}

type FinvizSource struct {
	Screens       []string `yaml:"screens" json:"screens"`
	RowsPerScreen int      `yaml:"rows_per_screen" json:"rows_per_screen"`
}

// Weights holds the long and short weight tables. Each is expected
// to sum to 1.0; Validate enforces it within epsilon.
type Weights struct {
	Long  map[string]float64 `yaml:"long" json:"long"`
	Short map[string]float64 `yaml:"short" json:"short"`
}

// LongWeights converts the YAML string keys to typed sources.
func (w Weights) LongWeights() map[contracts.Source]float64 {
	out := make(map[contracts.Source]float64, len(w.Long))
	for name, weight := range w.Long {
		out[contracts.Source(name)] = weight
	}
	return out
}

// ShortConfig tunes the short aggregation engine.
type ShortConfig struct {
	MinScore       float64 `yaml:"min_score" json:"min_score"`
	SqueezePenalty bool    `yaml:"squeeze_penalty" json:"squeeze_penalty"`
}

// ThemeConfig is one thematic group tracked by the theme phase.
type ThemeConfig struct {
	Name    string   `yaml:"name" json:"name"`
	ETFs    []string `yaml:"etfs" json:"etfs"`
	Tickers []string `yaml:"tickers" json:"tickers"`
}

// ETFConfig maps sector ETFs for the flow phase.
type ETFConfig struct {
	SectorMap map[string]string   `yaml:"sector_map" json:"sector_map"` // ETF -> sector name
	Holdings  map[string][]string `yaml:"holdings" json:"holdings"`     // ETF -> top holdings
	Leveraged LeveragedPair       `yaml:"leveraged" json:"leveraged"`
}

// LeveragedPair names the bull/bear leveraged ETFs whose relative
// volume gauges retail sentiment.
type LeveragedPair struct {
	Bull string `yaml:"bull" json:"bull"`
	Bear string `yaml:"bear" json:"bear"`
}

// ScanConfig bounds the batch run.
type ScanConfig struct {
	TopN           int `yaml:"top_n" json:"top_n"`
	BatchSize      int `yaml:"batch_size" json:"batch_size"`
	Concurrency    int `yaml:"concurrency" json:"concurrency"`
	TimeoutSeconds int `yaml:"timeout_seconds" json:"timeout_seconds"`
	HistoryDays    int `yaml:"history_days" json:"history_days"`
}

// SourceEnabled reports whether a source appears in the enabled list.
// An empty list means all sources are enabled.
func (c *Config) SourceEnabled(src contracts.Source) bool {
	if len(c.Sources.Enabled) == 0 {
		return true
	}
	for _, name := range c.Sources.Enabled {
		if name == string(src) {
			return true
		}
	}
	return false
}
