package scanconfig

import (
	"fmt"
	"math"

	"github.com/wonny/trendscan/internal/contracts"
)

const weightEpsilon = 0.01

// ValidationError is a fatal config problem: the scan refuses to run.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning flags a suspicious but runnable setting.
type Warning struct {
	Code    string
	Message string
}

// knownLongSources indexes the sources the long engine understands.
var knownLongSources = func() map[string]bool {
	m := make(map[string]bool, len(contracts.LongSources))
	for _, src := range contracts.LongSources {
		m[string(src)] = true
	}
	return m
}()

// Validate checks all required constraints.
func Validate(cfg *Config) error {
	if cfg.Meta.StrategyID == "" {
		return ValidationError{"meta.strategy_id", "required"}
	}

	if err := validateWeightTable("weights.long", cfg.Weights.Long); err != nil {
		return err
	}
	if err := validateWeightTable("weights.short", cfg.Weights.Short); err != nil {
		return err
	}

	for name := range cfg.Weights.Long {
		if !knownLongSources[name] {
			return ValidationError{"weights.long", fmt.Sprintf("unknown source %q", name)}
		}
	}

	if cfg.Short.MinScore < 0 || cfg.Short.MinScore > 100 {
		return ValidationError{"short.min_score", "must be in [0, 100]"}
	}

	for i, theme := range cfg.Themes {
		if theme.Name == "" {
			return ValidationError{fmt.Sprintf("themes[%d].name", i), "required"}
		}
		if len(theme.ETFs) == 0 && len(theme.Tickers) == 0 {
			return ValidationError{
				Field:   fmt.Sprintf("themes[%d]", i),
				Message: "must list at least one ETF or ticker",
			}
		}
	}

	if cfg.Scan.BatchSize <= 0 {
		return ValidationError{"scan.batch_size", "must be > 0"}
	}
	if cfg.Scan.Concurrency <= 0 {
		return ValidationError{"scan.concurrency", "must be > 0"}
	}
	if cfg.Scan.TopN <= 0 {
		return ValidationError{"scan.top_n", "must be > 0"}
	}
	if cfg.Scan.HistoryDays < 30 {
		return ValidationError{"scan.history_days", "must be >= 30 for the 20-sample minimum"}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal).
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	if len(cfg.Universe.Watchlist) == 0 {
		warnings = append(warnings, Warning{
			Code:    "EMPTY_WATCHLIST",
			Message: "no baseline watchlist: universe depends entirely on discovery sources",
		})
	}

	if cfg.Scan.Concurrency > 10 {
		warnings = append(warnings, Warning{
			Code:    "HIGH_CONCURRENCY",
			Message: "concurrency > 10: scrape targets may rate-limit or block",
		})
	}

	if !cfg.Short.SqueezePenalty {
		warnings = append(warnings, Warning{
			Code:    "SQUEEZE_PENALTY_OFF",
			Message: "squeeze penalty disabled: crowded shorts rank without reversal risk discount",
		})
	}

	return warnings
}

func validateWeightTable(field string, weights map[string]float64) error {
	if len(weights) == 0 {
		return ValidationError{field, "must not be empty"}
	}

	sum := 0.0
	for name, w := range weights {
		if w < 0 {
			return ValidationError{field, fmt.Sprintf("%s: weight must be >= 0", name)}
		}
		sum += w
	}

	if math.Abs(sum-1.0) > weightEpsilon {
		return ValidationError{field, fmt.Sprintf("must sum to 1.0, got %.4f", sum)}
	}

	return nil
}
