// Package themes ranks thematic groups by the momentum of their
// tracking ETFs and collects the tickers of the hot ones for
// injection into the scan universe.
package themes

import (
	"sort"

	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/internal/scanconfig"
)

// A theme is hot when any of its ETFs runs better than these.
const (
	hotMonthlyPct = 5.0
	hotWeeklyPct  = 2.0
)

// Trading-day windows for the three performance horizons.
const (
	dayWindow   = 1
	weekWindow  = 5
	monthWindow = 21
)

// ETFUniverse returns the deduplicated set of ETFs across all theme
// definitions, sorted for a stable fetch order.
func ETFUniverse(defs []scanconfig.ThemeConfig) []string {
	seen := make(map[string]bool)
	var etfs []string
	for _, def := range defs {
		for _, etf := range def.ETFs {
			if etf == "" || seen[etf] {
				continue
			}
			seen[etf] = true
			etfs = append(etfs, etf)
		}
	}
	sort.Strings(etfs)
	return etfs
}

// Evaluate computes each theme's ETF momentum from the fetched price
// series. ETFs with no series are skipped; a theme whose ETFs all
// failed keeps zero averages and cannot be hot. Results are sorted by
// 1-month average descending, then name.
func Evaluate(defs []scanconfig.ThemeConfig, series map[string]*contracts.Series) []contracts.Theme {
	themes := make([]contracts.Theme, 0, len(defs))

	for _, def := range defs {
		theme := contracts.Theme{Name: def.Name, Tickers: def.Tickers}

		var sum1D, sum1W, sum1M float64
		var counted int
		for _, etf := range def.ETFs {
			s, ok := series[etf]
			if !ok || s == nil || s.Len() < dayWindow+1 {
				continue
			}

			perf1D := s.Return(dayWindow)
			perf1W := s.Return(weekWindow)
			perf1M := s.Return(monthWindow)

			sum1D += perf1D
			sum1W += perf1W
			sum1M += perf1M
			counted++

			if perf1M > hotMonthlyPct || perf1W > hotWeeklyPct {
				theme.Hot = true
			}
		}

		if counted > 0 {
			theme.Avg1D = sum1D / float64(counted)
			theme.Avg1W = sum1W / float64(counted)
			theme.Avg1M = sum1M / float64(counted)
		}

		themes = append(themes, theme)
	}

	sort.SliceStable(themes, func(i, j int) bool {
		if themes[i].Avg1M != themes[j].Avg1M {
			return themes[i].Avg1M > themes[j].Avg1M
		}
		return themes[i].Name < themes[j].Name
	})

	return themes
}

// HotTickers collects the tickers of every hot theme, deduplicated
// and sorted.
func HotTickers(themes []contracts.Theme) []string {
	seen := make(map[string]bool)
	var tickers []string
	for _, theme := range themes {
		if !theme.Hot {
			continue
		}
		for _, ticker := range theme.Tickers {
			if ticker == "" || seen[ticker] {
				continue
			}
			seen[ticker] = true
			tickers = append(tickers, ticker)
		}
	}
	sort.Strings(tickers)
	return tickers
}
