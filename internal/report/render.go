// Package report turns a scan result into its output artifacts:
// terminal report, JSON snapshot, CSV rows, and optionally Postgres.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/internal/scan"
)

const (
	sectorRows = 6
	shortRows  = 5
	themeRows  = 5
	flowRows   = 6
)

// ScoreIndicator converts a 0-100 score to a +/- glyph for the
// terminal table.
func ScoreIndicator(score float64) string {
	switch {
	case score >= 80:
		return "+++"
	case score >= 65:
		return "++"
	case score >= 50:
		return "+"
	case score >= 35:
		return "-"
	default:
		return "--"
	}
}

// Render writes the formatted terminal report. topN bounds the
// combined table only; the side sections keep fixed lengths.
func Render(w io.Writer, result *scan.Result, topN int) {
	header(w, fmt.Sprintf("TRENDING STOCKS REPORT - %s", result.RanAt.Format("2006-01-02 15:04")))

	if rankings := result.TopRankings(topN); len(rankings) > 0 {
		section(w, "TOP TRENDING STOCKS (Combined Score)")
		fmt.Fprintf(w, "%-5s %-7s %-7s %-5s %-7s %-5s %s\n",
			"Rank", "Ticker", "Score", "Mom", "Reddit", "News", "Summary")
		fmt.Fprintln(w, strings.Repeat("-", 80))
		for i, r := range rankings {
			fmt.Fprintf(w, "%-5d %-7s %-7.1f %-5s %-7s %-5s %s\n",
				i+1, r.Ticker, r.Score,
				ScoreIndicator(r.SourceScores[contracts.SourceMomentum]),
				ScoreIndicator(r.SourceScores[contracts.SourceReddit]),
				ScoreIndicator(r.SourceScores[contracts.SourceNews]),
				truncate(r.Summary, 35))
		}
	}

	if len(result.ShortCandidates) > 0 {
		section(w, "SHORT CANDIDATES")
		for i, c := range result.ShortCandidates {
			if i >= shortRows {
				break
			}
			warning := ""
			if c.SqueezeWarning {
				warning = " [SQUEEZE RISK]"
			}
			fmt.Fprintf(w, "%d. %-6s | Score: %5.1f | %s%s\n",
				i+1, c.Ticker, c.Score, truncate(strings.Join(c.BearishSignals, ", "), 40), warning)
		}
	}

	if len(result.SectorPerformance) > 0 {
		section(w, "SECTOR MOMENTUM (1 Month)")
		for i, s := range result.SectorPerformance {
			if i >= sectorRows {
				break
			}
			fmt.Fprintf(w, "%d. %-25s %+.2f%%\n", i+1, s.Sector, s.Perf1M)
		}
	}

	if len(result.SectorFlows) > 0 {
		section(w, "SECTOR FLOWS (ETF)")
		for i, f := range result.SectorFlows {
			if i >= flowRows {
				break
			}
			fmt.Fprintf(w, "%d. %-6s %-22s | Flow: %5.1f | %s\n",
				i+1, f.ETF, f.Sector, f.Score, f.Signal)
		}
		if result.LeveragedSentiment != "" {
			fmt.Fprintf(w, "Leveraged ETF sentiment: %s\n", result.LeveragedSentiment)
		}
	}

	if len(result.Themes) > 0 {
		section(w, "THEME MOMENTUM")
		for i, t := range result.Themes {
			if i >= themeRows {
				break
			}
			marker := " "
			if t.Hot {
				marker = "*"
			}
			fmt.Fprintf(w, "%d. %s %-22s | 1M: %+6.2f%% | 1W: %+6.2f%%\n",
				i+1, marker, t.Name, t.Avg1M, t.Avg1W)
		}
	}

	if len(result.SourceErrors) > 0 {
		section(w, "DEGRADED SOURCES")
		for _, source := range sortedKeys(result.SourceErrors) {
			fmt.Fprintf(w, "- %s: %s\n", source, truncate(result.SourceErrors[source], 60))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, " Scan complete in %s. %d tickers considered.\n",
		result.Duration, len(result.Universe))
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

func header(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, " %s\n", title)
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", title)
	fmt.Fprintln(w, strings.Repeat("-", 50))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
