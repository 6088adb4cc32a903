package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/wonny/trendscan/internal/contracts"
	"github.com/wonny/trendscan/internal/scan"
)

const (
	jsonRankingLimit = 20
	csvFilePerm      = 0o644
)

// snapshot is the trimmed JSON artifact. The full result carries
// per-source score maps for every ticker; the snapshot keeps only
// what downstream analysis scripts read.
type snapshot struct {
	StrategyID         string                        `json:"strategy_id"`
	Timestamp          string                        `json:"timestamp"`
	Duration           string                        `json:"duration"`
	Combined           []contracts.CombinedRanking   `json:"combined"`
	ShortCandidates    []contracts.ShortCandidate    `json:"short_candidates"`
	Sectors            []contracts.SectorPerformance `json:"sectors"`
	Themes             []contracts.Theme             `json:"themes"`
	HotHoldings        []contracts.HotHolding        `json:"hot_holdings,omitempty"`
	LeveragedSentiment string                        `json:"leveraged_sentiment,omitempty"`
	SourceErrors       map[string]string             `json:"source_errors,omitempty"`
}

// WriteJSON writes the trimmed snapshot, creating parent directories
// as needed.
func WriteJSON(result *scan.Result, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	s := snapshot{
		StrategyID:         result.StrategyID,
		Timestamp:          result.RanAt.Format("2006-01-02T15:04:05Z07:00"),
		Duration:           result.Duration,
		Combined:           result.TopRankings(jsonRankingLimit),
		ShortCandidates:    result.ShortCandidates,
		Sectors:            result.SectorPerformance,
		Themes:             result.Themes,
		HotHoldings:        result.HotHoldings,
		LeveragedSentiment: result.LeveragedSentiment,
		SourceErrors:       result.SourceErrors,
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, csvFilePerm); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// WriteCSV writes one row per combined ranking with stable columns,
// ready for spreadsheet import.
func WriteCSV(result *scan.Result, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"rank", "ticker", "combined_score", "in_hot_theme", "sources", "summary"}
	for _, src := range contracts.LongSources {
		header = append(header, string(src)+"_score")
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i, r := range result.Rankings {
		row := []string{
			strconv.Itoa(i + 1),
			r.Ticker,
			strconv.FormatFloat(r.Score, 'f', 1, 64),
			strconv.FormatBool(r.InHotTheme),
			joinSources(r.Sources),
			r.Summary,
		}
		for _, src := range contracts.LongSources {
			row = append(row, strconv.FormatFloat(r.SourceScores[src], 'f', 1, 64))
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func joinSources(srcs []contracts.Source) string {
	names := make([]string, len(srcs))
	for i, s := range srcs {
		names[i] = string(s)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
