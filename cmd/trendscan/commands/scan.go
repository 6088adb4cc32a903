package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/trendscan/internal/report"
	"github.com/wonny/trendscan/pkg/database"
	"github.com/wonny/trendscan/pkg/redis"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one trending stocks scan",
	Long: `Runs the full batch scan: discovery feeds, theme momentum, price
enrichment, targeted passes, ETF flows, and the long/short scoring
engines.

The terminal report goes to stdout and a JSON snapshot plus CSV are
written to the output path. With DATABASE_URL set the result is also
persisted to Postgres.

Example:
  go run ./cmd/trendscan scan
  go run ./cmd/trendscan scan --source momentum --top 5
  go run ./cmd/trendscan scan --json > report.json`,
	RunE: runScan,
}

var (
	scanSource string
	scanTopN   int
	scanAsJSON bool
	scanOutput string
)

func init() {
	rootCmd.AddCommand(scanCmd)

	// Flags
	scanCmd.Flags().StringVar(&scanSource, "source", "", "run a single source only (e.g. momentum, reddit, news)")
	scanCmd.Flags().IntVar(&scanTopN, "top", 0, "number of rankings to display (default from strategy config)")
	scanCmd.Flags().BoolVar(&scanAsJSON, "json", false, "print the result as JSON instead of the terminal report")
	scanCmd.Flags().StringVar(&scanOutput, "output", "output/trending_report.json", "JSON snapshot path")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, scanCfg, log, err := loadConfigs()
	if err != nil {
		return err
	}

	if scanSource != "" {
		scanCfg.Sources.Enabled = []string{scanSource}
	}
	topN := scanCfg.Scan.TopN
	if scanTopN > 0 {
		topN = scanTopN
	}

	pipeline, redisClient, err := buildPipeline(cfg, scanCfg, log)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	result, err := pipeline.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	cache := redis.NewCache(redisClient, "trendscan")
	if err := cache.Set(cmd.Context(), latestScanCacheKey, result, latestScanCacheTTL); err != nil {
		log.WithError(err).Warn("Could not cache scan result")
	}

	if scanAsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	} else {
		report.Render(os.Stdout, result, topN)
	}

	if err := report.WriteJSON(result, scanOutput); err != nil {
		return err
	}
	csvPath := strings.TrimSuffix(scanOutput, ".json") + ".csv"
	if err := report.WriteCSV(result, csvPath); err != nil {
		return err
	}
	log.WithFields(map[string]interface{}{
		"json": scanOutput,
		"csv":  csvPath,
	}).Info("Artifacts written")

	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		repo := report.NewRepository(db.Pool)
		ctx := context.Background()
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		scanID, err := repo.Save(ctx, result)
		if err != nil {
			return fmt.Errorf("persist scan: %w", err)
		}
		log.WithField("scan_id", scanID).Info("Scan persisted")
	}

	return nil
}
