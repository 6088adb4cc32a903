// Package jobs contains the scheduled job implementations.
package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wonny/trendscan/internal/report"
	"github.com/wonny/trendscan/internal/scan"
	"github.com/wonny/trendscan/pkg/logger"
)

// defaultScanSchedule runs before the US market open, weekdays.
const defaultScanSchedule = "0 0 8 * * 1-5"

// Publisher receives completed scan results, e.g. the API handler's
// in-memory cache.
type Publisher interface {
	SetLatest(result *scan.Result)
}

// ScanJob runs the full trending scan on a cron schedule and writes
// the output artifacts.
// ⭐ SSOT: the scheduled scan flow lives in this Job only
type ScanJob struct {
	pipeline  *scan.Pipeline
	repo      *report.Repository // nil when Postgres is not configured
	publisher Publisher          // nil when no API server is attached
	logger    *logger.Logger

	schedule  string
	outputDir string
	topN      int
}

// NewScanJob creates a new scan job. schedule falls back to the
// weekday pre-market default when empty.
func NewScanJob(pipeline *scan.Pipeline, repo *report.Repository, publisher Publisher, log *logger.Logger, schedule, outputDir string, topN int) *ScanJob {
	if schedule == "" {
		schedule = defaultScanSchedule
	}
	if outputDir == "" {
		outputDir = "output"
	}
	return &ScanJob{
		pipeline:  pipeline,
		repo:      repo,
		publisher: publisher,
		logger:    log,
		schedule:  schedule,
		outputDir: outputDir,
		topN:      topN,
	}
}

// Name returns the job name
func (j *ScanJob) Name() string {
	return "trending_scan"
}

// Schedule returns the cron schedule expression (with seconds).
func (j *ScanJob) Schedule() string {
	return j.schedule
}

// Run executes one scan and fans the result out to every configured
// sink. Artifact write failures are returned so the scheduler's
// retry kicks in; a degraded-but-complete scan is not an error.
func (j *ScanJob) Run(ctx context.Context) error {
	result, err := j.pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("run scan: %w", err)
	}

	report.Render(os.Stdout, result, j.topN)

	stamp := result.RanAt.Format("20060102_150405")
	jsonPath := filepath.Join(j.outputDir, fmt.Sprintf("scan_%s.json", stamp))
	if err := report.WriteJSON(result, jsonPath); err != nil {
		return fmt.Errorf("write json artifact: %w", err)
	}
	csvPath := filepath.Join(j.outputDir, fmt.Sprintf("scan_%s.csv", stamp))
	if err := report.WriteCSV(result, csvPath); err != nil {
		return fmt.Errorf("write csv artifact: %w", err)
	}

	if j.repo != nil {
		scanID, err := j.repo.Save(ctx, result)
		if err != nil {
			return fmt.Errorf("persist scan: %w", err)
		}
		j.logger.WithField("scan_id", scanID).Info("Scan persisted")
	}

	if j.publisher != nil {
		j.publisher.SetLatest(result)
	}

	j.logger.WithFields(map[string]interface{}{
		"rankings": len(result.Rankings),
		"json":     jsonPath,
		"csv":      csvPath,
	}).Info("Scheduled scan complete")

	return nil
}
