package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/trendscan/internal/report"
	"github.com/wonny/trendscan/internal/scheduler"
	"github.com/wonny/trendscan/internal/scheduler/jobs"
	"github.com/wonny/trendscan/pkg/database"
)

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run scans on a cron schedule",
	Long: `Starts the scheduler daemon and runs the trending scan on a cron
schedule (with seconds, default weekday pre-market).

Each run writes the terminal report, JSON and CSV artifacts, and
persists to Postgres when DATABASE_URL is set.

The scheduler stops on Ctrl+C.

Example:
  go run ./cmd/trendscan schedule
  go run ./cmd/trendscan schedule --cron "0 0 */4 * * *"
  go run ./cmd/trendscan schedule --now`,
	RunE: runSchedule,
}

var (
	scheduleCron   string
	scheduleOutDir string
	scheduleNow    bool
)

func init() {
	rootCmd.AddCommand(scheduleCmd)

	// Flags
	scheduleCmd.Flags().StringVar(&scheduleCron, "cron", "", "cron expression with seconds (default weekday 08:00)")
	scheduleCmd.Flags().StringVar(&scheduleOutDir, "output-dir", "output", "artifact directory")
	scheduleCmd.Flags().BoolVar(&scheduleNow, "now", false, "run one scan immediately on startup")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	fmt.Println("=== trendscan Scheduler ===")

	cfg, scanCfg, log, err := loadConfigs()
	if err != nil {
		return err
	}

	pipeline, redisClient, err := buildPipeline(cfg, scanCfg, log)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	var repo *report.Repository
	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		repo = report.NewRepository(db.Pool)
		if err := repo.EnsureSchema(cmd.Context()); err != nil {
			return err
		}
	}

	sched := scheduler.New(log)
	job := jobs.NewScanJob(pipeline, repo, nil, log, scheduleCron, scheduleOutDir, scanCfg.Scan.TopN)
	if err := sched.AddJob(job); err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()

	if scheduleNow {
		if err := sched.RunJob(job.Name()); err != nil {
			return err
		}
	}

	log.WithField("schedule", job.Schedule()).Info("Scheduler running, press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.WithField("signal", sig.String()).Info("Shutdown signal received")
	return nil
}
