package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/trendscan/internal/api"
	"github.com/wonny/trendscan/internal/api/handlers"
	"github.com/wonny/trendscan/internal/report"
	"github.com/wonny/trendscan/internal/scan"
	"github.com/wonny/trendscan/pkg/database"
	"github.com/wonny/trendscan/pkg/redis"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the REST API server over scan results.

Endpoints:
  GET  /health           - Health check
  GET  /api/scan/latest  - Most recent scan result
  POST /api/scan/run     - Trigger a scan in the background

With DATABASE_URL set the latest stored result seeds the cache, so
/api/scan/latest works right after a restart.

Example:
  go run ./cmd/trendscan serve
  go run ./cmd/trendscan serve --port 8080`,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)

	// Flags
	serveCmd.Flags().StringVar(&servePort, "port", "", "API server port (default from PORT env)")
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Println("=== trendscan API Server ===")

	cfg, scanCfg, log, err := loadConfigs()
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.Port = servePort
	}

	pipeline, redisClient, err := buildPipeline(cfg, scanCfg, log)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	scanHandler := handlers.NewScanHandler(pipeline, log)

	// Seed the latest result from Postgres when available.
	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		repo := report.NewRepository(db.Pool)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		latest, err := repo.Latest(ctx)
		cancel()
		if err != nil {
			log.WithError(err).Warn("Could not load latest stored scan")
		} else if latest != nil {
			scanHandler.SetLatest(latest)
			log.WithField("ran_at", latest.RanAt).Info("Seeded latest scan from database")
		}
	} else {
		// No database configured, try the Redis cache left by a CLI scan.
		cache := redis.NewCache(redisClient, "trendscan")
		var cached scan.Result
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		found, err := cache.Get(ctx, latestScanCacheKey, &cached)
		cancel()
		if err != nil {
			log.WithError(err).Warn("Could not read cached scan")
		} else if found {
			scanHandler.SetLatest(&cached)
			log.WithField("ran_at", cached.RanAt).Info("Seeded latest scan from cache")
		}
	}

	router := api.NewRouter(scanHandler, log)
	server := api.New(cfg, log, router)

	// Run server in a goroutine so shutdown can be handled
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
