package commands

import (
	"fmt"
	"time"

	"github.com/wonny/trendscan/internal/external/finviz"
	"github.com/wonny/trendscan/internal/external/perplexity"
	"github.com/wonny/trendscan/internal/external/quiver"
	"github.com/wonny/trendscan/internal/external/reddit"
	"github.com/wonny/trendscan/internal/external/rssnews"
	"github.com/wonny/trendscan/internal/external/yahoo"
	"github.com/wonny/trendscan/internal/scan"
	"github.com/wonny/trendscan/internal/scanconfig"
	"github.com/wonny/trendscan/pkg/config"
	"github.com/wonny/trendscan/pkg/httputil"
	"github.com/wonny/trendscan/pkg/logger"
	"github.com/wonny/trendscan/pkg/redis"
)

// Redis cache slot for the most recent scan result.
const (
	latestScanCacheKey = "latest_scan"
	latestScanCacheTTL = 24 * time.Hour
)

// loadConfigs loads the env config, logger, and the strategy YAML.
func loadConfigs() (*config.Config, *scanconfig.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	log := logger.New(cfg)

	scanCfg, _, err := scanconfig.Load(strategyFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load strategy %s: %w", strategyFile, err)
	}

	return cfg, scanCfg, log, nil
}

// buildPipeline wires every external client and the scan pipeline.
// Perplexity and Quiver are skipped without API keys; the pipeline
// treats nil clients as disabled sources. The redis client is
// returned for result caching; it is a no-op when REDIS_ENABLED
// is false.
func buildPipeline(cfg *config.Config, scanCfg *scanconfig.Config, log *logger.Logger) (*scan.Pipeline, *redis.Client, error) {
	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	limiter := redis.NewRateLimiter(redisClient, "trendscan")

	// Finviz blocks default Go agents and bans aggressive crawlers.
	scrapeHTTP := httputil.New(cfg, log).
		WithUserAgents(httputil.BrowserAgents).
		WithLocalRateLimit(2, 1).
		WithRateLimiter(limiter, redis.RateLimitConfig{
			Key:    "finviz",
			Limit:  30,
			Window: time.Minute,
		})

	yahooHTTP := httputil.New(cfg, log).
		WithLocalRateLimit(5, 2).
		WithRateLimiter(limiter, redis.RateLimitConfig{
			Key:    "yahoo",
			Limit:  120,
			Window: time.Minute,
		})

	// Reddit wants a descriptive user agent on the public endpoints.
	redditHTTP := httputil.New(cfg, log).
		WithHeader("User-Agent", cfg.Reddit.UserAgent).
		WithLocalRateLimit(1, 1)

	deps := scan.Deps{
		Logger: log,
		Yahoo:  yahoo.NewClient(yahooHTTP, log),
		Finviz: finviz.NewClient(scrapeHTTP, log),
		Reddit: reddit.NewClient(redditHTTP, log).WithBaseURL(cfg.Reddit.BaseURL),
		News:   rssnews.NewClient(httputil.New(cfg, log), log),
	}

	if cfg.Perplexity.APIKey != "" {
		deps.Perplexity = perplexity.NewClient(httputil.New(cfg, log), log, cfg.Perplexity)
	} else {
		log.Info("PERPLEXITY_API_KEY not set, AI discovery disabled")
	}
	if cfg.Quiver.APIKey != "" {
		deps.Quiver = quiver.NewClient(httputil.New(cfg, log), log, cfg.Quiver)
	} else {
		log.Info("QUIVER_API_KEY not set, congressional trading disabled")
	}

	return scan.New(scanCfg, deps), redisClient, nil
}
