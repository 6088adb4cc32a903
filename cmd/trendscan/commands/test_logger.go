package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/trendscan/pkg/config"
	"github.com/wonny/trendscan/pkg/logger"
)

// testLoggerCmd represents the test-logger command
var testLoggerCmd = &cobra.Command{
	Use:   "test-logger",
	Short: "Test the structured logger",
	Long: `Exercises the structured logging setup.

This command:
- tests JSON and console formats
- tests log levels
- tests structured field logging
- tests error context logging

Example:
  go run ./cmd/trendscan test-logger`,
	RunE: runTestLogger,
}

func init() {
	rootCmd.AddCommand(testLoggerCmd)
}

func runTestLogger(cmd *cobra.Command, args []string) error {
	fmt.Println("=== trendscan Logger Test ===")

	// Test 1: JSON Format (Production)
	fmt.Println("1. JSON Format (Production)")
	fmt.Println("--------------------------------")
	testJSONFormat()
	fmt.Println()

	// Test 2: Console Format (Development)
	fmt.Println("2. Console Format (Development)")
	fmt.Println("--------------------------------")
	testConsoleFormat()
	fmt.Println()

	// Test 3: Structured Logging
	fmt.Println("3. Structured Logging with Fields")
	fmt.Println("--------------------------------")
	testStructuredLogging()
	fmt.Println()

	// Test 4: Error Logging
	fmt.Println("4. Error Logging")
	fmt.Println("--------------------------------")
	testErrorLogging()
	fmt.Println()

	fmt.Println("✅ All logger tests completed!")
	return nil
}

func testJSONFormat() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}

	log := logger.New(cfg)
	log.Info("Service started")
	log.Warn("High memory usage detected")
	log.Error("Failed to reach upstream feed")
}

func testConsoleFormat() {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "debug",
		LogFormat: "console",
	}

	log := logger.New(cfg)
	log.Debug("Debugging application flow")
	log.Info("Scan started")
	log.Warn("Rate limit approaching, slowing down")
}

func testStructuredLogging() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}

	log := logger.New(cfg)

	// Single field
	tickerLog := log.WithField("ticker", "NVDA")
	tickerLog.Info("Momentum profile computed")

	// Multiple fields
	scanLog := log.WithFields(map[string]interface{}{
		"ticker":   "TSLA",
		"score":    78.5,
		"sources":  4,
		"universe": 120,
	})
	scanLog.Info("Ranking combined")

	// Chained fields
	log.WithField("module", "scanner").
		WithField("source", "finviz").
		Info("Discovery source complete")
}

func testErrorLogging() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}

	log := logger.New(cfg)

	err := errors.New("connection timeout after 20s")
	log.WithError(err).Error("Feed fetch failed")

	log.WithFields(map[string]interface{}{
		"source":  "reddit",
		"attempt": 3,
	}).WithError(err).Warn("Retrying source")
}
