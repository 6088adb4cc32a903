package main

import (
	"os"

	"github.com/wonny/trendscan/cmd/trendscan/commands"
)

// main is the entry point for the trendscan CLI
// ⭐ Unified CLI entry point: go run ./cmd/trendscan [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
