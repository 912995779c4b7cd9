// Package main is the entry point for IdleQuest.
package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/samdwyer/idlequest/internal/cli"
	"github.com/samdwyer/idlequest/internal/telemetry"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	ctx := context.Background()

	if telemetry.ConfigureEnv() {
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			log.Printf("Warning: telemetry setup failed: %v", err)
			log.Printf("Game will run without observability")
		} else {
			defer func() {
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down telemetry: %v", err)
				}
			}()
		}
	}

	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}
