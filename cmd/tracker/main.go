package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"hiscore-tracker/internal/config"
)

const usage = `usage: tracker [command]

commands:
  collect   capture one snapshot for every tracked player
  digest    build and publish one leaderboard digest
  serve     run the daily collect+digest job and the metrics server (default)`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	InitLogger()

	command := "serve"
	if len(args) > 0 {
		command = args[0]
	}
	switch command {
	case "collect", "digest", "serve":
	case "-h", "--help", "help":
		fmt.Println(usage)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", command, usage)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	ctx := context.Background()

	app, err := NewApp(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.Shutdown(shutdownCtx); err != nil {
			slog.Error("Application shutdown error", "error", err)
		}
	}()

	switch command {
	case "collect":
		if _, err := app.Collect(ctx); err != nil {
			return 1
		}
	case "digest":
		if err := app.Digest(ctx); err != nil {
			return 1
		}
	default:
		if err := app.Run(); err != nil {
			slog.Error("Failed to start application", "error", err)
			return 1
		}
		WaitForShutdown()
	}
	return 0
}
