package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/plus3/meters/internal/config"
	"github.com/plus3/meters/internal/history"
	"github.com/plus3/meters/internal/logging"
	"github.com/plus3/meters/internal/sim"
)

func main() {
	configDir := flag.String("config", ".", "Directory containing "+config.FileName+".")
	jsonLogs := flag.Bool("json-logs", false, "Write logs as JSON lines instead of console output.")
	flag.Parse()

	if err := run(*configDir, *jsonLogs); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configDir string, jsonLogs bool) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}

	logger := logging.New(cfg.LogLevel, os.Stderr)
	if jsonLogs {
		logger = logging.NewJSON(cfg.LogLevel, os.Stderr)
	}
	logger.Info().Str("loglevel", logger.GetLevel().String()).Msg("logging set up")

	simulation, err := sim.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create simulation: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := simulation.Run(ctx); err != nil {
		// An interrupted run still gets a report.
		logger.Warn().Err(err).Msg("run stopped early")
	}

	report := simulation.Report()
	fmt.Println("\n--- Meter Simulation Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	fmt.Println("--- End of Report ---")

	if cfg.History.Path == "" {
		return nil
	}
	return recordRun(cfg.History, report, logger)
}

func recordRun(cfg config.HistoryConfig, report *sim.Report, logger zerolog.Logger) error {
	store, err := history.Open(cfg.Path, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	if _, err := store.Record(report); err != nil {
		return err
	}

	runs, err := store.Recent(cfg.Limit)
	if err != nil {
		return err
	}
	fmt.Println("\n--- Recent Runs ---")
	for _, run := range runs {
		fmt.Printf("#%d %s: %d ticks, %d/%d depleted, avg tick %s\n",
			run.ID, run.CreatedAt.Format(time.RFC3339), run.Ticks, run.Deaths, run.Entities, run.AvgTick)
	}
	return nil
}
