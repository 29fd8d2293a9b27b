package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/angeloszaimis/statusfan/config"
	"github.com/angeloszaimis/statusfan/internal/aggregator"
	"github.com/angeloszaimis/statusfan/internal/status"
	"github.com/angeloszaimis/statusfan/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	// stdout carries the report only.
	log := logger.New(os.Stderr, cfg.Logging.Level, true, cfg.Server.Environment, "aggregator")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	report, err := run(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Error("Failed to aggregate application status", slog.Any("err", err))
		os.Exit(1)
	}

	printReport(os.Stdout, report)

	if report.Verdict != aggregator.VerdictSuccess {
		os.Exit(1)
	}
}

func newAggregator(cfg *config.Config, log *slog.Logger) (*aggregator.Aggregator, error) {
	timeout := cfg.Aggregator.TimeoutDuration()

	return aggregator.New(
		status.NewHTTPChecker("status1", timeout, log),
		status.NewHTTPChecker("status2", timeout, log),
		cfg.Aggregator.MaxAttempts,
		aggregator.WithLogger(log),
	)
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) (aggregator.Report, error) {
	if len(cfg.Aggregator.Endpoints) != 2 {
		return aggregator.Report{}, fmt.Errorf("need exactly 2 endpoints, got %d", len(cfg.Aggregator.Endpoints))
	}

	agg, err := newAggregator(cfg, log)
	if err != nil {
		return aggregator.Report{}, fmt.Errorf("create aggregator: %w", err)
	}

	if deadline := cfg.Aggregator.DeadlineDuration(); deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, deadline)
		defer cancel()
	}

	return agg.Aggregate(ctx, uuid.NewString(), cfg.Aggregator.Endpoints[0], cfg.Aggregator.Endpoints[1]), nil
}

func printReport(w io.Writer, report aggregator.Report) {
	fmt.Fprintf(w, "Application ID: %s\n", report.ApplicationID)
	fmt.Fprintf(w, "Status: %s\n", report.Verdict)
	fmt.Fprintf(w, "Description: %s\n", report.Description)
	fmt.Fprintf(w, "Last Request Time: %s\n", report.Timestamp.Format(time.RFC3339Nano))
}
