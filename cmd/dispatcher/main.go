package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/angeloszaimis/statusfan/config"
	"github.com/angeloszaimis/statusfan/internal/dispatch"
	"github.com/angeloszaimis/statusfan/internal/httpserver"
	"github.com/angeloszaimis/statusfan/internal/metrics"
	"github.com/angeloszaimis/statusfan/pkg/logger"
)

const metricsBufferSize = 1024

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.Logging.Level, true, cfg.Server.Environment, "dispatcher")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	collector := metrics.NewCollector(metricsBufferSize, log)
	collector.Start(ctx)

	runner, err := buildRunner(cfg, log, collector)
	if err != nil {
		log.Error("Failed to create dispatcher", slog.Any("err", err))
		os.Exit(1)
	}

	if cfg.Metrics.Address != "" {
		srv, err := httpserver.New(cfg.Metrics.Address, setupRouter(collector), log)
		if err != nil {
			log.Error("Failed to create metrics server", slog.Any("err", err))
			os.Exit(1)
		}

		go func() {
			if err := srv.Run(ctx); err != nil {
				log.Error("Metrics server stopped", slog.Any("err", err))
			}
		}()
	}

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Dispatcher stopped unexpectedly", slog.Any("err", err))
		os.Exit(1)
	}
}

func buildRunner(cfg *config.Config, log *slog.Logger, collector *metrics.Collector) (*dispatch.Runner, error) {
	schedule, err := dispatch.ParseSchedule(cfg.Dispatcher.Schedule)
	if err != nil {
		return nil, err
	}

	source := dispatch.NewStubSource(cfg.Dispatcher.Recipients, cfg.Dispatcher.Payload, log)
	transport := dispatch.NewSimulatedTransport(cfg.Dispatcher.SendDelayDuration(), log)

	broadcaster := dispatch.NewBroadcaster(transport, log,
		dispatch.WithWorkers(cfg.Dispatcher.Workers),
		dispatch.WithDeliveryMetrics(collector))

	opts := []dispatch.RunnerOption{dispatch.WithCycleMetrics(collector)}
	if schedule != nil {
		opts = append(opts, dispatch.WithSchedule(schedule))
	}

	return dispatch.NewRunner(source, broadcaster, log, opts...), nil
}
