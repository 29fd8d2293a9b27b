package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/angeloszaimis/statusfan/config"
	"github.com/angeloszaimis/statusfan/internal/httpserver"
	"github.com/angeloszaimis/statusfan/internal/stub"
	"github.com/angeloszaimis/statusfan/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.Logging.Level, true, cfg.Server.Environment, "stubserver")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv, err := newServer(cfg, log)
	if err != nil {
		log.Error("Failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	if err := srv.Run(ctx); err != nil {
		log.Error("Error running stub server", slog.Any("err", err))
		os.Exit(1)
	}
}

func newServer(cfg *config.Config, log *slog.Logger) (*httpserver.Server, error) {
	handler := stub.NewHandler(stub.Config{
		Route:      cfg.Stub.Route,
		Body:       cfg.Stub.Body,
		Status:     cfg.Stub.Status,
		RatePerSec: cfg.Stub.RatePerSec,
	}, log)

	return httpserver.New(cfg.Stub.Address, handler.Routes(), log)
}
