package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/angeloszaimis/hello-server/config"
	"github.com/angeloszaimis/hello-server/internal/httpserver"
	"github.com/angeloszaimis/hello-server/internal/metrics"
	"github.com/angeloszaimis/hello-server/pkg/logger"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	code := run(ctx, os.Stdout)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, out io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		logger.New(os.Getenv("LOG_LEVEL"), logger.WithWriter(out)).
			Error("failed to load config", slog.Any("error", err))
		return 1
	}

	level := new(slog.LevelVar)
	log := logger.New(cfg.Logging.Level,
		logger.WithWriter(out),
		logger.WithLevelVar(level),
		logger.WithEnvironment(cfg.Server.Environment))

	if cfg.Source != "" {
		log.Info("loaded config file", slog.String("file", cfg.Source))
	}

	cfg.Watch(func(updated *config.Config, err error) {
		if err != nil {
			log.Warn("ignoring invalid config change", slog.Any("error", err))
			return
		}
		level.Set(logger.ParseFilter(updated.Logging.Level))
		log.Info("log filter updated", slog.String("filter", updated.Logging.Level))
	})

	return serve(ctx, cfg, log)
}

// serve runs the server until ctx is cancelled or serving fails and returns
// the process exit code.
func serve(ctx context.Context, cfg *config.Config, log *slog.Logger) int {
	serverLog := logger.Component(log, "server")
	serverLog.Info("hello server starting")

	collector := metrics.NewCollector(cfg.Metrics.BufferSize, logger.Component(log, "metrics"))
	collector.Start(ctx)

	table, err := setupRouter(log, collector)
	if err != nil {
		serverLog.Error("failed to build route table", slog.Any("error", err))
		return 1
	}

	srv, err := httpserver.New(cfg.Server.Address, table.Handler())
	if err != nil {
		serverLog.Error("failed to create server", slog.String("address", cfg.Server.Address), slog.Any("error", err))
		return 1
	}

	if err := srv.Listen(); err != nil {
		serverLog.Error("failed to bind to address", slog.String("address", cfg.Server.Address), slog.Any("error", err))
		return 1
	}

	servers := []*httpserver.Server{srv}
	defer func() {
		for _, s := range servers {
			if err := s.Shutdown(context.Background()); err != nil {
				serverLog.Error("error during shutdown", slog.String("address", s.Addr()), slog.Any("error", err))
			}
		}
	}()

	if cfg.Metrics.Address != "" {
		admin, err := httpserver.New(cfg.Metrics.Address, setupAdminRouter(collector))
		if err != nil {
			serverLog.Error("failed to create metrics server", slog.String("address", cfg.Metrics.Address), slog.Any("error", err))
			return 1
		}
		if err := admin.Listen(); err != nil {
			serverLog.Error("failed to bind to address", slog.String("address", cfg.Metrics.Address), slog.Any("error", err))
			return 1
		}
		servers = append(servers, admin)
		serverLog.Info("metrics listening", slog.String("address", admin.Addr()))
	}

	serverLog.Info("server listening", slog.String("address", srv.Addr()))

	srvErrCh := make(chan error, len(servers))
	for _, s := range servers {
		go func(s *httpserver.Server) {
			srvErrCh <- s.Serve()
		}(s)
	}

	select {
	case <-ctx.Done():
		serverLog.Info("shutting down gracefully")
		return 0
	case err := <-srvErrCh:
		if err != nil {
			serverLog.Error("server error", slog.Any("error", err))
			return 1
		}
		serverLog.Info("server stopped")
		return 0
	}
}
