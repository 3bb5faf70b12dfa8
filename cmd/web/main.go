package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/presentation"
	"sales-dashboard/internal/server"
	"sales-dashboard/internal/services"
)

const csvLoadTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", handlers.Version,
		"csv_file", cfg.Dataset.CSVFile,
		"reload_interval", cfg.Dataset.ReloadInterval,
		"locale", cfg.Report.Locale,
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	source, err := loadSource(cfg, logger)
	if err != nil {
		return err
	}

	formatter, err := presentation.NewFormatter(cfg.Report.Locale, cfg.Report.Currency)
	if err != nil {
		return err
	}

	srv := server.NewServer(handlers.NewReporter(source, formatter, logger), logger)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      srv.Handler(cfg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("stopping dataset reload")
		source.Stop()
		return nil
	})

	return gracefulServer.ListenAndServe()
}

// loadSource reads the CSV once and starts the reload job when configured.
// A dataset that fails to load is fatal at startup.
func loadSource(cfg *config.Config, logger *slog.Logger) (*services.Source, error) {
	source := services.NewSource(cfg.Dataset.CSVFile, services.LoadOptions{DateLayouts: cfg.Dataset.DateLayouts}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), csvLoadTimeout)
	defer cancel()

	start := time.Now()
	if err := source.Load(ctx); err != nil {
		return nil, err
	}
	logger.Info("CSV data loaded successfully",
		"records", source.Dataset().Len(),
		"duration", time.Since(start),
	)

	if err := source.StartReload(cfg.Dataset.ReloadInterval); err != nil {
		source.Stop()
		return nil, err
	}

	return source, nil
}
