package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ekorchmar/HistoricalCoinData/internal/api"
	"github.com/ekorchmar/HistoricalCoinData/internal/auth"
	"github.com/ekorchmar/HistoricalCoinData/internal/cache"
	"github.com/ekorchmar/HistoricalCoinData/internal/config"
	"github.com/ekorchmar/HistoricalCoinData/internal/database"
	"github.com/ekorchmar/HistoricalCoinData/internal/pacer"
	"github.com/ekorchmar/HistoricalCoinData/internal/platform/sqlite"
	"github.com/ekorchmar/HistoricalCoinData/internal/poller"
	"github.com/ekorchmar/HistoricalCoinData/internal/version"
	"github.com/ekorchmar/HistoricalCoinData/internal/writer"
)

func main() {
	configPath := flag.String("config", "", "optional config file; without it the built-in schedule (2015-01-01 to 2022-01-01, weekly, 60 req/min) runs, which is the supported run")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting collector",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	pollCfg := poller.DefaultConfig()
	if pollCfg.Start, err = cfg.Run.StartDate(); err != nil {
		logger.Error("invalid start date", "error", err)
		os.Exit(1)
	}
	if pollCfg.End, err = cfg.Run.EndDate(); err != nil {
		logger.Error("invalid end date", "error", err)
		os.Exit(1)
	}
	pollCfg.StepDays = cfg.Run.StepDays
	pollCfg.ProgressEvery = cfg.Run.ProgressEvery

	logger.Info("collecting historical listings",
		"start", cfg.Run.Start,
		"end", cfg.Run.End,
		"step_days", cfg.Run.StepDays,
		"output_dir", cfg.Output.Dir,
	)

	// Load credentials
	creds, err := auth.LoadKeyFile(cfg.API.KeyFile)
	if err != nil {
		logger.Error("failed to load API key", "path", cfg.API.KeyFile, "error", err)
		os.Exit(1)
	}
	logger.Info("API key loaded", "key", creds.Masked())

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	clientOpts := []api.ClientOption{
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
	}

	// Open response cache
	if !cfg.Cache.Disabled {
		db, err := sqlite.Open(cfg.Cache.Path)
		if err != nil {
			logger.Error("failed to open response cache", "path", cfg.Cache.Path, "error", err)
			os.Exit(1)
		}
		defer db.Close()

		transport := cache.NewTransport(cache.NewStore(db.DB), cache.WithLogger(logger))
		clientOpts = append(clientOpts, api.WithTransport(transport))
		logger.Info("response cache enabled", "path", cfg.Cache.Path)
	}

	apiClient := api.NewClient(cfg.API.BaseURL, creds, clientOpts...)
	requestPacer := pacer.ForRate(cfg.API.RequestsPerMinute)
	fetcher := poller.NewFetcher(
		apiClient,
		requestPacer,
		cfg.API.PageLimit,
		cfg.API.StartRank,
	)
	logger.Info("request pacing",
		"requests_per_minute", cfg.API.RequestsPerMinute,
		"interval", requestPacer.Interval(),
	)

	// Create writers
	sinks := []writer.SnapshotWriter{writer.NewCSVWriter(cfg.Output.Dir, logger)}

	if cfg.Database.Enabled {
		logger.Info("connecting to database",
			"host", cfg.Database.Host,
			"port", cfg.Database.Port,
			"database", cfg.Database.Name,
		)

		pool, err := database.Connect(ctx, cfg.Database)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := database.EnsureSchema(ctx, pool); err != nil {
			logger.Error("failed to create schema", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, writer.NewPostgresWriter(pool, logger))
		logger.Info("database connected")
	}

	p := poller.New(pollCfg, fetcher, writer.Multi(sinks...), logger)

	summary, err := p.Run(ctx)
	if err != nil {
		logger.Error("collection failed",
			"run_id", summary.RunID,
			"steps", summary.Steps,
			"error", err,
		)
		os.Exit(1)
	}

	logger.Info("collection complete",
		"run_id", summary.RunID,
		"steps", summary.Steps,
		"last", summary.Last.Format(config.DateLayout),
		"duration", summary.Duration.Round(time.Second),
	)
}
