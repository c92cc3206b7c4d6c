package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"replaystats/internal/ballchasing"
	"replaystats/internal/pipeline"
	pkgconfig "replaystats/internal/pkg/config"
	"replaystats/internal/pkg/logging"
	"replaystats/internal/pkg/notify"
	"replaystats/internal/pkg/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Replay sync failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	slog.Info("Starting replay stats sync...")

	// Secrets may live in a local .env during development.
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment")
	}

	configPath := parseFlags()
	if configPath != "" {
		slog.Info("Loading config", "path", configPath)
	}

	appConfig, err := pkgconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logging.Setup(&appConfig.Logging, "download-stats")

	tracker, err := pkgconfig.LoadTracker()
	if err != nil {
		return err
	}

	client := ballchasing.NewClient(ballchasing.ClientConfig{
		BaseURL:         appConfig.Client.BaseURL,
		Token:           tracker.Token,
		Timeout:         appConfig.Client.Timeout,
		MaxAttempts:     appConfig.Client.MaxAttempts,
		RetryBackoff:    appConfig.Client.RetryBackoff,
		MinRequestDelay: appConfig.Client.MinRequestDelay,
	})

	archive, err := storage.NewReplayArchive(appConfig.Output.ArchiveDir)
	if err != nil {
		return err
	}

	var store storage.SummaryStorage
	if appConfig.Postgres.DSN != "" {
		pg, err := storage.NewPostgresSummaryStorage(&appConfig.Postgres)
		if err != nil {
			return fmt.Errorf("failed to init postgres storage: %w", err)
		}
		defer pg.Close()
		store = pg
	}

	notifier := notify.NewTelegramNotifier(appConfig.Telegram.BotToken, appConfig.Telegram.ChatID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandler(ctx, cancel)

	p := pipeline.New(pipeline.Config{
		Client:      client,
		Archive:     archive,
		Store:       store,
		Notifier:    notifier,
		GroupID:     tracker.GroupID,
		PlayerName:  tracker.PlayerName,
		SummaryPath: appConfig.Output.SummaryPath,
	})

	_, err = p.Run(ctx)
	return err
}

func parseFlags() string {
	defaultConfig := os.Getenv("CONFIG_PATH")

	var configPath string
	flag.StringVar(&configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var). Empty = built-in defaults")
	flag.Parse()
	return configPath
}

func setupSignalHandler(ctx context.Context, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal, stopping sync...", "signal", sig.String())
			cancel()
		case <-ctx.Done():
			// Run finished on its own
			signal.Stop(sigChan)
			close(sigChan)
		}
	}()
}
