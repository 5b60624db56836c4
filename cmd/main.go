package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/CryptoAlert/internal/analyze"
	"github.com/Alias1177/CryptoAlert/internal/app"
	"github.com/Alias1177/CryptoAlert/internal/config"
	"github.com/Alias1177/CryptoAlert/internal/database"
	"github.com/Alias1177/CryptoAlert/internal/dedup"
	"github.com/Alias1177/CryptoAlert/internal/scheduler"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the optional YAML config")
	flag.Parse()

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandling(cancel)

	// 1. Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogging(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	printConfig(cfg)

	// 2. Collaborators
	fetcher, closeFetcher := app.NewFetcher(ctx, cfg)
	defer closeFetcher()

	n, err := app.NewNotifier(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize notifier")
	}

	recorder, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open alert history")
	}
	defer recorder.Close()

	// 3. Runner owns the dedup state for the lifetime of the process
	runner := analyze.NewRunner(cfg, fetcher, dedup.NewTracker(dedup.NewState()), n, recorder)

	sched := scheduler.NewScheduler(ctx, runner)
	if err := sched.Register(cfg.CheckIntervalMinutes); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule alert cycle")
	}
	sched.Start()

	log.Info().Msg("Crypto alert bot started")
	sched.RunNow()

	<-ctx.Done()
	sched.Stop()
	log.Info().Msg("Crypto alert bot stopped")
}

// setupSignalHandling configures signal handling for graceful shutdown
func setupSignalHandling(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Info().Msg("Shutdown signal received, stopping...")
		cancel()
	}()
}

// setupLogging configures the logger
func setupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}

// printConfig outputs the current configuration
func printConfig(cfg *config.Config) {
	log.Info().
		Strs("Symbols", cfg.Symbols).
		Strs("Timeframes", cfg.Timeframes).
		Int("CheckIntervalMinutes", cfg.CheckIntervalMinutes).
		Int("CandleLimit", cfg.CandleLimit).
		Int("CandleLookback", cfg.CandleLookback).
		Str("DataSource", cfg.DataSource).
		Bool("Telegram", cfg.TelegramBotToken != "").
		Bool("RedisCache", cfg.RedisAddr != "").
		Str("DatabaseDriver", cfg.DatabaseDriver).
		Msg("Configuration loaded")
}
