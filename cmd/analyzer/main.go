package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/CryptoAlert/internal/analyze"
	"github.com/Alias1177/CryptoAlert/internal/app"
	"github.com/Alias1177/CryptoAlert/internal/config"
	"github.com/Alias1177/CryptoAlert/internal/database"
	"github.com/Alias1177/CryptoAlert/internal/notifier"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the optional YAML config")
	symbols := flag.String("symbols", "", "comma separated symbols, overrides config")
	timeframes := flag.String("timeframes", "", "comma separated timeframes, overrides config")
	history := flag.Int("history", 0, "print the last N recorded alerts per pair instead of analyzing")
	flag.Parse()

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandling(cancel)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogging(cfg.LogLevel)

	if *symbols != "" {
		cfg.Symbols = splitList(*symbols)
	}
	if *timeframes != "" {
		cfg.Timeframes = splitList(*timeframes)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	recorder, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open alert history")
	}
	defer recorder.Close()

	if *history > 0 {
		printHistory(ctx, recorder, cfg, *history)
		return
	}

	fetcher, closeFetcher := app.NewFetcher(ctx, cfg)
	defer closeFetcher()

	runner := analyze.NewRunner(cfg, fetcher, nil, notifier.NewWriterNotifier(os.Stdout), recorder)
	results := runner.RunCycle(ctx)
	printSummary(results)
}

// printHistory lists recorded alerts for every configured pair
func printHistory(ctx context.Context, recorder database.Recorder, cfg *config.Config, limit int) {
	for _, symbol := range cfg.Symbols {
		for _, timeframe := range cfg.Timeframes {
			records, err := recorder.RecentAlerts(ctx, symbol, timeframe, limit)
			if err != nil {
				log.Error().Err(err).Str("symbol", symbol).Str("timeframe", timeframe).Msg("Failed to read history")
				continue
			}
			fmt.Printf("== %s %s (%d)\n", symbol, timeframe, len(records))
			for _, rec := range records {
				fmt.Printf("%s  %-6s  %d confirmations\n%s\n\n",
					rec.CreatedAt.Format(time.RFC3339), rec.Strength, rec.Confirmations, rec.Lines)
			}
		}
	}
}

// printSummary outputs one line per pair
func printSummary(results []analyze.PairResult) {
	fmt.Println("=== CYCLE SUMMARY ===")
	for _, res := range results {
		status := "no alert"
		switch {
		case errors.Is(res.Err, analyze.ErrInsufficientData):
			status = "skipped: insufficient data"
		case res.Err != nil:
			status = "error: " + res.Err.Error()
		case res.Alert != nil:
			status = fmt.Sprintf("alert %s (%d confirmations)", res.Alert.Strength, res.Alert.ConfirmationCount)
		}
		digest := 0
		if res.Digest != nil {
			digest = len(res.Digest.Signals) + len(res.Digest.Momentum)
		}
		fmt.Printf("%-12s %-4s %-40s digest signals: %d\n", res.Key.Symbol, res.Key.Timeframe, status, digest)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// setupSignalHandling configures signal handling for graceful shutdown
func setupSignalHandling(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Info().Msg("Shutdown signal received, exiting...")
		cancel()
	}()
}

// setupLogging configures the logger
func setupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	// Set log level from config
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}
