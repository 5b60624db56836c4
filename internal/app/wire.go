// Package app assembles the collaborators shared by the binaries.
package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Alias1177/CryptoAlert/internal/analyze"
	"github.com/Alias1177/CryptoAlert/internal/api/binance"
	"github.com/Alias1177/CryptoAlert/internal/api/twelvedata"
	"github.com/Alias1177/CryptoAlert/internal/cache"
	"github.com/Alias1177/CryptoAlert/internal/config"
	"github.com/Alias1177/CryptoAlert/internal/notifier"
	httpClient "github.com/Alias1177/CryptoAlert/internal/platform/http"
)

// NewSource returns the candle client selected by cfg.DataSource.
func NewSource(cfg *config.Config) cache.Source {
	timeout := time.Duration(cfg.RequestTimeout) * time.Second
	if cfg.DataSource == "twelvedata" {
		return twelvedata.NewClient(twelvedata.ClientOptions{
			APIKey:         cfg.TwelveDataAPIKey,
			RequestTimeout: timeout,
			RequestsPerSec: cfg.RequestsPerSec,
		})
	}
	return binance.NewClient(binance.ClientOptions{
		APIKey:         cfg.BinanceAPIKey,
		SecretKey:      cfg.BinanceSecretKey,
		RequestTimeout: timeout,
		RequestsPerSec: cfg.RequestsPerSec,
	})
}

// NewFetcher returns the configured candle source, behind a Redis cache when
// one is configured and reachable. The returned close func is never nil.
func NewFetcher(ctx context.Context, cfg *config.Config) (analyze.Fetcher, func() error) {
	client := NewSource(cfg)
	noop := func() error { return nil }

	if cfg.RedisAddr == "" {
		return client, noop
	}

	store := cache.NewCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable, fetching without cache")
		store.Close()
		return client, noop
	}

	log.Info().Str("addr", cfg.RedisAddr).Int("ttl_seconds", cfg.CacheTTL).Msg("Candle cache enabled")
	return cache.NewFetcher(client, store, time.Duration(cfg.CacheTTL)*time.Second), store.Close
}

// NewNotifier returns a Telegram notifier when a bot token and chat are
// configured, and a log notifier otherwise.
func NewNotifier(cfg *config.Config) (notifier.Notifier, error) {
	if cfg.TelegramBotToken == "" || cfg.TelegramChatID == 0 {
		log.Warn().Msg("Telegram not configured, alerts will be logged only")
		return notifier.NewLogNotifier(), nil
	}

	hc := httpClient.NewClient(httpClient.ClientOptions{
		Timeout:        time.Duration(cfg.RequestTimeout) * time.Second,
		RequestsPerSec: cfg.RequestsPerSec,
	})
	return notifier.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID, hc)
}
