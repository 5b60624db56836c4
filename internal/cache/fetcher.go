package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/CryptoAlert/internal/model"
)

// Source fetches candle series from upstream.
type Source interface {
	FetchSeries(ctx context.Context, symbol, timeframe string, limit int) (model.Series, error)
}

// Fetcher serves series from the store when present and falls back to the source.
// Store failures are logged and never fail a fetch.
type Fetcher struct {
	source Source
	store  Store
	ttl    time.Duration
	logger zerolog.Logger
}

// NewFetcher wraps source with a read-through cache.
func NewFetcher(source Source, store Store, ttl time.Duration) *Fetcher {
	return &Fetcher{
		source: source,
		store:  store,
		ttl:    ttl,
		logger: log.With().Str("component", "candle_cache").Logger(),
	}
}

// FetchSeries implements the runner's fetcher.
func (f *Fetcher) FetchSeries(ctx context.Context, symbol, timeframe string, limit int) (model.Series, error) {
	key := seriesKey(symbol, timeframe, limit)

	var cached model.Series
	err := f.store.Get(ctx, key, &cached)
	switch {
	case err == nil && len(cached) > 0:
		f.logger.Debug().Str("key", key).Msg("Cache hit")
		return cached, nil
	case err != nil && !errors.Is(err, ErrMiss):
		f.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed")
	}

	series, err := f.source.FetchSeries(ctx, symbol, timeframe, limit)
	if err != nil {
		return nil, err
	}

	if err := f.store.Set(ctx, key, series, f.ttl); err != nil {
		f.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
	return series, nil
}

func seriesKey(symbol, timeframe string, limit int) string {
	return fmt.Sprintf("candles:%s:%s:%d", symbol, timeframe, limit)
}
