// Package analyze runs one alert cycle over every configured symbol and timeframe.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/CryptoAlert/internal/config"
	"github.com/Alias1177/CryptoAlert/internal/database"
	"github.com/Alias1177/CryptoAlert/internal/dedup"
	"github.com/Alias1177/CryptoAlert/internal/indicators"
	"github.com/Alias1177/CryptoAlert/internal/model"
	"github.com/Alias1177/CryptoAlert/internal/notifier"
	"github.com/Alias1177/CryptoAlert/internal/signal"
)

// ErrInsufficientData means the fetched series is too short, still has gaps
// after forward filling, or is malformed. The pair is skipped and its dedup
// state is left alone.
var ErrInsufficientData = errors.New("insufficient candle data")

// Fetcher supplies candle series, oldest first.
type Fetcher interface {
	FetchSeries(ctx context.Context, symbol, timeframe string, limit int) (model.Series, error)
}

// PairResult is the outcome of one symbol/timeframe in a cycle. Alert and
// Digest are set only when they were sent.
type PairResult struct {
	Key    dedup.PairKey
	Alert  *model.Alert
	Digest *model.Digest
	Err    error
}

// Runner owns the dedup tracker and is the only writer of its state.
type Runner struct {
	cfg      *config.Config
	fetcher  Fetcher
	tracker  *dedup.Tracker
	notifier notifier.Notifier
	recorder database.Recorder
	logger   zerolog.Logger
	now      func() time.Time
}

// NewRunner wires a runner. A nil recorder disables history.
func NewRunner(cfg *config.Config, fetcher Fetcher, tracker *dedup.Tracker, n notifier.Notifier, recorder database.Recorder) *Runner {
	if tracker == nil {
		tracker = dedup.NewTracker(nil)
	}
	if recorder == nil {
		recorder = database.NewNoopRecorder()
	}
	return &Runner{
		cfg:      cfg,
		fetcher:  fetcher,
		tracker:  tracker,
		notifier: n,
		recorder: recorder,
		logger:   log.With().Str("component", "runner").Logger(),
		now:      time.Now,
	}
}

// RunCycle processes every pair in configuration order, one at a time. A
// failure in one pair is logged and does not stop the others. Cancellation
// is checked between pairs.
func (r *Runner) RunCycle(ctx context.Context) []PairResult {
	cycleID := uuid.NewString()
	logger := r.logger.With().Str("cycle_id", cycleID).Logger()
	logger.Info().Int("symbols", len(r.cfg.Symbols)).Int("timeframes", len(r.cfg.Timeframes)).Msg("Starting alert cycle")

	started := r.now()
	var results []PairResult
	var alerts, digests, failures int

loop:
	for _, symbol := range r.cfg.Symbols {
		for _, timeframe := range r.cfg.Timeframes {
			if ctx.Err() != nil {
				logger.Warn().Err(ctx.Err()).Msg("Cycle cancelled")
				break loop
			}

			res := r.runPair(ctx, cycleID, dedup.PairKey{Symbol: symbol, Timeframe: timeframe})
			if res.Alert != nil {
				alerts++
			}
			if res.Digest != nil {
				digests++
			}
			if res.Err != nil && !errors.Is(res.Err, ErrInsufficientData) {
				failures++
			}
			results = append(results, res)
		}
	}

	logger.Info().
		Int("pairs", len(results)).
		Int("alerts", alerts).
		Int("digests", digests).
		Int("failures", failures).
		Dur("elapsed", r.now().Sub(started)).
		Msg("Alert cycle finished")

	return results
}

func (r *Runner) runPair(ctx context.Context, cycleID string, key dedup.PairKey) (res PairResult) {
	res.Key = key
	logger := r.logger.With().Str("symbol", key.Symbol).Str("timeframe", key.Timeframe).Logger()

	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("panic while processing %s: %v", key, p)
			logger.Error().Err(res.Err).Msg("Pair processing panicked")
		}
	}()

	series, err := r.loadSeries(ctx, key)
	if err != nil {
		res.Err = err
		if errors.Is(err, ErrInsufficientData) {
			logger.Warn().Err(err).Msg("Skipping pair")
		} else {
			logger.Error().Err(err).Msg("Failed to fetch candles")
		}
		return res
	}

	rows := indicators.Compute(series, r.cfg.ForSymbol(key.Symbol))
	alert := signal.Evaluate(key.Symbol, key.Timeframe, rows, r.cfg.ForSymbol(key.Symbol))

	// The fingerprint is committed only after delivery, so a failed or
	// panicking send leaves the alert eligible next cycle.
	if r.tracker.Decide(key, alert) {
		if err := r.notifier.Send(ctx, notifier.FormatAlert(alert, r.now())); err != nil {
			res.Err = fmt.Errorf("send alert: %w", err)
			logger.Error().Err(err).Msg("Failed to send alert")
		} else {
			r.tracker.Commit(key, alert)
			res.Alert = &alert
			logger.Info().Int("confirmations", alert.ConfirmationCount).Str("strength", alert.Strength.String()).Msg("Alert sent")
			if err := r.recorder.RecordAlert(ctx, cycleID, alert); err != nil {
				logger.Warn().Err(err).Msg("Failed to record alert")
			}
		}
	} else {
		logger.Debug().Int("confirmations", alert.ConfirmationCount).Msg("No new alert")
	}

	digest := signal.Compose(key.Symbol, key.Timeframe, series, signal.ComposeOptions{CandleLookback: r.cfg.CandleLookback})
	if digest.Empty() {
		return res
	}
	if err := r.notifier.Send(ctx, notifier.FormatDigest(digest)); err != nil {
		if res.Err == nil {
			res.Err = fmt.Errorf("send digest: %w", err)
		}
		logger.Error().Err(err).Msg("Failed to send digest")
		return res
	}
	res.Digest = &digest
	if err := r.recorder.RecordDigest(ctx, cycleID, digest); err != nil {
		logger.Warn().Err(err).Msg("Failed to record digest")
	}
	return res
}

// loadSeries fetches and validates candles for key.
func (r *Runner) loadSeries(ctx context.Context, key dedup.PairKey) (model.Series, error) {
	series, err := r.fetcher.FetchSeries(ctx, key.Symbol, key.Timeframe, r.cfg.CandleLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", key, err)
	}
	if series.Len() < model.MinSeriesLength {
		return nil, fmt.Errorf("%w: %s has %d candles, need %d", ErrInsufficientData, key, series.Len(), model.MinSeriesLength)
	}
	if series.HasMissing() {
		r.logger.Warn().Str("symbol", key.Symbol).Str("timeframe", key.Timeframe).Msg("Series has missing values, filling forward")
		series = series.FillForward()
		if series.HasMissing() {
			return nil, fmt.Errorf("%w: %s has leading missing values", ErrInsufficientData, key)
		}
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInsufficientData, key, err)
	}
	return series, nil
}
