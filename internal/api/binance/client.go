// Package binance fetches candle series from the Binance spot API.
package binance

import (
	"context"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Alias1177/CryptoAlert/internal/model"
	httpClient "github.com/Alias1177/CryptoAlert/internal/platform/http"
)

// codeTooManyRequests is the Binance error code for request weight exhaustion.
const codeTooManyRequests = -1003

// Client is the Binance kline client
type Client struct {
	api    *binance.Client
	http   *httpClient.Client
	logger zerolog.Logger
}

// ClientOptions holds options for creating a new Binance client
type ClientOptions struct {
	APIKey          string
	SecretKey       string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetryTimeout time.Duration
}

// NewClient creates a new Binance client sharing the rate-limited transport.
func NewClient(options ClientOptions) *Client {
	hc := httpClient.NewClient(httpClient.ClientOptions{
		Timeout:         options.RequestTimeout,
		RequestsPerSec:  options.RequestsPerSec,
		MaxRetryTimeout: options.MaxRetryTimeout,
	})

	api := binance.NewClient(options.APIKey, options.SecretKey)
	api.HTTPClient = hc.HTTPClient

	return &Client{
		api:    api,
		http:   hc,
		logger: log.With().Str("component", "binance_client").Logger(),
	}
}

// FetchSeries returns up to limit candles for symbol on timeframe, oldest first.
// The last candle is the one still forming.
func (c *Client) FetchSeries(ctx context.Context, symbol, timeframe string, limit int) (model.Series, error) {
	var klines []*binance.Kline
	operation := func() error {
		var err error
		klines, err = c.api.NewKlinesService().
			Symbol(symbol).
			Interval(timeframe).
			Limit(limit).
			Do(ctx)
		if err == nil {
			return nil
		}
		var apiErr *common.APIError
		if errors.As(err, &apiErr) && apiErr.Code != codeTooManyRequests {
			return backoff.Permanent(err)
		}
		c.logger.Debug().Err(err).Str("symbol", symbol).Str("timeframe", timeframe).Msg("Retrying kline request")
		return err
	}

	if err := c.http.Retry(ctx, operation); err != nil {
		return nil, errors.Wrapf(err, "failed to fetch klines from Binance for %s %s", symbol, timeframe)
	}

	series, err := toSeries(klines)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().Str("symbol", symbol).Str("timeframe", timeframe).Int("count", len(series)).Msg("Fetched candles")
	return series, nil
}

func toSeries(klines []*binance.Kline) (model.Series, error) {
	series := make(model.Series, len(klines))
	for i, k := range klines {
		open, err := decimal.NewFromString(k.Open)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse open price at index %d", i)
		}
		high, err := decimal.NewFromString(k.High)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse high price at index %d", i)
		}
		low, err := decimal.NewFromString(k.Low)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse low price at index %d", i)
		}
		closePrice, err := decimal.NewFromString(k.Close)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse close price at index %d", i)
		}
		volume, err := decimal.NewFromString(k.Volume)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse volume at index %d", i)
		}

		series[i] = model.Candle{
			Timestamp: time.Unix(0, k.OpenTime*int64(time.Millisecond)).UTC(),
			Open:      open.InexactFloat64(),
			High:      high.InexactFloat64(),
			Low:       low.InexactFloat64(),
			Close:     closePrice.InexactFloat64(),
			Volume:    volume.InexactFloat64(),
		}
	}
	return series, nil
}
