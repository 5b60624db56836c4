// Package twelvedata fetches candle series from the Twelve Data time_series API.
package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/Alias1177/CryptoAlert/internal/model"
	httpClient "github.com/Alias1177/CryptoAlert/internal/platform/http"
)

const defaultBaseURL = "https://api.twelvedata.com"

// Client is the TwelveData API client
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new TwelveData client
type ClientOptions struct {
	APIKey          string
	BaseURL         string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetryTimeout time.Duration
}

// NewClient creates a new TwelveData API client
func NewClient(options ClientOptions) *Client {
	if options.BaseURL == "" {
		options.BaseURL = defaultBaseURL
	}

	return &Client{
		apiKey:  options.APIKey,
		baseURL: strings.TrimRight(options.BaseURL, "/"),
		httpClient: httpClient.NewClient(httpClient.ClientOptions{
			Timeout:         options.RequestTimeout,
			RequestsPerSec:  options.RequestsPerSec,
			MaxRetryTimeout: options.MaxRetryTimeout,
		}),
		logger: log.With().Str("component", "twelvedata_client").Logger(),
	}
}

type timeSeriesResponse struct {
	Status  string  `json:"status"`
	Code    int     `json:"code"`
	Message string  `json:"message"`
	Values  []value `json:"values"`
}

type value struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume"`
}

// FetchSeries returns up to limit candles for symbol on timeframe, oldest first.
// Exchange-style symbols such as BTCUSDT are sent as BTC/USDT.
func (c *Client) FetchSeries(ctx context.Context, symbol, timeframe string, limit int) (model.Series, error) {
	interval, err := Interval(timeframe)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("symbol", PairSymbol(symbol))
	q.Set("interval", interval)
	q.Set("outputsize", strconv.Itoa(limit))
	q.Set("timezone", "UTC")
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/time_series?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	c.logger.Debug().Str("symbol", symbol).Str("interval", interval).Msg("Fetching candles")

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var data timeSeriesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if data.Status == "error" {
		return nil, fmt.Errorf("twelve data error %d: %s", data.Code, data.Message)
	}
	if len(data.Values) == 0 {
		return nil, fmt.Errorf("empty data returned for %s %s", symbol, timeframe)
	}

	series, err := toSeries(data.Values)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().Str("symbol", symbol).Str("timeframe", timeframe).Int("count", len(series)).Msg("Fetched candles")
	return series, nil
}

// toSeries converts API rows (newest first) into an oldest-first series.
func toSeries(values []value) (model.Series, error) {
	series := make(model.Series, 0, len(values))
	for i, v := range values {
		ts, err := parseDatetime(v.Datetime)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		c := model.Candle{Timestamp: ts}
		fields := []struct {
			raw string
			dst *float64
		}{
			{v.Open, &c.Open}, {v.High, &c.High}, {v.Low, &c.Low}, {v.Close, &c.Close}, {v.Volume, &c.Volume},
		}
		for _, f := range fields {
			// crypto pairs often come without volume
			if f.raw == "" {
				continue
			}
			d, err := decimal.NewFromString(f.raw)
			if err != nil {
				return nil, fmt.Errorf("row %d: parsing %q: %w", i, f.raw, err)
			}
			*f.dst = d.InexactFloat64()
		}
		series = append(series, c)
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})
	return series, nil
}

func parseDatetime(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised datetime %q", s)
}

var intervals = map[string]string{
	"1m":  "1min",
	"5m":  "5min",
	"15m": "15min",
	"30m": "30min",
	"1h":  "1h",
	"2h":  "2h",
	"4h":  "4h",
	"8h":  "8h",
	"1d":  "1day",
	"1w":  "1week",
	"1M":  "1month",
}

// Interval maps an exchange-style timeframe to the Twelve Data interval name.
func Interval(timeframe string) (string, error) {
	if iv, ok := intervals[timeframe]; ok {
		return iv, nil
	}
	return "", fmt.Errorf("unsupported timeframe %q", timeframe)
}

var quoteAssets = []string{"USDT", "USDC", "BUSD", "USD", "EUR", "BTC", "ETH"}

// PairSymbol turns BTCUSDT into BTC/USDT. Symbols that already carry a slash
// or have no known quote asset pass through unchanged.
func PairSymbol(symbol string) string {
	if strings.Contains(symbol, "/") {
		return symbol
	}
	for _, quote := range quoteAssets {
		if base := strings.TrimSuffix(symbol, quote); base != symbol && base != "" {
			return base + "/" + quote
		}
	}
	return symbol
}
