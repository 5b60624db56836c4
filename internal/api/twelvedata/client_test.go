package twelvedata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `{
  "meta": {"symbol": "BTC/USDT", "interval": "1h"},
  "values": [
    {"datetime": "2024-03-01 13:00:00", "open": "101", "high": "102", "low": "100", "close": "100.5"},
    {"datetime": "2024-03-01 12:00:00", "open": "100.5", "high": "101.25", "low": "99.75", "close": "101", "volume": "12.5"}
  ],
  "status": "ok"
}`

func TestFetchSeries(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/time_series", r.URL.Path)
		q := r.URL.Query()
		gotQuery = map[string]string{
			"symbol":     q.Get("symbol"),
			"interval":   q.Get("interval"),
			"outputsize": q.Get("outputsize"),
			"apikey":     q.Get("apikey"),
		}
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	client := NewClient(ClientOptions{APIKey: "key", BaseURL: srv.URL, RequestsPerSec: 100})
	series, err := client.FetchSeries(context.Background(), "BTCUSDT", "1h", 2)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"symbol": "BTC/USDT", "interval": "1h", "outputsize": "2", "apikey": "key"}, gotQuery)
	require.Len(t, series, 2)

	first := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, series[0].Timestamp.Equal(first), "series is oldest first")
	assert.InDelta(t, 101.25, series[0].High, 1e-9)
	assert.InDelta(t, 12.5, series[0].Volume, 1e-9)
	assert.Zero(t, series[1].Volume)
	assert.InDelta(t, 100.5, series[1].Close, 1e-9)
}

func TestFetchSeriesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code": 400, "message": "symbol not found", "status": "error"}`))
	}))
	defer srv.Close()

	client := NewClient(ClientOptions{BaseURL: srv.URL, RequestsPerSec: 100})
	_, err := client.FetchSeries(context.Background(), "NOPEUSDT", "1d", 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symbol not found")
}

func TestFetchSeriesNonOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(ClientOptions{BaseURL: srv.URL, RequestsPerSec: 100})
	_, err := client.FetchSeries(context.Background(), "BTCUSDT", "1h", 100)
	assert.Error(t, err)
}

func TestUnsupportedTimeframe(t *testing.T) {
	client := NewClient(ClientOptions{BaseURL: "http://127.0.0.1:0"})
	_, err := client.FetchSeries(context.Background(), "BTCUSDT", "3d", 100)
	assert.Error(t, err)
}

func TestPairSymbol(t *testing.T) {
	tests := map[string]string{
		"BTCUSDT":  "BTC/USDT",
		"ETHBTC":   "ETH/BTC",
		"SOLUSD":   "SOL/USD",
		"BTC/USD":  "BTC/USD",
		"USDT":     "USDT",
		"XAUOUNCE": "XAUOUNCE",
	}
	for in, want := range tests {
		assert.Equal(t, want, PairSymbol(in), in)
	}
}

func TestToSeriesRejectsBadDatetime(t *testing.T) {
	_, err := toSeries([]value{{Datetime: "yesterday", Open: "1", High: "1", Low: "1", Close: "1"}})
	assert.Error(t, err)
}
