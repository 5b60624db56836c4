package binance

import (
	"testing"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSeries(t *testing.T) {
	open := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	klines := []*binance.Kline{
		{OpenTime: open.UnixMilli(), Open: "100.5", High: "101.25", Low: "99.75", Close: "101", Volume: "12.5"},
		{OpenTime: open.Add(time.Hour).UnixMilli(), Open: "101", High: "102", Low: "100", Close: "100.5", Volume: "3"},
	}

	series, err := toSeries(klines)
	require.NoError(t, err)
	require.Len(t, series, 2)

	assert.Equal(t, open, series[0].Timestamp)
	assert.InDelta(t, 100.5, series[0].Open, 1e-9)
	assert.InDelta(t, 101.25, series[0].High, 1e-9)
	assert.InDelta(t, 99.75, series[0].Low, 1e-9)
	assert.InDelta(t, 101.0, series[0].Close, 1e-9)
	assert.InDelta(t, 12.5, series[0].Volume, 1e-9)
	assert.Equal(t, open.Add(time.Hour), series[1].Timestamp)
}

func TestToSeriesRejectsBadPrice(t *testing.T) {
	klines := []*binance.Kline{{Open: "1", High: "x", Low: "1", Close: "1", Volume: "1"}}

	_, err := toSeries(klines)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "high price at index 0")
}
