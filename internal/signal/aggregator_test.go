package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/CryptoAlert/internal/config"
	"github.com/Alias1177/CryptoAlert/internal/indicators"
	"github.com/Alias1177/CryptoAlert/internal/model"
)

func f(v float64) *float64 { return &v }

func defaultSymbol() config.SymbolConfig {
	return config.Defaults().ForSymbol(config.DefaultSymbolKey)
}

func TestEvaluateEmpty(t *testing.T) {
	alert := Evaluate("BTCUSDT", "1h", nil, defaultSymbol())

	assert.Equal(t, model.Weak, alert.Strength)
	assert.Zero(t, alert.ConfirmationCount)
	assert.False(t, alert.Qualifies())
}

func TestEvaluateConfirmations(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		prev      indicators.Row
		latest    indicators.Row
		lines     []string
		strength  model.Strength
		qualifies bool
	}{
		{
			name:     "single rule does not qualify",
			latest:   indicators.Row{RSI: f(25)},
			lines:    []string{"- RSI (25.00) oversold (30)."},
			strength: model.Medium,
		},
		{
			name:   "threshold itself does not fire",
			latest: indicators.Row{RSI: f(30), BBPercent: f(0.5)},
		},
		{
			name:      "two medium rules",
			latest:    indicators.Row{RSI: f(25), StochK: f(10), StochD: f(15)},
			lines:     []string{"- RSI (25.00) oversold (30).", "- Stochastic oversold."},
			strength:  model.Medium,
			qualifies: true,
		},
		{
			name:      "strong rule is not downgraded by a later medium one",
			prev:      indicators.Row{MACDDiff: f(-0.5)},
			latest:    indicators.Row{MACDDiff: f(0.5), BBPercent: f(1.2)},
			lines:     []string{"- MACD crossed up (potential buy).", "- Price touched the upper Bollinger Band."},
			strength:  model.Strong,
			qualifies: true,
		},
		{
			name:      "crossover and divergence on the same candle",
			prev:      indicators.Row{Candle: model.Candle{Low: 100, High: 110}, MACDDiff: f(-1)},
			latest:    indicators.Row{Candle: model.Candle{Low: 95, High: 105}, MACDDiff: f(1)},
			lines:     []string{"- MACD crossed up (potential buy).", "- MACD bullish divergence (potential rise)."},
			strength:  model.Strong,
			qualifies: true,
		},
		{
			name:      "ema and stochastic crosses",
			prev:      indicators.Row{StochK: f(40), StochD: f(50)},
			latest:    indicators.Row{EMACross: f(-1), StochK: f(55), StochD: f(50)},
			lines:     []string{"- EMA bearish crossover.", "- Stochastic crossed up."},
			strength:  model.Strong,
			qualifies: true,
		},
		{
			name:     "band touch is inclusive",
			latest:   indicators.Row{BBPercent: f(0)},
			lines:    []string{"- Price touched the lower Bollinger Band."},
			strength: model.Medium,
		},
		{
			name:   "missing indicators never fire",
			prev:   indicators.Row{Candle: model.Candle{Low: 100, High: 110}},
			latest: indicators.Row{Candle: model.Candle{Low: 90, High: 120}, StochK: f(5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.latest.Timestamp = ts
			alert := Evaluate("BTCUSDT", "1h", []indicators.Row{tt.prev, tt.latest}, defaultSymbol())

			assert.Equal(t, tt.lines, alert.Lines)
			assert.Equal(t, len(tt.lines), alert.ConfirmationCount)
			assert.Equal(t, tt.strength, alert.Strength)
			assert.Equal(t, tt.qualifies, alert.Qualifies())
			assert.True(t, alert.Timestamp.Equal(ts))
		})
	}
}

func TestEvaluateUsesSymbolThresholds(t *testing.T) {
	cfg := config.Defaults()
	rows := []indicators.Row{{RSI: f(27)}}

	btc := Evaluate("BTCUSDT", "4h", rows, cfg.ForSymbol("BTCUSDT"))
	eth := Evaluate("ETHUSDT", "4h", rows, cfg.ForSymbol("ETHUSDT"))

	require.Len(t, btc.Lines, 1)
	assert.Equal(t, "- RSI (27.00) oversold (30).", btc.Lines[0])
	assert.Empty(t, eth.Lines, "ETHUSDT oversold threshold is 25")
}
