package database

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/CryptoAlert/internal/model"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorderAlerts(t *testing.T) {
	ctx := context.Background()
	r := openTestRecorder(t)

	base := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	tick := base
	r.now = func() time.Time {
		tick = tick.Add(time.Minute)
		return tick
	}

	first := model.Alert{
		Symbol: "BTCUSDT", Timeframe: "1h",
		Lines:             []string{"- RSI (25.00) oversold (30).", "- Stochastic oversold."},
		ConfirmationCount: 2, Strength: model.Medium, Timestamp: base,
	}
	second := first
	second.Lines = []string{"- MACD crossed up (potential buy).", "- EMA bullish crossover."}
	second.Strength = model.Strong

	require.NoError(t, r.RecordAlert(ctx, "cycle-1", first))
	require.NoError(t, r.RecordAlert(ctx, "cycle-2", second))
	require.NoError(t, r.RecordAlert(ctx, "cycle-2", model.Alert{Symbol: "ETHUSDT", Timeframe: "1h", Lines: []string{"x", "y"}, ConfirmationCount: 2}))

	got, err := r.RecentAlerts(ctx, "BTCUSDT", "1h", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "cycle-2", got[0].CycleID)
	assert.Equal(t, "STRONG", got[0].Strength)
	assert.Equal(t, "- MACD crossed up (potential buy).\n- EMA bullish crossover.", got[0].Lines)
	assert.Equal(t, "cycle-1", got[1].CycleID)
	assert.True(t, got[1].CandleTime.Equal(base))
	assert.NotEqual(t, got[0].ID, got[1].ID)

	limited, err := r.RecentAlerts(ctx, "BTCUSDT", "1h", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteRecorderDigest(t *testing.T) {
	ctx := context.Background()
	r := openTestRecorder(t)

	d := model.Digest{
		Symbol: "SOLUSDT", Timeframe: "4h",
		Signals:  []model.AdvancedSignal{{Type: "Fibonacci", Message: "near 0.5", Strength: 0.6}},
		Momentum: []model.AdvancedSignal{{Type: "RSI Oversold", Strength: 0.7, Polarity: model.Bullish}},
	}
	require.NoError(t, r.RecordDigest(ctx, "cycle-9", d))

	var count int
	var payload string
	require.NoError(t, r.db.QueryRow(`SELECT signal_count, payload FROM digest_history WHERE cycle_id = ?`, "cycle-9").Scan(&count, &payload))
	assert.Equal(t, 2, count)

	var decoded model.Digest
	require.NoError(t, json.Unmarshal([]byte(payload), &decoded))
	assert.Equal(t, d, decoded)
}

func TestOpenDrivers(t *testing.T) {
	r, err := Open("", "")
	require.NoError(t, err)
	assert.IsType(t, &NoopRecorder{}, r)

	_, err = Open("mysql", "")
	assert.Error(t, err)

	r, err = Open("sqlite", filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLiteRecorder{}, r)
	assert.NoError(t, r.Close())
}
