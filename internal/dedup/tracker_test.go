package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alias1177/CryptoAlert/internal/model"
)

func alertWith(lines ...string) model.Alert {
	return model.Alert{Symbol: "BTCUSDT", Timeframe: "1h", Lines: lines, ConfirmationCount: len(lines), Strength: model.Medium}
}

func TestFingerprint(t *testing.T) {
	a := alertWith("- RSI (25.00) oversold (30).", "- Stochastic oversold.")
	b := alertWith("- RSI (25.00) oversold (30).", "- Stochastic oversold.")
	reordered := alertWith("- Stochastic oversold.", "- RSI (25.00) oversold (30).")

	assert.Equal(t, Of(a), Of(b))
	assert.NotEqual(t, Of(a), Of(reordered))

	b.Strength = model.Strong
	assert.Equal(t, Of(a), Of(b), "only the lines take part in the fingerprint")
}

func TestShouldEmit(t *testing.T) {
	tracker := NewTracker(nil)
	key := PairKey{Symbol: "BTCUSDT", Timeframe: "1h"}
	first := alertWith("- EMA bullish crossover.", "- Stochastic crossed up.")
	second := alertWith("- EMA bullish crossover.", "- Stochastic oversold.")

	assert.True(t, tracker.ShouldEmit(key, first))
	assert.False(t, tracker.ShouldEmit(key, first))
	assert.False(t, tracker.ShouldEmit(key, first))
	assert.True(t, tracker.ShouldEmit(key, second))
	assert.True(t, tracker.ShouldEmit(key, first), "A B A emits three times")
}

func TestResetAllowsRepeat(t *testing.T) {
	state := NewState()
	tracker := NewTracker(state)
	key := PairKey{Symbol: "ETHUSDT", Timeframe: "4h"}
	alert := alertWith("- MACD crossed up (potential buy).", "- Price touched the lower Bollinger Band.")

	assert.True(t, tracker.ShouldEmit(key, alert))
	assert.Equal(t, 1, state.Len())

	tracker.Reset(key)
	_, ok := state.Get(key)
	assert.False(t, ok)
	assert.Zero(t, state.Len())

	tracker.Reset(key)
	assert.True(t, tracker.ShouldEmit(key, alert))
}

func TestPairsAreIndependent(t *testing.T) {
	tracker := NewTracker(NewState())
	alert := alertWith("- RSI (80.00) overbought (70).", "- Stochastic overbought.")

	assert.True(t, tracker.ShouldEmit(PairKey{"BTCUSDT", "1h"}, alert))
	assert.True(t, tracker.ShouldEmit(PairKey{"BTCUSDT", "4h"}, alert))
	assert.True(t, tracker.ShouldEmit(PairKey{"ETHUSDT", "1h"}, alert))
	assert.False(t, tracker.ShouldEmit(PairKey{"BTCUSDT", "1h"}, alert))
}

func TestObserve(t *testing.T) {
	tracker := NewTracker(nil)
	key := PairKey{Symbol: "SOLUSDT", Timeframe: "1d"}
	qualifying := alertWith("- EMA bearish crossover.", "- Stochastic crossed down.")
	weak := alertWith("- Stochastic crossed down.")

	assert.True(t, tracker.Observe(key, qualifying))
	assert.False(t, tracker.Observe(key, qualifying))

	assert.False(t, tracker.Observe(key, weak))
	assert.True(t, tracker.Observe(key, qualifying), "a non-qualifying cycle clears the pair")

	assert.False(t, tracker.Observe(key, model.Alert{}))
	assert.True(t, tracker.Observe(key, qualifying))
}

func TestPairKeyString(t *testing.T) {
	assert.Equal(t, "BTCUSDT-1h", PairKey{Symbol: "BTCUSDT", Timeframe: "1h"}.String())
}

func TestDecideDoesNotRecord(t *testing.T) {
	state := NewState()
	tracker := NewTracker(state)
	key := PairKey{Symbol: "BNBUSDT", Timeframe: "4h"}
	alert := alertWith("- MACD crossed down (potential sell).", "- Stochastic overbought.")

	assert.True(t, tracker.Decide(key, alert))
	assert.True(t, tracker.Decide(key, alert), "nothing is stored until Commit")
	assert.Zero(t, state.Len())

	tracker.Commit(key, alert)
	assert.False(t, tracker.Decide(key, alert))

	assert.False(t, tracker.Decide(key, alertWith("- Stochastic overbought.")))
	assert.Zero(t, state.Len(), "a non-qualifying alert still resets the pair")
}
