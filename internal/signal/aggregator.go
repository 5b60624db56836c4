// Package signal turns enriched candles and detector findings into alerts.
package signal

import (
	"fmt"

	"github.com/Alias1177/CryptoAlert/internal/config"
	"github.com/Alias1177/CryptoAlert/internal/indicators"
	"github.com/Alias1177/CryptoAlert/internal/model"
)

// alertBuilder accumulates fired rules. Strength only moves up.
type alertBuilder struct {
	alert model.Alert
}

func (b *alertBuilder) fire(line string, strength model.Strength) {
	b.alert.Lines = append(b.alert.Lines, line)
	b.alert.ConfirmationCount++
	if strength > b.alert.Strength {
		b.alert.Strength = strength
	}
}

// Evaluate runs the primary rule set against the latest row (and the previous
// one for crossovers and divergences). Rules whose indicator is missing do not fire.
func Evaluate(symbol, timeframe string, rows []indicators.Row, sc config.SymbolConfig) model.Alert {
	b := &alertBuilder{alert: model.Alert{Symbol: symbol, Timeframe: timeframe, Strength: model.Weak}}
	if len(rows) == 0 {
		return b.alert
	}

	latest := rows[len(rows)-1]
	b.alert.Timestamp = latest.Timestamp
	var prev *indicators.Row
	if len(rows) > 1 {
		prev = &rows[len(rows)-2]
	}

	checkRSI(b, latest, sc)
	if prev != nil {
		checkMACD(b, latest, *prev)
	}
	checkEMACross(b, latest)
	checkBollinger(b, latest)
	checkStochastic(b, latest, prev)

	return b.alert
}

func checkRSI(b *alertBuilder, latest indicators.Row, sc config.SymbolConfig) {
	if latest.RSI == nil {
		return
	}
	rsi := *latest.RSI
	if rsi < sc.RSIOversold {
		b.fire(fmt.Sprintf("- RSI (%.2f) oversold (%g).", rsi, sc.RSIOversold), model.Medium)
	} else if rsi > sc.RSIOverbought {
		b.fire(fmt.Sprintf("- RSI (%.2f) overbought (%g).", rsi, sc.RSIOverbought), model.Medium)
	}
}

func checkMACD(b *alertBuilder, latest, prev indicators.Row) {
	if latest.MACDDiff == nil || prev.MACDDiff == nil {
		return
	}
	cur, before := *latest.MACDDiff, *prev.MACDDiff

	if before < 0 && cur > 0 {
		b.fire("- MACD crossed up (potential buy).", model.Strong)
	}
	if before > 0 && cur < 0 {
		b.fire("- MACD crossed down (potential sell).", model.Strong)
	}

	if latest.Low < prev.Low && cur > before {
		b.fire("- MACD bullish divergence (potential rise).", model.Strong)
	} else if latest.High > prev.High && cur < before {
		b.fire("- MACD bearish divergence (potential drop).", model.Strong)
	}
}

func checkEMACross(b *alertBuilder, latest indicators.Row) {
	if latest.EMACross == nil || *latest.EMACross == 0 {
		return
	}
	if *latest.EMACross > 0 {
		b.fire("- EMA bullish crossover.", model.Strong)
	} else {
		b.fire("- EMA bearish crossover.", model.Strong)
	}
}

func checkBollinger(b *alertBuilder, latest indicators.Row) {
	if latest.BBPercent == nil {
		return
	}
	if pb := *latest.BBPercent; pb <= 0 {
		b.fire("- Price touched the lower Bollinger Band.", model.Medium)
	} else if pb >= 1 {
		b.fire("- Price touched the upper Bollinger Band.", model.Medium)
	}
}

func checkStochastic(b *alertBuilder, latest indicators.Row, prev *indicators.Row) {
	if latest.StochK == nil || latest.StochD == nil {
		return
	}
	k, d := *latest.StochK, *latest.StochD

	if k < 20 && d < 20 {
		b.fire("- Stochastic oversold.", model.Medium)
	} else if k > 80 && d > 80 {
		b.fire("- Stochastic overbought.", model.Medium)
	}

	if prev == nil || prev.StochK == nil || prev.StochD == nil {
		return
	}
	pk, pd := *prev.StochK, *prev.StochD
	if pk < pd && k > d {
		b.fire("- Stochastic crossed up.", model.Strong)
	} else if pk > pd && k < d {
		b.fire("- Stochastic crossed down.", model.Strong)
	}
}
