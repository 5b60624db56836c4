package indicators

import (
	"math"

	"github.com/Alias1177/CryptoAlert/internal/analysis/technical"
	"github.com/Alias1177/CryptoAlert/internal/config"
	"github.com/Alias1177/CryptoAlert/internal/model"
)

// Row is one candle enriched with indicator columns. A nil column means the
// indicator is not available for that candle and any rule using it is skipped.
type Row struct {
	model.Candle
	RSI       *float64
	MACDDiff  *float64
	EMACross  *float64 // +1 fast crossed above slow, -1 below, 0 none
	BBPercent *float64
	StochK    *float64
	StochD    *float64
}

// Compute enriches a series with rsi, macd_diff, ema_cross_signal, bb_percent,
// stoch_k and stoch_d using the symbol's parameters. The result has one row per candle.
func Compute(series model.Series, sc config.SymbolConfig) []Row {
	closes := series.Closes()

	rsi := technical.RSISeries(closes, sc.RSIPeriod)
	_, _, macdDiff := technical.MACDSeries(closes, sc.MACDFast, sc.MACDSlow, sc.MACDSignal)
	emaCross := EMACrossSignal(closes, sc.EMAFast, sc.EMASlow)
	bbPercent := technical.BollingerPercentB(closes, sc.BBPeriod, sc.BBStd)
	stochK, stochD := technical.StochasticSeries(series, sc.StochK, sc.StochD)

	rows := make([]Row, len(series))
	for i, c := range series {
		rows[i] = Row{
			Candle:    c,
			RSI:       value(rsi, i),
			MACDDiff:  value(macdDiff, i),
			EMACross:  value(emaCross, i),
			BBPercent: value(bbPercent, i),
			StochK:    value(stochK, i),
			StochD:    value(stochD, i),
		}
	}
	return rows
}

// EMACrossSignal marks the candle where the fast EMA crosses the slow one.
func EMACrossSignal(closes []float64, fast, slow int) []float64 {
	fastEMA := technical.EMASeries(closes, fast)
	slowEMA := technical.EMASeries(closes, slow)

	out := make([]float64, len(closes))
	for i := range out {
		if i == 0 {
			out[i] = math.NaN()
			continue
		}
		pf, ps, cf, cs := fastEMA[i-1], slowEMA[i-1], fastEMA[i], slowEMA[i]
		if math.IsNaN(pf) || math.IsNaN(ps) || math.IsNaN(cf) || math.IsNaN(cs) {
			out[i] = math.NaN()
			continue
		}
		switch {
		case pf <= ps && cf > cs:
			out[i] = 1
		case pf >= ps && cf < cs:
			out[i] = -1
		}
	}
	return out
}

func value(values []float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	v := values[i]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
