package technical

import (
	"math"
	"sync"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/momentum"
	"github.com/cinar/indicator/v2/trend"

	"github.com/Alias1177/CryptoAlert/internal/model"
)

// Oscillator signal labels.
const (
	SignalOverbought = "overbought"
	SignalOversold   = "oversold"
	SignalNeutral    = "neutral"
	SignalBullish    = "bullish"
	SignalBearish    = "bearish"
)

// RSISeries computes RSI over closes, right-aligned to len(closes) with a NaN head.
func RSISeries(closes []float64, period int) []float64 {
	if period <= 0 || len(closes) < period+1 {
		return nanSeries(len(closes))
	}
	rsi := momentum.NewRsiWithPeriod[float64](period)
	out := helper.ChanToSlice(rsi.Compute(helper.SliceToChan(closes)))
	return padLeft(out, len(closes))
}

// EMASeries computes an exponential moving average, right-aligned like RSISeries.
func EMASeries(closes []float64, period int) []float64 {
	if period <= 0 || len(closes) < period {
		return nanSeries(len(closes))
	}
	ema := trend.NewEmaWithPeriod[float64](period)
	out := helper.ChanToSlice(ema.Compute(helper.SliceToChan(closes)))
	return padLeft(out, len(closes))
}

// MACDSeries returns the MACD line, its signal line and the histogram (macd - signal).
func MACDSeries(closes []float64, fast, slow, signal int) (macdLine, signalLine, hist []float64) {
	n := len(closes)
	if fast <= 0 || slow <= fast || signal <= 0 || n < slow+signal {
		return nanSeries(n), nanSeries(n), nanSeries(n)
	}

	macd := trend.NewMacdWithPeriod[float64](fast, slow, signal)
	macdCh, signalCh := macd.Compute(helper.SliceToChan(closes))

	// both outputs share one pipeline and must be drained together
	var wg sync.WaitGroup
	var sig []float64
	wg.Add(1)
	go func() {
		defer wg.Done()
		sig = helper.ChanToSlice(signalCh)
	}()
	line := helper.ChanToSlice(macdCh)
	wg.Wait()

	macdLine = padLeft(line, n)
	signalLine = padLeft(sig, n)
	hist = make([]float64, n)
	for i := range hist {
		hist[i] = macdLine[i] - signalLine[i]
	}
	return macdLine, signalLine, hist
}

// StochasticSeries computes %K over kPeriod and %D as the dPeriod SMA of %K.
// A window with no range reads 50.
func StochasticSeries(series model.Series, kPeriod, dPeriod int) (k, d []float64) {
	highs := RollingMax(series.Highs(), kPeriod)
	lows := RollingMin(series.Lows(), kPeriod)
	k = make([]float64, len(series))
	for i, c := range series {
		span := highs[i] - lows[i]
		switch {
		case math.IsNaN(span):
			k[i] = math.NaN()
		case span == 0:
			k[i] = 50
		default:
			k[i] = (c.Close - lows[i]) / span * 100
		}
	}
	d = rolling(k, dPeriod, func(w []float64) float64 { return nanMean(w) })
	for i := range d {
		if i < kPeriod+dPeriod-2 {
			d[i] = math.NaN()
		}
	}
	return k, d
}

// CCISeries is the commodity channel index using mean absolute deviation.
func CCISeries(series model.Series, period int) []float64 {
	tp := make([]float64, len(series))
	for i, c := range series {
		tp[i] = (c.High + c.Low + c.Close) / 3
	}
	sma := SMA(tp, period)
	out := nanSeries(len(series))
	for i := period - 1; i < len(series) && period > 0; i++ {
		var mad float64
		for _, v := range tp[i-period+1 : i+1] {
			mad += math.Abs(v - sma[i])
		}
		mad /= float64(period)
		if mad == 0 {
			continue
		}
		out[i] = (tp[i] - sma[i]) / (0.015 * mad)
	}
	return out
}

// WilliamsRSeries is Williams %R in the range [-100, 0].
func WilliamsRSeries(series model.Series, period int) []float64 {
	highs := RollingMax(series.Highs(), period)
	lows := RollingMin(series.Lows(), period)
	out := nanSeries(len(series))
	for i, c := range series {
		span := highs[i] - lows[i]
		if math.IsNaN(span) || span == 0 {
			continue
		}
		out[i] = -100 * (highs[i] - c.Close) / span
	}
	return out
}

// RSISignal maps an RSI value to overbought (>70), oversold (<30) or neutral.
func RSISignal(v float64) string {
	switch {
	case v > 70:
		return SignalOverbought
	case v < 30:
		return SignalOversold
	default:
		return SignalNeutral
	}
}

// MACDSignal maps the histogram sign to bullish or bearish.
func MACDSignal(hist float64) string {
	switch {
	case hist > 0:
		return SignalBullish
	case hist < 0:
		return SignalBearish
	default:
		return SignalNeutral
	}
}

func StochasticSignal(k, d float64) string {
	switch {
	case k > 80 && d > 80:
		return SignalOverbought
	case k < 20 && d < 20:
		return SignalOversold
	case k > d:
		return SignalBullish
	case k < d:
		return SignalBearish
	default:
		return SignalNeutral
	}
}

func CCISignal(v float64) string {
	switch {
	case v > 100:
		return SignalOverbought
	case v < -100:
		return SignalOversold
	default:
		return SignalNeutral
	}
}

func WilliamsRSignal(v float64) string {
	switch {
	case v > -20:
		return SignalOverbought
	case v < -80:
		return SignalOversold
	default:
		return SignalNeutral
	}
}

// Oscillators holds the latest reading of each momentum oscillator.
type Oscillators struct {
	RSI        model.OscillatorReading
	MACD       model.OscillatorReading
	Stochastic model.OscillatorReading
	StochD     float64
	CCI        model.OscillatorReading
	WilliamsR  model.OscillatorReading
}

// Findings lists the readings in a fixed order.
func (o Oscillators) Findings() []model.Finding {
	return []model.Finding{o.RSI, o.MACD, o.Stochastic, o.CCI, o.WilliamsR}
}

// Momentum computes RSI(14), MACD(12,26,9), Stochastic(14,3), CCI(20) and
// Williams %R(14) over the full series. Undefined values read neutral.
func Momentum(series model.Series) Oscillators {
	closes := series.Closes()

	rsi := latest(RSISeries(closes, 14))
	_, _, hist := MACDSeries(closes, 12, 26, 9)
	macdHist := latest(hist)
	k, d := StochasticSeries(series, 14, 3)
	stochK, stochD := latest(k), latest(d)
	cci := latest(CCISeries(series, 20))
	wr := latest(WilliamsRSeries(series, 14))

	return Oscillators{
		RSI:        model.OscillatorReading{Name: "RSI", Current: rsi, Signal: RSISignal(rsi)},
		MACD:       model.OscillatorReading{Name: "MACD", Current: macdHist, Signal: MACDSignal(macdHist)},
		Stochastic: model.OscillatorReading{Name: "Stochastic", Current: stochK, Signal: StochasticSignal(stochK, stochD)},
		StochD:     stochD,
		CCI:        model.OscillatorReading{Name: "CCI", Current: cci, Signal: CCISignal(cci)},
		WilliamsR:  model.OscillatorReading{Name: "Williams %R", Current: wr, Signal: WilliamsRSignal(wr)},
	}
}
