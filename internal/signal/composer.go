package signal

import (
	"fmt"

	"github.com/Alias1177/CryptoAlert/internal/analysis/pattern"
	"github.com/Alias1177/CryptoAlert/internal/analysis/technical"
	"github.com/Alias1177/CryptoAlert/internal/model"
)

// ComposeOptions tunes the advanced-signal composer.
type ComposeOptions struct {
	// CandleLookback keeps candlestick signals from the last N candles only. 0 keeps all.
	CandleLookback int
}

// Compose runs every primitive detector over series and flattens the results
// into the advanced and momentum signal lists of a digest.
func Compose(symbol, timeframe string, series model.Series, opts ComposeOptions) model.Digest {
	d := model.Digest{Symbol: symbol, Timeframe: timeframe}
	if len(series) == 0 {
		return d
	}
	price := series.Last().Close

	for _, lvl := range technical.FibonacciRetracement(series).NearLevels() {
		d.Signals = append(d.Signals, model.AdvancedSignal{
			Type:     "Fibonacci",
			Message:  fmt.Sprintf("Price near Fibonacci level %s (%.2f)", lvl.Label, lvl.Price),
			Strength: 0.6,
			Polarity: model.Neutral,
		})
	}

	for _, p := range pattern.ChartPatterns(series) {
		if !p.Detected {
			continue
		}
		name := p.Name
		if p.Variant != "" {
			name = p.Variant + " " + p.Name
		}
		d.Signals = append(d.Signals, model.AdvancedSignal{
			Type:     p.Name,
			Message:  fmt.Sprintf("Detected %s with %.0f%% confidence", name, p.Strength*100),
			Strength: p.Strength,
			Polarity: patternPolarity(p),
		})
	}

	if ew := pattern.ElliottWaves(series); ew.Pattern != "" {
		d.Signals = append(d.Signals, model.AdvancedSignal{
			Type:     "Elliott Wave",
			Message:  "Elliott wave pattern: " + ew.Pattern,
			Strength: ew.Confidence,
			Polarity: model.Neutral,
		})
	}

	d.Signals = append(d.Signals, pattern.FVGSignals(series, pattern.FairValueGaps(series))...)

	firstCandle := 0
	if opts.CandleLookback > 0 {
		firstCandle = len(series) - opts.CandleLookback
	}
	for _, cs := range pattern.DetectCandles(series) {
		if cs.Index < firstCandle {
			continue
		}
		d.Signals = append(d.Signals, model.AdvancedSignal{
			Type:     "Candlestick",
			Message:  "Candle pattern " + cs.Type,
			Strength: cs.Strength,
			Polarity: cs.Polarity,
		})
	}

	levels := technical.SupportResistance(series)
	for _, lvl := range technical.NearLevels(levels.Support, price, technical.NearLevelTolerance) {
		d.Signals = append(d.Signals, model.AdvancedSignal{
			Type:     "Support",
			Message:  fmt.Sprintf("Price near support %.2f", lvl.Price),
			Strength: lvl.Strength,
			Polarity: model.Bullish,
		})
	}
	for _, lvl := range technical.NearLevels(levels.Resistance, price, technical.NearLevelTolerance) {
		d.Signals = append(d.Signals, model.AdvancedSignal{
			Type:     "Resistance",
			Message:  fmt.Sprintf("Price near resistance %.2f", lvl.Price),
			Strength: lvl.Strength,
			Polarity: model.Bearish,
		})
	}

	lines := technical.DrawTrendlines(series)
	for _, tl := range lines.Up {
		d.Signals = append(d.Signals, model.AdvancedSignal{Type: "Uptrend", Message: "Uptrend line confirmed", Strength: tl.Strength, Polarity: model.Bullish})
	}
	for _, tl := range lines.Down {
		d.Signals = append(d.Signals, model.AdvancedSignal{Type: "Downtrend", Message: "Downtrend line confirmed", Strength: tl.Strength, Polarity: model.Bearish})
	}

	for _, vs := range technical.VolumeSignals(series) {
		d.Signals = append(d.Signals, model.AdvancedSignal{Type: vs.Type, Message: vs.Message, Strength: vs.Strength, Polarity: vs.Polarity})
	}

	d.Momentum = momentumSignals(technical.Momentum(series))
	d.Levels = referenceLevels(series)
	return d
}

// referenceLevels collects the projected prices shown alongside the digest.
func referenceLevels(series model.Series) map[string]float64 {
	levels := make(map[string]float64)

	if g := technical.GannAngles(series); len(g.Angles) > 0 {
		levels["gann_support"] = g.Support
		levels["gann_resistance"] = g.Resistance
	}
	for _, ext := range technical.FibonacciExtension(series) {
		levels["fib_"+ext.Label] = ext.Price
	}

	var poc *model.ProfileBin
	bins := technical.VolumeProfile(series)
	for i := range bins {
		if poc == nil || bins[i].Volume > poc.Volume {
			poc = &bins[i]
		}
	}
	if poc != nil && poc.Volume > 0 {
		levels["volume_poc"] = (poc.Lower + poc.Upper) / 2
	}

	if len(levels) == 0 {
		return nil
	}
	return levels
}

func momentumSignals(osc technical.Oscillators) []model.AdvancedSignal {
	var out []model.AdvancedSignal
	switch osc.RSI.Signal {
	case technical.SignalOverbought:
		out = append(out, model.AdvancedSignal{
			Type:     "RSI Overbought",
			Message:  fmt.Sprintf("RSI in overbought zone (%.2f)", osc.RSI.Current),
			Strength: 0.7,
			Polarity: model.Bearish,
		})
	case technical.SignalOversold:
		out = append(out, model.AdvancedSignal{
			Type:     "RSI Oversold",
			Message:  fmt.Sprintf("RSI in oversold zone (%.2f)", osc.RSI.Current),
			Strength: 0.7,
			Polarity: model.Bullish,
		})
	}

	switch osc.MACD.Signal {
	case technical.SignalBullish:
		out = append(out, model.AdvancedSignal{Type: "MACD Bullish", Message: "MACD histogram is positive", Strength: 0.6, Polarity: model.Bullish})
	case technical.SignalBearish:
		out = append(out, model.AdvancedSignal{Type: "MACD Bearish", Message: "MACD histogram is negative", Strength: 0.6, Polarity: model.Bearish})
	}
	return out
}

func patternPolarity(p model.PricePattern) model.Polarity {
	switch p.Name {
	case "Head and Shoulders", "Double Top":
		return model.Bearish
	case "Double Bottom":
		return model.Bullish
	case "Triangle":
		if p.Variant == "Ascending" {
			return model.Bullish
		}
		return model.Bearish
	case "Wedge":
		if p.Variant == "Falling" {
			return model.Bullish
		}
		return model.Bearish
	}
	return model.Neutral
}
