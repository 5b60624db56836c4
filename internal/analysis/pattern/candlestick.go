package pattern

import "github.com/Alias1177/CryptoAlert/internal/model"

// Doji finds candles whose body is under a tenth of their range.
func Doji(candles model.Series) []model.CandleSignal {
	var out []model.CandleSignal
	for i := 1; i < len(candles); i++ {
		c := candles[i]
		if c.Range() <= 0 {
			continue
		}
		if c.Body() < 0.1*c.Range() {
			out = append(out, model.CandleSignal{Index: i, Type: "Doji", Strength: 0.5, Polarity: model.Neutral})
		}
	}
	return out
}

// Hammer: long lower wick, tiny upper wick and a low that undercuts the previous candle.
func Hammer(candles model.Series) []model.CandleSignal {
	var out []model.CandleSignal
	for i := 1; i < len(candles); i++ {
		c := candles[i]
		if c.Range() <= 0 {
			continue
		}
		if c.LowerShadow() > 2*c.Body() &&
			c.UpperShadow() < 0.1*c.Range() &&
			c.Low < candles[i-1].Low {
			out = append(out, model.CandleSignal{Index: i, Type: "Hammer", Strength: 0.7, Polarity: model.Bullish})
		}
	}
	return out
}

// ShootingStar mirrors Hammer: long upper wick and a high above the previous candle.
func ShootingStar(candles model.Series) []model.CandleSignal {
	var out []model.CandleSignal
	for i := 1; i < len(candles); i++ {
		c := candles[i]
		if c.Range() <= 0 {
			continue
		}
		if c.UpperShadow() > 2*c.Body() &&
			c.LowerShadow() < 0.1*c.Range() &&
			c.High > candles[i-1].High {
			out = append(out, model.CandleSignal{Index: i, Type: "Shooting Star", Strength: 0.7, Polarity: model.Bearish})
		}
	}
	return out
}

// Engulfing finds a candle whose body swallows the opposite-coloured body before it.
func Engulfing(candles model.Series) []model.CandleSignal {
	var out []model.CandleSignal
	for i := 1; i < len(candles); i++ {
		cur, prev := candles[i], candles[i-1]

		if cur.Bullish() && prev.Bearish() &&
			cur.Open < prev.Close &&
			cur.Close > prev.Open {
			out = append(out, model.CandleSignal{Index: i, Type: "Bullish Engulfing", Strength: 0.8, Polarity: model.Bullish})
		} else if cur.Bearish() && prev.Bullish() &&
			cur.Open > prev.Close &&
			cur.Close < prev.Open {
			out = append(out, model.CandleSignal{Index: i, Type: "Bearish Engulfing", Strength: 0.8, Polarity: model.Bearish})
		}
	}
	return out
}

// Harami finds a small opposite-coloured candle inside the previous candle's range.
func Harami(candles model.Series) []model.CandleSignal {
	var out []model.CandleSignal
	for i := 1; i < len(candles); i++ {
		cur, prev := candles[i], candles[i-1]
		if !(cur.High < prev.High && cur.Low > prev.Low && cur.Body() < 0.5*prev.Body()) {
			continue
		}

		switch {
		case cur.Bullish() && prev.Bearish():
			out = append(out, model.CandleSignal{Index: i, Type: "Bullish Harami", Strength: 0.6, Polarity: model.Bullish})
		case cur.Bearish() && prev.Bullish():
			out = append(out, model.CandleSignal{Index: i, Type: "Bearish Harami", Strength: 0.6, Polarity: model.Bearish})
		}
	}
	return out
}

// DetectCandles runs every candlestick detector, grouped in a fixed order.
func DetectCandles(candles model.Series) []model.CandleSignal {
	var out []model.CandleSignal
	out = append(out, Doji(candles)...)
	out = append(out, Hammer(candles)...)
	out = append(out, ShootingStar(candles)...)
	out = append(out, Engulfing(candles)...)
	out = append(out, Harami(candles)...)
	return out
}
