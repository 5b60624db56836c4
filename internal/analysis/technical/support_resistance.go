package technical

import (
	"math"

	"github.com/Alias1177/CryptoAlert/internal/model"
)

const (
	staticLevelWindow  = 20
	pivotWindow        = 5
	NearLevelTolerance = 0.02
)

// Levels groups every support and resistance level found in a series.
type Levels struct {
	Support    []model.Level
	Resistance []model.Level
	Dynamic    []model.Level
}

// SupportResistance combines static levels from rolling extrema, dynamic
// SMA20/SMA50 levels and strict pivot highs/lows.
func SupportResistance(series model.Series) Levels {
	var lv Levels
	if len(series) == 0 {
		return lv
	}

	for _, p := range Peaks(series.Highs(), staticLevelWindow) {
		lv.Resistance = append(lv.Resistance, model.Level{Price: p.Value, Role: model.Resistance, Strength: 0.7, Source: "static"})
	}
	for _, v := range Valleys(series.Lows(), staticLevelWindow) {
		lv.Support = append(lv.Support, model.Level{Price: v.Value, Role: model.Support, Strength: 0.7, Source: "static"})
	}

	closes := series.Closes()
	if sma := latest(SMA(closes, 20)); !math.IsNaN(sma) {
		lv.Dynamic = append(lv.Dynamic, model.Level{Price: sma, Role: model.Support, Strength: 0.5, Source: "sma_20"})
	}
	if sma := latest(SMA(closes, 50)); !math.IsNaN(sma) {
		lv.Dynamic = append(lv.Dynamic, model.Level{Price: sma, Role: model.Support, Strength: 0.6, Source: "sma_50"})
	}

	for _, p := range PivotHighs(series, pivotWindow) {
		lv.Resistance = append(lv.Resistance, model.Level{Price: p, Role: model.Resistance, Strength: 0.8, Source: "pivot_high"})
	}
	for _, p := range PivotLows(series, pivotWindow) {
		lv.Support = append(lv.Support, model.Level{Price: p, Role: model.Support, Strength: 0.8, Source: "pivot_low"})
	}
	return lv
}

// PivotHighs returns highs strictly above every high within window bars on each side.
func PivotHighs(series model.Series, window int) []float64 {
	var out []float64
	for i := window; i < len(series)-window; i++ {
		h := series[i].High
		pivot := true
		for j := i - window; j <= i+window; j++ {
			if j != i && series[j].High >= h {
				pivot = false
				break
			}
		}
		if pivot {
			out = append(out, h)
		}
	}
	return out
}

// PivotLows mirrors PivotHighs on lows.
func PivotLows(series model.Series, window int) []float64 {
	var out []float64
	for i := window; i < len(series)-window; i++ {
		l := series[i].Low
		pivot := true
		for j := i - window; j <= i+window; j++ {
			if j != i && series[j].Low <= l {
				pivot = false
				break
			}
		}
		if pivot {
			out = append(out, l)
		}
	}
	return out
}

// NearLevels filters levels whose price is within tolerance of price.
func NearLevels(levels []model.Level, price, tolerance float64) []model.Level {
	if price == 0 {
		return nil
	}
	var out []model.Level
	for _, l := range levels {
		if math.Abs(price-l.Price)/price < tolerance {
			out = append(out, l)
		}
	}
	return out
}
