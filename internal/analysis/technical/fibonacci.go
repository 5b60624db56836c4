package technical

import (
	"math"

	"github.com/Alias1177/CryptoAlert/internal/model"
)

const (
	FibLookback  = 20
	FibTolerance = 0.02
)

var retracementRatios = []struct {
	label string
	ratio float64
}{
	{"0.0", 0},
	{"23.6", 0.236},
	{"38.2", 0.382},
	{"50.0", 0.5},
	{"61.8", 0.618},
	{"78.6", 0.786},
	{"100.0", 1},
}

var extensionRatios = []struct {
	label string
	ratio float64
}{
	{"127.2", 1.272},
	{"161.8", 1.618},
	{"261.8", 2.618},
}

// Retracement is the result of a Fibonacci retracement scan.
type Retracement struct {
	RecentHigh float64
	RecentLow  float64
	Levels     []model.FibLevel
}

// NearLevels returns the levels within tolerance of the latest close.
func (r Retracement) NearLevels() []model.FibLevel {
	var out []model.FibLevel
	for _, l := range r.Levels {
		if l.Near {
			out = append(out, l)
		}
	}
	return out
}

// Level looks up a level by its label, e.g. "50.0".
func (r Retracement) Level(label string) (model.FibLevel, bool) {
	for _, l := range r.Levels {
		if l.Label == label {
			return l, true
		}
	}
	return model.FibLevel{}, false
}

// recentRange returns the high and low of the trailing FibLookback candles.
func recentRange(series model.Series) (float64, float64, bool) {
	if len(series) == 0 {
		return 0, 0, false
	}
	window := series.Tail(FibLookback)
	high, low := window[0].High, window[0].Low
	for _, c := range window[1:] {
		high = math.Max(high, c.High)
		low = math.Min(low, c.Low)
	}
	if high-low <= 0 {
		return 0, 0, false
	}
	return high, low, true
}

// FibonacciRetracement computes high - range*ratio over the trailing window
// and marks levels the latest close sits within 2% of.
func FibonacciRetracement(series model.Series) Retracement {
	high, low, ok := recentRange(series)
	if !ok {
		return Retracement{}
	}
	price := series.Last().Close

	res := Retracement{RecentHigh: high, RecentLow: low}
	for _, r := range retracementRatios {
		lvl := high - (high-low)*r.ratio
		res.Levels = append(res.Levels, model.FibLevel{
			Label: r.label,
			Price: lvl,
			Near:  price != 0 && math.Abs(price-lvl)/price < FibTolerance,
		})
	}
	return res
}

// FibonacciExtension projects low + range*ratio above the trailing window.
func FibonacciExtension(series model.Series) []model.FibLevel {
	high, low, ok := recentRange(series)
	if !ok {
		return nil
	}
	out := make([]model.FibLevel, 0, len(extensionRatios))
	for _, r := range extensionRatios {
		out = append(out, model.FibLevel{Label: r.label, Price: low + (high-low)*r.ratio})
	}
	return out
}
