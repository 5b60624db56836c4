package pattern

import (
	"math"

	"github.com/Alias1177/CryptoAlert/internal/analysis/technical"
	"github.com/Alias1177/CryptoAlert/internal/model"
)

// HeadAndShoulders checks the last three peaks for a higher middle peak with
// shoulders within 10% of the head.
func HeadAndShoulders(series model.Series) model.PricePattern {
	p := model.PricePattern{Name: "Head and Shoulders", Kind: model.Reversal}

	peaks := technical.LastN(technical.Peaks(series.Highs(), technical.DefaultExtremaWindow), 3)
	if peaks == nil {
		return p
	}
	left, head, right := peaks[0].Value, peaks[1].Value, peaks[2].Value
	if left < head && head > right && math.Abs(left-right) < 0.1*head {
		p.Detected = true
		p.Strength = 0.8
		p.Attributes = map[string]float64{
			"left_shoulder":  left,
			"head":           head,
			"right_shoulder": right,
			"neckline":       rollingLowMean(series),
		}
	}
	return p
}

// DoubleTop: the last two peaks within 5% of each other.
func DoubleTop(series model.Series) model.PricePattern {
	p := model.PricePattern{Name: "Double Top", Kind: model.Reversal}

	peaks := technical.LastN(technical.Peaks(series.Highs(), technical.DefaultExtremaWindow), 2)
	if peaks == nil {
		return p
	}
	first, second := peaks[0].Value, peaks[1].Value
	if math.Abs(first-second) < 0.05*first {
		p.Detected = true
		p.Strength = 0.7
		p.Attributes = map[string]float64{
			"first_top":  first,
			"second_top": second,
			"neckline":   rollingLowMean(series),
		}
	}
	return p
}

// DoubleBottom: the last two valleys within 5% of each other.
func DoubleBottom(series model.Series) model.PricePattern {
	p := model.PricePattern{Name: "Double Bottom", Kind: model.Reversal}

	valleys := technical.LastN(technical.Valleys(series.Lows(), technical.DefaultExtremaWindow), 2)
	if valleys == nil {
		return p
	}
	first, second := valleys[0].Value, valleys[1].Value
	if math.Abs(first-second) < 0.05*first {
		p.Detected = true
		p.Strength = 0.7
		p.Attributes = map[string]float64{
			"first_bottom":  first,
			"second_bottom": second,
			"resistance":    meanOf(technical.RollingMax(series.Highs(), technical.DefaultExtremaWindow)),
		}
	}
	return p
}

// Triangle: both boundary slopes are shallow and point the same way.
func Triangle(series model.Series) model.PricePattern {
	p := model.PricePattern{Name: "Triangle", Kind: model.Continuation}
	if len(series) < 3 {
		return p
	}

	hs, ls := boundarySlopes(series)
	if math.Abs(hs) < 0.1 && math.Abs(ls) < 0.1 && hs*ls > 0 {
		p.Detected = true
		p.Strength = 0.6
		p.Variant = "Descending"
		if hs > 0 {
			p.Variant = "Ascending"
		}
		p.Attributes = map[string]float64{"high_slope": hs, "low_slope": ls}
	}
	return p
}

// Wedge: both boundary slopes are steep and point opposite ways.
func Wedge(series model.Series) model.PricePattern {
	p := model.PricePattern{Name: "Wedge", Kind: model.Reversal}
	if len(series) < 3 {
		return p
	}

	hs, ls := boundarySlopes(series)
	if math.Abs(hs) > 0.05 && math.Abs(ls) > 0.05 && hs*ls < 0 {
		p.Detected = true
		p.Strength = 0.6
		p.Variant = "Falling"
		if hs > 0 {
			p.Variant = "Rising"
		}
		p.Attributes = map[string]float64{"high_slope": hs, "low_slope": ls}
	}
	return p
}

// ChartPatterns runs every chart pattern detector.
func ChartPatterns(series model.Series) []model.PricePattern {
	return []model.PricePattern{
		HeadAndShoulders(series),
		DoubleTop(series),
		DoubleBottom(series),
		Triangle(series),
		Wedge(series),
	}
}

// boundarySlopes regresses the 3-candle rolling means of highs and lows.
func boundarySlopes(series model.Series) (float64, float64) {
	return technical.LinearSlope(technical.SMA(series.Highs(), 3)),
		technical.LinearSlope(technical.SMA(series.Lows(), 3))
}

func rollingLowMean(series model.Series) float64 {
	return meanOf(technical.RollingMin(series.Lows(), technical.DefaultExtremaWindow))
}

func meanOf(values []float64) float64 {
	var sum float64
	var n int
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
