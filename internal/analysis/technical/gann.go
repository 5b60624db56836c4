package technical

import (
	"math"

	"github.com/Alias1177/CryptoAlert/internal/model"
)

var gannAngles = []model.GannAngle{
	{Name: "1x1", Degrees: 45, PricePerUnit: 1, TimePerUnit: 1},
	{Name: "1x2", Degrees: 63.43, PricePerUnit: 2, TimePerUnit: 1},
	{Name: "2x1", Degrees: 26.57, PricePerUnit: 1, TimePerUnit: 2},
	{Name: "4x1", Degrees: 75.96, PricePerUnit: 4, TimePerUnit: 1},
	{Name: "1x4", Degrees: 14.04, PricePerUnit: 1, TimePerUnit: 4},
}

// Gann carries the fixed angle set and the 1x1 projection from the latest close.
type Gann struct {
	Angles     []model.GannAngle
	Support    float64
	Resistance float64
}

// GannAngles projects the 1x1 angle linearly across the series length.
// A flat series has no range to project and yields an empty result.
func GannAngles(series model.Series) Gann {
	if len(series) == 0 {
		return Gann{}
	}
	high, low := series[0].High, series[0].Low
	for _, c := range series[1:] {
		high = math.Max(high, c.High)
		low = math.Min(low, c.Low)
	}
	priceRange := high - low
	if priceRange <= 0 {
		return Gann{}
	}

	n := float64(len(series))
	step := priceRange / n
	last := series.Last().Close

	angles := make([]model.GannAngle, len(gannAngles))
	copy(angles, gannAngles)
	return Gann{
		Angles:     angles,
		Support:    last - n*step,
		Resistance: last + n*step,
	}
}
