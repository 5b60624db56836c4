package technical

import "math"

// BollingerBands returns upper, middle and lower bands over a trailing window
// using the population standard deviation.
func BollingerBands(closes []float64, period int, stdDev float64) (upper, middle, lower []float64) {
	middle = SMA(closes, period)
	upper = nanSeries(len(closes))
	lower = nanSeries(len(closes))
	for i := range closes {
		if math.IsNaN(middle[i]) {
			continue
		}
		var variance float64
		for _, v := range closes[i-period+1 : i+1] {
			variance += math.Pow(v-middle[i], 2)
		}
		sd := math.Sqrt(variance / float64(period))
		upper[i] = middle[i] + sd*stdDev
		lower[i] = middle[i] - sd*stdDev
	}
	return upper, middle, lower
}

// BollingerPercentB locates each close within its bands: 0 at the lower band, 1 at the upper.
// Collapsed bands leave the value undefined.
func BollingerPercentB(closes []float64, period int, stdDev float64) []float64 {
	upper, _, lower := BollingerBands(closes, period, stdDev)
	out := nanSeries(len(closes))
	for i, c := range closes {
		width := upper[i] - lower[i]
		if math.IsNaN(width) || width == 0 {
			continue
		}
		out[i] = (c - lower[i]) / width
	}
	return out
}
