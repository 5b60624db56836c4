package technical

import "math"

// RollingMax returns the max over a trailing window. Entries before the first
// full window are NaN.
func RollingMax(values []float64, window int) []float64 {
	return rolling(values, window, func(w []float64) float64 {
		m := w[0]
		for _, v := range w[1:] {
			m = math.Max(m, v)
		}
		return m
	})
}

// RollingMin is the trailing-window minimum, NaN-padded like RollingMax.
func RollingMin(values []float64, window int) []float64 {
	return rolling(values, window, func(w []float64) float64 {
		m := w[0]
		for _, v := range w[1:] {
			m = math.Min(m, v)
		}
		return m
	})
}

// SMA is the simple moving average over a trailing window.
func SMA(values []float64, window int) []float64 {
	return rolling(values, window, func(w []float64) float64 {
		var sum float64
		for _, v := range w {
			sum += v
		}
		return sum / float64(len(w))
	})
}

func rolling(values []float64, window int, reduce func([]float64) float64) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		if window <= 0 || i < window-1 {
			out[i] = math.NaN()
			continue
		}
		out[i] = reduce(values[i-window+1 : i+1])
	}
	return out
}

// nanMean averages the defined entries of values. It returns NaN when none are defined.
func nanMean(values []float64) float64 {
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
		return math.NaN()
	}
	return sum / float64(n)
}

// LinearSlope fits y = a*x + b by least squares with x as the index and
// returns a. Undefined points are skipped; fewer than two points give 0.
func LinearSlope(values []float64) float64 {
	var sx, sy, sxx, sxy, n float64
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		x := float64(i)
		sx += x
		sy += v
		sxx += x * x
		sxy += x * v
		n++
	}
	if n < 2 {
		return 0
	}
	den := n*sxx - sx*sx
	if den == 0 {
		return 0
	}
	return (n*sxy - sx*sy) / den
}

// latest returns the last value of a series, or NaN when empty.
func latest(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return values[len(values)-1]
}

// padLeft right-aligns a shorter indicator output to length n, filling the head with NaN.
func padLeft(values []float64, n int) []float64 {
	if len(values) >= n {
		return values[len(values)-n:]
	}
	out := make([]float64, n)
	pad := n - len(values)
	for i := 0; i < pad; i++ {
		out[i] = math.NaN()
	}
	copy(out[pad:], values)
	return out
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
