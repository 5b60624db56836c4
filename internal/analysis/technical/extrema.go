package technical

import "math"

// DefaultExtremaWindow is the window used by pattern, trendline and wave detection.
const DefaultExtremaWindow = 5

// Extremum is a local peak or valley.
type Extremum struct {
	Index int
	Value float64
}

// Peaks finds values strictly above every other value in a centred window of
// the given width. Windows that run off either end of the slice are skipped.
func Peaks(values []float64, window int) []Extremum {
	return scanExtrema(values, window, func(cur, other float64) bool { return cur > other })
}

// Valleys is the mirror of Peaks.
func Valleys(values []float64, window int) []Extremum {
	return scanExtrema(values, window, func(cur, other float64) bool { return cur < other })
}

// Extrema come from the raw values: a rolling max plateaus around every peak.
func scanExtrema(values []float64, window int, beats func(cur, other float64) bool) []Extremum {
	half := window / 2
	if half < 1 {
		half = 1
	}

	var out []Extremum
	for i := half; i < len(values)-half; i++ {
		cur := values[i]
		if math.IsNaN(cur) {
			continue
		}
		extreme := true
		for j := i - half; j <= i+half; j++ {
			if j == i {
				continue
			}
			if math.IsNaN(values[j]) || !beats(cur, values[j]) {
				extreme = false
				break
			}
		}
		if extreme {
			out = append(out, Extremum{Index: i, Value: cur})
		}
	}
	return out
}

// LastN returns the trailing n extrema, or nil when fewer exist.
func LastN(ex []Extremum, n int) []Extremum {
	if len(ex) < n {
		return nil
	}
	return ex[len(ex)-n:]
}
