package technical

import (
	"math"
	"testing"
)

func TestRollingWindows(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5, 9, 2}

	hi := RollingMax(values, 3)
	lo := RollingMin(values, 3)
	sma := SMA(values, 3)

	for i := 0; i < 2; i++ {
		if !math.IsNaN(hi[i]) || !math.IsNaN(lo[i]) || !math.IsNaN(sma[i]) {
			t.Fatalf("index %d should be NaN", i)
		}
	}

	wantMax := []float64{4, 4, 5, 9, 9}
	wantMin := []float64{1, 1, 1, 1, 2}
	wantSMA := []float64{8.0 / 3, 2, 10.0 / 3, 5, 16.0 / 3}
	for j := range wantMax {
		i := j + 2
		if hi[i] != wantMax[j] || lo[i] != wantMin[j] || !almostEqual(sma[i], wantSMA[j]) {
			t.Errorf("index %d: got max=%v min=%v sma=%v", i, hi[i], lo[i], sma[i])
		}
	}
}

func TestLinearSlope(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"rising line", []float64{1, 2, 3, 4}, 1},
		{"falling line", []float64{10, 8, 6}, -2},
		{"skips undefined points", []float64{math.NaN(), math.NaN(), 5, 7, 9}, 2},
		{"single point", []float64{math.NaN(), 3}, 0},
		{"empty", nil, 0},
		{"flat", []float64{2, 2, 2}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LinearSlope(tt.values); !almostEqual(got, tt.want) {
				t.Errorf("LinearSlope = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPeaksAndValleys(t *testing.T) {
	values := []float64{1, 2, 5, 2, 1, 0, 1, 3, 1, 0, -2, 0, 1}

	peaks := Peaks(values, 5)
	if len(peaks) != 2 || peaks[0].Index != 2 || peaks[1].Index != 7 {
		t.Errorf("peaks = %+v, want indices 2 and 7", peaks)
	}
	valleys := Valleys(values, 5)
	if len(valleys) != 2 || valleys[0].Index != 5 || valleys[1].Index != 10 {
		t.Errorf("valleys = %+v, want indices 5 and 10", valleys)
	}

	plateau := []float64{1, 3, 3, 1, 0}
	if got := Peaks(plateau, 3); len(got) != 0 {
		t.Errorf("ties are not peaks, got %+v", got)
	}

	if LastN(peaks, 3) != nil {
		t.Error("LastN should be nil when too few extrema")
	}
	if got := LastN(peaks, 1); len(got) != 1 || got[0].Index != 7 {
		t.Errorf("LastN(1) = %+v", got)
	}
}
