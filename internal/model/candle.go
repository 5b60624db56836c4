package model

import (
	"fmt"
	"math"
	"time"
)

// MinSeriesLength is the shortest series the alert pipeline will analyze.
const MinSeriesLength = 100

// Candle represents a single price candle
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Body returns the absolute size of the candle body.
func (c Candle) Body() float64 {
	return math.Abs(c.Close - c.Open)
}

// Range returns high minus low.
func (c Candle) Range() float64 {
	return c.High - c.Low
}

// UpperShadow is the wick above the body.
func (c Candle) UpperShadow() float64 {
	return c.High - math.Max(c.Open, c.Close)
}

// LowerShadow is the wick below the body.
func (c Candle) LowerShadow() float64 {
	return math.Min(c.Open, c.Close) - c.Low
}

// Bullish reports whether the candle closed above its open.
func (c Candle) Bullish() bool {
	return c.Close > c.Open
}

// Bearish reports whether the candle closed below its open.
func (c Candle) Bearish() bool {
	return c.Close < c.Open
}

// HasMissing reports whether any price or volume field is NaN.
func (c Candle) HasMissing() bool {
	return math.IsNaN(c.Open) || math.IsNaN(c.High) || math.IsNaN(c.Low) ||
		math.IsNaN(c.Close) || math.IsNaN(c.Volume)
}

// Valid checks the OHLCV invariants.
func (c Candle) Valid() bool {
	if c.HasMissing() {
		return false
	}
	if c.High < math.Max(c.Open, math.Max(c.Close, c.Low)) {
		return false
	}
	if c.Low > math.Min(c.Open, math.Min(c.Close, c.High)) {
		return false
	}
	return c.Volume >= 0
}

// Series is an ordered, time-indexed sequence of candles.
type Series []Candle

// Len returns the number of candles.
func (s Series) Len() int { return len(s) }

// Last returns the most recent candle. It panics on an empty series.
func (s Series) Last() Candle { return s[len(s)-1] }

// Tail returns the trailing n candles, or the whole series when shorter.
func (s Series) Tail(n int) Series {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}

func (s Series) Highs() []float64 {
	return s.column(func(c Candle) float64 { return c.High })
}

func (s Series) Lows() []float64 {
	return s.column(func(c Candle) float64 { return c.Low })
}

func (s Series) Closes() []float64 {
	return s.column(func(c Candle) float64 { return c.Close })
}

func (s Series) Volumes() []float64 {
	return s.column(func(c Candle) float64 { return c.Volume })
}

func (s Series) column(get func(Candle) float64) []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = get(c)
	}
	return out
}

// HasMissing reports whether any candle still carries a NaN field.
func (s Series) HasMissing() bool {
	for _, c := range s {
		if c.HasMissing() {
			return true
		}
	}
	return false
}

// FillForward returns a copy where each NaN field takes the previous candle's value.
// Leading NaNs have nothing to copy from and are left in place.
func (s Series) FillForward() Series {
	out := make(Series, len(s))
	copy(out, s)
	for i := 1; i < len(out); i++ {
		prev := out[i-1]
		cur := &out[i]
		if math.IsNaN(cur.Open) {
			cur.Open = prev.Open
		}
		if math.IsNaN(cur.High) {
			cur.High = prev.High
		}
		if math.IsNaN(cur.Low) {
			cur.Low = prev.Low
		}
		if math.IsNaN(cur.Close) {
			cur.Close = prev.Close
		}
		if math.IsNaN(cur.Volume) {
			cur.Volume = prev.Volume
		}
	}
	return out
}

// Validate checks every candle's OHLCV invariant and that timestamps strictly increase.
func (s Series) Validate() error {
	for i, c := range s {
		if !c.Valid() {
			return fmt.Errorf("candle %d at %s is malformed", i, c.Timestamp.Format(time.RFC3339))
		}
		if i > 0 && !c.Timestamp.After(s[i-1].Timestamp) {
			return fmt.Errorf("candle %d at %s is not after its predecessor", i, c.Timestamp.Format(time.RFC3339))
		}
	}
	return nil
}
