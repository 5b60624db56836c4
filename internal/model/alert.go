package model

import "time"

// Strength is the coarse grade of a primary alert.
type Strength int

const (
	Weak Strength = iota
	Medium
	Strong
)

func (s Strength) String() string {
	switch s {
	case Medium:
		return "MEDIUM"
	case Strong:
		return "STRONG"
	default:
		return "WEAK"
	}
}

// MinConfirmations is the number of fired rules an alert needs before it is sent.
const MinConfirmations = 2

// Alert is the primary, deduplicated alert for one symbol and timeframe.
type Alert struct {
	Symbol            string    `json:"symbol"`
	Timeframe         string    `json:"timeframe"`
	Lines             []string  `json:"lines"`
	ConfirmationCount int       `json:"confirmation_count"`
	Strength          Strength  `json:"strength"`
	Timestamp         time.Time `json:"timestamp"`
}

// Qualifies reports whether enough rules fired to emit the alert.
func (a Alert) Qualifies() bool {
	return len(a.Lines) > 0 && a.ConfirmationCount >= MinConfirmations
}

// AdvancedSignal is one human-readable line of the secondary digest.
type AdvancedSignal struct {
	Type     string   `json:"type"`
	Message  string   `json:"message"`
	Strength float64  `json:"strength"`
	Polarity Polarity `json:"polarity"`
}

// Digest is the composer output for one pair. It is never deduplicated.
type Digest struct {
	Symbol    string           `json:"symbol"`
	Timeframe string           `json:"timeframe"`
	Signals   []AdvancedSignal `json:"signals"`
	Momentum  []AdvancedSignal `json:"momentum"`
	// Levels holds reference prices (Gann, Fibonacci extension, volume POC).
	// They decorate a digest but never make it non-empty on their own.
	Levels map[string]float64 `json:"levels,omitempty"`
}

// Empty reports whether the digest has nothing to say.
func (d Digest) Empty() bool {
	return len(d.Signals) == 0 && len(d.Momentum) == 0
}
