// Package dedup suppresses back-to-back repeats of the same primary alert.
package dedup

import (
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/Alias1177/CryptoAlert/internal/model"
)

// Fingerprint identifies an alert by its line content. Reordered lines produce
// a different fingerprint.
type Fingerprint uint64

// Of computes the fingerprint of an alert's lines.
func Of(alert model.Alert) Fingerprint {
	return Fingerprint(xxhash.Sum64String(strings.Join(alert.Lines, "\n")))
}

// PairKey addresses one symbol/timeframe combination.
type PairKey struct {
	Symbol    string
	Timeframe string
}

func (k PairKey) String() string {
	return k.Symbol + "-" + k.Timeframe
}

// State maps each pair to the fingerprint of the last alert sent for it.
// A missing entry means none. State is not safe for concurrent use; the cycle
// loop is its only writer.
type State struct {
	last map[PairKey]Fingerprint
}

// NewState returns an empty state.
func NewState() *State {
	return &State{last: make(map[PairKey]Fingerprint)}
}

// Get returns the stored fingerprint and whether one exists.
func (s *State) Get(key PairKey) (Fingerprint, bool) {
	fp, ok := s.last[key]
	return fp, ok
}

func (s *State) set(key PairKey, fp Fingerprint) { s.last[key] = fp }

func (s *State) clear(key PairKey) { delete(s.last, key) }

// Len is the number of pairs holding a fingerprint.
func (s *State) Len() int { return len(s.last) }

// Tracker applies the two-state policy: last sent or nothing.
type Tracker struct {
	state *State
}

// NewTracker wraps an injected state.
func NewTracker(state *State) *Tracker {
	if state == nil {
		state = NewState()
	}
	return &Tracker{state: state}
}

// ShouldEmit reports whether alert differs from the last one sent for key.
// When it does, the new fingerprint is stored.
func (t *Tracker) ShouldEmit(key PairKey, alert model.Alert) bool {
	fp := Of(alert)
	if last, ok := t.state.Get(key); ok && last == fp {
		return false
	}
	t.state.set(key, fp)
	return true
}

// Reset forgets the last alert for key so the next qualifying alert is treated as new.
func (t *Tracker) Reset(key PairKey) {
	t.state.clear(key)
}

// Decide applies the full policy for one evaluated alert without recording
// it: a non-qualifying alert resets the pair and returns false, a qualifying
// one returns whether it differs from the last alert sent. Call Commit once
// the alert has actually been delivered.
func (t *Tracker) Decide(key PairKey, alert model.Alert) bool {
	if !alert.Qualifies() {
		t.Reset(key)
		return false
	}
	last, ok := t.state.Get(key)
	return !ok || last != Of(alert)
}

// Commit records alert as the last one sent for key.
func (t *Tracker) Commit(key PairKey, alert model.Alert) {
	t.state.set(key, Of(alert))
}

// Observe is Decide followed by an immediate Commit when the alert is new.
func (t *Tracker) Observe(key PairKey, alert model.Alert) bool {
	if !t.Decide(key, alert) {
		return false
	}
	t.Commit(key, alert)
	return true
}
