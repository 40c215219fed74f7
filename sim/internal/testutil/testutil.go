// Package testutil provides shared test infrastructure for the booster
// simulator: scripted random sources and float assertion helpers.
package testutil

import (
	"math"
	"testing"
)

// ScriptedSource returns a fixed sequence of draws, then Fallback forever.
// It satisfies sim.Source.
type ScriptedSource struct {
	Values   []float64
	Fallback float64
	next     int
}

// NewScriptedSource returns a source that replays values and then yields 0.
func NewScriptedSource(values ...float64) *ScriptedSource {
	return &ScriptedSource{Values: values}
}

// Float64 returns the next scripted value.
func (s *ScriptedSource) Float64() float64 {
	if s.next >= len(s.Values) {
		return s.Fallback
	}
	v := s.Values[s.next]
	s.next++
	return v
}

// Consumed reports how many scripted values have been returned.
func (s *ScriptedSource) Consumed() int {
	return s.next
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
