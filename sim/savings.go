package sim

import (
	"math"
	"sort"
)

// SavingsModel draws a cash-savings balance from an empirical cumulative
// distribution by piecewise-linear interpolation between breakpoints.
// Read a row as: Percentiles[i] percent of the population has Dollars[i] or less.
type SavingsModel struct {
	Percentiles []float64 // ascending, last entry 100
	Dollars     []float64 // same length as Percentiles
	Jitter      float64   // multiplicative spread; 0.2 means a factor in [0.8, 1.2)
}

// DefaultSavingsModel follows the 2019 US savings-account balance survey
// the simulator was calibrated on.
func DefaultSavingsModel() *SavingsModel {
	return &SavingsModel{
		Percentiles: []float64{2.97, 20.23, 33.88, 55.87, 69.38, 77.02, 81.69, 86.50, 91.17, 95.63, 99.90, 100.00},
		Dollars:     []float64{0, 500, 1000, 5000, 10000, 15000, 20000, 25000, 50000, 100000, 1000000, 5000000},
		Jitter:      0.2,
	}
}

// Sample returns a whole-dollar savings amount >= 0. It always consumes two
// draws from rng (percentile, then jitter).
func (m *SavingsModel) Sample(rng Source) float64 {
	percentile := 100 * rng.Float64()
	jitter := 1 - m.Jitter + 2*m.Jitter*rng.Float64()
	return m.SampleAt(percentile, jitter)
}

// SampleAt is the deterministic core of Sample.
func (m *SavingsModel) SampleAt(percentile, jitter float64) float64 {
	if len(m.Percentiles) == 0 || percentile <= m.Percentiles[0] {
		return 0
	}
	last := len(m.Percentiles) - 1
	// first breakpoint >= percentile
	idx := sort.SearchFloat64s(m.Percentiles, percentile)
	if idx > last {
		idx = last
	}
	lo, hi := m.Percentiles[idx-1], m.Percentiles[idx]
	t := 1.0
	if hi > lo {
		t = (percentile - lo) / (hi - lo)
	}
	t = math.Min(t, 1)
	savings := m.Dollars[idx-1] + t*(m.Dollars[idx]-m.Dollars[idx-1])
	return math.Max(0, math.Floor(savings*jitter))
}
