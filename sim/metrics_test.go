package sim

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/booster-sim/booster-sim/sim/internal/testutil"
)

// handAggregate builds a 10-person, 1-cohort aggregate at 2 doses/day:
// jumpers moved 0 (stranded), 4, and 6 slots; flexers moved 0, 2, and 8.
func handAggregate(method BumpMethod) *Aggregate {
	a := NewAggregate()
	a.initialize(CohortConfig{NumberOfDoses: 10, DosesPerDay: 2, BumpPrice: 100, BumpMethod: method})
	a.TotalCohorts = 1
	a.JumpSlotHistogram[0], a.JumpSlotHistogram[4], a.JumpSlotHistogram[6] = 1, 1, 1
	a.JumpDaysHistogram[0], a.JumpDaysHistogram[2], a.JumpDaysHistogram[3] = 1, 1, 1
	a.FlexSlotHistogram[0], a.FlexSlotHistogram[2], a.FlexSlotHistogram[8] = 1, 1, 1
	a.FlexDaysHistogram[0], a.FlexDaysHistogram[1], a.FlexDaysHistogram[4] = 1, 1, 1
	a.StrandedJumpers = 1
	return a
}

func TestSummarize_PerFlexerChecks(t *testing.T) {
	s := handAggregate(BumpShift).Summarize()

	assert.Equal(t, 10, s.TotalPeople)
	assert.Equal(t, 3, s.Jumpers)
	assert.Equal(t, 2, s.SuccessfulJumpers)
	assert.Equal(t, 1, s.StrandedJumpers)
	assert.Equal(t, 3, s.Flexers)
	assert.Equal(t, 2, s.BumpedFlexers)
	assert.Equal(t, 4, s.Keepers)

	testutil.AssertFloat64Equal(t, "JumpPercent", 30, s.JumpPercent, 1e-9)
	testutil.AssertFloat64Equal(t, "KeepPercent", 40, s.KeepPercent, 1e-9)
	testutil.AssertFloat64Equal(t, "JumpSuccessPercent", 200.0/3, s.JumpSuccessPercent, 1e-9)

	// 10 slots bought at $100
	assert.Equal(t, 1000.0, s.TotalPaid)
	assert.Equal(t, 500.0, s.AveragePayment)
	assert.Equal(t, 600.0, s.MaxPayment)
	assert.Equal(t, 2.5, s.AverageDaysEarlier)
	assert.Equal(t, 3, s.MaxDaysEarlier)

	// 10 slots of displacement paid individually
	assert.Equal(t, 1000.0, s.TotalReceived)
	assert.Equal(t, 500.0, s.AverageCheck)
	assert.Equal(t, 200.0, s.MinCheck)
	assert.Equal(t, 800.0, s.MaxCheck)
	assert.Zero(t, s.SharedCheck)
	testutil.AssertFloat64Equal(t, "AverageDelayDays", 10.0/6, s.AverageDelayDays, 1e-9)
	assert.Equal(t, 4, s.MaxDaysDelayed)
}

func TestSummarize_SharedCheck(t *testing.T) {
	s := handAggregate(BumpShiftShare).Summarize()

	// The $1,000 pool is split over all three flexers, moved or not
	testutil.AssertFloat64Equal(t, "SharedCheck", 1000.0/3, s.SharedCheck, 1e-9)
	assert.Equal(t, s.SharedCheck, s.MinCheck)
	assert.Equal(t, s.SharedCheck, s.MaxCheck)
	assert.Equal(t, 1000.0, s.TotalReceived)
}

func TestSummarize_EmptyPopulationsStayFinite(t *testing.T) {
	// GIVEN a cohort where nobody jumped or flexed
	a := NewAggregate()
	a.initialize(CohortConfig{NumberOfDoses: 10, DosesPerDay: 1, BumpPrice: 10, BumpMethod: BumpShiftShare})
	a.TotalCohorts = 1

	s := a.Summarize()

	for name, v := range map[string]float64{
		"JumpSuccessPercent": s.JumpSuccessPercent,
		"AveragePayment":     s.AveragePayment,
		"AverageCheck":       s.AverageCheck,
		"SharedCheck":        s.SharedCheck,
		"AverageDelayDays":   s.AverageDelayDays,
		"AverageDaysEarlier": s.AverageDaysEarlier,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v != 0 {
			t.Errorf("%s = %v, want 0", name, v)
		}
	}
	assert.Equal(t, 10, s.Keepers)
	testutil.AssertFloat64Equal(t, "KeepPercent", 100, s.KeepPercent, 1e-9)
}

func TestSummarize_Uninitialized(t *testing.T) {
	s := NewAggregate().Summarize()
	assert.Zero(t, s.TotalPeople)
	assert.Zero(t, s.Jumpers)
}

func TestSummary_Print_FormatsDollars(t *testing.T) {
	a := handAggregate(BumpSwap)
	a.BumpPrice = 1000 // average payment becomes $5,000

	var buf bytes.Buffer
	a.Summarize().Print(&buf)
	out := buf.String()

	assert.Contains(t, out, "=== Simulation Results ===")
	assert.Contains(t, out, "Average payment was $5,000 for 2 days")
	assert.Contains(t, out, "biggest: $8,000, smallest: $2,000")
	assert.Contains(t, out, "(4 people) kept their original date")
	assert.NotContains(t, out, "Each got a check")
}

func TestSummary_Print_SharedCheckWording(t *testing.T) {
	var buf bytes.Buffer
	handAggregate(BumpShiftShare).Summarize().Print(&buf)
	assert.Contains(t, buf.String(), "Each got a check for $333 at vaccination time.")
}
