package sim

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sum(h []int) int {
	total := 0
	for _, v := range h {
		total += v
	}
	return total
}

func TestAggregate_LazyShape(t *testing.T) {
	a := NewAggregate()
	assert.False(t, a.Initialized())

	c := newTestCohort(t, 20, 4, 10, BumpSwap)
	require.NoError(t, a.Accumulate(c))

	assert.True(t, a.Initialized())
	assert.Len(t, a.JumpSlotHistogram, 20)
	assert.Len(t, a.FlexSlotHistogram, 20)
	assert.Len(t, a.JumpDaysHistogram, 5)
	assert.Len(t, a.FlexDaysHistogram, 5)
	assert.Equal(t, 1, a.TotalCohorts)
	assert.Equal(t, 20, a.TotalPeople())
}

func TestAggregate_HistogramCoverage(t *testing.T) {
	// GIVEN several completed cohorts
	cfg := CohortConfig{NumberOfDoses: 300, DosesPerDay: 6, BumpPrice: 15, BumpMethod: BumpShift}
	a := NewAggregate()
	jumpers, flexers, stranded := 0, 0, 0
	for seed := int64(0); seed < 4; seed++ {
		c := runSeededCohort(t, cfg, seed)
		for _, p := range c.People {
			if p.ChooseToJump {
				jumpers++
				if p.SlotsMoved() == 0 {
					stranded++
				}
			}
			if p.ChooseToFlex {
				flexers++
			}
		}
		require.NoError(t, a.Accumulate(c))
	}

	// THEN every jumper and flexer lands in exactly one bucket of each histogram
	assert.Equal(t, jumpers, sum(a.JumpSlotHistogram))
	assert.Equal(t, jumpers, sum(a.JumpDaysHistogram))
	assert.Equal(t, flexers, sum(a.FlexSlotHistogram))
	assert.Equal(t, flexers, sum(a.FlexDaysHistogram))
	assert.Equal(t, stranded, a.StrandedJumpers)
	assert.Equal(t, stranded, a.JumpSlotHistogram[0])
	assert.Equal(t, 4, a.TotalCohorts)
}

func TestAggregate_ScenarioBuckets(t *testing.T) {
	// GIVEN the 10-dose swap where the jumper moves from 7 to 2
	c := newTestCohort(t, 10, 1, 10, BumpSwap)
	makeFlexer(c, 2)
	jumper := makeJumper(c, 7, 2000, 0.25)
	c.indexFlexers()
	jumper.Decide(c)

	a := NewAggregate()
	require.NoError(t, a.Accumulate(c))

	assert.Equal(t, 1, a.JumpSlotHistogram[5])
	assert.Equal(t, 1, a.JumpDaysHistogram[5])
	assert.Equal(t, 1, a.FlexSlotHistogram[5])
	assert.Equal(t, 1, a.FlexDaysHistogram[5])
	assert.Zero(t, a.StrandedJumpers)
}

func TestAggregate_RejectsShapeMismatch(t *testing.T) {
	a := NewAggregate()
	require.NoError(t, a.Accumulate(newTestCohort(t, 10, 1, 10, BumpSwap)))

	tests := []struct {
		name string
		c    *Cohort
	}{
		{"doses", newTestCohort(t, 11, 1, 10, BumpSwap)},
		{"per day", newTestCohort(t, 10, 2, 10, BumpSwap)},
		{"price", newTestCohort(t, 10, 1, 11, BumpSwap)},
		{"method", newTestCohort(t, 10, 1, 10, BumpShift)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := a.Accumulate(tt.c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "does not match aggregate")
		})
	}
	assert.Equal(t, 1, a.TotalCohorts)
}

func TestAggregate_MergeEqualsSequential(t *testing.T) {
	cfg := CohortConfig{NumberOfDoses: 200, DosesPerDay: 5, BumpPrice: 25, BumpMethod: BumpShiftShare}
	cohorts := make([]*Cohort, 6)
	for i := range cohorts {
		cohorts[i] = runSeededCohort(t, cfg, int64(i))
	}

	// GIVEN one aggregate fed sequentially
	seq := NewAggregate()
	for _, c := range cohorts {
		require.NoError(t, seq.Accumulate(c))
	}

	// AND two partials merged in reverse order
	left, right := NewAggregate(), NewAggregate()
	for i, c := range cohorts {
		if i%2 == 0 {
			require.NoError(t, left.Accumulate(c))
		} else {
			require.NoError(t, right.Accumulate(c))
		}
	}
	merged := NewAggregate()
	require.NoError(t, merged.Merge(right))
	require.NoError(t, merged.Merge(left))
	require.NoError(t, merged.Merge(NewAggregate()))
	require.NoError(t, merged.Merge(nil))

	// THEN the histograms are identical
	assert.Equal(t, seq.JumpSlotHistogram, merged.JumpSlotHistogram)
	assert.Equal(t, seq.FlexSlotHistogram, merged.FlexSlotHistogram)
	assert.Equal(t, seq.JumpDaysHistogram, merged.JumpDaysHistogram)
	assert.Equal(t, seq.FlexDaysHistogram, merged.FlexDaysHistogram)
	assert.Equal(t, seq.TotalCohorts, merged.TotalCohorts)
	assert.Equal(t, seq.StrandedJumpers, merged.StrandedJumpers)
}

func TestAggregate_MergeRejectsMismatch(t *testing.T) {
	a := NewAggregate()
	require.NoError(t, a.Accumulate(newTestCohort(t, 10, 1, 10, BumpSwap)))
	b := NewAggregate()
	require.NoError(t, b.Accumulate(newTestCohort(t, 10, 1, 10, BumpShift)))
	require.Error(t, a.Merge(b))
}

func TestAggregate_DecodedPartialMergesAndSummarizes(t *testing.T) {
	cfg := CohortConfig{NumberOfDoses: 100, DosesPerDay: 5, BumpPrice: 20, BumpMethod: BumpShift}

	// GIVEN a partial that was written out as JSON and read back
	partial := NewAggregate()
	for i := 0; i < 3; i++ {
		require.NoError(t, partial.Accumulate(runSeededCohort(t, cfg, int64(i))))
	}
	data, err := json.Marshal(partial)
	require.NoError(t, err)
	var decoded Aggregate
	require.NoError(t, json.Unmarshal(data, &decoded))

	// THEN it still reads as populated and summarizes like the original
	assert.True(t, decoded.Initialized())
	want := partial.Summarize()
	require.Positive(t, want.Jumpers)
	assert.Equal(t, want, decoded.Summarize())

	// WHEN merged into an empty aggregate and into a live one
	empty := NewAggregate()
	require.NoError(t, empty.Merge(&decoded))
	live := NewAggregate()
	for i := 3; i < 6; i++ {
		require.NoError(t, live.Accumulate(runSeededCohort(t, cfg, int64(i))))
	}
	liveJumps := sum(live.JumpSlotHistogram)
	require.NoError(t, live.Merge(&decoded))

	// THEN no counts are dropped
	assert.Equal(t, partial.TotalCohorts, empty.TotalCohorts)
	assert.Equal(t, partial.JumpSlotHistogram, empty.JumpSlotHistogram)
	assert.Equal(t, 6, live.TotalCohorts)
	assert.Equal(t, liveJumps+sum(partial.JumpSlotHistogram), sum(live.JumpSlotHistogram))
}

func TestAggregate_MergeRejectsTruncatedHistograms(t *testing.T) {
	cfg := CohortConfig{NumberOfDoses: 20, DosesPerDay: 4, BumpPrice: 10, BumpMethod: BumpSwap}
	a := NewAggregate()
	require.NoError(t, a.Accumulate(runSeededCohort(t, cfg, 1)))

	// GIVEN a decoded partial with the right shape fields but a short histogram
	b := NewAggregate()
	require.NoError(t, b.Accumulate(runSeededCohort(t, cfg, 2)))
	b.FlexDaysHistogram = b.FlexDaysHistogram[:2]

	err := a.Merge(b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "histogram lengths")
	assert.Equal(t, 1, a.TotalCohorts)
}
