package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBumpMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    BumpMethod
		wantErr bool
	}{
		{"swap", BumpSwap, false},
		{"SWAP", BumpSwap, false},
		{"shift", BumpShift, false},
		{"SHIFT_SHARE", BumpShiftShare, false},
		{" shift-share ", BumpShiftShare, false},
		{"auction", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBumpMethod(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "shift, shift-share, swap")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCohortConfig_Validate(t *testing.T) {
	valid := CohortConfig{NumberOfDoses: 10, DosesPerDay: 10, BumpPrice: 0, BumpMethod: BumpSwap}
	require.NoError(t, valid.Validate())

	nan := valid
	nan.BumpPrice = math.NaN()
	assert.Error(t, nan.Validate())

	inf := valid
	inf.BumpPrice = math.Inf(1)
	assert.Error(t, inf.Validate())
}

func TestCohortConfig_NumberOfDays(t *testing.T) {
	cfg := CohortConfig{NumberOfDoses: 95, DosesPerDay: 10}
	assert.Equal(t, 10, cfg.NumberOfDays())
}

func TestRunConfig_Validate(t *testing.T) {
	cfg := RunConfig{
		Cohort: CohortConfig{NumberOfDoses: 10, DosesPerDay: 1, BumpPrice: 1, BumpMethod: BumpShift},
		Trials: 1,
	}
	require.NoError(t, cfg.Validate(), "empty trace level defaults to none")

	cfg.Trials = -3
	assert.Error(t, cfg.Validate())

	cfg.Trials = 1
	cfg.Cohort.DosesPerDay = 0
	assert.Error(t, cfg.Validate())
}
