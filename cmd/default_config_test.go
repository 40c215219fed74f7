package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/booster-sim/booster-sim/sim"
)

func TestRunParams_OverlaySkipsKeptAndUnset(t *testing.T) {
	// GIVEN a preset that sets doses and a zero price but not the method
	zero := 0.0
	s := sim.Scenario{Doses: 300, BumpPrice: &zero, Trials: 9}
	p := builtinParams()

	// WHEN overlaying while the user owns --trials
	p.overlay(s, func(field string) bool { return field == "trials" })

	// THEN set fields apply, owned and unset fields keep their values
	assert.Equal(t, 300, p.Doses)
	assert.Zero(t, p.BumpPrice)
	assert.Equal(t, defaultBumpMethod, p.BumpMethod)
	assert.Equal(t, defaultDosesPerDay, p.DosesPerDay)
	assert.Equal(t, defaultTrials, p.Trials)
}

func TestRunParams_RunConfig(t *testing.T) {
	start := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
	p := runParams{Doses: 100, DosesPerDay: 10, BumpPrice: 2.5, BumpMethod: "SHIFT", Trials: 4}

	cfg, err := p.runConfig(11, 3, "", start)
	require.NoError(t, err)
	assert.Equal(t, sim.BumpShift, cfg.Cohort.BumpMethod)
	assert.Equal(t, start, cfg.Cohort.FirstDoseDate)
	assert.Equal(t, int64(11), cfg.Seed)
	assert.Equal(t, 3, cfg.Workers)

	p.Doses = -1
	_, err = p.runConfig(11, 3, "", start)
	assert.Error(t, err)
}

func TestFirstDoseDate_IsMidnightAMonthOut(t *testing.T) {
	now := time.Date(2021, 12, 15, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2022, 1, 14, 0, 0, 0, 0, time.UTC), firstDoseDate(now))
}
