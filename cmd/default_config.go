package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	sim "github.com/booster-sim/booster-sim/sim"
	"github.com/booster-sim/booster-sim/sim/trace"
)

// Built-in defaults used when neither a flag, a preset, nor a query sets a value.
const (
	defaultDoses       = 10000
	defaultDosesPerDay = 100
	defaultBumpPrice   = 50.0
	defaultBumpMethod  = "swap"
	defaultTrials      = 100
	defaultSeed        = 42

	// firstDoseLeadDays places the first appointment a month out.
	firstDoseLeadDays = 30
)

// runParams are the knobs that a preset, a flag, or a query parameter can set.
type runParams struct {
	Doses       int
	DosesPerDay int
	BumpPrice   float64
	BumpMethod  string
	Trials      int
}

func builtinParams() runParams {
	return runParams{
		Doses:       defaultDoses,
		DosesPerDay: defaultDosesPerDay,
		BumpPrice:   defaultBumpPrice,
		BumpMethod:  defaultBumpMethod,
		Trials:      defaultTrials,
	}
}

// overlay copies the fields a preset sets. keep reports fields that an
// explicit flag already owns and must not be replaced.
func (p *runParams) overlay(s sim.Scenario, keep func(field string) bool) {
	if keep == nil {
		keep = func(string) bool { return false }
	}
	if s.Doses > 0 && !keep("doses") {
		p.Doses = s.Doses
	}
	if s.DosesPerDay > 0 && !keep("doses-per-day") {
		p.DosesPerDay = s.DosesPerDay
	}
	if s.BumpPrice != nil && !keep("bump-price") {
		p.BumpPrice = *s.BumpPrice
	}
	if s.BumpMethod != "" && !keep("bump-method") {
		p.BumpMethod = s.BumpMethod
	}
	if s.Trials > 0 && !keep("trials") {
		p.Trials = s.Trials
	}
}

// runConfig validates the params and assembles a sim.RunConfig.
func (p runParams) runConfig(seed int64, workers int, level trace.TraceLevel, firstDose time.Time) (sim.RunConfig, error) {
	method, err := sim.ParseBumpMethod(p.BumpMethod)
	if err != nil {
		return sim.RunConfig{}, err
	}
	cfg := sim.RunConfig{
		Cohort: sim.CohortConfig{
			NumberOfDoses: p.Doses,
			DosesPerDay:   p.DosesPerDay,
			BumpPrice:     p.BumpPrice,
			BumpMethod:    method,
			FirstDoseDate: firstDose,
		},
		Trials:     p.Trials,
		Workers:    workers,
		Seed:       seed,
		TraceLevel: level,
	}
	if err := cfg.Validate(); err != nil {
		return sim.RunConfig{}, err
	}
	return cfg, nil
}

// firstDoseDate is today plus the lead time, at midnight local time.
func firstDoseDate(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, firstDoseLeadDays)
}

// loadPresets parses the presets file. A missing file at the default
// location is not an error: there are simply no presets.
func loadPresets(path string, required bool) (*sim.ScenarioFile, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) && !required {
		logrus.Debugf("presets file %s not found, using built-in defaults", path)
		return &sim.ScenarioFile{}, nil
	}
	f, err := sim.LoadScenarioFile(path)
	if err != nil {
		return nil, fmt.Errorf("load presets %s: %w", path, err)
	}
	return f, nil
}
