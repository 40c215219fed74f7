package sim

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/booster-sim/booster-sim/sim/trace"
)

// BumpMethod selects how a jumper and the flexers ahead of them trade slots.
type BumpMethod string

const (
	// BumpShift inserts the jumper at the head of a run of flexers, each of whom
	// advances one link and is paid for their own displacement.
	BumpShift BumpMethod = "shift"
	// BumpShiftShare moves people like BumpShift but pools the jumper's
	// payment across every flexer in the cohort.
	BumpShiftShare BumpMethod = "shift-share"
	// BumpSwap trades the jumper's slot with a single flexer's slot.
	BumpSwap BumpMethod = "swap"
)

// validBumpMethods is shared by Validate and ParseBumpMethod.
var validBumpMethods = map[BumpMethod]bool{
	BumpShift:      true,
	BumpShiftShare: true,
	BumpSwap:       true,
}

// ParseBumpMethod accepts the canonical names plus the upper-case
// SHIFT / SHIFT_SHARE / SWAP spellings.
func ParseBumpMethod(name string) (BumpMethod, error) {
	m := BumpMethod(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-"))
	if !validBumpMethods[m] {
		return "", fmt.Errorf("unknown bump method %q; valid: %s", name, strings.Join(ValidBumpMethodNames(), ", "))
	}
	return m, nil
}

// ValidBumpMethodNames returns the accepted bump method names, sorted.
func ValidBumpMethodNames() []string {
	names := make([]string, 0, len(validBumpMethods))
	for m := range validBumpMethods {
		names = append(names, string(m))
	}
	sort.Strings(names)
	return names
}

// MinimumDaysToJump is the smallest advance, in days, anyone will pay for.
const MinimumDaysToJump = 2

// FlexThreshold is the money desire above which a money-motivated person
// checks the "bump me" box.
const FlexThreshold = 0.25

// MaxSavingsPercent is the share of savings a maximally eager jumper spends.
const MaxSavingsPercent = 20

// CohortConfig groups the parameters of a single trial.
type CohortConfig struct {
	NumberOfDoses int        // total slot count, equal to the population size (must be > 0)
	DosesPerDay   int        // capacity per day (must be in (0, NumberOfDoses])
	BumpPrice     float64    // currency per slot of movement (must be >= 0)
	BumpMethod    BumpMethod // shift, shift-share, or swap
	FirstDoseDate time.Time  // calendar date of slot 0 (zero value is allowed)
}

// Validate rejects configurations that cannot produce a meaningful trial.
func (c CohortConfig) Validate() error {
	if c.NumberOfDoses <= 0 {
		return fmt.Errorf("number of doses must be positive, got %d", c.NumberOfDoses)
	}
	if c.DosesPerDay <= 0 {
		return fmt.Errorf("doses per day must be positive, got %d", c.DosesPerDay)
	}
	if c.DosesPerDay > c.NumberOfDoses {
		return fmt.Errorf("doses per day (%d) must not exceed number of doses (%d)", c.DosesPerDay, c.NumberOfDoses)
	}
	if math.IsNaN(c.BumpPrice) || math.IsInf(c.BumpPrice, 0) {
		return fmt.Errorf("bump price must be a finite number, got %f", c.BumpPrice)
	}
	if c.BumpPrice < 0 {
		return fmt.Errorf("bump price must be non-negative, got %f", c.BumpPrice)
	}
	if !validBumpMethods[c.BumpMethod] {
		return fmt.Errorf("unknown bump method %q; valid: %s", c.BumpMethod, strings.Join(ValidBumpMethodNames(), ", "))
	}
	return nil
}

// NumberOfDays is the number of calendar days the cohort spans.
func (c CohortConfig) NumberOfDays() int {
	return DurationDays(c.NumberOfDoses, c.DosesPerDay)
}

// DurationDays returns ceil(doses / perDay), or 0 when perDay is not positive.
func DurationDays(doses, perDay int) int {
	if perDay <= 0 {
		return 0
	}
	return (doses + perDay - 1) / perDay
}

// DescribeDuration renders a duration in days with a rough month or year
// equivalent for long campaigns.
func DescribeDuration(days int) string {
	s := fmt.Sprintf("Vaccination will take %d days", days)
	switch {
	case float64(days) > 365.25:
		s += fmt.Sprintf(", so about %.1f years", float64(days)/365.25)
	case float64(days) > 30.5:
		s += fmt.Sprintf(", so about %.1f months", float64(days)/30.5)
	}
	return s + "."
}

// RunConfig groups the parameters of a multi-trial run.
type RunConfig struct {
	Cohort     CohortConfig
	Trials     int              // number of independent cohorts (must be > 0)
	Workers    int              // goroutines running trials; <= 0 means 1
	Seed       int64            // master seed; each trial derives its own streams
	TraceLevel trace.TraceLevel // exchange tracing for each cohort
	Identities *IdentityPool    // nil uses DefaultIdentityPool
}

// Validate checks the run parameters and the embedded cohort configuration.
func (c RunConfig) Validate() error {
	if err := c.Cohort.Validate(); err != nil {
		return err
	}
	if c.Trials <= 0 {
		return fmt.Errorf("number of trials must be positive, got %d", c.Trials)
	}
	if !trace.IsValidTraceLevel(string(c.TraceLevel)) {
		return fmt.Errorf("unknown trace level %q", c.TraceLevel)
	}
	return nil
}
