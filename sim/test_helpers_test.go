package sim

import (
	"testing"

	"github.com/booster-sim/booster-sim/sim/trace"
)

// newTestCohort builds a cohort with tracing on and everyone reset to a
// neutral stance: no flex, no jump, zero desires. Tests then script the
// people they care about and call Decide directly.
func newTestCohort(t *testing.T, doses, perDay int, price float64, method BumpMethod) *Cohort {
	t.Helper()
	c, err := NewCohort(CohortConfig{
		NumberOfDoses: doses,
		DosesPerDay:   perDay,
		BumpPrice:     price,
		BumpMethod:    method,
	}, NewPartitionedRNG(NewSimulationKey(42)), nil, trace.TraceLevelExchanges)
	if err != nil {
		t.Fatalf("NewCohort: %v", err)
	}
	for _, p := range c.People {
		p.DesireForEarlierSlot = 0
		p.DesireForMoney = 0
		p.ChooseToFlex = false
		p.ChooseToJump = false
	}
	return c
}

// makeFlexer marks the occupant of slot as willing to be bumped.
func makeFlexer(c *Cohort, slot int) *Person {
	p := c.Occupant(slot)
	p.DesireForEarlierSlot = 0.1
	p.DesireForMoney = 0.9
	p.ChooseToFlex = true
	return p
}

// makeJumper gives the occupant of slot a stance that will shop for an
// earlier slot with the given savings.
func makeJumper(c *Cohort, slot int, savings, desire float64) *Person {
	p := c.Occupant(slot)
	p.Savings = savings
	p.DesireForEarlierSlot = desire
	p.DesireForMoney = 0
	return p
}

// sumReceived totals amount_received across the cohort.
func sumReceived(c *Cohort) float64 {
	total := 0.0
	for _, p := range c.People {
		total += p.AmountReceived
	}
	return total
}
