package sim

import (
	"fmt"
	"time"

	"github.com/booster-sim/booster-sim/sim/trace"
)

// defaultSavings is read-only after init and shared by all cohorts.
var defaultSavings = DefaultSavingsModel()

// Cohort is one trial: a population holding every slot of an appointment
// queue, and the bump policy they trade slots under.
type Cohort struct {
	Config CohortConfig

	// People is indexed by original slot and owns every Person in the trial.
	People []*Person
	// AppointmentSlots maps final slot -> original slot of its occupant.
	// Always a permutation of [0, NumberOfDoses).
	AppointmentSlots []int
	SlotDayIndices   []int
	SlotDates        []time.Time

	// Trace is nil unless exchange tracing was requested.
	Trace *trace.CohortTrace

	rng      *PartitionedRNG
	flexers  []int // original slots of flex-willing people, set after Consider
	chainBuf []int
}

// NewCohort validates cfg and seats one person per slot in arrival order.
// Savings come from the savings stream and names from the identity stream of rng.
func NewCohort(cfg CohortConfig, rng *PartitionedRNG, identities *IdentityPool, level trace.TraceLevel) (*Cohort, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cohort config: %w", err)
	}
	if rng == nil {
		return nil, fmt.Errorf("cohort requires a random source")
	}
	if identities == nil {
		identities = DefaultIdentityPool()
	}

	n := cfg.NumberOfDoses
	c := &Cohort{
		Config:           cfg,
		People:           make([]*Person, n),
		AppointmentSlots: make([]int, n),
		SlotDayIndices:   make([]int, n),
		SlotDates:        make([]time.Time, n),
		rng:              rng,
	}
	if level.Enabled() {
		c.Trace = trace.NewCohortTrace(trace.TraceConfig{Level: level})
	}

	savingsRNG := rng.ForSubsystem(SubsystemSavings)
	identityRNG := rng.ForSubsystem(SubsystemIdentity)
	for slot := 0; slot < n; slot++ {
		p := newPerson(slot, defaultSavings, savingsRNG)
		p.Name = identities.Draw(identityRNG)
		c.People[slot] = p
		c.AppointmentSlots[slot] = slot

		day := slot / cfg.DosesPerDay
		c.SlotDayIndices[slot] = day
		c.SlotDates[slot] = cfg.FirstDoseDate.AddDate(0, 0, day)
	}
	return c, nil
}

// LetPeopleChoose runs one decision round. A single random permutation fixes
// the evaluation order: everyone states a stance in that order, then jumpers
// shop in the same order, so people evaluated early get first claim on flexers.
func (c *Cohort) LetPeopleChoose() {
	order := Shuffle(len(c.People), c.rng.ForSubsystem(SubsystemShuffle))
	behavior := c.rng.ForSubsystem(SubsystemBehavior)
	for _, i := range order {
		c.People[i].Consider(behavior)
	}
	c.indexFlexers()
	for _, i := range order {
		c.People[i].Decide(c)
	}
}

// indexFlexers records who is willing to be bumped. SHIFT_SHARE pays all of them.
func (c *Cohort) indexFlexers() {
	c.flexers = c.flexers[:0]
	for _, p := range c.People {
		if p.ChooseToFlex {
			c.flexers = append(c.flexers, p.OriginalSlot)
		}
	}
}

// FlexerCount is the number of flex-willing people in the current round.
func (c *Cohort) FlexerCount() int {
	return len(c.flexers)
}

// Occupant returns the person currently holding slot.
func (c *Cohort) Occupant(slot int) *Person {
	return c.People[c.AppointmentSlots[slot]]
}

// DayIndex maps a slot to its day offset from the first dose date.
func (c *Cohort) DayIndex(slot int) int {
	return c.SlotDayIndices[slot]
}

// SlotDate returns the calendar date of slot.
func (c *Cohort) SlotDate(slot int) time.Time {
	return c.SlotDates[slot]
}

// Totals returns the money paid by jumpers and received by flexers.
func (c *Cohort) Totals() (spent, received float64) {
	for _, p := range c.People {
		spent += p.AmountSpent
		received += p.AmountReceived
	}
	return spent, received
}

// CheckInvariants verifies that the slot assignment is a permutation consistent
// with every person's CurrentSlot, that no money total is negative, and that
// nobody is both flexing and jumping.
func (c *Cohort) CheckInvariants() error {
	n := len(c.People)
	if len(c.AppointmentSlots) != n {
		return fmt.Errorf("appointment slots has %d entries for %d people", len(c.AppointmentSlots), n)
	}
	seen := make([]bool, n)
	for slot, id := range c.AppointmentSlots {
		if id < 0 || id >= n {
			return fmt.Errorf("slot %d holds unknown person %d", slot, id)
		}
		if seen[id] {
			return fmt.Errorf("person %d is assigned to more than one slot", id)
		}
		seen[id] = true
		if got := c.People[id].CurrentSlot; got != slot {
			return fmt.Errorf("person %d sits in slot %d but records slot %d", id, slot, got)
		}
	}
	for _, p := range c.People {
		if p.AmountSpent < 0 || p.AmountReceived < 0 {
			return fmt.Errorf("person %d has negative totals (spent %f, received %f)", p.OriginalSlot, p.AmountSpent, p.AmountReceived)
		}
		if p.ChooseToFlex && p.ChooseToJump {
			return fmt.Errorf("person %d both flexed and jumped", p.OriginalSlot)
		}
	}
	return nil
}

// SlotDetail is one row of the per-trial report, in final slot order.
type SlotDetail struct {
	Slot           int       `json:"slot"`
	OriginalSlot   int       `json:"original_slot"`
	DayDelta       int       `json:"day_delta"` // positive = earlier
	SlotDelta      int       `json:"slot_delta"`
	Date           time.Time `json:"date"`
	Name           string    `json:"name"`
	Jumped         bool      `json:"jumped"`
	Flexed         bool      `json:"flexed"`
	WillingToSpend float64   `json:"willing_to_spend,omitempty"`
	AmountSpent    float64   `json:"amount_spent"`
	AmountReceived float64   `json:"amount_received"`
}

// Details lists every slot's final occupant and what they paid or received.
func (c *Cohort) Details() []SlotDetail {
	rows := make([]SlotDetail, len(c.AppointmentSlots))
	for slot := range c.AppointmentSlots {
		p := c.Occupant(slot)
		row := SlotDetail{
			Slot:           slot,
			OriginalSlot:   p.OriginalSlot,
			DayDelta:       c.DayIndex(p.OriginalSlot) - c.DayIndex(slot),
			SlotDelta:      p.SlotsMoved(),
			Date:           c.SlotDate(slot),
			Name:           p.Name,
			Jumped:         p.ChooseToJump,
			Flexed:         p.ChooseToFlex,
			AmountSpent:    p.AmountSpent,
			AmountReceived: p.AmountReceived,
		}
		if p.ChooseToJump {
			row.WillingToSpend = p.WillingToSpend
		}
		rows[slot] = row
	}
	return rows
}
