package sim

import "fmt"

// Aggregate folds many finished cohorts into movement histograms.
// Histograms are indexed by magnitude of movement: slots for the *Slot*
// histograms and whole days for the *Days* histograms.
type Aggregate struct {
	NumberOfDoses int        `json:"number_of_doses"`
	DosesPerDay   int        `json:"doses_per_day"`
	NumberOfDays  int        `json:"number_of_days"`
	BumpPrice     float64    `json:"bump_price"`
	BumpMethod    BumpMethod `json:"bump_method"`

	TotalCohorts int `json:"total_cohorts"`

	JumpSlotHistogram []int `json:"jump_slot_histogram"`
	FlexSlotHistogram []int `json:"flex_slot_histogram"`
	JumpDaysHistogram []int `json:"jump_days_histogram"`
	FlexDaysHistogram []int `json:"flex_days_histogram"`

	// StrandedJumpers counts jumpers who moved zero slots. They are also in
	// bucket 0 of the jump histograms.
	StrandedJumpers int `json:"stranded_jumpers"`
}

// NewAggregate returns an empty aggregate; it takes its shape from the first cohort.
func NewAggregate() *Aggregate {
	return &Aggregate{}
}

func (a *Aggregate) initialize(cfg CohortConfig) {
	a.NumberOfDoses = cfg.NumberOfDoses
	a.DosesPerDay = cfg.DosesPerDay
	a.NumberOfDays = cfg.NumberOfDays()
	a.BumpPrice = cfg.BumpPrice
	a.BumpMethod = cfg.BumpMethod
	a.JumpSlotHistogram = make([]int, a.NumberOfDoses)
	a.FlexSlotHistogram = make([]int, a.NumberOfDoses)
	a.JumpDaysHistogram = make([]int, a.NumberOfDays)
	a.FlexDaysHistogram = make([]int, a.NumberOfDays)
}

// Initialized reports whether any cohort has been folded in. It is derived
// from the histograms so that an aggregate decoded from JSON keeps its state.
func (a *Aggregate) Initialized() bool {
	return len(a.JumpSlotHistogram) > 0
}

func (a *Aggregate) checkShape(cfg CohortConfig) error {
	if cfg.NumberOfDoses != a.NumberOfDoses || cfg.DosesPerDay != a.DosesPerDay ||
		cfg.BumpPrice != a.BumpPrice || cfg.BumpMethod != a.BumpMethod {
		return fmt.Errorf("cohort shape (doses=%d, per-day=%d, price=%g, method=%s) does not match aggregate (doses=%d, per-day=%d, price=%g, method=%s)",
			cfg.NumberOfDoses, cfg.DosesPerDay, cfg.BumpPrice, cfg.BumpMethod,
			a.NumberOfDoses, a.DosesPerDay, a.BumpPrice, a.BumpMethod)
	}
	return nil
}

// shape reconstructs the cohort config the aggregate was sized for.
func (a *Aggregate) shape() CohortConfig {
	return CohortConfig{
		NumberOfDoses: a.NumberOfDoses,
		DosesPerDay:   a.DosesPerDay,
		BumpPrice:     a.BumpPrice,
		BumpMethod:    a.BumpMethod,
	}
}

// Accumulate adds every person of a finished cohort to the histograms.
// A cohort whose configuration differs from earlier ones is rejected.
func (a *Aggregate) Accumulate(c *Cohort) error {
	if !a.Initialized() {
		a.initialize(c.Config)
	} else if err := a.checkShape(c.Config); err != nil {
		return err
	}
	a.TotalCohorts++
	for _, p := range c.People {
		switch {
		case p.ChooseToJump:
			slots := p.OriginalSlot - p.CurrentSlot
			a.JumpSlotHistogram[slots]++
			a.JumpDaysHistogram[slots/a.DosesPerDay]++
			if slots == 0 {
				a.StrandedJumpers++
			}
		case p.ChooseToFlex:
			slots := p.CurrentSlot - p.OriginalSlot
			a.FlexSlotHistogram[slots]++
			a.FlexDaysHistogram[slots/a.DosesPerDay]++
		}
	}
	return nil
}

// Merge adds other's counts into a. Summation is index-aligned, so partial
// aggregates from parallel workers can be merged in any order.
func (a *Aggregate) Merge(other *Aggregate) error {
	if other == nil || !other.Initialized() {
		return nil
	}
	if !a.Initialized() {
		a.initialize(other.shape())
	} else if err := a.checkShape(other.shape()); err != nil {
		return err
	}
	if err := a.checkLengths(other); err != nil {
		return err
	}
	a.TotalCohorts += other.TotalCohorts
	a.StrandedJumpers += other.StrandedJumpers
	addInto(a.JumpSlotHistogram, other.JumpSlotHistogram)
	addInto(a.FlexSlotHistogram, other.FlexSlotHistogram)
	addInto(a.JumpDaysHistogram, other.JumpDaysHistogram)
	addInto(a.FlexDaysHistogram, other.FlexDaysHistogram)
	return nil
}

// checkLengths guards against a decoded aggregate whose histograms were
// truncated or padded.
func (a *Aggregate) checkLengths(other *Aggregate) error {
	if len(other.JumpSlotHistogram) != len(a.JumpSlotHistogram) ||
		len(other.FlexSlotHistogram) != len(a.FlexSlotHistogram) ||
		len(other.JumpDaysHistogram) != len(a.JumpDaysHistogram) ||
		len(other.FlexDaysHistogram) != len(a.FlexDaysHistogram) {
		return fmt.Errorf("histogram lengths (%d, %d, %d, %d) do not match aggregate (%d, %d, %d, %d)",
			len(other.JumpSlotHistogram), len(other.FlexSlotHistogram),
			len(other.JumpDaysHistogram), len(other.FlexDaysHistogram),
			len(a.JumpSlotHistogram), len(a.FlexSlotHistogram),
			len(a.JumpDaysHistogram), len(a.FlexDaysHistogram))
	}
	return nil
}

func addInto(dst, src []int) {
	for i, v := range src {
		dst[i] += v
	}
}

// TotalPeople is the number of person-trials folded in.
func (a *Aggregate) TotalPeople() int {
	return a.NumberOfDoses * a.TotalCohorts
}
