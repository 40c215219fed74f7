package sim

import "math"

// Person occupies one appointment slot in a Cohort.
type Person struct {
	OriginalSlot int // slot assigned at creation; never changes
	CurrentSlot  int // moved only by Cohort exchanges

	Name    string
	Savings float64 // total cash the person could possibly spend

	// 1.0 = "want it ASAP", 0.0 = "don't care when".
	DesireForEarlierSlot float64
	// 1.0 = "dangerously broke", 0.0 = "fine for money".
	DesireForMoney float64

	ChooseToFlex   bool
	ChooseToJump   bool
	WillingToSpend float64 // set only for jump-leaning people

	AmountSpent    float64
	AmountReceived float64

	// MaxSlotsAffordable is how far the person could afford to move, capped
	// at their own slot. Zero unless jump-leaning.
	MaxSlotsAffordable int
}

// newPerson creates the occupant of slot with a savings balance drawn from model.
func newPerson(slot int, model *SavingsModel, savingsRNG Source) *Person {
	return &Person{
		OriginalSlot: slot,
		CurrentSlot:  slot,
		Savings:      model.Sample(savingsRNG),
	}
}

// Consider draws this round's preferences and records whether the person
// checks the "bump me" box. Must run for everyone before anyone shops.
func (p *Person) Consider(rng Source) {
	p.DesireForEarlierSlot = rng.Float64()
	p.DesireForMoney = rng.Float64()
	p.ChooseToFlex = false
	p.ChooseToJump = false
	p.WillingToSpend = 0
	p.MaxSlotsAffordable = 0
	if p.moneyMotivated() && p.DesireForMoney > FlexThreshold {
		p.ChooseToFlex = true
	}
}

func (p *Person) moneyMotivated() bool {
	return p.DesireForMoney > p.DesireForEarlierSlot
}

// Decide lets a time-motivated person shop for an earlier slot in c.
// Money-motivated people and flexers do nothing.
func (p *Person) Decide(c *Cohort) {
	if p.ChooseToFlex || p.moneyMotivated() {
		return
	}
	p.WillingToSpend = p.Savings * 0.01 * (MaxSavingsPercent * p.DesireForEarlierSlot)

	maxSlots := p.CurrentSlot
	if price := c.Config.BumpPrice; price > 0 {
		if affordable := math.Floor(p.WillingToSpend / price); affordable < float64(maxSlots) {
			maxSlots = int(affordable)
		}
	}
	p.MaxSlotsAffordable = maxSlots

	minJump := MinimumDaysToJump * c.Config.DosesPerDay
	if maxSlots < minJump {
		return
	}

	p.ChooseToJump = true
	from := p.CurrentSlot
	for slot := p.CurrentSlot - maxSlots; slot <= p.CurrentSlot-minJump; slot++ {
		if c.tryExchange(p, slot) {
			return
		}
	}
	c.recordStranded(p, from)
}

// SlotsMoved is the signed displacement: positive for earlier, negative for later.
func (p *Person) SlotsMoved() int {
	return p.OriginalSlot - p.CurrentSlot
}
