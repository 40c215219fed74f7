package sim

import "github.com/booster-sim/booster-sim/sim/trace"

// tryExchange attempts to move jumper into slot. It succeeds only when the
// occupant of slot is willing to flex; on failure nothing changes.
func (c *Cohort) tryExchange(jumper *Person, slot int) bool {
	if slot < 0 || slot >= jumper.CurrentSlot {
		return false
	}
	if !c.Occupant(slot).ChooseToFlex {
		return false
	}
	switch c.Config.BumpMethod {
	case BumpSwap:
		c.swap(jumper, slot)
	case BumpShift, BumpShiftShare:
		c.shift(jumper, slot)
	default:
		return false
	}
	return true
}

// swap trades the jumper's slot with the flexer in slot. Two parties, zero-sum.
func (c *Cohort) swap(jumper *Person, slot int) {
	flexer := c.Occupant(slot)
	from := jumper.CurrentSlot
	payment := float64(from-slot) * c.Config.BumpPrice

	jumper.CurrentSlot = slot
	flexer.CurrentSlot = from
	c.AppointmentSlots[slot] = jumper.OriginalSlot
	c.AppointmentSlots[from] = flexer.OriginalSlot

	jumper.AmountSpent += payment
	flexer.AmountReceived += payment

	if c.Trace != nil {
		c.Trace.RecordExchange(trace.ExchangeRecord{
			Method:         string(c.Config.BumpMethod),
			Jumper:         jumper.OriginalSlot,
			Counterparties: []int{flexer.OriginalSlot},
			FromSlot:       from,
			ToSlot:         slot,
			Payment:        payment,
			Recipients:     1,
		})
	}
}

// shift rotates the chain of flexers in [slot, jumper.CurrentSlot) plus the
// jumper: the jumper lands in slot and every flexer advances one link, taking
// the next member's old position. SHIFT pays each flexer for their own move;
// SHIFT_SHARE pools the payment across all flexers in the cohort.
func (c *Cohort) shift(jumper *Person, slot int) {
	from := jumper.CurrentSlot
	chain := c.chainBuf[:0]
	for s := slot; s < from; s++ {
		if c.Occupant(s).ChooseToFlex {
			chain = append(chain, s)
		}
	}
	c.chainBuf = chain

	price := c.Config.BumpPrice
	payment := float64(from-slot) * price
	pooled := c.Config.BumpMethod == BumpShiftShare

	var moved []int
	if c.Trace != nil {
		moved = make([]int, len(chain))
	}
	// Walk backwards so each read of chain[i] happens before it is overwritten.
	for i := len(chain) - 1; i >= 0; i-- {
		flexer := c.Occupant(chain[i])
		next := from
		if i+1 < len(chain) {
			next = chain[i+1]
		}
		if !pooled {
			flexer.AmountReceived += float64(next-chain[i]) * price
		}
		flexer.CurrentSlot = next
		c.AppointmentSlots[next] = flexer.OriginalSlot
		if moved != nil {
			moved[i] = flexer.OriginalSlot
		}
	}
	jumper.CurrentSlot = slot
	c.AppointmentSlots[slot] = jumper.OriginalSlot
	jumper.AmountSpent += payment

	recipients := len(chain)
	if pooled {
		recipients = c.sharePayment(payment)
	}

	if c.Trace != nil {
		c.Trace.RecordExchange(trace.ExchangeRecord{
			Method:         string(c.Config.BumpMethod),
			Jumper:         jumper.OriginalSlot,
			Counterparties: moved,
			FromSlot:       from,
			ToSlot:         slot,
			Payment:        payment,
			Recipients:     recipients,
		})
	}
}

// sharePayment splits payment evenly over every flex-willing person and
// returns how many were paid. With no flexers nothing is redistributed.
func (c *Cohort) sharePayment(payment float64) int {
	if len(c.flexers) == 0 {
		return 0
	}
	share := payment / float64(len(c.flexers))
	for _, id := range c.flexers {
		c.People[id].AmountReceived += share
	}
	return len(c.flexers)
}

// recordStranded notes a jumper who found no flexer within reach.
func (c *Cohort) recordStranded(p *Person, slot int) {
	if c.Trace == nil {
		return
	}
	c.Trace.RecordStranded(trace.StrandedRecord{
		Jumper:   p.OriginalSlot,
		Slot:     slot,
		MaxSlots: p.MaxSlotsAffordable,
	})
}
