// Package trace provides exchange-trace recording for cohort analysis.
// It stores pure data types and has no dependency on sim/.
package trace

// ExchangeRecord captures one successful slot exchange.
type ExchangeRecord struct {
	Method         string
	Jumper         int   // jumper's original slot
	Counterparties []int // original slots of the flexers who moved, in chain order
	FromSlot       int   // jumper's slot before the exchange
	ToSlot         int   // jumper's slot after the exchange
	Payment        float64
	Recipients     int // number of people credited with a share of Payment
}

// StrandedRecord captures a jumper who could afford a meaningful jump but
// found no flexer within reach.
type StrandedRecord struct {
	Jumper   int // original slot
	Slot     int
	MaxSlots int // how far the jumper could afford to move
}
