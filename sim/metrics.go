// Derives reportable statistics from an Aggregate: who jumped, who flexed,
// what was paid and received, and how far people moved.

package sim

import (
	"fmt"
	"io"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Summary aggregates statistics across every cohort folded into an Aggregate.
// All values derive from histogram contents only.
type Summary struct {
	TotalCohorts int `json:"total_cohorts"`
	TotalPeople  int `json:"total_people"`

	Jumpers           int `json:"jumpers"`
	SuccessfulJumpers int `json:"successful_jumpers"`
	StrandedJumpers   int `json:"stranded_jumpers"`
	Flexers           int `json:"flexers"`
	BumpedFlexers     int `json:"bumped_flexers"`
	Keepers           int `json:"keepers"`

	JumpPercent        float64 `json:"jump_percent"`
	FlexPercent        float64 `json:"flex_percent"`
	KeepPercent        float64 `json:"keep_percent"`
	JumpSuccessPercent float64 `json:"jump_success_percent"`
	BumpedFlexPercent  float64 `json:"bumped_flex_percent"`

	TotalPaid          float64 `json:"total_paid"`
	AveragePayment     float64 `json:"average_payment"`
	MaxPayment         float64 `json:"max_payment"`
	AverageDaysEarlier float64 `json:"average_days_earlier"`
	MaxDaysEarlier     int     `json:"max_days_earlier"`

	TotalReceived    float64 `json:"total_received"`
	AverageCheck     float64 `json:"average_check"`
	MinCheck         float64 `json:"min_check"`
	MaxCheck         float64 `json:"max_check"`
	SharedCheck      float64 `json:"shared_check,omitempty"` // shift-share only
	AverageDelayDays float64 `json:"average_delay_days"`
	MaxDaysDelayed   int     `json:"max_days_delayed"`

	BumpMethod BumpMethod `json:"bump_method"`
}

// safeDiv returns 0 instead of NaN or Inf for empty populations.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// histogramStats returns the total count, sum of index*count, count at
// indices > 0, and the smallest and largest non-zero indices.
func histogramStats(h []int) (total, power, nonZero, minIdx, maxIdx int) {
	for i, n := range h {
		if n == 0 {
			continue
		}
		total += n
		power += i * n
		if i > 0 {
			nonZero += n
			if minIdx == 0 {
				minIdx = i
			}
			maxIdx = i
		}
	}
	return total, power, nonZero, minIdx, maxIdx
}

func lastNonZero(h []int) int {
	for i := len(h) - 1; i >= 0; i-- {
		if h[i] != 0 {
			return i
		}
	}
	return 0
}

// Summarize computes the report statistics.
func (a *Aggregate) Summarize() Summary {
	s := Summary{
		TotalCohorts:    a.TotalCohorts,
		TotalPeople:     a.TotalPeople(),
		StrandedJumpers: a.StrandedJumpers,
		BumpMethod:      a.BumpMethod,
	}
	if !a.Initialized() {
		return s
	}
	price := a.BumpPrice
	perDay := float64(a.DosesPerDay)

	jumpers, jumpPower, nzJumpers, _, maxJump := histogramStats(a.JumpSlotHistogram)
	flexers, flexPower, nzFlexers, minFlex, maxFlex := histogramStats(a.FlexSlotHistogram)

	s.Jumpers = jumpers
	s.SuccessfulJumpers = nzJumpers
	s.Flexers = flexers
	s.BumpedFlexers = nzFlexers
	s.Keepers = s.TotalPeople - jumpers - flexers

	people := float64(s.TotalPeople)
	s.JumpPercent = 100 * safeDiv(float64(jumpers), people)
	s.FlexPercent = 100 * safeDiv(float64(flexers), people)
	s.KeepPercent = 100 * safeDiv(float64(s.Keepers), people)
	s.JumpSuccessPercent = 100 * safeDiv(float64(nzJumpers), float64(jumpers))
	s.BumpedFlexPercent = 100 * safeDiv(float64(nzFlexers), float64(flexers))

	s.TotalPaid = float64(jumpPower) * price
	s.AveragePayment = safeDiv(s.TotalPaid, float64(nzJumpers))
	s.MaxPayment = float64(maxJump) * price
	s.AverageDaysEarlier = safeDiv(float64(jumpPower), perDay*float64(nzJumpers))
	s.MaxDaysEarlier = lastNonZero(a.JumpDaysHistogram)

	if a.BumpMethod == BumpShiftShare {
		// Every flexer gets the same pooled check whether or not they moved.
		if flexers > 0 {
			s.TotalReceived = s.TotalPaid
		}
		s.SharedCheck = safeDiv(s.TotalPaid, float64(flexers))
		s.AverageCheck = s.SharedCheck
		s.MinCheck = s.SharedCheck
		s.MaxCheck = s.SharedCheck
	} else {
		s.TotalReceived = float64(flexPower) * price
		s.AverageCheck = safeDiv(s.TotalReceived, float64(nzFlexers))
		s.MinCheck = float64(minFlex) * price
		s.MaxCheck = float64(maxFlex) * price
	}
	s.AverageDelayDays = safeDiv(float64(flexPower), float64(flexers)*perDay)
	s.MaxDaysDelayed = lastNonZero(a.FlexDaysHistogram)
	return s
}

// newPrinter formats numbers with thousands separators.
func newPrinter() *message.Printer {
	return message.NewPrinter(language.AmericanEnglish)
}

// dollars renders an amount rounded to whole dollars, e.g. "$1,250".
func dollars(p *message.Printer, amount float64) string {
	return p.Sprintf("$%d", int64(math.Round(amount)))
}

// Print writes the human-readable report.
func (s Summary) Print(w io.Writer) {
	p := newPrinter()
	_, _ = fmt.Fprintln(w, "=== Simulation Results ===")
	_, _ = p.Fprintf(w, "Cohorts simulated    : %d\n", s.TotalCohorts)
	_, _ = p.Fprintf(w, "People simulated     : %d\n", s.TotalPeople)
	_, _ = fmt.Fprintf(w, "Bump method          : %s\n", s.BumpMethod)
	_, _ = fmt.Fprintln(w)

	_, _ = p.Fprintf(w, "Get it early : %.2f%% (%d people) chose to pay for an earlier date.\n", s.JumpPercent, s.Jumpers)
	_, _ = fmt.Fprintf(w, "               Of those, %.0f%% were able to.\n", s.JumpSuccessPercent)
	_, _ = fmt.Fprintf(w, "               Average payment was %s for %.0f days. Max payment: %s (%d days).\n",
		dollars(p, s.AveragePayment), s.AverageDaysEarlier, dollars(p, s.MaxPayment), s.MaxDaysEarlier)

	_, _ = p.Fprintf(w, "I'm flexible : %.2f%% (%d people) chose to let others go first.\n", s.FlexPercent, s.Flexers)
	if s.BumpMethod == BumpShiftShare {
		_, _ = fmt.Fprintf(w, "               Each got a check for %s at vaccination time.\n", dollars(p, s.SharedCheck))
	} else {
		_, _ = fmt.Fprintf(w, "               Of those, %.3f%% received a check.\n", s.BumpedFlexPercent)
		_, _ = fmt.Fprintf(w, "               Average check: %s, biggest: %s, smallest: %s.\n",
			dollars(p, s.AverageCheck), dollars(p, s.MaxCheck), dollars(p, s.MinCheck))
	}
	_, _ = fmt.Fprintf(w, "               No one was delayed more than %d days. Average delay: %.0f days.\n",
		s.MaxDaysDelayed, s.AverageDelayDays)

	_, _ = p.Fprintf(w, "Kept date    : %.2f%% (%d people) kept their original date.\n", s.KeepPercent, s.Keepers)
}
