package trace

// TraceSummary aggregates statistics from a CohortTrace.
type TraceSummary struct {
	TotalExchanges   int
	StrandedJumpers  int
	TotalPayment     float64
	MeanPayment      float64
	MaxPayment       float64
	MeanChainLength  float64 // flexers displaced per exchange
	MaxChainLength   int
	MethodBreakdown  map[string]int
	DisplacedFlexers int // distinct flexers moved at least once
}

// Summarize computes aggregate statistics from a CohortTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(ct *CohortTrace) *TraceSummary {
	summary := &TraceSummary{
		MethodBreakdown: make(map[string]int),
	}
	if ct == nil {
		return summary
	}

	summary.StrandedJumpers = len(ct.Stranded)
	summary.TotalExchanges = len(ct.Exchanges)
	if len(ct.Exchanges) == 0 {
		return summary
	}

	displaced := make(map[int]bool)
	totalChain := 0
	for _, e := range ct.Exchanges {
		summary.MethodBreakdown[e.Method]++
		summary.TotalPayment += e.Payment
		if e.Payment > summary.MaxPayment {
			summary.MaxPayment = e.Payment
		}
		n := len(e.Counterparties)
		totalChain += n
		if n > summary.MaxChainLength {
			summary.MaxChainLength = n
		}
		for _, slot := range e.Counterparties {
			displaced[slot] = true
		}
	}
	summary.MeanPayment = summary.TotalPayment / float64(len(ct.Exchanges))
	summary.MeanChainLength = float64(totalChain) / float64(len(ct.Exchanges))
	summary.DisplacedFlexers = len(displaced)

	return summary
}
