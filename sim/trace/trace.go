package trace

// TraceLevel controls the verbosity of exchange tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelExchanges captures every exchange and every stranded jumper.
	TraceLevelExchanges TraceLevel = "exchanges"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelExchanges: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// Enabled reports whether the level records anything.
func (l TraceLevel) Enabled() bool {
	return l == TraceLevelExchanges
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// CohortTrace collects exchange records during one cohort trial.
type CohortTrace struct {
	Config    TraceConfig
	Exchanges []ExchangeRecord
	Stranded  []StrandedRecord
}

// NewCohortTrace creates a CohortTrace ready for recording.
func NewCohortTrace(config TraceConfig) *CohortTrace {
	return &CohortTrace{
		Config:    config,
		Exchanges: make([]ExchangeRecord, 0),
		Stranded:  make([]StrandedRecord, 0),
	}
}

// RecordExchange appends an exchange record.
func (ct *CohortTrace) RecordExchange(record ExchangeRecord) {
	ct.Exchanges = append(ct.Exchanges, record)
}

// RecordStranded appends a stranded-jumper record.
func (ct *CohortTrace) RecordStranded(record StrandedRecord) {
	ct.Stranded = append(ct.Stranded, record)
}
