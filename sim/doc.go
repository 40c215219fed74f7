// Package sim provides the Monte Carlo engine for a priority-queue
// reallocation market: a fixed queue of appointment slots in which
// time-motivated people pay money-motivated people to move earlier.
//
// # Reading Guide
//
// Start with these files to understand one trial:
//   - person.go: a person's stance (flex, jump, keep) and the jumper's search
//   - cohort.go: the slot assignment, the decision round, and invariant checks
//   - exchange.go: the SWAP, SHIFT, and SHIFT_SHARE bump methods
//
// Then the multi-trial side:
//   - aggregate.go: movement histograms folded across cohorts
//   - metrics.go: summary statistics derived from the histograms
//   - runner.go: parallel trials, result JSON
//
// # Randomness
//
// Every trial owns a PartitionedRNG derived from the master seed and the trial
// index. Savings, behavior, decision order, and names each draw from their own
// stream, so identical seeds reproduce identical histograms regardless of the
// worker count.
//
// Exchange-level records live in sim/trace, which has no dependency on sim.
package sim
