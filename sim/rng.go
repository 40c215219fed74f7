package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// Source is the randomness consumed by the engine: uniform draws in [0, 1).
// *rand.Rand satisfies it; tests inject scripted sequences.
type Source interface {
	Float64() float64
}

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical histograms and slot assignments.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// ForCohort derives the key for trial index i. Derivation depends only on the
// master key and the index, so trials are reproducible regardless of which
// worker runs them or in which order.
func (k SimulationKey) ForCohort(i int) SimulationKey {
	return SimulationKey(int64(k) ^ fnv1a64(SubsystemCohort(i)))
}

// === Subsystem Constants ===

const (
	// SubsystemSavings draws each person's savings at cohort creation.
	SubsystemSavings = "savings"

	// SubsystemBehavior draws per-round desires (earlier slot vs. money).
	SubsystemBehavior = "behavior"

	// SubsystemShuffle produces the decision order permutation.
	SubsystemShuffle = "shuffle"

	// SubsystemIdentity draws cosmetic names. Kept separate so that the name
	// corpus never perturbs numeric results.
	SubsystemIdentity = "identity"
)

// SubsystemCohort returns the subsystem name for trial i.
func SubsystemCohort(i int) string {
	return fmt.Sprintf("cohort_%d", i)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula: masterSeed XOR fnv1a64(subsystemName).
//
// Thread-safety: NOT thread-safe. Each cohort owns its own PartitionedRNG.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}
	rng := rand.New(rand.NewSource(int64(p.key) ^ fnv1a64(name)))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// Shuffle returns a uniformly random permutation of [0, n) using the
// Fisher-Yates walk from the top index down.
func Shuffle(n int, rng Source) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	for index := n; index > 0; index-- {
		j := int(rng.Float64() * float64(index))
		if j >= index {
			j = index - 1
		}
		order[index-1], order[j] = order[j], order[index-1]
	}
	return order
}
