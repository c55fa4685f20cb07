package sim

import (
	"fmt"
	"hash/fnv"
)

// === FundKey ===

// FundKey uniquely identifies a reproducible generation run for one fund.
// Two runs with the same FundKey and identical FundParameters
// MUST produce bit-for-bit identical results.
type FundKey int64

// NewFundKey creates a FundKey from a seed value.
func NewFundKey(seed int64) FundKey {
	return FundKey(seed)
}

// === Sequence ===

// LCG constants. The recurrence is fixed so that generated datasets stay
// byte-identical across releases.
const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// NextState advances an LCG state and returns the value in [0, 1) together
// with the new state. Pure: no hidden state, safe from any goroutine.
func NextState(state int64) (float64, int64) {
	next := (normalizeState(state)*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(next) / lcgModulus, next
}

// normalizeState maps any int64 onto [0, lcgModulus).
func normalizeState(state int64) int64 {
	s := state % lcgModulus
	if s < 0 {
		s += lcgModulus
	}
	return s
}

// Sequence is a seeded linear-congruential source.
//
// Thread-safety: NOT thread-safe. Each fund pipeline owns its sequences.
type Sequence struct {
	state int64
}

// NewSequence creates a Sequence from a seed. Any int64 is accepted.
func NewSequence(seed int64) *Sequence {
	return &Sequence{state: normalizeState(seed)}
}

// Next returns the next value in [0, 1).
func (s *Sequence) Next() float64 {
	v, next := NextState(s.state)
	s.state = next
	return v
}

// Between returns a value in [lo, hi).
func (s *Sequence) Between(lo, hi float64) float64 {
	return lo + s.Next()*(hi-lo)
}

// Jitter returns a multiplicative factor in [1-pct, 1+pct).
func (s *Sequence) Jitter(pct float64) float64 {
	return 1 + (s.Next()*2-1)*pct
}

// IntBetween returns an integer in [lo, hi]. Returns lo when hi <= lo.
func (s *Sequence) IntBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + int(s.Next()*float64(hi-lo+1))
}

// State returns the current internal state.
func (s *Sequence) State() int64 {
	return s.state
}

// === Phase Constants ===

const (
	// PhaseCalls is the stream for capital calls.
	// Uses the fund seed directly so a fund's call schedule only depends on its seed.
	PhaseCalls = "calls"

	// PhaseFees is the stream for management fees and fund expenses.
	PhaseFees = "fees"

	// PhaseDistributions is the stream for historical distributions.
	PhaseDistributions = "distributions"

	// PhaseEstimates is the stream for forward-looking estimates.
	PhaseEstimates = "estimates"

	// PhasePerformance is the stream for per-fund performance tilt.
	PhasePerformance = "performance"
)

// PhaseYear returns the stream name for a phase restricted to one calendar year.
func PhaseYear(phase string, year int) string {
	return fmt.Sprintf("%s_%d", phase, year)
}

// === PartitionedSequence ===

// PartitionedSequence provides deterministic, isolated sequences per synthesis phase.
//
// Derivation formula:
//   - For PhaseCalls: uses the fund seed directly
//   - For all other phases: seed XOR fnv1a64(phaseName)
//
// Drawing from one phase never shifts the values of another, so adding a
// new kind of flow does not reshuffle existing ones.
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedSequence struct {
	key    FundKey
	phases map[string]*Sequence
}

// NewPartitionedSequence creates a PartitionedSequence from a FundKey.
func NewPartitionedSequence(key FundKey) *PartitionedSequence {
	return &PartitionedSequence{
		key:    key,
		phases: make(map[string]*Sequence),
	}
}

// ForPhase returns a deterministically-seeded Sequence for the named phase.
// The same phase name always returns the same *Sequence instance (cached).
// Never returns nil.
func (p *PartitionedSequence) ForPhase(name string) *Sequence {
	if seq, ok := p.phases[name]; ok {
		return seq
	}

	var derivedSeed int64
	if name == PhaseCalls {
		derivedSeed = int64(p.key)
	} else {
		derivedSeed = int64(p.key) ^ fnv1a64(name)
	}

	seq := NewSequence(derivedSeed)
	p.phases[name] = seq
	return seq
}

// Key returns the FundKey used to create this PartitionedSequence.
func (p *PartitionedSequence) Key() FundKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}

// SeedFromString derives a stable seed from an identifier.
func SeedFromString(s string) int64 {
	return fnv1a64(s)
}
