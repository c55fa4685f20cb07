// Package sim provides the per-fund synthetic data engine for fundsim.
//
// # Reading Guide
//
// Start with these files to understand a single fund's pipeline:
//   - fund.go: FundParameters and validation
//   - cashflow.go: the cash-flow synthesizer (calls, fees, distributions, estimates)
//   - snapshot.go: quarter-end metric snapshots on the J-curve model
//   - lifecycle.go: milestone events derived from the cash flows
//
// # Determinism
//
// All randomness comes from rng.go. A fund's FundKey seeds a
// PartitionedSequence whose per-phase streams are linear-congruential
// generators, so the same (FundParameters, FundKey, as-of date) always yields
// byte-identical output. Nothing in this package reads the clock.
//
// # Architecture
//
// The sim package holds the per-fund pipeline; cross-fund work lives in
// sub-packages:
//   - sim/benchmark/: quartile ranking, PME scores, waterfalls, pacing, cohort statistics
//   - sim/universe/: parallel per-fund generation and the Universe value
//   - sim/catalog/: strict YAML fund catalogs
//
// Strategy and FundPhase are closed enumerations; unknown catalog values are
// rejected by ParseStrategy and ParseFundPhase rather than mapped to a default.
package sim
