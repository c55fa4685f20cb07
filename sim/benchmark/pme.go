package benchmark

import "github.com/fundsim/fundsim/sim"

// PME score band. Scores are placeholders for a Kaplan-Schoar ratio, not a
// market comparison.
const (
	pmeMin = 0.85
	pmeMax = 1.35
)

// DefaultPMEIndex is the public index named alongside PME scores.
const DefaultPMEIndex = "MSCI World"

// PMEResult is one fund's PME placeholder score.
type PMEResult struct {
	FundID       string
	Index        string
	Score        float64
	Outperformed bool // Score > 1
}

// PMEScore returns a reproducible score in [0.85, 1.35) derived only from
// the fund identifier.
func PMEScore(fundID string) float64 {
	seq := sim.NewSequence(sim.SeedFromString(fundID))
	score := sim.RoundRatio(seq.Between(pmeMin, pmeMax))
	if score >= pmeMax {
		score = sim.RoundRatio(pmeMax - 0.01)
	}
	return score
}

// PMETable scores every fund against index.
func PMETable(fundIDs []string, index string) []PMEResult {
	out := make([]PMEResult, len(fundIDs))
	for i, id := range fundIDs {
		score := PMEScore(id)
		out[i] = PMEResult{FundID: id, Index: index, Score: score, Outperformed: score > 1}
	}
	return out
}
