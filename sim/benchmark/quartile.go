package benchmark

import (
	"math"

	"github.com/fundsim/fundsim/sim"
)

// QuartileRanking is one fund's standing inside its cohort.
type QuartileRanking struct {
	FundID       string
	Cohort       CohortKey
	CohortSize   int
	Rank         int     // 1 = best IRR
	Percentile   float64 // 0 = best, 1 = worst
	Quartile     int     // 1..4
	IRR          float64
	CohortMedian float64
	MedianDelta  float64 // percent of |median|
}

// RankCohorts ranks each fund by IRR within its (strategy, vintage) cohort.
// Output is ordered by cohort, then by rank.
func RankCohorts(perf []FundPerformance, policy MedianPolicy) []QuartileRanking {
	var out []QuartileRanking
	for _, c := range GroupCohorts(perf) {
		n := len(c.Members)
		median := Median(c.IRRs(), policy)
		for i, m := range c.Members {
			pct := 0.0
			if n > 1 {
				pct = float64(i) / float64(n-1)
			}
			out = append(out, QuartileRanking{
				FundID:       m.FundID,
				Cohort:       c.Key,
				CohortSize:   n,
				Rank:         i + 1,
				Percentile:   sim.RoundRatio(pct),
				Quartile:     QuartileOf(pct),
				IRR:          m.IRR,
				CohortMedian: sim.RoundRatio(median),
				MedianDelta:  sim.RoundRatio(MedianDelta(m.IRR, median)),
			})
		}
	}
	return out
}

// QuartileOf maps a 0..1 percentile (0 = best) to a quartile 1..4.
func QuartileOf(percentile float64) int {
	switch {
	case percentile < 0.25:
		return 1
	case percentile < 0.5:
		return 2
	case percentile < 0.75:
		return 3
	default:
		return 4
	}
}

// MedianDelta is irr's distance from median as a percentage of |median|.
// Zero when the median is zero.
func MedianDelta(irr, median float64) float64 {
	if median == 0 {
		return 0
	}
	return (irr - median) / math.Abs(median) * 100
}

// RankingsByFund indexes rankings by fund ID.
func RankingsByFund(rankings []QuartileRanking) map[string]QuartileRanking {
	m := make(map[string]QuartileRanking, len(rankings))
	for _, r := range rankings {
		m[r.FundID] = r
	}
	return m
}
