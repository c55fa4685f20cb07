// Package benchmark holds the cross-fund analytics: cohort ranking, PME
// scores, waterfall decomposition, pacing projections and allocation drift.
// Every function is pure and operates on already generated data.
package benchmark

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/fundsim/fundsim/sim"
)

// FundPerformance is the per-fund input to cohort analytics.
type FundPerformance struct {
	FundID   string
	Strategy sim.Strategy
	Vintage  int
	IRR      float64 // percent
}

// CohortKey identifies a (strategy, vintage) peer group.
type CohortKey struct {
	Strategy sim.Strategy
	Vintage  int
}

func (k CohortKey) String() string {
	return fmt.Sprintf("%s/%d", k.Strategy, k.Vintage)
}

// Cohort is one peer group with its members ordered by IRR descending.
// Ties are broken by fund ID so ordering is stable across runs.
type Cohort struct {
	Key     CohortKey
	Members []FundPerformance
}

// GroupCohorts partitions funds into (strategy, vintage) cohorts.
// Cohorts are returned ordered by strategy then vintage.
func GroupCohorts(perf []FundPerformance) []Cohort {
	byKey := map[CohortKey][]FundPerformance{}
	for _, f := range perf {
		k := CohortKey{Strategy: f.Strategy, Vintage: f.Vintage}
		byKey[k] = append(byKey[k], f)
	}

	cohorts := make([]Cohort, 0, len(byKey))
	for k, members := range byKey {
		sort.SliceStable(members, func(i, j int) bool {
			if members[i].IRR != members[j].IRR {
				return members[i].IRR > members[j].IRR
			}
			return members[i].FundID < members[j].FundID
		})
		cohorts = append(cohorts, Cohort{Key: k, Members: members})
	}
	sort.Slice(cohorts, func(i, j int) bool {
		a, b := cohorts[i].Key, cohorts[j].Key
		if a.Strategy != b.Strategy {
			return a.Strategy < b.Strategy
		}
		return a.Vintage < b.Vintage
	})
	return cohorts
}

// IRRs returns the members' IRRs in ascending order.
func (c Cohort) IRRs() []float64 {
	irrs := make([]float64, len(c.Members))
	for i, m := range c.Members {
		irrs[i] = m.IRR
	}
	sort.Float64s(irrs)
	return irrs
}

// MedianPolicy selects how an even-sized cohort's median is taken.
type MedianPolicy int

const (
	// UpperMedian takes the upper of the two middle values.
	UpperMedian MedianPolicy = iota
	// AverageMedian averages the two middle values.
	AverageMedian
)

// Median returns the median of ascending-sorted values, 0 for an empty slice.
func Median(sorted []float64, policy MedianPolicy) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 || policy == UpperMedian {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Percentile linearly interpolates the p-th percentile (0..100) of
// ascending-sorted data. Returns 0 for empty data.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	rank := p / 100.0 * float64(n-1)
	lowerIdx := int(math.Floor(rank))
	upperIdx := int(math.Ceil(rank))
	if upperIdx >= n {
		return sorted[n-1]
	}
	if lowerIdx == upperIdx {
		return sorted[lowerIdx]
	}
	return sorted[lowerIdx] + (sorted[upperIdx]-sorted[lowerIdx])*(rank-float64(lowerIdx))
}

// CohortStats summarises one cohort's IRR distribution.
type CohortStats struct {
	Cohort         CohortKey
	Count          int
	MeanIRR        float64
	StdDevIRR      float64 // sample standard deviation; 0 for single-member cohorts
	MedianIRR      float64
	TopQuartileIRR float64 // 75th percentile
	BestIRR        float64
	WorstIRR       float64
}

// SummarizeCohorts computes per-cohort IRR statistics.
func SummarizeCohorts(perf []FundPerformance, policy MedianPolicy) []CohortStats {
	cohorts := GroupCohorts(perf)
	out := make([]CohortStats, 0, len(cohorts))
	for _, c := range cohorts {
		irrs := c.IRRs()
		cs := CohortStats{
			Cohort:         c.Key,
			Count:          len(irrs),
			MeanIRR:        sim.RoundRatio(stat.Mean(irrs, nil)),
			MedianIRR:      sim.RoundRatio(Median(irrs, policy)),
			TopQuartileIRR: sim.RoundRatio(Percentile(irrs, 75)),
			BestIRR:        irrs[len(irrs)-1],
			WorstIRR:       irrs[0],
		}
		if len(irrs) > 1 {
			cs.StdDevIRR = sim.RoundRatio(stat.StdDev(irrs, nil))
		}
		out = append(out, cs)
	}
	return out
}
