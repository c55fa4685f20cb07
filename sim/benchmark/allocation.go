package benchmark

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/fundsim/fundsim/sim"
)

// AllocationDimension is the axis a target is set along.
type AllocationDimension string

const (
	DimensionStrategy  AllocationDimension = "strategy"
	DimensionGeography AllocationDimension = "geography"
	DimensionVintage   AllocationDimension = "vintage"
)

// AllocationTarget is one row of a portfolio allocation policy.
// Percentages are 0..100.
type AllocationTarget struct {
	Dimension  AllocationDimension `json:"dimension" yaml:"dimension"`
	Category   string              `json:"category" yaml:"category"`
	TargetPct  float64             `json:"target_pct" yaml:"target_pct"`
	ActualPct  float64             `json:"actual_pct" yaml:"actual_pct"`
	NAV        float64             `json:"nav" yaml:"nav"`
	Commitment float64             `json:"commitment" yaml:"commitment"`
}

// DefaultAllocationTargets returns the static reference policy.
func DefaultAllocationTargets() []AllocationTarget {
	return []AllocationTarget{
		{DimensionStrategy, "buyout", 35, 38.2, 382_000_000, 450_000_000},
		{DimensionStrategy, "growth", 15, 13.1, 131_000_000, 160_000_000},
		{DimensionStrategy, "venture", 10, 12.4, 124_000_000, 110_000_000},
		{DimensionStrategy, "infrastructure", 15, 14.0, 140_000_000, 175_000_000},
		{DimensionStrategy, "real_estate", 10, 8.3, 83_000_000, 120_000_000},
		{DimensionStrategy, "private_credit", 10, 9.5, 95_000_000, 130_000_000},
		{DimensionStrategy, "secondaries", 5, 4.5, 45_000_000, 55_000_000},
		{DimensionGeography, "north_america", 50, 53.6, 536_000_000, 610_000_000},
		{DimensionGeography, "europe", 30, 28.9, 289_000_000, 355_000_000},
		{DimensionGeography, "asia_pacific", 15, 13.2, 132_000_000, 175_000_000},
		{DimensionGeography, "rest_of_world", 5, 4.3, 43_000_000, 60_000_000},
		{DimensionVintage, "2015-2017", 30, 34.5, 345_000_000, 330_000_000},
		{DimensionVintage, "2018-2020", 40, 41.0, 410_000_000, 460_000_000},
		{DimensionVintage, "2021-2023", 30, 24.5, 245_000_000, 410_000_000},
	}
}

// Holding is one fund's current exposure, in the fund's currency.
type Holding struct {
	FundID     string
	Strategy   sim.Strategy
	Currency   string
	NAV        float64
	Commitment float64
}

// StrategyAllocation replaces the actual side of the strategy rows in
// targets with NAV shares computed from the holdings denominated in
// currency. Amounts are never converted, so holdings in other currencies
// are left out. Rows on other dimensions pass through unchanged.
// Strategies held but missing from targets are appended with a zero
// target, in strategy order.
func StrategyAllocation(targets []AllocationTarget, holdings []Holding, currency string) []AllocationTarget {
	nav := map[string]float64{}
	commit := map[string]float64{}
	totalNAV := 0.0
	for _, h := range holdings {
		if h.Currency != currency {
			logrus.Debugf("fund %q: %s holding left out of %s allocation", h.FundID, h.Currency, currency)
			continue
		}
		nav[string(h.Strategy)] += h.NAV
		commit[string(h.Strategy)] += h.Commitment
		totalNAV += h.NAV
	}

	out := make([]AllocationTarget, 0, len(targets))
	seen := map[string]bool{}
	for _, t := range targets {
		if t.Dimension == DimensionStrategy {
			seen[t.Category] = true
			t = actualize(t, nav[t.Category], commit[t.Category], totalNAV)
		}
		out = append(out, t)
	}

	var extra []string
	for cat := range nav {
		if !seen[cat] {
			extra = append(extra, cat)
		}
	}
	sort.Strings(extra)
	for _, cat := range extra {
		out = append(out, actualize(AllocationTarget{Dimension: DimensionStrategy, Category: cat}, nav[cat], commit[cat], totalNAV))
	}
	return out
}

func actualize(t AllocationTarget, nav, commitment, totalNAV float64) AllocationTarget {
	t.NAV = sim.RoundAmount(nav)
	t.Commitment = sim.RoundAmount(commitment)
	t.ActualPct = 0
	if totalNAV > 0 {
		t.ActualPct = sim.RoundRatio(nav / totalNAV * 100)
	}
	return t
}

// DriftStatus classifies a row against its tolerance band.
type DriftStatus string

const (
	DriftOnTarget    DriftStatus = "on_target"
	DriftOverweight  DriftStatus = "overweight"
	DriftUnderweight DriftStatus = "underweight"
)

// AllocationDrift is a row with its drift from target in percentage points.
type AllocationDrift struct {
	AllocationTarget `yaml:",inline"`
	DriftPct         float64     `json:"drift_pct" yaml:"drift_pct"`
	Status           DriftStatus `json:"status" yaml:"status"`
}

// ComputeDrift returns actual minus target for every row. Rows whose
// absolute drift exceeds tolerancePct are over- or underweight.
func ComputeDrift(rows []AllocationTarget, tolerancePct float64) []AllocationDrift {
	out := make([]AllocationDrift, len(rows))
	for i, r := range rows {
		drift := sim.RoundRatio(r.ActualPct - r.TargetPct)
		status := DriftOnTarget
		switch {
		case math.Abs(drift) <= tolerancePct:
		case drift > 0:
			status = DriftOverweight
		default:
			status = DriftUnderweight
		}
		out[i] = AllocationDrift{AllocationTarget: r, DriftPct: drift, Status: status}
	}
	return out
}
