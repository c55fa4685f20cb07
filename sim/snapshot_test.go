package sim

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotsFor(t *testing.T, p *FundParameters, seed int64) []MetricSnapshot {
	t.Helper()
	key := NewFundKey(seed)
	flows := SynthesizeCashFlows(p, key, testAsOf)
	return ComputeSnapshots(p, key, flows, testAsOf)
}

func TestComputeSnapshots_RatioInvariants(t *testing.T) {
	for _, p := range []*FundParameters{testFund(), youngFund()} {
		snaps := snapshotsFor(t, p, 17)
		require.NotEmpty(t, snaps, p.ID)
		for _, s := range snaps {
			assert.InDelta(t, s.TVPI, s.DPI+s.RVPI, 0.0151, "%s %s", p.ID, s.Quarter)
			assert.GreaterOrEqual(t, s.Unfunded, 0.0)
			assert.InDelta(t, math.Max(0, p.Committed-s.Called), s.Unfunded, 1)
			assert.Greater(t, s.Called, 0.0)
			assert.GreaterOrEqual(t, s.NAV, 0.0)
		}
	}
}

func TestComputeSnapshots_Monotonic(t *testing.T) {
	snaps := snapshotsFor(t, testFund(), 23)
	for i := 1; i < len(snaps); i++ {
		assert.GreaterOrEqual(t, snaps[i].Called, snaps[i-1].Called, snaps[i].Quarter)
		assert.GreaterOrEqual(t, snaps[i].Distributed, snaps[i-1].Distributed, snaps[i].Quarter)
		assert.GreaterOrEqual(t, snaps[i].FeesPaid, snaps[i-1].FeesPaid, snaps[i].Quarter)
	}
}

func TestComputeSnapshots_QuarterRange(t *testing.T) {
	p := testFund()
	snaps := snapshotsFor(t, p, 2)
	require.NotEmpty(t, snaps)

	// First call lands in Q2 2015, so Q1 is skipped.
	assert.Equal(t, "2015-Q2", snaps[0].Quarter)
	assert.Equal(t, date(2015, time.June, 30), snaps[0].AsOf)

	// Last snapshot is the final quarter before the as-of year.
	last, ok := LatestSnapshot(snaps)
	require.True(t, ok)
	assert.Equal(t, date(2023, time.December, 31), last.AsOf)
	assert.Equal(t, "2023-Q4", last.Quarter)

	// One snapshot per quarter with nothing missing in between.
	assert.Len(t, snaps, 35)
}

func TestComputeSnapshots_StopsAtTermEnd(t *testing.T) {
	p := testFund()
	p.Vintage = 2005
	p.FirstClose = date(2005, time.January, 20)
	p.FinalClose = nil
	p.InvestmentPeriodEnd = nil
	p.Phase = FundPhaseTerminated
	snaps := snapshotsFor(t, p, 2)
	last, ok := LatestSnapshot(snaps)
	require.True(t, ok)
	assert.Equal(t, date(2015, time.December, 31), last.AsOf)
}

func TestComputeSnapshots_NoCalledCapitalNoSnapshots(t *testing.T) {
	p := testFund()
	assert.Empty(t, ComputeSnapshots(p, NewFundKey(1), nil, testAsOf))

	onlyEstimates := []CashFlowEvent{{Date: date(2016, time.May, 15), Type: CashFlowCapitalCall, Amount: -1e6, IsEstimate: true}}
	assert.Empty(t, ComputeSnapshots(p, NewFundKey(1), onlyEstimates, testAsOf))

	_, ok := LatestSnapshot(nil)
	assert.False(t, ok)
}

func TestComputeSnapshots_RoundedValues(t *testing.T) {
	for _, s := range snapshotsFor(t, testFund(), 31) {
		assert.Equal(t, math.Round(s.NAV), s.NAV)
		assert.Equal(t, math.Round(s.Called), s.Called)
		assert.InDelta(t, math.Round(s.TVPI*100)/100, s.TVPI, 1e-9)
		assert.InDelta(t, math.Round(s.IRR*100)/100, s.IRR, 1e-9)
	}
}

func TestGrowthMultiplier_Regimes(t *testing.T) {
	p := testFund()
	tests := []struct {
		age  float64
		want float64
	}{
		{0, 0.85},
		{1, 0.885},
		{2, 0.92},
		{5, 1.15},
		{7.5, 1.475},
		{10, 1.8},
		{14, 1.8},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, GrowthMultiplier(p, tt.age), 1e-9, "age %v", tt.age)
	}
}

func TestGrowthMultiplier_StrategyScaling(t *testing.T) {
	buyout := testFund()
	venture := testFund()
	venture.Strategy = StrategyVenture
	infra := testFund()
	infra.Strategy = StrategyInfrastructure

	// Venture deepens the J-curve and raises the peak; infrastructure flattens both.
	assert.InDelta(t, 1-0.15*1.3, GrowthMultiplier(venture, 0), 1e-9)
	assert.InDelta(t, 1-0.15*0.8, GrowthMultiplier(infra, 0), 1e-9)
	assert.Greater(t, GrowthMultiplier(venture, 10), GrowthMultiplier(buyout, 10))
	assert.Less(t, GrowthMultiplier(infra, 10), GrowthMultiplier(buyout, 10))
}

func TestGrowthMultiplier_ShortInvestmentPeriod(t *testing.T) {
	p := testFund()
	p.InvestmentPeriodYears = 2
	assert.InDelta(t, 1.15, GrowthMultiplier(p, 2), 1e-9)
	assert.InDelta(t, 1.8, GrowthMultiplier(p, 10), 1e-9)
}

func TestApproximateIRR_JCurve(t *testing.T) {
	const asymptote = 15.0
	assert.InDelta(t, -12.0, ApproximateIRR(0, asymptote), 1e-9)
	assert.InDelta(t, -6.0, ApproximateIRR(1.5, asymptote), 1e-9)
	assert.InDelta(t, 6.0, ApproximateIRR(3, asymptote), 1e-9)
	assert.InDelta(t, asymptote, ApproximateIRR(40, asymptote), 0.01)

	// Crosses zero inside the 1.5-3 year window.
	assert.Less(t, ApproximateIRR(1.6, asymptote), 0.0)
	assert.Greater(t, ApproximateIRR(2.9, asymptote), 0.0)

	// Non-decreasing with age.
	prev := ApproximateIRR(0, asymptote)
	for age := 0.25; age <= 15; age += 0.25 {
		cur := ApproximateIRR(age, asymptote)
		assert.GreaterOrEqual(t, cur, prev, "age %v", age)
		prev = cur
	}
}

func TestIRRAsymptote_WithinTiltBand(t *testing.T) {
	p := testFund()
	for seed := int64(0); seed < 20; seed++ {
		a := irrAsymptote(p, NewFundKey(seed))
		assert.True(t, a >= 15*0.7 && a < 15*1.3, "seed %d: %v", seed, a)
	}
}
