package sim

import (
	"math"
	"time"
)

// MetricSnapshot is a fund's position at one quarter end.
type MetricSnapshot struct {
	FundID      string
	AsOf        time.Time
	Quarter     string
	Called      float64
	Distributed float64
	FeesPaid    float64 // management fees and fund expenses
	NAV         float64
	Unfunded    float64
	TVPI        float64
	DPI         float64
	RVPI        float64
	IRR         float64 // percent since inception
}

// J-curve anchor points for the growth multiplier.
const (
	earlyRegimeYears = 2.0
	multiplierStart  = 0.85
	multiplierEarly  = 0.92
	multiplierIPEnd  = 1.15
	multiplierMature = 1.8

	distributedDrag = 0.3 // share of distributions netted out of NAV
)

// IRR curve anchor points, in percent and years.
const (
	irrBaseAsymptote = 15.0
	irrTiltMin       = 0.7
	irrTiltMax       = 1.3
	irrSteepEndYears = 1.5
	irrCrossEndYears = 3.0
	irrFloor         = -12.0
	irrSteepEnd      = -6.0
	irrCrossShare    = 0.4 // of the asymptote reached at irrCrossEndYears
	irrApproachYears = 3.0 // e-folding time towards the asymptote
)

// ComputeSnapshots walks quarter ends from the vintage year through
// min(asOfYear-1, vintage+term) and reduces the cash-flow prefix at each.
// Estimates are ignored. Quarters with nothing called yet are skipped.
func ComputeSnapshots(p *FundParameters, key FundKey, flows []CashFlowEvent, asOf time.Time) []MetricSnapshot {
	lastYear := min(asOf.Year()-1, p.LastYear())
	asymptote := irrAsymptote(p, key)
	historical := HistoricalFlows(flows)

	var snaps []MetricSnapshot
	for year := p.Vintage; year <= lastYear; year++ {
		for q := 1; q <= 4; q++ {
			qe := quarterEnd(year, q)
			tot := SumCashFlows(historical, qe)
			if tot.Called <= 0 {
				continue
			}

			age := ageYears(p.FirstClose, qe)
			mult := GrowthMultiplier(p, age)
			nav := math.Max(0, tot.Called*mult-tot.Distributed*distributedDrag)

			snaps = append(snaps, MetricSnapshot{
				FundID:      p.ID,
				AsOf:        qe,
				Quarter:     QuarterLabel(qe),
				Called:      RoundAmount(tot.Called),
				Distributed: RoundAmount(tot.Distributed),
				FeesPaid:    RoundAmount(tot.Fees + tot.Expenses),
				NAV:         RoundAmount(nav),
				Unfunded:    RoundAmount(math.Max(0, p.Committed-tot.Called)),
				TVPI:        RoundRatio((tot.Distributed + nav) / tot.Called),
				DPI:         RoundRatio(tot.Distributed / tot.Called),
				RVPI:        RoundRatio(nav / tot.Called),
				IRR:         RoundRatio(ApproximateIRR(age, asymptote)),
			})
		}
	}
	return snaps
}

// GrowthMultiplier is the J-curve value multiplier on called capital at a
// given fund age, already re-centred on 1.0 and scaled by strategy.
func GrowthMultiplier(p *FundParameters, age float64) float64 {
	ip := float64(p.InvestmentPeriodYears)
	term := float64(p.FundTermYears)

	var raw float64
	switch {
	case age < earlyRegimeYears:
		raw = lerp(multiplierStart, multiplierEarly, age/earlyRegimeYears)
	case age < ip:
		raw = lerp(multiplierEarly, multiplierIPEnd, (age-earlyRegimeYears)/(ip-earlyRegimeYears))
	default:
		// Funds with an investment period of two years or less enter this
		// regime straight from the early one.
		start := math.Max(ip, earlyRegimeYears)
		remaining := term - start
		frac := 1.0
		if remaining > 0 {
			frac = (age - start) / remaining
		}
		raw = lerp(multiplierIPEnd, multiplierMature, frac)
	}
	return 1 + (raw-1)*p.Strategy.Profile().NAVFactor
}

// ApproximateIRR is the hand-tuned J-curve IRR in percent. It is not derived
// from the cash flows.
func ApproximateIRR(age, asymptote float64) float64 {
	crossEnd := irrCrossShare * asymptote
	switch {
	case age < irrSteepEndYears:
		return lerp(irrFloor, irrSteepEnd, age/irrSteepEndYears)
	case age < irrCrossEndYears:
		return lerp(irrSteepEnd, crossEnd, (age-irrSteepEndYears)/(irrCrossEndYears-irrSteepEndYears))
	default:
		return asymptote - (asymptote-crossEnd)*math.Exp(-(age-irrCrossEndYears)/irrApproachYears)
	}
}

// irrAsymptote is the fund's long-run IRR: the base asymptote scaled by
// strategy and tilted once per fund from the performance stream.
func irrAsymptote(p *FundParameters, key FundKey) float64 {
	tilt := NewPartitionedSequence(key).ForPhase(PhasePerformance).Between(irrTiltMin, irrTiltMax)
	return irrBaseAsymptote * p.Strategy.Profile().IRRScale * tilt
}

// LatestSnapshot returns the last snapshot and true, or false when there is none.
func LatestSnapshot(snaps []MetricSnapshot) (MetricSnapshot, bool) {
	if len(snaps) == 0 {
		return MetricSnapshot{}, false
	}
	return snaps[len(snaps)-1], true
}
