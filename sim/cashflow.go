package sim

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CashFlowType classifies a cash flow between investor and fund.
type CashFlowType string

const (
	CashFlowCapitalCall     CashFlowType = "capital_call"
	CashFlowManagementFee   CashFlowType = "management_fee"
	CashFlowFundExpense     CashFlowType = "fund_expense"
	CashFlowReturnOfCapital CashFlowType = "return_of_capital"
	CashFlowCapitalGain     CashFlowType = "capital_gain"
	CashFlowIncome          CashFlowType = "income_distribution"
	CashFlowRecallable      CashFlowType = "recallable_distribution"
)

// IsDistribution reports whether the flow goes from the fund to the investor.
func (t CashFlowType) IsDistribution() bool {
	switch t {
	case CashFlowReturnOfCapital, CashFlowCapitalGain, CashFlowIncome, CashFlowRecallable:
		return true
	}
	return false
}

// CashFlowEvent is one dated flow. Amount is signed from the investor's
// perspective: negative when paid into the fund.
type CashFlowEvent struct {
	ID          uuid.UUID
	FundID      string
	Date        time.Time
	Type        CashFlowType
	Amount      float64
	Description string
	IsEstimate  bool
}

// Synthesis constants, expressed as fractions of commitment unless noted.
const (
	firstCallPct     = 0.15
	callPctStart     = 0.12
	callPctEnd       = 0.05
	callJitter       = 0.20
	callCapPct       = 0.95
	callNoisePct     = 0.01
	postIPFeeBasePct = 0.70 // of cumulative called capital

	expensePctMin = 0.0005
	expensePctMax = 0.0015

	distPctStart    = 0.03
	distPctEnd      = 0.15
	distJitter      = 0.30
	capitalGainOdds = 0.60

	incomeJitter = 0.10

	recallableOdds   = 0.15
	recallablePctMin = 0.01
	recallablePctMax = 0.02

	estimateYears      = 3
	estimateCallMin    = 0.30 // of remaining unfunded
	estimateCallMax    = 0.50
	estimateDistPctMin = 0.05
	estimateDistPctMax = 0.08
)

// Extra streams used only by the synthesizer.
const (
	phaseIncome     = "income"
	phaseRecallable = "recallable"
)

// SynthesizeCashFlows builds a fund's ordered cash-flow stream.
// Pure function: same (params, key, asOf) always produces identical output.
// Historical flows never fall after asOf; estimates cover up to three
// calendar years after asOf's year, skipping years outside the fund's term.
// Params must already be validated.
func SynthesizeCashFlows(p *FundParameters, key FundKey, asOf time.Time) []CashFlowEvent {
	s := &synthesizer{
		p:      p,
		seqs:   NewPartitionedSequence(key),
		asOf:   asOf,
		asOfYr: asOf.Year(),
		lo:     yearStart(p.Vintage),
		hi:     yearEnd(p.LastYear()),
	}

	s.capitalCalls()
	s.feesAndExpenses()
	s.distributions()
	s.incomeDistributions()
	s.recallableDistributions()
	if !p.Phase.Terminal() {
		s.estimates()
	}

	// Stable sort keeps generation order for same-day flows.
	sort.SliceStable(s.flows, func(i, j int) bool {
		return s.flows[i].Date.Before(s.flows[j].Date)
	})
	for i := range s.flows {
		s.flows[i].ID = EventID(p.ID, "cashflow", i)
	}
	return s.flows
}

type synthesizer struct {
	p      *FundParameters
	seqs   *PartitionedSequence
	asOf   time.Time
	asOfYr int
	lo, hi time.Time
	flows  []CashFlowEvent
}

// historical reports whether d is a valid date for a non-estimate flow.
func (s *synthesizer) historical(d time.Time) bool {
	return !d.After(s.asOf) && !d.Before(s.lo) && !d.After(s.hi)
}

func (s *synthesizer) add(d time.Time, typ CashFlowType, amount float64, desc string, estimate bool) {
	s.flows = append(s.flows, CashFlowEvent{
		FundID:      s.p.ID,
		Date:        d,
		Type:        typ,
		Amount:      RoundAmount(amount),
		Description: desc,
		IsEstimate:  estimate,
	})
}

// calledThrough sums non-estimate capital calls dated on or before t, as a positive amount.
func (s *synthesizer) calledThrough(t time.Time) float64 {
	total := 0.0
	for _, f := range s.flows {
		if f.Type == CashFlowCapitalCall && !f.IsEstimate && !f.Date.After(t) {
			total -= f.Amount
		}
	}
	return total
}

func (s *synthesizer) capitalCalls() {
	p := s.p
	seq := s.seqs.ForPhase(PhaseCalls)
	capAmount := p.Committed * callCapPct
	noise := p.Committed * callNoisePct
	called := 0.0
	number := 0

	for yi := 0; yi <= p.InvestmentPeriodYears; yi++ {
		year := p.Vintage + yi
		if year > p.LastYear() || year > s.asOfYr {
			return
		}

		count := 1
		pct := firstCallPct
		if yi > 0 {
			count = seq.IntBetween(2, 4)
			progress := float64(yi) / float64(p.InvestmentPeriodYears)
			pct = lerp(callPctStart, callPctEnd, progress)
		}

		for i := 0; i < count; i++ {
			amount := p.Committed * pct * seq.Jitter(callJitter)
			var month int
			if yi == 0 {
				month = 1 + seq.IntBetween(0, 2)
				if p.FirstClose.Year() == year {
					month = int(p.FirstClose.Month()) + 1
				}
			} else {
				width := 12 / count
				month = 1 + i*width + seq.IntBetween(0, width-1)
			}
			d := monthDate(year, month)
			if d.Before(p.FirstClose) {
				d = p.FirstClose
			}
			d = clampDate(d, s.lo, s.hi)
			if !s.historical(d) {
				continue
			}

			if called >= capAmount {
				logrus.Debugf("fund %s: call cap of %.0f reached in %d", p.ID, capAmount, year)
				return
			}
			if called+amount > capAmount {
				amount = capAmount - called
			}
			if amount < noise {
				logrus.Debugf("fund %s: dropping %.0f call in %d below noise floor %.0f", p.ID, amount, year, noise)
				continue
			}

			called += amount
			number++
			s.add(d, CashFlowCapitalCall, -amount, fmt.Sprintf("Capital call #%d", number), false)
		}
	}
}

func (s *synthesizer) feesAndExpenses() {
	p := s.p
	seq := s.seqs.ForPhase(PhaseFees)
	years := min(p.FundTermYears, s.asOfYr-p.Vintage)

	for y := 0; y < years; y++ {
		year := p.Vintage + y

		base := p.Committed
		if y >= p.InvestmentPeriodYears {
			base = postIPFeeBasePct * s.calledThrough(yearEnd(year))
		}
		if fee := base * p.ManagementFeeRate; fee > 0 {
			s.add(date(year, time.December, 15), CashFlowManagementFee, -fee,
				fmt.Sprintf("Management fee %d", year), false)
		}

		expense := p.Committed * seq.Between(expensePctMin, expensePctMax)
		s.add(date(year, time.June, 30), CashFlowFundExpense, -expense,
			fmt.Sprintf("Fund expenses %d", year), false)
	}
}

func (s *synthesizer) distributions() {
	p := s.p
	seq := s.seqs.ForPhase(PhaseDistributions)
	start := max(2, p.InvestmentPeriodYears-1)
	window := max(1, p.FundTermYears-start)

	for y := start; y <= p.FundTermYears; y++ {
		year := p.Vintage + y
		if year > s.asOfYr {
			return
		}
		count := seq.IntBetween(1, 2)
		progress := min(1.0, float64(y-start)/float64(window))
		pct := lerp(distPctStart, distPctEnd, progress)

		for i := 0; i < count; i++ {
			amount := p.Committed * pct * seq.Jitter(distJitter)
			typ, label := CashFlowReturnOfCapital, "Return of capital"
			if seq.Next() < capitalGainOdds {
				typ, label = CashFlowCapitalGain, "Capital gain distribution"
			}
			month := seq.IntBetween(3, 11)
			if count == 2 {
				month = 1 + i*6 + seq.IntBetween(0, 5)
			}
			d := monthDate(year, month)
			if !s.historical(d) {
				continue
			}
			s.add(d, typ, amount, fmt.Sprintf("%s %d", label, year), false)
		}
	}
}

func (s *synthesizer) incomeDistributions() {
	p := s.p
	yield := p.Strategy.Profile().IncomeYield
	if yield <= 0 {
		return
	}
	seq := s.seqs.ForPhase(phaseIncome)

	for y := 1; y <= p.FundTermYears; y++ {
		year := p.Vintage + y
		if year > s.asOfYr {
			return
		}
		for _, d := range []time.Time{date(year, time.June, 30), date(year, time.December, 20)} {
			jitter := seq.Jitter(incomeJitter)
			if !s.historical(d) {
				continue
			}
			amount := s.calledThrough(d) * yield / 2 * jitter
			if amount <= 0 {
				continue
			}
			s.add(d, CashFlowIncome, amount, fmt.Sprintf("Income distribution %s", QuarterLabel(d)), false)
		}
	}
}

func (s *synthesizer) recallableDistributions() {
	p := s.p
	seq := s.seqs.ForPhase(phaseRecallable)

	for y := 1; y < p.InvestmentPeriodYears; y++ {
		year := p.Vintage + y
		if year > s.asOfYr {
			return
		}
		roll := seq.Next()
		pct := seq.Between(recallablePctMin, recallablePctMax)
		month := seq.IntBetween(2, 11)
		if roll >= recallableOdds {
			continue
		}
		d := monthDate(year, month)
		if !s.historical(d) {
			continue
		}
		s.add(d, CashFlowRecallable, p.Committed*pct, fmt.Sprintf("Recallable distribution %d", year), false)
	}
}

func (s *synthesizer) estimates() {
	p := s.p
	seq := s.seqs.ForPhase(PhaseEstimates)
	noise := p.Committed * callNoisePct
	unfunded := p.Committed - s.calledThrough(s.hi)

	for k := 1; k <= estimateYears; k++ {
		year := s.asOfYr + k
		if year > p.LastYear() {
			return
		}

		callFraction := seq.Between(estimateCallMin, estimateCallMax)
		distPct := seq.Between(estimateDistPctMin, estimateDistPctMax)
		if year < p.Vintage {
			continue
		}
		if p.Phase.Deploying() && unfunded > noise {
			amount := unfunded * callFraction
			if amount >= noise {
				unfunded -= amount
				s.add(date(year, time.March, 31), CashFlowCapitalCall, -amount,
					fmt.Sprintf("Estimated capital call %d", year), true)
			}
		}

		s.add(date(year, time.June, 30), CashFlowCapitalGain, p.Committed*distPct,
			fmt.Sprintf("Estimated distribution %d", year), true)
	}
}

// HistoricalFlows returns the non-estimate flows, preserving order.
func HistoricalFlows(flows []CashFlowEvent) []CashFlowEvent {
	out := make([]CashFlowEvent, 0, len(flows))
	for _, f := range flows {
		if !f.IsEstimate {
			out = append(out, f)
		}
	}
	return out
}

// CashFlowTotals summarises a flow stream by kind. All totals are positive.
type CashFlowTotals struct {
	Called      float64
	Fees        float64
	Expenses    float64
	Distributed float64
	Realized    float64 // capital gains and income
}

// SumCashFlows totals non-estimate flows dated on or before t.
// A zero t includes every flow.
func SumCashFlows(flows []CashFlowEvent, t time.Time) CashFlowTotals {
	var tot CashFlowTotals
	for _, f := range flows {
		if f.IsEstimate || (!t.IsZero() && f.Date.After(t)) {
			continue
		}
		switch {
		case f.Type == CashFlowCapitalCall:
			tot.Called -= f.Amount
		case f.Type == CashFlowManagementFee:
			tot.Fees -= f.Amount
		case f.Type == CashFlowFundExpense:
			tot.Expenses -= f.Amount
		case f.Type.IsDistribution():
			tot.Distributed += f.Amount
			if f.Type == CashFlowCapitalGain || f.Type == CashFlowIncome {
				tot.Realized += f.Amount
			}
		}
	}
	return tot
}

func lerp(a, b, t float64) float64 {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return a + (b-a)*t
}
