package sim

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// LifecycleEventType classifies a milestone in a fund's life.
type LifecycleEventType string

const (
	LifecycleFirstClose          LifecycleEventType = "first_close"
	LifecycleFinalClose          LifecycleEventType = "final_close"
	LifecycleCapitalCallBatch    LifecycleEventType = "capital_call_batch"
	LifecycleDistributionBatch   LifecycleEventType = "distribution_batch"
	LifecycleInvestmentPeriodEnd LifecycleEventType = "investment_period_end"
	LifecycleExtension           LifecycleEventType = "extension"
	LifecycleLiquidation         LifecycleEventType = "liquidation"
)

// LifecycleEvent is a human-readable milestone derived from a fund's
// parameters and cash flows.
type LifecycleEvent struct {
	ID          uuid.UUID
	FundID      string
	Date        time.Time
	Type        LifecycleEventType
	Label       string
	Description string
	Amount      *float64 // aggregate amount for batch events
	Count       int      // flows aggregated into a batch event
}

// distributionBatchPct is the yearly distribution total, as a fraction of
// commitment, that a year must exceed to be reported as a batch.
const distributionBatchPct = 0.03

// yearBatch aggregates one calendar year of flows.
type yearBatch struct {
	year  int
	count int
	total float64
	last  time.Time
}

// DeriveLifecycleEvents classifies a fund's flows into milestone events.
// Batches ignore estimates. The result is sorted by date; same-day events
// keep their derivation order.
func DeriveLifecycleEvents(p *FundParameters, flows []CashFlowEvent) []LifecycleEvent {
	var events []LifecycleEvent
	add := func(d time.Time, typ LifecycleEventType, label, desc string, amount *float64, count int) {
		events = append(events, LifecycleEvent{
			FundID: p.ID, Date: d, Type: typ, Label: label, Description: desc, Amount: amount, Count: count,
		})
	}

	add(p.FirstClose, LifecycleFirstClose, "First close",
		fmt.Sprintf("%s held its first close", p.Name), nil, 0)
	if p.FinalClose != nil {
		add(*p.FinalClose, LifecycleFinalClose, "Final close",
			fmt.Sprintf("%s closed at %.0f %s", p.Name, p.Committed, p.Currency), nil, 0)
	}

	calls, dists := batchByYear(flows)
	for _, b := range calls {
		total := b.total
		add(b.last, LifecycleCapitalCallBatch, fmt.Sprintf("%d capital calls", b.year),
			fmt.Sprintf("%d capital calls totalling %.0f %s", b.count, b.total, p.Currency), &total, b.count)
	}
	threshold := p.Committed * distributionBatchPct
	for _, b := range dists {
		if b.total <= threshold {
			continue
		}
		total := b.total
		add(b.last, LifecycleDistributionBatch, fmt.Sprintf("%d distributions", b.year),
			fmt.Sprintf("%d distributions totalling %.0f %s", b.count, b.total, p.Currency), &total, b.count)
	}

	if p.InvestmentPeriodEnd != nil {
		add(*p.InvestmentPeriodEnd, LifecycleInvestmentPeriodEnd, "Investment period end",
			"New investments stop; follow-ons and fees continue", nil, 0)
	}
	switch {
	case p.Phase == FundPhaseExtension:
		add(p.ExpectedTermEnd(), LifecycleExtension, "Term extension",
			"Fund term extended beyond its scheduled end", nil, 0)
	case p.Phase.Terminal():
		add(p.TermEnd(), LifecycleLiquidation, "Liquidation",
			"Remaining assets realised and the fund wound down", nil, 0)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	for i := range events {
		events[i].ID = EventID(p.ID, "lifecycle", i)
	}
	return events
}

// batchByYear groups non-estimate calls and distributions by calendar year,
// in ascending year order. Totals are positive.
func batchByYear(flows []CashFlowEvent) (calls, dists []yearBatch) {
	callIdx := map[int]int{}
	distIdx := map[int]int{}
	accumulate := func(batches []yearBatch, idx map[int]int, f CashFlowEvent, amount float64) []yearBatch {
		year := f.Date.Year()
		i, ok := idx[year]
		if !ok {
			idx[year] = len(batches)
			batches = append(batches, yearBatch{year: year})
			i = len(batches) - 1
		}
		batches[i].count++
		batches[i].total += amount
		if f.Date.After(batches[i].last) {
			batches[i].last = f.Date
		}
		return batches
	}

	// flows are date-ordered, so first-seen year order is ascending.
	for _, f := range flows {
		if f.IsEstimate {
			continue
		}
		switch {
		case f.Type == CashFlowCapitalCall:
			calls = accumulate(calls, callIdx, f, -f.Amount)
		case f.Amount > 0:
			dists = accumulate(dists, distIdx, f, f.Amount)
		}
	}
	return calls, dists
}
