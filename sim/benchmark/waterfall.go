package benchmark

import "github.com/fundsim/fundsim/sim"

// StepKind classifies a waterfall step.
type StepKind string

const (
	StepDelta    StepKind = "delta"
	StepSubtotal StepKind = "subtotal"
	StepTotal    StepKind = "total"
)

// WaterfallStep is one declared step of a value bridge.
type WaterfallStep struct {
	Label string   `json:"label" yaml:"label"`
	Value float64  `json:"value" yaml:"value"`
	Kind  StepKind `json:"kind" yaml:"kind"`
}

// WaterfallBar is a step laid out for a floating-bar chart.
type WaterfallBar struct {
	Label         string   `json:"label" yaml:"label"`
	Kind          StepKind `json:"kind" yaml:"kind"`
	Value         float64  `json:"value" yaml:"value"`
	Base          float64  `json:"base" yaml:"base"`
	Height        float64  `json:"height" yaml:"height"`
	RunningBefore float64  `json:"running_before" yaml:"running_before"`
	RunningAfter  float64  `json:"running_after" yaml:"running_after"`
}

// DecomposeWaterfall lays out steps as floating bars. A delta floats on the
// running total and advances it. Subtotals and totals are drawn from zero at
// their declared value and leave the running total untouched, so a declared
// value that disagrees with the deltas is shown as declared.
func DecomposeWaterfall(steps []WaterfallStep) []WaterfallBar {
	bars := make([]WaterfallBar, len(steps))
	running := 0.0
	for i, s := range steps {
		bar := WaterfallBar{Label: s.Label, Kind: s.Kind, Value: s.Value, RunningBefore: running}
		switch s.Kind {
		case StepSubtotal, StepTotal:
			bar.Base = 0
			bar.Height = s.Value
		default:
			bar.Base = running
			bar.Height = s.Value
			running += s.Value
		}
		bar.RunningAfter = running
		bars[i] = bar
	}
	return bars
}

// AttributionSteps builds the value bridge from paid-in capital to total
// value (distributions plus NAV) for the fund's position at snap.
// Unrealized gains close the bridge so the deltas sum to the total.
func AttributionSteps(flows []sim.CashFlowEvent, snap sim.MetricSnapshot) []WaterfallStep {
	tot := sim.SumCashFlows(flows, snap.AsOf)
	totalValue := snap.Distributed + snap.NAV
	gross := totalValue + tot.Fees + tot.Expenses
	unrealized := gross - snap.Called - tot.Realized

	return []WaterfallStep{
		{Label: "Paid-in capital", Value: sim.RoundAmount(snap.Called), Kind: StepDelta},
		{Label: "Realized gains", Value: sim.RoundAmount(tot.Realized), Kind: StepDelta},
		{Label: "Unrealized gains", Value: sim.RoundAmount(unrealized), Kind: StepDelta},
		{Label: "Gross value", Value: sim.RoundAmount(gross), Kind: StepSubtotal},
		{Label: "Management fees", Value: -sim.RoundAmount(tot.Fees), Kind: StepDelta},
		{Label: "Fund expenses", Value: -sim.RoundAmount(tot.Expenses), Kind: StepDelta},
		{Label: "Total value", Value: sim.RoundAmount(totalValue), Kind: StepTotal},
	}
}
