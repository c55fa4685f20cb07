// Package universe generates a complete synthetic fund universe: per-fund
// cash flows, snapshots and lifecycle events, then the cross-fund analytics
// computed over the whole population.
package universe

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/fundsim/fundsim/sim"
	"github.com/fundsim/fundsim/sim/benchmark"
)

// DefaultDriftTolerance is the allocation drift band in percentage points.
const DefaultDriftTolerance = 2.0

// DefaultReportingCurrency is the currency allocation actuals are measured in.
const DefaultReportingCurrency = "USD"

// ErrMissingSeed is returned when a catalog fund has no seed.
var ErrMissingSeed = errors.New("missing seed")

// ErrDuplicateFund is returned when two catalog funds share an ID.
var ErrDuplicateFund = errors.New("duplicate fund id")

// Options controls a generation run.
type Options struct {
	AsOf              time.Time              // reporting date; required
	Parallelism       int                    // concurrent fund pipelines; <= 0 means GOMAXPROCS
	MedianPolicy      benchmark.MedianPolicy // cohort median for even-sized cohorts
	PMEIndex          string                 // defaults to benchmark.DefaultPMEIndex
	DriftTolerance    float64                // defaults to DefaultDriftTolerance
	ReportingCurrency string                 // allocation actuals; defaults to DefaultReportingCurrency
}

func (o Options) withDefaults() Options {
	if o.Parallelism <= 0 {
		o.Parallelism = runtime.GOMAXPROCS(0)
	}
	if o.PMEIndex == "" {
		o.PMEIndex = benchmark.DefaultPMEIndex
	}
	if o.DriftTolerance <= 0 {
		o.DriftTolerance = DefaultDriftTolerance
	}
	if o.ReportingCurrency == "" {
		o.ReportingCurrency = DefaultReportingCurrency
	}
	return o
}

// FundResult is everything generated for one fund.
type FundResult struct {
	Params    *sim.FundParameters
	Key       sim.FundKey
	CashFlows []sim.CashFlowEvent
	Snapshots []sim.MetricSnapshot
	Events    []sim.LifecycleEvent
	Called    float64 // historical, as of the reporting date
	Unfunded  float64
	Pacing    []benchmark.PacingPoint
}

// Latest returns the fund's most recent snapshot.
func (r *FundResult) Latest() (sim.MetricSnapshot, bool) {
	return sim.LatestSnapshot(r.Snapshots)
}

// Universe is an immutable generated population.
type Universe struct {
	AsOf       time.Time
	Funds      []*FundResult // catalog order
	Quartiles  []benchmark.QuartileRanking
	PME        []benchmark.PMEResult
	Pacing     []benchmark.YearPacing
	Cohorts    []benchmark.CohortStats
	Allocation []benchmark.AllocationDrift

	byID      map[string]*FundResult
	quartiles map[string]benchmark.QuartileRanking
}

// Generate validates the catalog, runs every fund's pipeline in parallel,
// and computes cross-fund analytics once all pipelines have joined.
// The same catalog, seeds and options always yield the same universe.
func Generate(catalog []sim.FundParameters, seeds map[string]int64, opts Options) (*Universe, error) {
	if opts.AsOf.IsZero() {
		return nil, fmt.Errorf("generate: as-of date is required")
	}
	opts = opts.withDefaults()
	if money.GetCurrency(opts.ReportingCurrency) == nil {
		return nil, fmt.Errorf("generate: unknown reporting currency %q", opts.ReportingCurrency)
	}

	seen := make(map[string]int, len(catalog))
	for i := range catalog {
		p := &catalog[i]
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("catalog[%d]: %w", i, err)
		}
		if j, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("catalog[%d]: %w %q (first at catalog[%d])", i, ErrDuplicateFund, p.ID, j)
		}
		seen[p.ID] = i
		if _, ok := seeds[p.ID]; !ok {
			return nil, fmt.Errorf("catalog[%d]: fund %q: %w", i, p.ID, ErrMissingSeed)
		}
	}

	results := make([]*FundResult, len(catalog))
	var g errgroup.Group
	g.SetLimit(opts.Parallelism)
	for i := range catalog {
		i := i
		params := catalog[i]
		key := sim.NewFundKey(seeds[params.ID])
		g.Go(func() error {
			results[i] = generateFund(&params, key, opts.AsOf)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	u := &Universe{
		AsOf:      opts.AsOf,
		Funds:     results,
		byID:      make(map[string]*FundResult, len(results)),
		quartiles: map[string]benchmark.QuartileRanking{},
	}
	for _, r := range results {
		u.byID[r.Params.ID] = r
	}
	u.analyze(opts)

	logrus.Infof("generated %d funds as of %s: %d cohorts, %d pacing years",
		len(u.Funds), opts.AsOf.Format(time.DateOnly), len(u.Cohorts), len(u.Pacing))
	return u, nil
}

func generateFund(p *sim.FundParameters, key sim.FundKey, asOf time.Time) *FundResult {
	flows := sim.SynthesizeCashFlows(p, key, asOf)
	called := sim.SumCashFlows(flows, asOf).Called
	unfunded := p.Committed - called
	if unfunded < 0 {
		unfunded = 0
	}
	r := &FundResult{
		Params:    p,
		Key:       key,
		CashFlows: flows,
		Snapshots: sim.ComputeSnapshots(p, key, flows, asOf),
		Events:    sim.DeriveLifecycleEvents(p, flows),
		Called:    sim.RoundAmount(called),
		Unfunded:  sim.RoundAmount(unfunded),
		Pacing:    benchmark.ProjectPacing(p, unfunded, asOf.Year()),
	}
	logrus.Debugf("fund %q: %d cash flows, %d snapshots, %d events",
		p.ID, len(r.CashFlows), len(r.Snapshots), len(r.Events))
	return r
}

func (u *Universe) analyze(opts Options) {
	var (
		perf     []benchmark.FundPerformance
		holdings []benchmark.Holding
		ids      []string
		pacing   []benchmark.PacingPoint
	)
	for _, r := range u.Funds {
		ids = append(ids, r.Params.ID)
		pacing = append(pacing, r.Pacing...)
		snap, ok := r.Latest()
		if !ok {
			logrus.Debugf("fund %q: no snapshots yet, excluded from cohort ranking", r.Params.ID)
			continue
		}
		perf = append(perf, benchmark.FundPerformance{
			FundID:   r.Params.ID,
			Strategy: r.Params.Strategy,
			Vintage:  r.Params.Vintage,
			IRR:      snap.IRR,
		})
		holdings = append(holdings, benchmark.Holding{
			FundID:     r.Params.ID,
			Strategy:   r.Params.Strategy,
			Currency:   r.Params.Currency,
			NAV:        snap.NAV,
			Commitment: r.Params.Committed,
		})
	}

	u.Quartiles = benchmark.RankCohorts(perf, opts.MedianPolicy)
	u.quartiles = benchmark.RankingsByFund(u.Quartiles)
	u.Cohorts = benchmark.SummarizeCohorts(perf, opts.MedianPolicy)
	u.PME = benchmark.PMETable(ids, opts.PMEIndex)
	u.Pacing = benchmark.PortfolioPacing(pacing)
	u.Allocation = benchmark.ComputeDrift(
		benchmark.StrategyAllocation(benchmark.DefaultAllocationTargets(), holdings, opts.ReportingCurrency),
		opts.DriftTolerance,
	)
}

// Fund returns the generated result for id.
func (u *Universe) Fund(id string) (*FundResult, bool) {
	r, ok := u.byID[id]
	return r, ok
}

// FundIDs returns fund IDs in catalog order.
func (u *Universe) FundIDs() []string {
	ids := make([]string, len(u.Funds))
	for i, r := range u.Funds {
		ids[i] = r.Params.ID
	}
	return ids
}

// CashFlows returns the fund's cash-flow stream, or nil for an unknown fund.
func (u *Universe) CashFlows(id string) []sim.CashFlowEvent {
	if r, ok := u.byID[id]; ok {
		return r.CashFlows
	}
	return nil
}

// Snapshots returns the fund's quarter-end snapshots, or nil for an unknown fund.
func (u *Universe) Snapshots(id string) []sim.MetricSnapshot {
	if r, ok := u.byID[id]; ok {
		return r.Snapshots
	}
	return nil
}

// LifecycleEvents returns the fund's milestones, or nil for an unknown fund.
func (u *Universe) LifecycleEvents(id string) []sim.LifecycleEvent {
	if r, ok := u.byID[id]; ok {
		return r.Events
	}
	return nil
}

// Quartile returns the fund's cohort ranking. False when the fund is unknown
// or had no snapshot to rank.
func (u *Universe) Quartile(id string) (benchmark.QuartileRanking, bool) {
	q, ok := u.quartiles[id]
	return q, ok
}

// Attribution returns the fund's value bridge at its latest snapshot.
func (u *Universe) Attribution(id string) ([]benchmark.WaterfallBar, bool) {
	r, ok := u.byID[id]
	if !ok {
		return nil, false
	}
	snap, ok := r.Latest()
	if !ok {
		return nil, false
	}
	return benchmark.DecomposeWaterfall(benchmark.AttributionSteps(r.CashFlows, snap)), true
}
