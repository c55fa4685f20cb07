package universe

import (
	"sort"

	"github.com/fundsim/fundsim/sim"
)

// CurrencyTotals aggregates fund positions denominated in one currency.
type CurrencyTotals struct {
	Currency    string  `json:"currency" yaml:"currency"`
	Funds       int     `json:"funds" yaml:"funds"`
	Committed   float64 `json:"committed" yaml:"committed"`
	Called      float64 `json:"called" yaml:"called"`
	Distributed float64 `json:"distributed" yaml:"distributed"`
	NAV         float64 `json:"nav" yaml:"nav"`
	TVPI        float64 `json:"tvpi" yaml:"tvpi"`
}

// Summary aggregates statistics from a Universe.
type Summary struct {
	Funds           int              `json:"funds" yaml:"funds"`
	CashFlowEvents  int              `json:"cash_flow_events" yaml:"cash_flow_events"`
	Estimates       int              `json:"estimates" yaml:"estimates"`
	Snapshots       int              `json:"snapshots" yaml:"snapshots"`
	LifecycleEvents int              `json:"lifecycle_events" yaml:"lifecycle_events"`
	Unranked        int              `json:"unranked" yaml:"unranked"`       // funds with no snapshot yet
	ByStrategy      map[string]int   `json:"by_strategy" yaml:"by_strategy"` // strategy → fund count
	ByPhase         map[string]int   `json:"by_phase" yaml:"by_phase"`       // phase → fund count
	Currencies      []CurrencyTotals `json:"currencies" yaml:"currencies"`   // ordered by currency code
}

// Summarize computes aggregate statistics. Amounts are never summed across
// currencies. Safe for a nil universe.
func Summarize(u *Universe) *Summary {
	s := &Summary{
		ByStrategy: make(map[string]int),
		ByPhase:    make(map[string]int),
	}
	if u == nil {
		return s
	}

	byCcy := map[string]*CurrencyTotals{}
	for _, r := range u.Funds {
		s.Funds++
		s.Snapshots += len(r.Snapshots)
		s.LifecycleEvents += len(r.Events)
		s.ByStrategy[r.Params.Strategy.String()]++
		s.ByPhase[r.Params.Phase.String()]++
		for _, f := range r.CashFlows {
			s.CashFlowEvents++
			if f.IsEstimate {
				s.Estimates++
			}
		}

		ct, ok := byCcy[r.Params.Currency]
		if !ok {
			ct = &CurrencyTotals{Currency: r.Params.Currency}
			byCcy[r.Params.Currency] = ct
		}
		ct.Funds++
		ct.Committed += r.Params.Committed
		ct.Called += r.Called
		tot := sim.SumCashFlows(r.CashFlows, u.AsOf)
		ct.Distributed += tot.Distributed
		if snap, ok := r.Latest(); ok {
			ct.NAV += snap.NAV
		} else {
			s.Unranked++
		}
	}

	for _, ct := range byCcy {
		ct.Distributed = sim.RoundAmount(ct.Distributed)
		ct.Called = sim.RoundAmount(ct.Called)
		ct.NAV = sim.RoundAmount(ct.NAV)
		if ct.Called > 0 {
			ct.TVPI = sim.RoundRatio((ct.Distributed + ct.NAV) / ct.Called)
		}
		s.Currencies = append(s.Currencies, *ct)
	}
	sort.Slice(s.Currencies, func(i, j int) bool { return s.Currencies[i].Currency < s.Currencies[j].Currency })
	return s
}
