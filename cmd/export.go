package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fundsim/fundsim/sim"
	"github.com/fundsim/fundsim/sim/benchmark"
	"github.com/fundsim/fundsim/sim/universe"
)

// Export is the document written by `fundsim generate`.
type Export struct {
	AsOf       string                      `json:"as_of" yaml:"as_of"`
	Summary    *universe.Summary           `json:"summary" yaml:"summary"`
	Funds      []FundExport                `json:"funds" yaml:"funds"`
	Pacing     []benchmark.YearPacing      `json:"pacing" yaml:"pacing"`
	Cohorts    []CohortExport              `json:"cohorts" yaml:"cohorts"`
	Allocation []benchmark.AllocationDrift `json:"allocation" yaml:"allocation"`
}

// FundExport is one fund's generated data.
type FundExport struct {
	ID        string                  `json:"id" yaml:"id"`
	Name      string                  `json:"name" yaml:"name"`
	Strategy  string                  `json:"strategy" yaml:"strategy"`
	Vintage   int                     `json:"vintage" yaml:"vintage"`
	Currency  string                  `json:"currency" yaml:"currency"`
	Committed float64                 `json:"committed" yaml:"committed"`
	Phase     string                  `json:"phase" yaml:"phase"`
	Seed      int64                   `json:"seed" yaml:"seed"`
	Unfunded  float64                 `json:"unfunded" yaml:"unfunded"`
	Ranking   *RankingExport          `json:"ranking,omitempty" yaml:"ranking,omitempty"`
	PME       float64                 `json:"pme" yaml:"pme"`
	CashFlows []CashFlowExport        `json:"cash_flows" yaml:"cash_flows"`
	Snapshots []SnapshotExport        `json:"snapshots" yaml:"snapshots"`
	Events    []EventExport           `json:"lifecycle_events" yaml:"lifecycle_events"`
	Pacing    []benchmark.PacingPoint `json:"pacing" yaml:"pacing"`
}

// CashFlowExport is a cash-flow event with a string date.
type CashFlowExport struct {
	ID          string  `json:"id" yaml:"id"`
	Date        string  `json:"date" yaml:"date"`
	Type        string  `json:"type" yaml:"type"`
	Amount      float64 `json:"amount" yaml:"amount"`
	Description string  `json:"description" yaml:"description"`
	IsEstimate  bool    `json:"is_estimate" yaml:"is_estimate"`
}

// SnapshotExport is a quarter-end metric snapshot.
type SnapshotExport struct {
	AsOf        string  `json:"as_of" yaml:"as_of"`
	Quarter     string  `json:"quarter" yaml:"quarter"`
	Called      float64 `json:"called" yaml:"called"`
	Distributed float64 `json:"distributed" yaml:"distributed"`
	FeesPaid    float64 `json:"fees_paid" yaml:"fees_paid"`
	NAV         float64 `json:"nav" yaml:"nav"`
	Unfunded    float64 `json:"unfunded" yaml:"unfunded"`
	TVPI        float64 `json:"tvpi" yaml:"tvpi"`
	DPI         float64 `json:"dpi" yaml:"dpi"`
	RVPI        float64 `json:"rvpi" yaml:"rvpi"`
	IRR         float64 `json:"irr" yaml:"irr"`
}

// EventExport is a lifecycle milestone.
type EventExport struct {
	ID          string   `json:"id" yaml:"id"`
	Date        string   `json:"date" yaml:"date"`
	Type        string   `json:"type" yaml:"type"`
	Label       string   `json:"label" yaml:"label"`
	Description string   `json:"description" yaml:"description"`
	Amount      *float64 `json:"amount,omitempty" yaml:"amount,omitempty"`
	Count       int      `json:"count,omitempty" yaml:"count,omitempty"`
}

// RankingExport is a fund's cohort standing.
type RankingExport struct {
	Cohort       string  `json:"cohort" yaml:"cohort"`
	Rank         int     `json:"rank" yaml:"rank"`
	CohortSize   int     `json:"cohort_size" yaml:"cohort_size"`
	Percentile   float64 `json:"percentile" yaml:"percentile"`
	Quartile     int     `json:"quartile" yaml:"quartile"`
	CohortMedian float64 `json:"cohort_median" yaml:"cohort_median"`
	MedianDelta  float64 `json:"median_delta_pct" yaml:"median_delta_pct"`
}

// CohortExport is one cohort's IRR statistics.
type CohortExport struct {
	Cohort         string  `json:"cohort" yaml:"cohort"`
	Count          int     `json:"count" yaml:"count"`
	MeanIRR        float64 `json:"mean_irr" yaml:"mean_irr"`
	StdDevIRR      float64 `json:"stddev_irr" yaml:"stddev_irr"`
	MedianIRR      float64 `json:"median_irr" yaml:"median_irr"`
	TopQuartileIRR float64 `json:"top_quartile_irr" yaml:"top_quartile_irr"`
}

// BuildExport flattens a universe into an export document. A non-empty
// fundID restricts the per-fund section to that fund.
func BuildExport(u *universe.Universe, fundID string) (*Export, error) {
	pme := map[string]float64{}
	for _, r := range u.PME {
		pme[r.FundID] = r.Score
	}

	exp := &Export{
		AsOf:       u.AsOf.Format(time.DateOnly),
		Summary:    universe.Summarize(u),
		Pacing:     u.Pacing,
		Allocation: u.Allocation,
	}
	for _, c := range u.Cohorts {
		exp.Cohorts = append(exp.Cohorts, CohortExport{
			Cohort:         c.Cohort.String(),
			Count:          c.Count,
			MeanIRR:        c.MeanIRR,
			StdDevIRR:      c.StdDevIRR,
			MedianIRR:      c.MedianIRR,
			TopQuartileIRR: c.TopQuartileIRR,
		})
	}

	for _, r := range u.Funds {
		if fundID != "" && r.Params.ID != fundID {
			continue
		}
		fe := FundExport{
			ID:        r.Params.ID,
			Name:      r.Params.Name,
			Strategy:  r.Params.Strategy.String(),
			Vintage:   r.Params.Vintage,
			Currency:  r.Params.Currency,
			Committed: r.Params.Committed,
			Phase:     r.Params.Phase.String(),
			Seed:      int64(r.Key),
			Unfunded:  r.Unfunded,
			PME:       pme[r.Params.ID],
			CashFlows: exportCashFlows(r.CashFlows),
			Snapshots: exportSnapshots(r.Snapshots),
			Events:    exportEvents(r.Events),
			Pacing:    r.Pacing,
		}
		if q, ok := u.Quartile(r.Params.ID); ok {
			fe.Ranking = &RankingExport{
				Cohort:       q.Cohort.String(),
				Rank:         q.Rank,
				CohortSize:   q.CohortSize,
				Percentile:   q.Percentile,
				Quartile:     q.Quartile,
				CohortMedian: q.CohortMedian,
				MedianDelta:  q.MedianDelta,
			}
		}
		exp.Funds = append(exp.Funds, fe)
	}
	if fundID != "" && len(exp.Funds) == 0 {
		return nil, fmt.Errorf("fund %q not in catalog", fundID)
	}
	return exp, nil
}

func exportCashFlows(flows []sim.CashFlowEvent) []CashFlowExport {
	out := make([]CashFlowExport, len(flows))
	for i, f := range flows {
		out[i] = CashFlowExport{
			ID:          f.ID.String(),
			Date:        f.Date.Format(time.DateOnly),
			Type:        string(f.Type),
			Amount:      f.Amount,
			Description: f.Description,
			IsEstimate:  f.IsEstimate,
		}
	}
	return out
}

func exportSnapshots(snaps []sim.MetricSnapshot) []SnapshotExport {
	out := make([]SnapshotExport, len(snaps))
	for i, s := range snaps {
		out[i] = SnapshotExport{
			AsOf:        s.AsOf.Format(time.DateOnly),
			Quarter:     s.Quarter,
			Called:      s.Called,
			Distributed: s.Distributed,
			FeesPaid:    s.FeesPaid,
			NAV:         s.NAV,
			Unfunded:    s.Unfunded,
			TVPI:        s.TVPI,
			DPI:         s.DPI,
			RVPI:        s.RVPI,
			IRR:         s.IRR,
		}
	}
	return out
}

func exportEvents(events []sim.LifecycleEvent) []EventExport {
	out := make([]EventExport, len(events))
	for i, e := range events {
		out[i] = EventExport{
			ID:          e.ID.String(),
			Date:        e.Date.Format(time.DateOnly),
			Type:        string(e.Type),
			Label:       e.Label,
			Description: e.Description,
			Amount:      e.Amount,
			Count:       e.Count,
		}
	}
	return out
}

// WriteExport encodes exp as json or yaml.
func WriteExport(w io.Writer, exp *Export, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(exp, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(exp); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q; valid: json, yaml", format)
	}
}

// writeExportFile writes to path, or stdout when path is empty.
func writeExportFile(path string, exp *Export, format string) error {
	if path == "" {
		return WriteExport(os.Stdout, exp, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteExport(f, exp, format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
