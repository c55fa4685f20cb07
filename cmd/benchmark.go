package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Rhymond/go-money"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fundsim/fundsim/sim/universe"
)

// benchmarkCmd prints the cross-fund analytics as text tables
var benchmarkCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Print quartile rankings, PME scores, cohort statistics and pacing",
	Run: func(cmd *cobra.Command, args []string) {
		u, err := buildUniverse(flagConfig())
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := PrintBenchmark(cmd.OutOrStdout(), u, fundFilter); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

// formatAmount renders amount in the fund's currency, e.g. "$1,250,000.00".
func formatAmount(amount float64, currency string) string {
	return money.NewFromFloat(amount, currency).Display()
}

// PrintBenchmark writes the benchmark report. A non-empty fundID restricts
// the fund table to that fund.
func PrintBenchmark(w io.Writer, u *universe.Universe, fundID string) error {
	if fundID != "" {
		if _, ok := u.Fund(fundID); !ok {
			return fmt.Errorf("fund %q not in catalog", fundID)
		}
	}
	pme := map[string]float64{}
	for _, r := range u.PME {
		pme[r.FundID] = r.Score
	}

	fmt.Fprintf(w, "=== Fund Benchmarks (as of %s) ===\n", u.AsOf.Format("2006-01-02"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FUND\tCOHORT\tCOMMITTED\tCALLED\tNAV\tTVPI\tIRR%\tQUARTILE\tVS MEDIAN%\tPME")
	for _, r := range u.Funds {
		id := r.Params.ID
		if fundID != "" && id != fundID {
			continue
		}
		ccy := r.Params.Currency
		snap, ok := r.Latest()
		if !ok {
			fmt.Fprintf(tw, "%s\t-\t%s\t%s\t-\t-\t-\t-\t-\t%.2f\n",
				id, formatAmount(r.Params.Committed, ccy), formatAmount(r.Called, ccy), pme[id])
			continue
		}
		q, _ := u.Quartile(id)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.2f\t%.2f\tQ%d\t%+.2f\t%.2f\n",
			id, q.Cohort, formatAmount(r.Params.Committed, ccy), formatAmount(r.Called, ccy),
			formatAmount(snap.NAV, ccy), snap.TVPI, snap.IRR, q.Quartile, q.MedianDelta, pme[id])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\n=== Cohorts ===")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COHORT\tFUNDS\tMEAN IRR%\tSTDDEV\tMEDIAN\tTOP QUARTILE")
	for _, c := range u.Cohorts {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\t%.2f\t%.2f\n",
			c.Cohort, c.Count, c.MeanIRR, c.StdDevIRR, c.MedianIRR, c.TopQuartileIRR)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\n=== Projected Calls ===")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FUND\tYEAR\tCALL\tUNFUNDED AFTER")
	for _, r := range u.Funds {
		if fundID != "" && r.Params.ID != fundID {
			continue
		}
		for _, pt := range r.Pacing {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", pt.FundID, pt.Year,
				formatAmount(pt.ProjectedCall, r.Params.Currency), formatAmount(pt.UnfundedAfter, r.Params.Currency))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\n=== Allocation Drift ===")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DIMENSION\tCATEGORY\tTARGET%\tACTUAL%\tDRIFT\tSTATUS")
	for _, a := range u.Allocation {
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%.1f\t%+.2f\t%s\n",
			a.Dimension, a.Category, a.TargetPct, a.ActualPct, a.DriftPct, a.Status)
	}
	return tw.Flush()
}
