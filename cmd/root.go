package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fundsim/fundsim/sim/benchmark"
	"github.com/fundsim/fundsim/sim/catalog"
	"github.com/fundsim/fundsim/sim/universe"
)

var (
	// CLI flags shared by every command
	catalogPath string // Path to the YAML fund catalog
	logLevel    string // Log verbosity level

	// CLI flags for generation
	asOfDate       string  // Reporting date, YYYY-MM-DD; overrides the catalog's as_of
	parallelism    int     // Concurrent fund pipelines
	medianPolicy   string  // Cohort median for even-sized cohorts: upper or average
	pmeIndex       string  // Public index named alongside PME scores
	driftTolerance float64 // Allocation drift band in percentage points
	reportCurrency string  // Currency allocation actuals are measured in

	// CLI flags for output
	outputFormat string // json or yaml
	outputPath   string // Output file; empty writes to stdout
	fundFilter   string // Restrict per-fund output to one fund ID
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "fundsim",
	Short: "Deterministic synthetic private-equity fund universe generator",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runConfig is the resolved generation configuration.
type runConfig struct {
	CatalogPath    string
	AsOf           string
	Parallelism    int
	MedianPolicy   string
	PMEIndex       string
	DriftTolerance float64
	Currency       string
}

func flagConfig() runConfig {
	return runConfig{
		CatalogPath:    catalogPath,
		AsOf:           asOfDate,
		Parallelism:    parallelism,
		MedianPolicy:   medianPolicy,
		PMEIndex:       pmeIndex,
		DriftTolerance: driftTolerance,
		Currency:       reportCurrency,
	}
}

// ParseMedianPolicy maps a flag value to a benchmark.MedianPolicy.
func ParseMedianPolicy(s string) (benchmark.MedianPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "upper":
		return benchmark.UpperMedian, nil
	case "average":
		return benchmark.AverageMedian, nil
	default:
		return 0, fmt.Errorf("unknown median policy %q; valid: upper, average", s)
	}
}

// buildUniverse loads and validates the catalog, resolves the reporting
// date and generates the universe.
func buildUniverse(cfg runConfig) (*universe.Universe, error) {
	if cfg.CatalogPath == "" {
		return nil, fmt.Errorf("--catalog is required")
	}
	c, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", cfg.CatalogPath, err)
	}
	params, err := c.Parameters()
	if err != nil {
		return nil, err
	}

	asOf, ok, err := c.DefaultAsOf()
	if err != nil {
		return nil, err
	}
	if cfg.AsOf != "" {
		if asOf, err = time.Parse(time.DateOnly, cfg.AsOf); err != nil {
			return nil, fmt.Errorf("invalid --as-of %q, want YYYY-MM-DD", cfg.AsOf)
		}
	} else if !ok {
		return nil, fmt.Errorf("no reporting date: set as_of in the catalog or pass --as-of")
	}

	policy, err := ParseMedianPolicy(cfg.MedianPolicy)
	if err != nil {
		return nil, err
	}

	logrus.Infof("Generating %d funds from %s as of %s", len(params), cfg.CatalogPath, asOf.Format(time.DateOnly))
	return universe.Generate(params, c.Seeds(), universe.Options{
		AsOf:              asOf,
		Parallelism:       cfg.Parallelism,
		MedianPolicy:      policy,
		PMEIndex:          cfg.PMEIndex,
		DriftTolerance:    cfg.DriftTolerance,
		ReportingCurrency: cfg.Currency,
	})
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Path to the YAML fund catalog")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	for _, c := range []*cobra.Command{generateCmd, benchmarkCmd} {
		c.Flags().StringVar(&asOfDate, "as-of", "", "Reporting date YYYY-MM-DD (overrides the catalog's as_of)")
		c.Flags().IntVar(&parallelism, "parallelism", 0, "Concurrent fund pipelines (0 = GOMAXPROCS)")
		c.Flags().StringVar(&medianPolicy, "median", "upper", "Cohort median for even-sized cohorts (upper, average)")
		c.Flags().StringVar(&pmeIndex, "pme-index", benchmark.DefaultPMEIndex, "Public index named alongside PME scores")
		c.Flags().Float64Var(&driftTolerance, "drift-tolerance", universe.DefaultDriftTolerance, "Allocation drift band in percentage points")
		c.Flags().StringVar(&reportCurrency, "reporting-currency", universe.DefaultReportingCurrency, "Currency allocation actuals are measured in")
		c.Flags().StringVar(&fundFilter, "fund", "", "Restrict per-fund output to one fund ID")
	}
	generateCmd.Flags().StringVar(&outputFormat, "format", "json", "Export format (json, yaml)")
	generateCmd.Flags().StringVarP(&outputPath, "out", "o", "", "Write the export to this file instead of stdout")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(benchmarkCmd)
	rootCmd.AddCommand(validateCmd)
}
