package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fundsim/fundsim/sim/benchmark"
	"github.com/fundsim/fundsim/sim/universe"
)

var exampleCatalog = filepath.Join("..", "examples", "catalog.yaml")

func exampleUniverse(t *testing.T) *universe.Universe {
	t.Helper()
	u, err := buildUniverse(runConfig{CatalogPath: exampleCatalog})
	require.NoError(t, err)
	return u
}

func TestParseMedianPolicy(t *testing.T) {
	p, err := ParseMedianPolicy("")
	require.NoError(t, err)
	assert.Equal(t, benchmark.UpperMedian, p)

	p, err = ParseMedianPolicy(" Average ")
	require.NoError(t, err)
	assert.Equal(t, benchmark.AverageMedian, p)

	_, err = ParseMedianPolicy("mean")
	assert.Error(t, err)
}

func TestBuildUniverse_ExampleCatalog(t *testing.T) {
	// GIVEN the example catalog and no --as-of override
	u := exampleUniverse(t)

	// THEN the catalog's as_of is used
	assert.Equal(t, "2024-06-30", u.AsOf.Format("2006-01-02"))
	assert.NotEmpty(t, u.Funds)
}

func TestBuildUniverse_AsOfOverride(t *testing.T) {
	u, err := buildUniverse(runConfig{CatalogPath: exampleCatalog, AsOf: "2023-12-31", Parallelism: 2})
	require.NoError(t, err)
	assert.Equal(t, "2023-12-31", u.AsOf.Format("2006-01-02"))
}

func TestBuildUniverse_Errors(t *testing.T) {
	dir := t.TempDir()
	noAsOf := filepath.Join(dir, "catalog.yaml")
	doc := `
version: "2"
funds:
  - id: F1
    strategy: buyout
    vintage: 2018
    committed: 50000000
    currency: USD
    investment_period_years: 5
    fund_term_years: 10
    first_close: "2018-04-01"
    management_fee_rate: 0.02
    phase: harvesting
`
	require.NoError(t, os.WriteFile(noAsOf, []byte(doc), 0644))

	tests := []struct {
		name    string
		cfg     runConfig
		wantErr string
	}{
		{"no catalog", runConfig{}, "--catalog"},
		{"missing file", runConfig{CatalogPath: filepath.Join(dir, "nope.yaml")}, "reading catalog"},
		{"bad as-of", runConfig{CatalogPath: exampleCatalog, AsOf: "June 2024"}, "--as-of"},
		{"no reporting date", runConfig{CatalogPath: noAsOf}, "reporting date"},
		{"bad median", runConfig{CatalogPath: exampleCatalog, MedianPolicy: "mode"}, "median policy"},
		{"bad reporting currency", runConfig{CatalogPath: exampleCatalog, Currency: "ZZQ"}, "reporting currency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildUniverse(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	u, err := buildUniverse(runConfig{CatalogPath: noAsOf, AsOf: "2024-06-30"})
	require.NoError(t, err)
	assert.Len(t, u.Funds, 1)
}

func TestWriteExport_JSON(t *testing.T) {
	// GIVEN an export of the example universe
	exp, err := BuildExport(exampleUniverse(t), "")
	require.NoError(t, err)

	// WHEN written as JSON
	var buf bytes.Buffer
	require.NoError(t, WriteExport(&buf, exp, "json"))

	// THEN the document carries every section with snake_case keys
	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	for _, key := range []string{"as_of", "summary", "funds", "pacing", "cohorts", "allocation"} {
		assert.Contains(t, doc, key)
	}
	funds := doc["funds"].([]any)
	first := funds[0].(map[string]any)
	assert.Equal(t, "NW-BO-IV", first["id"])
	assert.Contains(t, first, "cash_flows")
	assert.Contains(t, first, "ranking")
	flows := first["cash_flows"].([]any)
	flow := flows[0].(map[string]any)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, flow["date"])
	assert.Len(t, flow["id"], 36)

	alloc := doc["allocation"].([]any)[0].(map[string]any)
	assert.Contains(t, alloc, "drift_pct")
	assert.Contains(t, alloc, "target_pct")
}

func TestWriteExport_YAML(t *testing.T) {
	exp, err := BuildExport(exampleUniverse(t), "AC-VC-II")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteExport(&buf, exp, "yaml"))

	var doc struct {
		AsOf  string `yaml:"as_of"`
		Funds []struct {
			ID        string `yaml:"id"`
			Currency  string `yaml:"currency"`
			Snapshots []struct {
				Quarter string  `yaml:"quarter"`
				TVPI    float64 `yaml:"tvpi"`
			} `yaml:"snapshots"`
		} `yaml:"funds"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "2024-06-30", doc.AsOf)
	require.Len(t, doc.Funds, 1)
	assert.Equal(t, "AC-VC-II", doc.Funds[0].ID)
	assert.Equal(t, "EUR", doc.Funds[0].Currency)
	assert.NotEmpty(t, doc.Funds[0].Snapshots)
}

func TestWriteExport_UnknownFormat(t *testing.T) {
	exp, err := BuildExport(exampleUniverse(t), "")
	require.NoError(t, err)
	assert.Error(t, WriteExport(&bytes.Buffer{}, exp, "csv"))
}

func TestBuildExport_UnknownFund(t *testing.T) {
	_, err := BuildExport(exampleUniverse(t), "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOPE")
}

func TestWriteExportFile(t *testing.T) {
	exp, err := BuildExport(exampleUniverse(t), "NW-BO-IV")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, writeExportFile(path, exp, "json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{"))
}

func TestPrintBenchmark(t *testing.T) {
	// GIVEN the example universe
	u := exampleUniverse(t)

	// WHEN the benchmark report is printed
	var buf bytes.Buffer
	require.NoError(t, PrintBenchmark(&buf, u, ""))
	out := buf.String()

	// THEN every section is present and amounts carry currency symbols
	for _, header := range []string{"Fund Benchmarks", "Cohorts", "Projected Calls", "Allocation Drift"} {
		assert.Contains(t, out, header)
	}
	assert.Contains(t, out, "NW-BO-IV")
	assert.Contains(t, out, "$100,000,000.00")
	assert.Contains(t, out, "buyout/2015")
	assert.Contains(t, out, "€")
}

func TestPrintBenchmark_UnknownFund(t *testing.T) {
	assert.Error(t, PrintBenchmark(&bytes.Buffer{}, exampleUniverse(t), "NOPE"))
}

func TestValidateCatalog(t *testing.T) {
	n, err := validateCatalog(exampleCatalog)
	require.NoError(t, err)
	assert.Equal(t, 11, n)

	_, err = validateCatalog("")
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$1,250,000.00", formatAmount(1_250_000, "USD"))
	assert.Equal(t, "£75.50", formatAmount(75.5, "GBP"))
}
