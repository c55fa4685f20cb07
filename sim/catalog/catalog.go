// Package catalog loads fund catalogs from YAML. A catalog lists the funds
// to generate, their terms and their seeds.
package catalog

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/fundsim/fundsim/sim"
)

// CurrentVersion is the catalog schema version produced by Upgrade.
const CurrentVersion = "2"

// v1 catalogs used short phase and strategy names.
var (
	v1Phases = map[string]string{
		"investing": "investment_period",
		"harvest":   "harvesting",
		"wind_down": "liquidation",
	}
	v1Strategies = map[string]string{
		"vc":     "venture",
		"pe":     "buyout",
		"infra":  "infrastructure",
		"re":     "real_estate",
		"credit": "private_credit",
	}
)

// Catalog is the top-level catalog document.
// Loaded from YAML via Load(path).
type Catalog struct {
	Version string     `yaml:"version"`
	AsOf    string     `yaml:"as_of,omitempty"` // YYYY-MM-DD; CLI --as-of overrides
	Funds   []FundSpec `yaml:"funds"`
}

// FundSpec is one fund as written in the catalog. Dates are YYYY-MM-DD.
type FundSpec struct {
	ID                    string         `yaml:"id"`
	Name                  string         `yaml:"name,omitempty"`
	Strategy              string         `yaml:"strategy"`
	Vintage               int            `yaml:"vintage"`
	Committed             float64        `yaml:"committed"`
	Currency              string         `yaml:"currency"`
	InvestmentPeriodYears int            `yaml:"investment_period_years"`
	FundTermYears         int            `yaml:"fund_term_years"`
	FirstClose            string         `yaml:"first_close"`
	FinalClose            string         `yaml:"final_close,omitempty"`
	InvestmentPeriodEnd   string         `yaml:"investment_period_end,omitempty"`
	ActualTermEnd         string         `yaml:"actual_term_end,omitempty"`
	ManagementFeeRate     float64        `yaml:"management_fee_rate"`
	Carry                 sim.CarryTerms `yaml:"carry,omitempty"`
	Phase                 string         `yaml:"phase"`
	Seed                  *int64         `yaml:"seed,omitempty"` // nil = derived from the fund ID
}

// Upgrade rewrites a v1 catalog to the current version in place.
// Idempotent. Emits a deprecation warning for each renamed value.
func Upgrade(c *Catalog) {
	if c.Version == "" || c.Version == "1" {
		c.Version = CurrentVersion
	}
	for i := range c.Funds {
		f := &c.Funds[i]
		if name, ok := v1Phases[strings.ToLower(f.Phase)]; ok {
			logrus.Warnf("fund %q: deprecated phase %q auto-mapped to %q; update your catalog", f.ID, f.Phase, name)
			f.Phase = name
		}
		if name, ok := v1Strategies[strings.ToLower(f.Strategy)]; ok {
			logrus.Warnf("fund %q: deprecated strategy %q auto-mapped to %q; update your catalog", f.ID, f.Strategy, name)
			f.Strategy = name
		}
	}
}

// Load reads a catalog from path. Unknown keys are rejected.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a catalog document. Unknown keys are rejected.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	Upgrade(&c)
	return &c, nil
}

// Validate checks the document and every fund in it.
func (c *Catalog) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("unsupported catalog version %q; want %q", c.Version, CurrentVersion)
	}
	if len(c.Funds) == 0 {
		return fmt.Errorf("catalog lists no funds")
	}
	if _, _, err := c.DefaultAsOf(); err != nil {
		return err
	}
	_, err := c.Parameters()
	return err
}

// DefaultAsOf returns the catalog's as_of date, if set.
func (c *Catalog) DefaultAsOf() (time.Time, bool, error) {
	if c.AsOf == "" {
		return time.Time{}, false, nil
	}
	d, err := parseDate(c.AsOf)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("as_of: %w", err)
	}
	return d, true, nil
}

// Parameters converts every fund to validated engine parameters, in
// catalog order. Duplicate IDs are rejected.
func (c *Catalog) Parameters() ([]sim.FundParameters, error) {
	out := make([]sim.FundParameters, len(c.Funds))
	seen := make(map[string]int, len(c.Funds))
	for i := range c.Funds {
		p, err := c.Funds[i].toParameters()
		if err != nil {
			return nil, fmt.Errorf("funds[%d]: %w", i, err)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("funds[%d]: %w", i, err)
		}
		if j, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("funds[%d]: duplicate fund id %q (first at funds[%d])", i, p.ID, j)
		}
		seen[p.ID] = i
		out[i] = p
	}
	return out, nil
}

// Seeds returns each fund's seed. Funds without an explicit seed get one
// derived from their ID.
func (c *Catalog) Seeds() map[string]int64 {
	seeds := make(map[string]int64, len(c.Funds))
	for _, f := range c.Funds {
		if f.Seed != nil {
			seeds[f.ID] = *f.Seed
		} else {
			seeds[f.ID] = sim.SeedFromString(f.ID)
		}
	}
	return seeds
}

func (f *FundSpec) toParameters() (sim.FundParameters, error) {
	p := sim.FundParameters{
		ID:                    f.ID,
		Name:                  f.Name,
		Vintage:               f.Vintage,
		Committed:             f.Committed,
		Currency:              strings.ToUpper(f.Currency),
		InvestmentPeriodYears: f.InvestmentPeriodYears,
		FundTermYears:         f.FundTermYears,
		ManagementFeeRate:     f.ManagementFeeRate,
		Carry:                 f.Carry,
	}
	if p.Name == "" {
		p.Name = p.ID
	}

	var err error
	if p.Strategy, err = sim.ParseStrategy(f.Strategy); err != nil {
		return p, fmt.Errorf("fund %q: strategy: %w", f.ID, err)
	}
	if p.Phase, err = sim.ParseFundPhase(f.Phase); err != nil {
		return p, fmt.Errorf("fund %q: phase: %w", f.ID, err)
	}
	if f.FirstClose == "" {
		return p, fmt.Errorf("fund %q: first_close is required", f.ID)
	}
	if p.FirstClose, err = parseDate(f.FirstClose); err != nil {
		return p, fmt.Errorf("fund %q: first_close: %w", f.ID, err)
	}
	optional := []struct {
		field string
		value string
		dst   **time.Time
	}{
		{"final_close", f.FinalClose, &p.FinalClose},
		{"investment_period_end", f.InvestmentPeriodEnd, &p.InvestmentPeriodEnd},
		{"actual_term_end", f.ActualTermEnd, &p.ActualTermEnd},
	}
	for _, o := range optional {
		if o.value == "" {
			continue
		}
		d, err := parseDate(o.value)
		if err != nil {
			return p, fmt.Errorf("fund %q: %s: %w", f.ID, o.field, err)
		}
		*o.dst = &d
	}
	return p, nil
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return d, nil
}
