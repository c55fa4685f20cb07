package sim

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Rhymond/go-money"
)

// ErrInvalidParameters is wrapped by every FundParameters validation failure.
var ErrInvalidParameters = errors.New("invalid fund parameters")

// ValidationError names the offending field of a rejected FundParameters.
type ValidationError struct {
	FundID string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("fund %q: %s: %s", e.FundID, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidParameters }

// CarryTerms describes the GP's performance fee.
type CarryTerms struct {
	CarryRate  float64 `yaml:"carry_rate" json:"carry_rate"`
	HurdleRate float64 `yaml:"hurdle_rate" json:"hurdle_rate"`
	CatchUp    bool    `yaml:"catch_up" json:"catch_up"`
}

// FundParameters is the static description of one fund.
// Never mutated after construction.
type FundParameters struct {
	ID                    string
	Name                  string
	Strategy              Strategy
	Vintage               int
	Committed             float64
	Currency              string
	InvestmentPeriodYears int
	FundTermYears         int
	FirstClose            time.Time
	FinalClose            *time.Time // nil until the fund has held its final close
	InvestmentPeriodEnd   *time.Time
	ActualTermEnd         *time.Time // set once a fund has actually wound down
	ManagementFeeRate     float64
	Carry                 CarryTerms
	Phase                 FundPhase
}

// Validate checks every field and returns a *ValidationError naming the first
// offending one.
func (p *FundParameters) Validate() error {
	fail := func(field, format string, args ...any) error {
		return &ValidationError{FundID: p.ID, Field: field, Reason: fmt.Sprintf(format, args...)}
	}
	if p.ID == "" {
		return fail("id", "must not be empty")
	}
	if !p.Strategy.Valid() {
		return fail("strategy", "unknown strategy %q", string(p.Strategy))
	}
	if p.Vintage < 1980 || p.Vintage > 2100 {
		return fail("vintage", "must be in [1980, 2100], got %d", p.Vintage)
	}
	if math.IsNaN(p.Committed) || math.IsInf(p.Committed, 0) || p.Committed <= 0 {
		return fail("committed", "must be a positive finite amount, got %v", p.Committed)
	}
	if money.GetCurrency(p.Currency) == nil {
		return fail("currency", "unknown ISO-4217 code %q", p.Currency)
	}
	if p.InvestmentPeriodYears < 1 {
		return fail("investment_period_years", "must be at least 1, got %d", p.InvestmentPeriodYears)
	}
	if p.FundTermYears < 1 {
		return fail("fund_term_years", "must be at least 1, got %d", p.FundTermYears)
	}
	if p.InvestmentPeriodYears > p.FundTermYears {
		return fail("investment_period_years", "%d exceeds fund_term_years %d", p.InvestmentPeriodYears, p.FundTermYears)
	}
	if p.FirstClose.IsZero() {
		return fail("first_close", "must be set")
	}
	if y := p.FirstClose.Year(); y < p.Vintage-2 || y > p.Vintage {
		return fail("first_close", "year %d must be within two years before vintage %d", y, p.Vintage)
	}
	if p.FinalClose != nil && p.FinalClose.Before(p.FirstClose) {
		return fail("final_close", "%s is before first_close %s", p.FinalClose.Format(time.DateOnly), p.FirstClose.Format(time.DateOnly))
	}
	if p.InvestmentPeriodEnd != nil && p.InvestmentPeriodEnd.Before(p.FirstClose) {
		return fail("investment_period_end", "%s is before first_close", p.InvestmentPeriodEnd.Format(time.DateOnly))
	}
	if p.ActualTermEnd != nil && p.ActualTermEnd.Before(p.FirstClose) {
		return fail("actual_term_end", "%s is before first_close", p.ActualTermEnd.Format(time.DateOnly))
	}
	if p.ManagementFeeRate < 0 || p.ManagementFeeRate > 0.05 {
		return fail("management_fee_rate", "must be in [0, 0.05], got %v", p.ManagementFeeRate)
	}
	if p.Carry.CarryRate < 0 || p.Carry.CarryRate > 0.5 {
		return fail("carry.carry_rate", "must be in [0, 0.5], got %v", p.Carry.CarryRate)
	}
	if p.Carry.HurdleRate < 0 || p.Carry.HurdleRate > 0.3 {
		return fail("carry.hurdle_rate", "must be in [0, 0.3], got %v", p.Carry.HurdleRate)
	}
	if !p.Phase.Valid() {
		return fail("phase", "unknown phase %q", string(p.Phase))
	}
	return nil
}

// LastYear is the final calendar year of the fund's scheduled term.
func (p *FundParameters) LastYear() int {
	return p.Vintage + p.FundTermYears
}

// ExpectedTermEnd is the scheduled end of the fund's term.
func (p *FundParameters) ExpectedTermEnd() time.Time {
	return yearEnd(p.LastYear())
}

// TermEnd returns the actual term end when known, else the expected one.
func (p *FundParameters) TermEnd() time.Time {
	if p.ActualTermEnd != nil {
		return *p.ActualTermEnd
	}
	return p.ExpectedTermEnd()
}

// InvestmentPeriodEndYear is the last calendar year of the investment period.
func (p *FundParameters) InvestmentPeriodEndYear() int {
	if p.InvestmentPeriodEnd != nil {
		return p.InvestmentPeriodEnd.Year()
	}
	return p.Vintage + p.InvestmentPeriodYears
}
