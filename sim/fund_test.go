package sim

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFundParameters_Validate_Valid(t *testing.T) {
	require.NoError(t, testFund().Validate())
	require.NoError(t, youngFund().Validate())
}

func TestFundParameters_Validate_NamesOffendingField(t *testing.T) {
	before := date(2014, time.January, 1)
	tests := []struct {
		name   string
		mutate func(p *FundParameters)
		field  string
	}{
		{"empty id", func(p *FundParameters) { p.ID = "" }, "id"},
		{"unknown strategy", func(p *FundParameters) { p.Strategy = "hedge" }, "strategy"},
		{"vintage too old", func(p *FundParameters) { p.Vintage = 1900 }, "vintage"},
		{"negative commitment", func(p *FundParameters) { p.Committed = -1 }, "committed"},
		{"zero commitment", func(p *FundParameters) { p.Committed = 0 }, "committed"},
		{"NaN commitment", func(p *FundParameters) { p.Committed = math.NaN() }, "committed"},
		{"unknown currency", func(p *FundParameters) { p.Currency = "XXY" }, "currency"},
		{"zero investment period", func(p *FundParameters) { p.InvestmentPeriodYears = 0 }, "investment_period_years"},
		{"zero term", func(p *FundParameters) { p.FundTermYears = 0 }, "fund_term_years"},
		{"investment period beyond term", func(p *FundParameters) { p.InvestmentPeriodYears = 12 }, "investment_period_years"},
		{"missing first close", func(p *FundParameters) { p.FirstClose = time.Time{} }, "first_close"},
		{"first close after vintage", func(p *FundParameters) { p.FirstClose = date(2016, time.January, 5) }, "first_close"},
		{"final close before first", func(p *FundParameters) { p.FinalClose = &before }, "final_close"},
		{"ip end before first close", func(p *FundParameters) { p.InvestmentPeriodEnd = &before }, "investment_period_end"},
		{"term end before first close", func(p *FundParameters) { p.ActualTermEnd = &before }, "actual_term_end"},
		{"fee too high", func(p *FundParameters) { p.ManagementFeeRate = 0.2 }, "management_fee_rate"},
		{"negative carry", func(p *FundParameters) { p.Carry.CarryRate = -0.1 }, "carry.carry_rate"},
		{"hurdle too high", func(p *FundParameters) { p.Carry.HurdleRate = 0.5 }, "carry.hurdle_rate"},
		{"unknown phase", func(p *FundParameters) { p.Phase = "dormant" }, "phase"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testFund()
			tt.mutate(p)
			err := p.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidParameters))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.True(t, strings.Contains(err.Error(), tt.field), "error %q should name %q", err, tt.field)
		})
	}
}

func TestFundParameters_TermDates(t *testing.T) {
	p := testFund()
	assert.Equal(t, 2025, p.LastYear())
	assert.Equal(t, date(2025, time.December, 31), p.ExpectedTermEnd())
	assert.Equal(t, p.ExpectedTermEnd(), p.TermEnd())
	assert.Equal(t, 2020, p.InvestmentPeriodEndYear())

	end := date(2024, time.September, 30)
	p.ActualTermEnd = &end
	assert.Equal(t, end, p.TermEnd())

	y := youngFund()
	assert.Equal(t, 2027, y.InvestmentPeriodEndYear())
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy(" Venture ")
	require.NoError(t, err)
	assert.Equal(t, StrategyVenture, s)
	assert.Equal(t, 1.3, s.Profile().NAVFactor)

	_, err = ParseStrategy("hedge_fund")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy")

	for _, st := range AllStrategies {
		assert.True(t, st.Valid(), st)
		assert.NotEmpty(t, st.Profile().Label)
	}
}

func TestStrategy_ProfileUnknownPanics(t *testing.T) {
	assert.Panics(t, func() { Strategy("hedge").Profile() })
}

func TestParseFundPhase(t *testing.T) {
	p, err := ParseFundPhase("LIQUIDATION")
	require.NoError(t, err)
	assert.True(t, p.Terminal())
	assert.False(t, p.Deploying())

	p, err = ParseFundPhase("investment_period")
	require.NoError(t, err)
	assert.True(t, p.Deploying())

	_, err = ParseFundPhase("dormant")
	assert.Error(t, err)
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 1.24, RoundRatio(1.235))
	assert.Equal(t, -1.24, RoundRatio(-1.235))
	assert.Equal(t, 1235.0, RoundAmount(1234.5))
	assert.True(t, math.IsNaN(RoundRatio(math.NaN())))
	assert.True(t, math.IsInf(RoundAmount(math.Inf(1)), 1))
}

func TestEventID_Stable(t *testing.T) {
	assert.Equal(t, EventID("F", "cashflow", 1), EventID("F", "cashflow", 1))
	assert.NotEqual(t, EventID("F", "cashflow", 1), EventID("F", "cashflow", 2))
	assert.NotEqual(t, EventID("F", "cashflow", 1), EventID("G", "cashflow", 1))
}

func TestQuarterHelpers(t *testing.T) {
	assert.Equal(t, date(2021, time.March, 31), quarterEnd(2021, 1))
	assert.Equal(t, date(2021, time.June, 30), quarterEnd(2021, 2))
	assert.Equal(t, date(2021, time.September, 30), quarterEnd(2021, 3))
	assert.Equal(t, date(2021, time.December, 31), quarterEnd(2021, 4))
	assert.Equal(t, "2021-Q3", QuarterLabel(date(2021, time.September, 30)))
}
