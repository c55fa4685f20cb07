package sim

import "time"

// testAsOf is the reporting date used by most tests.
var testAsOf = date(2024, time.June, 30)

// testFund returns a validated, harvesting buyout fund: vintage 2015,
// five-year investment period, ten-year term, 100m USD.
func testFund() *FundParameters {
	finalClose := date(2016, time.June, 30)
	ipEnd := date(2020, time.March, 15)
	return &FundParameters{
		ID:                    "NW-BO-IV",
		Name:                  "Northwind Buyout IV",
		Strategy:              StrategyBuyout,
		Vintage:               2015,
		Committed:             100_000_000,
		Currency:              "USD",
		InvestmentPeriodYears: 5,
		FundTermYears:         10,
		FirstClose:            date(2015, time.March, 15),
		FinalClose:            &finalClose,
		InvestmentPeriodEnd:   &ipEnd,
		ManagementFeeRate:     0.02,
		Carry:                 CarryTerms{CarryRate: 0.2, HurdleRate: 0.08, CatchUp: true},
		Phase:                 FundPhaseHarvesting,
	}
}

// youngFund returns a venture fund still in its investment period.
func youngFund() *FundParameters {
	return &FundParameters{
		ID:                    "AC-VC-II",
		Name:                  "Acme Ventures II",
		Strategy:              StrategyVenture,
		Vintage:               2022,
		Committed:             50_000_000,
		Currency:              "EUR",
		InvestmentPeriodYears: 5,
		FundTermYears:         10,
		FirstClose:            date(2022, time.February, 1),
		ManagementFeeRate:     0.025,
		Phase:                 FundPhaseInvesting,
	}
}

func sumCalls(flows []CashFlowEvent, estimates bool) float64 {
	total := 0.0
	for _, f := range flows {
		if f.Type == CashFlowCapitalCall && f.IsEstimate == estimates {
			total -= f.Amount
		}
	}
	return total
}
