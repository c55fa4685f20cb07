package benchmark

import (
	"sort"

	"github.com/fundsim/fundsim/sim"
)

const maxDeploymentYears = 3

// Share of unfunded drawn in each of the next three years once a fund has
// stopped deploying: follow-ons and fees only.
var postInvestmentDecay = [maxDeploymentYears]float64{0.05, 0.03, 0.02}

// PacingPoint is a projected capital call for one fund-year.
type PacingPoint struct {
	FundID        string  `json:"fund_id" yaml:"fund_id"`
	Year          int     `json:"year" yaml:"year"`
	ProjectedCall float64 `json:"projected_call" yaml:"projected_call"`
	UnfundedAfter float64 `json:"unfunded_after" yaml:"unfunded_after"`
}

// ProjectPacing projects capital calls for the years after asOfYear.
// Terminal funds and funds with nothing unfunded project nothing. A fund
// still deploying spreads its unfunded evenly over its remaining investment
// years, capped at three; any other active fund draws a decaying share.
func ProjectPacing(p *sim.FundParameters, unfunded float64, asOfYear int) []PacingPoint {
	if p.Phase.Terminal() || unfunded <= 0 {
		return nil
	}

	var calls []float64
	if p.Phase.Deploying() {
		years := p.InvestmentPeriodEndYear() - asOfYear
		if years > maxDeploymentYears {
			years = maxDeploymentYears
		}
		if years < 1 {
			years = 1
		}
		for i := 0; i < years; i++ {
			calls = append(calls, unfunded/float64(years))
		}
	} else {
		for _, share := range postInvestmentDecay {
			calls = append(calls, unfunded*share)
		}
	}

	points := make([]PacingPoint, len(calls))
	remaining := unfunded
	for i, c := range calls {
		remaining -= c
		if remaining < 0 {
			remaining = 0
		}
		points[i] = PacingPoint{
			FundID:        p.ID,
			Year:          asOfYear + 1 + i,
			ProjectedCall: sim.RoundAmount(c),
			UnfundedAfter: sim.RoundAmount(remaining),
		}
	}
	return points
}

// YearPacing is the portfolio's projected calls for one year.
type YearPacing struct {
	Year           int     `json:"year" yaml:"year"`
	ProjectedCalls float64 `json:"projected_calls" yaml:"projected_calls"`
	Funds          int     `json:"funds" yaml:"funds"`
}

// PortfolioPacing sums per-fund projections by year, ordered by year.
func PortfolioPacing(points []PacingPoint) []YearPacing {
	byYear := map[int]*YearPacing{}
	for _, pt := range points {
		yp, ok := byYear[pt.Year]
		if !ok {
			yp = &YearPacing{Year: pt.Year}
			byYear[pt.Year] = yp
		}
		yp.ProjectedCalls += pt.ProjectedCall
		yp.Funds++
	}
	out := make([]YearPacing, 0, len(byYear))
	for _, yp := range byYear {
		out = append(out, *yp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
