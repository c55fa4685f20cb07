package sim

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Strategy is a fund's investment strategy category.
type Strategy string

const (
	StrategyBuyout         Strategy = "buyout"
	StrategyGrowth         Strategy = "growth"
	StrategyVenture        Strategy = "venture"
	StrategyInfrastructure Strategy = "infrastructure"
	StrategyRealEstate     Strategy = "real_estate"
	StrategyPrivateCredit  Strategy = "private_credit"
	StrategySecondaries    Strategy = "secondaries"
)

// StrategyProfile holds the values attached to each strategy.
type StrategyProfile struct {
	// Label is the display name.
	Label string
	// NAVFactor scales the J-curve multiplier's deviation from 1.0.
	NAVFactor float64
	// IRRScale scales the long-run IRR asymptote.
	IRRScale float64
	// IncomeYield is the annual cash yield on called capital; 0 for non-yielding strategies.
	IncomeYield float64
}

var strategyProfiles = map[Strategy]StrategyProfile{
	StrategyBuyout:         {Label: "Buyout", NAVFactor: 1.0, IRRScale: 1.0},
	StrategyGrowth:         {Label: "Growth Equity", NAVFactor: 1.15, IRRScale: 1.1},
	StrategyVenture:        {Label: "Venture Capital", NAVFactor: 1.3, IRRScale: 1.3},
	StrategyInfrastructure: {Label: "Infrastructure", NAVFactor: 0.8, IRRScale: 0.75, IncomeYield: 0.04},
	StrategyRealEstate:     {Label: "Real Estate", NAVFactor: 0.9, IRRScale: 0.8, IncomeYield: 0.03},
	StrategyPrivateCredit:  {Label: "Private Credit", NAVFactor: 0.6, IRRScale: 0.65, IncomeYield: 0.06},
	StrategySecondaries:    {Label: "Secondaries", NAVFactor: 0.95, IRRScale: 0.95},
}

// AllStrategies lists every known strategy in display order.
var AllStrategies = []Strategy{
	StrategyBuyout,
	StrategyGrowth,
	StrategyVenture,
	StrategyInfrastructure,
	StrategyRealEstate,
	StrategyPrivateCredit,
	StrategySecondaries,
}

func init() {
	if len(AllStrategies) != len(strategyProfiles) {
		logrus.Panicf("strategy registry mismatch: %d strategies, %d profiles", len(AllStrategies), len(strategyProfiles))
	}
	for _, s := range AllStrategies {
		p, ok := strategyProfiles[s]
		if !ok {
			logrus.Panicf("strategy %q has no profile", s)
		}
		if p.NAVFactor <= 0 || p.IRRScale <= 0 {
			logrus.Panicf("strategy %q has non-positive scaling factors", s)
		}
	}
}

// ParseStrategy converts a catalog string into a Strategy.
// Unknown values are an error; there is no fallback profile.
func ParseStrategy(s string) (Strategy, error) {
	st := Strategy(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := strategyProfiles[st]; !ok {
		return "", fmt.Errorf("unknown strategy %q; valid: %s", s, joinStrategies())
	}
	return st, nil
}

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	_, ok := strategyProfiles[s]
	return ok
}

// Profile returns the values attached to s. Panics on unknown strategies,
// which can only be constructed by bypassing ParseStrategy.
func (s Strategy) Profile() StrategyProfile {
	p, ok := strategyProfiles[s]
	if !ok {
		logrus.Panicf("unknown strategy %q", string(s))
	}
	return p
}

func (s Strategy) String() string { return string(s) }

func joinStrategies() string {
	names := make([]string, len(AllStrategies))
	for i, s := range AllStrategies {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
