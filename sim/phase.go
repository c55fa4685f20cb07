package sim

import (
	"fmt"
	"strings"
)

// FundPhase is the current lifecycle stage of a fund.
type FundPhase string

const (
	FundPhaseFundraising FundPhase = "fundraising"
	FundPhaseInvesting   FundPhase = "investment_period"
	FundPhaseHarvesting  FundPhase = "harvesting"
	FundPhaseExtension   FundPhase = "extension"
	FundPhaseLiquidation FundPhase = "liquidation"
	FundPhaseTerminated  FundPhase = "terminated"
)

var validPhases = map[FundPhase]bool{
	FundPhaseFundraising: true,
	FundPhaseInvesting:   true,
	FundPhaseHarvesting:  true,
	FundPhaseExtension:   true,
	FundPhaseLiquidation: true,
	FundPhaseTerminated:  true,
}

// ParseFundPhase converts a catalog string into a FundPhase.
func ParseFundPhase(s string) (FundPhase, error) {
	p := FundPhase(strings.ToLower(strings.TrimSpace(s)))
	if !validPhases[p] {
		return "", fmt.Errorf("unknown phase %q; valid: fundraising, investment_period, harvesting, extension, liquidation, terminated", s)
	}
	return p, nil
}

// Valid reports whether p is a known phase.
func (p FundPhase) Valid() bool { return validPhases[p] }

// Terminal reports whether the fund is winding down or closed.
func (p FundPhase) Terminal() bool {
	return p == FundPhaseLiquidation || p == FundPhaseTerminated
}

// Deploying reports whether the fund is still drawing capital for new investments.
func (p FundPhase) Deploying() bool {
	return p == FundPhaseFundraising || p == FundPhaseInvesting
}

func (p FundPhase) String() string { return string(p) }
