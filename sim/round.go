package sim

import (
	"math"

	"github.com/shopspring/decimal"
)

// RoundRatio rounds a multiple or percentage to two decimals.
func RoundRatio(x float64) float64 { return roundPlaces(x, 2) }

// RoundAmount rounds a currency amount to the nearest unit.
func RoundAmount(x float64) float64 { return roundPlaces(x, 0) }

// roundPlaces rounds half away from zero. NaN and Inf pass through unchanged
// since decimal cannot represent them.
func roundPlaces(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}
