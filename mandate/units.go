package mandate

import "math"

// The backend's canonical risk unit is integer basis points. Users type
// percentages; the conversion happens exactly once, here, at the UI
// boundary. 1 bps = 0.01%.

// Per-trade and monthly-cap bounds, in percent as the user enters them.
const (
	MinPerTradePercent = 0.01
	MaxPerTradePercent = 5.00
	MinMonthlyPercent  = 0.01
	MaxMonthlyPercent  = 10.00
)

// Derived bps bounds.
const (
	MinPerTradeBps = 1
	MaxPerTradeBps = 500
	MinMonthlyBps  = 1
	MaxMonthlyBps  = 1000
)

// RoundPercent rounds a user-entered percentage to exactly 2 decimal places.
func RoundPercent(p float64) float64 {
	return math.Round(p*100) / 100
}

// PercentToBps converts a percentage to integer basis points, rounding to
// the nearest point. PercentToBps(1.50) == 150.
func PercentToBps(p float64) int {
	return int(math.Round(p * 100))
}

// BpsToPercent converts integer basis points back to a percentage for
// display.
func BpsToPercent(bps int) float64 {
	return float64(bps) / 100
}

// ClampPercent pulls p into [lo, hi], the way a bounded number input behaves
// while the user types.
func ClampPercent(p, lo, hi float64) float64 {
	if p < lo {
		return lo
	}
	if p > hi {
		return hi
	}
	return p
}
