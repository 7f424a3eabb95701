// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/solar-simulator/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Halves round toward positive infinity, matching the rounding the
// simulator's published figures were produced with.
func Round(val float64) float64 {
	return RoundHalfUp(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// RoundHalfUp rounds to the nearest whole number with halves going up.
func RoundHalfUp(val float64) float64 {
	return math.Floor(val + 0.5)
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// IsFinite reports whether val is neither NaN nor infinite.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}
