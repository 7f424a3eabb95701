// Package loans provides common loan processing utilities.
package loans

import (
	"fmt"
	"math"

	"github.com/iwvelando/solar-simulator/pkg/constants"
	"github.com/iwvelando/solar-simulator/pkg/mathutil"
	"go.uber.org/zap"
)

// Payment holds the values for a given payment.
type Payment struct {
	Month              int     `json:"month"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
}

// PeriodicRate converts a nominal annual percentage rate into a monthly
// fraction, e.g. 12 -> 0.01.
func PeriodicRate(annualInterestRate float64) float64 {
	return annualInterestRate / constants.PercentageMultiplier / constants.MonthsPerYear
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the
// standard amortization (annuity) formula, rounded to cents. A zero rate
// spreads the principal evenly and is returned unrounded.
func CalculateMonthlyPayment(principal, annualInterestRate float64, termMonths int) float64 {
	if termMonths <= 0 {
		return 0
	}

	periodicInterestRate := PeriodicRate(annualInterestRate)
	if periodicInterestRate == 0 {
		return principal / float64(termMonths)
	}

	power := math.Pow(1.00+periodicInterestRate, float64(termMonths))
	payment := principal * (periodicInterestRate * power) / (power - 1.00)
	return mathutil.Round(payment)
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * PeriodicRate(annualInterestRate)
}

// TotalCost is the sum of all payments over the term.
func TotalCost(monthlyPayment float64, termMonths int) float64 {
	return monthlyPayment * float64(termMonths)
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// GenerateSchedule creates a complete month-by-month amortization schedule.
// The final payment absorbs the cent rounding of the fixed payment so the
// remaining principal closes at exactly zero.
func (g *AmortizationScheduleGenerator) GenerateSchedule(principal, annualInterestRate float64, termMonths int) ([]Payment, error) {
	if termMonths <= 0 {
		return nil, fmt.Errorf("loan term must be positive, got %d months", termMonths)
	}
	if principal < 0 || !mathutil.IsFinite(principal) {
		return nil, fmt.Errorf("invalid loan principal %v", principal)
	}

	monthlyPayment := CalculateMonthlyPayment(principal, annualInterestRate, termMonths)
	schedule := make([]Payment, 0, termMonths)
	balance := principal

	for month := 1; month <= termMonths; month++ {
		var current Payment
		current.Month = month
		current.Interest = CalculateInterestPayment(balance, annualInterestRate)
		current.Payment = monthlyPayment
		current.Principal = monthlyPayment - current.Interest

		remaining := balance - current.Principal
		if month == termMonths || remaining < 0 || mathutil.IsZero(remaining) {
			// We will get machine error otherwise so just close the balance.
			current.Principal = balance
			current.Payment = balance + current.Interest
			current.RemainingPrincipal = 0.00
			schedule = append(schedule, current)
			if month != termMonths {
				g.logger.Debug(fmt.Sprintf("loan paid off early at month %d of %d", month, termMonths),
					zap.String("op", "loans.GenerateSchedule"),
				)
			}
			break
		}

		current.RemainingPrincipal = remaining
		schedule = append(schedule, current)
		balance = current.RemainingPrincipal
	}

	g.logger.Debug("generated amortization schedule",
		zap.String("op", "loans.GenerateSchedule"),
		zap.Float64("principal", principal),
		zap.Float64("annualRate", annualInterestRate),
		zap.Int("payments", len(schedule)),
	)

	return schedule, nil
}
