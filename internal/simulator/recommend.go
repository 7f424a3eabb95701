package simulator

import (
	"fmt"

	"github.com/iwvelando/solar-simulator/pkg/constants"
	"github.com/iwvelando/solar-simulator/pkg/mathutil"
)

// Recommend produces guidance for a computed result. Messages follow a fixed
// rule order; the environmental estimate is always included when the
// consumption is known.
func Recommend(result *Result) []string {
	recommendations := []string{}
	if result == nil {
		return recommendations
	}

	consumption := result.Input.MonthlyConsumption
	if !(consumption > 0) {
		return recommendations
	}

	if consumption < constants.LowConsumptionKwh {
		recommendations = append(recommendations,
			"Your consumption is low. A small system will already bring great savings!")
	} else if consumption > constants.HighConsumptionKwh {
		recommendations = append(recommendations,
			"High consumption detected. Solar energy will be especially advantageous for you!")
	}

	if result.Financing.MonthlyPayment <= result.EstimatedSavings.Monthly*constants.FinancingComfortRatio {
		recommendations = append(recommendations,
			"Excellent! The financing payment is comfortably below your monthly savings.")
	}

	if result.Payback.Years <= constants.FastPaybackYears {
		recommendations = append(recommendations,
			"Fast payback! Your investment pays for itself in just a few years.")
	}

	recommendations = append(recommendations,
		fmt.Sprintf("You will avoid %d kg of CO2 per year!", CO2AvoidedKgPerYear(consumption)))

	if fit := result.RoofFit; fit != nil && !fit.Fits {
		recommendations = append(recommendations,
			fmt.Sprintf("The panels need about %.1f m² but only %.1f m² of roof is available; consider higher-power panels.",
				fit.Required, fit.Available))
	}

	return recommendations
}

// CO2AvoidedKgPerYear estimates the yearly grid emissions displaced by
// generating monthly kWh locally.
func CO2AvoidedKgPerYear(monthlyConsumption float64) int {
	return int(mathutil.RoundHalfUp(monthlyConsumption * constants.CO2KgPerKwh * constants.MonthsPerYear))
}
