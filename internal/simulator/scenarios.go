package simulator

import (
	"github.com/iwvelando/solar-simulator/internal/config"
	"github.com/iwvelando/solar-simulator/pkg/constants"
	"github.com/iwvelando/solar-simulator/pkg/loans"
)

// FinancingScenarios prices systemCost over each configured term at the
// configured annual rate, in the order the terms are configured.
func FinancingScenarios(systemCost float64, conf config.Simulator) []FinancingScenario {
	terms := conf.ScenarioTerms
	if len(terms) == 0 {
		terms = constants.DefaultScenarioTerms
	}

	scenarios := make([]FinancingScenario, 0, len(terms))
	for _, years := range terms {
		periods := years * constants.MonthsPerYear
		monthlyPayment := loans.CalculateMonthlyPayment(systemCost, conf.FinancingRate, periods)
		totalCost := loans.TotalCost(monthlyPayment, periods)

		scenarios = append(scenarios, FinancingScenario{
			Years:          years,
			MonthlyPayment: monthlyPayment,
			TotalCost:      totalCost,
			TotalInterest:  totalCost - systemCost,
		})
	}
	return scenarios
}
