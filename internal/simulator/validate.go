package simulator

import (
	"fmt"

	"github.com/iwvelando/solar-simulator/pkg/constants"
	"github.com/iwvelando/solar-simulator/pkg/mathutil"
)

// Field names reported in violations.
const (
	FieldMonthlyBill        = "monthlyBill"
	FieldMonthlyConsumption = "monthlyConsumption"
	FieldTariff             = "tariff"
	FieldIrradiation        = "irradiation"
	FieldRoofArea           = "roofArea"
	FieldTariffFlag         = "tariffFlag"
)

// Violation is one broken input rule.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult reports every rule the input breaks, not just the first.
type ValidationResult struct {
	IsValid    bool        `json:"isValid"`
	Errors     []string    `json:"errors"`
	Violations []Violation `json:"violations,omitempty"`
}

// Validate checks raw input against the domain bounds. Rules are evaluated
// independently and in a fixed order; in is not modified.
func Validate(in Input) ValidationResult {
	var violations []Violation
	add := func(field, message string) {
		violations = append(violations, Violation{Field: field, Message: message})
	}

	// Written as negations so NaN fails.
	if !(in.MonthlyBill > 0) {
		add(FieldMonthlyBill, "monthly bill must be greater than zero")
	}
	if in.MonthlyBill > constants.MaxMonthlyBill {
		add(FieldMonthlyBill, "monthly bill is unusually high, please verify it is correct")
	}

	if in.MonthlyConsumption != nil && !(*in.MonthlyConsumption > 0 && mathutil.IsFinite(*in.MonthlyConsumption)) {
		add(FieldMonthlyConsumption, "monthly consumption must be greater than zero")
	}

	if in.Tariff != nil && !(*in.Tariff > 0 && *in.Tariff <= constants.MaxTariff) {
		add(FieldTariff, fmt.Sprintf("tariff must be between 0.01 and %.2f per kWh", constants.MaxTariff))
	}

	if in.Irradiation != nil && !(*in.Irradiation >= constants.MinIrradiation && *in.Irradiation <= constants.MaxIrradiation) {
		add(FieldIrradiation, fmt.Sprintf("irradiation must be between %g and %g kWh/m²/day",
			constants.MinIrradiation, constants.MaxIrradiation))
	}

	if in.RoofArea != nil && !(*in.RoofArea > 0 && mathutil.IsFinite(*in.RoofArea)) {
		add(FieldRoofArea, "roof area must be greater than zero")
	}

	if !in.TariffFlag.Valid() {
		add(FieldTariffFlag, fmt.Sprintf("unknown tariff flag %d", int(in.TariffFlag)))
	}

	result := ValidationResult{
		IsValid:    len(violations) == 0,
		Errors:     make([]string, 0, len(violations)),
		Violations: violations,
	}
	for _, v := range violations {
		result.Errors = append(result.Errors, v.Message)
	}
	return result
}
