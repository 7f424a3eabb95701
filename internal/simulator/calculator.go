package simulator

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/solar-simulator/internal/config"
	"github.com/iwvelando/solar-simulator/pkg/constants"
	"github.com/iwvelando/solar-simulator/pkg/loans"
	"github.com/iwvelando/solar-simulator/pkg/mathutil"
	"go.uber.org/zap"
)

// Calculator turns input into a Result against a fixed configuration. It
// holds no mutable state and is safe for concurrent use.
type Calculator struct {
	conf   config.Simulator
	logger *zap.Logger
}

// NewCalculator creates a calculator for conf. conf is expected to have
// passed config.Simulator.Validate.
func NewCalculator(logger *zap.Logger, conf config.Simulator) *Calculator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calculator{conf: conf, logger: logger}
}

// Calculate runs the economy model on already validated input.
func (c *Calculator) Calculate(in Input) (*Result, error) {
	return c.CalculateAt(in, time.Now())
}

// CalculateAt runs the economy model with an injectable generation time.
func (c *Calculator) CalculateAt(in Input, at time.Time) (*Result, error) {
	resolved := Resolve(in, c.conf)
	if !(resolved.EffectiveTariff() > 0) {
		return nil, fmt.Errorf("%w: tariff %v cannot price consumption", ErrDomainInvariant, resolved.EffectiveTariff())
	}

	monthlySavings := mathutil.ApplyPercentage(resolved.MonthlyBill, c.conf.ReductionPercentage)
	yearlySavings := monthlySavings * constants.MonthsPerYear

	specs, err := c.sizeSystem(resolved.MonthlyConsumption, resolved.Irradiation)
	if err != nil {
		return nil, err
	}

	payback, err := paybackPeriod(specs.EstimatedCost, monthlySavings)
	if err != nil {
		return nil, err
	}

	totalPayments := c.conf.FinancingYears * constants.MonthsPerYear
	monthlyPayment := loans.CalculateMonthlyPayment(specs.EstimatedCost, c.conf.FinancingRate, totalPayments)

	result := &Result{
		ID:    uuid.NewString(),
		Input: resolved,
		EstimatedSavings: Savings{
			Monthly:    monthlySavings,
			Yearly:     yearlySavings,
			Percentage: c.conf.ReductionPercentage,
		},
		SystemSpecs: specs,
		Payback:     payback,
		Financing: Financing{
			MonthlyPayment: monthlyPayment,
			TotalCost:      loans.TotalCost(monthlyPayment, totalPayments),
			InterestRate:   c.conf.FinancingRate,
			Years:          c.conf.FinancingYears,
		},
		ConsumptionRange: ClassifyConsumption(resolved.MonthlyConsumption),
		Disclaimer:       Disclaimer,
		GeneratedAt:      at.UTC(),
	}

	if resolved.RoofArea != nil {
		result.RoofFit = &RoofFit{
			Available: *resolved.RoofArea,
			Required:  specs.Area,
			Fits:      specs.Area <= *resolved.RoofArea,
		}
	}

	c.logger.Debug("solar economy calculated",
		zap.String("op", "simulator.Calculate"),
		zap.String("id", result.ID),
		zap.Float64("consumption", resolved.MonthlyConsumption),
		zap.Float64("power", specs.Power),
		zap.Float64("cost", specs.EstimatedCost),
		zap.Int("paybackYears", payback.Years),
		zap.Int("paybackMonths", payback.Months),
	)

	return result, nil
}

// sizeSystem derives the photovoltaic system needed to cover consumption.
func (c *Calculator) sizeSystem(consumption, irradiation float64) (SystemSpecs, error) {
	dailyGeneration := irradiation * constants.SystemEfficiency
	monthlyGeneration := dailyGeneration * constants.DaysPerMonth
	if !(monthlyGeneration > 0) {
		return SystemSpecs{}, fmt.Errorf("%w: irradiation %v yields no generation", ErrDomainInvariant, irradiation)
	}
	if !(c.conf.PanelPower > 0) {
		return SystemSpecs{}, fmt.Errorf("%w: panel power %v", ErrDomainInvariant, c.conf.PanelPower)
	}

	power := mathutil.Round(consumption / monthlyGeneration)
	panelCount := math.Ceil(power * constants.WattsPerKilowatt / c.conf.PanelPower)
	if !(panelCount >= 0 && panelCount < math.MaxInt) {
		return SystemSpecs{}, fmt.Errorf("%w: %v panels cannot be represented", ErrDomainInvariant, panelCount)
	}
	panels := int(panelCount)

	return SystemSpecs{
		Power:         power,
		EstimatedCost: power * c.conf.SystemCostPerKwp,
		Panels:        panels,
		Area:          float64(panels) * c.conf.PanelArea,
	}, nil
}

// paybackPeriod splits cost/savings into whole years and a rounded month
// remainder. A remainder that rounds up to a full year is carried into the
// years so the months are always in [0, 11].
func paybackPeriod(systemCost, monthlySavings float64) (Payback, error) {
	if !(monthlySavings > 0) || !mathutil.IsFinite(monthlySavings) {
		return Payback{}, fmt.Errorf("%w: monthly savings %v cannot repay the system", ErrDomainInvariant, monthlySavings)
	}

	totalMonths := systemCost / monthlySavings
	wholeYears := math.Floor(totalMonths / constants.MonthsPerYear)
	if !(wholeYears >= 0 && wholeYears < math.MaxInt) {
		return Payback{}, fmt.Errorf("%w: payback of %v months cannot be represented", ErrDomainInvariant, totalMonths)
	}
	years := int(wholeYears)
	months := int(mathutil.RoundHalfUp(math.Mod(totalMonths, constants.MonthsPerYear)))
	if months == constants.MonthsPerYear {
		years++
		months = 0
	}

	return Payback{Years: years, Months: months, TotalMonths: totalMonths}, nil
}

// Schedule returns the month-by-month amortization of financing systemCost
// over the configured term and rate.
func (c *Calculator) Schedule(systemCost float64) ([]loans.Payment, error) {
	generator := loans.NewAmortizationScheduleGenerator(c.logger)
	return generator.GenerateSchedule(systemCost, c.conf.FinancingRate, c.conf.FinancingYears*constants.MonthsPerYear)
}
