package simulator

import (
	"time"

	"github.com/iwvelando/solar-simulator/internal/config"
	"github.com/iwvelando/solar-simulator/pkg/loans"
	"go.uber.org/zap"
)

// Engine is the entry point used by the CLI and the HTTP API: it validates
// input, runs the calculator and derives recommendations and scenarios.
type Engine struct {
	conf       config.Simulator
	calculator *Calculator
	logger     *zap.Logger
	now        func() time.Time
}

// NewEngine builds an engine around an immutable simulator configuration.
func NewEngine(logger *zap.Logger, conf config.Simulator) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		conf:       conf,
		calculator: NewCalculator(logger, conf),
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock returns a copy of the engine stamping results with now().
func (e *Engine) WithClock(now func() time.Time) *Engine {
	clone := *e
	clone.now = now
	return &clone
}

// Config returns the simulator configuration the engine computes against.
func (e *Engine) Config() config.Simulator {
	return e.conf
}

// Validate checks raw input without calculating.
func (e *Engine) Validate(in Input) ValidationResult {
	return Validate(in)
}

// Simulate validates in and, when valid, calculates the result. Invalid input
// yields a *ValidationError listing every broken rule.
func (e *Engine) Simulate(in Input) (*Result, error) {
	validation := Validate(in)
	if !validation.IsValid {
		e.logger.Debug("simulation input rejected",
			zap.String("op", "simulator.Simulate"),
			zap.Strings("errors", validation.Errors),
		)
		return nil, &ValidationError{Violations: validation.Violations}
	}

	result, err := e.calculator.CalculateAt(in, e.now())
	if err != nil {
		e.logger.Error("simulation failed on validated input",
			zap.String("op", "simulator.Simulate"),
			zap.Error(err),
		)
		return nil, err
	}
	return result, nil
}

// Recommend returns guidance strings for result.
func (e *Engine) Recommend(result *Result) []string {
	return Recommend(result)
}

// FinancingScenarios compares the configured loan terms for systemCost.
func (e *Engine) FinancingScenarios(systemCost float64) []FinancingScenario {
	return FinancingScenarios(systemCost, e.conf)
}

// Schedule returns the amortization schedule of the default financing.
func (e *Engine) Schedule(systemCost float64) ([]loans.Payment, error) {
	return e.calculator.Schedule(systemCost)
}
