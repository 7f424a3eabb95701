// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/iwvelando/solar-simulator/pkg/constants"
	"github.com/iwvelando/solar-simulator/pkg/mathutil"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// Configuration holds all configuration for solar-simulator.
type Configuration struct {
	Simulator Simulator     `mapstructure:"simulator" yaml:"simulator"`
	Logging   LoggingConfig `mapstructure:"logging" yaml:"logging,omitempty"`
	Output    OutputConfig  `mapstructure:"output" yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level,omitempty"`           // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format,omitempty"`         // json, console
	OutputFile string `mapstructure:"outputFile" yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format   string `mapstructure:"format" yaml:"format,omitempty"`     // pretty, json, csv, pdf, xlsx
	Language string `mapstructure:"language" yaml:"language,omitempty"` // BCP 47 tag for number formatting
}

// Simulator holds the economic and technical parameters every simulation is
// computed against. It is loaded once and never mutated afterwards.
type Simulator struct {
	DefaultTariff       float64 `mapstructure:"defaultTariff" yaml:"defaultTariff" json:"defaultTariff"`                   // currency/kWh
	ReductionPercentage float64 `mapstructure:"reductionPercentage" yaml:"reductionPercentage" json:"reductionPercentage"` // net of grid-use surcharge
	SystemCostPerKwp    float64 `mapstructure:"systemCostPerKwp" yaml:"systemCostPerKwp" json:"systemCostPerKwp"`
	DefaultIrradiation  float64 `mapstructure:"defaultIrradiation" yaml:"defaultIrradiation" json:"defaultIrradiation"` // kWh/m²/day
	PanelPower          float64 `mapstructure:"panelPower" yaml:"panelPower" json:"panelPower"`                         // W
	PanelArea           float64 `mapstructure:"panelArea" yaml:"panelArea" json:"panelArea"`                            // m²
	FinancingRate       float64 `mapstructure:"financingRate" yaml:"financingRate" json:"financingRate"`                // % per year
	FinancingYears      int     `mapstructure:"financingYears" yaml:"financingYears" json:"financingYears"`
	Currency            string  `mapstructure:"currency" yaml:"currency" json:"currency"`
	ScenarioTerms       []int   `mapstructure:"scenarioTerms" yaml:"scenarioTerms" json:"scenarioTerms"` // years
}

// Default returns the configuration the platform ships with.
func Default() Configuration {
	return Configuration{
		Simulator: DefaultSimulator(),
		Output: OutputConfig{
			Format:   constants.OutputFormatPretty,
			Language: constants.DefaultLanguage,
		},
	}
}

// DefaultSimulator returns the default simulator parameters.
func DefaultSimulator() Simulator {
	return Simulator{
		DefaultTariff:       constants.DefaultTariff,
		ReductionPercentage: constants.DefaultReductionPercentage,
		SystemCostPerKwp:    constants.DefaultSystemCostPerKwp,
		DefaultIrradiation:  constants.DefaultIrradiation,
		PanelPower:          constants.DefaultPanelPower,
		PanelArea:           constants.DefaultPanelArea,
		FinancingRate:       constants.DefaultFinancingRate,
		FinancingYears:      constants.DefaultFinancingYears,
		Currency:            constants.DefaultCurrency,
		ScenarioTerms:       append([]int(nil), constants.DefaultScenarioTerms...),
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults must be registered key by key so environment overrides are
	// picked up by Unmarshal.
	d := Default()
	v.SetDefault("simulator.defaultTariff", d.Simulator.DefaultTariff)
	v.SetDefault("simulator.reductionPercentage", d.Simulator.ReductionPercentage)
	v.SetDefault("simulator.systemCostPerKwp", d.Simulator.SystemCostPerKwp)
	v.SetDefault("simulator.defaultIrradiation", d.Simulator.DefaultIrradiation)
	v.SetDefault("simulator.panelPower", d.Simulator.PanelPower)
	v.SetDefault("simulator.panelArea", d.Simulator.PanelArea)
	v.SetDefault("simulator.financingRate", d.Simulator.FinancingRate)
	v.SetDefault("simulator.financingYears", d.Simulator.FinancingYears)
	v.SetDefault("simulator.currency", d.Simulator.Currency)
	v.SetDefault("simulator.scenarioTerms", d.Simulator.ScenarioTerms)
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.language", d.Output.Language)
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Values missing from the file fall back to Default().
// An empty path loads the defaults and environment overrides only.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file, %s", err)
		}
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	if len(configuration.Simulator.ScenarioTerms) == 0 {
		configuration.Simulator.ScenarioTerms = append([]int(nil), constants.DefaultScenarioTerms...)
	}
	return &configuration, nil
}

// Validate checks every simulator parameter against its domain and returns
// all violations combined, or nil.
func (c *Configuration) Validate() error {
	return c.Simulator.Validate()
}

// Validate checks the simulator parameters.
func (s Simulator) Validate() error {
	var err error

	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			err = multierr.Append(err, fmt.Errorf(format, args...))
		}
	}

	check(positive(s.DefaultTariff), "defaultTariff must be greater than zero, got %v", s.DefaultTariff)
	check(mathutil.IsFinite(s.ReductionPercentage) && s.ReductionPercentage > 0 && s.ReductionPercentage <= 100,
		"reductionPercentage must be in (0, 100], got %v", s.ReductionPercentage)
	check(positive(s.SystemCostPerKwp), "systemCostPerKwp must be greater than zero, got %v", s.SystemCostPerKwp)
	check(s.DefaultIrradiation >= constants.MinIrradiation && s.DefaultIrradiation <= constants.MaxIrradiation,
		"defaultIrradiation must be in [%v, %v], got %v", constants.MinIrradiation, constants.MaxIrradiation, s.DefaultIrradiation)
	check(positive(s.PanelPower), "panelPower must be greater than zero, got %v", s.PanelPower)
	check(positive(s.PanelArea), "panelArea must be greater than zero, got %v", s.PanelArea)
	check(mathutil.IsFinite(s.FinancingRate) && s.FinancingRate >= 0, "financingRate must not be negative, got %v", s.FinancingRate)
	check(s.FinancingYears > 0, "financingYears must be greater than zero, got %d", s.FinancingYears)
	for _, term := range s.ScenarioTerms {
		check(term > 0, "scenarioTerms entries must be greater than zero, got %d", term)
	}

	return err
}

// ValidateConfiguration returns warnings for values that are legal but
// unusual enough to be worth a second look.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string
	s := c.Simulator

	if s.ReductionPercentage > 95 {
		warnings = append(warnings, fmt.Sprintf(
			"reductionPercentage %.1f%% leaves almost nothing for the grid availability charge", s.ReductionPercentage))
	}
	if s.FinancingRate == 0 {
		warnings = append(warnings, "financingRate is zero; financing payments will carry no interest")
	}
	if s.FinancingYears > 30 {
		warnings = append(warnings, fmt.Sprintf("financingYears %d exceeds typical panel warranty", s.FinancingYears))
	}

	seen := make(map[int]struct{}, len(s.ScenarioTerms))
	var duplicates []int
	for _, term := range s.ScenarioTerms {
		if _, ok := seen[term]; ok {
			duplicates = append(duplicates, term)
			continue
		}
		seen[term] = struct{}{}
	}
	if len(duplicates) > 0 {
		sort.Ints(duplicates)
		warnings = append(warnings, fmt.Sprintf("scenarioTerms contains duplicates: %v", duplicates))
	}

	return warnings
}

func positive(v float64) bool {
	return mathutil.IsFinite(v) && v > 0
}
