package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/solar-simulator/pkg/constants"
	"go.uber.org/multierr"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Empty path uses defaults",
			configPath: "",
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	conf, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	want := DefaultSimulator()
	got := conf.Simulator
	if got.DefaultTariff != want.DefaultTariff ||
		got.ReductionPercentage != want.ReductionPercentage ||
		got.SystemCostPerKwp != want.SystemCostPerKwp ||
		got.DefaultIrradiation != want.DefaultIrradiation ||
		got.PanelPower != want.PanelPower ||
		got.PanelArea != want.PanelArea ||
		got.FinancingRate != want.FinancingRate ||
		got.FinancingYears != want.FinancingYears {
		t.Errorf("expected defaults %+v, got %+v", want, got)
	}
	if len(got.ScenarioTerms) != 4 {
		t.Errorf("expected 4 default scenario terms, got %v", got.ScenarioTerms)
	}
	if conf.Output.Format != constants.OutputFormatPretty {
		t.Errorf("expected default output format %q, got %q", constants.OutputFormatPretty, conf.Output.Format)
	}
}

func TestLoadConfigurationOverrides(t *testing.T) {
	path := writeConfig(t, `
simulator:
  defaultTariff: 0.95
  financingRate: 0
  scenarioTerms: [3, 6]
logging:
  level: debug
  format: console
output:
  format: csv
`)

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if conf.Simulator.DefaultTariff != 0.95 {
		t.Errorf("expected tariff 0.95, got %v", conf.Simulator.DefaultTariff)
	}
	if conf.Simulator.FinancingRate != 0 {
		t.Errorf("expected financing rate 0, got %v", conf.Simulator.FinancingRate)
	}
	if conf.Simulator.SystemCostPerKwp != constants.DefaultSystemCostPerKwp {
		t.Errorf("expected unset cost per kWp to keep default, got %v", conf.Simulator.SystemCostPerKwp)
	}
	if len(conf.Simulator.ScenarioTerms) != 2 || conf.Simulator.ScenarioTerms[0] != 3 {
		t.Errorf("expected scenario terms [3 6], got %v", conf.Simulator.ScenarioTerms)
	}
	if conf.Logging.Level != "debug" || conf.Logging.Format != "console" {
		t.Errorf("unexpected logging config %+v", conf.Logging)
	}
	if conf.Output.Format != constants.OutputFormatCSV {
		t.Errorf("expected output format csv, got %q", conf.Output.Format)
	}
}

func TestLoadConfigurationEnvironmentOverride(t *testing.T) {
	t.Setenv("SOLAR_SIMULATOR_REDUCTIONPERCENTAGE", "70")

	conf, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if conf.Simulator.ReductionPercentage != 70 {
		t.Errorf("expected reduction 70 from environment, got %v", conf.Simulator.ReductionPercentage)
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader("simulator:\n  panelPower: 600\n"))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if conf.Simulator.PanelPower != 600 {
		t.Errorf("expected panel power 600, got %v", conf.Simulator.PanelPower)
	}
	if conf.Simulator.DefaultTariff != constants.DefaultTariff {
		t.Errorf("expected default tariff, got %v", conf.Simulator.DefaultTariff)
	}

	if _, err := LoadConfigurationFromReader(strings.NewReader("simulator: [unclosed")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(s *Simulator)
		wantErrors int
	}{
		{"Defaults are valid", func(s *Simulator) {}, 0},
		{"Zero tariff", func(s *Simulator) { s.DefaultTariff = 0 }, 1},
		{"Zero reduction", func(s *Simulator) { s.ReductionPercentage = 0 }, 1},
		{"Reduction over 100", func(s *Simulator) { s.ReductionPercentage = 101 }, 1},
		{"Irradiation below range", func(s *Simulator) { s.DefaultIrradiation = 2.9 }, 1},
		{"Irradiation above range", func(s *Simulator) { s.DefaultIrradiation = 8.1 }, 1},
		{"Zero panel power", func(s *Simulator) { s.PanelPower = 0 }, 1},
		{"Negative financing rate", func(s *Simulator) { s.FinancingRate = -1 }, 1},
		{"Zero rate is allowed", func(s *Simulator) { s.FinancingRate = 0 }, 0},
		{"Zero financing years", func(s *Simulator) { s.FinancingYears = 0 }, 1},
		{"Bad scenario term", func(s *Simulator) { s.ScenarioTerms = []int{5, 0} }, 1},
		{
			name: "Errors accumulate",
			mutate: func(s *Simulator) {
				s.DefaultTariff = 0
				s.PanelArea = -1
				s.SystemCostPerKwp = 0
			},
			wantErrors: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := Default()
			tt.mutate(&conf.Simulator)

			err := conf.Validate()
			if got := len(multierr.Errors(err)); got != tt.wantErrors {
				t.Errorf("Validate() returned %d errors, expected %d: %v", got, tt.wantErrors, err)
			}
		})
	}
}

func TestValidateConfigurationWarnings(t *testing.T) {
	conf := Default()
	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("expected no warnings for defaults, got %v", warnings)
	}

	conf.Simulator.ReductionPercentage = 99
	conf.Simulator.FinancingRate = 0
	conf.Simulator.FinancingYears = 35
	conf.Simulator.ScenarioTerms = []int{5, 5, 10}

	warnings := conf.ValidateConfiguration()
	if len(warnings) != 4 {
		t.Errorf("expected 4 warnings, got %d: %v", len(warnings), warnings)
	}
}
