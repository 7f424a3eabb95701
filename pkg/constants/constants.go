// Package constants provides shared constants for the solar-simulator application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Solar sizing constants
const (
	// SystemEfficiency accounts for real-world losses (wiring, inverter, heat, dirt).
	SystemEfficiency = 0.8

	// DaysPerMonth is the billing month length used for generation estimates.
	DaysPerMonth = 30

	// WattsPerKilowatt converts kWp into panel watts.
	WattsPerKilowatt = 1000.0

	// CO2KgPerKwh is the grid emission factor used for the environmental estimate.
	CO2KgPerKwh = 0.0817

	// FinancingComfortRatio is the fraction of monthly savings a financing
	// payment must stay under to be considered comfortable.
	FinancingComfortRatio = 0.8

	// FastPaybackYears is the payback threshold for the fast-payback message.
	FastPaybackYears = 5

	// LowConsumptionKwh and HighConsumptionKwh bound the consumption messages.
	LowConsumptionKwh  = 150.0
	HighConsumptionKwh = 500.0
)

// Input domain bounds
const (
	// MaxMonthlyBill is the largest bill accepted without a verification warning.
	MaxMonthlyBill = 10000.0

	// MaxTariff is the largest tariff accepted, in currency per kWh.
	MaxTariff = 5.0

	// MinIrradiation and MaxIrradiation bound kWh/m²/day.
	MinIrradiation = 3.0
	MaxIrradiation = 8.0
)

// Default simulator parameters (Piauí, 2024).
const (
	DefaultTariff              = 1.20
	DefaultReductionPercentage = 60.0
	DefaultSystemCostPerKwp    = 5500.0
	DefaultIrradiation         = 5.5
	DefaultPanelPower          = 550.0
	DefaultPanelArea           = 2.5
	DefaultFinancingRate       = 12.0
	DefaultFinancingYears      = 10
	DefaultCurrency            = "BRL"
	DefaultLanguage            = "pt-BR"
)

// DefaultScenarioTerms are the financing terms, in years, compared by default.
var DefaultScenarioTerms = []int{5, 7, 10, 15}

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatPDF is the PDF report format
	OutputFormatPDF = "pdf"

	// OutputFormatXLSX is the spreadsheet report format
	OutputFormatXLSX = "xlsx"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment overrides (e.g. SOLAR_SIMULATOR_DEFAULTTARIFF).
	EnvPrefix = "SOLAR"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024
)
