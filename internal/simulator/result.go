package simulator

import "time"

// Result is the outcome of one simulation. Every numeric field is a pure
// function of the input and the simulator configuration.
type Result struct {
	ID               string           `json:"id"`
	Input            ResolvedInput    `json:"input"`
	EstimatedSavings Savings          `json:"estimatedSavings"`
	SystemSpecs      SystemSpecs      `json:"systemSpecs"`
	Payback          Payback          `json:"payback"`
	Financing        Financing        `json:"financing"`
	ConsumptionRange ConsumptionRange `json:"consumptionRange"`
	RoofFit          *RoofFit         `json:"roofFit,omitempty"`
	Disclaimer       string           `json:"disclaimer"`
	GeneratedAt      time.Time        `json:"generatedAt"`
}

// Savings are expressed in whole currency units.
type Savings struct {
	Monthly    float64 `json:"monthly"`
	Yearly     float64 `json:"yearly"`
	Percentage float64 `json:"percentage"`
}

// SystemSpecs describes the photovoltaic system sized for the household.
type SystemSpecs struct {
	Power         float64 `json:"power"` // kWp
	EstimatedCost float64 `json:"estimatedCost"`
	Panels        int     `json:"panels"`
	Area          float64 `json:"area"` // m²
}

// Payback is the time for cumulative savings to cover the system cost.
type Payback struct {
	Years       int     `json:"years"`
	Months      int     `json:"months"`
	TotalMonths float64 `json:"totalMonths"`
}

// Financing summarises the default loan for the system.
type Financing struct {
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalCost      float64 `json:"totalCost"`
	InterestRate   float64 `json:"interestRate"` // % per year
	Years          int     `json:"years"`
}

// RoofFit compares the panel area against the roof area the user reported.
type RoofFit struct {
	Available float64 `json:"available"`
	Required  float64 `json:"required"`
	Fits      bool    `json:"fits"`
}

// FinancingScenario is one loan term option for a given system cost.
type FinancingScenario struct {
	Years          int     `json:"years"`
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalCost      float64 `json:"totalCost"`
	TotalInterest  float64 `json:"totalInterest"`
}

// Disclaimer is attached to every result.
const Disclaimer = `IMPORTANT: This simulation presents estimated values for educational and initial planning purposes.

The calculations assume:
- The solar grid-use surcharge is already included in the savings percentage
- Average regional solar irradiation
- The current average electricity tariff
- Average equipment and installation costs

For an accurate, personalised quote we recommend an on-site technical assessment by a certified installer.

Actual savings may vary with:
- Specific roof conditions
- Household consumption patterns
- Changes in the electricity tariff
- Quality of the chosen equipment`
