// Package output provides utilities for formatting and displaying simulation results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/solar-simulator/internal/simulator"
	"github.com/iwvelando/solar-simulator/pkg/constants"
	"github.com/iwvelando/solar-simulator/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Report bundles everything shown to the user for one simulation.
type Report struct {
	Result          *simulator.Result             `json:"result"`
	Recommendations []string                      `json:"recommendations"`
	Scenarios       []simulator.FinancingScenario `json:"scenarios"`
	Currency        string                        `json:"currency"`
}

// Write renders report to w in the named format. Binary formats (pdf, xlsx)
// are written as raw bytes.
func Write(w io.Writer, outputFormat string, report Report, lang language.Tag) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, report, lang)
	case constants.OutputFormatJSON:
		return JSONFormat(w, report)
	case constants.OutputFormatCSV:
		return CsvFormat(w, report)
	case constants.OutputFormatPDF:
		data, err := PDF(report)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case constants.OutputFormatXLSX:
		data, err := XLSX(report)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("unsupported output format %q", outputFormat)
}

// ParseLanguage parses a BCP 47 tag, falling back to the default language.
func ParseLanguage(tag string) language.Tag {
	if strings.TrimSpace(tag) == "" {
		return language.MustParse(constants.DefaultLanguage)
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return language.MustParse(constants.DefaultLanguage)
	}
	return parsed
}

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, report Report, lang language.Tag) error {
	r := report.Result
	if r == nil {
		return fmt.Errorf("no result to format")
	}
	p := message.NewPrinter(lang)
	symbol := format.Symbol(report.Currency)
	var err error
	printf := func(key string, args ...interface{}) {
		if err == nil {
			_, err = p.Fprintf(w, key, args...)
		}
	}

	printf("--- Solar simulation %s ---\n", r.ID)
	printf("Generated at        | %s\n", r.GeneratedAt.Format(time.RFC3339))
	printf("Monthly bill        | %s %.2f\n", symbol, r.Input.MonthlyBill)
	printf("Consumption         | %.2f kWh/month (%s)\n", r.Input.MonthlyConsumption, r.ConsumptionRange.Label())
	printf("Tariff              | %s %.2f/kWh", symbol, r.Input.Tariff)
	if r.Input.TariffFlag != simulator.FlagNone {
		printf(" (%s)", r.Input.TariffFlag.Label())
	}
	printf("\n")
	printf("Irradiation         | %.2f kWh/m²/day\n", r.Input.Irradiation)
	printf("\n")
	printf("Savings             | %s %.2f/month, %s %.2f/year (%.0f%%)\n",
		symbol, r.EstimatedSavings.Monthly, symbol, r.EstimatedSavings.Yearly, r.EstimatedSavings.Percentage)
	printf("System power        | %.2f kWp\n", r.SystemSpecs.Power)
	printf("Panels              | %d (%.1f m²)\n", r.SystemSpecs.Panels, r.SystemSpecs.Area)
	if r.RoofFit != nil {
		printf("Roof area           | %.1f m² available, fits: %t\n", r.RoofFit.Available, r.RoofFit.Fits)
	}
	printf("Estimated cost      | %s %.2f\n", symbol, r.SystemSpecs.EstimatedCost)
	printf("Payback             | %d years and %d months\n", r.Payback.Years, r.Payback.Months)
	printf("Financing           | %d x %s %.2f at %.2f%%/year (total %s %.2f)\n",
		r.Financing.Years*constants.MonthsPerYear, symbol, r.Financing.MonthlyPayment,
		r.Financing.InterestRate, symbol, r.Financing.TotalCost)

	if len(report.Scenarios) > 0 {
		printf("\n")
		printf("Term    | Payment       | Total         | Interest\n")
		printf("____    | _______       | _____         | ________\n")
		for _, s := range report.Scenarios {
			printf("%2d yrs  | %s %10.2f | %s %10.2f | %s %10.2f\n",
				s.Years, symbol, s.MonthlyPayment, symbol, s.TotalCost, symbol, s.TotalInterest)
		}
	}

	if len(report.Recommendations) > 0 {
		printf("\n")
		for _, rec := range report.Recommendations {
			printf("* %s\n", rec)
		}
	}

	printf("\n%s\n", r.Disclaimer)
	return err
}

// JSONFormat outputs the report as indented JSON.
func JSONFormat(w io.Writer, report Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// CsvFormat outputs the report as section,field,value rows.
func CsvFormat(w io.Writer, report Report) error {
	rows, err := reportRows(report)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"section", "field", "value"}); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write([]string{row.section, row.field, row.value}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// CsvString renders the report as CSV text.
func CsvString(report Report) (string, error) {
	var b strings.Builder
	if err := CsvFormat(&b, report); err != nil {
		return "", err
	}
	return b.String(), nil
}

type row struct {
	section string
	field   string
	value   string
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// reportRows flattens a report into the rows shared by the CSV and
// spreadsheet renderers.
func reportRows(report Report) ([]row, error) {
	r := report.Result
	if r == nil {
		return nil, fmt.Errorf("no result to format")
	}

	rows := []row{
		{"simulation", "id", r.ID},
		{"simulation", "generatedAt", r.GeneratedAt.Format(time.RFC3339)},
		{"simulation", "currency", report.Currency},
		{"input", "monthlyBill", num(r.Input.MonthlyBill)},
		{"input", "monthlyConsumption", num(r.Input.MonthlyConsumption)},
		{"input", "tariff", num(r.Input.Tariff)},
		{"input", "tariffFlag", r.Input.TariffFlag.String()},
		{"input", "irradiation", num(r.Input.Irradiation)},
		{"input", "consumptionRange", r.ConsumptionRange.String()},
		{"savings", "monthly", num(r.EstimatedSavings.Monthly)},
		{"savings", "yearly", num(r.EstimatedSavings.Yearly)},
		{"savings", "percentage", num(r.EstimatedSavings.Percentage)},
		{"system", "powerKwp", num(r.SystemSpecs.Power)},
		{"system", "estimatedCost", num(r.SystemSpecs.EstimatedCost)},
		{"system", "panels", strconv.Itoa(r.SystemSpecs.Panels)},
		{"system", "areaM2", num(r.SystemSpecs.Area)},
		{"payback", "years", strconv.Itoa(r.Payback.Years)},
		{"payback", "months", strconv.Itoa(r.Payback.Months)},
		{"financing", "monthlyPayment", num(r.Financing.MonthlyPayment)},
		{"financing", "totalCost", num(r.Financing.TotalCost)},
		{"financing", "interestRate", num(r.Financing.InterestRate)},
		{"financing", "years", strconv.Itoa(r.Financing.Years)},
	}
	if r.RoofFit != nil {
		rows = append(rows,
			row{"roof", "availableM2", num(r.RoofFit.Available)},
			row{"roof", "fits", strconv.FormatBool(r.RoofFit.Fits)},
		)
	}
	for _, s := range report.Scenarios {
		section := fmt.Sprintf("scenario_%dy", s.Years)
		rows = append(rows,
			row{section, "monthlyPayment", num(s.MonthlyPayment)},
			row{section, "totalCost", num(s.TotalCost)},
			row{section, "totalInterest", num(s.TotalInterest)},
		)
	}
	for i, rec := range report.Recommendations {
		rows = append(rows, row{"recommendation", strconv.Itoa(i + 1), rec})
	}
	return rows, nil
}
