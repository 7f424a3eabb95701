package output

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/iwvelando/solar-simulator/pkg/format"
)

// PDF renders a single-page simulation report.
func PDF(report Report) ([]byte, error) {
	r := report.Result
	if r == nil {
		return nil, fmt.Errorf("no result to export")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	money := func(v float64) string { return tr(format.Currency(v, report.Currency)) }

	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Solar Savings Simulation")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Simulation: %s", r.ID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", r.GeneratedAt.Format(time.RFC3339)))
	pdf.Ln(8)

	lines := [][2]string{
		{"Monthly bill", money(r.Input.MonthlyBill)},
		{"Consumption (kWh/month)", fmt.Sprintf("%.2f (%s)", r.Input.MonthlyConsumption, r.ConsumptionRange.Label())},
		{"Tariff (per kWh)", money(r.Input.Tariff)},
		{"Irradiation (kWh/m2/day)", fmt.Sprintf("%.2f", r.Input.Irradiation)},
		{"Monthly savings", money(r.EstimatedSavings.Monthly)},
		{"Yearly savings", money(r.EstimatedSavings.Yearly)},
		{"System power (kWp)", fmt.Sprintf("%.2f", r.SystemSpecs.Power)},
		{"Panels", fmt.Sprintf("%d (%.1f m2)", r.SystemSpecs.Panels, r.SystemSpecs.Area)},
		{"Estimated cost", money(r.SystemSpecs.EstimatedCost)},
		{"Payback", fmt.Sprintf("%d years and %d months", r.Payback.Years, r.Payback.Months)},
		{"Financing payment", fmt.Sprintf("%s x %d", money(r.Financing.MonthlyPayment), r.Financing.Years*12)},
		{"Financing total", money(r.Financing.TotalCost)},
	}
	for _, line := range lines {
		pdf.CellFormat(70, 6, line[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, line[1], "", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	if len(report.Scenarios) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(30, 6, "Term", "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, "Payment", "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, "Total", "1", 0, "C", false, 0, "")
		pdf.CellFormat(50, 6, "Interest", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		for _, s := range report.Scenarios {
			pdf.CellFormat(30, 6, fmt.Sprintf("%d years", s.Years), "1", 0, "C", false, 0, "")
			pdf.CellFormat(50, 6, money(s.MonthlyPayment), "1", 0, "R", false, 0, "")
			pdf.CellFormat(50, 6, money(s.TotalCost), "1", 0, "R", false, 0, "")
			pdf.CellFormat(50, 6, money(s.TotalInterest), "1", 0, "R", false, 0, "")
			pdf.Ln(-1)
		}
	}

	if len(report.Recommendations) > 0 {
		pdf.Ln(4)
		for _, rec := range report.Recommendations {
			pdf.MultiCell(0, 5, tr("- "+rec), "", "L", false)
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "", 8)
	pdf.MultiCell(0, 4, tr(r.Disclaimer), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// XLSX renders the report as a workbook with a summary sheet and a
// financing scenarios sheet.
func XLSX(report Report) ([]byte, error) {
	rows, err := reportRows(report)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	summarySheet := "summary"
	scenarioSheet := "scenarios"
	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(scenarioSheet); err != nil {
		return nil, err
	}

	_ = f.SetCellValue(summarySheet, "A1", "Section")
	_ = f.SetCellValue(summarySheet, "B1", "Field")
	_ = f.SetCellValue(summarySheet, "C1", "Value")
	line := 2
	for _, row := range rows {
		if strings.HasPrefix(row.section, "scenario_") {
			continue
		}
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", line), row.section)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", line), row.field)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("C%d", line), row.value)
		line++
	}

	_ = f.SetCellValue(scenarioSheet, "A1", "Years")
	_ = f.SetCellValue(scenarioSheet, "B1", "Monthly Payment")
	_ = f.SetCellValue(scenarioSheet, "C1", "Total Cost")
	_ = f.SetCellValue(scenarioSheet, "D1", "Total Interest")
	for i, s := range report.Scenarios {
		row := i + 2
		_ = f.SetCellValue(scenarioSheet, fmt.Sprintf("A%d", row), s.Years)
		_ = f.SetCellValue(scenarioSheet, fmt.Sprintf("B%d", row), s.MonthlyPayment)
		_ = f.SetCellValue(scenarioSheet, fmt.Sprintf("C%d", row), s.TotalCost)
		_ = f.SetCellValue(scenarioSheet, fmt.Sprintf("D%d", row), s.TotalInterest)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
