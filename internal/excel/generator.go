package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dialaride/reports-service/internal/money"
	"github.com/dialaride/reports-service/internal/report"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders a service report workbook: a summary sheet with the
// per-vehicle and per-driver totals, a riders sheet with fares and
// balances, and an errors sheet listing every data problem found.
func (g *Generator) Generate(result *report.Result) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, result); err != nil {
		return nil, err
	}

	ridersSheet := "Riders"
	file.NewSheet(ridersSheet)
	if err := g.writeRiders(file, ridersSheet, result); err != nil {
		return nil, err
	}

	errorsSheet := "Errors"
	file.NewSheet(errorsSheet)
	if err := g.writeErrors(file, errorsSheet, result); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, result *report.Result) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Service report")
	set("A2", "Period start")
	set("B2", formatDate(result.Start))
	set("A3", "Period end")
	set("B3", formatDate(result.End))

	headers := []string{
		"", "Service miles", "Service hours", "Deadhead miles", "Deadhead hours",
		"Total miles", "Total hours", "PMT", "Fuel", "Cash", "Check",
	}
	headerRow := 5
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		set(cell, header)
	}

	row := headerRow + 1
	writeSummaryRow := func(label string, s report.Summary) {
		set(fmt.Sprintf("A%d", row), label)
		set(fmt.Sprintf("B%d", row), formatFloat(s.ServiceMiles))
		set(fmt.Sprintf("C%d", row), formatFloat(s.ServiceHours))
		set(fmt.Sprintf("D%d", row), formatFloat(s.DeadheadMiles))
		set(fmt.Sprintf("E%d", row), formatFloat(s.DeadheadHours))
		set(fmt.Sprintf("F%d", row), formatFloat(s.TotalMiles))
		set(fmt.Sprintf("G%d", row), formatFloat(s.TotalHours))
		set(fmt.Sprintf("H%d", row), formatFloat(s.PassengerMiles))
		set(fmt.Sprintf("I%d", row), formatFloat(s.Fuel))
		set(fmt.Sprintf("J%d", row), money.Format(s.CashCents))
		set(fmt.Sprintf("K%d", row), money.Format(s.CheckCents))
		row++
	}

	for _, vehicle := range result.Vehicles {
		writeSummaryRow(vehicle.Vehicle.Name, vehicle.Summary)
	}
	writeSummaryRow("All vehicles", result.AllVehicles)

	row++
	set(fmt.Sprintf("A%d", row), "By driver")
	row++
	for _, driver := range result.Drivers {
		writeSummaryRow(driver.Driver.Name, driver.Summary)
	}

	_ = file.SetColWidth(sheet, "A", "A", 28)
	_ = file.SetColWidth(sheet, "B", "K", 14)
	return nil
}

func (g *Generator) writeRiders(file *excelize.File, sheet string, result *report.Result) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{
		"Name", "Trips", "Elderly", "Ambulatory", "Staff",
		"Collected cash", "Collected check", "Paid cash", "Paid check",
		"Total fares", "Owed",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, rider := range result.Riders {
		row := i + 2
		set(fmt.Sprintf("A%d", row), rider.Name)
		set(fmt.Sprintf("B%d", row), rider.TripCount)
		set(fmt.Sprintf("C%d", row), formatFlag(rider.Elderly))
		set(fmt.Sprintf("D%d", row), formatFlag(rider.Ambulatory))
		set(fmt.Sprintf("E%d", row), formatBool(rider.Staff))
		set(fmt.Sprintf("F%d", row), money.Format(rider.CollectedCashCents))
		set(fmt.Sprintf("G%d", row), money.Format(rider.CollectedCheckCents))
		set(fmt.Sprintf("H%d", row), money.Format(rider.PaidCashCents))
		set(fmt.Sprintf("I%d", row), money.Format(rider.PaidCheckCents))
		set(fmt.Sprintf("J%d", row), money.Format(rider.TotalFaresCents))
		set(fmt.Sprintf("K%d", row), money.Format(rider.TotalOwedCents))
	}

	demoRow := len(result.Riders) + 4
	set(fmt.Sprintf("A%d", demoRow), "Demographics")
	demo := [][2]interface{}{
		{"Elderly ambulatory", result.Demographics.ElderlyAmbulatory},
		{"Elderly non-ambulatory", result.Demographics.ElderlyNonAmbulatory},
		{"Non-elderly ambulatory", result.Demographics.NonElderlyAmbulatory},
		{"Non-elderly non-ambulatory", result.Demographics.NonElderlyNonAmbulatory},
		{"Unknown", result.Demographics.Unknown},
		{"Staff", result.Demographics.Staff},
	}
	for i, pair := range demo {
		row := demoRow + 1 + i
		set(fmt.Sprintf("A%d", row), pair[0])
		set(fmt.Sprintf("B%d", row), pair[1])
	}

	_ = file.SetColWidth(sheet, "A", "A", 32)
	_ = file.SetColWidth(sheet, "B", "K", 14)
	return nil
}

func (g *Generator) writeErrors(file *excelize.File, sheet string, result *report.Result) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{"Date", "Code", "Message"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, entry := range result.Errors {
		row := i + 2
		set(fmt.Sprintf("A%d", row), formatDate(entry.Date))
		set(fmt.Sprintf("B%d", row), string(entry.Code))
		set(fmt.Sprintf("C%d", row), entry.Message)
	}

	_ = file.SetColWidth(sheet, "A", "B", 18)
	_ = file.SetColWidth(sheet, "C", "C", 64)
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatFloat(value float64) string {
	return fmt.Sprintf("%.1f", value)
}

func formatFlag(value *bool) string {
	if value == nil {
		return "unknown"
	}
	return formatBool(*value)
}

func formatBool(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
