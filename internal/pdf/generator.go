package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/dialaride/reports-service/internal/money"
	"github.com/dialaride/reports-service/internal/report"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// GenerateDailyLog renders the printable daily log sheet for a
// single-shift report: the shift header, its reconciled trips and the
// shift totals, with any data problems listed at the bottom.
func (g *Generator) GenerateDailyLog(result *report.Result) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Daily Vehicle Log", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, result.Start.Format("Monday, January 2, 2006"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, day := range result.Days {
		for _, shift := range day.Shifts {
			g.writeShift(pdf, shift)
		}
	}

	if len(result.Errors) > 0 {
		pdf.Ln(4)
		pdf.SetFont(g.fontName, "B", 12)
		pdf.CellFormat(0, 8, "Data problems", "", 1, "L", false, 0, "")
		pdf.SetFont(g.fontName, "", 10)
		for _, entry := range result.Errors {
			pdf.CellFormat(0, 5, fmt.Sprintf("%s: %s", entry.Code, entry.Message), "", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeShift(pdf *gofpdf.Fpdf, shift *report.ShiftLog) {
	driver := "unassigned"
	if shift.Shift.Driver != nil {
		driver = shift.Shift.Driver.Name
	}
	vehicle := "no vehicle"
	if shift.Shift.Vehicle != nil {
		vehicle = shift.Shift.Vehicle.Name
	}

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("%s driving %s", driver, vehicle), "", 1, "L", false, 0, "")

	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 5, fmt.Sprintf("On: %s at %.1f mi    Off: %s at %.1f mi    Fuel: %.1f gal",
		formatClock(shift.StartTime), shift.StartMiles,
		formatClock(shift.EndTime), shift.EndMiles,
		shift.Fuel,
	), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	headers := []string{"Passenger", "Destination", "Start", "End", "Miles", "Collected"}
	widths := []float64{45, 45, 20, 20, 20, 30}
	g.drawRow(pdf, headers, widths, true)

	for _, trip := range shift.Trips {
		collected := trip.Trip.CollectedCashCents + trip.Trip.CollectedCheckCents
		row := []string{
			trip.Trip.Name,
			trip.Trip.Destination,
			formatClock(trip.StartTime),
			formatClock(trip.EndTime),
			fmt.Sprintf("%.1f", trip.Miles()),
			money.FormatDollars(collected),
		}
		g.drawRow(pdf, row, widths, false)
	}
	pdf.Ln(4)
}

func (g *Generator) drawRow(pdf *gofpdf.Fpdf, cells []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(g.fontName, style, 9)
	for i, cell := range cells {
		pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
}

func formatClock(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("3:04 PM")
}
