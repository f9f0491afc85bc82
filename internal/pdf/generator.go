package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/fittrack/backend/internal/nutrition"
	"github.com/fittrack/backend/pkg/model"
)

// PDFGenerator generates progress reports
type PDFGenerator struct {
	logger *zap.Logger
}

// NewPDFGenerator creates a new PDFGenerator
func NewPDFGenerator(logger *zap.Logger) *PDFGenerator {
	return &PDFGenerator{
		logger: logger,
	}
}

// DaySummary is one dated day of the report, oldest first
type DaySummary struct {
	Date   string
	Record model.DayRecord
}

// ReportData contains all data needed for report generation
type ReportData struct {
	UserName      string
	DateRange     string
	WeightGoalKg  *float64
	WeightHistory []model.ProgressPoint
	WaistHistory  []model.ProgressPoint
	Days          []DaySummary
}

// Generate creates a PDF report from the provided data
func (g *PDFGenerator) Generate(data *ReportData) ([]byte, error) {
	g.logger.Info("generating PDF report",
		zap.String("user_name", data.UserName),
		zap.String("date_range", data.DateRange),
	)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	pdf.AddPage()

	g.addTitle(pdf, "Progress Report", data.UserName, data.DateRange)

	g.addMetricTrends(pdf, data)
	g.addDailySummaries(pdf, data.Days)

	var buf bytes.Buffer
	err := pdf.Output(&buf)
	if err != nil {
		g.logger.Error("failed to generate PDF", zap.Error(err))
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	g.logger.Info("PDF report generated successfully",
		zap.Int("size_bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

// addTitle adds the report title and header information
func (g *PDFGenerator) addTitle(pdf *gofpdf.Fpdf, title, userName, dateRange string) {
	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Name: %s", userName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Period: %s", dateRange), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(10)
}

// addSectionHeader adds a section header
func (g *PDFGenerator) addSectionHeader(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(0, 10, title, "", 1, "L", true, 0, "")
	pdf.Ln(3)
	pdf.SetFont("Arial", "", 10)
}

// addMetricTrends adds the weight and waist trend section
func (g *PDFGenerator) addMetricTrends(pdf *gofpdf.Fpdf, data *ReportData) {
	g.addSectionHeader(pdf, "Body Metrics")

	if len(data.WeightHistory) == 0 && len(data.WaistHistory) == 0 {
		pdf.CellFormat(0, 8, "No measurements recorded during this period.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	if data.WeightGoalKg != nil {
		pdf.CellFormat(0, 6, fmt.Sprintf("Weight goal: %.1f kg", *data.WeightGoalKg), "", 1, "L", false, 0, "")
		pdf.Ln(2)
	}

	g.addSeriesTrend(pdf, "Weight", "kg", data.WeightHistory)
	g.addSeriesTrend(pdf, "Waist", "cm", data.WaistHistory)
	pdf.Ln(5)
}

func (g *PDFGenerator) addSeriesTrend(pdf *gofpdf.Fpdf, label, unit string, points []model.ProgressPoint) {
	if len(points) == 0 {
		return
	}

	first := points[0]
	latest := points[len(points)-1]
	delta := latest.Value - first.Value

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s: %.1f %s (%+.1f %s since %s)",
		label, latest.Value, unit, delta, unit, first.Date), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)

	maxPoints := 10
	start := 0
	if len(points) > maxPoints {
		start = len(points) - maxPoints
	}
	for _, point := range points[start:] {
		pdf.CellFormat(0, 5, fmt.Sprintf("  %s: %.1f %s", point.Date, point.Value, unit), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

// addDailySummaries adds one block per logged day: meals with their totals,
// workouts and the resulting calorie balance.
func (g *PDFGenerator) addDailySummaries(pdf *gofpdf.Fpdf, days []DaySummary) {
	g.addSectionHeader(pdf, "Daily Log")

	if len(days) == 0 {
		pdf.CellFormat(0, 8, "No meals or workouts recorded during this period.", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	for _, day := range days {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(0, 6, day.Date, "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)

		for _, meal := range day.Record.Meals {
			pdf.CellFormat(0, 5, fmt.Sprintf("  %s: %s (%.0f kcal, P %.0fg, C %.0fg, F %.0fg)",
				meal.Type, meal.Analysis.DishName,
				meal.Analysis.Totals.Calories.Float64(),
				meal.Analysis.Totals.Protein.Float64(),
				meal.Analysis.Totals.Carbs.Float64(),
				meal.Analysis.Totals.Fat.Float64()), "", 1, "L", false, 0, "")
		}

		for _, workout := range day.Record.Workouts {
			pdf.CellFormat(0, 5, fmt.Sprintf("  Workout: %s, %.0f min, %.0f kcal burned",
				workout.Name, workout.DurationMinutes, workout.CaloriesBurned), "", 1, "L", false, 0, "")
		}

		balance := nutrition.Balance(day.Record)
		pdf.CellFormat(0, 5, fmt.Sprintf("  Balance: in %.0f kcal, out %.0f kcal, net %+.0f kcal",
			balance.CaloriesIn, balance.CaloriesOut, balance.Net), "", 1, "L", false, 0, "")
		pdf.Ln(3)
	}
	pdf.Ln(5)
}
