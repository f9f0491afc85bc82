package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/fittrack/backend/internal/azure"
	"github.com/fittrack/backend/internal/pdf"
	"github.com/fittrack/backend/pkg/model"
)

// ReportService assembles progress reports: body-metric trends plus the
// day-by-day meal and workout log over a date range, rendered as PDF. When
// blob storage is configured the report is archived there as well.
type ReportService struct {
	tracker   *TrackerService
	generator *pdf.PDFGenerator
	blob      azure.BlobStorage
	logger    *zap.Logger
}

// NewReportService creates a new ReportService. blob may be nil when no
// archive storage is configured.
func NewReportService(tracker *TrackerService, generator *pdf.PDFGenerator, blob azure.BlobStorage, logger *zap.Logger) *ReportService {
	return &ReportService{
		tracker:   tracker,
		generator: generator,
		blob:      blob,
		logger:    logger,
	}
}

// GenerateProgressReport renders the report for the inclusive day-key range
// [from, to]. Empty bounds mean open-ended on that side. Keys must be
// YYYY-MM-DD dates.
func (s *ReportService) GenerateProgressReport(ctx context.Context, from, to string) ([]byte, error) {
	for _, bound := range []string{from, to} {
		if bound == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", bound); err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", bound, err)
		}
	}
	if from != "" && to != "" && from > to {
		return nil, fmt.Errorf("invalid range: %q is after %q", from, to)
	}

	profile := s.tracker.Profile()

	data := &pdf.ReportData{
		UserName:      profile.Name,
		DateRange:     rangeLabel(from, to),
		WeightGoalKg:  profile.WeightGoalKg,
		WeightHistory: pointsInRange(profile.WeightHistory, from, to),
		WaistHistory:  pointsInRange(profile.WaistHistory, from, to),
		Days:          daysInRange(profile.DailyLog, from, to),
	}

	report, err := s.generator.Generate(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate progress report: %w", err)
	}

	if s.blob != nil {
		filename := fmt.Sprintf("progress-report-%s.pdf", time.Now().Format("2006-01-02-150405"))
		if _, err := s.blob.UploadReport(ctx, filename, report); err != nil {
			// Archiving is best effort, the caller still gets the report
			s.logger.Warn("failed to archive progress report",
				zap.Error(err),
				zap.String("filename", filename),
			)
		}
	}

	return report, nil
}

func rangeLabel(from, to string) string {
	switch {
	case from == "" && to == "":
		return "all time"
	case from == "":
		return fmt.Sprintf("until %s", to)
	case to == "":
		return fmt.Sprintf("since %s", from)
	default:
		return fmt.Sprintf("%s to %s", from, to)
	}
}

// inRange relies on day keys comparing chronologically as strings
func inRange(date, from, to string) bool {
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}

func pointsInRange(points []model.ProgressPoint, from, to string) []model.ProgressPoint {
	selected := make([]model.ProgressPoint, 0, len(points))
	for _, point := range points {
		if inRange(point.Date, from, to) {
			selected = append(selected, point)
		}
	}
	return selected
}

func daysInRange(log map[string]model.DayRecord, from, to string) []pdf.DaySummary {
	days := make([]pdf.DaySummary, 0, len(log))
	for date, record := range log {
		if inRange(date, from, to) {
			days = append(days, pdf.DaySummary{Date: date, Record: record})
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}
