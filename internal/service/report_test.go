package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fittrack/backend/internal/azure"
	"github.com/fittrack/backend/internal/pdf"
	"github.com/fittrack/backend/pkg/model"
)

func newTestReportService(t *testing.T, blob azure.BlobStorage) (*ReportService, *TrackerService) {
	t.Helper()
	tracker, _ := newTestTracker(t)
	service := NewReportService(tracker, pdf.NewPDFGenerator(zap.NewNop()), blob, zap.NewNop())
	return service, tracker
}

func TestGenerateProgressReport(t *testing.T) {
	service, tracker := newTestReportService(t, nil)
	ctx := context.Background()

	require.NoError(t, tracker.UpdateMetrics(ctx, "2026-08-01", 84.2, 96))
	require.NoError(t, tracker.UpdateMetrics(ctx, "2026-08-15", 83.1, 95))
	_, err := tracker.LogMeal(ctx, model.MealTypeLunch, model.MealAnalysis{
		DishName: "Salade",
		Totals:   model.NutrientTotals{Calories: 420},
	})
	require.NoError(t, err)

	report, err := service.GenerateProgressReport(ctx, "", "")
	require.NoError(t, err)
	require.NotEmpty(t, report)
	assert.Equal(t, "%PDF", string(report[:4]))
}

func TestGenerateProgressReport_EmptyProfile(t *testing.T) {
	service, _ := newTestReportService(t, nil)

	report, err := service.GenerateProgressReport(context.Background(), "", "")
	require.NoError(t, err, "an empty profile still yields a report")
	assert.NotEmpty(t, report)
}

func TestGenerateProgressReport_RangeFiltersDays(t *testing.T) {
	service, tracker := newTestReportService(t, nil)
	ctx := context.Background()

	require.NoError(t, tracker.UpdateMetrics(ctx, "2026-07-01", 85.0, 97))
	require.NoError(t, tracker.UpdateMetrics(ctx, "2026-08-15", 83.1, 95))

	report, err := service.GenerateProgressReport(ctx, "2026-08-01", "2026-08-31")
	require.NoError(t, err)
	assert.NotEmpty(t, report)
}

func TestGenerateProgressReport_InvalidRange(t *testing.T) {
	service, _ := newTestReportService(t, nil)
	ctx := context.Background()

	_, err := service.GenerateProgressReport(ctx, "01/08/2026", "")
	assert.Error(t, err)

	_, err = service.GenerateProgressReport(ctx, "2026-08-31", "2026-08-01")
	assert.Error(t, err)
}

func TestGenerateProgressReport_ArchivesToBlob(t *testing.T) {
	blob := azure.NewMockBlobStorageClient(zap.NewNop())
	service, _ := newTestReportService(t, blob)

	report, err := service.GenerateProgressReport(context.Background(), "", "")
	require.NoError(t, err)
	require.NotEmpty(t, report)

	require.Len(t, blob.Storage, 1)
	for name, data := range blob.Storage {
		assert.Contains(t, name, "reports/progress-report-")
		assert.Contains(t, name, time.Now().Format("2006-01-02"))
		assert.Equal(t, report, data)
	}
}
