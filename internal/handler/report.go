package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fittrack/backend/internal/service"
)

// ReportHandler implements the progress report endpoint
type ReportHandler struct {
	service *service.ReportService
	logger  *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger,
	}
}

// GetProgressReport renders the progress report PDF for the optional
// from/to query range (YYYY-MM-DD, inclusive).
func (h *ReportHandler) GetProgressReport(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")

	report, err := h.service.GenerateProgressReport(c.Request.Context(), from, to)
	if err != nil {
		h.logger.Error("failed to generate progress report",
			zap.Error(err),
			zap.String("from", from),
			zap.String("to", to),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
		return
	}

	filename := fmt.Sprintf("progress-report-%s.pdf", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", report)
}
