package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fittrack/backend/internal/service"
)

// ProfileHandler implements the user profile and body metric endpoints
type ProfileHandler struct {
	service *service.TrackerService
	logger  *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(service *service.TrackerService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		logger:  logger,
	}
}

// GetProfile returns the full profile document
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Profile())
}

// UpdateProfileRequest carries the editable profile fields. Absent fields are
// left unchanged.
type UpdateProfileRequest struct {
	Name             *string  `json:"name"`
	HeightCm         *float64 `json:"heightCm"`
	WeightGoalKg     *float64 `json:"weightGoalKg"`
	Age              *int     `json:"age"`
	CoachInstruction *string  `json:"aiSystemInstruction"`
}

// UpdateProfile applies a partial profile update
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	update := service.ProfileUpdate{
		Name:             req.Name,
		HeightCm:         req.HeightCm,
		WeightGoalKg:     req.WeightGoalKg,
		Age:              req.Age,
		CoachInstruction: req.CoachInstruction,
	}

	if err := h.service.UpdateProfile(c.Request.Context(), update); err != nil {
		h.logger.Error("failed to update profile", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, h.service.Profile())
}

// UpdateMetricsRequest carries one day's body measurements
type UpdateMetricsRequest struct {
	Date     string  `json:"date" binding:"required"`
	WeightKg float64 `json:"weightKg" binding:"required"`
	WaistCm  float64 `json:"waistCm" binding:"required"`
}

// UpdateMetrics upserts the weight and waist measurements for a date
func (h *ProfileHandler) UpdateMetrics(c *gin.Context) {
	var req UpdateMetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	if err := h.service.UpdateMetrics(c.Request.Context(), req.Date, req.WeightKg, req.WaistCm); err != nil {
		h.logger.Error("failed to update metrics",
			zap.Error(err),
			zap.String("date", req.Date),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
		return
	}

	h.logger.Info("metrics updated", zap.String("date", req.Date))

	c.JSON(http.StatusOK, h.service.Profile())
}

// ResetProfile replaces the whole document with a fresh default profile
func (h *ProfileHandler) ResetProfile(c *gin.Context) {
	if err := h.service.Reset(c.Request.Context()); err != nil {
		h.logger.Error("failed to reset profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to reset profile",
			Details: stringPtr(err.Error()),
		})
		return
	}

	h.logger.Info("profile reset")

	c.JSON(http.StatusOK, h.service.Profile())
}
