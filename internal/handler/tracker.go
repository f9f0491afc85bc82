package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fittrack/backend/internal/service"
	"github.com/fittrack/backend/pkg/model"
)

// TrackerHandler implements the daily meal and workout log endpoints
type TrackerHandler struct {
	service *service.TrackerService
	logger  *zap.Logger
}

// NewTrackerHandler creates a new TrackerHandler
func NewTrackerHandler(service *service.TrackerService, logger *zap.Logger) *TrackerHandler {
	return &TrackerHandler{
		service: service,
		logger:  logger,
	}
}

// LogMealRequest commits a reviewed analysis to today's log
type LogMealRequest struct {
	MealType model.MealType     `json:"mealType" binding:"required"`
	Analysis model.MealAnalysis `json:"analysis" binding:"required"`
}

// LogMeal appends a meal to today's day record
func (h *TrackerHandler) LogMeal(c *gin.Context) {
	var req LogMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	entry, err := h.service.LogMeal(c.Request.Context(), req.MealType, req.Analysis)
	if err != nil {
		h.logger.Error("failed to log meal",
			zap.Error(err),
			zap.String("meal_type", string(req.MealType)),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, entry)
}

// LogWorkoutRequest records a completed workout
type LogWorkoutRequest struct {
	Name            string  `json:"name" binding:"required"`
	DurationMinutes float64 `json:"durationMinutes"`
	CaloriesBurned  float64 `json:"caloriesBurned"`
}

// LogWorkout appends a workout to today's day record
func (h *TrackerHandler) LogWorkout(c *gin.Context) {
	var req LogWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	entry, err := h.service.LogWorkout(c.Request.Context(), req.Name, req.DurationMinutes, req.CaloriesBurned)
	if err != nil {
		h.logger.Error("failed to log workout",
			zap.Error(err),
			zap.String("name", req.Name),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, entry)
}

// GetDay returns one day's record. Unknown days come back empty, not 404:
// a day with nothing logged is a normal state.
func (h *TrackerHandler) GetDay(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid date, expected YYYY-MM-DD",
			Details: stringPtr(err.Error()),
		})
		return
	}

	record, _ := h.service.DayRecord(date)
	if record.Meals == nil {
		record.Meals = []model.MealLog{}
	}
	if record.Workouts == nil {
		record.Workouts = []model.WorkoutLog{}
	}
	c.JSON(http.StatusOK, record)
}

// GetBalance returns the derived calorie balance for one day
func (h *TrackerHandler) GetBalance(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid date, expected YYYY-MM-DD",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, h.service.DailyBalance(date))
}
