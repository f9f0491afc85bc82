package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fittrack/backend/internal/nutrition"
	"github.com/fittrack/backend/internal/service"
	"github.com/fittrack/backend/pkg/model"
)

// NutritionHandler implements the AI meal analysis and planning endpoints.
// Unusable model output answers 422 with ANALYSIS_UNAVAILABLE: analysis is
// advisory, nothing was committed.
type NutritionHandler struct {
	planner *service.MealPlannerService
	logger  *zap.Logger
}

// NewNutritionHandler creates a new NutritionHandler
func NewNutritionHandler(planner *service.MealPlannerService, logger *zap.Logger) *NutritionHandler {
	return &NutritionHandler{
		planner: planner,
		logger:  logger,
	}
}

func (h *NutritionHandler) respondAnalysis(c *gin.Context, analysis *model.MealAnalysis, err error) {
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
		return
	}
	if analysis == nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Code:    "ANALYSIS_UNAVAILABLE",
			Message: "No usable analysis could be produced, try again",
		})
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// AnalyzePhotoRequest carries a meal photo and an optional user comment
type AnalyzePhotoRequest struct {
	ImageBase64 string `json:"imageBase64" binding:"required"`
	Comment     string `json:"comment"`
}

// AnalyzePhoto analyzes a meal photo
func (h *NutritionHandler) AnalyzePhoto(c *gin.Context) {
	var req AnalyzePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	analysis, err := h.planner.AnalyzeMealPhoto(c.Request.Context(), req.ImageBase64, req.Comment)
	h.respondAnalysis(c, analysis, err)
}

// AnalyzeDescriptionRequest carries a typed or dictated meal description
type AnalyzeDescriptionRequest struct {
	Description string `json:"description" binding:"required"`
}

// AnalyzeDescription analyzes a meal described in text
func (h *NutritionHandler) AnalyzeDescription(c *gin.Context) {
	var req AnalyzeDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	analysis, err := h.planner.AnalyzeMealDescription(c.Request.Context(), req.Description)
	h.respondAnalysis(c, analysis, err)
}

// SuggestMeal proposes a meal idea for the meal type in the path
func (h *NutritionHandler) SuggestMeal(c *gin.Context) {
	mealType := model.MealType(c.Param("mealType"))

	analysis, err := h.planner.SuggestMeal(c.Request.Context(), mealType)
	h.respondAnalysis(c, analysis, err)
}

// FindRecipesRequest describes a recipe search
type FindRecipesRequest struct {
	Query       string `json:"query"`
	Goal        string `json:"goal"`
	Ingredients string `json:"ingredients"`
}

// FindRecipes searches for recipes; failures degrade to an empty list
func (h *NutritionHandler) FindRecipes(c *gin.Context) {
	var req FindRecipesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	recipes, err := h.planner.FindRecipes(c.Request.Context(), req.Query, req.Goal, req.Ingredients)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to search recipes",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, recipes)
}

// GenerateMenu composes a full-day menu from the product library and stock
func (h *NutritionHandler) GenerateMenu(c *gin.Context) {
	menu, err := h.planner.GenerateDayMenu(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to generate menu",
			Details: stringPtr(err.Error()),
		})
		return
	}
	if menu == nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Code:    "ANALYSIS_UNAVAILABLE",
			Message: "No usable menu could be produced, try again",
		})
		return
	}

	c.JSON(http.StatusOK, menu)
}

// RemoveItemRequest drops one component from an analysis under review
type RemoveItemRequest struct {
	Analysis model.MealAnalysis `json:"analysis" binding:"required"`
	Index    int                `json:"index"`
}

// RemoveAnalysisItem removes a component from an uncommitted analysis and
// recomputes the totals from the remaining components.
func (h *NutritionHandler) RemoveAnalysisItem(c *gin.Context) {
	var req RemoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	analysis := req.Analysis.Clone()
	nutrition.RemoveItem(&analysis, req.Index)
	c.JSON(http.StatusOK, analysis)
}

// RecomputeMenuRequest carries a menu whose totals should be rebuilt
type RecomputeMenuRequest struct {
	Menu model.FullDayMenu `json:"menu" binding:"required"`
}

// RecomputeMenu rebuilds a menu's per-meal and daily totals bottom-up from
// its ingredients, e.g. after the user edited quantities.
func (h *NutritionHandler) RecomputeMenu(c *gin.Context) {
	var req RecomputeMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	sanitized := nutrition.SanitizeMenu(req.Menu)
	c.JSON(http.StatusOK, sanitized)
}
