package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fittrack/backend/internal/service"
	"github.com/fittrack/backend/pkg/model"
)

// CoachHandler implements the coaching endpoints: motivation, advice, chat.
// These always answer 200 with text; the service falls back to canned
// replies when generation fails.
type CoachHandler struct {
	service *service.CoachService
	logger  *zap.Logger
}

// NewCoachHandler creates a new CoachHandler
func NewCoachHandler(service *service.CoachService, logger *zap.Logger) *CoachHandler {
	return &CoachHandler{
		service: service,
		logger:  logger,
	}
}

// GetMotivation returns the short motivation line of the day
func (h *CoachHandler) GetMotivation(c *gin.Context) {
	message := h.service.MotivationalMessage(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// GetAdvice returns the markdown progress advice report
func (h *CoachHandler) GetAdvice(c *gin.Context) {
	advice := h.service.PersonalizedAdvice(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"advice": advice})
}

// ChatRequest is one user turn with the prior conversation
type ChatRequest struct {
	History []model.ChatMessage `json:"history"`
	Message string              `json:"message" binding:"required"`
}

// Chat answers one turn of the coaching conversation
func (h *CoachHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	reply := h.service.ChatResponse(c.Request.Context(), req.History, req.Message)
	c.JSON(http.StatusOK, model.ChatMessage{Role: model.ChatRoleAssistant, Text: reply})
}
