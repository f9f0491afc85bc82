package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fittrack/backend/internal/service"
)

// DictationHandler implements the voice dictation endpoints. When no speech
// service is configured every endpoint answers 503.
type DictationHandler struct {
	service *service.DictationService
	logger  *zap.Logger
}

// NewDictationHandler creates a new DictationHandler
func NewDictationHandler(service *service.DictationService, logger *zap.Logger) *DictationHandler {
	return &DictationHandler{
		service: service,
		logger:  logger,
	}
}

func (h *DictationHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDictationUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Code:    "FEATURE_UNAVAILABLE",
			Message: "Dictation is not available",
		})
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Dictation session not found",
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to transcribe audio",
			Details: stringPtr(err.Error()),
		})
	}
}

// StartSession opens a new dictation session
func (h *DictationHandler) StartSession(c *gin.Context) {
	sessionID, err := h.service.Start()
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessionId": sessionID})
}

// StreamAudio transcribes one audio chunk into the session transcript.
// The request body is raw WAV audio.
func (h *DictationHandler) StreamAudio(c *gin.Context) {
	sessionID := c.Param("id")

	audioStream := c.Request.Body
	defer c.Request.Body.Close()

	transcript, err := h.service.AppendAudio(c.Request.Context(), sessionID, audioStream)
	if err != nil {
		h.logger.Error("audio transcription failed",
			zap.Error(err),
			zap.String("session_id", sessionID),
		)
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transcript": transcript})
}

// StopSession closes the session and returns the final transcript
func (h *DictationHandler) StopSession(c *gin.Context) {
	sessionID := c.Param("id")

	transcript, err := h.service.Stop(sessionID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transcript": transcript})
}
