package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fittrack/backend/internal/cache"
	"github.com/fittrack/backend/pkg/model"
)

func newTestCoach(t *testing.T, ai ChatCompleter) (*CoachService, *TrackerService) {
	t.Helper()
	tracker, _ := newTestTracker(t)
	coach := NewCoachService(ai, tracker, cache.NewMessageCache(), time.Hour, "fr-FR", zap.NewNop())
	return coach, tracker
}

func TestMotivationalMessage(t *testing.T) {
	ai := new(MockChatCompleter)
	coach, _ := newTestCoach(t, ai)

	ai.On("Complete", mock.Anything, mock.Anything).Return(`"On ne lâche rien !"`, nil).Once()

	message := coach.MotivationalMessage(context.Background())
	assert.Equal(t, "On ne lâche rien !", message, "surrounding quotes are stripped")
}

func TestMotivationalMessage_Cached(t *testing.T) {
	ai := new(MockChatCompleter)
	coach, _ := newTestCoach(t, ai)

	ai.On("Complete", mock.Anything, mock.Anything).Return("Allez, encore un effort !", nil).Once()

	first := coach.MotivationalMessage(context.Background())
	second := coach.MotivationalMessage(context.Background())

	assert.Equal(t, first, second)
	ai.AssertNumberOfCalls(t, "Complete", 1)
}

func TestMotivationalMessage_FallbackOnFailure(t *testing.T) {
	ai := new(MockChatCompleter)
	coach, _ := newTestCoach(t, ai)

	ai.On("Complete", mock.Anything, mock.Anything).Return("", fmt.Errorf("quota exceeded"))

	message := coach.MotivationalMessage(context.Background())
	assert.Equal(t, "Chaque pas est un progrès. Continuez d'avancer !", message)
}

func TestMotivationalMessage_FailureNotCached(t *testing.T) {
	ai := new(MockChatCompleter)
	coach, _ := newTestCoach(t, ai)

	ai.On("Complete", mock.Anything, mock.Anything).Return("", fmt.Errorf("quota exceeded")).Once()
	ai.On("Complete", mock.Anything, mock.Anything).Return("Courage !", nil).Once()

	_ = coach.MotivationalMessage(context.Background())
	second := coach.MotivationalMessage(context.Background())

	assert.Equal(t, "Courage !", second, "fallback replies are not cached")
}

func TestPersonalizedAdvice(t *testing.T) {
	ai := new(MockChatCompleter)
	coach, tracker := newTestCoach(t, ai)

	require.NoError(t, tracker.UpdateMetrics(context.Background(), "2026-08-01", 84.2, 96))
	require.NoError(t, tracker.UpdateMetrics(context.Background(), "2026-08-15", 83.1, 95))

	var userText string
	ai.On("Complete", mock.Anything, mock.MatchedBy(func(messages []openai.ChatCompletionMessageParamUnion) bool {
		for _, msg := range messages {
			if msg.OfUser != nil {
				userText = msg.OfUser.Content.OfString.Value
			}
		}
		return true
	})).Return("### Conseils Nutritionnels\n- Mange des légumes.", nil)

	advice := coach.PersonalizedAdvice(context.Background())
	assert.Contains(t, advice, "Conseils Nutritionnels")
	assert.Contains(t, userText, "84.2", "metric trends feed the prompt")
	assert.Contains(t, userText, "83.1")
}

func TestPersonalizedAdvice_Fallback(t *testing.T) {
	ai := new(MockChatCompleter)
	coach, _ := newTestCoach(t, ai)

	ai.On("Complete", mock.Anything, mock.Anything).Return("", fmt.Errorf("timeout"))

	advice := coach.PersonalizedAdvice(context.Background())
	assert.Contains(t, advice, "Un problème est survenu")
}

func TestChatResponse(t *testing.T) {
	ai := new(MockChatCompleter)
	coach, _ := newTestCoach(t, ai)

	var messageCount int
	ai.On("Complete", mock.Anything, mock.MatchedBy(func(messages []openai.ChatCompletionMessageParamUnion) bool {
		messageCount = len(messages)
		return true
	})).Return("Bonne question !", nil)

	history := []model.ChatMessage{
		{Role: model.ChatRoleUser, Text: "Salut"},
		{Role: model.ChatRoleAssistant, Text: "Salut ! Comment puis-je aider ?"},
	}

	reply := coach.ChatResponse(context.Background(), history, "Que manger ce soir ?")
	assert.Equal(t, "Bonne question !", reply)
	assert.Equal(t, 4, messageCount, "system + history + new message")
}

func TestChatResponse_Fallback(t *testing.T) {
	ai := new(MockChatCompleter)
	coach, _ := newTestCoach(t, ai)

	ai.On("Complete", mock.Anything, mock.Anything).Return("", fmt.Errorf("timeout"))

	reply := coach.ChatResponse(context.Background(), nil, "Que manger ce soir ?")
	assert.Equal(t, "Je suis désolé, je n'ai pas pu traiter votre demande. Veuillez réessayer.", reply)
}

func TestChatResponse_EmptyMessage(t *testing.T) {
	ai := new(MockChatCompleter)
	coach, _ := newTestCoach(t, ai)

	reply := coach.ChatResponse(context.Background(), nil, "  ")
	assert.NotEmpty(t, reply)
	ai.AssertNotCalled(t, "Complete")
}
