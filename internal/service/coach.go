package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"go.uber.org/zap"

	"github.com/fittrack/backend/internal/cache"
	"github.com/fittrack/backend/pkg/model"
)

// Canned replies used when the collaborator is unavailable. The coaching
// surface always answers, whatever the transport does.
const (
	fallbackMotivation = "Chaque pas est un progrès. Continuez d'avancer !"
	fallbackAdvice     = "Un problème est survenu lors de la génération de vos conseils. Veuillez vérifier votre connexion et réessayer."
	fallbackChatReply  = "Je suis désolé, je n'ai pas pu traiter votre demande. Veuillez réessayer."
)

const motivationCacheKey = "coach:motivation"

// CoachService produces the conversational side of the assistant: the daily
// motivation line, the progress-based advice report and the free-form chat.
// Unlike the meal planner it never surfaces a "no result": every operation
// returns text, falling back to a canned reply on any failure.
type CoachService struct {
	ai            ChatCompleter
	tracker       *TrackerService
	messages      *cache.MessageCache
	motivationTTL time.Duration
	language      string
	logger        *zap.Logger
}

// NewCoachService creates a new CoachService. motivationTTL bounds how long
// a generated motivation line is reused before a fresh one is requested.
func NewCoachService(ai ChatCompleter, tracker *TrackerService, messages *cache.MessageCache, motivationTTL time.Duration, language string, logger *zap.Logger) *CoachService {
	return &CoachService{
		ai:            ai,
		tracker:       tracker,
		messages:      messages,
		motivationTTL: motivationTTL,
		language:      language,
		logger:        logger,
	}
}

// MotivationalMessage returns a single short motivation sentence. Generated
// lines are cached; a cache hit never touches the collaborator.
func (s *CoachService) MotivationalMessage(ctx context.Context) string {
	if cached, ok := s.messages.Get(motivationCacheKey); ok {
		return cached
	}

	profile := s.tracker.Profile()

	instruction := profile.CoachInstruction
	if instruction == "" {
		instruction = "Be a friendly, motivating fitness coach."
	}

	prompt := fmt.Sprintf("Give me one single short, punchy motivation sentence, specifically written to encourage someone to keep up their diet, lose belly fat and exercise. The answer must be only the sentence, in %s, with no extra text and no quotation marks.", s.language)

	response, err := s.ai.Complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(instruction),
		openai.UserMessage(prompt),
	})
	if err != nil {
		s.logger.Warn("motivation generation failed, using fallback", zap.Error(err))
		return fallbackMotivation
	}

	message := strings.Trim(strings.TrimSpace(response), `"«»`)
	if message == "" {
		return fallbackMotivation
	}

	s.messages.Set(motivationCacheKey, message, s.motivationTTL)
	return message
}

// PersonalizedAdvice builds a markdown advice report from the user's metric
// trends: one nutrition section and one exercise section.
func (s *CoachService) PersonalizedAdvice(ctx context.Context) string {
	profile := s.tracker.Profile()
	summary := s.progressSummary(profile)

	prompt := fmt.Sprintf(`You are a helpful, encouraging fitness and nutrition coach. A user shared their progress. Data: %s.
Based on this, give concise, actionable advice. Format your answer in markdown.
Include one '### Conseils Nutritionnels' section and one '### Conseils d'Exercice' section, each with 2-3 bullet points.
Start with one brief encouraging sentence about the progress so far. Address the user directly and informally. Answer in %s.`, summary, s.language)

	instruction := profile.CoachInstruction
	if instruction == "" {
		instruction = "Be a friendly, motivating fitness coach."
	}

	response, err := s.ai.Complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(instruction),
		openai.UserMessage(prompt),
	})
	if err != nil {
		s.logger.Warn("advice generation failed, using fallback", zap.Error(err))
		return fallbackAdvice
	}

	s.logger.Info("personalized advice generated", zap.Int("response_length", len(response)))
	return response
}

// ChatResponse answers one user turn of the coaching chat, with the prior
// history and a snapshot of the profile and today's log as context.
func (s *CoachService) ChatResponse(ctx context.Context, history []model.ChatMessage, newMessage string) string {
	if strings.TrimSpace(newMessage) == "" {
		return fallbackChatReply
	}

	profile := s.tracker.Profile()

	instruction := profile.CoachInstruction
	if instruction == "" {
		instruction = "No personal instructions."
	}

	system := fmt.Sprintf(`You are 'Coach IA', a fitness and nutrition coach. You are helpful, encouraging and caring.
Use the user's data to contextualize your answers. Address the user by first name, informally.
Be concise and direct. Your answers must be plain text, not markdown. Answer in %s.
Here is the user's data: %s.
Here are the user's personal instructions, which you must follow: %q`, s.language, s.chatContext(profile), instruction)

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	messages = append(messages, openai.SystemMessage(system))
	for _, turn := range history {
		switch turn.Role {
		case model.ChatRoleAssistant:
			messages = append(messages, openai.AssistantMessage(turn.Text))
		default:
			messages = append(messages, openai.UserMessage(turn.Text))
		}
	}
	messages = append(messages, openai.UserMessage(newMessage))

	response, err := s.ai.Complete(ctx, messages)
	if err != nil {
		s.logger.Warn("chat response failed, using fallback",
			zap.Error(err),
			zap.Int("history_length", len(history)),
		)
		return fallbackChatReply
	}

	return response
}

// progressSummary condenses the metric histories into prompt-sized facts
func (s *CoachService) progressSummary(profile *model.UserProfile) string {
	facts := map[string]string{
		"age":           "unknown",
		"goal":          "no weight goal set",
		"currentStatus": "no measurements recorded yet",
	}

	if profile.Age != nil {
		facts["age"] = fmt.Sprintf("The user is %d years old.", *profile.Age)
	}
	if profile.WeightGoalKg != nil {
		facts["goal"] = fmt.Sprintf("The weight goal is %.1f kg.", *profile.WeightGoalKg)
	}

	if len(profile.WeightHistory) > 0 {
		first := profile.WeightHistory[0].Value
		latest := profile.WeightHistory[len(profile.WeightHistory)-1].Value
		facts["currentStatus"] = fmt.Sprintf("Current weight is %.1f kg.", latest)
		facts["weightTrend"] = fmt.Sprintf("Weight went from %.1f kg to %.1f kg.", first, latest)
	}
	if len(profile.WaistHistory) > 0 {
		first := profile.WaistHistory[0].Value
		latest := profile.WaistHistory[len(profile.WaistHistory)-1].Value
		facts["waistTrend"] = fmt.Sprintf("Waist went from %.1f cm to %.1f cm.", first, latest)
	}

	encoded, err := json.Marshal(facts)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}

// chatContext is the richer snapshot the chat uses: recent history tails
// plus today's full log.
func (s *CoachService) chatContext(profile *model.UserProfile) string {
	today := model.DayKey(time.Now())

	facts := map[string]any{
		"name":          profile.Name,
		"height":        fmt.Sprintf("Height: %.0f cm.", profile.HeightCm),
		"weightHistory": tailPoints(profile.WeightHistory, 5),
		"waistHistory":  tailPoints(profile.WaistHistory, 5),
	}

	if profile.Age != nil {
		facts["age"] = fmt.Sprintf("The user is %d years old.", *profile.Age)
	}
	if profile.WeightGoalKg != nil {
		facts["goal"] = fmt.Sprintf("The weight goal is %.1f kg.", *profile.WeightGoalKg)
	}
	if len(profile.WeightHistory) > 0 {
		facts["currentWeight"] = fmt.Sprintf("Current weight is %.1f kg.", profile.WeightHistory[len(profile.WeightHistory)-1].Value)
	}
	if len(profile.WaistHistory) > 0 {
		facts["currentWaist"] = fmt.Sprintf("Current waist is %.1f cm.", profile.WaistHistory[len(profile.WaistHistory)-1].Value)
	}

	if day, ok := profile.DailyLog[today]; ok {
		facts["todaysLog"] = day
	} else {
		facts["todaysLog"] = "empty"
	}

	encoded, err := json.Marshal(facts)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}

func tailPoints(points []model.ProgressPoint, n int) []model.ProgressPoint {
	if len(points) <= n {
		return points
	}
	return points[len(points)-n:]
}
