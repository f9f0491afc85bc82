package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fittrack/backend/pkg/model"
)

// MockChatCompleter mocks the LLM collaborator
type MockChatCompleter struct {
	mock.Mock
}

func (m *MockChatCompleter) Complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

func (m *MockChatCompleter) CompleteVision(ctx context.Context, systemPrompt, userPrompt, imageBase64 string) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt, imageBase64)
	return args.String(0), args.Error(1)
}

func newTestPlanner(t *testing.T, ai ChatCompleter) (*MealPlannerService, *TrackerService) {
	t.Helper()
	tracker, _ := newTestTracker(t)
	return NewMealPlannerService(ai, tracker, "fr-FR", zap.NewNop()), tracker
}

const validAnalysisJSON = `{
	"dishName": "Omelette",
	"reasoning": "Trois oeufs environ.",
	"items": [{"name": "Oeufs", "calories": 210, "protein": 18, "carbs": 1, "fat": 15}],
	"totals": {"calories": 210, "protein": 18, "carbs": 1, "fat": 15}
}`

func TestAnalyzeMealDescription(t *testing.T) {
	ai := new(MockChatCompleter)
	planner, _ := newTestPlanner(t, ai)

	ai.On("Complete", mock.Anything, mock.Anything).Return("```json\n"+validAnalysisJSON+"\n```", nil)

	analysis, err := planner.AnalyzeMealDescription(context.Background(), "une omelette de trois oeufs")
	require.NoError(t, err)
	require.NotNil(t, analysis)
	assert.Equal(t, "Omelette", analysis.DishName)
	assert.Equal(t, 210.0, analysis.Totals.Calories.Float64())
}

func TestAnalyzeMealDescription_EmptyInput(t *testing.T) {
	ai := new(MockChatCompleter)
	planner, _ := newTestPlanner(t, ai)

	_, err := planner.AnalyzeMealDescription(context.Background(), "   ")
	assert.Error(t, err)
	ai.AssertNotCalled(t, "Complete")
}

func TestAnalyzeMealDescription_TransportFailureIsNoResult(t *testing.T) {
	ai := new(MockChatCompleter)
	planner, _ := newTestPlanner(t, ai)

	ai.On("Complete", mock.Anything, mock.Anything).Return("", fmt.Errorf("deployment not found"))

	analysis, err := planner.AnalyzeMealDescription(context.Background(), "une pizza")
	assert.NoError(t, err)
	assert.Nil(t, analysis)
}

func TestAnalyzeMealDescription_ProseIsNoResult(t *testing.T) {
	ai := new(MockChatCompleter)
	planner, _ := newTestPlanner(t, ai)

	ai.On("Complete", mock.Anything, mock.Anything).Return("Je ne peux pas analyser cela.", nil)

	analysis, err := planner.AnalyzeMealDescription(context.Background(), "une pizza")
	assert.NoError(t, err)
	assert.Nil(t, analysis)
}

func TestAnalyzeMealPhoto(t *testing.T) {
	ai := new(MockChatCompleter)
	planner, _ := newTestPlanner(t, ai)

	ai.On("CompleteVision", mock.Anything, mock.Anything, mock.Anything, "aW1hZ2U=").Return(validAnalysisJSON, nil)

	analysis, err := planner.AnalyzeMealPhoto(context.Background(), "aW1hZ2U=", "avec du fromage")
	require.NoError(t, err)
	require.NotNil(t, analysis)
	assert.Equal(t, "Omelette", analysis.DishName)

	_, err = planner.AnalyzeMealPhoto(context.Background(), "", "")
	assert.Error(t, err, "missing image is a caller error, not a no-result")
}

func TestAnalyzeMealDescription_CataloguedProductsInSystemPrompt(t *testing.T) {
	ai := new(MockChatCompleter)
	planner, tracker := newTestPlanner(t, ai)

	_, err := tracker.AddProduct(context.Background(), model.CustomProduct{
		Name: "Skyr", Calories: 90, Protein: 15,
	})
	require.NoError(t, err)

	var systemText string
	ai.On("Complete", mock.Anything, mock.MatchedBy(func(messages []openai.ChatCompletionMessageParamUnion) bool {
		if len(messages) == 0 || messages[0].OfSystem == nil {
			return false
		}
		systemText = messages[0].OfSystem.Content.OfString.Value
		return true
	})).Return(validAnalysisJSON, nil)

	_, err = planner.AnalyzeMealDescription(context.Background(), "un skyr nature")
	require.NoError(t, err)
	assert.Contains(t, systemText, "Skyr", "catalogued products are passed as ground truth")
}

func TestSuggestMeal(t *testing.T) {
	ai := new(MockChatCompleter)
	planner, _ := newTestPlanner(t, ai)

	var userText string
	ai.On("Complete", mock.Anything, mock.MatchedBy(func(messages []openai.ChatCompletionMessageParamUnion) bool {
		for _, msg := range messages {
			if msg.OfUser != nil {
				userText = msg.OfUser.Content.OfString.Value
			}
		}
		return true
	})).Return(validAnalysisJSON, nil)

	analysis, err := planner.SuggestMeal(context.Background(), model.MealTypeBreakfast)
	require.NoError(t, err)
	require.NotNil(t, analysis)
	assert.Contains(t, userText, "450", "breakfast suggestions carry the calorie cap")

	_, err = planner.SuggestMeal(context.Background(), model.MealTypeLunch)
	require.NoError(t, err)
	assert.Contains(t, userText, "500")

	_, err = planner.SuggestMeal(context.Background(), model.MealTypeSnack)
	require.NoError(t, err)
	assert.Contains(t, userText, "375")
}

func TestSuggestMeal_InvalidType(t *testing.T) {
	ai := new(MockChatCompleter)
	planner, _ := newTestPlanner(t, ai)

	_, err := planner.SuggestMeal(context.Background(), "brunch")
	assert.Error(t, err)
	ai.AssertNotCalled(t, "Complete")
}

func TestFindRecipes(t *testing.T) {
	ai := new(MockChatCompleter)
	planner, _ := newTestPlanner(t, ai)

	ai.On("Complete", mock.Anything, mock.Anything).Return(`[
		{"name": "Salade de thon", "prepTimeMinutes": 10, "instructions": ["Mélanger"], "goalFit": "perte de poids",
		 "analysis": {"dishName": "Salade de thon", "items": [], "totals": {"calories": 320}}}
	]`, nil)

	recipes, err := planner.FindRecipes(context.Background(), "salade", "perte de poids", "thon, salade")
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Salade de thon", recipes[0].Name)
	assert.NotNil(t, recipes[0].Instructions)
	assert.NotNil(t, recipes[0].Analysis.Items)
}

func TestFindRecipes_FailureIsEmptyList(t *testing.T) {
	ai := new(MockChatCompleter)
	planner, _ := newTestPlanner(t, ai)

	ai.On("Complete", mock.Anything, mock.Anything).Return("", fmt.Errorf("timeout"))

	recipes, err := planner.FindRecipes(context.Background(), "salade", "", "")
	require.NoError(t, err)
	assert.NotNil(t, recipes)
	assert.Empty(t, recipes)
}

func TestFindRecipes_GarbageIsEmptyList(t *testing.T) {
	ai := new(MockChatCompleter)
	planner, _ := newTestPlanner(t, ai)

	ai.On("Complete", mock.Anything, mock.Anything).Return("pas de JSON ici", nil)

	recipes, err := planner.FindRecipes(context.Background(), "salade", "", "")
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestGenerateDayMenu_SanitizesTotals(t *testing.T) {
	ai := new(MockChatCompleter)
	planner, tracker := newTestPlanner(t, ai)

	require.NoError(t, tracker.AddStockItem(context.Background(), "avoine"))

	// Stated totals are deliberately wrong: they must be recomputed
	ai.On("Complete", mock.Anything, mock.Anything).Return(`{
		"dailyTotals": {"calories": 9999, "protein": 0, "carbs": 0, "fat": 0},
		"meals": {
			"breakfast": {
				"name": "Porridge",
				"ingredients": [
					{"name": "Avoine", "quantity": "60g", "calories": 220, "protein": 8, "carbs": 40, "fat": 4}
				],
				"totals": {"calories": 1, "protein": 1, "carbs": 1, "fat": 1}
			},
			"snack": null
		}
	}`, nil)

	menu, err := planner.GenerateDayMenu(context.Background())
	require.NoError(t, err)
	require.NotNil(t, menu)

	require.NotNil(t, menu.Meals.Breakfast)
	assert.Equal(t, 220.0, menu.Meals.Breakfast.Totals.Calories.Float64())
	assert.Equal(t, 220.0, menu.DailyTotals.Calories.Float64())
	assert.Nil(t, menu.Meals.Snack)
}

func TestGenerateDayMenu_FailureIsNoResult(t *testing.T) {
	ai := new(MockChatCompleter)
	planner, _ := newTestPlanner(t, ai)

	ai.On("Complete", mock.Anything, mock.Anything).Return("désolé", nil)

	menu, err := planner.GenerateDayMenu(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, menu)
}
