package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"go.uber.org/zap"

	"github.com/fittrack/backend/internal/nutrition"
	"github.com/fittrack/backend/pkg/model"
)

// ChatCompleter is the LLM collaborator surface the services depend on
type ChatCompleter interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error)
	CompleteVision(ctx context.Context, systemPrompt, userPrompt, imageBase64 string) (string, error)
}

// Per-meal calorie caps carried over from the nutritionist rules of the app
const (
	breakfastCalorieCap = 450
	mainMealCalorieCap  = 500
	snackCalorieCap     = 375
	recipeCalorieCap    = 500
)

// MealPlannerService drives all LLM-backed nutrition features: photo and
// text meal analysis, meal suggestions, recipe search, and day-menu
// generation from the user's product library and stock.
//
// The collaborator is untrusted: unusable output of any kind (transport
// error, unparseable text, wrong shape) degrades to "no result" for the
// caller. It is also untrusted arithmetically, so every generated menu is
// sanitized before it leaves this service.
type MealPlannerService struct {
	ai       ChatCompleter
	tracker  *TrackerService
	language string
	logger   *zap.Logger
}

// NewMealPlannerService creates a new MealPlannerService. language is the
// BCP-47 tag user-facing text is produced in.
func NewMealPlannerService(ai ChatCompleter, tracker *TrackerService, language string, logger *zap.Logger) *MealPlannerService {
	return &MealPlannerService{
		ai:       ai,
		tracker:  tracker,
		language: language,
		logger:   logger,
	}
}

// AnalyzeMealPhoto identifies the food on a meal photo and estimates its
// nutrition. Returns (nil, nil) when no usable analysis could be obtained;
// callers must treat that as a normal retryable outcome.
func (s *MealPlannerService) AnalyzeMealPhoto(ctx context.Context, imageBase64, userComment string) (*model.MealAnalysis, error) {
	if imageBase64 == "" {
		return nil, fmt.Errorf("image is required")
	}

	profile := s.tracker.Profile()

	var comment string
	if strings.TrimSpace(userComment) != "" {
		comment = fmt.Sprintf("The user added this comment to help the analysis: %q. Take it into account.\n", userComment)
	}

	prompt := fmt.Sprintf(`You are a nutrition expert. Analyze the food on this image.
%s1. Name the dish.
2. Identify every main food component on the plate. If a component matches one of the user's catalogued products given in the system instructions, you MUST use that product's exact nutrition values instead of estimating.
3. For each component, estimate calories, protein (g), carbs (g) and fat (g).
4. Provide totals for the whole dish.
5. Provide a brief reasoning for your estimate.

%s`, comment, mealAnalysisFormat)

	response, err := s.ai.CompleteVision(ctx, s.baseSystemPrompt(profile), prompt, imageBase64)
	if err != nil {
		s.logger.Warn("meal photo analysis unavailable", zap.Error(err))
		return nil, nil
	}

	return s.parseAnalysis(response, "photo"), nil
}

// AnalyzeMealDescription estimates the nutrition of a meal described in text
// (typed or dictated). Returns (nil, nil) when no usable analysis could be
// obtained.
func (s *MealPlannerService) AnalyzeMealDescription(ctx context.Context, description string) (*model.MealAnalysis, error) {
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("meal description is required")
	}

	profile := s.tracker.Profile()

	prompt := fmt.Sprintf(`You are a nutrition expert. A user described their meal.
Description: %q.
Your task:
1. FIRST, check whether any food in the description matches a product from the user's catalogued products given in the system instructions. If so, you MUST use that product's exact nutrition values.
2. Estimate calories, protein (g), carbs (g) and fat (g) for every other food.
3. Give the meal a generic name.
4. Compute the totals for the whole meal.

%s`, description, mealAnalysisFormat)

	response, err := s.ai.Complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(s.baseSystemPrompt(profile)),
		openai.UserMessage(prompt),
	})
	if err != nil {
		s.logger.Warn("meal description analysis unavailable", zap.Error(err))
		return nil, nil
	}

	return s.parseAnalysis(response, "description"), nil
}

// SuggestMeal asks for a healthy meal idea of the given type, within the
// calorie cap for that meal type. Returns (nil, nil) when no usable
// suggestion could be obtained.
func (s *MealPlannerService) SuggestMeal(ctx context.Context, mealType model.MealType) (*model.MealAnalysis, error) {
	if !mealType.Valid() {
		return nil, fmt.Errorf("invalid meal type %q", mealType)
	}

	profile := s.tracker.Profile()

	var calorieRule string
	if limit, ok := calorieCap(mealType); ok {
		calorieRule = fmt.Sprintf("IMPORTANT: the total for this meal must NEVER exceed %d calories.\n", limit)
	}

	prompt := fmt.Sprintf(`You are a nutritionist. Suggest a simple, healthy, balanced meal idea for a %q that fits the user's goal.
%sTake the user's profile (age, goal) and personal instructions into account.
Your answer MUST be a complete nutritional analysis of your suggestion.

%s`, mealType, calorieRule, mealAnalysisFormat)

	response, err := s.ai.Complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(s.goalSystemPrompt(profile)),
		openai.UserMessage(prompt),
	})
	if err != nil {
		s.logger.Warn("meal suggestion unavailable",
			zap.Error(err),
			zap.String("meal_type", string(mealType)),
		)
		return nil, nil
	}

	return s.parseAnalysis(response, "suggestion"), nil
}

// FindRecipes proposes up to four recipes matching the query, available
// ingredients and goal. Failures degrade to an empty list.
func (s *MealPlannerService) FindRecipes(ctx context.Context, query, goal, ingredients string) ([]model.Recipe, error) {
	profile := s.tracker.Profile()

	if query == "" {
		query = "unspecified"
	}
	if ingredients == "" {
		ingredients = "unspecified"
	}

	prompt := fmt.Sprintf(`You are a creative nutritionist. A user is looking for recipes.
User search: %q.
Available ingredients: %q. Use these ingredients when possible.
Main goal: %s.

Propose between 1 and 4 recipes. Be creative even with simple ingredients.
For each recipe provide a complete, detailed nutritional analysis.

STRICT RULES:
1. No proposed recipe may exceed %d calories in total.
2. The answer MUST be ONLY a JSON array of objects in the format below. No text or markdown outside the array.
3. NEVER return an empty array. If nothing matches, invent a simple healthy recipe from the given ingredients that respects the calorie limit.

Expected JSON format:
[
  {
    "name": "Recipe name",
    "prepTimeMinutes": 30,
    "instructions": ["Step 1...", "Step 2..."],
    "goalFit": "Goal (e.g. weight loss)",
    "analysis": {
      "dishName": "Recipe name (same as above)",
      "reasoning": "Why this recipe fits the goal.",
      "items": [
        {"name": "Ingredient 1 (quantity)", "calories": 200, "protein": 30, "carbs": 5, "fat": 8}
      ],
      "totals": {"calories": 350, "protein": 32, "carbs": 35, "fat": 10}
    }
  }
]
Do not put a comma after the last element of an array or object. All user-facing text in %s.`, query, ingredients, goal, recipeCalorieCap, s.language)

	response, err := s.ai.Complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(s.baseSystemPrompt(profile)),
		openai.UserMessage(prompt),
	})
	if err != nil {
		s.logger.Warn("recipe search unavailable", zap.Error(err))
		return []model.Recipe{}, nil
	}

	var recipes []model.Recipe
	if !decodeModelJSON(response, &recipes) {
		s.logger.Warn("recipe search returned unparseable response",
			zap.Int("response_length", len(response)),
		)
		return []model.Recipe{}, nil
	}

	for i := range recipes {
		if recipes[i].Instructions == nil {
			recipes[i].Instructions = []string{}
		}
		if recipes[i].Analysis.Items == nil {
			recipes[i].Analysis.Items = []model.FoodItem{}
		}
	}

	s.logger.Info("recipe search completed", zap.Int("recipe_count", len(recipes)))

	return recipes, nil
}

// GenerateDayMenu composes a full-day menu exclusively from the user's
// product library and stock-on-hand list. The returned menu is sanitized:
// per-meal totals are recomputed from ingredients and daily totals from the
// recomputed per-meal totals, whatever arithmetic the collaborator claimed.
// Returns (nil, nil) when no usable menu could be obtained.
func (s *MealPlannerService) GenerateDayMenu(ctx context.Context) (*model.FullDayMenu, error) {
	profile := s.tracker.Profile()

	products, err := json.Marshal(productFacts(profile.CustomProducts))
	if err != nil {
		return nil, fmt.Errorf("failed to encode product library: %w", err)
	}
	stock, err := json.Marshal(profile.ProductsInStock)
	if err != nil {
		return nil, fmt.Errorf("failed to encode stock list: %w", err)
	}

	prompt := fmt.Sprintf(`Based ONLY on the two ingredient lists below, create a COMPLETE balanced menu for one day (breakfast, lunch, dinner and one snack).
Use NO ingredient that is not in these lists.
List 1 (product library with details): %s
List 2 (basic ingredient stock): %s

STRICT RULES:
1. Breakfast must NEVER exceed %d calories.
2. Lunch and dinner must NEVER exceed %d calories each.
3. The snack must NEVER exceed %d calories.
4. For EVERY ingredient of EVERY meal give a realistic quantity (e.g. "150g", "1 fruit") and estimate its calories, protein, carbs and fat.
5. For EVERY meal compute the totals (calories, protein, carbs, fat).
6. Compute the totals for the WHOLE day.

Answer ONLY with a valid JSON object in this exact format:
{
  "dailyTotals": {"calories": 0, "protein": 0, "carbs": 0, "fat": 0},
  "meals": {
    "breakfast": {
      "name": "Meal name",
      "ingredients": [
        {"name": "ingredient", "quantity": "150g", "calories": 0, "protein": 0, "carbs": 0, "fat": 0}
      ],
      "totals": {"calories": 0, "protein": 0, "carbs": 0, "fat": 0}
    },
    "lunch": {"name": "...", "ingredients": [], "totals": {}},
    "dinner": {"name": "...", "ingredients": [], "totals": {}},
    "snack": {"name": "...", "ingredients": [], "totals": {}}
  }
}
If a meal cannot be composed (e.g. the snack, for lack of ingredients), set its value to null. Do not put a comma after the last element. All user-facing text in %s.`,
		products, stock, breakfastCalorieCap, mainMealCalorieCap, snackCalorieCap, s.language)

	response, err := s.ai.Complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(s.goalSystemPrompt(profile)),
		openai.UserMessage(prompt),
	})
	if err != nil {
		s.logger.Warn("day menu generation unavailable", zap.Error(err))
		return nil, nil
	}

	var menu model.FullDayMenu
	if !decodeModelJSON(response, &menu) {
		s.logger.Warn("day menu generation returned unparseable response",
			zap.Int("response_length", len(response)),
		)
		return nil, nil
	}

	sanitized := nutrition.SanitizeMenu(menu)

	s.logger.Info("day menu generated",
		zap.Int("meal_count", len(sanitized.Meals.Present())),
		zap.Float64("daily_calories", sanitized.DailyTotals.Calories.Float64()),
	)

	return &sanitized, nil
}

// mealAnalysisFormat is the strict response contract shared by all analysis
// prompts. Fence and trailing-comma violations still occur and are handled by
// the lenient decode step.
const mealAnalysisFormat = `Answer ONLY and EXCLUSIVELY with a valid JSON object in this strict format:
{
  "dishName": "Dish name",
  "reasoning": "Brief explanation of the estimate.",
  "items": [
    {"name": "Component 1", "calories": 0, "protein": 0, "carbs": 0, "fat": 0},
    {"name": "Component 2", "calories": 0, "protein": 0, "carbs": 0, "fat": 0}
  ],
  "totals": {"calories": 0, "protein": 0, "carbs": 0, "fat": 0}
}
Do not include any other text, explanation or markdown markers. Do not put a comma after the last element of an array or object.`

// parseAnalysis decodes a meal analysis response, nil when unusable
func (s *MealPlannerService) parseAnalysis(response, source string) *model.MealAnalysis {
	var analysis model.MealAnalysis
	if !decodeModelJSON(response, &analysis) {
		s.logger.Warn("meal analysis returned unparseable response",
			zap.String("source", source),
			zap.Int("response_length", len(response)),
		)
		return nil
	}

	if analysis.Items == nil {
		analysis.Items = []model.FoodItem{}
	}

	s.logger.Info("meal analysis completed",
		zap.String("source", source),
		zap.String("dish", analysis.DishName),
		zap.Int("item_count", len(analysis.Items)),
		zap.Float64("calories", analysis.Totals.Calories.Float64()),
	)

	return &analysis
}

// productFact is the subset of a catalogued product shared with the model
type productFact struct {
	Name     string      `json:"name"`
	Serving  string      `json:"serving"`
	Calories model.Macro `json:"calories"`
	Protein  model.Macro `json:"protein"`
	Carbs    model.Macro `json:"carbs"`
	Fat      model.Macro `json:"fat"`
}

func productFacts(products []model.CustomProduct) []productFact {
	facts := make([]productFact, 0, len(products))
	for _, p := range products {
		facts = append(facts, productFact{
			Name:     p.Name,
			Serving:  p.ServingDescription,
			Calories: p.Calories,
			Protein:  p.Protein,
			Carbs:    p.Carbs,
			Fat:      p.Fat,
		})
	}
	return facts
}

// baseSystemPrompt combines the user's personal coach instruction with the
// catalogued-product ground truth the model must not re-estimate.
func (s *MealPlannerService) baseSystemPrompt(profile *model.UserProfile) string {
	var b strings.Builder

	instruction := profile.CoachInstruction
	if instruction == "" {
		instruction = "Be a friendly, encouraging nutrition assistant."
	}
	b.WriteString(instruction)

	if len(profile.CustomProducts) > 0 {
		facts, err := json.Marshal(productFacts(profile.CustomProducts))
		if err == nil {
			b.WriteString("\n\nThe user has catalogued the following products. You MUST USE THESE EXACT NUTRITION VALUES whenever you recognize one of them in a request. Do not estimate them.\nCatalogued products: ")
			b.Write(facts)
		}
	}

	fmt.Fprintf(&b, "\n\nAll user-facing text must be in %s.", s.language)

	return b.String()
}

// goalSystemPrompt extends the base prompt with the user's current goal
// direction (gain or loss), derived from the latest weight vs the goal.
func (s *MealPlannerService) goalSystemPrompt(profile *model.UserProfile) string {
	goal := "weight loss"
	if profile.WeightGoalKg != nil && len(profile.WeightHistory) > 0 {
		latest := profile.WeightHistory[len(profile.WeightHistory)-1].Value
		if *profile.WeightGoalKg > latest {
			goal = "muscle gain"
		}
	}
	return fmt.Sprintf("User goal: %s. %s", goal, s.baseSystemPrompt(profile))
}

// calorieCap returns the cap for a meal type, ok=false when uncapped
func calorieCap(mealType model.MealType) (int, bool) {
	switch mealType {
	case model.MealTypeBreakfast:
		return breakfastCalorieCap, true
	case model.MealTypeLunch, model.MealTypeDinner, model.MealTypeMainCourse:
		return mainMealCalorieCap, true
	case model.MealTypeSnack:
		return snackCalorieCap, true
	}
	return 0, false
}
