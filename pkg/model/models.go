package model

import "time"

// MealType classifies a logged meal
type MealType string

const (
	MealTypeBreakfast  MealType = "breakfast"
	MealTypeLunch      MealType = "lunch"
	MealTypeDinner     MealType = "dinner"
	MealTypeSnack      MealType = "snack"
	MealTypeStarter    MealType = "starter"
	MealTypeMainCourse MealType = "main_course"
	MealTypeDessert    MealType = "dessert"
)

// Valid reports whether the meal type is one of the known values
func (t MealType) Valid() bool {
	switch t {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack,
		MealTypeStarter, MealTypeMainCourse, MealTypeDessert:
		return true
	}
	return false
}

// NutrientTotals is the additive aggregate of calories and macros.
// It is always derived from an item list, never hand-edited.
type NutrientTotals struct {
	Calories Macro `json:"calories"`
	Protein  Macro `json:"protein"`
	Carbs    Macro `json:"carbs"`
	Fat      Macro `json:"fat"`
}

// Nutrients implements NutrientSource
func (t NutrientTotals) Nutrients() NutrientTotals { return t }

// Add returns the element-wise sum of two totals
func (t NutrientTotals) Add(o NutrientTotals) NutrientTotals {
	return NutrientTotals{
		Calories: t.Calories + o.Calories,
		Protein:  t.Protein + o.Protein,
		Carbs:    t.Carbs + o.Carbs,
		Fat:      t.Fat + o.Fat,
	}
}

// NutrientSource is anything contributing to a NutrientTotals aggregate
type NutrientSource interface {
	Nutrients() NutrientTotals
}

// FoodItem is a single component of an analyzed meal
type FoodItem struct {
	Name     string `json:"name"`
	Calories Macro  `json:"calories"`
	Protein  Macro  `json:"protein"`
	Carbs    Macro  `json:"carbs"`
	Fat      Macro  `json:"fat"`
}

// Nutrients implements NutrientSource
func (f FoodItem) Nutrients() NutrientTotals {
	return NutrientTotals{Calories: f.Calories, Protein: f.Protein, Carbs: f.Carbs, Fat: f.Fat}
}

// MealAnalysis is the structured result of analyzing one meal.
// Invariant: Totals equals the sum of Items at all times; any edit to Items
// must be followed by a recompute before the value is used.
type MealAnalysis struct {
	DishName  string         `json:"dishName"`
	Reasoning string         `json:"reasoning"`
	Items     []FoodItem     `json:"items"`
	Totals    NutrientTotals `json:"totals"`
}

// MealLog is a committed meal entry. Immutable once logged.
type MealLog struct {
	ID       string       `json:"id"`
	Type     MealType     `json:"type"`
	Analysis MealAnalysis `json:"analysis"`
}

// WorkoutLog is a completed workout or manual walk entry
type WorkoutLog struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes float64 `json:"durationMinutes"`
	CaloriesBurned  float64 `json:"caloriesBurned"`
}

// DayRecord holds everything logged on one calendar day.
// Created lazily on first log, append-only, never deleted.
type DayRecord struct {
	Meals    []MealLog    `json:"meals"`
	Workouts []WorkoutLog `json:"workouts"`
}

// ProgressPoint is one dated measurement in a metric series
type ProgressPoint struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Value float64 `json:"value"`
}

// CustomProduct is a user-declared food with exact nutrition per serving.
// Logged meals that referenced it hold copies of its values, so deleting a
// product never touches the day log.
type CustomProduct struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Photo              string `json:"photo"` // blob path or inline base64 JPEG
	ServingDescription string `json:"servingDescription"`
	Calories           Macro  `json:"calories"`
	Protein            Macro  `json:"protein"`
	Carbs              Macro  `json:"carbs"`
	Fat                Macro  `json:"fat"`
}

// Recipe is one suggestion returned by recipe search
type Recipe struct {
	Name            string       `json:"name"`
	PrepTimeMinutes int          `json:"prepTimeMinutes"`
	Instructions    []string     `json:"instructions"`
	GoalFit         string       `json:"goalFit"`
	Analysis        MealAnalysis `json:"analysis"`
}

// DetailedIngredient is one ingredient of a generated meal, with quantity
type DetailedIngredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Calories Macro  `json:"calories"`
	Protein  Macro  `json:"protein"`
	Carbs    Macro  `json:"carbs"`
	Fat      Macro  `json:"fat"`
}

// Nutrients implements NutrientSource
func (i DetailedIngredient) Nutrients() NutrientTotals {
	return NutrientTotals{Calories: i.Calories, Protein: i.Protein, Carbs: i.Carbs, Fat: i.Fat}
}

// GeneratedMeal is one meal slot of a generated day menu.
// Invariant: Totals equals the sum of Ingredients.
type GeneratedMeal struct {
	Name        string               `json:"name"`
	Ingredients []DetailedIngredient `json:"ingredients"`
	Totals      NutrientTotals       `json:"totals"`
}

// MenuMeals holds the four optional meal slots of a day menu
type MenuMeals struct {
	Breakfast *GeneratedMeal `json:"breakfast,omitempty"`
	Lunch     *GeneratedMeal `json:"lunch,omitempty"`
	Dinner    *GeneratedMeal `json:"dinner,omitempty"`
	Snack     *GeneratedMeal `json:"snack,omitempty"`
}

// Present returns the non-nil meal slots in day order
func (m *MenuMeals) Present() []*GeneratedMeal {
	var present []*GeneratedMeal
	for _, meal := range []*GeneratedMeal{m.Breakfast, m.Lunch, m.Dinner, m.Snack} {
		if meal != nil {
			present = append(present, meal)
		}
	}
	return present
}

// FullDayMenu is a generated menu for a whole day.
// Invariant: each slot's Totals equals the sum of its Ingredients and
// DailyTotals equals the sum of all present slots' Totals.
type FullDayMenu struct {
	DailyTotals NutrientTotals `json:"dailyTotals"`
	Meals       MenuMeals      `json:"meals"`
}

// ChatRole identifies a chat message sender
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of the coaching conversation
type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

// DailyBalance is the derived calorie balance of one day
type DailyBalance struct {
	CaloriesIn  float64 `json:"caloriesIn"`
	CaloriesOut float64 `json:"caloriesOut"`
	Net         float64 `json:"net"`
}

// UserProfile is the root aggregate and sole persisted entity. It owns every
// other entity by value; nothing is shared by reference across parents.
type UserProfile struct {
	Name             string               `json:"name"`
	HeightCm         float64              `json:"heightCm"`
	WeightGoalKg     *float64             `json:"weightGoalKg,omitempty"`
	Age              *int                 `json:"age,omitempty"`
	CoachInstruction string               `json:"aiSystemInstruction,omitempty"`
	CustomProducts   []CustomProduct      `json:"customProducts"`
	ProductsInStock  []string             `json:"productsInStock"`
	WeightHistory    []ProgressPoint      `json:"weightHistory"`
	WaistHistory     []ProgressPoint      `json:"waistHistory"`
	DailyLog         map[string]DayRecord `json:"dailyLog"`
}

// DefaultProfile returns the profile used before the user has saved anything
func DefaultProfile() *UserProfile {
	p := &UserProfile{
		Name:     "",
		HeightCm: 172,
	}
	p.Normalize()
	return p
}

// Normalize repairs a partially-shaped document by defaulting missing optional
// collections to empty. Called after every load so startup never fails on an
// old or hand-edited document.
func (p *UserProfile) Normalize() {
	if p.CustomProducts == nil {
		p.CustomProducts = []CustomProduct{}
	}
	if p.ProductsInStock == nil {
		p.ProductsInStock = []string{}
	}
	if p.WeightHistory == nil {
		p.WeightHistory = []ProgressPoint{}
	}
	if p.WaistHistory == nil {
		p.WaistHistory = []ProgressPoint{}
	}
	if p.DailyLog == nil {
		p.DailyLog = map[string]DayRecord{}
	}
}

// DayKey formats t as the local calendar day key (YYYY-MM-DD). A log entry's
// key is fixed at creation time and never recomputed.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
