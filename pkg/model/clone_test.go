package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProfile() *UserProfile {
	goal := 78.0
	age := 41
	p := &UserProfile{
		Name:             "Claire",
		HeightCm:         168,
		WeightGoalKg:     &goal,
		Age:              &age,
		CoachInstruction: "Sois encourageant.",
		CustomProducts: []CustomProduct{
			{ID: "p1", Name: "Skyr", ServingDescription: "1 pot (150g)", Calories: 90, Protein: 15},
		},
		ProductsInStock: []string{"oeufs", "riz"},
		WeightHistory: []ProgressPoint{
			{Date: "2026-08-01", Value: 84.2},
			{Date: "2026-08-15", Value: 83.1},
		},
		WaistHistory: []ProgressPoint{
			{Date: "2026-08-01", Value: 96},
		},
		DailyLog: map[string]DayRecord{
			"2026-08-15": {
				Meals: []MealLog{
					{
						ID:   "m1",
						Type: MealTypeLunch,
						Analysis: MealAnalysis{
							DishName: "Salade de riz",
							Items:    []FoodItem{{Name: "Riz", Calories: 180}},
							Totals:   NutrientTotals{Calories: 180},
						},
					},
				},
				Workouts: []WorkoutLog{
					{ID: "w1", Name: "Course", DurationMinutes: 30, CaloriesBurned: 280},
				},
			},
		},
	}
	return p
}

func TestUserProfile_Clone_Independence(t *testing.T) {
	original := sampleProfile()
	clone := original.Clone()

	require.Equal(t, original, clone)

	// Mutating the clone must not reach the original
	clone.Name = "Autre"
	*clone.WeightGoalKg = 60
	clone.CustomProducts[0].Name = "changed"
	clone.ProductsInStock[0] = "changed"
	clone.WeightHistory[0].Value = 0
	day := clone.DailyLog["2026-08-15"]
	day.Meals[0].Analysis.Items[0].Calories = 9999
	day.Workouts[0].Name = "changed"
	clone.DailyLog["2026-08-15"] = day
	clone.DailyLog["2026-09-01"] = DayRecord{}

	assert.Equal(t, "Claire", original.Name)
	assert.Equal(t, 78.0, *original.WeightGoalKg)
	assert.Equal(t, "Skyr", original.CustomProducts[0].Name)
	assert.Equal(t, "oeufs", original.ProductsInStock[0])
	assert.Equal(t, 84.2, original.WeightHistory[0].Value)
	assert.Equal(t, 180.0, original.DailyLog["2026-08-15"].Meals[0].Analysis.Items[0].Calories.Float64())
	assert.Equal(t, "Course", original.DailyLog["2026-08-15"].Workouts[0].Name)
	assert.NotContains(t, original.DailyLog, "2026-09-01")
}

func TestUserProfile_Clone_NormalizesNilCollections(t *testing.T) {
	p := &UserProfile{Name: "X", HeightCm: 172}
	clone := p.Clone()

	assert.NotNil(t, clone.CustomProducts)
	assert.NotNil(t, clone.ProductsInStock)
	assert.NotNil(t, clone.WeightHistory)
	assert.NotNil(t, clone.WaistHistory)
	assert.NotNil(t, clone.DailyLog)
}

func TestGeneratedMeal_Clone_NilSafe(t *testing.T) {
	var meal *GeneratedMeal
	assert.Nil(t, meal.Clone())
}

func TestFullDayMenu_Clone_Independence(t *testing.T) {
	menu := FullDayMenu{
		DailyTotals: NutrientTotals{Calories: 400},
		Meals: MenuMeals{
			Breakfast: &GeneratedMeal{
				Name:        "Porridge",
				Ingredients: []DetailedIngredient{{Name: "Avoine", Quantity: "60g", Calories: 220}},
				Totals:      NutrientTotals{Calories: 220},
			},
		},
	}

	clone := menu.Clone()
	clone.Meals.Breakfast.Ingredients[0].Calories = 0
	clone.Meals.Breakfast.Name = "changed"

	assert.Equal(t, 220.0, menu.Meals.Breakfast.Ingredients[0].Calories.Float64())
	assert.Equal(t, "Porridge", menu.Meals.Breakfast.Name)
	assert.Nil(t, clone.Meals.Lunch)
}

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()

	assert.Equal(t, 172.0, p.HeightCm)
	assert.Nil(t, p.WeightGoalKg)
	assert.Nil(t, p.Age)
	assert.Empty(t, p.CustomProducts)
	assert.Empty(t, p.DailyLog)
	assert.NotNil(t, p.DailyLog)
}

func TestMealType_Valid(t *testing.T) {
	for _, mt := range []MealType{
		MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack,
		MealTypeStarter, MealTypeMainCourse, MealTypeDessert,
	} {
		assert.True(t, mt.Valid(), string(mt))
	}

	assert.False(t, MealType("").Valid())
	assert.False(t, MealType("brunch").Valid())
	assert.False(t, MealType("Breakfast").Valid(), "meal types are case sensitive")
}
