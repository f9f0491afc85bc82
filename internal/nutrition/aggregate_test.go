package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fittrack/backend/pkg/model"
)

func TestSum_Empty(t *testing.T) {
	assert.Equal(t, model.NutrientTotals{}, Sum([]model.FoodItem{}))
	assert.Equal(t, model.NutrientTotals{}, Sum[model.FoodItem](nil))
}

func TestSum_Items(t *testing.T) {
	items := []model.FoodItem{
		{Name: "Poulet", Calories: 200, Protein: 30, Carbs: 0, Fat: 8},
		{Name: "Riz", Calories: 180, Protein: 4, Carbs: 38, Fat: 1},
	}

	totals := Sum(items)

	assert.Equal(t, 380.0, totals.Calories.Float64())
	assert.Equal(t, 34.0, totals.Protein.Float64())
	assert.Equal(t, 38.0, totals.Carbs.Float64())
	assert.Equal(t, 9.0, totals.Fat.Float64())
}

func TestRemoveItem(t *testing.T) {
	base := model.MealAnalysis{
		DishName: "Assiette",
		Items: []model.FoodItem{
			{Name: "A", Calories: 100},
			{Name: "B", Calories: 200},
			{Name: "C", Calories: 300},
		},
		Totals: model.NutrientTotals{Calories: 600},
	}

	t.Run("removes and recomputes", func(t *testing.T) {
		a := base.Clone()
		RemoveItem(&a, 1)

		assert.Len(t, a.Items, 2)
		assert.Equal(t, "A", a.Items[0].Name)
		assert.Equal(t, "C", a.Items[1].Name)
		assert.Equal(t, 400.0, a.Totals.Calories.Float64())
	})

	t.Run("out of range is ignored", func(t *testing.T) {
		a := base.Clone()
		RemoveItem(&a, -1)
		RemoveItem(&a, 3)

		assert.Len(t, a.Items, 3)
		assert.Equal(t, 600.0, a.Totals.Calories.Float64())
	})

	t.Run("last item leaves empty meal with zero totals", func(t *testing.T) {
		a := model.MealAnalysis{
			Items:  []model.FoodItem{{Name: "A", Calories: 100}},
			Totals: model.NutrientTotals{Calories: 100},
		}
		RemoveItem(&a, 0)

		assert.Empty(t, a.Items)
		assert.Equal(t, model.NutrientTotals{}, a.Totals)
	})
}

func TestSanitizeMenu_RestoresInvariants(t *testing.T) {
	// Stated totals deliberately disagree with the ingredients
	menu := model.FullDayMenu{
		DailyTotals: model.NutrientTotals{Calories: 9999},
		Meals: model.MenuMeals{
			Breakfast: &model.GeneratedMeal{
				Name: "Porridge",
				Ingredients: []model.DetailedIngredient{
					{Name: "Avoine", Quantity: "60g", Calories: 220, Protein: 8},
					{Name: "Lait", Quantity: "200ml", Calories: 90, Protein: 7},
				},
				Totals: model.NutrientTotals{Calories: 1},
			},
			Lunch: &model.GeneratedMeal{
				Name: "Salade",
				Ingredients: []model.DetailedIngredient{
					{Name: "Thon", Quantity: "100g", Calories: 130, Protein: 25},
				},
				Totals: model.NutrientTotals{Calories: 5000},
			},
		},
	}

	sanitized := SanitizeMenu(menu)

	assert.Equal(t, 310.0, sanitized.Meals.Breakfast.Totals.Calories.Float64())
	assert.Equal(t, 130.0, sanitized.Meals.Lunch.Totals.Calories.Float64())
	assert.Equal(t, 440.0, sanitized.DailyTotals.Calories.Float64())
	assert.Equal(t, 40.0, sanitized.DailyTotals.Protein.Float64())

	// Absent slots stay absent
	assert.Nil(t, sanitized.Meals.Dinner)
	assert.Nil(t, sanitized.Meals.Snack)

	// The input is untouched
	assert.Equal(t, 9999.0, menu.DailyTotals.Calories.Float64())
	assert.Equal(t, 1.0, menu.Meals.Breakfast.Totals.Calories.Float64())
}

func TestSanitizeMenu_AllSlotsAbsent(t *testing.T) {
	sanitized := SanitizeMenu(model.FullDayMenu{
		DailyTotals: model.NutrientTotals{Calories: 123},
	})

	assert.Equal(t, model.NutrientTotals{}, sanitized.DailyTotals)
}

func TestBalance(t *testing.T) {
	day := model.DayRecord{
		Meals: []model.MealLog{
			{Analysis: model.MealAnalysis{Totals: model.NutrientTotals{Calories: 450}}},
			{Analysis: model.MealAnalysis{Totals: model.NutrientTotals{Calories: 600}}},
		},
		Workouts: []model.WorkoutLog{
			{Name: "Course", CaloriesBurned: 300},
		},
	}

	balance := Balance(day)

	assert.Equal(t, 1050.0, balance.CaloriesIn)
	assert.Equal(t, 300.0, balance.CaloriesOut)
	assert.Equal(t, 750.0, balance.Net)
}

func TestBalance_EmptyDay(t *testing.T) {
	assert.Equal(t, model.DailyBalance{}, Balance(model.DayRecord{}))
}
