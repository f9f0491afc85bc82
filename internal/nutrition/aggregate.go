// Package nutrition implements the ledger aggregation rules: nutrient totals
// are always derived by a full recompute from the current item list, never
// patched incrementally, so edits cannot drift the aggregates away from their
// sources.
package nutrition

import "github.com/fittrack/backend/pkg/model"

// Sum returns the element-wise sum of the nutrient values of items.
// An empty or nil slice yields all-zero totals. Negative values pass through
// unclamped; malformed collaborator numbers were already coerced to zero at
// decode time by model.Macro.
func Sum[S model.NutrientSource](items []S) model.NutrientTotals {
	var totals model.NutrientTotals
	for _, item := range items {
		totals = totals.Add(item.Nutrients())
	}
	return totals
}

// RecomputeMeal derives the analysis totals from its current item list.
// Must be called after every structural edit to Items.
func RecomputeMeal(a *model.MealAnalysis) {
	a.Totals = Sum(a.Items)
}

// RemoveItem deletes the item at index and immediately recomputes the totals.
// Out-of-range indexes are ignored. The meal stays present even when its item
// list becomes empty; dropping the meal itself is the caller's decision.
func RemoveItem(a *model.MealAnalysis, index int) {
	if index < 0 || index >= len(a.Items) {
		return
	}
	a.Items = append(a.Items[:index:index], a.Items[index+1:]...)
	RecomputeMeal(a)
}

// RecomputeGenerated derives a generated meal's totals from its ingredients
func RecomputeGenerated(m *model.GeneratedMeal) {
	m.Totals = Sum(m.Ingredients)
}

// RecomputeMenu recomputes a day menu bottom-up: every present meal slot
// first, then the daily totals from the now-correct per-meal totals. The
// two-pass order is required so daily totals are never computed from a stale
// per-meal total.
func RecomputeMenu(menu *model.FullDayMenu) {
	present := menu.Meals.Present()
	for _, meal := range present {
		RecomputeGenerated(meal)
	}

	var daily model.NutrientTotals
	for _, meal := range present {
		daily = daily.Add(meal.Totals)
	}
	menu.DailyTotals = daily
}

// SanitizeMenu returns a copy of a menu received from the generation
// collaborator with all aggregation invariants restored. The collaborator is
// untrusted for arithmetic consistency: its stated totals may not match its
// own ingredient lists.
func SanitizeMenu(menu model.FullDayMenu) model.FullDayMenu {
	out := menu.Clone()
	RecomputeMenu(&out)
	return out
}

// Balance derives the calorie balance of one day record. A day with no
// record is the zero balance.
func Balance(day model.DayRecord) model.DailyBalance {
	var in, out float64
	for _, meal := range day.Meals {
		in += meal.Analysis.Totals.Calories.Float64()
	}
	for _, workout := range day.Workouts {
		out += workout.CaloriesBurned
	}
	return model.DailyBalance{CaloriesIn: in, CaloriesOut: out, Net: in - out}
}
