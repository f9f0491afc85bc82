package model

// Deep-copy helpers backing the snapshot discipline: every mutation of the
// profile document operates on a clone, so readers of the previous snapshot
// stay valid.

// Clone returns a deep copy of the analysis
func (a MealAnalysis) Clone() MealAnalysis {
	out := a
	out.Items = append([]FoodItem(nil), a.Items...)
	return out
}

// Clone returns a deep copy of the meal log entry
func (l MealLog) Clone() MealLog {
	out := l
	out.Analysis = l.Analysis.Clone()
	return out
}

// Clone returns a deep copy of the day record
func (d DayRecord) Clone() DayRecord {
	out := DayRecord{
		Meals:    make([]MealLog, 0, len(d.Meals)),
		Workouts: append([]WorkoutLog(nil), d.Workouts...),
	}
	for _, m := range d.Meals {
		out.Meals = append(out.Meals, m.Clone())
	}
	return out
}

// Clone returns a deep copy of the generated meal, or nil for nil
func (g *GeneratedMeal) Clone() *GeneratedMeal {
	if g == nil {
		return nil
	}
	out := *g
	out.Ingredients = append([]DetailedIngredient(nil), g.Ingredients...)
	return &out
}

// Clone returns a deep copy of the menu
func (m FullDayMenu) Clone() FullDayMenu {
	return FullDayMenu{
		DailyTotals: m.DailyTotals,
		Meals: MenuMeals{
			Breakfast: m.Meals.Breakfast.Clone(),
			Lunch:     m.Meals.Lunch.Clone(),
			Dinner:    m.Meals.Dinner.Clone(),
			Snack:     m.Meals.Snack.Clone(),
		},
	}
}

// Clone returns a deep copy of the recipe
func (r Recipe) Clone() Recipe {
	out := r
	out.Instructions = append([]string(nil), r.Instructions...)
	out.Analysis = r.Analysis.Clone()
	return out
}

// Clone returns a deep copy of the whole profile document
func (p *UserProfile) Clone() *UserProfile {
	out := *p
	if p.WeightGoalKg != nil {
		goal := *p.WeightGoalKg
		out.WeightGoalKg = &goal
	}
	if p.Age != nil {
		age := *p.Age
		out.Age = &age
	}
	out.CustomProducts = append([]CustomProduct(nil), p.CustomProducts...)
	out.ProductsInStock = append([]string(nil), p.ProductsInStock...)
	out.WeightHistory = append([]ProgressPoint(nil), p.WeightHistory...)
	out.WaistHistory = append([]ProgressPoint(nil), p.WaistHistory...)
	out.DailyLog = make(map[string]DayRecord, len(p.DailyLog))
	for key, day := range p.DailyLog {
		out.DailyLog[key] = day.Clone()
	}
	out.Normalize()
	return &out
}
