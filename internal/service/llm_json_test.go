package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fittrack/backend/pkg/model"
)

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bare json untouched",
			input:    `{"a": 1}`,
			expected: `{"a": 1}`,
		},
		{
			name:     "json fence",
			input:    "```json\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "anonymous fence",
			input:    "```\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n```json\n{\"a\": 1}\n```  \n",
			expected: `{"a": 1}`,
		},
		{
			name:     "trailing comma in object",
			input:    `{"a": 1,}`,
			expected: `{"a": 1}`,
		},
		{
			name:     "trailing comma in array",
			input:    `[1, 2,]`,
			expected: `[1, 2]`,
		},
		{
			name:     "fence and trailing comma",
			input:    "```json\n{\"items\": [1, 2,],}\n```",
			expected: `{"items": [1, 2]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanModelJSON(tt.input))
		})
	}
}

func TestDecodeModelJSON(t *testing.T) {
	t.Run("fenced analysis decodes", func(t *testing.T) {
		raw := "```json\n" + `{
			"dishName": "Omelette aux champignons",
			"reasoning": "Estimation basée sur une omelette de 3 oeufs.",
			"items": [
				{"name": "Oeufs (3)", "calories": 210, "protein": "18", "carbs": 1, "fat": 15},
				{"name": "Champignons (100g)", "calories": 22, "protein": 3, "carbs": 3, "fat": 0},
			],
			"totals": {"calories": 232, "protein": 21, "carbs": 4, "fat": 15}
		}` + "\n```"

		var analysis model.MealAnalysis
		require.True(t, decodeModelJSON(raw, &analysis))

		assert.Equal(t, "Omelette aux champignons", analysis.DishName)
		require.Len(t, analysis.Items, 2)
		assert.Equal(t, 18.0, analysis.Items[0].Protein.Float64(), "quoted numbers decode leniently")
		assert.Equal(t, 232.0, analysis.Totals.Calories.Float64())
	})

	t.Run("prose is rejected", func(t *testing.T) {
		var analysis model.MealAnalysis
		assert.False(t, decodeModelJSON("Je ne peux pas analyser ce repas.", &analysis))
	})

	t.Run("empty response is rejected", func(t *testing.T) {
		var analysis model.MealAnalysis
		assert.False(t, decodeModelJSON("", &analysis))
		assert.False(t, decodeModelJSON("   \n", &analysis))
	})

	t.Run("truncated json is rejected", func(t *testing.T) {
		var analysis model.MealAnalysis
		assert.False(t, decodeModelJSON(`{"dishName": "Sala`, &analysis))
	})

	t.Run("recipe array decodes", func(t *testing.T) {
		raw := `[{"name": "Salade", "prepTimeMinutes": 10, "instructions": ["Couper", "Mélanger"], "goalFit": "perte de poids", "analysis": {"dishName": "Salade", "items": [], "totals": {"calories": 320}}},]`

		var recipes []model.Recipe
		require.True(t, decodeModelJSON(raw, &recipes))
		require.Len(t, recipes, 1)
		assert.Equal(t, 10, recipes[0].PrepTimeMinutes)
		assert.Equal(t, 320.0, recipes[0].Analysis.Totals.Calories.Float64())
	})
}
