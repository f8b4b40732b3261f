package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConditionFor(t *testing.T) {
	assert.Equal(t, "Clear sky", ConditionFor(0).Label)
	assert.Equal(t, "Thunderstorm with heavy hail", ConditionFor(99).Label)
	assert.Equal(t, "Unknown (42)", ConditionFor(42).Label)
}

func TestClothingAdvice(t *testing.T) {
	t.Run("empty forecast", func(t *testing.T) {
		assert.Nil(t, ClothingAdvice(nil))
	})

	t.Run("cold and snowy", func(t *testing.T) {
		got := ClothingAdvice([]DailyForecast{
			{Date: "2025-01-10", WeatherCode: 73, TempMax: 1, TempMin: -4},
		})
		assert.Contains(t, got, "Heavy coat, gloves and a warm hat")
		assert.Contains(t, got, "Waterproof boots")
		assert.NotContains(t, got, "Sunglasses and sunscreen")
	})

	t.Run("hot and clear with a rainy day", func(t *testing.T) {
		got := ClothingAdvice([]DailyForecast{
			{Date: "2025-07-01", WeatherCode: 0, TempMax: 31, TempMin: 21},
			{Date: "2025-07-02", WeatherCode: 63, TempMax: 26, TempMin: 20},
		})
		assert.Contains(t, got, "Breathable clothing, shorts and a hat")
		assert.Contains(t, got, "Umbrella and a waterproof layer")
		assert.Contains(t, got, "Sunglasses and sunscreen")
	})

	t.Run("storm", func(t *testing.T) {
		got := ClothingAdvice([]DailyForecast{
			{Date: "2025-07-01", WeatherCode: 95, TempMax: 22, TempMin: 15},
		})
		assert.Contains(t, got, "Plan indoor alternatives for stormy days")
		assert.Contains(t, got, "Light jacket or sweater for the evenings")
	})
}
