package domain

import (
	"fmt"
	"strings"
)

// DailyForecast is one day of a forecast.
type DailyForecast struct {
	Date        string           `json:"date" yaml:"date"`
	WeatherCode int              `json:"weather_code" yaml:"weather_code"`
	TempMax     float64          `json:"temp_max" yaml:"temp_max"`
	TempMin     float64          `json:"temp_min" yaml:"temp_min"`
	Condition   WeatherCondition `json:"condition" yaml:"condition"`
}

// WeatherSnapshot is the latest forecast plus derived advice.
type WeatherSnapshot struct {
	Location  string          `json:"location" yaml:"location"`
	FetchedAt string          `json:"fetched_at" yaml:"fetched_at"`
	Days      []DailyForecast `json:"days" yaml:"days"`
	Advice    []string        `json:"advice" yaml:"advice"`
}

// WeatherCondition is a display label and icon for a WMO weather code.
type WeatherCondition struct {
	Label string `json:"label" yaml:"label"`
	Icon  string `json:"icon" yaml:"icon"`
}

var weatherCodes = map[int]WeatherCondition{
	0:  {"Clear sky", "☀️"},
	1:  {"Mainly clear", "🌤️"},
	2:  {"Partly cloudy", "⛅"},
	3:  {"Overcast", "☁️"},
	45: {"Fog", "🌫️"},
	48: {"Depositing rime fog", "🌫️"},
	51: {"Light drizzle", "🌦️"},
	53: {"Moderate drizzle", "🌦️"},
	55: {"Dense drizzle", "🌧️"},
	56: {"Light freezing drizzle", "🌧️"},
	57: {"Dense freezing drizzle", "🌧️"},
	61: {"Slight rain", "🌦️"},
	63: {"Moderate rain", "🌧️"},
	65: {"Heavy rain", "🌧️"},
	66: {"Light freezing rain", "🌧️"},
	67: {"Heavy freezing rain", "🌧️"},
	71: {"Slight snow fall", "🌨️"},
	73: {"Moderate snow fall", "🌨️"},
	75: {"Heavy snow fall", "❄️"},
	77: {"Snow grains", "🌨️"},
	80: {"Slight rain showers", "🌦️"},
	81: {"Moderate rain showers", "🌧️"},
	82: {"Violent rain showers", "⛈️"},
	85: {"Slight snow showers", "🌨️"},
	86: {"Heavy snow showers", "❄️"},
	95: {"Thunderstorm", "⛈️"},
	96: {"Thunderstorm with slight hail", "⛈️"},
	99: {"Thunderstorm with heavy hail", "⛈️"},
}

// ConditionFor maps a WMO weather code to its condition. Unknown codes map to
// a generic label rather than failing.
func ConditionFor(code int) WeatherCondition {
	if c, ok := weatherCodes[code]; ok {
		return c
	}
	return WeatherCondition{Label: fmt.Sprintf("Unknown (%d)", code), Icon: "❔"}
}

// ClothingAdvice derives packing recommendations from temperature bands and
// condition keywords across the whole forecast.
func ClothingAdvice(days []DailyForecast) []string {
	if len(days) == 0 {
		return nil
	}

	minT, maxT := days[0].TempMin, days[0].TempMax
	var labels []string
	for _, d := range days {
		if d.TempMin < minT {
			minT = d.TempMin
		}
		if d.TempMax > maxT {
			maxT = d.TempMax
		}
		labels = append(labels, strings.ToLower(ConditionFor(d.WeatherCode).Label))
	}
	conditions := strings.Join(labels, " ")

	var advice []string
	switch {
	case minT < 5:
		advice = append(advice, "Heavy coat, gloves and a warm hat")
	case minT < 12:
		advice = append(advice, "Warm jacket and a sweater")
	case minT < 20:
		advice = append(advice, "Light jacket or sweater for the evenings")
	}
	switch {
	case maxT >= 28:
		advice = append(advice, "Breathable clothing, shorts and a hat")
	case maxT >= 20:
		advice = append(advice, "T-shirts and light trousers")
	}

	if strings.Contains(conditions, "rain") || strings.Contains(conditions, "drizzle") || strings.Contains(conditions, "showers") {
		advice = append(advice, "Umbrella and a waterproof layer")
	}
	if strings.Contains(conditions, "snow") {
		advice = append(advice, "Waterproof boots")
	}
	if strings.Contains(conditions, "thunderstorm") {
		advice = append(advice, "Plan indoor alternatives for stormy days")
	}
	if strings.Contains(conditions, "clear") && maxT >= 24 {
		advice = append(advice, "Sunglasses and sunscreen")
	}

	return advice
}
