package ports

import (
	"context"

	"trip-planner-service/internal/domain"
)

// Contract for retrieving a multi-day forecast for a location.
type WeatherProvider interface {
	Forecast(ctx context.Context, at domain.Coordinates, days int) ([]domain.DailyForecast, error)
}
