package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

// ForecastDays is the forecast horizon shown to the user.
const ForecastDays = 5

var errNoWeatherLocation = errors.New("no lodging coordinates or destination to forecast")

// WeatherTarget supplies the location to forecast.
type WeatherTarget interface {
	WeatherTarget() (lodging domain.CandidateResult, ok bool, destination string)
}

// WeatherService keeps the latest forecast snapshot. It reads the lodging and
// destination from its target but never touches the plan.
type WeatherService struct {
	Provider ports.WeatherProvider
	Geocoder ports.Geocoder
	Target   WeatherTarget
	Now      func() time.Time

	mu       sync.RWMutex
	snapshot *domain.WeatherSnapshot
}

func NewWeatherService(provider ports.WeatherProvider, geocoder ports.Geocoder, target WeatherTarget) *WeatherService {
	return &WeatherService{Provider: provider, Geocoder: geocoder, Target: target, Now: time.Now}
}

// Snapshot returns the latest forecast, or nil before the first success.
func (w *WeatherService) Snapshot() *domain.WeatherSnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.snapshot == nil {
		return nil
	}
	cp := *w.snapshot
	return &cp
}

// Refresh fetches a new forecast and replaces the snapshot on success.
func (w *WeatherService) Refresh(ctx context.Context) (err error) {
	defer obs.Time(ctx, "weather.Refresh")(&err)

	at, label, err := w.locate(ctx)
	if err != nil {
		return err
	}

	days, err := w.Provider.Forecast(ctx, at, ForecastDays)
	if err != nil {
		return fmt.Errorf("refresh weather: %w", err)
	}
	for i := range days {
		days[i].Condition = domain.ConditionFor(days[i].WeatherCode)
	}

	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	snap := &domain.WeatherSnapshot{
		Location:  label,
		FetchedAt: now().UTC().Format(time.RFC3339),
		Days:      days,
		Advice:    domain.ClothingAdvice(days),
	}

	w.mu.Lock()
	w.snapshot = snap
	w.mu.Unlock()
	return nil
}

// locate prefers the primary lodging's coordinates and falls back to
// geocoding the destination text.
func (w *WeatherService) locate(ctx context.Context) (domain.Coordinates, string, error) {
	if w.Target == nil {
		return domain.Coordinates{}, "", errNoWeatherLocation
	}
	lodging, ok, destination := w.Target.WeatherTarget()
	if ok && lodging.HasCoordinates() {
		return *lodging.Coordinates, lodging.Title, nil
	}

	if destination == "" || w.Geocoder == nil {
		return domain.Coordinates{}, "", errNoWeatherLocation
	}
	c, found, err := w.Geocoder.Geocode(ctx, destination)
	if err != nil {
		return domain.Coordinates{}, "", fmt.Errorf("refresh weather: geocode destination: %w", err)
	}
	if !found {
		return domain.Coordinates{}, "", fmt.Errorf("refresh weather: destination %q not found", destination)
	}
	return c, destination, nil
}

// Run refreshes immediately and then on every tick until ctx is done.
// Failures keep the previous snapshot.
func (w *WeatherService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Minute
	}

	refresh := func() {
		if err := w.Refresh(ctx); err != nil && !errors.Is(err, errNoWeatherLocation) {
			obs.Logger(ctx).Warn().Err(err).Msg("weather refresh failed")
		}
	}

	refresh()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}
