package ports

import (
	"context"

	"trip-planner-service/internal/domain"
)

// Contract for resolving free text to coordinates.
type Geocoder interface {
	// Return the best match for text. ok is false when nothing matched.
	Geocode(ctx context.Context, text string) (c domain.Coordinates, ok bool, err error)
}

// Persistent address -> coordinates cache.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
