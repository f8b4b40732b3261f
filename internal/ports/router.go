package ports

import (
	"context"

	"trip-planner-service/internal/domain"
)

// RouteResult is the travel distance, duration, and path geometry between two points.
type RouteResult struct {
	DistanceMeters  int
	DurationSeconds int
	Points          []domain.Coordinates
}

// Contract for retrieving a route between two coordinates along a travel profile.
type Router interface {
	// Return the route from start to end. An error means no usable route.
	Route(ctx context.Context, start, end domain.Coordinates) (RouteResult, error)
}

// Optional persistent cache in front of a Router.
type RouteCache interface {
	Get(ctx context.Context, profile string, start, end domain.Coordinates) (RouteResult, bool, error)
	Put(ctx context.Context, profile string, start, end domain.Coordinates, r RouteResult) error
}
