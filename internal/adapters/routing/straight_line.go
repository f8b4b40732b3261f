package routing

import (
	"context"
	"math"

	"github.com/golang/geo/s2"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

const earthRadiusMeters = 6371000.0

// StraightLineRouter estimates legs from great-circle distance when no routing
// service is configured. Duration assumes a constant average speed.
type StraightLineRouter struct {
	// SpeedKPH is the assumed average speed; defaults to 40.
	SpeedKPH float64
	// Detour scales the straight-line distance toward a road distance; defaults to 1.3.
	Detour float64
}

func NewStraightLineRouter() *StraightLineRouter {
	return &StraightLineRouter{SpeedKPH: 40, Detour: 1.3}
}

func (r *StraightLineRouter) Route(_ context.Context, start, end domain.Coordinates) (ports.RouteResult, error) {
	speed := r.SpeedKPH
	if speed <= 0 {
		speed = 40
	}
	detour := r.Detour
	if detour < 1 {
		detour = 1.3
	}

	meters := HaversineMeters(start, end) * detour
	seconds := meters / (speed * 1000 / 3600)

	return ports.RouteResult{
		DistanceMeters:  int(math.Round(meters)),
		DurationSeconds: int(math.Round(seconds)),
		Points:          []domain.Coordinates{start, end},
	}, nil
}

// HaversineMeters returns the great-circle distance between a and b.
func HaversineMeters(a, b domain.Coordinates) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lng)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lng)
	return p1.Distance(p2).Radians() * earthRadiusMeters
}
