package services

import (
	"context"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

// RouteSummarizer derives a day's legs from its stop order.
type RouteSummarizer struct {
	Router ports.Router
}

func NewRouteSummarizer(router ports.Router) *RouteSummarizer {
	return &RouteSummarizer{Router: router}
}

// ComputeDayRoutes routes between consecutive geolocated stops of a day.
//
// Stops without coordinates are excluded from the routing subsequence, so for
// [A, B(no geo), C, D] the legs are A->C and C->D. Legs are computed one at a
// time in stop order. A failed leg is logged and omitted; it never blocks the rest.
//
// It returns the legs and a copy of stops where each leg's destination carries
// that leg's duration and distance, and every other stop has no annotation.
func (s *RouteSummarizer) ComputeDayRoutes(
	ctx context.Context,
	date string,
	stops []domain.CandidateResult,
) ([]domain.RouteLeg, []domain.CandidateResult) {
	annotated := make([]domain.CandidateResult, len(stops))
	copy(annotated, stops)
	for i := range annotated {
		annotated[i].ClearTravel()
	}

	geo := make([]int, 0, len(annotated))
	for i, st := range annotated {
		if st.HasCoordinates() {
			geo = append(geo, i)
		}
	}

	legs := make([]domain.RouteLeg, 0, len(geo))
	if len(geo) < 2 || s.Router == nil {
		return legs, annotated
	}

	log := obs.Logger(ctx)
	for k := 1; k < len(geo); k++ {
		from := &annotated[geo[k-1]]
		to := &annotated[geo[k]]

		r, err := s.Router.Route(ctx, *from.Coordinates, *to.Coordinates)
		if err != nil {
			log.Warn().
				Err(err).
				Str("date", date).
				Str("from", from.ID).
				Str("to", to.ID).
				Msg("route leg failed; omitting")
			continue
		}

		duration := r.DurationSeconds
		distance := r.DistanceMeters
		to.TravelTimeFromPrevious = &duration
		to.TravelDistanceFromPrevious = &distance

		legs = append(legs, domain.RouteLeg{
			FromID:          from.ID,
			ToID:            to.ID,
			DistanceMeters:  distance,
			DurationSeconds: duration,
			Points:          r.Points,
		})
	}

	return legs, annotated
}

// SummarizeDay sums the legs currently recorded for date.
func SummarizeDay(routes domain.DayRoutes, date string) domain.DaySummary {
	sum := domain.DaySummary{Date: date}
	for _, leg := range routes[date] {
		sum.Legs++
		sum.TotalDurationSeconds += leg.DurationSeconds
		sum.TotalDistanceMeters += leg.DistanceMeters
	}
	return sum
}
