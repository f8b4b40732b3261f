package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance *float64 `json:"distance"`
				Duration *float64 `json:"duration"`
			} `json:"summary"`
		} `json:"properties"`
	} `json:"features"`
}

var errNoRoute = errors.New("no route found")

// Route retrieves distance, duration and path geometry between two points
// using the OpenRouteService directions endpoint (GeoJSON flavour).
func (o *ORSClient) Route(ctx context.Context, start, end domain.Coordinates) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, "ors.Route")(&err)

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, o.profile)

	payload, err := json.Marshal(directionsRequest{
		Coordinates: [][]float64{start.CoordsToList(), end.CoordsToList()},
	})
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var dr directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return ports.RouteResult{}, fmt.Errorf("decode directions response: %w", err)
	}

	if len(dr.Features) == 0 {
		return ports.RouteResult{}, errNoRoute
	}

	f := dr.Features[0]
	summary := f.Properties.Summary
	if summary.Distance == nil || summary.Duration == nil {
		return ports.RouteResult{}, fmt.Errorf("directions returned invalid summary for %s -> %s", start, end)
	}

	points := make([]domain.Coordinates, 0, len(f.Geometry.Coordinates))
	for _, p := range f.Geometry.Coordinates {
		if len(p) < 2 {
			continue
		}
		points = append(points, domain.Coordinates{Lng: p[0], Lat: p[1]})
	}

	// ORS returns float metrics; round to nearest integer for domain consistency.
	return ports.RouteResult{
		DistanceMeters:  int(math.Round(*summary.Distance)),
		DurationSeconds: int(math.Round(*summary.Duration)),
		Points:          points,
	}, nil
}
