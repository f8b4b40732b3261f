package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Geocode resolves free text using OpenRouteService (/geocode/search).
// Cached hits skip the network; fresh matches are written back best-effort.
func (o *ORSClient) Geocode(ctx context.Context, text string) (_ domain.Coordinates, _ bool, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	norm := normalize(text)
	if norm == "" {
		return domain.Coordinates{}, false, errors.New("geocode: text must be non-empty")
	}

	if o.geocodeCache != nil {
		hits, err := o.geocodeCache.GetMany(ctx, []string{norm})
		if err != nil {
			obs.Logger(ctx).Warn().Err(err).Msg("geocode cache read failed")
		} else if c, ok := hits[norm]; ok {
			return c, true, nil
		}
	}

	endpoint := o.baseURL + "/geocode/search"
	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", norm)
		q.Set("size", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("geocode %q: execute request: %w", norm, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("geocode %q: decode response: %w", norm, err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, false, nil
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, false, fmt.Errorf("geocode %q: invalid coordinate format", norm)
	}

	c := domain.Coordinates{Lng: coords[0], Lat: coords[1]}

	if o.geocodeCache != nil {
		if err := o.geocodeCache.PutMany(ctx, map[string]domain.Coordinates{norm: c}); err != nil {
			obs.Logger(ctx).Warn().Err(err).Msg("geocode cache write failed")
		}
	}

	return c, true, nil
}
