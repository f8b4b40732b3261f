package routing

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"trip-planner-service/internal/ports"
)

// ORSClient implements Geocoder and Router using OpenRouteService.
//
// It coordinates:
//   - Query normalization
//   - Persistent geocode caching
//   - Directions lookups with retry/backoff
//
// The client is safe for concurrent use.
type ORSClient struct {
	session      *http.Client
	apiKey       string
	baseURL      string
	profile      string
	backoff      time.Duration
	geocodeCache ports.GeocodeCache
}

type ORSOption func(*ORSClient)

// WithBaseURL points the client at another ORS deployment (or a test server).
func WithBaseURL(u string) ORSOption {
	return func(o *ORSClient) { o.baseURL = strings.TrimRight(u, "/") }
}

// WithProfile selects the travel profile (driving-car, foot-walking, ...).
func WithProfile(p string) ORSOption {
	return func(o *ORSClient) {
		if p != "" {
			o.profile = p
		}
	}
}

func WithGeocodeCache(c ports.GeocodeCache) ORSOption {
	return func(o *ORSClient) { o.geocodeCache = c }
}

func WithHTTPClient(c *http.Client) ORSOption {
	return func(o *ORSClient) { o.session = c }
}

func withBackoff(d time.Duration) ORSOption {
	return func(o *ORSClient) { o.backoff = d }
}

func NewORSClient(apiKey string, opts ...ORSOption) (*ORSClient, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	client := &ORSClient{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		profile: "driving-car",
		backoff: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Profile reports the travel profile used for directions.
func (o *ORSClient) Profile() string { return o.profile }

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
