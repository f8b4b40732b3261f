package routing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memGeocodeCache struct {
	mu sync.Mutex
	m  map[string]domain.Coordinates
}

func (c *memGeocodeCache) GetMany(_ context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]domain.Coordinates{}
	for _, a := range addresses {
		if v, ok := c.m[a]; ok {
			out[a] = v
		}
	}
	return out, nil
}

func (c *memGeocodeCache) PutMany(_ context.Context, results map[string]domain.Coordinates) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range results {
		c.m[k] = v
	}
	return nil
}

func newTestClient(t *testing.T, h http.Handler, opts ...ORSOption) *ORSClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	opts = append([]ORSOption{WithBaseURL(srv.URL), withBackoff(time.Millisecond)}, opts...)
	c, err := NewORSClient("test-key", opts...)
	require.NoError(t, err)
	return c
}

func TestNewORSClientRequiresKey(t *testing.T) {
	_, err := NewORSClient("")
	assert.Error(t, err)
}

func TestGeocodeUsesCache(t *testing.T) {
	var hits int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/geocode/search", r.URL.Path)
		assert.Equal(t, "Eiffel Tower Paris", r.URL.Query().Get("text"))
		assert.Equal(t, "test-key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"features":[{"geometry":{"coordinates":[2.2945,48.8584]}}]}`))
	})

	cache := &memGeocodeCache{m: map[string]domain.Coordinates{}}
	c := newTestClient(t, h, WithGeocodeCache(cache))

	got, ok, err := c.Geocode(context.Background(), "  Eiffel   Tower Paris ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.Coordinates{Lat: 48.8584, Lng: 2.2945}, got)

	again, ok, err := c.Geocode(context.Background(), "Eiffel Tower Paris")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, got, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "second lookup must be served from cache")
}

func TestGeocodeNoMatch(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"features":[]}`))
	})
	c := newTestClient(t, h)

	_, ok, err := c.Geocode(context.Background(), "nowhere at all")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRouteParsesSummaryAndGeometry(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/directions/foot-walking/geojson", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body directionsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, [][]float64{{2.0, 48.0}, {2.1, 48.1}}, body.Coordinates)

		_, _ = w.Write([]byte(`{"features":[{
			"geometry":{"coordinates":[[2.0,48.0],[2.05,48.05],[2.1,48.1]]},
			"properties":{"summary":{"distance":1234.6,"duration":300.4}}}]}`))
	})
	c := newTestClient(t, h, WithProfile("foot-walking"))

	r, err := c.Route(context.Background(), domain.Coordinates{Lat: 48.0, Lng: 2.0}, domain.Coordinates{Lat: 48.1, Lng: 2.1})
	require.NoError(t, err)
	assert.Equal(t, 1235, r.DistanceMeters)
	assert.Equal(t, 300, r.DurationSeconds)
	assert.Len(t, r.Points, 3)
	assert.Equal(t, domain.Coordinates{Lat: 48.05, Lng: 2.05}, r.Points[1])
}

func TestRouteRetriesTransientFailures(t *testing.T) {
	var attempts int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"features":[{"geometry":{"coordinates":[]},"properties":{"summary":{"distance":10,"duration":2}}}]}`))
	})
	c := newTestClient(t, h)

	r, err := c.Route(context.Background(), domain.Coordinates{}, domain.Coordinates{Lat: 1})
	require.NoError(t, err)
	assert.Equal(t, 10, r.DistanceMeters)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestRouteDoesNotRetryClientErrors(t *testing.T) {
	var attempts int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		http.Error(w, "bad coordinates", http.StatusBadRequest)
	})
	c := newTestClient(t, h)

	_, err := c.Route(context.Background(), domain.Coordinates{}, domain.Coordinates{Lat: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Code 400")
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestRouteNoFeatures(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"features":[]}`))
	})
	c := newTestClient(t, h)

	_, err := c.Route(context.Background(), domain.Coordinates{}, domain.Coordinates{Lat: 1})
	assert.ErrorIs(t, err, errNoRoute)
}

func TestStraightLineRouter(t *testing.T) {
	paris := domain.Coordinates{Lat: 48.8566, Lng: 2.3522}
	london := domain.Coordinates{Lat: 51.5074, Lng: -0.1278}

	straight := HaversineMeters(paris, london)
	assert.InDelta(t, 343_500, straight, 2_000)

	r, err := NewStraightLineRouter().Route(context.Background(), paris, london)
	require.NoError(t, err)
	assert.InDelta(t, straight*1.3, float64(r.DistanceMeters), 1)
	assert.Greater(t, r.DurationSeconds, 0)
	assert.Equal(t, []domain.Coordinates{paris, london}, r.Points)
}

type memRouteCache struct {
	m map[string]ports.RouteResult
}

func (c *memRouteCache) Get(_ context.Context, profile string, a, b domain.Coordinates) (ports.RouteResult, bool, error) {
	r, ok := c.m[profile+pairKey(a, b)]
	return r, ok, nil
}

func (c *memRouteCache) Put(_ context.Context, profile string, a, b domain.Coordinates, r ports.RouteResult) error {
	c.m[profile+pairKey(a, b)] = r
	return nil
}

func TestCachedRouter(t *testing.T) {
	a := domain.Coordinates{Lat: 1, Lng: 1}
	b := domain.Coordinates{Lat: 2, Lng: 2}
	mock := NewMockRouter([]MockPair{{From: a, To: b, Meters: 100, Seconds: 10}})
	cached := NewCachedRouter(mock, &memRouteCache{m: map[string]ports.RouteResult{}}, "driving-car")

	for i := 0; i < 3; i++ {
		r, err := cached.Route(context.Background(), a, b)
		require.NoError(t, err)
		assert.Equal(t, 100, r.DistanceMeters)
	}
	assert.Len(t, mock.Calls(), 1)

	_, err := cached.Route(context.Background(), b, a)
	assert.Error(t, err)
}
