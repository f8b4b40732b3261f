package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

// RedisRouteCache stores directions results in Redis with a TTL.
type RedisRouteCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{Client: client, TTL: ttl}
}

type cachedRoute struct {
	DistanceMeters  int                  `json:"distance_meters"`
	DurationSeconds int                  `json:"duration_seconds"`
	Points          []domain.Coordinates `json:"points"`
}

func routeKey(profile string, start, end domain.Coordinates) string {
	return fmt.Sprintf("route:%s:%s:%s", profile, start, end)
}

func (c *RedisRouteCache) Get(
	ctx context.Context,
	profile string,
	start, end domain.Coordinates,
) (_ ports.RouteResult, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if c.Client == nil {
		return ports.RouteResult{}, false, errors.New("route cache: client is nil")
	}

	b, err := c.Client.Get(ctx, routeKey(profile, start, end)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ports.RouteResult{}, false, nil
	}
	if err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: %w", err)
	}

	var cr cachedRoute
	if err := json.Unmarshal(b, &cr); err != nil {
		return ports.RouteResult{}, false, fmt.Errorf("get route cache: decode: %w", err)
	}

	return ports.RouteResult{
		DistanceMeters:  cr.DistanceMeters,
		DurationSeconds: cr.DurationSeconds,
		Points:          cr.Points,
	}, true, nil
}

func (c *RedisRouteCache) Put(
	ctx context.Context,
	profile string,
	start, end domain.Coordinates,
	r ports.RouteResult,
) error {
	if c.Client == nil {
		return errors.New("route cache: client is nil")
	}

	b, err := json.Marshal(cachedRoute{
		DistanceMeters:  r.DistanceMeters,
		DurationSeconds: r.DurationSeconds,
		Points:          r.Points,
	})
	if err != nil {
		return fmt.Errorf("put route cache: encode: %w", err)
	}

	if err := c.Client.Set(ctx, routeKey(profile, start, end), b, c.TTL).Err(); err != nil {
		return fmt.Errorf("put route cache: %w", err)
	}
	return nil
}
