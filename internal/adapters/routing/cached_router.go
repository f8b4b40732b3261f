package routing

import (
	"context"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

// CachedRouter consults a RouteCache before delegating to the next Router.
// Cache failures are logged and treated as misses.
type CachedRouter struct {
	Next    ports.Router
	Cache   ports.RouteCache
	Profile string
}

func NewCachedRouter(next ports.Router, cache ports.RouteCache, profile string) *CachedRouter {
	return &CachedRouter{Next: next, Cache: cache, Profile: profile}
}

func (c *CachedRouter) Route(ctx context.Context, start, end domain.Coordinates) (ports.RouteResult, error) {
	if c.Cache != nil {
		r, ok, err := c.Cache.Get(ctx, c.Profile, start, end)
		if err != nil {
			obs.Logger(ctx).Warn().Err(err).Msg("route cache read failed")
		} else if ok {
			return r, nil
		}
	}

	r, err := c.Next.Route(ctx, start, end)
	if err != nil {
		return ports.RouteResult{}, err
	}

	if c.Cache != nil {
		if err := c.Cache.Put(ctx, c.Profile, start, end, r); err != nil {
			obs.Logger(ctx).Warn().Err(err).Msg("route cache write failed")
		}
	}
	return r, nil
}
