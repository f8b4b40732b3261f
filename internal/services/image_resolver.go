package services

import (
	"context"
	"strings"
	"time"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

var DefaultImagePools = domain.DefaultImagePools

const genericImage = domain.GenericImage

// ImageResolver picks a display image through ordered tiers: the provider URL
// (if it answers with an image), an external image search, then a static pool.
// Each network tier gets its own Timeout.
type ImageResolver struct {
	Prober   ports.ImageProber
	Searcher ports.ImageSearcher
	Timeout  time.Duration
	Pools    map[domain.Category][]string
}

func NewImageResolver(prober ports.ImageProber, searcher ports.ImageSearcher, timeout time.Duration) *ImageResolver {
	return &ImageResolver{Prober: prober, Searcher: searcher, Timeout: timeout, Pools: DefaultImagePools}
}

// Resolve never returns an empty string.
func (r *ImageResolver) Resolve(ctx context.Context, name string, category domain.Category, providerURL string) string {
	log := obs.Logger(ctx)

	if u := strings.TrimSpace(providerURL); u != "" && r.Prober != nil {
		err := r.withTimeout(ctx, func(tctx context.Context) error { return r.Prober.Probe(tctx, u) })
		if err == nil {
			return u
		}
		log.Debug().Err(err).Str("name", name).Msg("provider image rejected")
	}

	if q := strings.TrimSpace(name); q != "" && r.Searcher != nil {
		var found string
		err := r.withTimeout(ctx, func(tctx context.Context) error {
			u, ok, err := r.Searcher.SearchImage(tctx, q)
			if ok {
				found = u
			}
			return err
		})
		if err != nil {
			log.Warn().Err(err).Str("name", name).Msg("image search failed")
		} else if found != "" {
			return found
		}
	}

	return r.fallback(name, category)
}

func (r *ImageResolver) withTimeout(ctx context.Context, fn func(context.Context) error) error {
	if r.Timeout <= 0 {
		return fn(ctx)
	}
	tctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()
	return fn(tctx)
}

// fallback picks from the category pool by a hash of the name, so the same
// result keeps the same image across searches.
func (r *ImageResolver) fallback(name string, category domain.Category) string {
	return domain.PoolImage(r.Pools, name, category)
}
