package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

// MaxResultsPerCategory caps how many results are kept from each provider.
const MaxResultsPerCategory = 10

const enrichConcurrency = 8

// SearchResults holds the latest search, partitioned by category.
type SearchResults map[domain.Category][]domain.CandidateResult

// SearchOrchestrator fans a query out to the three travel endpoints, waits for
// all of them, then normalizes and enriches the results.
type SearchOrchestrator struct {
	Provider ports.SearchProvider
	Geocoder ports.Geocoder
	Images   *ImageResolver
	Limit    int
	NewID    func() string
}

func NewSearchOrchestrator(provider ports.SearchProvider, geocoder ports.Geocoder, images *ImageResolver) *SearchOrchestrator {
	return &SearchOrchestrator{
		Provider: provider,
		Geocoder: geocoder,
		Images:   images,
		Limit:    MaxResultsPerCategory,
		NewID:    uuid.NewString,
	}
}

var searchKinds = []ports.SearchKind{ports.SearchFlights, ports.SearchHotels, ports.SearchActivities}

// Search runs the query. destination, when known, feeds the geocoding
// heuristic for results without an address.
//
// A failing provider yields an empty category; only a blank query is an error.
func (o *SearchOrchestrator) Search(ctx context.Context, query, destination string) (_ SearchResults, err error) {
	defer obs.Time(ctx, "search")(&err)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}

	raw := make([][]json.RawMessage, len(searchKinds))

	// Plain group: one provider failing must not cancel the others.
	var g errgroup.Group
	for i, kind := range searchKinds {
		i, kind := i, kind
		g.Go(func() error {
			recs, err := o.Provider.Search(ctx, kind, query)
			if err != nil {
				obs.Logger(ctx).Warn().Err(err).Str("kind", string(kind)).Msg("search provider failed")
				return nil
			}
			raw[i] = recs
			return nil
		})
	}
	_ = g.Wait()

	limit := o.Limit
	if limit <= 0 {
		limit = MaxResultsPerCategory
	}

	out := make(SearchResults, len(domain.Categories))
	for _, c := range domain.Categories {
		out[c] = []domain.CandidateResult{}
	}

	pending := make([]normalized, 0, len(searchKinds)*limit)
	for i, kind := range searchKinds {
		seen := map[string]struct{}{}
		kept := 0
		for _, rec := range raw[i] {
			if kept >= limit {
				break
			}
			n, err := normalizeRecord(kind, rec)
			if err != nil {
				obs.Logger(ctx).Debug().Err(err).Msg("skipping undecodable record")
				continue
			}
			if n.item.ID == "" {
				n.item.ID = o.newID()
			}
			if _, dup := seen[n.item.ID]; dup {
				n.item.ID = o.newID()
			}
			seen[n.item.ID] = struct{}{}
			if n.item.Title == "" {
				n.item.Title = "Untitled " + string(categoryFor(kind))
			}
			pending = append(pending, n)
			kept++
		}
	}

	o.enrich(ctx, pending, destination)

	for _, n := range pending {
		out[n.item.Category] = append(out[n.item.Category], n.item)
	}
	return out, nil
}

func (o *SearchOrchestrator) newID() string {
	if o.NewID != nil {
		return o.NewID()
	}
	return uuid.NewString()
}

// enrich fills coordinates and images in place. Each item is independent.
func (o *SearchOrchestrator) enrich(ctx context.Context, items []normalized, destination string) {
	var g errgroup.Group
	g.SetLimit(enrichConcurrency)

	for i := range items {
		n := &items[i]
		g.Go(func() error {
			if !n.item.HasCoordinates() && n.item.Category != domain.CategoryTransport {
				if c, ok := o.geocode(ctx, n.address, n.item.Title, destination); ok {
					n.item.Coordinates = &c
				}
			}
			if o.Images != nil {
				n.item.Image = o.Images.Resolve(ctx, n.item.Title, n.item.Category, n.imageURL)
			} else if n.imageURL != "" {
				n.item.Image = n.imageURL
			} else {
				n.item.Image = genericImage
			}
			return nil
		})
	}
	_ = g.Wait()
}

// geocode tries the address first, then "name, destination".
func (o *SearchOrchestrator) geocode(ctx context.Context, address, title, destination string) (domain.Coordinates, bool) {
	if o.Geocoder == nil {
		return domain.Coordinates{}, false
	}

	queries := make([]string, 0, 2)
	if a := strings.TrimSpace(address); a != "" {
		queries = append(queries, a)
	}
	if t := strings.TrimSpace(title); t != "" {
		if d := strings.TrimSpace(destination); d != "" {
			queries = append(queries, fmt.Sprintf("%s, %s", t, d))
		} else if len(queries) == 0 {
			queries = append(queries, t)
		}
	}

	for _, q := range queries {
		c, ok, err := o.Geocoder.Geocode(ctx, q)
		if err != nil {
			obs.Logger(ctx).Warn().Err(err).Str("query", q).Msg("geocode failed")
			continue
		}
		if ok {
			return c, true
		}
	}
	return domain.Coordinates{}, false
}
