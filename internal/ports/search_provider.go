package ports

import (
	"context"
	"encoding/json"
)

// SearchKind names one of the external search endpoints.
type SearchKind string

const (
	SearchFlights    SearchKind = "flight"
	SearchHotels     SearchKind = "hotel"
	SearchActivities SearchKind = "activity"
)

// Contract for querying one travel-inventory endpoint with free text.
type SearchProvider interface {
	// Return the provider-shaped records for kind.
	Search(ctx context.Context, kind SearchKind, query string) ([]json.RawMessage, error)
}

// Contract for finding a representative image for a place name.
type ImageSearcher interface {
	SearchImage(ctx context.Context, query string) (url string, ok bool, err error)
}

// Contract for checking that a provider-supplied image URL is reachable.
type ImageProber interface {
	Probe(ctx context.Context, url string) error
}
