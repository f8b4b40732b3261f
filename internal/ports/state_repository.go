package ports

import "context"

// Persisted state keys.
const (
	StateFavorites   = "favorites"
	StatePlanning    = "planning"
	StateTravelDates = "travelDates"
	StateDestination = "destination"
)

// Port: key -> JSON value storage for planner state.
type StateRepository interface {
	// Return the stored value for key. ok is false when the key is absent.
	Load(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Replace the value stored under key.
	Save(ctx context.Context, key string, value []byte) error
	// Remove every stored key.
	Clear(ctx context.Context) error
}
