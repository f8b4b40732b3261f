package domain

import "errors"

var (
	// ErrInvalidDateRange is returned for missing or inverted date ranges.
	ErrInvalidDateRange = errors.New("invalid date range")
	// ErrNoDateRange is returned when an operation needs travel dates that were never set.
	ErrNoDateRange = errors.New("travel dates not set")
	// ErrEmptyQuery is returned for blank search text.
	ErrEmptyQuery = errors.New("search text is required")
)

// ErrUnknownFavorite is returned when a stop references a favorite that does not exist.
var ErrUnknownFavorite = errors.New("unknown favorite")
