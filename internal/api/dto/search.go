package dto

import "trip-planner-service/internal/domain"

type SearchRequest struct {
	Query       string `json:"query"`
	Destination string `json:"destination"`
}

type SearchResponse struct {
	Results map[domain.Category][]domain.CandidateResult `json:"results"`
	// Stale is true when a newer search finished first and these results were not applied.
	Stale bool `json:"stale,omitempty"`
}

type FavoriteRequest struct {
	Category string `json:"category"`
	ID       string `json:"id"`
}

type FavoritesResponse struct {
	Favorites domain.Favorites `json:"favorites"`
	Notice    *domain.Notice   `json:"notice,omitempty"`
}

type DestinationRequest struct {
	Destination string `json:"destination"`
}
