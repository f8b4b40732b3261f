package handlers

import (
	"errors"
	"net/http"
	"strings"

	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/services"
)

type SearchHandler struct {
	Store  *services.PlannerStore
	Search *services.SearchOrchestrator
}

// Run starts a new search and replaces the current results, unless a newer
// search already landed.
func (h *SearchHandler) Run(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	var req dto.SearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	destination := strings.TrimSpace(req.Destination)
	if destination != "" {
		h.Store.SetDestination(ctx, destination)
	} else {
		destination = h.Store.Destination()
	}

	gen := h.Store.NextSearchGeneration()
	results, err := h.Search.Search(ctx, req.Query, destination)
	if errors.Is(err, domain.ErrEmptyQuery) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		internalError(w, r, "search failed", err)
		return
	}

	applied := h.Store.ApplySearchResults(gen, results)
	writeJSON(w, r, http.StatusOK, dto.SearchResponse{Results: results, Stale: !applied})
}

func (h *SearchHandler) Results(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, r, http.StatusOK, dto.SearchResponse{Results: h.Store.Results()})
}
