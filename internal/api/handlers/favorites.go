package handlers

import (
	"net/http"

	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/services"
)

type FavoritesHandler struct {
	Store *services.PlannerStore
}

// Favorites lists (GET), promotes a current search result (POST) or removes
// a favorite (DELETE ?category=&id=).
func (h *FavoritesHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost, http.MethodDelete) {
		return
	}

	switch r.Method {
	case http.MethodPost:
		h.add(w, r)
	case http.MethodDelete:
		h.remove(w, r)
	default:
		writeJSON(w, r, http.StatusOK, dto.FavoritesResponse{Favorites: h.Store.Favorites()})
	}
}

func (h *FavoritesHandler) add(w http.ResponseWriter, r *http.Request) {
	var req dto.FavoriteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := domain.ParseCategory(req.Category)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.ID == "" {
		writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}

	item, ok := h.Store.FindResult(c, req.ID)
	if !ok {
		writeError(w, r, http.StatusNotFound, "no such search result")
		return
	}

	notice := h.Store.AddFavorite(r.Context(), item)
	writeJSON(w, r, http.StatusOK, dto.FavoritesResponse{Favorites: h.Store.Favorites(), Notice: notice})
}

func (h *FavoritesHandler) remove(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, err := domain.ParseCategory(q.Get("category"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	id := q.Get("id")
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}

	notice := h.Store.RemoveFavorite(r.Context(), c, id)
	writeJSON(w, r, http.StatusOK, dto.FavoritesResponse{Favorites: h.Store.Favorites(), Notice: notice})
}
