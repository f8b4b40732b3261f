package handlers

import (
	"errors"
	"net/http"
	"strings"

	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/services"
)

// TripHandler serves travel dates, destination and sign-out.
type TripHandler struct {
	Store *services.PlannerStore
}

func (h *TripHandler) Dates(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPut) {
		return
	}

	if r.Method == http.MethodPut {
		var req domain.DateRange
		if !decodeJSON(w, r, &req) {
			return
		}
		err := h.Store.SetDateRange(r.Context(), req)
		if errors.Is(err, domain.ErrInvalidDateRange) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			internalError(w, r, "set dates failed", err)
			return
		}
	}

	dr, ok := h.Store.DateRange()
	if !ok {
		writeError(w, r, http.StatusNotFound, domain.ErrNoDateRange.Error())
		return
	}
	writeJSON(w, r, http.StatusOK, dr)
}

func (h *TripHandler) Destination(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPut) {
		return
	}

	var req dto.DestinationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.Store.SetDestination(r.Context(), strings.TrimSpace(req.Destination))
	writeJSON(w, r, http.StatusOK, req)
}

// SignOut wipes every persisted key and the in-memory state.
func (h *TripHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	if err := h.Store.SignOut(r.Context()); err != nil {
		internalError(w, r, "sign out failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
