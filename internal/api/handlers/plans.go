package handlers

import (
	"errors"
	"net/http"

	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/services"
)

type PlanHandler struct {
	Store *services.PlannerStore
}

func (h *PlanHandler) planResponse(notice *domain.Notice) dto.PlanResponse {
	res := dto.PlanResponse{
		Plan:    h.Store.Plan(),
		Focused: h.Store.Focused(),
		Notice:  notice,
	}
	if dr, ok := h.Store.DateRange(); ok {
		res.DateRange = &dr
	}
	return res
}

func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, r, http.StatusOK, h.planResponse(nil))
}

// Distribute rebuilds the whole plan from favorites and travel dates.
func (h *PlanHandler) Distribute(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	dist, err := h.Store.Distribute(r.Context())
	switch {
	case errors.Is(err, domain.ErrNoDateRange), errors.Is(err, domain.ErrInvalidDateRange):
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		internalError(w, r, "distribute failed", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.DistributeResponse{Plan: dist.Plan, Dropped: dist.Dropped})
}

// Stops adds (POST) or removes (DELETE) a stop on one day.
func (h *PlanHandler) Stops(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost, http.MethodDelete) {
		return
	}

	if r.Method == http.MethodDelete {
		var req dto.RemoveStopRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		c, err := domain.ParseCategory(req.Category)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if req.Date == "" || req.ID == "" {
			writeError(w, r, http.StatusBadRequest, "date and id are required")
			return
		}
		h.Store.RemoveStop(r.Context(), req.Date, c, req.ID)
		writeJSON(w, r, http.StatusOK, h.planResponse(nil))
		return
	}

	var req dto.AddStopRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := domain.ParseCategory(req.Category)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Date == "" || req.ID == "" {
		writeError(w, r, http.StatusBadRequest, "date and id are required")
		return
	}

	notice, err := h.Store.AddStop(r.Context(), req.Date, c, req.ID)
	if errors.Is(err, domain.ErrUnknownFavorite) {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		internalError(w, r, "add stop failed", err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.planResponse(notice))
}

func (h *PlanHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}

	var req dto.ReorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Date == "" || req.From == nil || req.To == nil {
		writeError(w, r, http.StatusBadRequest, "date, from and to are required")
		return
	}

	notice := h.Store.ReorderStops(r.Context(), req.Date, *req.From, *req.To)
	writeJSON(w, r, http.StatusOK, h.planResponse(notice))
}

func (h *PlanHandler) Focus(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPut) {
		return
	}

	var req dto.FocusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	notice := h.Store.Focus(r.Context(), req.Date)
	writeJSON(w, r, http.StatusOK, h.planResponse(notice))
}

// Routes returns the legs and totals last computed for ?date= (the focused
// day when omitted).
func (h *PlanHandler) Routes(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.Store.Focused()
	}
	if date == "" {
		writeError(w, r, http.StatusBadRequest, "date is required")
		return
	}
	if _, err := domain.ParseDate(date); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	legs := h.Store.Routes(date)
	if legs == nil {
		legs = []domain.RouteLeg{}
	}
	writeJSON(w, r, http.StatusOK, dto.RoutesResponse{
		Date:    date,
		Legs:    legs,
		Summary: h.Store.Summary(date),
	})
}
