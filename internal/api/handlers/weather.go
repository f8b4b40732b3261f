package handlers

import (
	"net/http"

	"trip-planner-service/internal/services"
)

type WeatherHandler struct {
	Weather *services.WeatherService
}

func (h *WeatherHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}

	snap := h.Weather.Snapshot()
	if snap == nil {
		writeError(w, r, http.StatusNotFound, "no forecast available yet")
		return
	}
	writeJSON(w, r, http.StatusOK, snap)
}
