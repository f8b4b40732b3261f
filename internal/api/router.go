package api

import (
	"net/http"

	"trip-planner-service/internal/api/handlers"
	"trip-planner-service/internal/services"
)

// Deps are the services exposed over HTTP.
type Deps struct {
	Store   *services.PlannerStore
	Search  *services.SearchOrchestrator
	Weather *services.WeatherService
	Export  *services.ExportService
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	searchHandler := &handlers.SearchHandler{Store: d.Store, Search: d.Search}
	favHandler := &handlers.FavoritesHandler{Store: d.Store}
	tripHandler := &handlers.TripHandler{Store: d.Store}
	planHandler := &handlers.PlanHandler{Store: d.Store}
	weatherHandler := &handlers.WeatherHandler{Weather: d.Weather}
	exportHandler := &handlers.ExportHandler{Export: d.Export}

	mux.HandleFunc("/health", handlers.Health)

	mux.HandleFunc("/search", searchHandler.Run)
	mux.HandleFunc("/results", searchHandler.Results)
	mux.HandleFunc("/favorites", favHandler.Favorites)

	mux.HandleFunc("/dates", tripHandler.Dates)
	mux.HandleFunc("/destination", tripHandler.Destination)
	mux.HandleFunc("/signout", tripHandler.SignOut)

	mux.HandleFunc("/plan", planHandler.Get)
	mux.HandleFunc("/plan/distribute", planHandler.Distribute)
	mux.HandleFunc("/plan/stops", planHandler.Stops)
	mux.HandleFunc("/plan/reorder", planHandler.Reorder)
	mux.HandleFunc("/plan/focus", planHandler.Focus)
	mux.HandleFunc("/plan/routes", planHandler.Routes)

	mux.HandleFunc("/weather", weatherHandler.Get)
	mux.HandleFunc("/export", exportHandler.Download)

	return requestIDMiddleware(loggingMiddleware(mux))
}
