package services

import (
	"context"
	"errors"
	"fmt"

	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

// ErrExportFailed wraps any document-generation failure.
var ErrExportFailed = errors.New("export failed")

// ExportService turns the current planning state into a downloadable document.
type ExportService struct {
	Store    *PlannerStore
	Weather  *WeatherService
	Exporter ports.SummaryExporter
}

func NewExportService(store *PlannerStore, weather *WeatherService, exporter ports.SummaryExporter) *ExportService {
	return &ExportService{Store: store, Weather: weather, Exporter: exporter}
}

// Export is attempted once; a failure is logged and nothing is produced.
func (e *ExportService) Export(ctx context.Context) (ports.Document, error) {
	bundle := e.Store.Snapshot()
	if e.Weather != nil {
		bundle.Weather = e.Weather.Snapshot()
	}

	doc, err := e.Exporter.Export(ctx, bundle)
	if err != nil {
		obs.Logger(ctx).Error().Err(err).Msg("itinerary export failed")
		return ports.Document{}, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return doc, nil
}
