package services

import (
	"context"
	"errors"
	"testing"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureExporter struct {
	got ports.SummaryBundle
	err error
}

func (c *captureExporter) Export(_ context.Context, b ports.SummaryBundle) (ports.Document, error) {
	c.got = b
	if c.err != nil {
		return ports.Document{}, c.err
	}
	return ports.Document{Filename: "trip.yaml", ContentType: "application/yaml", Body: []byte("ok")}, nil
}

func TestExportServiceBuildsBundle(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, nil)
	store.SetDestination(ctx, "Lisbon")
	require.NoError(t, store.SetDateRange(ctx, domain.DateRange{StartDate: "2025-07-01", EndDate: "2025-07-02"}))
	_, err := store.Distribute(ctx)
	require.NoError(t, err)

	lodging := domain.CandidateResult{Title: "H", Coordinates: &domain.Coordinates{Lat: 1, Lng: 1}}
	weather := NewWeatherService(&fakeWeather{}, nil, fixedTarget{lodging: lodging, ok: true})
	require.NoError(t, weather.Refresh(ctx))

	exp := &captureExporter{}
	doc, err := NewExportService(store, weather, exp).Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "trip.yaml", doc.Filename)

	assert.Equal(t, "Lisbon", exp.got.Destination)
	require.NotNil(t, exp.got.DateRange)
	assert.Len(t, exp.got.Plan, 2)
	require.NotNil(t, exp.got.Weather)
	assert.Equal(t, "H", exp.got.Weather.Location)
}

func TestExportServiceFailure(t *testing.T) {
	store, _ := newTestStore(t, nil)
	exp := &captureExporter{err: errors.New("renderer down")}

	_, err := NewExportService(store, nil, exp).Export(context.Background())
	assert.ErrorIs(t, err, ErrExportFailed)
}
