package export

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bundle() ports.SummaryBundle {
	return ports.SummaryBundle{
		Destination: "Lisbon Portugal",
		DateRange:   &domain.DateRange{StartDate: "2025-07-01", EndDate: "2025-07-02"},
		Plan: domain.Plan{
			"2025-07-02": {{ID: "a2", Category: domain.CategoryActivity, Title: "Sintra"}},
			"2025-07-01": {{ID: "a1", Category: domain.CategoryActivity, Title: "Alfama"}},
		},
		Favorites: domain.Favorites{},
	}
}

func TestYAMLExporter(t *testing.T) {
	e := &YAMLExporter{Now: func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }}

	doc, err := e.Export(context.Background(), bundle())
	require.NoError(t, err)
	assert.Equal(t, "itinerary-lisbon-portugal-2025-07-01.yaml", doc.Filename)
	assert.Equal(t, "application/yaml", doc.ContentType)

	var got yamlSummary
	require.NoError(t, yaml.Unmarshal(doc.Body, &got))
	assert.Equal(t, "2025-06-01T12:00:00Z", got.GeneratedAt)
	require.Len(t, got.Itinerary, 2)
	assert.Equal(t, "2025-07-01", got.Itinerary[0].Date)
	assert.Equal(t, "Alfama", got.Itinerary[0].Stops[0].Title)
}

func TestHTTPExporter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var b ports.SummaryBundle
		require.NoError(t, json.NewDecoder(r.Body).Decode(&b))
		assert.Equal(t, "Lisbon Portugal", b.Destination)

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="trip.pdf"`)
		_, _ = w.Write([]byte("%PDF-1.7"))
	}))
	defer srv.Close()

	e, err := NewHTTPExporter(srv.URL, nil)
	require.NoError(t, err)

	doc, err := e.Export(context.Background(), bundle())
	require.NoError(t, err)
	assert.Equal(t, "trip.pdf", doc.Filename)
	assert.Equal(t, []byte("%PDF-1.7"), doc.Body)
}

func TestHTTPExporterFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "renderer crashed", http.StatusBadGateway)
	}))
	defer srv.Close()

	e, err := NewHTTPExporter(srv.URL, nil)
	require.NoError(t, err)

	_, err = e.Export(context.Background(), bundle())
	assert.ErrorContains(t, err, "status 502")
}
