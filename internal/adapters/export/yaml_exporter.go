package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

// YAMLExporter renders the itinerary summary locally as a YAML document.
type YAMLExporter struct {
	Now func() time.Time
}

func NewYAMLExporter() *YAMLExporter {
	return &YAMLExporter{Now: time.Now}
}

type yamlDay struct {
	Date  string                   `yaml:"date"`
	Stops []domain.CandidateResult `yaml:"stops"`
}

type yamlSummary struct {
	GeneratedAt string                  `yaml:"generated_at"`
	Destination string                  `yaml:"destination,omitempty"`
	DateRange   *domain.DateRange       `yaml:"date_range,omitempty"`
	Itinerary   []yamlDay               `yaml:"itinerary"`
	Favorites   domain.Favorites        `yaml:"favorites,omitempty"`
	Weather     *domain.WeatherSnapshot `yaml:"weather,omitempty"`
}

func (e *YAMLExporter) Export(_ context.Context, b ports.SummaryBundle) (ports.Document, error) {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	s := yamlSummary{
		GeneratedAt: now().UTC().Format(time.RFC3339),
		Destination: b.Destination,
		DateRange:   b.DateRange,
		Favorites:   b.Favorites,
		Weather:     b.Weather,
	}
	for _, d := range b.Plan.Dates() {
		s.Itinerary = append(s.Itinerary, yamlDay{Date: d, Stops: b.Plan[d]})
	}

	body, err := yaml.Marshal(s)
	if err != nil {
		return ports.Document{}, fmt.Errorf("export yaml: %w", err)
	}

	return ports.Document{
		Filename:    filename(b, "yaml"),
		ContentType: "application/yaml",
		Body:        body,
	}, nil
}

func filename(b ports.SummaryBundle, ext string) string {
	name := "itinerary"
	if dest := strings.Join(strings.Fields(strings.ToLower(b.Destination)), "-"); dest != "" {
		name += "-" + dest
	}
	if b.DateRange != nil && b.DateRange.StartDate != "" {
		name += "-" + b.DateRange.StartDate
	}
	return name + "." + ext
}
