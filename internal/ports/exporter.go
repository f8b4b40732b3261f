package ports

import (
	"context"

	"trip-planner-service/internal/domain"
)

// SummaryBundle is the full client state handed to a document generator.
type SummaryBundle struct {
	Destination string                  `json:"destination" yaml:"destination"`
	DateRange   *domain.DateRange       `json:"date_range,omitempty" yaml:"date_range,omitempty"`
	Plan        domain.Plan             `json:"plan" yaml:"plan"`
	Favorites   domain.Favorites        `json:"favorites" yaml:"favorites"`
	Weather     *domain.WeatherSnapshot `json:"weather,omitempty" yaml:"weather,omitempty"`
}

// Document is a generated, downloadable file.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Contract for turning a bundle into a document.
type SummaryExporter interface {
	Export(ctx context.Context, bundle SummaryBundle) (Document, error)
}
