package domain

// RouteLeg is a single path segment between two consecutive geolocated stops.
type RouteLeg struct {
	FromID          string        `json:"from_id" yaml:"from_id"`
	ToID            string        `json:"to_id" yaml:"to_id"`
	DistanceMeters  int           `json:"distance_meters" yaml:"distance_meters"`
	DurationSeconds int           `json:"duration_seconds" yaml:"duration_seconds"`
	Points          []Coordinates `json:"points" yaml:"-"`
}

// DayRoutes maps a date to its legs. Derived from the Plan and never merged:
// a day's entry is replaced whenever its stop sequence changes.
type DayRoutes map[string][]RouteLeg

// DaySummary aggregates a day's legs.
type DaySummary struct {
	Date                 string `json:"date" yaml:"date"`
	Legs                 int    `json:"legs" yaml:"legs"`
	TotalDurationSeconds int    `json:"total_duration_seconds" yaml:"total_duration_seconds"`
	TotalDistanceMeters  int    `json:"total_distance_meters" yaml:"total_distance_meters"`
}
