package dto

import "trip-planner-service/internal/domain"

type DistributeResponse struct {
	Plan    domain.Plan              `json:"plan"`
	Dropped []domain.CandidateResult `json:"dropped"`
}

type PlanResponse struct {
	DateRange *domain.DateRange `json:"date_range"`
	Plan      domain.Plan       `json:"plan"`
	Focused   string            `json:"focused,omitempty"`
	Notice    *domain.Notice    `json:"notice,omitempty"`
}

type AddStopRequest struct {
	Date     string `json:"date"`
	Category string `json:"category"`
	ID       string `json:"id"`
}

type RemoveStopRequest struct {
	Date     string `json:"date"`
	Category string `json:"category"`
	ID       string `json:"id"`
}

type ReorderRequest struct {
	Date string `json:"date"`
	From *int   `json:"from"`
	To   *int   `json:"to"`
}

type FocusRequest struct {
	Date string `json:"date"`
}

type RoutesResponse struct {
	Date    string            `json:"date"`
	Legs    []domain.RouteLeg `json:"legs"`
	Summary domain.DaySummary `json:"summary"`
}
