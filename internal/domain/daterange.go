package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date layout used for plan keys.
const DateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	StartDate string `json:"start_date" yaml:"start_date"`
	EndDate   string `json:"end_date" yaml:"end_date"`
}

// ParseDate parses an ISO date and rejects any time component.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// Validate rejects missing, malformed, or inverted ranges.
func (r DateRange) Validate() error {
	_, _, err := r.bounds()
	return err
}

func (r DateRange) bounds() (time.Time, time.Time, error) {
	if strings.TrimSpace(r.StartDate) == "" || strings.TrimSpace(r.EndDate) == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start and end dates are required", ErrInvalidDateRange)
	}
	start, err := ParseDate(r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
	}
	end, err := ParseDate(r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end %s is before start %s", ErrInvalidDateRange, r.EndDate, r.StartDate)
	}
	return start, end, nil
}

// Dates enumerates every date in the range, inclusive, as ISO strings.
func (r DateRange) Dates() ([]string, error) {
	start, end, err := r.bounds()
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(DateLayout))
	}
	return out, nil
}

// Contains reports whether date falls inside the range.
func (r DateRange) Contains(date string) bool {
	start, end, err := r.bounds()
	if err != nil {
		return false
	}
	d, err := ParseDate(date)
	if err != nil {
		return false
	}
	return !d.Before(start) && !d.After(end)
}
