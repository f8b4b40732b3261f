package domain

import "sort"

// Plan maps an ISO date to that day's ordered stops.
// Order within a day is significant: it drives leg computation.
type Plan map[string][]CandidateResult

// Clone returns a deep copy of the day slices so callers can derive a new Plan
// without aliasing the previous one.
func (p Plan) Clone() Plan {
	if p == nil {
		return nil
	}
	out := make(Plan, len(p))
	for date, stops := range p {
		cp := make([]CandidateResult, len(stops))
		copy(cp, stops)
		out[date] = cp
	}
	return out
}

// Dates returns the plan keys in calendar order.
func (p Plan) Dates() []string {
	dates := make([]string, 0, len(p))
	for d := range p {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// IndexOf returns the position of the stop (c, id) within date, or -1.
// Ids are only unique within a category.
func (p Plan) IndexOf(date string, c Category, id string) int {
	for i, s := range p[date] {
		if s.Category == c && s.ID == id {
			return i
		}
	}
	return -1
}

// CountsAgainstCap reports whether the category is limited by the per-day cap.
func CountsAgainstCap(c Category) bool {
	return c != CategoryLodging && c != CategoryDining
}

// CappedCount counts a day's stops that are neither lodging nor dining.
func (p Plan) CappedCount(date string) int {
	n := 0
	for _, s := range p[date] {
		if CountsAgainstCap(s.Category) {
			n++
		}
	}
	return n
}
