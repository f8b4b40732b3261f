package services

import (
	"cmp"
	"fmt"
	"slices"

	"trip-planner-service/internal/domain"
)

// DefaultActivityCap is the maximum number of capped stops placed per day by Distribute.
const DefaultActivityCap = 3

// PriorityOrder compares two activities for distribution order.
type PriorityOrder func(a, b domain.CandidateResult) int

// ByPriority orders activities by ascending priority. Used with a stable sort,
// equal priorities keep favoriting order, so runs are reproducible.
func ByPriority(a, b domain.CandidateResult) int {
	return cmp.Compare(a.Priority, b.Priority)
}

// Scheduler builds and edits day-partitioned plans.
type Scheduler struct {
	Cap   int
	Order PriorityOrder
}

func NewScheduler() *Scheduler {
	return &Scheduler{Cap: DefaultActivityCap, Order: ByPriority}
}

// Distribution is the result of Distribute. Dropped lists activities that did not
// fit anywhere because every day was at capacity.
type Distribution struct {
	Plan    domain.Plan
	Dropped []domain.CandidateResult
}

// Distribute builds a complete Plan for r.
//
// Every date in the range gets an entry. The first lodging is appended to every
// day. Activities are placed by a round-robin scan with a per-day cap; an activity
// that finds no capacity after a full cycle is dropped. Dining is assigned one per
// day in date order, wrapping around the dining list.
//
// Only a structurally invalid range is an error.
func (s *Scheduler) Distribute(
	r domain.DateRange,
	lodging []domain.CandidateResult,
	activities []domain.CandidateResult,
	dining []domain.CandidateResult,
) (Distribution, error) {
	dates, err := r.Dates()
	if err != nil {
		return Distribution{}, fmt.Errorf("distribute: %w", err)
	}

	limit := s.Cap
	if limit <= 0 {
		limit = DefaultActivityCap
	}
	order := s.Order
	if order == nil {
		order = ByPriority
	}

	plan := make(domain.Plan, len(dates))
	for _, d := range dates {
		plan[d] = []domain.CandidateResult{}
	}

	// Lodging is the home base for every night and does not count against the cap.
	if len(lodging) > 0 {
		for _, d := range dates {
			plan[d] = append(plan[d], stamp(lodging[0], d))
		}
	}

	ordered := assignPriorities(activities)
	slices.SortStableFunc(ordered, order)

	nDays := len(dates)
	counts := make([]int, nDays)
	cursor := 0
	dropped := make([]domain.CandidateResult, 0)

	for _, act := range ordered {
		placed := false
		for step := 0; step < nDays; step++ {
			di := (cursor + step) % nDays
			if counts[di] >= limit {
				continue
			}

			plan[dates[di]] = append(plan[dates[di]], stamp(act, dates[di]))
			counts[di]++
			cursor = (di + 1) % nDays
			placed = true
			break
		}

		// Capacity overflow is a drop policy, not a failure.
		if !placed {
			dropped = append(dropped, act)
		}
	}

	if len(dining) > 0 {
		for i, d := range dates {
			plan[d] = append(plan[d], stamp(dining[i%len(dining)], d))
		}
	}

	return Distribution{Plan: plan, Dropped: dropped}, nil
}

// assignPriorities returns a copy of activities where every unassigned priority
// is filled in favoriting order after the highest explicit priority.
func assignPriorities(activities []domain.CandidateResult) []domain.CandidateResult {
	out := make([]domain.CandidateResult, len(activities))
	copy(out, activities)

	next := 0
	for _, a := range out {
		if a.Priority > next {
			next = a.Priority
		}
	}
	for i := range out {
		if out[i].Priority == 0 {
			next++
			out[i].Priority = next
		}
	}
	return out
}

func stamp(item domain.CandidateResult, date string) domain.CandidateResult {
	d := date
	item.AssignedDate = &d
	item.ClearTravel()
	return item
}

// AddStop appends item to date. A duplicate (category, id) on that day, or a date outside the
// plan, leaves the plan untouched and yields a notice.
func AddStop(plan domain.Plan, date string, item domain.CandidateResult) (domain.Plan, *domain.Notice) {
	if _, ok := plan[date]; !ok {
		return plan, &domain.Notice{
			Kind:    domain.NoticeDateOutOfRange,
			Message: fmt.Sprintf("%s is not part of the planned dates", date),
		}
	}
	if plan.IndexOf(date, item.Category, item.ID) >= 0 {
		return plan, &domain.Notice{
			Kind:    domain.NoticeDuplicateStop,
			Message: fmt.Sprintf("%q is already planned on %s", item.Title, date),
		}
	}

	out := plan.Clone()
	out[date] = append(out[date], stamp(item, date))
	return out, nil
}

// RemoveStop removes the stop (c, itemID) from date. Absent stops are a no-op.
func RemoveStop(plan domain.Plan, date string, c domain.Category, itemID string) domain.Plan {
	idx := plan.IndexOf(date, c, itemID)
	if idx < 0 {
		return plan
	}

	out := plan.Clone()
	out[date] = slices.Delete(out[date], idx, idx+1)
	return out
}

// ReorderStops moves the stop at from to position to within date, shifting the
// stops in between. Other days are unaffected.
func ReorderStops(plan domain.Plan, date string, from, to int) (domain.Plan, *domain.Notice) {
	stops, ok := plan[date]
	if !ok {
		return plan, &domain.Notice{
			Kind:    domain.NoticeDateOutOfRange,
			Message: fmt.Sprintf("%s is not part of the planned dates", date),
		}
	}
	if from < 0 || from >= len(stops) || to < 0 || to >= len(stops) {
		return plan, &domain.Notice{
			Kind:    domain.NoticeIndexOutOfRange,
			Message: fmt.Sprintf("cannot move stop %d to %d on %s (%d stops)", from, to, date, len(stops)),
		}
	}
	if from == to {
		return plan, nil
	}

	out := plan.Clone()
	day := out[date]
	moved := day[from]
	day = slices.Delete(day, from, from+1)
	day = slices.Insert(day, to, moved)
	out[date] = day
	return out, nil
}
