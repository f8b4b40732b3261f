package services

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

// EventKind names what changed in the store.
type EventKind string

const (
	EventResults     EventKind = "results"
	EventFavorites   EventKind = "favorites"
	EventDates       EventKind = "dates"
	EventDestination EventKind = "destination"
	EventPlan        EventKind = "plan"
	EventRoutes      EventKind = "routes"
	EventFocus       EventKind = "focus"
	EventSignOut     EventKind = "signout"
)

// Event is delivered to observers after a mutation is applied.
type Event struct {
	Kind EventKind
	Date string
}

type Observer func(Event)

// PlannerStore owns the planning state and is its only mutation surface.
//
// Every mutation derives a new value from the current one, replaces it, persists
// the affected key, then notifies observers. Persistence failures are logged and
// do not undo the in-memory change.
type PlannerStore struct {
	repo      ports.StateRepository
	scheduler *Scheduler
	routes    *RouteSummarizer

	mu          sync.Mutex
	results     SearchResults
	resultsGen  uint64
	searchGen   uint64
	favorites   domain.Favorites
	dateRange   *domain.DateRange
	destination string
	plan        domain.Plan
	planVersion uint64
	dayRoutes   domain.DayRoutes
	focused     string
	observers   []Observer
}

func NewPlannerStore(repo ports.StateRepository, scheduler *Scheduler, routes *RouteSummarizer) *PlannerStore {
	if scheduler == nil {
		scheduler = NewScheduler()
	}
	return &PlannerStore{
		repo:      repo,
		scheduler: scheduler,
		routes:    routes,
		results:   SearchResults{},
		favorites: domain.Favorites{},
		dayRoutes: domain.DayRoutes{},
	}
}

// Subscribe registers fn for every subsequent event.
func (s *PlannerStore) Subscribe(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *PlannerStore) notify(events ...Event) {
	s.mu.Lock()
	obsv := slices.Clone(s.observers)
	s.mu.Unlock()

	for _, e := range events {
		for _, fn := range obsv {
			fn(e)
		}
	}
}

// persist writes value under key. Must be called with s.mu held so writes
// land in mutation order.
func (s *PlannerStore) persist(ctx context.Context, key string, value any) {
	if s.repo == nil {
		return
	}
	b, err := json.Marshal(value)
	if err == nil {
		err = s.repo.Save(ctx, key, b)
	}
	if err != nil {
		obs.Logger(ctx).Error().Err(err).Str("key", key).Msg("persist state failed")
	}
}

// Load restores persisted state. Undecodable values are logged and skipped.
func (s *PlannerStore) Load(ctx context.Context) (err error) {
	defer obs.Time(ctx, "store.Load")(&err)

	if s.repo == nil {
		return nil
	}

	var (
		favs  domain.Favorites
		dates domain.DateRange
		plan  domain.Plan
		dest  string
	)
	targets := []struct {
		key string
		dst any
	}{
		{ports.StateFavorites, &favs},
		{ports.StateTravelDates, &dates},
		{ports.StatePlanning, &plan},
		{ports.StateDestination, &dest},
	}

	loaded := map[string]bool{}
	for _, t := range targets {
		b, ok, err := s.repo.Load(ctx, t.key)
		if err != nil {
			return fmt.Errorf("load state: %w", err)
		}
		if !ok {
			continue
		}
		if err := json.Unmarshal(b, t.dst); err != nil {
			obs.Logger(ctx).Warn().Err(err).Str("key", t.key).Msg("discarding unreadable state")
			continue
		}
		loaded[t.key] = true
	}

	s.mu.Lock()
	if loaded[ports.StateFavorites] && favs != nil {
		s.favorites = favs
	}
	if loaded[ports.StateTravelDates] && dates.Validate() == nil {
		r := dates
		s.dateRange = &r
	}
	if loaded[ports.StatePlanning] {
		s.plan = conformPlan(plan, s.dateRange)
		s.planVersion++
	}
	if loaded[ports.StateDestination] {
		s.destination = dest
	}
	s.dayRoutes = domain.DayRoutes{}
	s.mu.Unlock()

	return nil
}

// NextSearchGeneration stamps a new search. Results carrying an older stamp
// than the last applied one are discarded.
func (s *PlannerStore) NextSearchGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchGen++
	return s.searchGen
}

// ApplySearchResults replaces the current results wholesale. Generation 0 is
// unstamped and always applies, so the last write wins.
func (s *PlannerStore) ApplySearchResults(gen uint64, results SearchResults) bool {
	s.mu.Lock()
	if gen != 0 && gen < s.resultsGen {
		s.mu.Unlock()
		return false
	}
	if gen != 0 {
		s.resultsGen = gen
	}
	s.results = cloneResults(results)
	s.mu.Unlock()

	s.notify(Event{Kind: EventResults})
	return true
}

func (s *PlannerStore) Results() SearchResults {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneResults(s.results)
}

// FindResult looks up a current search result by category-scoped id.
func (s *PlannerStore) FindResult(c domain.Category, id string) (domain.CandidateResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.results[c] {
		if r.ID == id {
			return r, true
		}
	}
	return domain.CandidateResult{}, false
}

func (s *PlannerStore) AddFavorite(ctx context.Context, item domain.CandidateResult) *domain.Notice {
	item.AssignedDate = nil
	item.ClearTravel()

	s.mu.Lock()
	next, added := s.favorites.With(item)
	if !added {
		s.mu.Unlock()
		return &domain.Notice{
			Kind:    domain.NoticeDuplicateFavorite,
			Message: fmt.Sprintf("%q is already a favorite", item.Title),
		}
	}
	s.favorites = next
	s.persist(ctx, ports.StateFavorites, s.favorites)
	s.mu.Unlock()

	s.notify(Event{Kind: EventFavorites})
	return nil
}

// RemoveFavorite drops a favorite. Stops already placed in the plan stay.
func (s *PlannerStore) RemoveFavorite(ctx context.Context, c domain.Category, id string) *domain.Notice {
	s.mu.Lock()
	next, removed := s.favorites.Without(c, id)
	if !removed {
		s.mu.Unlock()
		return &domain.Notice{
			Kind:    domain.NoticeUnknownFavorite,
			Message: fmt.Sprintf("no %s favorite with id %q", c, id),
		}
	}
	s.favorites = next
	s.persist(ctx, ports.StateFavorites, s.favorites)
	s.mu.Unlock()

	s.notify(Event{Kind: EventFavorites})
	return nil
}

func (s *PlannerStore) Favorites() domain.Favorites {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favorites.Clone()
}

// SetDateRange validates and stores r. An existing plan is conformed to the
// new range: days outside it are dropped and new days start empty.
func (s *PlannerStore) SetDateRange(ctx context.Context, r domain.DateRange) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("set date range: %w", err)
	}

	s.mu.Lock()
	s.dateRange = &r
	s.persist(ctx, ports.StateTravelDates, r)

	events := []Event{{Kind: EventDates}}
	if s.plan != nil {
		s.plan = conformPlan(s.plan, s.dateRange)
		s.planVersion++
		s.pruneRoutesLocked()
		s.persist(ctx, ports.StatePlanning, s.plan)
		events = append(events, Event{Kind: EventPlan})
	}
	s.mu.Unlock()

	s.notify(events...)
	return nil
}

func (s *PlannerStore) DateRange() (domain.DateRange, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dateRange == nil {
		return domain.DateRange{}, false
	}
	return *s.dateRange, true
}

func (s *PlannerStore) SetDestination(ctx context.Context, text string) {
	s.mu.Lock()
	s.destination = text
	s.persist(ctx, ports.StateDestination, text)
	s.mu.Unlock()

	s.notify(Event{Kind: EventDestination})
}

func (s *PlannerStore) Destination() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.destination
}

// Distribute rebuilds the plan from the stored favorites and travel dates.
func (s *PlannerStore) Distribute(ctx context.Context) (_ Distribution, err error) {
	defer obs.Time(ctx, "store.Distribute")(&err)

	s.mu.Lock()
	if s.dateRange == nil {
		s.mu.Unlock()
		return Distribution{}, domain.ErrNoDateRange
	}

	dist, err := s.scheduler.Distribute(
		*s.dateRange,
		s.favorites[domain.CategoryLodging],
		s.favorites[domain.CategoryActivity],
		s.favorites[domain.CategoryDining],
	)
	if err != nil {
		s.mu.Unlock()
		return Distribution{}, err
	}

	s.plan = dist.Plan
	s.planVersion++
	s.dayRoutes = domain.DayRoutes{}
	s.persist(ctx, ports.StatePlanning, s.plan)
	if _, ok := s.plan[s.focused]; !ok {
		s.focused = ""
	}
	s.mu.Unlock()

	if len(dist.Dropped) > 0 {
		obs.Logger(ctx).Info().Int("dropped", len(dist.Dropped)).Msg("activities exceeded daily capacity")
	}

	s.notify(Event{Kind: EventPlan})
	s.refreshFocused(ctx)
	return Distribution{Plan: s.Plan(), Dropped: dist.Dropped}, nil
}

// AddStop appends a favorite to date.
func (s *PlannerStore) AddStop(ctx context.Context, date string, c domain.Category, id string) (*domain.Notice, error) {
	s.mu.Lock()
	item, ok := s.favorites.Find(c, id)
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("add stop %s/%s: %w", c, id, domain.ErrUnknownFavorite)
	}

	next, notice := AddStop(s.plan, date, item)
	if notice != nil {
		s.mu.Unlock()
		return notice, nil
	}
	s.applyPlanLocked(ctx, next)
	s.mu.Unlock()

	s.afterDayChange(ctx, date)
	return nil, nil
}

func (s *PlannerStore) RemoveStop(ctx context.Context, date string, c domain.Category, id string) {
	s.mu.Lock()
	if s.plan.IndexOf(date, c, id) < 0 {
		s.mu.Unlock()
		return
	}
	s.applyPlanLocked(ctx, RemoveStop(s.plan, date, c, id))
	s.mu.Unlock()

	s.afterDayChange(ctx, date)
}

// ReorderStops moves a stop within date and makes date the focused day.
func (s *PlannerStore) ReorderStops(ctx context.Context, date string, from, to int) *domain.Notice {
	s.mu.Lock()
	next, notice := ReorderStops(s.plan, date, from, to)
	if notice != nil {
		s.mu.Unlock()
		return notice
	}
	s.applyPlanLocked(ctx, next)
	s.focused = date
	s.mu.Unlock()

	s.notify(Event{Kind: EventPlan, Date: date}, Event{Kind: EventFocus, Date: date})
	s.refreshFocused(ctx)
	return nil
}

// Focus selects the day under inspection and computes its routes.
func (s *PlannerStore) Focus(ctx context.Context, date string) *domain.Notice {
	s.mu.Lock()
	if _, ok := s.plan[date]; !ok {
		s.mu.Unlock()
		return &domain.Notice{
			Kind:    domain.NoticeDateOutOfRange,
			Message: fmt.Sprintf("%s is not part of the planned dates", date),
		}
	}
	s.focused = date
	s.mu.Unlock()

	s.notify(Event{Kind: EventFocus, Date: date})
	s.refreshFocused(ctx)
	return nil
}

func (s *PlannerStore) Focused() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focused
}

func (s *PlannerStore) Plan() domain.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan.Clone()
}

// Routes returns the legs last computed for date.
func (s *PlannerStore) Routes(date string) []domain.RouteLeg {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.dayRoutes[date])
}

func (s *PlannerStore) Summary(date string) domain.DaySummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SummarizeDay(s.dayRoutes, date)
}

// Snapshot returns the exportable state. Weather is filled by the caller.
func (s *PlannerStore) Snapshot() ports.SummaryBundle {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := ports.SummaryBundle{
		Destination: s.destination,
		Plan:        s.plan.Clone(),
		Favorites:   s.favorites.Clone(),
	}
	if s.dateRange != nil {
		r := *s.dateRange
		b.DateRange = &r
	}
	return b
}

// WeatherTarget returns the primary lodging (if any) and the destination text.
func (s *PlannerStore) WeatherTarget() (domain.CandidateResult, bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lodging, ok := s.favorites.PrimaryLodging()
	return lodging, ok, s.destination
}

// SignOut clears all persisted keys and resets memory.
func (s *PlannerStore) SignOut(ctx context.Context) error {
	s.mu.Lock()
	if s.repo != nil {
		if err := s.repo.Clear(ctx); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("sign out: %w", err)
		}
	}
	s.results = SearchResults{}
	s.favorites = domain.Favorites{}
	s.dateRange = nil
	s.destination = ""
	s.plan = nil
	s.planVersion++
	s.dayRoutes = domain.DayRoutes{}
	s.focused = ""
	s.mu.Unlock()

	s.notify(Event{Kind: EventSignOut})
	return nil
}

func (s *PlannerStore) applyPlanLocked(ctx context.Context, next domain.Plan) {
	s.plan = next
	s.planVersion++
	s.persist(ctx, ports.StatePlanning, s.plan)
}

func (s *PlannerStore) pruneRoutesLocked() {
	for d := range s.dayRoutes {
		if _, ok := s.plan[d]; !ok {
			delete(s.dayRoutes, d)
		}
	}
	if _, ok := s.plan[s.focused]; !ok {
		s.focused = ""
	}
}

// afterDayChange notifies and, for the focused day only, recomputes routes.
// Routes for other days become stale and are dropped.
func (s *PlannerStore) afterDayChange(ctx context.Context, date string) {
	s.mu.Lock()
	focused := s.focused == date
	if !focused {
		delete(s.dayRoutes, date)
	}
	s.mu.Unlock()

	s.notify(Event{Kind: EventPlan, Date: date})
	if focused {
		s.refreshFocused(ctx)
	}
}

// refreshFocused recomputes the focused day's routes outside the lock and
// applies them only if that day's plan did not change meanwhile.
func (s *PlannerStore) refreshFocused(ctx context.Context) {
	if s.routes == nil {
		return
	}

	s.mu.Lock()
	date := s.focused
	stops, ok := s.plan[date]
	if date == "" || !ok {
		s.mu.Unlock()
		return
	}
	stops = slices.Clone(stops)
	version := s.planVersion
	s.mu.Unlock()

	legs, annotated := s.routes.ComputeDayRoutes(ctx, date, stops)

	s.mu.Lock()
	if version != s.planVersion || s.focused != date {
		s.mu.Unlock()
		obs.Logger(ctx).Debug().Str("date", date).Msg("discarding stale routes")
		return
	}
	s.dayRoutes[date] = legs
	next := s.plan.Clone()
	next[date] = annotated
	s.plan = next
	s.persist(ctx, ports.StatePlanning, s.plan)
	s.mu.Unlock()

	s.notify(Event{Kind: EventRoutes, Date: date})
}

// conformPlan keeps exactly one entry per date of r. A nil range leaves plan as is.
func conformPlan(plan domain.Plan, r *domain.DateRange) domain.Plan {
	if r == nil {
		return plan
	}
	dates, err := r.Dates()
	if err != nil {
		return plan
	}
	out := make(domain.Plan, len(dates))
	for _, d := range dates {
		if stops, ok := plan[d]; ok && stops != nil {
			out[d] = slices.Clone(stops)
		} else {
			out[d] = []domain.CandidateResult{}
		}
	}
	return out
}

func cloneResults(r SearchResults) SearchResults {
	out := make(SearchResults, len(r))
	for c, items := range r {
		out[c] = slices.Clone(items)
	}
	return out
}
