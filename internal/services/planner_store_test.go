package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"trip-planner-service/internal/adapters/routing"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStateRepo struct {
	mu      sync.Mutex
	m       map[string][]byte
	failing bool
}

func newMemStateRepo() *memStateRepo { return &memStateRepo{m: map[string][]byte{}} }

func (r *memStateRepo) Load(_ context.Context, key string) ([]byte, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.m[key]
	return b, ok, nil
}

func (r *memStateRepo) Save(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failing {
		return errors.New("disk full")
	}
	r.m[key] = value
	return nil
}

func (r *memStateRepo) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m = map[string][]byte{}
	return nil
}

func (r *memStateRepo) get(key string) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.m[key]
	return b, ok
}

func newTestStore(t *testing.T, router ports.Router) (*PlannerStore, *memStateRepo) {
	t.Helper()
	repo := newMemStateRepo()
	return NewPlannerStore(repo, NewScheduler(), NewRouteSummarizer(router)), repo
}

func seedFavorites(t *testing.T, s *PlannerStore, items ...domain.CandidateResult) {
	t.Helper()
	for _, it := range items {
		require.Nil(t, s.AddFavorite(context.Background(), it))
	}
}

func TestStoreDistributeRequiresDates(t *testing.T) {
	s, _ := newTestStore(t, nil)
	_, err := s.Distribute(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoDateRange)
}

func TestStoreSetDateRangeRejectsInverted(t *testing.T) {
	s, repo := newTestStore(t, nil)
	err := s.SetDateRange(context.Background(), domain.DateRange{StartDate: "2025-07-05", EndDate: "2025-07-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)

	_, ok := repo.get(ports.StateTravelDates)
	assert.False(t, ok)
}

func TestStoreDistributePersistsAndNotifies(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestStore(t, nil)

	var events []Event
	s.Subscribe(func(e Event) { events = append(events, e) })

	seedFavorites(t, s,
		domain.CandidateResult{ID: "h1", Category: domain.CategoryLodging, Title: "Hotel"},
		domain.CandidateResult{ID: "a1", Category: domain.CategoryActivity, Title: "Museum"},
		domain.CandidateResult{ID: "a2", Category: domain.CategoryActivity, Title: "Park"},
	)
	require.NoError(t, s.SetDateRange(ctx, domain.DateRange{StartDate: "2025-07-01", EndDate: "2025-07-02"}))

	dist, err := s.Distribute(ctx)
	require.NoError(t, err)
	assert.Empty(t, dist.Dropped)
	assert.Equal(t, []string{"2025-07-01", "2025-07-02"}, dist.Plan.Dates())

	raw, ok := repo.get(ports.StatePlanning)
	require.True(t, ok)
	var persisted domain.Plan
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.Equal(t, s.Plan(), persisted)

	kinds := make([]EventKind, 0, len(events))
	for _, e := range events {
		kinds = append(kinds, e.Kind)
	}
	assert.Contains(t, kinds, EventFavorites)
	assert.Contains(t, kinds, EventDates)
	assert.Contains(t, kinds, EventPlan)
}

func TestStoreAddStopNoticesAndErrors(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)
	seedFavorites(t, s, domain.CandidateResult{ID: "d1", Category: domain.CategoryDining, Title: "Tasca"})
	require.NoError(t, s.SetDateRange(ctx, domain.DateRange{StartDate: "2025-07-01", EndDate: "2025-07-01"}))
	_, err := s.Distribute(ctx)
	require.NoError(t, err)

	// Distribute already placed d1 on the only day.
	notice, err := s.AddStop(ctx, "2025-07-01", domain.CategoryDining, "d1")
	require.NoError(t, err)
	require.NotNil(t, notice)
	assert.Equal(t, domain.NoticeDuplicateStop, notice.Kind)

	_, err = s.AddStop(ctx, "2025-07-01", domain.CategoryActivity, "nope")
	assert.ErrorIs(t, err, domain.ErrUnknownFavorite)

	s.RemoveStop(ctx, "2025-07-01", domain.CategoryDining, "d1")
	assert.Empty(t, s.Plan()["2025-07-01"])

	notice, err = s.AddStop(ctx, "2025-07-01", domain.CategoryDining, "d1")
	require.NoError(t, err)
	assert.Nil(t, notice)
	assert.Len(t, s.Plan()["2025-07-01"], 1)
}

func TestStoreFocusComputesRoutes(t *testing.T) {
	ctx := context.Background()
	router := routing.NewMockRouter([]routing.MockPair{
		{From: geoA, To: geoC, Meters: 3500, Seconds: 600},
		{From: geoC, To: geoA, Meters: 3600, Seconds: 620},
	})
	s, _ := newTestStore(t, router)

	seedFavorites(t, s,
		domain.CandidateResult{ID: "A", Category: domain.CategoryActivity, Title: "A", Coordinates: &geoA},
		domain.CandidateResult{ID: "B", Category: domain.CategoryActivity, Title: "B"},
		domain.CandidateResult{ID: "C", Category: domain.CategoryActivity, Title: "C", Coordinates: &geoC},
	)
	require.NoError(t, s.SetDateRange(ctx, domain.DateRange{StartDate: "2025-07-01", EndDate: "2025-07-01"}))
	_, err := s.Distribute(ctx)
	require.NoError(t, err)

	assert.Empty(t, s.Routes("2025-07-01"), "routes are lazy until a day is focused")

	require.Nil(t, s.Focus(ctx, "2025-07-01"))
	legs := s.Routes("2025-07-01")
	require.Len(t, legs, 1)
	assert.Equal(t, "A", legs[0].FromID)
	assert.Equal(t, "C", legs[0].ToID)
	assert.Equal(t, domain.DaySummary{Date: "2025-07-01", Legs: 1, TotalDurationSeconds: 600, TotalDistanceMeters: 3500}, s.Summary("2025-07-01"))

	day := s.Plan()["2025-07-01"]
	require.NotNil(t, day[2].TravelTimeFromPrevious)
	assert.Equal(t, 600, *day[2].TravelTimeFromPrevious)

	// Reordering C before A reverses the only leg.
	require.Nil(t, s.ReorderStops(ctx, "2025-07-01", 2, 0))
	legs = s.Routes("2025-07-01")
	require.Len(t, legs, 1)
	assert.Equal(t, "C", legs[0].FromID)
	assert.Equal(t, 3600, legs[0].DistanceMeters)

	notice := s.Focus(ctx, "2030-01-01")
	require.NotNil(t, notice)
	assert.Equal(t, domain.NoticeDateOutOfRange, notice.Kind)
}

func TestStoreStopChangesRecomputeOnlyFocusedDay(t *testing.T) {
	ctx := context.Background()
	router := routing.NewMockRouter([]routing.MockPair{
		{From: geoA, To: geoD, Meters: 4200, Seconds: 780},
	})
	s, _ := newTestStore(t, router)

	// Round-robin places A and D on the first day and C on the second.
	seedFavorites(t, s,
		domain.CandidateResult{ID: "A", Category: domain.CategoryActivity, Title: "A", Coordinates: &geoA},
		domain.CandidateResult{ID: "C", Category: domain.CategoryActivity, Title: "C", Coordinates: &geoC},
		domain.CandidateResult{ID: "D", Category: domain.CategoryActivity, Title: "D", Coordinates: &geoD},
	)
	require.NoError(t, s.SetDateRange(ctx, domain.DateRange{StartDate: "2025-07-01", EndDate: "2025-07-02"}))
	_, err := s.Distribute(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "D"}, ids(s.Plan()["2025-07-01"]))

	require.Nil(t, s.Focus(ctx, "2025-07-01"))
	require.Len(t, s.Routes("2025-07-01"), 1)
	require.Len(t, router.Calls(), 1)

	s.RemoveStop(ctx, "2025-07-01", domain.CategoryActivity, "D")
	assert.Empty(t, s.Routes("2025-07-01"))
	assert.Equal(t, domain.DaySummary{Date: "2025-07-01"}, s.Summary("2025-07-01"))

	notice, err := s.AddStop(ctx, "2025-07-01", domain.CategoryActivity, "D")
	require.NoError(t, err)
	require.Nil(t, notice)
	legs := s.Routes("2025-07-01")
	require.Len(t, legs, 1)
	assert.Equal(t, "D", legs[0].ToID)
	assert.Equal(t, domain.DaySummary{Date: "2025-07-01", Legs: 1, TotalDurationSeconds: 780, TotalDistanceMeters: 4200}, s.Summary("2025-07-01"))
	assert.Len(t, router.Calls(), 2)

	// The second day is not focused, so no routes are computed for it.
	notice, err = s.AddStop(ctx, "2025-07-02", domain.CategoryActivity, "A")
	require.NoError(t, err)
	require.Nil(t, notice)
	assert.Equal(t, []string{"C", "A"}, ids(s.Plan()["2025-07-02"]))
	assert.Empty(t, s.Routes("2025-07-02"))
	assert.Len(t, router.Calls(), 2)
	assert.Len(t, s.Routes("2025-07-01"), 1, "focused day routes are kept")
}

func TestStoreRemoveStopKeepsSameIDInOtherCategory(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)
	seedFavorites(t, s,
		domain.CandidateResult{ID: "1", Category: domain.CategoryLodging, Title: "Hotel"},
		domain.CandidateResult{ID: "1", Category: domain.CategoryActivity, Title: "Museum"},
	)
	require.NoError(t, s.SetDateRange(ctx, domain.DateRange{StartDate: "2025-07-01", EndDate: "2025-07-01"}))
	_, err := s.Distribute(ctx)
	require.NoError(t, err)

	s.RemoveStop(ctx, "2025-07-01", domain.CategoryActivity, "1")
	day := s.Plan()["2025-07-01"]
	require.Len(t, day, 1)
	assert.Equal(t, domain.CategoryLodging, day[0].Category)
}

func TestStoreReorderFocusesDate(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, routing.NewMockRouter(nil))
	seedFavorites(t, s,
		domain.CandidateResult{ID: "a1", Category: domain.CategoryActivity, Title: "One"},
		domain.CandidateResult{ID: "a2", Category: domain.CategoryActivity, Title: "Two"},
	)
	require.NoError(t, s.SetDateRange(ctx, domain.DateRange{StartDate: "2025-07-01", EndDate: "2025-07-01"}))
	_, err := s.Distribute(ctx)
	require.NoError(t, err)

	require.Nil(t, s.ReorderStops(ctx, "2025-07-01", 0, 1))
	assert.Equal(t, "2025-07-01", s.Focused())
	assert.Equal(t, []string{"a2", "a1"}, ids(s.Plan()["2025-07-01"]))

	notice := s.ReorderStops(ctx, "2025-07-01", 0, 5)
	require.NotNil(t, notice)
	assert.Equal(t, domain.NoticeIndexOutOfRange, notice.Kind)
}

func TestStoreSetDateRangeConformsPlan(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)
	seedFavorites(t, s, domain.CandidateResult{ID: "a1", Category: domain.CategoryActivity, Title: "One"})
	require.NoError(t, s.SetDateRange(ctx, domain.DateRange{StartDate: "2025-07-01", EndDate: "2025-07-02"}))
	_, err := s.Distribute(ctx)
	require.NoError(t, err)

	require.NoError(t, s.SetDateRange(ctx, domain.DateRange{StartDate: "2025-07-02", EndDate: "2025-07-04"}))
	assert.Equal(t, []string{"2025-07-02", "2025-07-03", "2025-07-04"}, s.Plan().Dates())
	assert.Empty(t, s.Plan()["2025-07-03"])
}

func TestStoreSearchGenerations(t *testing.T) {
	s, _ := newTestStore(t, nil)

	first := s.NextSearchGeneration()
	second := s.NextSearchGeneration()

	fresh := SearchResults{domain.CategoryActivity: {{ID: "new", Title: "Fresh"}}}
	stale := SearchResults{domain.CategoryActivity: {{ID: "old", Title: "Stale"}}}

	assert.True(t, s.ApplySearchResults(second, fresh))
	assert.False(t, s.ApplySearchResults(first, stale), "older generation must be discarded")
	assert.Equal(t, "new", s.Results()[domain.CategoryActivity][0].ID)

	// Unstamped writes keep last-write-wins.
	assert.True(t, s.ApplySearchResults(0, stale))
	assert.Equal(t, "old", s.Results()[domain.CategoryActivity][0].ID)
}

func TestStoreFavoritesNotices(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)
	item := domain.CandidateResult{ID: "x", Category: domain.CategoryActivity, Title: "X"}

	require.Nil(t, s.AddFavorite(ctx, item))
	n := s.AddFavorite(ctx, item)
	require.NotNil(t, n)
	assert.Equal(t, domain.NoticeDuplicateFavorite, n.Kind)

	require.Nil(t, s.RemoveFavorite(ctx, domain.CategoryActivity, "x"))
	n = s.RemoveFavorite(ctx, domain.CategoryActivity, "x")
	require.NotNil(t, n)
	assert.Equal(t, domain.NoticeUnknownFavorite, n.Kind)
}

func TestStoreLoadAndSignOut(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestStore(t, nil)
	seedFavorites(t, s, domain.CandidateResult{ID: "a1", Category: domain.CategoryActivity, Title: "One"})
	require.NoError(t, s.SetDateRange(ctx, domain.DateRange{StartDate: "2025-07-01", EndDate: "2025-07-03"}))
	s.SetDestination(ctx, "Lisbon")
	_, err := s.Distribute(ctx)
	require.NoError(t, err)

	reloaded := NewPlannerStore(repo, NewScheduler(), nil)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, s.Plan(), reloaded.Plan())
	assert.Equal(t, s.Favorites(), reloaded.Favorites())
	assert.Equal(t, "Lisbon", reloaded.Destination())
	r, ok := reloaded.DateRange()
	require.True(t, ok)
	assert.Equal(t, "2025-07-03", r.EndDate)

	require.NoError(t, reloaded.SignOut(ctx))
	assert.Nil(t, reloaded.Plan())
	assert.Empty(t, reloaded.Favorites())
	_, ok = repo.get(ports.StateFavorites)
	assert.False(t, ok)
}

func TestStoreLoadSkipsCorruptKeys(t *testing.T) {
	repo := newMemStateRepo()
	repo.m[ports.StateFavorites] = []byte(`{not json`)
	repo.m[ports.StateDestination] = []byte(`"Porto"`)

	s := NewPlannerStore(repo, nil, nil)
	require.NoError(t, s.Load(context.Background()))
	assert.Empty(t, s.Favorites())
	assert.Equal(t, "Porto", s.Destination())
}

func TestStorePersistFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	s, repo := newTestStore(t, nil)
	repo.failing = true

	require.Nil(t, s.AddFavorite(ctx, domain.CandidateResult{ID: "a", Category: domain.CategoryActivity, Title: "A"}))
	_, ok := s.Favorites().Find(domain.CategoryActivity, "a")
	assert.True(t, ok)
}
