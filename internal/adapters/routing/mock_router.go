package routing

import (
	"context"
	"fmt"
	"sync"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

type MockPair struct {
	From, To domain.Coordinates
	Meters   int
	Seconds  int
}

// MockRouter answers from a fixed pair table and records every call.
type MockRouter struct {
	mu    sync.Mutex
	m     map[string]ports.RouteResult
	calls []string
}

func NewMockRouter(pairs []MockPair) *MockRouter {
	m := make(map[string]ports.RouteResult, len(pairs))
	for _, p := range pairs {
		m[pairKey(p.From, p.To)] = ports.RouteResult{
			DistanceMeters:  p.Meters,
			DurationSeconds: p.Seconds,
			Points:          []domain.Coordinates{p.From, p.To},
		}
	}
	return &MockRouter{m: m}
}

func (r *MockRouter) Route(ctx context.Context, start, end domain.Coordinates) (ports.RouteResult, error) {
	key := pairKey(start, end)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, key)

	res, ok := r.m[key]
	if !ok {
		return ports.RouteResult{}, fmt.Errorf("missing pair %s -> %s", start, end)
	}
	return res, nil
}

// Calls returns the "from|to" keys requested so far, in order.
func (r *MockRouter) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

func pairKey(a, b domain.Coordinates) string { return a.String() + "|" + b.String() }
