package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"trip-planner-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

type stubProber struct{ err error }

func (p stubProber) Probe(context.Context, string) error { return p.err }

type stubSearcher struct {
	url   string
	err   error
	delay time.Duration
}

func (s stubSearcher) SearchImage(ctx context.Context, _ string) (string, bool, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", false, ctx.Err()
		}
	}
	if s.err != nil {
		return "", false, s.err
	}
	return s.url, s.url != "", nil
}

func TestImageResolverTiers(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name     string
		resolver *ImageResolver
		provider string
		want     string
	}{
		{
			name:     "provider image accepted",
			resolver: NewImageResolver(stubProber{}, stubSearcher{url: "https://search/x.jpg"}, time.Second),
			provider: "https://provider/x.jpg",
			want:     "https://provider/x.jpg",
		},
		{
			name:     "broken provider falls to search",
			resolver: NewImageResolver(stubProber{err: errors.New("404")}, stubSearcher{url: "https://search/x.jpg"}, time.Second),
			provider: "https://provider/x.jpg",
			want:     "https://search/x.jpg",
		},
		{
			name:     "no provider url uses search",
			resolver: NewImageResolver(stubProber{}, stubSearcher{url: "https://search/x.jpg"}, time.Second),
			want:     "https://search/x.jpg",
		},
		{
			name:     "search timeout falls to pool",
			resolver: NewImageResolver(nil, stubSearcher{url: "https://search/x.jpg", delay: time.Second}, 20*time.Millisecond),
		},
		{
			name:     "search miss falls to pool",
			resolver: NewImageResolver(nil, stubSearcher{}, time.Second),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.resolver.Resolve(ctx, "Belem Tower", domain.CategoryActivity, tc.provider)
			if tc.want != "" {
				assert.Equal(t, tc.want, got)
				return
			}
			assert.Contains(t, DefaultImagePools[domain.CategoryActivity], got)
		})
	}
}

func TestImageResolverFallbackIsStable(t *testing.T) {
	r := NewImageResolver(nil, nil, 0)

	first := r.Resolve(context.Background(), "Jeronimos Monastery", domain.CategoryActivity, "")
	second := r.Resolve(context.Background(), "Jeronimos Monastery", domain.CategoryActivity, "")
	assert.Equal(t, first, second)

	r.Pools = map[domain.Category][]string{}
	assert.Equal(t, genericImage, r.Resolve(context.Background(), "x", domain.CategoryDining, ""))
}
