package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRangeDates(t *testing.T) {
	tests := []struct {
		name string
		r    DateRange
		want []string
	}{
		{
			name: "single day",
			r:    DateRange{StartDate: "2025-07-01", EndDate: "2025-07-01"},
			want: []string{"2025-07-01"},
		},
		{
			name: "three days",
			r:    DateRange{StartDate: "2025-07-01", EndDate: "2025-07-03"},
			want: []string{"2025-07-01", "2025-07-02", "2025-07-03"},
		},
		{
			name: "month boundary",
			r:    DateRange{StartDate: "2024-02-28", EndDate: "2024-03-01"},
			want: []string{"2024-02-28", "2024-02-29", "2024-03-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.r.Dates()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateRangeValidateRejects(t *testing.T) {
	bad := []DateRange{
		{},
		{StartDate: "2025-07-03", EndDate: "2025-07-01"},
		{StartDate: "2025-07-01", EndDate: "tomorrow"},
		{StartDate: "2025-07-01T10:00:00Z", EndDate: "2025-07-02"},
	}

	for _, r := range bad {
		err := r.Validate()
		require.Error(t, err, "range %+v", r)
		assert.True(t, errors.Is(err, ErrInvalidDateRange))
	}
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{StartDate: "2025-07-01", EndDate: "2025-07-03"}

	assert.True(t, r.Contains("2025-07-01"))
	assert.True(t, r.Contains("2025-07-03"))
	assert.False(t, r.Contains("2025-07-04"))
	assert.False(t, r.Contains("garbage"))
}
