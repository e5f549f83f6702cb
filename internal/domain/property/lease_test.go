package property

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestLease(t *testing.T, start, end time.Time) *Lease {
	t.Helper()
	lease, err := NewLease(uuid.New(), "Ada Obi", start, end, decimal.NewFromInt(1000), decimal.NewFromInt(500), "", start)
	require.NoError(t, err)
	return lease
}

func TestIntervalsOverlap(t *testing.T) {
	tests := []struct {
		name     string
		s1, e1   time.Time
		s2, e2   time.Time
		expected bool
	}{
		{"contained", date(2024, 1, 1), date(2024, 6, 1), date(2024, 3, 1), date(2024, 4, 1), true},
		{"disjoint", date(2024, 1, 1), date(2024, 2, 1), date(2024, 3, 1), date(2024, 4, 1), false},
		{"touching end to start", date(2024, 1, 1), date(2024, 3, 1), date(2024, 3, 1), date(2024, 4, 1), true},
		{"one day apart", date(2024, 1, 1), date(2024, 2, 29), date(2024, 3, 1), date(2024, 4, 1), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IntervalsOverlap(tc.s1, tc.e1, tc.s2, tc.e2))
			assert.Equal(t, tc.expected, IntervalsOverlap(tc.s2, tc.e2, tc.s1, tc.e1))
		})
	}
}

func TestLease_IsActiveAt(t *testing.T) {
	lease := newTestLease(t, date(2024, 1, 1), date(2024, 6, 1))

	assert.True(t, lease.IsActiveAt(date(2024, 1, 1)))
	assert.True(t, lease.IsActiveAt(date(2024, 6, 1)))
	assert.False(t, lease.IsActiveAt(date(2024, 6, 2)))
	assert.False(t, lease.IsActiveAt(date(2023, 12, 31)))

	lease.Status = LeaseStatusTerminated
	assert.False(t, lease.IsActiveAt(date(2024, 3, 1)))
}

func TestLease_Expire(t *testing.T) {
	t.Run("expires overdue lease", func(t *testing.T) {
		lease := newTestLease(t, date(2024, 1, 1), date(2024, 6, 1))
		now := date(2024, 6, 2)
		require.NoError(t, lease.Expire(now))
		assert.Equal(t, LeaseStatusExpired, lease.Status)
		assert.Equal(t, 2, lease.Version)
		require.NotNil(t, lease.ExpiredAt)
		assert.Len(t, lease.PendingEvents(), 2)
	})

	t.Run("refuses lease that has not ended", func(t *testing.T) {
		lease := newTestLease(t, date(2024, 1, 1), date(2024, 6, 1))
		assert.Error(t, lease.Expire(date(2024, 5, 1)))
		assert.Equal(t, LeaseStatusActive, lease.Status)
	})

	t.Run("refuses non-active lease", func(t *testing.T) {
		lease := newTestLease(t, date(2024, 1, 1), date(2024, 6, 1))
		lease.Status = LeaseStatusTerminated
		assert.Error(t, lease.Expire(date(2024, 7, 1)))
	})
}

func TestLease_Terminate(t *testing.T) {
	lease := newTestLease(t, date(2024, 1, 1), date(2024, 6, 1))
	lease.Notes = "Signed in person"

	require.NoError(t, lease.Terminate("tenant relocated", date(2024, 3, 1)))
	assert.Equal(t, LeaseStatusTerminated, lease.Status)
	assert.Equal(t, "Signed in person\nTermination reason: tenant relocated", lease.Notes)

	err := lease.Terminate("again", date(2024, 3, 2))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "terminated")
}

func TestNewLease_RejectsInvertedDates(t *testing.T) {
	_, err := NewLease(uuid.New(), "x", date(2024, 6, 1), date(2024, 1, 1), decimal.NewFromInt(1), decimal.Zero, "", date(2024, 1, 1))
	assert.Error(t, err)
}
