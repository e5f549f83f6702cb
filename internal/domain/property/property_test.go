package property

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyStatus_IsValid(t *testing.T) {
	tests := []struct {
		status   PropertyStatus
		expected bool
	}{
		{PropertyStatusAvailable, true},
		{PropertyStatusOccupied, true},
		{PropertyStatusMaintenance, true},
		{PropertyStatusUnavailable, true},
		{PropertyStatus("sold"), false},
		{PropertyStatus(""), false},
	}

	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.status.IsValid())
		})
	}
}

func TestProperty_ExpectedStatus(t *testing.T) {
	tests := []struct {
		current        PropertyStatus
		hasActiveLease bool
		want           PropertyStatus
		changes        bool
	}{
		{PropertyStatusOccupied, false, PropertyStatusAvailable, true},
		{PropertyStatusAvailable, true, PropertyStatusOccupied, true},
		{PropertyStatusOccupied, true, PropertyStatusOccupied, false},
		{PropertyStatusAvailable, false, PropertyStatusAvailable, false},
		{PropertyStatusMaintenance, true, PropertyStatusMaintenance, false},
		{PropertyStatusUnavailable, false, PropertyStatusUnavailable, false},
	}

	for _, tc := range tests {
		t.Run(string(tc.current), func(t *testing.T) {
			p := &Property{Status: tc.current, IsActive: true}
			got, changes := p.ExpectedStatus(tc.hasActiveLease)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.changes, changes)
		})
	}
}

func TestProperty_CorrectStatus(t *testing.T) {
	p, err := NewProperty("P-001", "Block A, Flat 2", decimal.NewFromInt(1000), date(2024, 1, 1))
	require.NoError(t, err)

	require.NoError(t, p.CorrectStatus(PropertyStatusOccupied, "active lease found", date(2024, 2, 1)))
	assert.Equal(t, PropertyStatusOccupied, p.Status)
	assert.Equal(t, 2, p.Version)
	require.Len(t, p.PendingEvents(), 1)

	evt, ok := p.PendingEvents()[0].(*PropertyStatusCorrectedEvent)
	require.True(t, ok)
	assert.Equal(t, PropertyStatusAvailable, evt.FromStatus)
	assert.Contains(t, evt.Description(), p.ID.String())

	require.NoError(t, p.CorrectStatus(PropertyStatusOccupied, "noop", date(2024, 2, 1)))
	assert.Equal(t, 2, p.Version)
}

func TestProperty_OccupyAndRelease(t *testing.T) {
	p, err := NewProperty("P-002", "Shop 4", decimal.NewFromInt(500), date(2024, 1, 1))
	require.NoError(t, err)

	require.NoError(t, p.Occupy(date(2024, 1, 2)))
	assert.False(t, p.IsAvailable())
	assert.Error(t, p.Occupy(date(2024, 1, 3)))

	assert.True(t, p.Release(date(2024, 2, 1)))
	assert.True(t, p.IsAvailable())
	assert.False(t, p.Release(date(2024, 2, 2)))

	p.Status = PropertyStatusMaintenance
	assert.False(t, p.Release(date(2024, 2, 3)))
	assert.Equal(t, PropertyStatusMaintenance, p.Status)
}
