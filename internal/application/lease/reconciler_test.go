package lease

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/property"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	properties *MockPropertyRepository
	leases     *MockLeaseRepository
	tx         *passthroughTx
	locker     *recordingLocker
	publisher  *capturingPublisher
	clock      *shared.FixedClock
	reconciler *LeaseStateReconciler
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		properties: new(MockPropertyRepository),
		leases:     new(MockLeaseRepository),
		tx:         &passthroughTx{},
		locker:     &recordingLocker{},
		publisher:  &capturingPublisher{},
		clock:      shared.NewFixedClock(now),
	}
	f.reconciler = NewLeaseStateReconciler(f.properties, f.leases, f.tx, f.locker, f.publisher, f.clock, zap.NewNop())
	return f
}

func newProperty(status property.PropertyStatus) *property.Property {
	p, _ := property.NewProperty("P-100", "Unit 100", decimal.NewFromInt(1000), day(2023, 1, 1))
	p.Status = status
	return p
}

func newActiveLease(propertyID uuid.UUID, start, end time.Time) *property.Lease {
	l, _ := property.NewLease(propertyID, "Chidi Okafor", start, end, decimal.NewFromInt(1000), decimal.NewFromInt(1000), "", start)
	l.ClearEvents()
	return l
}

func cloneProperty(p *property.Property) *property.Property {
	c := *p
	return &c
}

func cloneLease(l *property.Lease) *property.Lease {
	c := *l
	return &c
}

func TestSyncPropertyStatus_MarksOccupiedWhenLeaseActive(t *testing.T) {
	f := newFixture(day(2024, 3, 15))
	p := newProperty(property.PropertyStatusAvailable)
	l1 := newActiveLease(p.ID, day(2024, 1, 1), day(2024, 6, 1))

	f.properties.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	f.leases.On("ActiveLeaseForProperty", mock.Anything, p.ID, day(2024, 3, 15)).Return(l1, nil)
	f.properties.On("SaveWithLock", mock.Anything, mock.MatchedBy(func(saved *property.Property) bool {
		return saved.Status == property.PropertyStatusOccupied
	})).Return(nil)

	outcome, err := f.reconciler.SyncPropertyStatus(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, outcome.Changed)
	assert.Equal(t, property.PropertyStatusAvailable, outcome.PreviousStatus)
	assert.Equal(t, property.PropertyStatusOccupied, outcome.CurrentStatus)
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, property.EventTypePropertyStatusCorrected, f.publisher.events[0].EventType())
	assert.Equal(t, []string{shared.LockKey(property.AggregateTypeProperty, p.ID.String())}, f.locker.keys)
	f.properties.AssertExpectations(t)
}

func TestSyncPropertyStatus_ReleasesWhenNoActiveLease(t *testing.T) {
	f := newFixture(day(2024, 7, 1))
	p := newProperty(property.PropertyStatusOccupied)

	f.properties.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	f.leases.On("ActiveLeaseForProperty", mock.Anything, p.ID, mock.Anything).Return(nil, shared.ErrNotFound)
	f.properties.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil)

	outcome, err := f.reconciler.SyncPropertyStatus(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, outcome.Changed)
	assert.Equal(t, property.PropertyStatusAvailable, p.Status)
}

func TestSyncPropertyStatus_LeavesMaintenanceAlone(t *testing.T) {
	f := newFixture(day(2024, 3, 15))
	p := newProperty(property.PropertyStatusMaintenance)
	l1 := newActiveLease(p.ID, day(2024, 1, 1), day(2024, 6, 1))

	f.properties.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	f.leases.On("ActiveLeaseForProperty", mock.Anything, p.ID, mock.Anything).Return(l1, nil)

	outcome, err := f.reconciler.SyncPropertyStatus(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, outcome.Changed)
	f.properties.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	assert.Empty(t, f.publisher.events)
}

func TestSyncPropertyStatus_RetriesAfterVersionConflict(t *testing.T) {
	f := newFixture(day(2024, 3, 15))
	p := newProperty(property.PropertyStatusAvailable)
	l1 := newActiveLease(p.ID, day(2024, 1, 1), day(2024, 6, 1))

	f.properties.On("FindByID", mock.Anything, p.ID).Return(cloneProperty(p), nil).Once()
	f.properties.On("FindByID", mock.Anything, p.ID).Return(cloneProperty(p), nil).Once()
	f.leases.On("ActiveLeaseForProperty", mock.Anything, p.ID, mock.Anything).Return(l1, nil)
	f.properties.On("SaveWithLock", mock.Anything, mock.Anything).Return(shared.ErrConcurrencyConflict).Once()
	f.properties.On("SaveWithLock", mock.Anything, mock.Anything).Return(nil).Once()

	outcome, err := f.reconciler.SyncPropertyStatus(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, outcome.Changed)
	assert.Equal(t, 2, f.tx.calls)
	f.properties.AssertNumberOfCalls(t, "FindByID", 2)
}

func TestIsStatusConsistent(t *testing.T) {
	f := newFixture(day(2024, 7, 1))
	occupied := newProperty(property.PropertyStatusOccupied)
	available := newProperty(property.PropertyStatusAvailable)

	f.leases.On("ActiveLeaseForProperty", mock.Anything, mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

	ok, err := f.reconciler.IsStatusConsistent(context.Background(), occupied)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.reconciler.IsStatusConsistent(context.Background(), available)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExpireOverdueLeases_ExpiresLeaseAndReleasesProperty(t *testing.T) {
	now := day(2024, 6, 2)
	f := newFixture(now)
	p := newProperty(property.PropertyStatusOccupied)
	l1 := newActiveLease(p.ID, day(2024, 1, 1), day(2024, 6, 1))

	f.leases.On("FindOverdue", mock.Anything, now).Return([]property.Lease{*cloneLease(l1)}, nil)
	f.leases.On("FindByID", mock.Anything, l1.ID).Return(l1, nil)
	f.leases.On("SaveWithLock", mock.Anything, l1).Return(nil)
	f.properties.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	f.leases.On("ActiveLeaseForProperty", mock.Anything, p.ID, now).Return(nil, shared.ErrNotFound)
	f.properties.On("SaveWithLock", mock.Anything, p).Return(nil)

	result, err := f.reconciler.ExpireOverdueLeases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{l1.ID}, result.Expired)
	assert.Empty(t, result.Errors)
	assert.Equal(t, property.LeaseStatusExpired, l1.Status)
	assert.Equal(t, property.PropertyStatusAvailable, p.Status)
	f.leases.AssertExpectations(t)
	f.properties.AssertExpectations(t)
}

func TestExpireOverdueLeases_ContinuesAfterFailure(t *testing.T) {
	now := day(2024, 6, 2)
	f := newFixture(now)
	p := newProperty(property.PropertyStatusOccupied)
	broken := newActiveLease(uuid.New(), day(2024, 1, 1), day(2024, 5, 1))
	l1 := newActiveLease(p.ID, day(2024, 1, 1), day(2024, 6, 1))

	f.leases.On("FindOverdue", mock.Anything, now).Return([]property.Lease{*cloneLease(broken), *cloneLease(l1)}, nil)
	f.leases.On("FindByID", mock.Anything, broken.ID).Return(nil, errors.New("connection reset"))
	f.leases.On("FindByID", mock.Anything, l1.ID).Return(l1, nil)
	f.leases.On("SaveWithLock", mock.Anything, l1).Return(nil)
	f.properties.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	f.leases.On("ActiveLeaseForProperty", mock.Anything, p.ID, now).Return(nil, shared.ErrNotFound)
	f.properties.On("SaveWithLock", mock.Anything, p).Return(nil)

	result, err := f.reconciler.ExpireOverdueLeases(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{l1.ID}, result.Expired)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], broken.ID.String())
}

func TestExpireOverdueLeases_KeepsPropertyOccupiedByAnotherLease(t *testing.T) {
	now := day(2024, 6, 2)
	f := newFixture(now)
	p := newProperty(property.PropertyStatusOccupied)
	l1 := newActiveLease(p.ID, day(2024, 1, 1), day(2024, 6, 1))
	l2 := newActiveLease(p.ID, day(2024, 6, 1), day(2024, 12, 1))

	f.leases.On("FindOverdue", mock.Anything, now).Return([]property.Lease{*cloneLease(l1)}, nil)
	f.leases.On("FindByID", mock.Anything, l1.ID).Return(l1, nil)
	f.leases.On("SaveWithLock", mock.Anything, l1).Return(nil)
	f.properties.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	f.leases.On("ActiveLeaseForProperty", mock.Anything, p.ID, now).Return(l2, nil)

	result, err := f.reconciler.ExpireOverdueLeases(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Expired, 1)
	assert.Equal(t, property.PropertyStatusOccupied, p.Status)
	f.properties.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestValidateNewLease_RejectsOverlap(t *testing.T) {
	f := newFixture(day(2024, 2, 1))
	p := newProperty(property.PropertyStatusOccupied)
	l1 := newActiveLease(p.ID, day(2024, 1, 1), day(2024, 6, 1))
	candidate := LeaseCandidate{
		PropertyID:      p.ID,
		LesseeName:      "Second Tenant",
		StartDate:       day(2024, 3, 1),
		EndDate:         day(2024, 4, 1),
		MonthlyRent:     decimal.NewFromInt(900),
		SecurityDeposit: decimal.Zero,
	}

	f.properties.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	f.leases.On("FindActiveOverlapping", mock.Anything, p.ID, candidate.StartDate, candidate.EndDate, (*uuid.UUID)(nil)).
		Return([]property.Lease{*l1}, nil)

	result, err := f.reconciler.CreateLease(context.Background(), candidate)
	require.NoError(t, err)
	assert.False(t, result.Success())
	assert.Nil(t, result.Value)

	found := false
	for _, msg := range result.Errors {
		if containsFold(msg, "overlapping lease") {
			found = true
		}
	}
	assert.True(t, found, "expected an overlapping lease error, got %v", result.Errors)
	f.leases.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestValidateNewLease_Rules(t *testing.T) {
	now := day(2024, 2, 10)
	tests := []struct {
		name    string
		mutate  func(*LeaseCandidate)
		wantErr string
	}{
		{"past start", func(c *LeaseCandidate) { c.StartDate = day(2024, 2, 9) }, "Start date cannot be in the past"},
		{"end before start", func(c *LeaseCandidate) { c.EndDate = c.StartDate }, "End date must be after start date"},
		{"shorter than a month", func(c *LeaseCandidate) { c.EndDate = c.StartDate.AddDate(0, 0, 20) }, "at least one month"},
		{"zero rent", func(c *LeaseCandidate) { c.MonthlyRent = decimal.Zero }, "Monthly rent must be greater than zero"},
		{"negative deposit", func(c *LeaseCandidate) { c.SecurityDeposit = decimal.NewFromInt(-1) }, "Security deposit cannot be negative"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(now)
			p := newProperty(property.PropertyStatusAvailable)
			f.properties.On("FindByID", mock.Anything, p.ID).Return(p, nil)
			f.leases.On("FindActiveOverlapping", mock.Anything, p.ID, mock.Anything, mock.Anything, mock.Anything).
				Return([]property.Lease{}, nil).Maybe()

			candidate := LeaseCandidate{
				PropertyID:      p.ID,
				StartDate:       day(2024, 2, 10),
				EndDate:         day(2025, 2, 10),
				MonthlyRent:     decimal.NewFromInt(1000),
				SecurityDeposit: decimal.NewFromInt(500),
			}
			tc.mutate(&candidate)

			result, err := f.reconciler.ValidateNewLease(context.Background(), candidate)
			require.NoError(t, err)
			require.Len(t, result.Errors, 1, "errors: %v", result.Errors)
			assert.Contains(t, result.Errors[0], tc.wantErr)
		})
	}
}

func TestCreateLease_OccupiesPropertyAndWarnsOnHighRent(t *testing.T) {
	now := day(2024, 2, 1)
	f := newFixture(now)
	p := newProperty(property.PropertyStatusAvailable)
	candidate := LeaseCandidate{
		PropertyID:      p.ID,
		LesseeName:      "Big Spender Ltd",
		StartDate:       day(2024, 2, 1),
		EndDate:         day(2025, 2, 1),
		MonthlyRent:     decimal.NewFromInt(15000),
		SecurityDeposit: decimal.NewFromInt(1000),
	}

	f.properties.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	f.leases.On("FindActiveOverlapping", mock.Anything, p.ID, candidate.StartDate, candidate.EndDate, (*uuid.UUID)(nil)).
		Return([]property.Lease{}, nil)
	f.leases.On("Save", mock.Anything, mock.AnythingOfType("*property.Lease")).Return(nil)
	f.properties.On("SaveWithLock", mock.Anything, p).Return(nil)

	result, err := f.reconciler.CreateLease(context.Background(), candidate)
	require.NoError(t, err)
	require.True(t, result.Success(), "errors: %v", result.Errors)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "base rent")
	assert.Equal(t, property.PropertyStatusOccupied, p.Status)
	assert.Equal(t, property.LeaseStatusActive, result.Value.Lease.Status)
	assert.Len(t, f.publisher.events, 1)
}

func TestTerminateLease(t *testing.T) {
	now := day(2024, 3, 1)

	t.Run("terminates active lease and frees property", func(t *testing.T) {
		f := newFixture(now)
		p := newProperty(property.PropertyStatusOccupied)
		l1 := newActiveLease(p.ID, day(2024, 1, 1), day(2024, 12, 1))

		f.leases.On("FindByID", mock.Anything, l1.ID).Return(l1, nil)
		f.leases.On("SaveWithLock", mock.Anything, l1).Return(nil)
		f.properties.On("FindByID", mock.Anything, p.ID).Return(p, nil)
		f.leases.On("ActiveLeaseForProperty", mock.Anything, p.ID, now).Return(nil, shared.ErrNotFound)
		f.properties.On("SaveWithLock", mock.Anything, p).Return(nil)

		result, err := f.reconciler.TerminateLease(context.Background(), l1.ID, "breach of contract")
		require.NoError(t, err)
		require.True(t, result.Success())
		assert.Equal(t, property.LeaseStatusTerminated, l1.Status)
		assert.Contains(t, l1.Notes, "breach of contract")
		assert.Equal(t, property.PropertyStatusAvailable, p.Status)
	})

	t.Run("refuses non-active lease", func(t *testing.T) {
		f := newFixture(now)
		l := newActiveLease(uuid.New(), day(2023, 1, 1), day(2023, 12, 1))
		l.Status = property.LeaseStatusExpired

		f.leases.On("FindByID", mock.Anything, l.ID).Return(l, nil)

		result, err := f.reconciler.TerminateLease(context.Background(), l.ID, "")
		require.NoError(t, err)
		require.False(t, result.Success())
		assert.Contains(t, result.Errors[0], "expired")
		f.leases.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("rolls back when the property write fails", func(t *testing.T) {
		f := newFixture(now)
		p := newProperty(property.PropertyStatusOccupied)
		l1 := newActiveLease(p.ID, day(2024, 1, 1), day(2024, 12, 1))

		f.leases.On("FindByID", mock.Anything, l1.ID).Return(l1, nil)
		f.leases.On("SaveWithLock", mock.Anything, l1).Return(nil)
		f.properties.On("FindByID", mock.Anything, p.ID).Return(p, nil)
		f.leases.On("ActiveLeaseForProperty", mock.Anything, p.ID, now).Return(nil, shared.ErrNotFound)
		f.properties.On("SaveWithLock", mock.Anything, p).Return(errors.New("disk full"))

		_, err := f.reconciler.TerminateLease(context.Background(), l1.ID, "")
		assert.Error(t, err)
		assert.Empty(t, f.publisher.events)
	})
}

func TestFixPropertyStatusInconsistencies(t *testing.T) {
	f := newFixture(day(2024, 7, 1))
	drifted := newProperty(property.PropertyStatusOccupied)
	fine := newProperty(property.PropertyStatusAvailable)

	f.properties.On("FindActive", mock.Anything).Return([]property.Property{*drifted, *fine}, nil)
	f.properties.On("FindByID", mock.Anything, drifted.ID).Return(drifted, nil)
	f.properties.On("FindByID", mock.Anything, fine.ID).Return(fine, nil)
	f.leases.On("ActiveLeaseForProperty", mock.Anything, mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)
	f.properties.On("SaveWithLock", mock.Anything, drifted).Return(nil)

	result, err := f.reconciler.FixPropertyStatusInconsistencies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Checked)
	require.Len(t, result.Fixed, 1)
	assert.Contains(t, result.Fixed[0], drifted.ID.String())
	assert.Empty(t, result.Errors)
}

func TestListProperties_FlagsDrift(t *testing.T) {
	f := newFixture(day(2024, 3, 15))
	occupied := newProperty(property.PropertyStatusOccupied)
	vacant := newProperty(property.PropertyStatusOccupied)
	vacant.Code = "P-200"
	l1 := newActiveLease(occupied.ID, day(2024, 1, 1), day(2024, 6, 1))

	filter := shared.Filter{Equals: map[string]any{"status": "occupied"}}
	f.properties.On("List", mock.Anything, filter).
		Return(shared.NewPage([]property.Property{*occupied, *vacant}, 2, filter.Normalized()), nil)
	f.leases.On("ActiveLeaseForProperty", mock.Anything, occupied.ID, day(2024, 3, 15)).Return(l1, nil)
	f.leases.On("ActiveLeaseForProperty", mock.Anything, vacant.ID, day(2024, 3, 15)).Return(nil, shared.ErrNotFound)

	page, err := f.reconciler.ListProperties(context.Background(), filter)
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	assert.True(t, page.Items[0].Consistent)
	assert.False(t, page.Items[1].Consistent)
	assert.Equal(t, 1, page.TotalPages)
	f.properties.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}
