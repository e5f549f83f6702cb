package lease

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/property"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockPropertyRepository is a mock implementation of property.PropertyRepository
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Property), args.Error(1)
}

func (m *MockPropertyRepository) List(ctx context.Context, filter shared.Filter) (shared.Page[property.Property], error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(shared.Page[property.Property]), args.Error(1)
}

func (m *MockPropertyRepository) FindActive(ctx context.Context) ([]property.Property, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]property.Property), args.Error(1)
}

func (m *MockPropertyRepository) Save(ctx context.Context, p *property.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPropertyRepository) SaveWithLock(ctx context.Context, p *property.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// MockLeaseRepository is a mock implementation of property.LeaseRepository
type MockLeaseRepository struct {
	mock.Mock
}

func (m *MockLeaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Lease, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Lease), args.Error(1)
}

func (m *MockLeaseRepository) FindByStatus(ctx context.Context, status property.LeaseStatus) ([]property.Lease, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]property.Lease), args.Error(1)
}

func (m *MockLeaseRepository) ActiveLeaseForProperty(ctx context.Context, propertyID uuid.UUID, asOf time.Time) (*property.Lease, error) {
	args := m.Called(ctx, propertyID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Lease), args.Error(1)
}

func (m *MockLeaseRepository) FindActiveOverlapping(ctx context.Context, propertyID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]property.Lease, error) {
	args := m.Called(ctx, propertyID, start, end, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]property.Lease), args.Error(1)
}

func (m *MockLeaseRepository) FindOverdue(ctx context.Context, asOf time.Time) ([]property.Lease, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]property.Lease), args.Error(1)
}

func (m *MockLeaseRepository) Save(ctx context.Context, l *property.Lease) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLeaseRepository) SaveWithLock(ctx context.Context, l *property.Lease) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

// passthroughTx runs the unit without a real store transaction
type passthroughTx struct {
	calls int
}

func (t *passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

// recordingLocker grants every lock and remembers the keys
type recordingLocker struct {
	mu   sync.Mutex
	keys []string
	held map[string]bool
}

func (l *recordingLocker) Acquire(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held == nil {
		l.held = make(map[string]bool)
	}
	if l.held[key] {
		return nil, shared.ErrLockNotAcquired
	}
	l.held[key] = true
	l.keys = append(l.keys, key)
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
	}, nil
}

// capturingPublisher records published events
type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
