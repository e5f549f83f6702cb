package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	leaseapp "github.com/rukibhamz/erpsolution-sub000/internal/application/lease"
	ledgerapp "github.com/rukibhamz/erpsolution-sub000/internal/application/ledger"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/ledger"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/property"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/stock"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/utility"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/venue"
	"github.com/stretchr/testify/mock"
)

type versioned interface {
	Key() (uuid.UUID, int)
}

// memStore keeps value copies keyed by id, enforcing version checks on
// SaveWithLock the way the gorm repositories do.
type memStore[T any, P interface {
	*T
	versioned
}] struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]T
	order    []uuid.UUID
	saves    int
	failSave error
}

func newMemStore[T any, P interface {
	*T
	versioned
}](items ...P) *memStore[T, P] {
	s := &memStore[T, P]{rows: make(map[uuid.UUID]T)}
	for _, item := range items {
		s.put(item)
	}
	return s
}

func (s *memStore[T, P]) get(id uuid.UUID) (P, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return P(&row), nil
}

func (s *memStore[T, P]) all() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.rows[id])
	}
	return out
}

func (s *memStore[T, P]) put(item P) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, _ := item.Key()
	if _, ok := s.rows[id]; !ok {
		s.order = append(s.order, id)
	}
	s.rows[id] = *item
}

func (s *memStore[T, P]) putWithLock(item P) error {
	s.mu.Lock()
	if s.failSave != nil {
		s.mu.Unlock()
		return s.failSave
	}
	id, version := item.Key()
	current, ok := s.rows[id]
	if !ok {
		s.mu.Unlock()
		return shared.ErrNotFound
	}
	if _, stored := P(&current).Key(); stored != version-1 {
		s.mu.Unlock()
		return shared.ErrConcurrencyConflict
	}
	s.saves++
	s.mu.Unlock()
	s.put(item)
	return nil
}

type eventRepo struct{ *memStore[venue.Event, *venue.Event] }

func (r eventRepo) FindByID(_ context.Context, id uuid.UUID) (*venue.Event, error) { return r.get(id) }
func (r eventRepo) FindAllEvents(context.Context) ([]venue.Event, error)           { return r.all(), nil }
func (r eventRepo) Save(_ context.Context, e *venue.Event) error                    { r.put(e); return nil }
func (r eventRepo) SaveWithLock(_ context.Context, e *venue.Event) error            { return r.putWithLock(e) }

type bookingRepo struct{ *memStore[venue.Booking, *venue.Booking] }

func (r bookingRepo) FindByID(_ context.Context, id uuid.UUID) (*venue.Booking, error) { return r.get(id) }
func (r bookingRepo) FindAllBookings(context.Context) ([]venue.Booking, error)         { return r.all(), nil }
func (r bookingRepo) Save(_ context.Context, b *venue.Booking) error                    { r.put(b); return nil }
func (r bookingRepo) SaveWithLock(_ context.Context, b *venue.Booking) error            { return r.putWithLock(b) }

type inventoryRepo struct {
	*memStore[stock.InventoryItem, *stock.InventoryItem]
}

func (r inventoryRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.InventoryItem, error) {
	return r.get(id)
}
func (r inventoryRepo) FindAllItems(context.Context) ([]stock.InventoryItem, error) { return r.all(), nil }
func (r inventoryRepo) Save(_ context.Context, i *stock.InventoryItem) error        { r.put(i); return nil }
func (r inventoryRepo) SaveWithLock(_ context.Context, i *stock.InventoryItem) error {
	return r.putWithLock(i)
}

type utilityRepo struct {
	*memStore[utility.UtilityBill, *utility.UtilityBill]
}

func (r utilityRepo) FindByID(_ context.Context, id uuid.UUID) (*utility.UtilityBill, error) {
	return r.get(id)
}
func (r utilityRepo) FindAllBills(context.Context) ([]utility.UtilityBill, error) { return r.all(), nil }
func (r utilityRepo) Save(_ context.Context, b *utility.UtilityBill) error        { r.put(b); return nil }
func (r utilityRepo) SaveWithLock(_ context.Context, b *utility.UtilityBill) error {
	return r.putWithLock(b)
}

type accountRepo struct{ *memStore[ledger.Account, *ledger.Account] }

func (r accountRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Account, error) { return r.get(id) }
func (r accountRepo) List(_ context.Context, f shared.Filter) (shared.Page[ledger.Account], error) {
	all := r.all()
	return shared.NewPage(all, int64(len(all)), f.Normalized()), nil
}
func (r accountRepo) FindAllAccounts(context.Context) ([]ledger.Account, error) { return r.all(), nil }
func (r accountRepo) Save(_ context.Context, a *ledger.Account) error           { r.put(a); return nil }
func (r accountRepo) SaveWithLock(_ context.Context, a *ledger.Account) error   { return r.putWithLock(a) }

type propertyRepo struct {
	*memStore[property.Property, *property.Property]
}

func (r propertyRepo) FindByID(_ context.Context, id uuid.UUID) (*property.Property, error) {
	return r.get(id)
}
func (r propertyRepo) List(_ context.Context, f shared.Filter) (shared.Page[property.Property], error) {
	all := r.all()
	return shared.NewPage(all, int64(len(all)), f.Normalized()), nil
}
func (r propertyRepo) FindActive(context.Context) ([]property.Property, error) {
	out := make([]property.Property, 0)
	for _, p := range r.all() {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r propertyRepo) Save(_ context.Context, p *property.Property) error { r.put(p); return nil }
func (r propertyRepo) SaveWithLock(_ context.Context, p *property.Property) error {
	return r.putWithLock(p)
}

type leaseRepo struct{ *memStore[property.Lease, *property.Lease] }

func (r leaseRepo) FindByID(_ context.Context, id uuid.UUID) (*property.Lease, error) { return r.get(id) }

func (r leaseRepo) filter(keep func(*property.Lease) bool) []property.Lease {
	out := make([]property.Lease, 0)
	for _, l := range r.all() {
		if keep(&l) {
			out = append(out, l)
		}
	}
	return out
}

func (r leaseRepo) FindByStatus(_ context.Context, status property.LeaseStatus) ([]property.Lease, error) {
	return r.filter(func(l *property.Lease) bool { return l.Status == status }), nil
}

func (r leaseRepo) ActiveLeaseForProperty(_ context.Context, propertyID uuid.UUID, asOf time.Time) (*property.Lease, error) {
	found := r.filter(func(l *property.Lease) bool { return l.PropertyID == propertyID && l.IsActiveAt(asOf) })
	if len(found) == 0 {
		return nil, shared.ErrNotFound
	}
	return &found[0], nil
}

func (r leaseRepo) FindActiveOverlapping(_ context.Context, propertyID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]property.Lease, error) {
	return r.filter(func(l *property.Lease) bool {
		if excludeID != nil && l.ID == *excludeID {
			return false
		}
		return l.PropertyID == propertyID && l.Status == property.LeaseStatusActive && l.Overlaps(start, end)
	}), nil
}

func (r leaseRepo) FindOverdue(_ context.Context, asOf time.Time) ([]property.Lease, error) {
	return r.filter(func(l *property.Lease) bool { return l.IsOverdue(asOf) }), nil
}

func (r leaseRepo) Save(_ context.Context, l *property.Lease) error         { r.put(l); return nil }
func (r leaseRepo) SaveWithLock(_ context.Context, l *property.Lease) error { return r.putWithLock(l) }

// MockLeaseReconciler is a mock implementation of LeaseReconciler
type MockLeaseReconciler struct {
	mock.Mock
}

func (m *MockLeaseReconciler) IsStatusConsistent(ctx context.Context, p *property.Property) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockLeaseReconciler) FixPropertyStatusInconsistencies(ctx context.Context) (*leaseapp.FixResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leaseapp.FixResult), args.Error(1)
}

func (m *MockLeaseReconciler) ExpireOverdueLeases(ctx context.Context) (*leaseapp.ExpiryResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*leaseapp.ExpiryResult), args.Error(1)
}

// MockLedgerReconciler is a mock implementation of LedgerReconciler
type MockLedgerReconciler struct {
	mock.Mock
}

func (m *MockLedgerReconciler) RecomputeAll(ctx context.Context) (*ledgerapp.RecomputeAllResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.RecomputeAllResult), args.Error(1)
}

func (m *MockLedgerReconciler) PreviewAll(ctx context.Context) (*ledgerapp.RecomputeAllResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledgerapp.RecomputeAllResult), args.Error(1)
}

func (m *MockLedgerReconciler) DetectAnomalies(ctx context.Context, accounts []ledger.Account) ([]string, error) {
	args := m.Called(ctx, accounts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mapLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func (l *mapLocker) Acquire(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held == nil {
		l.held = make(map[string]bool)
	}
	if l.held[key] {
		return nil, shared.ErrLockNotAcquired
	}
	l.held[key] = true
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
	}, nil
}

type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

type memArchiver struct {
	names []string
	data  [][]byte
}

func (a *memArchiver) Archive(_ context.Context, name string, data []byte) (string, error) {
	a.names = append(a.names, name)
	a.data = append(a.data, data)
	return "mem://" + name, nil
}

type recordingMetrics struct {
	runs     int
	failures int
}

func (m *recordingMetrics) RecordAuditRun(context.Context, map[string]shared.CheckResult, bool, time.Duration) {
	m.runs++
}
func (m *recordingMetrics) RecordAuditFailure(context.Context, time.Duration) { m.failures++ }
