package lease

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/property"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultHighRentMultiplier flags rents above this multiple of the property's base rent
var DefaultHighRentMultiplier = decimal.NewFromInt(10)

// Option configures a LeaseStateReconciler
type Option func(*LeaseStateReconciler)

// WithRetryAttempts bounds retries after a lost optimistic-lock race
func WithRetryAttempts(n int) Option {
	return func(r *LeaseStateReconciler) {
		if n > 0 {
			r.retryAttempts = n
		}
	}
}

// WithHighRentMultiplier overrides the high-rent warning threshold
func WithHighRentMultiplier(m decimal.Decimal) Option {
	return func(r *LeaseStateReconciler) {
		if m.IsPositive() {
			r.highRentMultiplier = m
		}
	}
}

// LeaseStateReconciler keeps property occupancy consistent with lease state
// and lease status consistent with calendar time.
//
// Every lease+property mutation runs as one store transaction under the
// property's entity lock; version conflicts re-run the whole unit.
type LeaseStateReconciler struct {
	propertyRepo       property.PropertyRepository
	leaseRepo          property.LeaseRepository
	txManager          shared.TxManager
	locker             shared.EntityLocker
	publisher          shared.EventPublisher
	clock              shared.Clock
	logger             *zap.Logger
	retryAttempts      int
	highRentMultiplier decimal.Decimal
}

// NewLeaseStateReconciler creates a new LeaseStateReconciler
func NewLeaseStateReconciler(
	propertyRepo property.PropertyRepository,
	leaseRepo property.LeaseRepository,
	txManager shared.TxManager,
	locker shared.EntityLocker,
	publisher shared.EventPublisher,
	clock shared.Clock,
	logger *zap.Logger,
	opts ...Option,
) *LeaseStateReconciler {
	if publisher == nil {
		publisher = shared.NopPublisher{}
	}
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &LeaseStateReconciler{
		propertyRepo:       propertyRepo,
		leaseRepo:          leaseRepo,
		txManager:          txManager,
		locker:             locker,
		publisher:          publisher,
		clock:              clock,
		logger:             logger.Named("lease_reconciler"),
		retryAttempts:      shared.DefaultRetryAttempts,
		highRentMultiplier: DefaultHighRentMultiplier,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HasActiveLease reports whether an active lease covers asOf on the property
func (r *LeaseStateReconciler) HasActiveLease(ctx context.Context, propertyID uuid.UUID, asOf time.Time) (bool, error) {
	_, err := r.leaseRepo.ActiveLeaseForProperty(ctx, propertyID, asOf)
	if err == nil {
		return true, nil
	}
	if shared.IsNotFound(err) {
		return false, nil
	}
	return false, fmt.Errorf("query active lease for property %s: %w", propertyID, err)
}

// IsStatusConsistent is the read-only form of SyncPropertyStatus
func (r *LeaseStateReconciler) IsStatusConsistent(ctx context.Context, p *property.Property) (bool, error) {
	active, err := r.HasActiveLease(ctx, p.ID, r.clock.Now())
	if err != nil {
		return false, err
	}
	_, changes := p.ExpectedStatus(active)
	return !changes, nil
}

// ListProperties returns one page of properties, each checked against
// lease state as of now. Read-only.
func (r *LeaseStateReconciler) ListProperties(ctx context.Context, filter shared.Filter) (*shared.Page[PropertyState], error) {
	page, err := r.propertyRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	states := make([]PropertyState, len(page.Items))
	for i := range page.Items {
		consistent, err := r.IsStatusConsistent(ctx, &page.Items[i])
		if err != nil {
			return nil, err
		}
		states[i] = PropertyState{Property: page.Items[i], Consistent: consistent}
	}
	out := shared.NewPage(states, page.Total, shared.Filter{Page: page.Page, PageSize: page.PageSize})
	return &out, nil
}

// SyncPropertyStatus flips occupied<->available to match lease state.
// Other statuses are left alone.
func (r *LeaseStateReconciler) SyncPropertyStatus(ctx context.Context, propertyID uuid.UUID) (*SyncOutcome, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lease_reconciler", "sync_property_status")
	defer span.End()
	telemetry.SetAttributes(span, "property_id", propertyID.String())

	var (
		outcome SyncOutcome
		p       *property.Property
	)
	err := r.withPropertyUnit(ctx, propertyID, func(ctx context.Context) error {
		var err error
		p, err = r.propertyRepo.FindByID(ctx, propertyID)
		if err != nil {
			return err
		}
		outcome, err = r.syncWithinUnit(ctx, p, r.clock.Now())
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if outcome.Changed {
		r.publish(ctx, nil, p)
		r.logger.Info("property status corrected",
			zap.String("property_id", propertyID.String()),
			zap.String("from", outcome.PreviousStatus.String()),
			zap.String("to", outcome.CurrentStatus.String()),
		)
	}
	return &outcome, nil
}

// syncWithinUnit applies the status rule to p. Caller holds the unit.
func (r *LeaseStateReconciler) syncWithinUnit(ctx context.Context, p *property.Property, now time.Time) (SyncOutcome, error) {
	outcome := SyncOutcome{
		PropertyID:     p.ID,
		PropertyCode:   p.Code,
		PreviousStatus: p.Status,
		CurrentStatus:  p.Status,
	}
	active, err := r.HasActiveLease(ctx, p.ID, now)
	if err != nil {
		return outcome, err
	}
	target, changes := p.ExpectedStatus(active)
	if !changes {
		return outcome, nil
	}
	reason := "no active lease covers the current date"
	if active {
		reason = "an active lease covers the current date"
	}
	if err := p.CorrectStatus(target, reason, now); err != nil {
		return outcome, err
	}
	if err := r.propertyRepo.SaveWithLock(ctx, p); err != nil {
		return outcome, err
	}
	outcome.CurrentStatus = p.Status
	outcome.Changed = true
	return outcome, nil
}

// FixPropertyStatusInconsistencies runs SyncPropertyStatus over every
// active property, collecting failures instead of stopping.
func (r *LeaseStateReconciler) FixPropertyStatusInconsistencies(ctx context.Context) (*FixResult, error) {
	properties, err := r.propertyRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active properties: %w", err)
	}
	result := &FixResult{Fixed: make([]string, 0), Errors: make([]string, 0)}
	for i := range properties {
		result.Checked++
		outcome, err := r.SyncPropertyStatus(ctx, properties[i].ID)
		if err != nil {
			r.logger.Error("failed to sync property status",
				zap.String("property_id", properties[i].ID.String()),
				zap.Error(err),
			)
			result.Errors = append(result.Errors, fmt.Sprintf("Property %s: %v", properties[i].ID, err))
			continue
		}
		if outcome.Changed {
			result.Fixed = append(result.Fixed, outcome.Description())
		}
	}
	return result, nil
}

// ExpireOverdueLeases expires every active lease whose end date has passed
// and releases its property. Each lease is its own atomic unit; a failing
// lease is logged and skipped.
func (r *LeaseStateReconciler) ExpireOverdueLeases(ctx context.Context) (*ExpiryResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lease_reconciler", "expire_overdue_leases")
	defer span.End()

	now := r.clock.Now()
	overdue, err := r.leaseRepo.FindOverdue(ctx, now)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("load overdue leases: %w", err)
	}

	result := &ExpiryResult{Expired: make([]uuid.UUID, 0), Errors: make([]string, 0)}
	for i := range overdue {
		l := &overdue[i]
		expired, err := r.expireLease(ctx, l.ID, l.PropertyID)
		if err != nil {
			r.logger.Error("failed to expire lease",
				zap.String("lease_id", l.ID.String()),
				zap.String("property_id", l.PropertyID.String()),
				zap.Error(err),
			)
			result.Errors = append(result.Errors, fmt.Sprintf("Failed to expire lease %s: %v", l.ID, err))
			continue
		}
		if expired {
			result.Expired = append(result.Expired, l.ID)
		}
	}
	telemetry.SetAttributes(span, "expired_count", len(result.Expired), "error_count", len(result.Errors))
	return result, nil
}

func (r *LeaseStateReconciler) expireLease(ctx context.Context, leaseID, propertyID uuid.UUID) (bool, error) {
	var (
		l       *property.Lease
		p       *property.Property
		expired bool
	)
	err := r.withPropertyUnit(ctx, propertyID, func(ctx context.Context) error {
		expired, p = false, nil
		now := r.clock.Now()
		var err error
		l, err = r.leaseRepo.FindByID(ctx, leaseID)
		if err != nil {
			return err
		}
		// Another writer may have expired or terminated it since the scan.
		if !l.IsOverdue(now) {
			return nil
		}
		if err := l.Expire(now); err != nil {
			return err
		}
		if err := r.leaseRepo.SaveWithLock(ctx, l); err != nil {
			return err
		}
		expired = true
		p, err = r.releaseProperty(ctx, l.PropertyID, now)
		return err
	})
	if err != nil {
		return false, err
	}
	if expired {
		r.publish(ctx, l, p)
		r.logger.Info("lease expired",
			zap.String("lease_id", leaseID.String()),
			zap.String("property_id", propertyID.String()),
		)
	}
	return expired, nil
}

// releaseProperty sets the property available unless another active lease
// still covers now. Returns the property when it was changed.
func (r *LeaseStateReconciler) releaseProperty(ctx context.Context, propertyID uuid.UUID, now time.Time) (*property.Property, error) {
	p, err := r.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		if shared.IsNotFound(err) {
			r.logger.Warn("lease references missing property", zap.String("property_id", propertyID.String()))
			return nil, nil
		}
		return nil, err
	}
	stillOccupied, err := r.HasActiveLease(ctx, propertyID, now)
	if err != nil {
		return nil, err
	}
	if stillOccupied || !p.Release(now) {
		return nil, nil
	}
	if err := r.propertyRepo.SaveWithLock(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ValidateNewLease checks a candidate against the lease creation rules.
// Business violations land in the result; only store failures are returned as error.
func (r *LeaseStateReconciler) ValidateNewLease(ctx context.Context, c LeaseCandidate) (*shared.Result[struct{}], error) {
	result := shared.NewResult[struct{}]()
	now := r.clock.Now()

	p, err := r.propertyRepo.FindByID(ctx, c.PropertyID)
	switch {
	case shared.IsNotFound(err):
		result.AddError("Property not found")
		p = nil
	case err != nil:
		return nil, fmt.Errorf("load property %s: %w", c.PropertyID, err)
	case !p.IsActive:
		result.AddError("Property is inactive")
	case !p.IsAvailable():
		result.AddError(fmt.Sprintf("Property is not available for lease (status: %s)", p.Status))
	}

	datesValid := true
	if c.StartDate.Before(shared.StartOfDay(now)) {
		result.AddError("Start date cannot be in the past")
	}
	if !c.EndDate.After(c.StartDate) {
		result.AddError("End date must be after start date")
		datesValid = false
	} else if c.EndDate.Before(c.StartDate.AddDate(0, 1, 0)) {
		result.AddError("Lease duration must be at least one month")
	}
	if !c.MonthlyRent.IsPositive() {
		result.AddError("Monthly rent must be greater than zero")
	}
	if c.SecurityDeposit.IsNegative() {
		result.AddError("Security deposit cannot be negative")
	}

	if p != nil && datesValid {
		overlapping, err := r.leaseRepo.FindActiveOverlapping(ctx, c.PropertyID, c.StartDate, c.EndDate, nil)
		if err != nil {
			return nil, fmt.Errorf("query overlapping leases: %w", err)
		}
		for _, l := range overlapping {
			result.AddError(fmt.Sprintf("Property has an overlapping lease %s (%s to %s)",
				l.ID, l.StartDate.Format(time.DateOnly), l.EndDate.Format(time.DateOnly)))
		}
	}

	if p != nil && p.BaseRent.IsPositive() && c.MonthlyRent.GreaterThan(p.BaseRent.Mul(r.highRentMultiplier)) {
		result.AddWarning(fmt.Sprintf("Monthly rent %s is more than %s times the property's base rent %s",
			c.MonthlyRent.StringFixed(2), r.highRentMultiplier.String(), p.BaseRent.StringFixed(2)))
	}
	return result, nil
}

// CreateLease validates the candidate and, when valid, creates the lease and
// marks the property occupied in one transaction.
func (r *LeaseStateReconciler) CreateLease(ctx context.Context, c LeaseCandidate) (*shared.Result[*LeaseResult], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lease_reconciler", "create_lease")
	defer span.End()
	telemetry.SetAttributes(span, "property_id", c.PropertyID.String())

	validation, err := r.ValidateNewLease(ctx, c)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	result := shared.NewResult[*LeaseResult]()
	result.Merge(validation.Errors, validation.Warnings)
	if !result.Success() {
		return result, nil
	}

	var created LeaseResult
	err = r.withPropertyUnit(ctx, c.PropertyID, func(ctx context.Context) error {
		now := r.clock.Now()
		p, err := r.propertyRepo.FindByID(ctx, c.PropertyID)
		if err != nil {
			return err
		}
		// Re-check inside the unit: the property may have been leased since validation.
		overlapping, err := r.leaseRepo.FindActiveOverlapping(ctx, c.PropertyID, c.StartDate, c.EndDate, nil)
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return shared.NewDomainError("LEASE_OVERLAP", "Property has an overlapping lease "+overlapping[0].ID.String())
		}
		l, err := property.NewLease(c.PropertyID, c.LesseeName, c.StartDate, c.EndDate, c.MonthlyRent, c.SecurityDeposit, c.Notes, now)
		if err != nil {
			return err
		}
		if err := p.Occupy(now); err != nil {
			return err
		}
		if err := r.leaseRepo.Save(ctx, l); err != nil {
			return err
		}
		if err := r.propertyRepo.SaveWithLock(ctx, p); err != nil {
			return err
		}
		created = LeaseResult{Lease: l, Property: p}
		return nil
	})
	if err != nil {
		if msg, ok := shared.RuleViolation(err); ok {
			result.AddError(msg)
			return result, nil
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	r.publish(ctx, created.Lease, created.Property)
	r.logger.Info("lease created",
		zap.String("lease_id", created.Lease.ID.String()),
		zap.String("property_id", c.PropertyID.String()),
	)
	result.Value = &created
	return result, nil
}

// TerminateLease ends an active lease and releases its property atomically
func (r *LeaseStateReconciler) TerminateLease(ctx context.Context, leaseID uuid.UUID, reason string) (*shared.Result[*LeaseResult], error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "lease_reconciler", "terminate_lease")
	defer span.End()
	telemetry.SetAttributes(span, "lease_id", leaseID.String())

	existing, err := r.leaseRepo.FindByID(ctx, leaseID)
	if err != nil {
		if shared.IsNotFound(err) {
			return shared.Fail[*LeaseResult]("Lease not found"), nil
		}
		return nil, fmt.Errorf("load lease %s: %w", leaseID, err)
	}

	var terminated LeaseResult
	err = r.withPropertyUnit(ctx, existing.PropertyID, func(ctx context.Context) error {
		now := r.clock.Now()
		l, err := r.leaseRepo.FindByID(ctx, leaseID)
		if err != nil {
			return err
		}
		if err := l.Terminate(reason, now); err != nil {
			return err
		}
		if err := r.leaseRepo.SaveWithLock(ctx, l); err != nil {
			return err
		}
		p, err := r.releaseProperty(ctx, l.PropertyID, now)
		if err != nil {
			return err
		}
		terminated = LeaseResult{Lease: l, Property: p}
		return nil
	})
	if err != nil {
		if msg, ok := shared.RuleViolation(err); ok {
			return shared.Fail[*LeaseResult](msg), nil
		}
		r.logger.Error("failed to terminate lease", zap.String("lease_id", leaseID.String()), zap.Error(err))
		telemetry.RecordError(span, err)
		return nil, err
	}

	r.publish(ctx, terminated.Lease, terminated.Property)
	r.logger.Info("lease terminated", zap.String("lease_id", leaseID.String()))
	result := shared.NewResult[*LeaseResult]()
	result.Value = &terminated
	return result, nil
}

// withPropertyUnit runs fn as one transaction under the property lock,
// re-running it when a concurrent writer wins the version check.
func (r *LeaseStateReconciler) withPropertyUnit(ctx context.Context, propertyID uuid.UUID, fn func(ctx context.Context) error) error {
	key := shared.LockKey(property.AggregateTypeProperty, propertyID.String())
	return shared.RetryOnConflict(ctx, r.retryAttempts, func(ctx context.Context) error {
		release, err := r.locker.Acquire(ctx, key)
		if err != nil {
			return err
		}
		defer release()
		return r.txManager.WithinTransaction(ctx, fn)
	})
}

// publish hands committed domain events to the event bus. Delivery
// failures are logged; the state change has already been committed.
func (r *LeaseStateReconciler) publish(ctx context.Context, l *property.Lease, p *property.Property) {
	var aggregates []shared.AggregateRoot
	if l != nil {
		aggregates = append(aggregates, l)
	}
	if p != nil {
		aggregates = append(aggregates, p)
	}
	events := shared.CollectEvents(aggregates...)
	if len(events) == 0 {
		return
	}
	if err := r.publisher.Publish(ctx, events...); err != nil {
		r.logger.Warn("failed to publish lease events", zap.Int("count", len(events)), zap.Error(err))
	}
}

