package shared

import (
	"context"
	"errors"
	"time"
)

// TxManager runs fn inside a single store transaction. Repositories
// called with the supplied ctx join that transaction. Any error returned
// by fn rolls the whole unit back.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EntityLocker serializes work on one entity across processes.
type EntityLocker interface {
	// Acquire takes the lock for key or returns ErrLockNotAcquired once
	// the wait budget is exhausted. The returned func releases it.
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// LockKey builds a lock key for an aggregate.
func LockKey(aggregateType, id string) string {
	return "reconcile:lock:" + aggregateType + ":" + id
}

// DefaultRetryAttempts bounds RetryOnConflict when no value is configured.
const DefaultRetryAttempts = 3

// RetryOnConflict re-runs fn while it fails with a concurrency conflict
// or a busy lock, up to attempts times. fn must re-read its inputs.
func RetryOnConflict(ctx context.Context, attempts int, fn func(ctx context.Context) error) error {
	if attempts <= 0 {
		attempts = DefaultRetryAttempts
	}
	var err error
	for i := 0; i < attempts; i++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if !IsConcurrencyConflict(err) && !errors.Is(err, ErrLockNotAcquired) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(i+1) * 10 * time.Millisecond):
		}
	}
	return err
}
