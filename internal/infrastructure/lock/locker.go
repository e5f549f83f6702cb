// Package lock provides shared.EntityLocker implementations: a Redis lock
// for multi-process deployments and an in-process lock for a single binary.
package lock

import (
	"context"
	"time"

	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
)

// Options tunes how long a lock is held and how long Acquire waits
type Options struct {
	// TTL bounds how long a lock survives a holder that never releases it
	TTL time.Duration
	// WaitTimeout is the total time Acquire polls a busy lock
	WaitTimeout time.Duration
	// PollInterval is the delay between attempts on a busy lock
	PollInterval time.Duration
}

// DefaultOptions returns the options used when none are configured
func DefaultOptions() Options {
	return Options{
		TTL:          30 * time.Second,
		WaitTimeout:  5 * time.Second,
		PollInterval: 50 * time.Millisecond,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TTL <= 0 {
		o.TTL = d.TTL
	}
	if o.WaitTimeout < 0 {
		o.WaitTimeout = 0
	}
	if o.PollInterval <= 0 {
		o.PollInterval = d.PollInterval
	}
	return o
}

// poll calls try until it succeeds, the wait budget runs out, or ctx ends.
func poll(ctx context.Context, opts Options, try func(ctx context.Context) (bool, error)) error {
	deadline := time.Now().Add(opts.WaitTimeout)
	for {
		ok, err := try(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if !time.Now().Before(deadline) {
			return shared.ErrLockNotAcquired
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(opts.PollInterval):
		}
	}
}
