package lock

import (
	"context"
	"sync"
	"time"
)

// MemoryLocker is an in-process shared.EntityLocker. It does not coordinate
// across processes; use RedisLocker when more than one instance runs.
type MemoryLocker struct {
	mu    sync.Mutex
	held  map[string]time.Time // key -> expiry
	opts  Options
	nowFn func() time.Time
}

// NewMemoryLocker creates a new in-memory locker
func NewMemoryLocker(opts Options) *MemoryLocker {
	return &MemoryLocker{
		held:  make(map[string]time.Time),
		opts:  opts.withDefaults(),
		nowFn: time.Now,
	}
}

// Acquire takes the lock for key, waiting up to the configured budget
func (l *MemoryLocker) Acquire(ctx context.Context, key string) (func(), error) {
	var expiry time.Time
	err := poll(ctx, l.opts, func(context.Context) (bool, error) {
		l.mu.Lock()
		defer l.mu.Unlock()
		now := l.nowFn()
		if until, ok := l.held[key]; ok && now.Before(until) {
			return false, nil
		}
		expiry = now.Add(l.opts.TTL)
		l.held[key] = expiry
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			// A holder whose TTL lapsed must not release a successor's lock.
			if l.held[key].Equal(expiry) {
				delete(l.held, key)
			}
		})
	}, nil
}

// Held returns the number of unexpired locks
func (l *MemoryLocker) Held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.nowFn()
	n := 0
	for _, until := range l.held {
		if now.Before(until) {
			n++
		}
	}
	return n
}
