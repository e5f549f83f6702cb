package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastOptions() Options {
	return Options{TTL: time.Minute, WaitTimeout: 20 * time.Millisecond, PollInterval: time.Millisecond}
}

func TestMemoryLocker_ExclusiveUntilReleased(t *testing.T) {
	l := NewMemoryLocker(fastOptions())
	ctx := context.Background()
	key := shared.LockKey("Account", "a-1")

	release, err := l.Acquire(ctx, key)
	require.NoError(t, err)

	_, err = l.Acquire(ctx, key)
	assert.ErrorIs(t, err, shared.ErrLockNotAcquired)

	other, err := l.Acquire(ctx, shared.LockKey("Account", "a-2"))
	require.NoError(t, err)
	other()

	release()
	release() // idempotent

	again, err := l.Acquire(ctx, key)
	require.NoError(t, err)
	again()
	assert.Equal(t, 0, l.Held())
}

func TestMemoryLocker_ExpiredLockCanBeTaken(t *testing.T) {
	l := NewMemoryLocker(fastOptions())
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	l.nowFn = func() time.Time { return now }

	staleRelease, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	fresh, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)

	staleRelease()
	assert.Equal(t, 1, l.Held(), "stale holder must not free the new lock")
	fresh()
}

func TestMemoryLocker_WaitsForRelease(t *testing.T) {
	l := NewMemoryLocker(Options{TTL: time.Minute, WaitTimeout: time.Second, PollInterval: time.Millisecond})
	release, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)

	go func() {
		time.Sleep(10 * time.Millisecond)
		release()
	}()

	second, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)
	second()
}

func TestMemoryLocker_SerializesCriticalSection(t *testing.T) {
	l := NewMemoryLocker(Options{TTL: time.Minute, WaitTimeout: 5 * time.Second, PollInterval: time.Millisecond})
	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(context.Background(), "k")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
}

func TestMemoryLocker_ContextCancelled(t *testing.T) {
	l := NewMemoryLocker(Options{TTL: time.Minute, WaitTimeout: time.Second, PollInterval: time.Millisecond})
	release, err := l.Acquire(context.Background(), "k")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Acquire(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFactory_MemoryBackend(t *testing.T) {
	f := NewFactory(config.LockConfig{Backend: "memory"}, config.RedisConfig{})
	locker, closeFn, err := f.Create(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &MemoryLocker{}, locker)
	assert.NoError(t, closeFn())
}

func TestFactory_RedisUnreachable(t *testing.T) {
	cfg := config.LockConfig{Backend: "redis"}
	redisCfg := config.RedisConfig{Host: "127.0.0.1", Port: 1}

	_, _, err := NewFactory(cfg, redisCfg).Create(context.Background())
	assert.ErrorContains(t, err, "failed to connect to Redis")

	locker, _, err := NewFactory(cfg, redisCfg, WithInMemoryFallback(true)).Create(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &MemoryLocker{}, locker)
}
