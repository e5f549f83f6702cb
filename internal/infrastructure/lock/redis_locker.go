package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker implements shared.EntityLocker with SET NX PX. Each holder
// writes a random token so a release never frees another holder's lock.
type RedisLocker struct {
	client *redis.Client
	opts   Options
	logger *zap.Logger
}

// NewRedisLocker creates a locker over an existing client
func NewRedisLocker(client *redis.Client, opts Options, logger *zap.Logger) *RedisLocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLocker{client: client, opts: opts.withDefaults(), logger: logger.Named("redis_locker")}
}

// Acquire takes the lock for key, waiting up to the configured budget
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	err := poll(ctx, l.opts, func(ctx context.Context) (bool, error) {
		ok, err := l.client.SetNX(ctx, key, token, l.opts.TTL).Result()
		if err != nil {
			return false, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		return ok, nil
	})
	if err != nil {
		return nil, err
	}

	return func() {
		// The caller's ctx may already be cancelled; release on a fresh one.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warn("failed to release lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

// Client exposes the underlying connection for other Redis-backed stores.
func (l *RedisLocker) Client() *redis.Client {
	return l.client
}
