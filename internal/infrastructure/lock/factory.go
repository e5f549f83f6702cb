package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Factory creates entity lockers based on configuration
type Factory struct {
	lockConfig            config.LockConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory
// locker when Redis is unreachable. Default is false.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(lockCfg config.LockConfig, redisCfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		lockConfig:  lockCfg,
		redisConfig: redisCfg,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Factory) options() Options {
	return Options{
		TTL:          f.lockConfig.TTL,
		WaitTimeout:  f.lockConfig.WaitTimeout,
		PollInterval: f.lockConfig.PollInterval,
	}
}

// Create returns the configured locker and a close function for its resources
func (f *Factory) Create(ctx context.Context) (shared.EntityLocker, func() error, error) {
	if f.lockConfig.Backend != "redis" {
		f.logger.Info("Using in-memory entity locker")
		return NewMemoryLocker(f.options()), func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     f.redisConfig.Addr(),
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		if !f.allowInMemoryFallback {
			return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory entity locker",
			zap.String("addr", f.redisConfig.Addr()),
			zap.Error(err),
		)
		return NewMemoryLocker(f.options()), func() error { return nil }, nil
	}

	f.logger.Info("Using Redis entity locker", zap.String("addr", f.redisConfig.Addr()))
	return NewRedisLocker(client, f.options(), f.logger), client.Close, nil
}
