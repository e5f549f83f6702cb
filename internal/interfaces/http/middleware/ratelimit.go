package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/logger"
	"github.com/rukibhamz/erpsolution-sub000/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Limiter decides whether a caller identified by key may make another request
// in the current window. remaining is the budget left after this request.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining int, err error)
	Limit() int
}

// RateLimiter is a fixed-window limiter kept in process memory
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   int
	window  time.Duration
	nowFn   func() time.Time
}

type client struct {
	tokens    int
	lastReset time.Time
}

// NewRateLimiter creates an in-memory limiter. Stale keys are dropped lazily
// on Allow, so no background goroutine outlives the server.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*client),
		limit:   limit,
		window:  window,
		nowFn:   time.Now,
	}
}

// Limit returns the per-window budget
func (rl *RateLimiter) Limit() int { return rl.limit }

// Allow consumes one token for key
func (rl *RateLimiter) Allow(_ context.Context, key string) (bool, int, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.nowFn()
	if len(rl.clients) > 1024 {
		for k, c := range rl.clients {
			if now.Sub(c.lastReset) > rl.window*2 {
				delete(rl.clients, k)
			}
		}
	}

	c, exists := rl.clients[key]
	if !exists || now.Sub(c.lastReset) >= rl.window {
		rl.clients[key] = &client{tokens: rl.limit - 1, lastReset: now}
		return true, rl.limit - 1, nil
	}
	if c.tokens > 0 {
		c.tokens--
		return true, c.tokens, nil
	}
	return false, 0, nil
}

// RedisRateLimiter shares a fixed-window budget across server replicas
type RedisRateLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

// NewRedisRateLimiter creates a limiter over an existing client
func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, limit: limit, window: window, prefix: "reconcile:ratelimit:"}
}

// Limit returns the per-window budget
func (rl *RedisRateLimiter) Limit() int { return rl.limit }

// Allow increments the window counter; the first hit in a window sets its expiry
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	k := rl.prefix + key
	n, err := rl.client.Incr(ctx, k).Result()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit %s: %w", key, err)
	}
	// Only the first request sets the TTL so the window stays fixed.
	if n == 1 {
		if err := rl.client.PExpire(ctx, k, rl.window).Err(); err != nil {
			return false, 0, fmt.Errorf("rate limit %s: %w", key, err)
		}
	}
	count := int(n)
	if count > rl.limit {
		return false, 0, nil
	}
	return true, rl.limit - count, nil
}

// RateLimitKey identifies a caller by actor when authenticated, else client IP
func RateLimitKey(c *gin.Context) string {
	if actorID := GetActorID(c); actorID != "" {
		return "actor:" + actorID
	}
	return "ip:" + c.ClientIP()
}

// RateLimit returns a rate limiting middleware. Limiter errors let the
// request through and are logged.
func RateLimit(limiter Limiter, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		key := RateLimitKey(c)
		allowed, remaining, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn("Rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				"Too many requests. Please try again later.",
				c.GetString(logger.GinRequestIDKey),
			))
			return
		}
		c.Next()
	}
}
