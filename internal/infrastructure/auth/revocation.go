package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList invalidates tokens before they expire, keyed by token ID.
type RevocationList interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

const revokedKeyPrefix = "reconcile:token:revoked:"

// RedisRevocationList shares revocations across server replicas.
type RedisRevocationList struct {
	client *redis.Client
}

// NewRedisRevocationList uses an existing client
func NewRedisRevocationList(client *redis.Client) *RedisRevocationList {
	return &RedisRevocationList{client: client}
}

// Revoke marks tokenID revoked until ttl elapses.
func (l *RedisRevocationList) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := l.client.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked implements RevocationList
func (l *RedisRevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := l.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

// InMemoryRevocationList is used when Redis is not configured.
type InMemoryRevocationList struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	nowFn   func() time.Time
}

// NewInMemoryRevocationList creates an empty list
func NewInMemoryRevocationList() *InMemoryRevocationList {
	return &InMemoryRevocationList{revoked: make(map[string]time.Time), nowFn: time.Now}
}

// Revoke implements RevocationList
func (l *InMemoryRevocationList) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.revoked[tokenID] = l.nowFn().Add(ttl)
	return nil
}

// IsRevoked implements RevocationList. Expired entries are dropped on read.
func (l *InMemoryRevocationList) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	until, ok := l.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !l.nowFn().Before(until) {
		delete(l.revoked, tokenID)
		return false, nil
	}
	return true, nil
}
