package services

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -source=token_store.go -destination=mock_token_store.go -package=services

// TokenStore remembers revoked token ids until the tokens would have expired anyway.
type TokenStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const revokedKeyPrefix = "doorpro:revoked:"

type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedKeyPrefix+jti, 1, ttl).Err()
}

func (s *RedisTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := s.client.Get(ctx, revokedKeyPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MemoryTokenStore is the single-instance fallback used when Redis is not configured.
// It has no size limit so a revocation is never evicted while its token is still valid.
// Entries expire after maxTTL, the longest token lifetime, so memory is bounded by the
// number of logouts within one token lifetime.
type MemoryTokenStore struct {
	cache *expirable.LRU[string, time.Time]
	now   func() time.Time
}

func NewMemoryTokenStore(maxTTL time.Duration) *MemoryTokenStore {
	return &MemoryTokenStore{
		// size 0 disables count-based eviction
		cache: expirable.NewLRU[string, time.Time](0, nil, maxTTL),
		now:   time.Now,
	}
}

func (s *MemoryTokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.cache.Add(jti, s.now().Add(ttl))
	return nil
}

func (s *MemoryTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	until, ok := s.cache.Get(jti)
	if !ok {
		return false, nil
	}
	if s.now().After(until) {
		s.cache.Remove(jti)
		return false, nil
	}
	return true, nil
}
