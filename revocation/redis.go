package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps every transport-level Redis failure surfaced by
// RedisStore, so callers can distinguish backend outage from a clean
// not-revoked answer.
var ErrRedisUnavailable = errors.New("revocation redis unavailable")

// DefaultRedisPrefix namespaces RedisStore keys when no prefix is configured.
const DefaultRedisPrefix = "gs"

// RedisStore shares revocation state across processes through Redis.
// Token-level entries are plain keys with a native TTL, so they disappear
// on their own and Cleanup is a no-op. Subject revocations live in a set
// with no expiry, matching the persistence rule of the interface.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore wraps an existing client. The prefix namespaces all keys;
// empty means DefaultRedisPrefix.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) tokenKey(tokenID string) string {
	return s.prefix + ":revoked:token:" + tokenID
}

func (s *RedisStore) subjectsKey() string {
	return s.prefix + ":revoked:subjects"
}

// Revoke implements Store. An expiry in the past is recorded as a no-op:
// the token is already dead.
func (s *RedisStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := s.client.Set(ctx, s.tokenKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// IsRevoked implements Store.
func (s *RedisStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.tokenKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return n > 0, nil
}

// RevokeSubject implements Store.
func (s *RedisStore) RevokeSubject(ctx context.Context, subjectID string) error {
	if err := s.client.SAdd(ctx, s.subjectsKey(), subjectID).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// IsSubjectRevoked implements Store.
func (s *RedisStore) IsSubjectRevoked(ctx context.Context, subjectID string) (bool, error) {
	revoked, err := s.client.SIsMember(ctx, s.subjectsKey(), subjectID).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return revoked, nil
}

// ReinstateSubject implements Store.
func (s *RedisStore) ReinstateSubject(ctx context.Context, subjectID string) error {
	if err := s.client.SRem(ctx, s.subjectsKey(), subjectID).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Cleanup implements Store. Redis expires token-level keys itself, so there
// is nothing to sweep.
func (s *RedisStore) Cleanup(context.Context) error {
	return nil
}
