package redis

// Package redis provides Redis-based adapters for labelboard.

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/target/labelboard/internal/domain/auth"
	"github.com/target/labelboard/internal/ports"
)

// DefaultSessionTTL bounds how long a confirmed user is trusted without asking the backend.
const DefaultSessionTTL = time.Minute

// SessionCache stores user snapshots keyed by a hash of the bearer token.
// Raw tokens never reach Redis.
type SessionCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var _ ports.SessionCache = (*SessionCache)(nil)

// NewSessionCache creates a cache with the default "session:" key prefix.
func NewSessionCache(client redis.UniversalClient, ttl time.Duration) *SessionCache {
	return NewSessionCacheWithPrefix(client, "session:", ttl)
}

// NewSessionCacheWithPrefix creates a cache with a custom key prefix.
func NewSessionCacheWithPrefix(client redis.UniversalClient, prefix string, ttl time.Duration) *SessionCache {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionCache{client: client, prefix: prefix, ttl: ttl}
}

func (s *SessionCache) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return s.prefix + hex.EncodeToString(sum[:])
}

func (s *SessionCache) Put(ctx context.Context, token string, user domainauth.User) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return s.client.Set(ctx, s.key(token), data, s.ttl).Err()
}

func (s *SessionCache) Get(ctx context.Context, token string) (domainauth.User, error) {
	if token == "" {
		return domainauth.User{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.User{}, ErrNotFound
		}
		return domainauth.User{}, fmt.Errorf("redis get: %w", err)
	}

	var user domainauth.User
	if err := json.Unmarshal(data, &user); err != nil {
		return domainauth.User{}, fmt.Errorf("unmarshal user: %w", err)
	}
	return user, nil
}

func (s *SessionCache) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.client.Del(ctx, s.key(token)).Err()
}

// ErrNotFound is returned when no snapshot exists for a token.
type notFoundError struct{}

func (notFoundError) Error() string { return "session not found" }

var ErrNotFound error = notFoundError{}
