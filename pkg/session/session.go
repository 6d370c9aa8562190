// Package session keeps login sessions in Redis.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// ErrNotFound indicates the session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Store creates and resolves sessions.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore returns a Store whose sessions live for ttl.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// TTL is the lifetime of a new session.
func (s *Store) TTL() time.Duration { return s.ttl }

// Create starts a session for user and returns its id.
func (s *Store) Create(ctx context.Context, user string) (string, error) {
	sid := uuid.NewString()
	if err := s.rdb.Set(ctx, keyPrefix+sid, user, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return sid, nil
}

// User returns the user owning the session sid.
func (s *Store) User(ctx context.Context, sid string) (string, error) {
	user, err := s.rdb.Get(ctx, keyPrefix+sid).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("load session: %w", err)
	}
	if user == "" {
		return "", ErrNotFound
	}
	return user, nil
}
