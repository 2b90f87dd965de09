// Package store persists booking sessions between funnel requests. Sessions
// are transient JSON blobs with a TTL, owned by exactly one user; Redis is
// the primary backend, with an in-process fallback when no Redis is
// reachable so the gateway degrades instead of failing to start.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Poojithanaramala/client/internal/booking"
)

// ErrSessionNotFound is returned when no live session matches the given
// owner and id. Expired sessions are indistinguishable from absent ones.
var ErrSessionNotFound = errors.New("booking session not found")

// SessionStore saves and loads booking sessions. Keys are always scoped by
// the owning username so one user can never read or mutate another's funnel.
//
// LockSubmit atomically claims the right to run one submission for the
// session, returning false when another request already holds the claim.
// Checking the persisted session state alone is a read-modify-write: two
// concurrent submits would both load a submittable session and both proceed.
// The claim expires after ttl so a crashed holder cannot wedge the session.
type SessionStore interface {
	Save(ctx context.Context, sess *booking.Session) error
	Get(ctx context.Context, username, id string) (*booking.Session, error)
	Delete(ctx context.Context, username, id string) error
	LockSubmit(ctx context.Context, username, id string, ttl time.Duration) (bool, error)
	UnlockSubmit(ctx context.Context, username, id string) error
}

// New picks the backend: Redis when a client is available, otherwise an
// in-process store. ttl bounds a session's lifetime in either backend.
func New(rdb *redis.Client, ttl time.Duration) SessionStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if rdb != nil {
		return &redisStore{rdb: rdb, ttl: ttl}
	}
	return &memoryStore{ttl: ttl, entries: map[string]memoryEntry{}, locks: map[string]time.Time{}}
}

func sessionKey(username, id string) string {
	return "booking:session:" + username + ":" + id
}

func submitLockKey(username, id string) string {
	return "booking:submit:" + username + ":" + id
}

// redisStore keeps sessions in Redis under a per-user key with TTL. Each
// Save refreshes the TTL, so an active funnel stays alive.
type redisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func (s *redisStore) Save(ctx context.Context, sess *booking.Session) error {
	buf, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKey(sess.Username, sess.ID), buf, s.ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, username, id string) (*booking.Session, error) {
	buf, err := s.rdb.Get(ctx, sessionKey(username, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	var sess booking.Session
	if err := json.Unmarshal(buf, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *redisStore) Delete(ctx context.Context, username, id string) error {
	return s.rdb.Del(ctx, sessionKey(username, id)).Err()
}

// LockSubmit rides on SET NX, so the claim is atomic across gateway replicas.
func (s *redisStore) LockSubmit(ctx context.Context, username, id string, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, submitLockKey(username, id), 1, ttl).Result()
}

func (s *redisStore) UnlockSubmit(ctx context.Context, username, id string) error {
	return s.rdb.Del(ctx, submitLockKey(username, id)).Err()
}

// memoryStore is the single-process fallback. Expiry is checked lazily on
// Get; Save prunes opportunistically so an abandoned funnel does not pin
// memory forever.
type memoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
	locks   map[string]time.Time
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func (s *memoryStore) Save(ctx context.Context, sess *booking.Session) error {
	buf, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	s.entries[sessionKey(sess.Username, sess.ID)] = memoryEntry{
		data:      buf,
		expiresAt: now.Add(s.ttl),
	}
	return nil
}

func (s *memoryStore) Get(ctx context.Context, username, id string) (*booking.Session, error) {
	s.mu.RLock()
	e, ok := s.entries[sessionKey(username, id)]
	s.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, ErrSessionNotFound
	}
	var sess booking.Session
	if err := json.Unmarshal(e.data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *memoryStore) Delete(ctx context.Context, username, id string) error {
	s.mu.Lock()
	delete(s.entries, sessionKey(username, id))
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) LockSubmit(ctx context.Context, username, id string, ttl time.Duration) (bool, error) {
	now := time.Now()
	key := submitLockKey(username, id)
	s.mu.Lock()
	defer s.mu.Unlock()
	if exp, held := s.locks[key]; held && now.Before(exp) {
		return false, nil
	}
	s.locks[key] = now.Add(ttl)
	return true, nil
}

func (s *memoryStore) UnlockSubmit(ctx context.Context, username, id string) error {
	s.mu.Lock()
	delete(s.locks, submitLockKey(username, id))
	s.mu.Unlock()
	return nil
}
