// Package session keeps back-office login sessions.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Session is the server-side state behind a session cookie.
type Session struct {
	ID      string `json:"id"`
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	// Pending is set between the password step and the second-factor step.
	Pending   bool      `json:"pending"`
	CSRFToken string    `json:"csrf_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store persists sessions.
type Store interface {
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	// Get returns nil when the session does not exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// New returns a session with a fresh id and CSRF token.
func New(userID, email string, isAdmin, pending bool, now time.Time, ttl time.Duration) (*Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Email:     email,
		IsAdmin:   isAdmin,
		Pending:   pending,
		CSRFToken: token,
		ExpiresAt: now.Add(ttl).UTC(),
	}, nil
}

func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate csrf token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func key(id string) string {
	return fmt.Sprintf("session:%s", id)
}

// RedisStore keeps sessions in Redis as JSON values with a TTL.
type RedisStore struct {
	Client redis.Cmdable
}

// NewRedisStore returns a session store over client.
func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{Client: client}
}

// Save stores s for ttl.
func (s *RedisStore) Save(ctx context.Context, sess *Session, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.Client.Set(ctx, key(sess.ID), string(data), ttl).Err(); err != nil {
		return fmt.Errorf("failed to set session in redis: %w", err)
	}
	return nil
}

// Get loads a session.
func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	val, err := s.Client.Get(ctx, key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from redis: %w", err)
	}
	var sess Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session from redis: %w", err)
	}
	return &sess, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.Client.Del(ctx, key(id)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to delete session from redis: %w", err)
	}
	return nil
}

// MemoryStore keeps sessions in process memory. Expired entries are
// dropped on access.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

type memoryEntry struct {
	sess    Session
	expires time.Time
}

// NewMemoryStore returns an empty in-process session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry), now: time.Now}
}

// Save stores a copy of sess for ttl.
func (m *MemoryStore) Save(_ context.Context, sess *Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = memoryEntry{sess: *sess, expires: m.now().Add(ttl)}
	return nil
}

// Get returns a copy of the session.
func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	if !m.now().Before(e.expires) {
		delete(m.sessions, id)
		return nil, nil
	}
	sess := e.sess
	return &sess, nil
}

// Delete removes a session.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}
