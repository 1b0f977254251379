package gemini

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"debteraser/internal/cache"

	"github.com/redis/go-redis/v9"
)

// maxSessionTurns caps how much history a single chat session retains. When
// exceeded, the oldest turns are dropped so sessions cannot grow without
// bound.
const maxSessionTurns = 100

// SessionStore holds chat histories keyed by session ID. Histories expire;
// an expired or unknown session reads back as empty.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) ([]ChatTurn, error)
	Append(ctx context.Context, sessionID string, turns ...ChatTurn) error
}

// RedisSessionStore keeps histories in Redis with a sliding TTL, surviving
// process restarts and shared across replicas.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore returns a store backed by the given client.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: cache.ChatSessionTTL}
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) ([]ChatTurn, error) {
	data, err := s.client.Get(ctx, cache.ChatSessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var turns []ChatTurn
	if err := json.Unmarshal(data, &turns); err != nil {
		return nil, err
	}
	return turns, nil
}

func (s *RedisSessionStore) Append(ctx context.Context, sessionID string, turns ...ChatTurn) error {
	history, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	history = append(history, turns...)
	history = trimTurns(history)

	data, err := json.Marshal(history)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cache.ChatSessionKey(sessionID), data, s.ttl).Err()
}

// MemorySessionStore is the in-process fallback used when Redis is not
// configured. Entries expire on read and the store sweeps them on append.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	ttl      time.Duration
}

type memorySession struct {
	turns     []ChatTurn
	expiresAt time.Time
}

// NewMemorySessionStore returns an in-memory store with the standard TTL.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]memorySession),
		ttl:      cache.ChatSessionTTL,
	}
}

func (s *MemorySessionStore) Get(_ context.Context, sessionID string) ([]ChatTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok || time.Now().After(sess.expiresAt) {
		delete(s.sessions, sessionID)
		return nil, nil
	}
	out := make([]ChatTurn, len(sess.turns))
	copy(out, sess.turns)
	return out, nil
}

func (s *MemorySessionStore) Append(_ context.Context, sessionID string, turns ...ChatTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, id)
		}
	}

	sess := s.sessions[sessionID]
	if now.After(sess.expiresAt) {
		sess.turns = nil
	}
	sess.turns = trimTurns(append(sess.turns, turns...))
	sess.expiresAt = now.Add(s.ttl)
	s.sessions[sessionID] = sess
	return nil
}

func trimTurns(turns []ChatTurn) []ChatTurn {
	if len(turns) > maxSessionTurns {
		return turns[len(turns)-maxSessionTurns:]
	}
	return turns
}
