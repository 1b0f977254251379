package gemini

import (
	"context"
	"fmt"
	"testing"

	"debteraser/internal/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisSessionStore(client), mr
}

func TestRedisSessionStore_RoundTrip(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	turns, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, turns, "unknown session reads back empty")

	require.NoError(t, store.Append(ctx, "sess-1",
		ChatTurn{Role: "user", Content: "hello"},
		ChatTurn{Role: "assistant", Content: "state your situation"},
	))

	turns, err = store.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "assistant", turns[1].Role)
}

func TestRedisSessionStore_Expiry(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "sess-exp", ChatTurn{Role: "user", Content: "hi"}))
	mr.FastForward(cache.ChatSessionTTL + 1)

	turns, err := store.Get(ctx, "sess-exp")
	require.NoError(t, err)
	assert.Empty(t, turns, "expired session reads back empty")
}

func TestRedisSessionStore_Bounded(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	for i := 0; i < maxSessionTurns+20; i++ {
		require.NoError(t, store.Append(ctx, "sess-big", ChatTurn{
			Role: "user", Content: fmt.Sprintf("turn %d", i),
		}))
	}

	turns, err := store.Get(ctx, "sess-big")
	require.NoError(t, err)
	assert.Len(t, turns, maxSessionTurns)
	assert.Equal(t, "turn 20", turns[0].Content, "oldest turns are dropped first")
}

func TestMemorySessionStore_Bounded(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	for i := 0; i < maxSessionTurns+5; i++ {
		require.NoError(t, store.Append(ctx, "mem-1", ChatTurn{
			Role: "user", Content: fmt.Sprintf("turn %d", i),
		}))
	}

	turns, err := store.Get(ctx, "mem-1")
	require.NoError(t, err)
	assert.Len(t, turns, maxSessionTurns)
	assert.Equal(t, "turn 5", turns[0].Content)
}

func TestMemorySessionStore_IsolatedSessions(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "a", ChatTurn{Role: "user", Content: "for a"}))
	require.NoError(t, store.Append(ctx, "b", ChatTurn{Role: "user", Content: "for b"}))

	turnsA, err := store.Get(ctx, "a")
	require.NoError(t, err)
	require.Len(t, turnsA, 1)
	assert.Equal(t, "for a", turnsA[0].Content)
}
