package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"debteraser/internal/gemini"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failingAIClient(t *testing.T) *gemini.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model offline", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	return gemini.NewClient("test-key", slog.New(slog.NewTextHandler(io.Discard, nil)), gemini.WithBaseURL(srv.URL))
}

func eightAnswers() []map[string]string {
	answers := make([]map[string]string, 0, 8)
	for i := 0; i < 8; i++ {
		answers = append(answers, map[string]string{
			"question": "Deep dive question",
			"answer":   "An honest answer",
		})
	}
	return answers
}

func TestAnalyzeQuiz_ForcedFailure_CompleteRecord(t *testing.T) {
	app := fiber.New()
	s := &Server{ai: failingAIClient(t)}
	app.Post("/analyze-quiz", s.AnalyzeQuiz)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/analyze-quiz", map[string]any{
		"answers": eightAnswers(),
	}))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body gemini.Result
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Degraded)
	assert.NotEmpty(t, body.Archetype)
	assert.NotEmpty(t, body.Plan)
	assert.NotEmpty(t, body.PDFStack)
}

func TestAnalyzeQuiz_InvalidBody(t *testing.T) {
	app := fiber.New()
	s := &Server{ai: failingAIClient(t)}
	app.Post("/analyze-quiz", s.AnalyzeQuiz)

	for _, body := range []any{
		map[string]string{"answers": "not-a-list"},
		map[string]any{},
		map[string]any{"answers": []map[string]string{{"question": "", "answer": "x"}}},
	} {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/analyze-quiz", body))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	}
}

func TestChat_SessionRecordsBothTurnsInOrder(t *testing.T) {
	app := fiber.New()
	store := gemini.NewMemorySessionStore()
	s := &Server{ai: failingAIClient(t), sessions: store}
	app.Post("/chat", s.Chat)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/chat", map[string]string{
		"message":   "How do I dispute this collection?",
		"sessionId": "sess-war-room",
	}))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Reply     string `json:"reply"`
		SessionID string `json:"sessionId"`
		Degraded  bool   `json:"degraded"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "sess-war-room", body.SessionID)
	assert.True(t, body.Degraded)
	assert.Equal(t, gemini.ChatFallbackReply, body.Reply)

	// Even under forced failure the session log keeps one user entry and one
	// non-empty assistant entry, in order.
	turns, err := store.Get(context.Background(), "sess-war-room")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "user", turns[0].Role)
	assert.Equal(t, "How do I dispute this collection?", turns[0].Content)
	assert.Equal(t, "assistant", turns[1].Role)
	assert.NotEmpty(t, turns[1].Content)
}

func TestChat_GeneratesSessionID(t *testing.T) {
	app := fiber.New()
	s := &Server{ai: failingAIClient(t), sessions: gemini.NewMemorySessionStore()}
	app.Post("/chat", s.Chat)

	mintSession := func() string {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/chat", map[string]string{
			"message": "hello",
		}))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		id, _ := body["sessionId"].(string)
		return id
	}

	first := mintSession()
	second := mintSession()

	// Minted ids are UUIDs, so back-to-back first turns never share a
	// transcript in the store.
	_, err := uuid.Parse(first)
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestChat_MissingMessage(t *testing.T) {
	app := fiber.New()
	s := &Server{ai: failingAIClient(t), sessions: gemini.NewMemorySessionStore()}
	app.Post("/chat", s.Chat)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/chat", map[string]string{}))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
