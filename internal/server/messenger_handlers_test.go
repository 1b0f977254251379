package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"debteraser/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetConversations(t *testing.T) {
	mockRepo := new(MockChatRepository)
	mockRepo.On("ListConversations", mock.Anything, uint(5)).Return([]models.Conversation{
		{ID: 2, ParticipantName: "Coach Marcus", LastMessage: "See you at the live call", LastMessageTime: time.Now()},
		{ID: 1, ParticipantName: "Support", LastMessage: "Resolved", LastMessageTime: time.Now().Add(-time.Hour)},
	}, nil)

	s := &Server{chatRepo: mockRepo}
	app := newAuthedApp(s, 5)
	app.Get("/messenger/conversations", s.GetConversations)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/messenger/conversations", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var convs []models.Conversation
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&convs))
	require.Len(t, convs, 2)
	assert.Equal(t, "Coach Marcus", convs[0].ParticipantName)
}

func TestGetConversations_ForeignUserIDRejected(t *testing.T) {
	mockRepo := new(MockChatRepository)

	s := &Server{chatRepo: mockRepo}
	app := newAuthedApp(s, 5)
	app.Get("/messenger/conversations", s.GetConversations)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/messenger/conversations?userId=9", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	mockRepo.AssertNotCalled(t, "ListConversations", mock.Anything, mock.Anything)
}

func TestGetConversations_OwnUserIDAccepted(t *testing.T) {
	mockRepo := new(MockChatRepository)
	mockRepo.On("ListConversations", mock.Anything, uint(5)).Return([]models.Conversation{}, nil)

	s := &Server{chatRepo: mockRepo}
	app := newAuthedApp(s, 5)
	app.Get("/messenger/conversations", s.GetConversations)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/messenger/conversations?userId=5", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockRepo.AssertExpectations(t)
}

func TestSendMessage(t *testing.T) {
	mockRepo := new(MockChatRepository)
	mockRepo.On("GetConversation", mock.Anything, uint(2)).
		Return(&models.Conversation{ID: 2, UserID: 5}, nil)
	mockRepo.On("CreateMessage", mock.Anything, mock.MatchedBy(func(m *models.Message) bool {
		return m.ConversationID == 2 && m.SenderID == 5 && m.Content == "Letters went out today"
	})).Return(nil)

	s := &Server{chatRepo: mockRepo}
	app := newAuthedApp(s, 5)
	app.Post("/messenger/messages", s.SendMessage)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/messenger/messages", map[string]any{
		"conversationId": 2,
		"content":        "Letters went out today",
	}))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	mockRepo.AssertExpectations(t)
}

func TestSendMessage_NotYourConversation(t *testing.T) {
	mockRepo := new(MockChatRepository)
	mockRepo.On("GetConversation", mock.Anything, uint(2)).
		Return(&models.Conversation{ID: 2, UserID: 99}, nil)

	s := &Server{chatRepo: mockRepo}
	app := newAuthedApp(s, 5)
	app.Post("/messenger/messages", s.SendMessage)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/messenger/messages", map[string]any{
		"conversationId": 2,
		"content":        "intrusion",
	}))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	mockRepo.AssertNotCalled(t, "CreateMessage", mock.Anything, mock.Anything)
}

func TestSendMessage_MissingFields(t *testing.T) {
	s := &Server{chatRepo: new(MockChatRepository)}
	app := newAuthedApp(s, 5)
	app.Post("/messenger/messages", s.SendMessage)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/messenger/messages", map[string]any{
		"content": "no conversation",
	}))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetMessages(t *testing.T) {
	mockRepo := new(MockChatRepository)
	mockRepo.On("GetConversation", mock.Anything, uint(2)).
		Return(&models.Conversation{ID: 2, UserID: 5}, nil)
	mockRepo.On("ListMessages", mock.Anything, uint(2)).Return([]models.Message{
		{ID: 1, ConversationID: 2, SenderID: 5, Content: "first"},
		{ID: 2, ConversationID: 2, SenderID: 0, Content: "second"},
	}, nil)

	s := &Server{chatRepo: mockRepo}
	app := newAuthedApp(s, 5)
	app.Get("/messenger/conversations/:id/messages", s.GetMessages)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/messenger/conversations/2/messages", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var msgs []models.Message
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&msgs))
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Content)
}

func TestCreateConversation(t *testing.T) {
	mockRepo := new(MockChatRepository)
	mockRepo.On("CreateConversation", mock.Anything, mock.MatchedBy(func(cv *models.Conversation) bool {
		return cv.UserID == 5 && cv.ParticipantName == "Coach Marcus"
	})).Return(nil)

	s := &Server{chatRepo: mockRepo}
	app := newAuthedApp(s, 5)
	app.Post("/messenger/conversations", s.CreateConversation)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/messenger/conversations", map[string]string{
		"participant_name": "Coach Marcus",
	}))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	mockRepo.AssertExpectations(t)
}
