package server

import (
	"context"

	"debteraser/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GrantAccess(ctx context.Context, email, membershipType string) (*models.User, error) {
	args := m.Called(ctx, email, membershipType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) List(ctx context.Context, limit, offset int) ([]models.Post, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Like(ctx context.Context, userID, postID uint) (int64, error) {
	args := m.Called(ctx, userID, postID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockPostRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

// MockChatRepository is a mock of the ChatRepository interface
type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) ListConversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Conversation), args.Error(1)
}

func (m *MockChatRepository) GetConversation(ctx context.Context, id uint) (*models.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Conversation), args.Error(1)
}

func (m *MockChatRepository) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	args := m.Called(ctx, conv)
	return args.Error(0)
}

func (m *MockChatRepository) ListMessages(ctx context.Context, conversationID uint) ([]models.Message, error) {
	args := m.Called(ctx, conversationID)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockChatRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockCatalogRepository is a mock of the CatalogRepository interface
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListModules(ctx context.Context) ([]models.Module, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Module), args.Error(1)
}

func (m *MockCatalogRepository) ListResources(ctx context.Context, category string) ([]models.Resource, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]models.Resource), args.Error(1)
}

func (m *MockCatalogRepository) GetResource(ctx context.Context, id uint) (*models.Resource, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resource), args.Error(1)
}

func (m *MockCatalogRepository) ListEvents(ctx context.Context) ([]models.CalendarEvent, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.CalendarEvent), args.Error(1)
}

func (m *MockCatalogRepository) CreateEvent(ctx context.Context, event *models.CalendarEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
