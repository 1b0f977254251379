package repository

import (
	"context"
	"errors"
	"time"

	"debteraser/internal/models"

	"gorm.io/gorm"
)

// ChatRepository defines persistence operations for the messenger.
type ChatRepository interface {
	ListConversations(ctx context.Context, userID uint) ([]models.Conversation, error)
	GetConversation(ctx context.Context, id uint) (*models.Conversation, error)
	CreateConversation(ctx context.Context, conv *models.Conversation) error
	ListMessages(ctx context.Context, conversationID uint) ([]models.Message, error)
	CreateMessage(ctx context.Context, msg *models.Message) error
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository returns a new ChatRepository implementation.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) ListConversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_message_time DESC").
		Find(&convs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return convs, nil
}

func (r *chatRepository) GetConversation(ctx context.Context, id uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.WithContext(ctx).First(&conv, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Conversation", id)
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &conv, nil
}

func (r *chatRepository) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	if conv.LastMessageTime.IsZero() {
		conv.LastMessageTime = time.Now()
	}
	if err := r.db.WithContext(ctx).Create(conv).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *chatRepository) ListMessages(ctx context.Context, conversationID uint) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return msgs, nil
}

// CreateMessage inserts the message and refreshes the conversation's
// denormalized last-message columns in one transaction, so the preview a
// client reads from the conversation list never drifts from the message log.
func (r *chatRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conv models.Conversation
		if err := tx.First(&conv, msg.ConversationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Conversation", msg.ConversationID)
			}
			return err
		}
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", msg.ConversationID).
			Updates(map[string]interface{}{
				"last_message":      msg.Content,
				"last_message_time": msg.CreatedAt,
			}).Error
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return models.NewInternalError(err)
	}
	return nil
}
