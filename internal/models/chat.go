// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation is a direct-message thread owned by a member. LastMessage and
// LastMessageTime are a denormalized cache of the newest Message; both are
// written in the same transaction as the message insert so the cache can
// never drift from the messages table.
type Conversation struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	UserID            uint           `gorm:"not null;index" json:"user_id"`
	ParticipantName   string         `json:"participant_name"`
	ParticipantAvatar string         `json:"participant_avatar"`
	LastMessage       string         `json:"last_message"`
	LastMessageTime   time.Time      `json:"last_message_time"`
	UnreadCount       int            `gorm:"default:0" json:"unread_count"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
	Messages          []Message      `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
}

// Message is a single direct message; append-only.
type Message struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ConversationID uint           `gorm:"not null;index" json:"conversation_id"`
	Conversation   *Conversation  `gorm:"foreignKey:ConversationID" json:"conversation,omitempty"`
	SenderID       uint           `gorm:"not null;index" json:"sender_id"`
	Content        string         `gorm:"type:text;not null" json:"content"`
	CreatedAt      time.Time      `json:"created_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
