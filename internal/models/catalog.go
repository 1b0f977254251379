package models

import (
	"time"

	"gorm.io/gorm"
)

// Module is a classroom video lesson.
type Module struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	VideoURL    string         `json:"video_url"`
	Duration    string         `json:"duration"`
	OrderIndex  int            `gorm:"index" json:"order_index"`
	Locked      bool           `gorm:"default:false" json:"locked"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Resource is a downloadable vault document.
type Resource struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	FileType    string         `json:"file_type"`
	FileURL     string         `json:"file_url"`
	Category    string         `gorm:"index" json:"category"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Calendar event types.
const (
	EventTypeLive = "LIVE"
	EventTypeDrop = "DROP"
)

// CalendarEvent is a scheduled live call or content drop.
type CalendarEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Date        time.Time      `gorm:"not null;index" json:"date"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
