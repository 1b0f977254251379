// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Membership tiers sold through the funnel.
const (
	MembershipFree      = "free"
	MembershipCommunity = "community"
	MembershipConsult   = "consult"
)

// User represents a funnel lead or paying member. Email is the unique
// identifier; access flags are only ever set server-side after a verified
// payment.
type User struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Email              string         `gorm:"unique;not null" json:"email"`
	Name               string         `json:"name"`
	Password           string         `json:"-"`
	Avatar             string         `json:"avatar"`
	MembershipType     string         `gorm:"default:'free'" json:"membership_type"`
	HasCommunityAccess bool           `gorm:"default:false" json:"has_community_access"`
	HasConsultAccess   bool           `gorm:"default:false" json:"has_consult_access"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
	Posts              []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}
