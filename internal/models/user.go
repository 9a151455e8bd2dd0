// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account in the Framez application.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Email       string         `gorm:"unique;not null" json:"email"`
	DisplayName string         `gorm:"not null" json:"display_name"`
	Password    string         `gorm:"not null" json:"-"`
	AvatarURL   string         `json:"avatar_url,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Posts       []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}
