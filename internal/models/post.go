// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a feed post. The author's name and email are denormalized
// snapshots taken at creation time, not live references to the users table.
type Post struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UserID    uint   `gorm:"not null;index" json:"user_id"`
	UserName  string `gorm:"not null" json:"user_name"`
	UserEmail string `gorm:"not null" json:"user_email"`
	Content   string `gorm:"type:text" json:"content"`
	ImageURL  string `json:"image_url,omitempty"`
	// LikesCount is not persisted; computed by the feed aggregator
	LikesCount int `gorm:"-" json:"likes_count"`
	// CommentsCount is not persisted; computed by the feed aggregator
	CommentsCount int `gorm:"-" json:"comments_count"`
	// UserLiked indicates whether the requesting viewer liked this post (computed)
	UserLiked bool           `gorm:"-" json:"user_liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
