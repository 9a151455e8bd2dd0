package models

import "time"

// Like represents a user's like on a post.
// The combination of UserID and PostID must be unique; likes are hard
// deleted so a toggle leaves no soft-deleted residue behind the unique index.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_user" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
