// Package backend defines the data platform surface the app is built
// against. The app only ever sees these interfaces; whether they are
// served in-process or by a remote gateway is a wiring decision.
package backend

import (
	"context"

	"framez/internal/auth"
	"framez/internal/models"
	"framez/internal/realtime"
)

// PostsAPI reads and writes post rows. Listings are newest first.
type PostsAPI interface {
	List(ctx context.Context) ([]models.Post, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Post, error)
	Insert(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, postID uint) error
}

// LikesAPI reads and writes like rows. Insert is idempotent per
// (post, user); Delete of an absent like is a no-op.
type LikesAPI interface {
	List(ctx context.Context) ([]models.Like, error)
	ListByPosts(ctx context.Context, postIDs []uint) ([]models.Like, error)
	Insert(ctx context.Context, postID, userID uint) error
	Delete(ctx context.Context, postID, userID uint) error
}

// CommentsAPI reads and writes comment rows. ListByPost returns the
// thread newest first.
type CommentsAPI interface {
	List(ctx context.Context) ([]models.Comment, error)
	ListByPosts(ctx context.Context, postIDs []uint) ([]models.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]models.Comment, error)
	Insert(ctx context.Context, comment *models.Comment) error
}

// UsersAPI exposes profile lookups.
type UsersAPI interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// StorageAPI uploads objects and resolves their public URLs.
type StorageAPI interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PublicURL(key string) string
}

// AuthAPI manages credentials and the current session.
type AuthAPI interface {
	SignUp(ctx context.Context, email, password, displayName string) (*auth.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*auth.Session, error)
	SignOut(ctx context.Context) error
	Restore(ctx context.Context, token string) (*auth.Session, error)
	Session() *auth.Session
	OnAuthStateChange(fn auth.Listener) func()
}

// RealtimeAPI streams committed row changes.
type RealtimeAPI interface {
	Subscribe(ctx context.Context) (<-chan realtime.ChangeEvent, func())
}

// Client bundles the full platform surface.
type Client struct {
	Posts    PostsAPI
	Likes    LikesAPI
	Comments CommentsAPI
	Users    UsersAPI
	Storage  StorageAPI
	Auth     AuthAPI
	Realtime RealtimeAPI
}
