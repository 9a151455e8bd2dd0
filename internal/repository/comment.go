package repository

import (
	"context"

	"framez/internal/cache"
	"framez/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	List(ctx context.Context) ([]models.Comment, error)
	ListByPosts(ctx context.Context, postIDs []uint) ([]models.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return err
	}
	cache.InvalidateThread(ctx, comment.PostID)
	return nil
}

func (r *commentRepository) List(ctx context.Context) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).Find(&comments).Error
	return comments, err
}

func (r *commentRepository) ListByPosts(ctx context.Context, postIDs []uint) ([]models.Comment, error) {
	if len(postIDs) == 0 {
		return []models.Comment{}, nil
	}
	var comments []models.Comment
	err := r.db.WithContext(ctx).Where("post_id IN ?", postIDs).Find(&comments).Error
	return comments, err
}

// ListByPost returns the full thread for one post, newest comment first.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := cache.Aside(ctx, cache.ThreadKey(postID), &comments, cache.ThreadTTL, func() error {
		return r.db.WithContext(ctx).
			Where("post_id = ?", postID).
			Order("created_at DESC").
			Find(&comments).Error
	})
	return comments, err
}
