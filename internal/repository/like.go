package repository

import (
	"context"

	"framez/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	Create(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, postID, userID uint) error
	List(ctx context.Context) ([]models.Like, error)
	ListByPosts(ctx context.Context, postIDs []uint) ([]models.Like, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Create inserts a like. A second like from the same user on the same
// post hits the (post_id, user_id) unique index and is dropped without
// error, which keeps a double tap idempotent.
func (r *likeRepository) Create(ctx context.Context, like *models.Like) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(like).Error
	return err
}

// Delete removes the like for (postID, userID). Deleting a like that
// does not exist is a no-op, not an error.
func (r *likeRepository) Delete(ctx context.Context, postID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Like{}).Error
}

func (r *likeRepository) List(ctx context.Context) ([]models.Like, error) {
	var likes []models.Like
	err := r.db.WithContext(ctx).Find(&likes).Error
	return likes, err
}

func (r *likeRepository) ListByPosts(ctx context.Context, postIDs []uint) ([]models.Like, error) {
	if len(postIDs) == 0 {
		return []models.Like{}, nil
	}
	var likes []models.Like
	err := r.db.WithContext(ctx).Where("post_id IN ?", postIDs).Find(&likes).Error
	return likes, err
}
