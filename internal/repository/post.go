package repository

import (
	"context"

	"framez/internal/cache"
	"framez/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
// List returns raw rows only; counts and viewer state are assembled
// by the reader from the likes and comments relations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Post, error)
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return err
	}
	cache.InvalidateFeed(ctx, post.UserID)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns all posts, newest first. The global listing is the hot
// path behind every feed refresh, so it goes through the cache.
func (r *postRepository) List(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := cache.Aside(ctx, cache.FeedKey(), &posts, cache.FeedTTL, func() error {
		return r.db.WithContext(ctx).Order("created_at DESC").Find(&posts).Error
	})
	return posts, err
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	var posts []models.Post
	err := cache.Aside(ctx, cache.UserFeedKey(userID), &posts, cache.FeedTTL, func() error {
		return r.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Find(&posts).Error
	})
	return posts, err
}

// Delete removes a post together with its likes and comments in a
// single transaction, so readers never observe rows pointing at a
// post that is already gone.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	post, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidateFeed(ctx, post.UserID)
	cache.InvalidateThread(ctx, id)
	return nil
}
