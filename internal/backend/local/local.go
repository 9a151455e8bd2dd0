// Package local serves the backend surface in-process, straight from
// the database, object store and event bus. It is what the CLI and
// the gateway handlers run on.
package local

import (
	"context"
	"log/slog"

	"framez/internal/auth"
	"framez/internal/backend"
	"framez/internal/models"
	"framez/internal/realtime"
	"framez/internal/repository"
	"framez/internal/storage"

	"gorm.io/gorm"
)

// New wires a backend.Client over the given database, store and
// notifier. The secret signs access tokens.
func New(db *gorm.DB, store storage.Store, notifier realtime.Notifier, secret string) *backend.Client {
	users := repository.NewUserRepository(db)
	return &backend.Client{
		Posts:    &postsAPI{repo: repository.NewPostRepository(db), notifier: notifier},
		Likes:    &likesAPI{repo: repository.NewLikeRepository(db), notifier: notifier},
		Comments: &commentsAPI{repo: repository.NewCommentRepository(db), notifier: notifier},
		Users:    &usersAPI{repo: users},
		Storage:  store,
		Auth:     auth.NewService(users, secret),
		Realtime: notifier,
	}
}

func publish(ctx context.Context, notifier realtime.Notifier, event realtime.ChangeEvent) {
	if notifier == nil {
		return
	}
	if err := notifier.Publish(ctx, event); err != nil {
		slog.Warn("change event publish failed", "relation", event.Relation, "error", err)
	}
}

type postsAPI struct {
	repo     repository.PostRepository
	notifier realtime.Notifier
}

func (a *postsAPI) List(ctx context.Context) ([]models.Post, error) {
	return a.repo.List(ctx)
}

func (a *postsAPI) ListByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	return a.repo.ListByUser(ctx, userID)
}

func (a *postsAPI) Insert(ctx context.Context, post *models.Post) error {
	if err := a.repo.Create(ctx, post); err != nil {
		return err
	}
	publish(ctx, a.notifier, realtime.ChangeEvent{
		Relation: realtime.RelationPosts,
		Action:   realtime.ActionInsert,
		PostID:   post.ID,
		RowID:    post.ID,
	})
	return nil
}

func (a *postsAPI) Delete(ctx context.Context, postID uint) error {
	if err := a.repo.Delete(ctx, postID); err != nil {
		return err
	}
	publish(ctx, a.notifier, realtime.ChangeEvent{
		Relation: realtime.RelationPosts,
		Action:   realtime.ActionDelete,
		PostID:   postID,
		RowID:    postID,
	})
	return nil
}

type likesAPI struct {
	repo     repository.LikeRepository
	notifier realtime.Notifier
}

func (a *likesAPI) List(ctx context.Context) ([]models.Like, error) {
	return a.repo.List(ctx)
}

func (a *likesAPI) ListByPosts(ctx context.Context, postIDs []uint) ([]models.Like, error) {
	return a.repo.ListByPosts(ctx, postIDs)
}

func (a *likesAPI) Insert(ctx context.Context, postID, userID uint) error {
	like := &models.Like{PostID: postID, UserID: userID}
	if err := a.repo.Create(ctx, like); err != nil {
		return err
	}
	publish(ctx, a.notifier, realtime.ChangeEvent{
		Relation: realtime.RelationLikes,
		Action:   realtime.ActionInsert,
		PostID:   postID,
		RowID:    like.ID,
	})
	return nil
}

func (a *likesAPI) Delete(ctx context.Context, postID, userID uint) error {
	if err := a.repo.Delete(ctx, postID, userID); err != nil {
		return err
	}
	publish(ctx, a.notifier, realtime.ChangeEvent{
		Relation: realtime.RelationLikes,
		Action:   realtime.ActionDelete,
		PostID:   postID,
	})
	return nil
}

type commentsAPI struct {
	repo     repository.CommentRepository
	notifier realtime.Notifier
}

func (a *commentsAPI) List(ctx context.Context) ([]models.Comment, error) {
	return a.repo.List(ctx)
}

func (a *commentsAPI) ListByPosts(ctx context.Context, postIDs []uint) ([]models.Comment, error) {
	return a.repo.ListByPosts(ctx, postIDs)
}

func (a *commentsAPI) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	return a.repo.ListByPost(ctx, postID)
}

func (a *commentsAPI) Insert(ctx context.Context, comment *models.Comment) error {
	if err := a.repo.Create(ctx, comment); err != nil {
		return err
	}
	publish(ctx, a.notifier, realtime.ChangeEvent{
		Relation: realtime.RelationComments,
		Action:   realtime.ActionInsert,
		PostID:   comment.PostID,
		RowID:    comment.ID,
	})
	return nil
}

type usersAPI struct {
	repo repository.UserRepository
}

func (a *usersAPI) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return a.repo.GetByID(ctx, id)
}
