// Package postcard models the interactive state of a single post: the
// like toggle and its comment thread.
package postcard

import (
	"context"
	"strings"
	"sync"

	"framez/internal/backend"
	"framez/internal/models"
)

// Card wraps one aggregated post for a viewer. Like toggles apply
// optimistically and are reconciled against the backend afterwards;
// the comment thread is fetched lazily on first request. Safe for
// concurrent use.
type Card struct {
	client *backend.Client
	viewer *models.User

	mu           sync.Mutex
	post         models.Post
	thread       []models.Comment
	threadLoaded bool
	draft        string
}

// NewCard creates a card over an aggregated post snapshot.
func NewCard(client *backend.Client, viewer *models.User, post models.Post) *Card {
	return &Card{client: client, viewer: viewer, post: post}
}

// Post returns the current snapshot.
func (c *Card) Post() models.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.post
}

// ToggleLike flips the viewer's like. The flip is applied to local
// state immediately, then the mutation runs, then the real like rows
// are refetched and applied so the card converges on the backend's
// truth even if another device toggled concurrently. A failed
// mutation rolls the flip back.
func (c *Card) ToggleLike(ctx context.Context) error {
	if c.viewer == nil {
		return models.NewUnauthorizedError("Sign in to like posts")
	}

	c.mu.Lock()
	liking := !c.post.UserLiked
	c.applyFlipLocked(liking)
	postID := c.post.ID
	c.mu.Unlock()

	var err error
	if liking {
		err = c.client.Likes.Insert(ctx, postID, c.viewer.ID)
	} else {
		err = c.client.Likes.Delete(ctx, postID, c.viewer.ID)
	}
	if err != nil {
		c.mu.Lock()
		c.applyFlipLocked(!liking)
		c.mu.Unlock()
		return err
	}

	return c.reconcileLikes(ctx, postID)
}

func (c *Card) applyFlipLocked(liked bool) {
	if liked == c.post.UserLiked {
		return
	}
	c.post.UserLiked = liked
	if liked {
		c.post.LikesCount++
	} else if c.post.LikesCount > 0 {
		c.post.LikesCount--
	}
}

// reconcileLikes replaces the optimistic count with the stored rows.
func (c *Card) reconcileLikes(ctx context.Context, postID uint) error {
	likes, err := c.client.Likes.ListByPosts(ctx, []uint{postID})
	if err != nil {
		// The mutation itself succeeded; keep the optimistic state.
		return nil
	}

	count := 0
	liked := false
	for _, like := range likes {
		count++
		if like.UserID == c.viewer.ID {
			liked = true
		}
	}

	c.mu.Lock()
	c.post.LikesCount = count
	c.post.UserLiked = liked
	c.mu.Unlock()
	return nil
}

// Thread returns the comment thread, fetching it on first call.
// Newest comment first.
func (c *Card) Thread(ctx context.Context) ([]models.Comment, error) {
	c.mu.Lock()
	if c.threadLoaded {
		thread := c.thread
		c.mu.Unlock()
		return thread, nil
	}
	postID := c.post.ID
	c.mu.Unlock()

	return c.refetchThread(ctx, postID)
}

func (c *Card) refetchThread(ctx context.Context, postID uint) ([]models.Comment, error) {
	thread, err := c.client.Comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.thread = thread
	c.threadLoaded = true
	c.post.CommentsCount = len(thread)
	c.mu.Unlock()
	return thread, nil
}

// SetCommentDraft replaces the comment box contents.
func (c *Card) SetCommentDraft(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = text
}

// CanSubmitComment reports whether the draft would actually post.
func (c *Card) CanSubmitComment() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewer != nil && strings.TrimSpace(c.draft) != ""
}

// AddComment posts the current draft. A draft that trims to empty is
// inert: no backend call, no error, draft untouched. On success the
// draft clears and the thread refetches.
func (c *Card) AddComment(ctx context.Context) error {
	c.mu.Lock()
	content := strings.TrimSpace(c.draft)
	postID := c.post.ID
	c.mu.Unlock()

	if content == "" {
		return nil
	}
	if c.viewer == nil {
		return models.NewUnauthorizedError("Sign in to comment")
	}

	comment := &models.Comment{
		PostID:   postID,
		UserID:   c.viewer.ID,
		UserName: c.viewer.DisplayName,
		Content:  content,
	}
	if err := c.client.Comments.Insert(ctx, comment); err != nil {
		return err
	}

	c.mu.Lock()
	c.draft = ""
	c.mu.Unlock()

	_, err := c.refetchThread(ctx, postID)
	return err
}
