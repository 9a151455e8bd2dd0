package feed

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"framez/internal/backend"
	"framez/internal/models"
)

// View is a live, self-refreshing feed. It holds the latest aggregated
// posts, refreshes when the change stream reports a mutation, and
// guards against out-of-order responses with a per-request sequence
// number: a refresh that finishes after a newer one has already
// applied is discarded.
type View struct {
	client   *backend.Client
	viewerID uint
	userID   uint // 0 means the global feed

	seq atomic.Uint64

	mu      sync.Mutex
	posts   []models.Post
	applied uint64
	nextSub int
	subs    map[int]func([]models.Post)
	release func()
	closed  bool
}

// NewView creates a feed view for viewerID over the global timeline.
func NewView(client *backend.Client, viewerID uint) *View {
	return &View{client: client, viewerID: viewerID, subs: map[int]func([]models.Post){}}
}

// NewProfileView creates a feed view restricted to userID's posts.
func NewProfileView(client *backend.Client, viewerID, userID uint) *View {
	v := NewView(client, viewerID)
	v.userID = userID
	return v
}

// Start performs the initial load and begins following the change
// stream. Every reported mutation on posts, likes or comments triggers
// a refetch; the events carry no row data, so a refresh is always a
// full fetch.
func (v *View) Start(ctx context.Context) error {
	if err := v.Refresh(ctx); err != nil {
		return err
	}

	events, release := v.client.Realtime.Subscribe(ctx)
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		release()
		return nil
	}
	v.release = release
	v.mu.Unlock()

	go func() {
		for range events {
			if err := v.Refresh(ctx); err != nil {
				slog.Warn("feed refresh failed", "error", err)
			}
		}
	}()
	return nil
}

// Refresh refetches all three relations and applies the aggregate,
// unless a newer refresh already landed.
func (v *View) Refresh(ctx context.Context) error {
	seq := v.seq.Add(1)

	posts, err := v.fetchPosts(ctx)
	if err != nil {
		return err
	}
	postIDs := make([]uint, len(posts))
	for i := range posts {
		postIDs[i] = posts[i].ID
	}
	likes, err := v.client.Likes.ListByPosts(ctx, postIDs)
	if err != nil {
		return err
	}
	comments, err := v.client.Comments.ListByPosts(ctx, postIDs)
	if err != nil {
		return err
	}

	aggregated := Aggregate(posts, likes, comments, v.viewerID)

	v.mu.Lock()
	if seq <= v.applied {
		// A later-started refresh already finished; this one is stale.
		v.mu.Unlock()
		return nil
	}
	v.applied = seq
	v.posts = aggregated
	subs := v.snapshotSubs()
	v.mu.Unlock()

	for _, fn := range subs {
		fn(aggregated)
	}
	return nil
}

func (v *View) fetchPosts(ctx context.Context) ([]models.Post, error) {
	if v.userID != 0 {
		return v.client.Posts.ListByUser(ctx, v.userID)
	}
	return v.client.Posts.List(ctx)
}

// Posts returns the latest applied aggregate.
func (v *View) Posts() []models.Post {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.posts
}

// Subscribe registers fn for every applied refresh. The returned func
// removes the subscription.
func (v *View) Subscribe(fn func([]models.Post)) func() {
	v.mu.Lock()
	id := v.nextSub
	v.nextSub++
	v.subs[id] = fn
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
		})
	}
}

// Close detaches the view from the change stream. Idempotent.
func (v *View) Close() {
	v.mu.Lock()
	release := v.release
	v.release = nil
	v.closed = true
	v.mu.Unlock()

	if release != nil {
		release()
	}
}

// snapshotSubs must be called with mu held.
func (v *View) snapshotSubs() []func([]models.Post) {
	out := make([]func([]models.Post), 0, len(v.subs))
	for _, fn := range v.subs {
		out = append(out, fn)
	}
	return out
}
