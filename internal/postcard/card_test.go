package postcard

import (
	"context"
	"errors"
	"testing"

	"framez/internal/backend"
	"framez/internal/backend/local"
	"framez/internal/database"
	"framez/internal/feed"
	"framez/internal/models"
	"framez/internal/realtime"
	"framez/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestClient(t *testing.T) (*backend.Client, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	bus := realtime.NewBus()
	t.Cleanup(bus.Close)
	return local.New(db, storage.NewDiskStore(t.TempDir(), "http://localhost/storage"), bus, "postcard-test-secret"), db
}

func setupCard(t *testing.T) (*backend.Client, *models.User, *Card, *gorm.DB) {
	t.Helper()
	client, db := newTestClient(t)
	ctx := context.Background()

	session, err := client.Auth.SignUp(ctx, "alice@example.com", "secret1", "Alice")
	require.NoError(t, err)
	viewer := session.User

	post := &models.Post{UserID: viewer.ID, UserName: viewer.DisplayName, UserEmail: viewer.Email, Content: "a post"}
	require.NoError(t, client.Posts.Insert(ctx, post))

	posts, err := client.Posts.List(ctx)
	require.NoError(t, err)
	aggregated := feed.Aggregate(posts, nil, nil, viewer.ID)
	require.Len(t, aggregated, 1)

	return client, viewer, NewCard(client, viewer, aggregated[0]), db
}

func TestToggleLikeOnThenOff(t *testing.T) {
	client, viewer, card, _ := setupCard(t)
	ctx := context.Background()

	require.NoError(t, card.ToggleLike(ctx))
	snap := card.Post()
	assert.True(t, snap.UserLiked)
	assert.Equal(t, 1, snap.LikesCount)

	likes, err := client.Likes.ListByPosts(ctx, []uint{snap.ID})
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, viewer.ID, likes[0].UserID)

	require.NoError(t, card.ToggleLike(ctx))
	snap = card.Post()
	assert.False(t, snap.UserLiked)
	assert.Equal(t, 0, snap.LikesCount)

	likes, err = client.Likes.ListByPosts(ctx, []uint{snap.ID})
	require.NoError(t, err)
	assert.Empty(t, likes)
}

func TestToggleLikeReconcilesOtherViewersLikes(t *testing.T) {
	client, _, card, _ := setupCard(t)
	ctx := context.Background()

	other, err := client.Auth.SignUp(ctx, "bob@example.com", "secret1", "Bob")
	require.NoError(t, err)
	require.NoError(t, client.Likes.Insert(ctx, card.Post().ID, other.User.ID))

	// The card was built before Bob's like; the reconcile pass after
	// the toggle picks it up.
	require.NoError(t, card.ToggleLike(ctx))
	snap := card.Post()
	assert.True(t, snap.UserLiked)
	assert.Equal(t, 2, snap.LikesCount)
}

type failingLikes struct {
	backend.LikesAPI
}

func (f *failingLikes) Insert(context.Context, uint, uint) error {
	return errors.New("backend down")
}

func TestToggleLikeRollsBackOnFailure(t *testing.T) {
	client, _, card, _ := setupCard(t)
	client.Likes = &failingLikes{LikesAPI: client.Likes}

	err := card.ToggleLike(context.Background())
	require.Error(t, err)

	snap := card.Post()
	assert.False(t, snap.UserLiked)
	assert.Equal(t, 0, snap.LikesCount)
}

func TestToggleLikeRequiresViewer(t *testing.T) {
	client, _, card, _ := setupCard(t)
	anon := NewCard(client, nil, card.Post())

	err := anon.ToggleLike(context.Background())
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}

func TestThreadIsLazyAndNewestFirst(t *testing.T) {
	client, viewer, card, db := setupCard(t)
	ctx := context.Background()

	postID := card.Post().ID
	older := &models.Comment{PostID: postID, UserID: viewer.ID, UserName: viewer.DisplayName, Content: "older"}
	newer := &models.Comment{PostID: postID, UserID: viewer.ID, UserName: viewer.DisplayName, Content: "newer"}
	require.NoError(t, client.Comments.Insert(ctx, older))
	require.NoError(t, client.Comments.Insert(ctx, newer))

	require.NoError(t, db.Model(older).Update("created_at", "2024-01-01 10:00:00").Error)
	require.NoError(t, db.Model(newer).Update("created_at", "2024-01-02 10:00:00").Error)

	thread, err := card.Thread(ctx)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, "newer", thread[0].Content)
	assert.Equal(t, "older", thread[1].Content)
	assert.Equal(t, 2, card.Post().CommentsCount)
}

func TestAddCommentEmptyDraftIsInert(t *testing.T) {
	client, _, card, _ := setupCard(t)
	ctx := context.Background()

	card.SetCommentDraft("   \n ")
	assert.False(t, card.CanSubmitComment())
	require.NoError(t, card.AddComment(ctx))

	comments, err := client.Comments.ListByPost(ctx, card.Post().ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestAddComment(t *testing.T) {
	_, _, card, _ := setupCard(t)
	ctx := context.Background()

	card.SetCommentDraft("  first!  ")
	assert.True(t, card.CanSubmitComment())
	require.NoError(t, card.AddComment(ctx))

	thread, err := card.Thread(ctx)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, "first!", thread[0].Content)
	assert.Equal(t, "Alice", thread[0].UserName)
	assert.Equal(t, 1, card.Post().CommentsCount)

	// Draft cleared after a successful post.
	assert.False(t, card.CanSubmitComment())
}
