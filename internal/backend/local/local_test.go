package local

import (
	"context"
	"testing"
	"time"

	"framez/internal/backend"
	"framez/internal/database"
	"framez/internal/models"
	"framez/internal/realtime"
	"framez/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestClient(t *testing.T) (*backend.Client, *realtime.Bus) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	bus := realtime.NewBus()
	t.Cleanup(bus.Close)
	store := storage.NewDiskStore(t.TempDir(), "http://localhost:8480/storage")
	return New(db, store, bus, "local-test-secret"), bus
}

func signUp(t *testing.T, client *backend.Client, email string) *models.User {
	t.Helper()
	session, err := client.Auth.SignUp(context.Background(), email, "secret1", "Someone")
	require.NoError(t, err)
	return session.User
}

func waitEvent(t *testing.T, ch <-chan realtime.ChangeEvent) realtime.ChangeEvent {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change event")
		return realtime.ChangeEvent{}
	}
}

func TestMutationsPublishChangeEvents(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	user := signUp(t, client, "alice@example.com")

	events, release := client.Realtime.Subscribe(ctx)
	defer release()

	post := &models.Post{UserID: user.ID, UserName: user.DisplayName, UserEmail: user.Email, Content: "hello"}
	require.NoError(t, client.Posts.Insert(ctx, post))
	event := waitEvent(t, events)
	assert.Equal(t, realtime.RelationPosts, event.Relation)
	assert.Equal(t, realtime.ActionInsert, event.Action)
	assert.Equal(t, post.ID, event.PostID)

	require.NoError(t, client.Likes.Insert(ctx, post.ID, user.ID))
	event = waitEvent(t, events)
	assert.Equal(t, realtime.RelationLikes, event.Relation)
	assert.Equal(t, post.ID, event.PostID)

	comment := &models.Comment{PostID: post.ID, UserID: user.ID, UserName: user.DisplayName, Content: "hi"}
	require.NoError(t, client.Comments.Insert(ctx, comment))
	event = waitEvent(t, events)
	assert.Equal(t, realtime.RelationComments, event.Relation)
	assert.Equal(t, comment.ID, event.RowID)

	require.NoError(t, client.Posts.Delete(ctx, post.ID))
	event = waitEvent(t, events)
	assert.Equal(t, realtime.RelationPosts, event.Relation)
	assert.Equal(t, realtime.ActionDelete, event.Action)
}

func TestLikeToggleRoundTrip(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()
	user := signUp(t, client, "bob@example.com")

	post := &models.Post{UserID: user.ID, UserName: user.DisplayName, UserEmail: user.Email, Content: "toggle me"}
	require.NoError(t, client.Posts.Insert(ctx, post))

	require.NoError(t, client.Likes.Insert(ctx, post.ID, user.ID))
	likes, err := client.Likes.ListByPosts(ctx, []uint{post.ID})
	require.NoError(t, err)
	require.Len(t, likes, 1)

	require.NoError(t, client.Likes.Delete(ctx, post.ID, user.ID))
	likes, err = client.Likes.ListByPosts(ctx, []uint{post.ID})
	require.NoError(t, err)
	assert.Empty(t, likes)
}

func TestStorageRoundTripThroughClient(t *testing.T) {
	client, _ := newTestClient(t)

	url := client.Storage.PublicURL("1_1700000000000.jpg")
	assert.Equal(t, "http://localhost:8480/storage/1_1700000000000.jpg", url)
}
