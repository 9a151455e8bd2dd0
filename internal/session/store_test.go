package session

import (
	"context"
	"testing"

	"framez/internal/backend"
	"framez/internal/backend/local"
	"framez/internal/database"
	"framez/internal/realtime"
	"framez/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestClient(t *testing.T) *backend.Client {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	bus := realtime.NewBus()
	t.Cleanup(bus.Close)
	return local.New(db, storage.NewDiskStore(t.TempDir(), "http://localhost/storage"), bus, "session-test-secret")
}

func TestStoreStartsLoading(t *testing.T) {
	store := NewStore()
	state := store.Current()
	assert.True(t, state.Loading)
	assert.Nil(t, state.User)
	assert.False(t, state.LoggedIn())
}

func TestSubscribeFiresImmediatelyAndOnChange(t *testing.T) {
	store := NewStore()

	var seen []State
	release := store.Subscribe(func(s State) { seen = append(seen, s) })

	require.Len(t, seen, 1)
	assert.True(t, seen[0].Loading)

	store.Clear()
	require.Len(t, seen, 2)
	assert.False(t, seen[1].Loading)
	assert.Nil(t, seen[1].User)

	release()
	store.Clear()
	assert.Len(t, seen, 2)
}

func TestBootstrapTracksAuthState(t *testing.T) {
	client := newTestClient(t)
	store := NewStore()

	release := Bootstrap(context.Background(), store, client)
	defer release()

	// No persisted session: bootstrap resolves to signed out.
	state := store.Current()
	assert.False(t, state.Loading)
	assert.Nil(t, state.User)

	session, err := client.Auth.SignUp(context.Background(), "alice@example.com", "secret1", "Alice")
	require.NoError(t, err)

	state = store.Current()
	require.NotNil(t, state.User)
	assert.Equal(t, session.User.ID, state.User.ID)
	assert.False(t, state.Loading, "a present user always means loading is over")

	require.NoError(t, client.Auth.SignOut(context.Background()))
	state = store.Current()
	assert.Nil(t, state.User)
	assert.False(t, state.Loading)
}

func TestLogoutClearsStore(t *testing.T) {
	client := newTestClient(t)
	store := NewStore()

	_, err := client.Auth.SignUp(context.Background(), "alice@example.com", "secret1", "Alice")
	require.NoError(t, err)
	store.SetUser(client.Auth.Session().User)

	require.NoError(t, Logout(context.Background(), store, client))

	state := store.Current()
	assert.Nil(t, state.User)
	assert.False(t, state.Loading)
	assert.Nil(t, client.Auth.Session())
}
