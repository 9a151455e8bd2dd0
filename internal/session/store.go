// Package session tracks who is signed in on this device.
package session

import (
	"context"
	"log/slog"
	"sync"

	"framez/internal/auth"
	"framez/internal/backend"
	"framez/internal/models"
)

// State is a snapshot of the viewer's sign-in state. Loading is true
// only while the initial session restore is still in flight; once a
// user is present Loading is always false, and a nil User with
// Loading false means signed out.
type State struct {
	User    *models.User
	Loading bool
}

// LoggedIn reports whether a viewer is present.
func (s State) LoggedIn() bool {
	return s.User != nil
}

// Store holds the current State and notifies subscribers on change.
// Safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	state  State
	nextID int
	subs   map[int]func(State)
}

// NewStore creates a store in the initial loading state.
func NewStore() *Store {
	return &Store{
		state: State{Loading: true},
		subs:  map[int]func(State){},
	}
}

// Current returns the latest snapshot.
func (s *Store) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetUser records a signed-in viewer and ends loading.
func (s *Store) SetUser(user *models.User) {
	s.apply(State{User: user})
}

// Clear records a signed-out state and ends loading.
func (s *Store) Clear() {
	s.apply(State{})
}

// Subscribe registers fn and immediately invokes it with the current
// state. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	current := s.state
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) apply(next State) {
	s.mu.Lock()
	s.state = next
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}

// Logout signs out through the backend and clears the store. On
// failure the store is left untouched and the error goes back to the
// caller to surface; navigation is the caller's job.
func Logout(ctx context.Context, store *Store, client *backend.Client) error {
	if err := client.Auth.SignOut(ctx); err != nil {
		return err
	}
	store.Clear()
	return nil
}

// Bootstrap binds the store to auth state changes: on sign-in the
// viewer's profile is fetched fresh, on sign-out the store clears.
// The returned func detaches the store from auth.
func Bootstrap(ctx context.Context, store *Store, client *backend.Client) func() {
	return client.Auth.OnAuthStateChange(func(sess *auth.Session) {
		if sess == nil || sess.User == nil {
			store.Clear()
			return
		}
		user, err := client.Users.GetByID(ctx, sess.User.ID)
		if err != nil {
			// The token user is still good enough to render with.
			slog.Warn("profile refresh failed", "user_id", sess.User.ID, "error", err)
			store.SetUser(sess.User)
			return
		}
		store.SetUser(user)
	})
}
