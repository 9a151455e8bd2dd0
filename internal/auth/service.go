package auth

import (
	"context"
	"strings"
	"sync"

	"framez/internal/database"
	"framez/internal/models"
	"framez/internal/repository"
	"framez/internal/validation"
)

// Session is an authenticated session: the signed access token plus the
// user it belongs to.
type Session struct {
	Token string
	User  *models.User
}

// Listener receives the new session on every auth state change. A nil
// session means signed out.
type Listener func(session *Session)

// Service implements email/password auth over the user repository and
// tracks the current session in memory. All methods are safe for
// concurrent use.
type Service struct {
	users  repository.UserRepository
	secret string

	mu        sync.Mutex
	current   *Session
	nextID    int
	listeners map[int]Listener
}

// NewService creates an auth service signing tokens with secret.
func NewService(users repository.UserRepository, secret string) *Service {
	return &Service{
		users:     users,
		secret:    secret,
		listeners: map[int]Listener{},
	}
}

// SignUp registers a new account and signs it in.
func (s *Service) SignUp(ctx context.Context, email, password, displayName string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validation.ValidateDisplayName(displayName); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if existing != nil {
		return nil, models.NewValidationError("Email already registered")
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	user := &models.User{
		Email:       email,
		DisplayName: strings.TrimSpace(displayName),
		Password:    hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, models.NewValidationError("Email already registered")
		}
		return nil, models.NewInternalError(err)
	}
	return s.establish(user)
}

// SignInWithPassword authenticates an existing account. Unknown email
// and wrong password produce the same error so the response does not
// leak which accounts exist.
func (s *Service) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if user == nil || !CheckPassword(user.Password, password) {
		return nil, models.NewUnauthorizedError("Invalid email or password")
	}
	return s.establish(user)
}

// SignOut clears the current session and notifies listeners.
func (s *Service) SignOut(_ context.Context) error {
	s.mu.Lock()
	s.current = nil
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(nil)
	}
	return nil
}

// Session returns the current session, or nil when signed out.
func (s *Service) Session() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Restore validates a previously issued token and reinstates its
// session, the moral equivalent of loading persisted credentials on
// app start.
func (s *Service) Restore(ctx context.Context, token string) (*Session, error) {
	userID, err := ParseToken(s.secret, token)
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, models.NewUnauthorizedError("Account no longer exists")
	}

	session := &Session{Token: token, User: user}
	s.mu.Lock()
	s.current = session
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(session)
	}
	return session, nil
}

// OnAuthStateChange registers a listener and immediately invokes it
// with the current state. The returned func removes the listener.
func (s *Service) OnAuthStateChange(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	current := s.current
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Service) establish(user *models.User) (*Session, error) {
	token, err := IssueToken(s.secret, user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	session := &Session{Token: token, User: user}
	s.mu.Lock()
	s.current = session
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(session)
	}
	return session, nil
}

// snapshotListeners must be called with mu held.
func (s *Service) snapshotListeners() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		out = append(out, fn)
	}
	return out
}
