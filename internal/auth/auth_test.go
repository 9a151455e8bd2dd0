package auth

import (
	"context"
	"testing"

	"framez/internal/database"
	"framez/internal/models"
	"framez/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret-for-auth"

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return NewService(repository.NewUserRepository(db), testSecret)
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := IssueToken(testSecret, 42)
	require.NoError(t, err)

	userID, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := IssueToken(testSecret, 1)
	require.NoError(t, err)

	_, err = ParseToken("some-other-secret", token)
	assert.Error(t, err)
}

func TestIssueTokenRequiresSecret(t *testing.T) {
	_, err := IssueToken("", 1)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hashed)
	assert.True(t, CheckPassword(hashed, "hunter22"))
	assert.False(t, CheckPassword(hashed, "hunter23"))
}

func TestSignUpAndSignIn(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	session, err := svc.SignUp(ctx, "Alice@Example.com", "secret1", "Alice")
	require.NoError(t, err)
	require.NotNil(t, session.User)
	assert.Equal(t, "alice@example.com", session.User.Email)
	assert.NotEmpty(t, session.Token)
	assert.NotEqual(t, "secret1", session.User.Password, "password must be stored hashed")

	require.NoError(t, svc.SignOut(ctx))
	assert.Nil(t, svc.Session())

	session, err = svc.SignInWithPassword(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", session.User.DisplayName)
	assert.Same(t, session, svc.Session())
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "bob@example.com", "secret1", "Bob")
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, "bob@example.com", "secret2", "Bobby")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestSignInWrongCredentialsAreIndistinguishable(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "carol@example.com", "secret1", "Carol")
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(ctx))

	_, errWrongPassword := svc.SignInWithPassword(ctx, "carol@example.com", "nope")
	_, errUnknownEmail := svc.SignInWithPassword(ctx, "ghost@example.com", "nope")

	var a, b *models.AppError
	require.ErrorAs(t, errWrongPassword, &a)
	require.ErrorAs(t, errUnknownEmail, &b)
	assert.Equal(t, a.Message, b.Message)
}

func TestOnAuthStateChange(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var seen []*Session
	release := svc.OnAuthStateChange(func(s *Session) {
		seen = append(seen, s)
	})

	// Registration fires immediately with the current (signed out) state.
	require.Len(t, seen, 1)
	assert.Nil(t, seen[0])

	_, err := svc.SignUp(ctx, "dave@example.com", "secret1", "Dave")
	require.NoError(t, err)
	require.Len(t, seen, 2)
	require.NotNil(t, seen[1])
	assert.Equal(t, "dave@example.com", seen[1].User.Email)

	require.NoError(t, svc.SignOut(ctx))
	require.Len(t, seen, 3)
	assert.Nil(t, seen[2])

	release()
	release() // idempotent
	_, err = svc.SignInWithPassword(ctx, "dave@example.com", "secret1")
	require.NoError(t, err)
	assert.Len(t, seen, 3, "released listener must not fire")
}

func TestRestore(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	session, err := svc.SignUp(ctx, "erin@example.com", "secret1", "Erin")
	require.NoError(t, err)
	token := session.Token
	require.NoError(t, svc.SignOut(ctx))

	restored, err := svc.Restore(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "erin@example.com", restored.User.Email)
	assert.Same(t, restored, svc.Session())

	_, err = svc.Restore(ctx, "garbage.token.here")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
}
