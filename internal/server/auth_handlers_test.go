package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	_, app := newTestServer(t)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":        "Maya@Example.com",
		"password":     "hunter22",
		"display_name": "Maya",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody[AuthResponse](t, resp)
	assert.NotEmpty(t, body.Token)
	require.NotNil(t, body.User)
	assert.Equal(t, "maya@example.com", body.User.Email)
	assert.Equal(t, "Maya", body.User.DisplayName)
	assert.NotZero(t, body.User.ID)
}

func TestSignupDuplicateEmail(t *testing.T) {
	_, app := newTestServer(t)
	signupUser(t, app, "maya@example.com", "Maya")

	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":        "maya@example.com",
		"password":     "different1",
		"display_name": "Other Maya",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSignupInvalidPayload(t *testing.T) {
	_, app := newTestServer(t)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"bad email", map[string]string{"email": "not-an-email", "password": "hunter22", "display_name": "Maya"}},
		{"short password", map[string]string{"email": "maya@example.com", "password": "abc", "display_name": "Maya"}},
		{"short display name", map[string]string{"email": "maya@example.com", "password": "hunter22", "display_name": "M"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestLogin(t *testing.T) {
	_, app := newTestServer(t)
	signupUser(t, app, "maya@example.com", "Maya")

	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "MAYA@example.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[AuthResponse](t, resp)
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "maya@example.com", body.User.Email)
}

func TestLoginBadCredentials(t *testing.T) {
	_, app := newTestServer(t)
	signupUser(t, app, "maya@example.com", "Maya")

	// Wrong password and unknown email are indistinguishable.
	wrongPassword := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "maya@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, wrongPassword.StatusCode)

	unknownEmail := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.StatusCode)
}

func TestAuthRequiredRoutes(t *testing.T) {
	_, app := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/users/me"},
		{http.MethodPost, "/api/posts"},
		{http.MethodPost, "/api/posts/1/like"},
		{http.MethodDelete, "/api/posts/1"},
	}
	for _, p := range paths {
		resp := doJSON(t, app, p.method, p.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", p.method, p.path)
	}
}

func TestWebsocketRequiresToken(t *testing.T) {
	_, app := newTestServer(t)

	resp := doJSON(t, app, http.MethodGet, "/api/ws", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGetMyProfile(t *testing.T) {
	_, app := newTestServer(t)
	token, user := signupUser(t, app, "maya@example.com", "Maya")

	resp := doJSON(t, app, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	profile := decodeBody[map[string]any](t, resp)
	assert.Equal(t, float64(user.ID), profile["id"])
	assert.Equal(t, "maya@example.com", profile["email"])
}

func TestGetUserNotFound(t *testing.T) {
	_, app := newTestServer(t)

	resp := doJSON(t, app, http.MethodGet, "/api/users/999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLogout(t *testing.T) {
	_, app := newTestServer(t)
	token, _ := signupUser(t, app, "maya@example.com", "Maya")

	resp := doJSON(t, app, http.MethodPost, "/api/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
